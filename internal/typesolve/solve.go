package typesolve

import (
	"golang.org/x/exp/maps"

	"tyde/internal/dalvik"
	"tyde/internal/decode"
	"tyde/internal/ir"
	"tyde/internal/vartype"
)

// Input bundles everything C6 needs about one decoded method.
type Input struct {
	Body             *ir.Body
	AmbiguousSources []decode.Seed
	AmbiguousDests   []decode.Seed

	// ParamTypes are the declared, non-receiver argument types in
	// register order; IsInstanceMethod prepends the implicit receiver.
	ParamTypes       []vartype.Type
	IsInstanceMethod bool
	RegistersSize    int
	InsSize          int
}

// Result reports how many inequalities resolved to a type conflict —
// informational only; the body's IR is always fully written back.
type Result struct {
	Conflicts int
}

// Solve runs the whole of C6 over in.Body in place.
func Solve(in Input) Result {
	first := firstReal(in.Body)
	argInsns := initArgs(in, first)

	g := newGraph()

	for _, seed := range in.AmbiguousSources {
		v := g.variable(seed.Insn, seed.Reg, true)
		g.backDFS(seed.Insn, seed.Reg, v, 0)
	}
	for _, seed := range in.AmbiguousDests {
		v := g.variable(seed.Insn, seed.Reg, false)
		g.forwardDFS(seed.Insn, seed.Reg, v, 0)
	}
	g.addInitialConstraints(in.Body)

	g.saturate()
	g.residualClosure()
	g.writeBack()

	finalize(in.Body, first, argInsns)

	return Result{Conflicts: g.conflicts}
}

// firstReal returns the first non-sentinel instruction, the one the
// synthetic argument-definitions attach to as predecessors.
func firstReal(body *ir.Body) *ir.Insn {
	for i := 0; i < body.Len(); i++ {
		if body.At(i).Op != dalvik.SyntheticNopSentinel {
			return body.At(i)
		}
	}
	return body.At(0)
}

// initArgs appends one synthetic argument-defining instruction per
// incoming register (receiver included for instance methods) and wires
// each as a predecessor of the method's first real instruction.
func initArgs(in Input, first *ir.Insn) []*ir.Insn {
	reg := in.RegistersSize - in.InsSize
	var argInsns []*ir.Insn

	appendArg := func(t vartype.Type, width int) {
		a := ir.NewInsn(dalvik.SyntheticArgDef, -1)
		a.IsArgDef = true
		a.SetDestination(reg, t)
		in.Body.Append(a)
		first.Predecessors = append(first.Predecessors, a)
		argInsns = append(argInsns, a)
		reg += width
	}

	if in.IsInstanceMethod {
		appendArg(vartype.New(vartype.NonArrayObject), 1)
	}
	for _, pt := range in.ParamTypes {
		appendArg(pt, pt.Width())
	}
	return argInsns
}

// finalize detaches the synthetic argument-definitions from the first
// real instruction's predecessor list and drops them from the body.
func finalize(body *ir.Body, first *ir.Insn, argInsns []*ir.Insn) {
	for range argInsns {
		first.PopPredecessor()
	}
	body.RemoveTrailing(len(argInsns))
}

// saturate runs Phase 1: propagate merges along dirty inequalities until
// none remain.
func (g *graph) saturate() {
	for len(g.dirty) > 0 {
		e := g.dirty[0]
		g.dirty = g.dirty[1:]

		m := vartype.Merge(e.L.typ, e.R.typ)
		if m.Kind == vartype.Conflict {
			g.conflicts++
			continue
		}
		if e.R.kind == kindConstant {
			continue
		}
		if !typesEqual(m, e.R.typ) {
			g.setType(e.R, m)
		}
	}
}

// setType refines n's type, requeuing every inequality where n feeds
// another node (n as L) and cascading to any projected nodes mirroring n.
func (g *graph) setType(n *node, t vartype.Type) {
	n.typ = t
	g.dirty = append(g.dirty, g.byAsL[n]...)
	for _, p := range g.projections[n] {
		cand := adjustDim(t, p.dimDelta)
		if !typesEqual(cand, p.typ) {
			g.setType(p, cand)
		}
	}
}

// residualClosure runs Phase 2: tentatively type still-unknown variables
// from whatever concrete information their inequalities carry, then
// default whatever remains.
func (g *graph) residualClosure() {
	nodes := maps.Values(g.vars)

	progress := true
	for progress {
		progress = false
		for _, n := range nodes {
			if n.kind != kindVariable || !n.typ.IsUnknown() {
				continue
			}
			if cand, ok := g.tryResolve(n); ok {
				g.setType(n, cand)
				g.saturate()
				progress = true
			}
		}
	}

	for _, n := range nodes {
		if isAmbiguousKind(n.typ.Kind) {
			g.setType(n, vartype.DefaultFor(n.typ.Kind))
		}
	}
	g.saturate()
}

// tryResolve looks for a right-hand inequality of n carrying a concrete
// constraint and proposes the matching tentative type, accepting it only
// if it would not merge to conflict.
func (g *graph) tryResolve(n *node) (vartype.Type, bool) {
	for _, e := range g.byAsL[n] {
		r := e.R.typ
		if r.IsUnknown() {
			continue
		}
		var candidate vartype.Type
		switch {
		case r.IsIntSubtype():
			candidate = vartype.New(vartype.Boolean)
		case r.IsFloat():
			candidate = vartype.New(vartype.Float)
		case r.IsLong():
			candidate = vartype.New(vartype.Long)
		case r.IsDouble():
			candidate = vartype.New(vartype.Double)
		case r.IsObject():
			candidate = vartype.New(vartype.Object)
		default:
			continue
		}
		if vartype.Merge(candidate, r).Kind != vartype.Conflict {
			return candidate, true
		}
	}
	return vartype.Type{}, false
}

// writeBack pushes every resolved variable's type into its IR-insn
// operand, skipping operands the decoder already pinned to a concrete
// (non-ambiguous) type.
func (g *graph) writeBack() {
	for key, n := range g.vars {
		if key.source {
			key.insn.SetSourceTypeByRegisterIfUnknown(key.reg, n.typ)
		} else {
			key.insn.SetDestinationTypeIfUnknown(key.reg, n.typ)
		}
	}
}
