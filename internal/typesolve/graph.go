// Package typesolve implements C6: set-constraint type inference over a
// decoded, CFG-complete method body. It resolves every ambiguous operand
// type the decoder could not pin down by propagating definitions to uses
// (and uses back to definitions) along an inequality constraint graph,
// then defaults whatever is left unconstrained.
package typesolve

import (
	"tyde/internal/dalvik"
	"tyde/internal/ir"
	"tyde/internal/vartype"
)

type nodeKind int

const (
	kindConstant nodeKind = iota
	kindVariable
)

// variableKey is a constraint-graph variable's identity tuple: the
// instruction and register it is rooted at, plus whether it represents a
// source use (true) or a destination definition (false) of that register.
type variableKey struct {
	insn   *ir.Insn
	reg    int
	source bool
}

// node is either an immutable type constant or a mutable type variable.
// Projected nodes (dimDelta != 0) additionally track a base node whose
// refinements they mirror, dimension-shifted — the mechanism standing in
// for the spec's component_type_element/array_type_element pointers on
// Type itself (see DESIGN.md).
type node struct {
	kind nodeKind
	typ  vartype.Type
	key  variableKey

	base     *node
	dimDelta int
}

type ineq struct{ L, R *node }

// graph is the whole constraint instance for one method: the inequality
// set I, the per-node incidence index C (here keyed by each edge's L
// node, since refining a node only ever requires re-checking edges where
// it appears as the feeding side), and the dirty worklist N.
type graph struct {
	vars        map[variableKey]*node
	edges       map[ineq]bool
	byAsL       map[*node][]ineq
	projections map[*node][]*node
	dirty       []ineq
	conflicts   int
}

func newGraph() *graph {
	return &graph{
		vars:        make(map[variableKey]*node),
		edges:       make(map[ineq]bool),
		byAsL:       make(map[*node][]ineq),
		projections: make(map[*node][]*node),
	}
}

func (g *graph) variable(insn *ir.Insn, reg int, source bool) *node {
	key := variableKey{insn, reg, source}
	if n, ok := g.vars[key]; ok {
		return n
	}
	// A new variable starts from the operand's decoded type, so a type the
	// decoder already pinned (or its ambiguous kind) enters the graph.
	t := vartype.New(vartype.Unknown)
	if source {
		if st, ok := insn.SourceTypeByRegister(reg); ok {
			t = st
		}
	} else if insn.HasDest && insn.Destination.Reg == reg {
		t = insn.Destination.Type
	}
	n := &node{kind: kindVariable, typ: t, key: key}
	g.vars[key] = n
	return n
}

func constantNode(t vartype.Type) *node { return &node{kind: kindConstant, typ: t} }

// projected returns a node that mirrors base's type shifted by delta
// array dimensions, staying in sync as base is refined. delta == 0
// returns base itself unchanged.
func (g *graph) projected(base *node, delta int) *node {
	if delta == 0 {
		return base
	}
	p := &node{kind: kindVariable, typ: adjustDim(base.typ, delta), base: base, dimDelta: delta}
	g.projections[base] = append(g.projections[base], p)
	return p
}

func adjustDim(t vartype.Type, delta int) vartype.Type {
	nt := t
	nt.Dim += delta
	if nt.Dim < 0 {
		nt.Dim = 0
	}
	return nt
}

func (g *graph) addEdge(l, r *node) {
	e := ineq{l, r}
	if g.edges[e] {
		return
	}
	g.edges[e] = true
	g.byAsL[l] = append(g.byAsL[l], e)
	g.dirty = append(g.dirty, e)
}

// defSiteNode resolves the node representing insn's destination — the
// shared seed variable if insn's destination was itself ambiguous, else
// a one-off constant built from its already-concrete type.
func (g *graph) defSiteNode(insn *ir.Insn, reg int) *node {
	key := variableKey{insn, reg, false}
	if n, ok := g.vars[key]; ok {
		return n
	}
	return constantNode(insn.Destination.Type)
}

// useSiteNode resolves the node representing one of insn's source uses of
// reg, analogous to defSiteNode.
func (g *graph) useSiteNode(insn *ir.Insn, reg int) *node {
	key := variableKey{insn, reg, true}
	if n, ok := g.vars[key]; ok {
		return n
	}
	t, _ := insn.SourceTypeByRegister(reg)
	return constantNode(t)
}

func (g *graph) linkDef(insn *ir.Insn, reg int, variable *node, dimDelta int) {
	g.addEdge(g.projected(g.defSiteNode(insn, reg), dimDelta), variable)
}

func (g *graph) linkUse(insn *ir.Insn, reg int, variable *node, dimDelta int) {
	g.addEdge(variable, g.projected(g.useSiteNode(insn, reg), dimDelta))
}

func isMoveObject(op dalvik.Opcode) bool {
	return op == dalvik.MoveObject || op == dalvik.MoveObjectFrom16 || op == dalvik.MoveObject16
}

func typesEqual(a, b vartype.Type) bool {
	return a.Kind == b.Kind && a.Dim == b.Dim && a.Name == b.Name
}

func isAmbiguousKind(k vartype.Kind) bool {
	switch k {
	case vartype.TrioUnknown, vartype.FIUnknown, vartype.DLUnknown,
		vartype.AFIUnknown, vartype.ADLUnknown, vartype.ACSUnknown:
		return true
	}
	return false
}
