package typesolve

import (
	"testing"

	"tyde/internal/dalvik"
	"tyde/internal/decode"
	"tyde/internal/ir"
	"tyde/internal/vartype"
)

// chain wires a linear run of instructions as each other's sole
// successor/predecessor, the shape every scenario here needs.
func chain(insns ...*ir.Insn) *ir.Body {
	body := ir.NewBody()
	for _, i := range insns {
		body.Append(i)
	}
	for i := 0; i+1 < len(insns); i++ {
		insns[i].AddSuccessor(insns[i+1])
	}
	return body
}

// S1: const/4 feeding return-object resolves the ambiguous destination
// to a reference type by walking forward to the concrete use.
func TestSolveResolvesTrioUnknownDestViaForwardUse(t *testing.T) {
	c := ir.NewInsn(dalvik.Const4, 0)
	c.SetDestination(0, vartype.New(vartype.TrioUnknown))
	c.HasLiteral = true
	c.Literal = 0

	ret := ir.NewInsn(dalvik.ReturnObject, 2)
	ret.AddSource(0, vartype.New(vartype.Object))

	body := chain(c, ret)

	Solve(Input{
		Body:           body,
		AmbiguousDests: []decode.Seed{{Insn: c, Reg: 0, Source: false}},
		RegistersSize:  1,
		InsSize:        0,
	})

	if c.Destination.Type.Kind != vartype.Object {
		t.Errorf("destination kind = %v, want Object", c.Destination.Type.Kind)
	}
}

// S2: an ambiguous source use resolves by walking backward to its
// concrete definition.
func TestSolveResolvesAmbiguousSourceViaBackwardDef(t *testing.T) {
	c := ir.NewInsn(dalvik.Const4, 0)
	c.SetDestination(0, vartype.New(vartype.Int))
	c.HasLiteral = true
	c.Literal = 7

	use := ir.NewInsn(dalvik.IfEqz, 2)
	use.AddSource(0, vartype.New(vartype.TrioUnknown))

	body := chain(c, use)

	Solve(Input{
		Body:             body,
		AmbiguousSources: []decode.Seed{{Insn: use, Reg: 0, Source: true}},
		RegistersSize:    1,
		InsSize:          0,
	})

	got, _ := use.SourceTypeByRegister(0)
	if got.Kind != vartype.Int {
		t.Errorf("source kind = %v, want Int", got.Kind)
	}
}

// S3: newarray followed by aput/aget round-trips the element type
// through the array-projection constraints in addInitialConstraints,
// preserving width (an int array's element stays Int, never widened
// to Long/Double across the projection).
func TestSolveArrayElementPreservesWidthAcrossAputAget(t *testing.T) {
	newArr := ir.NewInsn(dalvik.NewArray, 0)
	newArr.SetDestination(1, vartype.NewArray(vartype.Int, 1))

	elemSrc := ir.NewInsn(dalvik.Const4, 2)
	elemSrc.SetDestination(0, vartype.New(vartype.Int))

	put := ir.NewInsn(dalvik.Aput, 4)
	put.AddSource(0, vartype.New(vartype.TrioUnknown))
	put.AddSource(1, vartype.NewArray(vartype.Int, 1))

	get := ir.NewInsn(dalvik.Aget, 6)
	get.AddSource(1, vartype.NewArray(vartype.Int, 1))
	get.SetDestination(2, vartype.New(vartype.TrioUnknown))

	body := chain(newArr, elemSrc, put, get)

	Solve(Input{
		Body:             body,
		AmbiguousSources: []decode.Seed{{Insn: put, Reg: 0, Source: true}},
		AmbiguousDests:   []decode.Seed{{Insn: get, Reg: 2, Source: false}},
		RegistersSize:    3,
		InsSize:          0,
	})

	putSrc, _ := put.SourceTypeByRegister(0)
	if putSrc.Kind != vartype.Int || putSrc.Dim != 0 {
		t.Errorf("aput element type = %+v, want scalar Int", putSrc)
	}
	if get.Destination.Type.Kind != vartype.Int || get.Destination.Type.Dim != 0 {
		t.Errorf("aget destination type = %+v, want scalar Int", get.Destination.Type)
	}
}

// S4: when no constraint at all reaches an ambiguous variable, residual
// closure defaults it rather than leaving it Unknown.
func TestSolveDefaultsUnconstrainedAmbiguousDest(t *testing.T) {
	c := ir.NewInsn(dalvik.Const4, 0)
	c.SetDestination(0, vartype.New(vartype.TrioUnknown))
	c.HasLiteral = true

	tail := ir.NewInsn(dalvik.ReturnVoid, 2)

	body := chain(c, tail)

	Solve(Input{
		Body:           body,
		AmbiguousDests: []decode.Seed{{Insn: c, Reg: 0, Source: false}},
		RegistersSize:  1,
		InsSize:        0,
	})

	if c.Destination.Type.IsUnknown() {
		t.Errorf("destination type = %v, want a defaulted concrete kind", c.Destination.Type.Kind)
	}
}

// S5: a conflicting pair of uses (one requiring Int, one requiring a
// reference) is counted as a conflict rather than silently resolved.
func TestSolveCountsGenuineConflict(t *testing.T) {
	c := ir.NewInsn(dalvik.Const4, 0)
	c.SetDestination(0, vartype.New(vartype.TrioUnknown))
	c.HasLiteral = true

	useInt := ir.NewInsn(dalvik.AddInt2Addr, 2)
	useInt.AddSource(0, vartype.New(vartype.Int))
	useInt.SetDestination(0, vartype.New(vartype.Int))

	useObj := ir.NewInsn(dalvik.ReturnObject, 4)
	useObj.AddSource(0, vartype.New(vartype.Object))

	body := ir.NewBody()
	body.Append(c)
	body.Append(useInt)
	body.Append(useObj)
	c.AddSuccessor(useInt)
	c.AddSuccessor(useObj)

	result := Solve(Input{
		Body:           body,
		AmbiguousDests: []decode.Seed{{Insn: c, Reg: 0, Source: false}},
		RegistersSize:  1,
		InsSize:        0,
	})

	if result.Conflicts == 0 {
		t.Error("want at least one recorded conflict between an Int use and an Object use")
	}
}

// Moves propagate a known type across both directions of
// addInitialConstraints's move edge.
func TestSolvePropagatesThroughMove(t *testing.T) {
	c := ir.NewInsn(dalvik.Const4, 0)
	c.SetDestination(1, vartype.New(vartype.Int))
	c.HasLiteral = true

	mv := ir.NewInsn(dalvik.Move, 2)
	mv.AddSource(1, vartype.New(vartype.Int))
	mv.SetDestination(0, vartype.New(vartype.TrioUnknown))

	use := ir.NewInsn(dalvik.IfEqz, 4)
	use.AddSource(0, vartype.New(vartype.TrioUnknown))

	body := chain(c, mv, use)

	Solve(Input{
		Body:             body,
		AmbiguousDests:   []decode.Seed{{Insn: mv, Reg: 0, Source: false}},
		AmbiguousSources: []decode.Seed{{Insn: use, Reg: 0, Source: true}},
		RegistersSize:    2,
		InsSize:          0,
	})

	if mv.Destination.Type.Kind != vartype.Int {
		t.Errorf("move destination kind = %v, want Int", mv.Destination.Type.Kind)
	}
	got, _ := use.SourceTypeByRegister(0)
	if got.Kind != vartype.Int {
		t.Errorf("use source kind = %v, want Int", got.Kind)
	}
}

// initArgs/finalize: a receiver plus declared parameter types seed
// synthetic argument-definitions that are fully detached by the time
// Solve returns, leaving the body's real instruction count unchanged.
func TestSolveDetachesSyntheticArgDefs(t *testing.T) {
	first := ir.NewInsn(dalvik.ReturnVoid, 0)
	body := ir.NewBody()
	body.Append(first)

	before := body.Len()

	Solve(Input{
		Body:             body,
		ParamTypes:       []vartype.Type{vartype.New(vartype.Int), vartype.New(vartype.Long)},
		IsInstanceMethod: true,
		RegistersSize:    4,
		InsSize:          4,
	})

	if body.Len() != before {
		t.Errorf("body length = %d after Solve, want unchanged %d (arg-defs must be detached)", body.Len(), before)
	}
	if len(first.Predecessors) != 0 {
		t.Errorf("first instruction has %d predecessors after finalize, want 0", len(first.Predecessors))
	}
}
