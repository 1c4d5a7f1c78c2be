package cfgbuild

import (
	"testing"

	"tyde/internal/constpool"
	"tyde/internal/dalvik"
	"tyde/internal/dexfile"
	"tyde/internal/ir"
)

func buildLinearBody(ops []dalvik.Opcode) *ir.Body {
	body := ir.NewBody()
	body.Append(ir.NewInsn(dalvik.SyntheticNopSentinel, -1))
	for i, op := range ops {
		body.Append(ir.NewInsn(op, i*2))
	}
	body.Append(ir.NewInsn(dalvik.SyntheticNopSentinel, -1))
	return body
}

func TestInstallSuccessorsConditionalBranchHasTwoEdges(t *testing.T) {
	body := buildLinearBody([]dalvik.Opcode{dalvik.IfEqz, dalvik.Nop, dalvik.ReturnVoid})
	branch := body.At(1)
	branch.HasBranchTarget = true
	branch.BranchTargetOffset = 4 // targets the return-void at offset 4

	Build(body, &dexfile.Method{}, constpool.New(), DefaultOptions())

	if len(branch.Successors) != 2 {
		t.Fatalf("if-eqz successors = %d, want 2 (fallthrough + target)", len(branch.Successors))
	}
	var sawFallthrough, sawTarget bool
	for _, s := range branch.Successors {
		switch s.OriginalOffset {
		case 2:
			sawFallthrough = true
		case 4:
			sawTarget = true
		}
	}
	if !sawFallthrough || !sawTarget {
		t.Errorf("successors = %+v, missing fallthrough or target", branch.Successors)
	}
}

func TestInstallSuccessorsGotoHasOnlyTarget(t *testing.T) {
	body := buildLinearBody([]dalvik.Opcode{dalvik.Goto, dalvik.Nop, dalvik.ReturnVoid})
	g := body.At(1)
	g.HasBranchTarget = true
	g.BranchTargetOffset = 4

	Build(body, &dexfile.Method{}, constpool.New(), DefaultOptions())

	if len(g.Successors) != 1 || g.Successors[0].OriginalOffset != 4 {
		t.Errorf("goto successors = %+v, want exactly the branch target", g.Successors)
	}
}

func TestReachableHandlerIsKept(t *testing.T) {
	body := buildLinearBody([]dalvik.Opcode{dalvik.DivInt, dalvik.ReturnVoid})
	method := &dexfile.Method{
		Tries: []dexfile.TryItem{
			{
				StartOffset: 0, EndOffset: 2,
				Handlers:       []dexfile.CatchHandler{{TypeDescriptor: "Ljava/lang/ArithmeticException;", HandlerOffset: 2}},
				CatchAllOffset: -1,
			},
		},
	}

	Build(body, method, constpool.New(), DefaultOptions())

	if len(body.Tries) != 1 {
		t.Fatalf("Tries = %d, want 1 (handler target is reachable via fallthrough)", len(body.Tries))
	}
}

// The exception edge must originate from the throwing instruction's
// predecessor, not the throwing instruction itself, matching the target
// model's expectation that exceptions propagate from a program point
// rather than after the operation.
func TestExceptionEdgeSourcedFromPredecessor(t *testing.T) {
	body := buildLinearBody([]dalvik.Opcode{dalvik.DivInt, dalvik.ReturnVoid})
	divInt := body.At(1)
	method := &dexfile.Method{
		Tries: []dexfile.TryItem{
			{
				StartOffset: 0, EndOffset: 2,
				Handlers:       []dexfile.CatchHandler{{TypeDescriptor: "Ljava/lang/ArithmeticException;", HandlerOffset: 2}},
				CatchAllOffset: -1,
			},
		},
	}

	Build(body, method, constpool.New(), DefaultOptions())

	if len(divInt.ExceptionSuccessors) != 0 {
		t.Errorf("div-int itself has %d exception successors, want 0 (edge belongs to its predecessor)", len(divInt.ExceptionSuccessors))
	}
	for _, pred := range divInt.Predecessors {
		if len(pred.ExceptionSuccessors) != 1 {
			t.Errorf("div-int's predecessor has %d exception successors, want 1", len(pred.ExceptionSuccessors))
		}
	}
}

func TestUnreachableHandlerIsPruned(t *testing.T) {
	// offset 0: return-void (falls through to nothing)
	// offset 2: nop, dead code — orphaned, no predecessor reaches it either
	// offset 4: div-int, dead code reached only by the dead nop's fallthrough,
	//   so its exception edge is sourced from that equally-dead predecessor
	// offset 6: nop, the handler target — reachable only via the dead
	//   div-int's predecessor's exception edge
	body := buildLinearBody([]dalvik.Opcode{dalvik.ReturnVoid, dalvik.Nop, dalvik.DivInt, dalvik.Nop})
	method := &dexfile.Method{
		Tries: []dexfile.TryItem{
			{
				StartOffset: 4, EndOffset: 6,
				Handlers:       []dexfile.CatchHandler{{TypeDescriptor: "Ljava/lang/ArithmeticException;", HandlerOffset: 6}},
				CatchAllOffset: -1,
			},
		},
	}

	Build(body, method, constpool.New(), DefaultOptions())

	if len(body.Tries) != 0 {
		t.Fatalf("Tries = %d, want 0 (handler target is only reachable through a dead predecessor's exception edge)", len(body.Tries))
	}
}

func TestBranchRangePatchingSplicesTrampolines(t *testing.T) {
	ops := []dalvik.Opcode{dalvik.IfEqz}
	for i := 0; i < 10; i++ {
		ops = append(ops, dalvik.Nop)
	}
	ops = append(ops, dalvik.ReturnVoid)
	body := buildLinearBody(ops)

	branch := body.At(1)
	branch.HasBranchTarget = true
	branch.BranchTargetOffset = (len(ops) - 1) * 2

	Build(body, &dexfile.Method{}, constpool.New(), Options{
		SplitTryRegions: true, BranchRangeLimit: 2, SizeThreshold: 1,
	})

	foundTrampoline := false
	for _, insn := range body.All() {
		if insn.Op == dalvik.SyntheticTrampoline {
			foundTrampoline = true
		}
	}
	if !foundTrampoline {
		t.Error("expected at least one synthetic trampoline after branch-range patching")
	}
}

