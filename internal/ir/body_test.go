package ir

import (
	"testing"

	"tyde/internal/dalvik"
	"tyde/internal/vartype"
)

func buildLinearBody(offsets ...int) *Body {
	b := NewBody()
	for _, off := range offsets {
		b.Append(NewInsn(dalvik.Nop, off))
	}
	return b
}

func TestBodyAppendIndexesInOrder(t *testing.T) {
	b := buildLinearBody(0, 2, 4, 6)
	for i := 0; i < b.Len(); i++ {
		if b.At(i).Index != i {
			t.Errorf("insn %d has Index %d", i, b.At(i).Index)
		}
	}
}

func TestBodyFindByOffset(t *testing.T) {
	b := buildLinearBody(0, 2, 4, 6, 10)
	found := b.FindByOffset(6, 0, b.Len()-1)
	if found == nil || found.OriginalOffset != 6 {
		t.Fatalf("FindByOffset(6) = %v", found)
	}
	if b.FindByOffset(5, 0, b.Len()-1) != nil {
		t.Errorf("FindByOffset(5) should miss a gap in the offset sequence")
	}
}

func TestBodyInsertAtRefreshesIndices(t *testing.T) {
	b := buildLinearBody(0, 2, 4)
	trampoline := NewInsn(dalvik.SyntheticTrampoline, -1)
	b.InsertAt(1, trampoline)
	if b.Len() != 4 {
		t.Fatalf("expected 4 insns after insert, got %d", b.Len())
	}
	if b.At(1) != trampoline {
		t.Fatalf("trampoline not spliced at index 1")
	}
	for i := 0; i < b.Len(); i++ {
		if b.At(i).Index != i {
			t.Errorf("insn at position %d has stale Index %d", i, b.At(i).Index)
		}
	}
}

func TestInsnEdgesAreMirrored(t *testing.T) {
	a := NewInsn(dalvik.Goto, 0)
	target := NewInsn(dalvik.Nop, 4)
	a.AddSuccessor(target)
	if len(a.Successors) != 1 || a.Successors[0] != target {
		t.Fatalf("successor not recorded")
	}
	if len(target.Predecessors) != 1 || target.Predecessors[0] != a {
		t.Fatalf("predecessor mirror not installed")
	}
}

func TestSetSourceTypeByRegisterIfUnknownRespectsPinnedTypes(t *testing.T) {
	insn := NewInsn(dalvik.AddInt, 0)
	insn.AddSource(1, vartype.New(vartype.Int))
	insn.AddSource(2, vartype.New(vartype.Unknown))
	insn.SetSourceTypeByRegisterIfUnknown(1, vartype.New(vartype.Long))
	insn.SetSourceTypeByRegisterIfUnknown(2, vartype.New(vartype.Int))
	if insn.Sources[0].Type.Kind != insn.Sources[1].Type.Kind {
		t.Fatalf("both registers should now read int")
	}
}
