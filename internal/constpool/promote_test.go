package constpool

import (
	"testing"

	"tyde/internal/dalvik"
	"tyde/internal/ir"
	"tyde/internal/vartype"
)

func TestPromoteNarrowChoosesFloatOnlyForFloatDestination(t *testing.T) {
	pool := New()
	insn := ir.NewInsn(dalvik.Const, 0)
	insn.Literal = 0x3f800000 // 1.0f bit pattern
	insn.HasLiteral = true
	insn.SetDestination(0, vartype.New(vartype.Float))

	promoteOne(insn, pool)

	if insn.HasLiteral {
		t.Fatalf("literal should be cleared after promotion")
	}
	entry := pool.At(insn.Reference.Index)
	if entry.Kind != Float || entry.FloatVal != 1.0 {
		t.Fatalf("expected pooled float 1.0, got %+v", entry)
	}
}

func TestPromoteNarrowDefaultsToInt(t *testing.T) {
	pool := New()
	insn := ir.NewInsn(dalvik.Const16, 0)
	insn.Literal = 42
	insn.HasLiteral = true
	insn.SetDestination(0, vartype.New(vartype.Int))

	promoteOne(insn, pool)

	entry := pool.At(insn.Reference.Index)
	if entry.Kind != Int || entry.IntVal != 42 {
		t.Fatalf("expected pooled int 42, got %+v", entry)
	}
}

func TestPromoteIsIdempotent(t *testing.T) {
	pool := New()
	insn := ir.NewInsn(dalvik.Const, 0)
	insn.Literal = 7
	insn.HasLiteral = true
	insn.SetDestination(0, vartype.New(vartype.Int))

	body := ir.NewBody()
	body.Append(insn)

	Promote(body, pool)
	firstRef := insn.Reference
	Promote(body, pool)

	if insn.Reference != firstRef {
		t.Fatalf("second Promote pass should not touch an already-promoted instruction")
	}
	if pool.Len() != 1 {
		t.Fatalf("expected exactly one pooled entry, got %d", pool.Len())
	}
}

func TestPoolDedupesByValue(t *testing.T) {
	pool := New()
	a := pool.InternInt(5)
	b := pool.InternInt(5)
	c := pool.InternInt(6)
	if a != b {
		t.Errorf("identical int constants should share a pool slot")
	}
	if a == c {
		t.Errorf("distinct int constants should not share a slot")
	}
}

func TestStubRegistryRecordsOnce(t *testing.T) {
	reg := NewStubRegistry()
	key := StubKey{Class: "Lcom/example/Foo;"}
	if !reg.Record(key) {
		t.Fatalf("first Record should report newly-seen")
	}
	if reg.Record(key) {
		t.Fatalf("second Record of the same key should report already-seen")
	}
	if len(reg.Keys()) != 1 {
		t.Fatalf("expected exactly one stub key recorded")
	}
}
