package constpool

import (
	"math"

	"tyde/internal/dalvik"
	"tyde/internal/ir"
	"tyde/internal/vartype"
)

// Promote is C7: it walks body once, now that every destination type is
// fully resolved, and turns each untyped const-family instruction into a
// typed reference into pool. It must be idempotent — re-running it on an
// already-promoted body is a no-op, since HasLiteral is cleared the first
// time an instruction is promoted.
func Promote(body *ir.Body, pool *Pool) {
	for _, insn := range body.All() {
		promoteOne(insn, pool)
	}
}

func promoteOne(insn *ir.Insn, pool *Pool) {
	switch insn.Op {
	case dalvik.Const4, dalvik.Const16, dalvik.Const, dalvik.ConstHigh16:
		if !insn.HasLiteral {
			return
		}
		promoteNarrow(insn, pool)
	case dalvik.ConstWide16, dalvik.ConstWide32, dalvik.ConstWide, dalvik.ConstWideHigh16:
		if !insn.HasLiteral {
			return
		}
		promoteWide(insn, pool)
	case dalvik.FillArrayData:
		if insn.FillArray != nil && insn.FillArray.Refs == nil {
			promoteFillArray(insn, pool)
		}
	}
}

// promoteNarrow picks int or float based on the destination's resolved
// type, per §4.6: float only when the destination is concretely float.
func promoteNarrow(insn *ir.Insn, pool *Pool) {
	var idx int
	if insn.HasDest && insn.Destination.Type.Kind == vartype.Float {
		bits := uint32(insn.Literal)
		idx = pool.InternFloat(math.Float32frombits(bits))
	} else {
		idx = pool.InternInt(int32(insn.Literal))
	}
	insn.Reference = &ir.ConstRef{Kind: "numeric", Index: idx}
	insn.HasLiteral = false
}

// promoteWide picks long or double, defaulting to long unless the
// destination concretely resolved to double.
func promoteWide(insn *ir.Insn, pool *Pool) {
	var idx int
	if insn.HasDest && insn.Destination.Type.Kind == vartype.Double {
		idx = pool.InternDouble(math.Float64frombits(uint64(insn.Literal)))
	} else {
		idx = pool.InternLong(insn.Literal)
	}
	insn.Reference = &ir.ConstRef{Kind: "numeric", Index: idx}
	insn.HasLiteral = false
}

// promoteFillArray rewrites the raw payload words into one constant-pool
// reference per element, sized by the element width the payload recorded.
func promoteFillArray(insn *ir.Insn, pool *Pool) {
	fa := insn.FillArray
	refs := make([]*ir.ConstRef, len(fa.Words))
	componentKind := insn.ArrayType.Kind
	for i, word := range fa.Words {
		var idx int
		switch fa.ElementWidth {
		case 8:
			if componentKind == vartype.Double {
				idx = pool.InternDouble(math.Float64frombits(word))
			} else {
				idx = pool.InternLong(int64(word))
			}
		case 4:
			if componentKind == vartype.Float {
				idx = pool.InternFloat(math.Float32frombits(uint32(word)))
			} else {
				idx = pool.InternInt(int32(uint32(word)))
			}
		default: // 1 or 2-byte elements all promote through the int slot
			idx = pool.InternInt(int32(word))
		}
		refs[i] = &ir.ConstRef{Kind: "numeric", Index: idx}
	}
	fa.Refs = refs
}
