package decode

import "tyde/internal/dalvik"

func isMoveResultFamily(op dalvik.Opcode) bool {
	return op == dalvik.MoveResult || op == dalvik.MoveResultWide || op == dalvik.MoveResultObject
}

func isInvokeFamily(op dalvik.Opcode) bool {
	switch op {
	case dalvik.InvokeVirtual, dalvik.InvokeSuper, dalvik.InvokeDirect, dalvik.InvokeStatic, dalvik.InvokeInterface,
		dalvik.InvokeVirtualRange, dalvik.InvokeSuperRange, dalvik.InvokeDirectRange, dalvik.InvokeStaticRange, dalvik.InvokeInterfaceRange:
		return true
	}
	return false
}

func isInvokeStatic(op dalvik.Opcode) bool {
	return op == dalvik.InvokeStatic || op == dalvik.InvokeStaticRange
}

func isInvokeInterface(op dalvik.Opcode) bool {
	return op == dalvik.InvokeInterface || op == dalvik.InvokeInterfaceRange
}

func isBinOp3(op dalvik.Opcode) bool { return op >= dalvik.AddInt && op <= dalvik.RemDouble }
func isBinOp2Addr(op dalvik.Opcode) bool {
	return op >= dalvik.AddInt2Addr && op <= dalvik.RemDouble2Addr
}
func isBinOpLit16(op dalvik.Opcode) bool { return op >= dalvik.AddIntLit16 && op <= dalvik.XorIntLit16 }
func isBinOpLit8(op dalvik.Opcode) bool  { return op >= dalvik.AddIntLit8 && op <= dalvik.UshrIntLit8 }
func isUnOp(op dalvik.Opcode) bool       { return op >= dalvik.NegInt && op <= dalvik.IntToShort }

func isSwitch(op dalvik.Opcode) bool {
	return op == dalvik.PackedSwitch || op == dalvik.SparseSwitch
}

// IsSwitch and CanThrow are the same classifications used internally
// here, exported for internal/cfgbuild's successor/exception edge
// installation so the two packages share one opcode taxonomy.
func IsSwitch(op dalvik.Opcode) bool { return isSwitch(op) }
func CanThrow(op dalvik.Opcode) bool { return canThrow(op) }

// IsConditionalBranch reports whether op is an if-family branch, as
// opposed to the unconditional goto family — the set branch-range
// patching scans, since only conditional branches carry a narrow offset
// field in the target model.
func IsConditionalBranch(op dalvik.Opcode) bool {
	switch op {
	case dalvik.IfEq, dalvik.IfNe, dalvik.IfLt, dalvik.IfGe, dalvik.IfGt, dalvik.IfLe,
		dalvik.IfEqz, dalvik.IfNez, dalvik.IfLtz, dalvik.IfGez, dalvik.IfGtz, dalvik.IfLez:
		return true
	}
	return false
}

// FallsThrough reports whether op can reach the next sequential
// instruction — false only for the opcodes that unconditionally transfer
// control away (return family, throw, unconditional goto).
func FallsThrough(op dalvik.Opcode) bool {
	switch op {
	case dalvik.ReturnVoid, dalvik.Return, dalvik.ReturnWide, dalvik.ReturnObject,
		dalvik.Throw, dalvik.Goto, dalvik.Goto16, dalvik.Goto32:
		return false
	}
	return true
}

// canThrow reports whether op can raise an exception mid-instruction, the
// predicate C5's try-region splitting uses to decide maximal throwing
// subranges.
func canThrow(op dalvik.Opcode) bool {
	switch op {
	case dalvik.Nop, dalvik.Move, dalvik.MoveFrom16, dalvik.Move16, dalvik.MoveWide, dalvik.MoveWideFrom16,
		dalvik.MoveWide16, dalvik.MoveObject, dalvik.MoveObjectFrom16, dalvik.MoveObject16,
		dalvik.MoveResult, dalvik.MoveResultWide, dalvik.MoveResultObject, dalvik.MoveException,
		dalvik.ReturnVoid, dalvik.Return, dalvik.ReturnWide, dalvik.ReturnObject,
		dalvik.Const4, dalvik.Const16, dalvik.Const, dalvik.ConstHigh16,
		dalvik.ConstWide16, dalvik.ConstWide32, dalvik.ConstWide, dalvik.ConstWideHigh16,
		dalvik.Goto, dalvik.Goto16, dalvik.Goto32,
		dalvik.CmplFloat, dalvik.CmpgFloat, dalvik.CmplDouble, dalvik.CmpgDouble, dalvik.CmpLong,
		dalvik.IfEq, dalvik.IfNe, dalvik.IfLt, dalvik.IfGe, dalvik.IfGt, dalvik.IfLe,
		dalvik.IfEqz, dalvik.IfNez, dalvik.IfLtz, dalvik.IfGez, dalvik.IfGtz, dalvik.IfLez:
		return false
	}
	if isUnOp(op) || isBinOp3(op) || isBinOp2Addr(op) || isBinOpLit16(op) || isBinOpLit8(op) {
		// Integer division/remainder can throw ArithmeticException; the rest
		// of the arithmetic family cannot. Treated uniformly as throwing is
		// the conservative (and simpler) choice real disassemblers also make
		// for div/rem opcodes; here we narrow to just those.
		switch op {
		case dalvik.DivInt, dalvik.RemInt, dalvik.DivInt2Addr, dalvik.RemInt2Addr,
			dalvik.DivIntLit16, dalvik.RemIntLit16, dalvik.DivIntLit8, dalvik.RemIntLit8,
			dalvik.DivLong, dalvik.RemLong, dalvik.DivLong2Addr, dalvik.RemLong2Addr:
			return true
		}
		return false
	}
	return true
}
