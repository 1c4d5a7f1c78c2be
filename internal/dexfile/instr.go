package dexfile

import "tyde/internal/dalvik"

// format names the Dalvik instruction-encoding shape, which determines
// how many code units the instruction occupies and how its register and
// immediate fields are packed into them. Naming follows the real ISA's
// own format codes (10x, 11n, 22c, ...).
type format int

const (
	fmt10x format = iota // no operands (nop, return-void, ...)
	fmt10t               // +AA (branch, packed into the opcode's own high byte)
	fmt11n               // vA, #+B  (const/4)
	fmt11x               // vAA
	fmt12x               // vA, vB
	fmt21c               // vAA, pool-index BBBB
	fmt21h               // vAA, #+BBBB (shifted)
	fmt21s               // vAA, #+BBBB
	fmt21t               // vAA, +BBBB (branch)
	fmt22b               // vAA, vBB, #+CC
	fmt22c               // vA, vB, pool-index CCCC
	fmt22s               // vA, vB, #+CCCC
	fmt22t               // vA, vB, +CCCC (branch)
	fmt22x               // vAA, vBBBB
	fmt23x               // vAA, vBB, vCC
	fmt30t               // +AAAAAAAA (branch)
	fmt31c               // vAA, pool-index BBBBBBBB
	fmt31i               // vAA, #+BBBBBBBB
	fmt31t               // vAA, +BBBBBBBB (branch / payload offset)
	fmt32x               // vAAAA, vBBBB
	fmt35c               // {vD..vG/vA}, pool-index BBBB (invoke, filled-new-array)
	fmt3rc               // {vCCCC .. vCCCC+AA-1}, pool-index BBBB (invoke/range)
	fmt51l               // vAA, #+wide BBBBBBBBBBBBBBBB
)

var opcodeFormat = map[dalvik.Opcode]format{
	dalvik.Nop: fmt10x, dalvik.MoveException: fmt11x,
	dalvik.ReturnVoid: fmt10x, dalvik.Return: fmt11x, dalvik.ReturnWide: fmt11x, dalvik.ReturnObject: fmt11x,
	dalvik.MoveResult: fmt11x, dalvik.MoveResultWide: fmt11x, dalvik.MoveResultObject: fmt11x,
	dalvik.Move: fmt12x, dalvik.MoveWide: fmt12x, dalvik.MoveObject: fmt12x,
	dalvik.MoveFrom16: fmt22x, dalvik.MoveWideFrom16: fmt22x, dalvik.MoveObjectFrom16: fmt22x,
	dalvik.Move16: fmt32x, dalvik.MoveWide16: fmt32x, dalvik.MoveObject16: fmt32x,

	dalvik.Const4: fmt11n, dalvik.Const16: fmt21s, dalvik.Const: fmt31i, dalvik.ConstHigh16: fmt21h,
	dalvik.ConstWide16: fmt21s, dalvik.ConstWide32: fmt31i, dalvik.ConstWide: fmt51l, dalvik.ConstWideHigh16: fmt21h,
	dalvik.ConstString: fmt21c, dalvik.ConstStringJumbo: fmt31c, dalvik.ConstClass: fmt21c,

	dalvik.MonitorEnter: fmt11x, dalvik.MonitorExit: fmt11x,
	dalvik.CheckCast: fmt21c, dalvik.InstanceOf: fmt22c, dalvik.ArrayLength: fmt12x,
	dalvik.NewInstance: fmt21c, dalvik.NewArray: fmt22c,
	dalvik.FilledNewArray: fmt35c, dalvik.FilledNewArrayRange: fmt3rc, dalvik.FillArrayData: fmt31t,
	dalvik.Throw: fmt11x,
	dalvik.Goto: fmt10t, dalvik.Goto16: fmt21t, dalvik.Goto32: fmt30t,
	dalvik.PackedSwitch: fmt31t, dalvik.SparseSwitch: fmt31t,

	dalvik.CmplFloat: fmt23x, dalvik.CmpgFloat: fmt23x, dalvik.CmplDouble: fmt23x, dalvik.CmpgDouble: fmt23x, dalvik.CmpLong: fmt23x,
	dalvik.IfEq: fmt22t, dalvik.IfNe: fmt22t, dalvik.IfLt: fmt22t, dalvik.IfGe: fmt22t, dalvik.IfGt: fmt22t, dalvik.IfLe: fmt22t,
	dalvik.IfEqz: fmt21t, dalvik.IfNez: fmt21t, dalvik.IfLtz: fmt21t, dalvik.IfGez: fmt21t, dalvik.IfGtz: fmt21t, dalvik.IfLez: fmt21t,

	dalvik.Aget: fmt23x, dalvik.AgetWide: fmt23x, dalvik.AgetObject: fmt23x, dalvik.AgetBoolean: fmt23x,
	dalvik.AgetByte: fmt23x, dalvik.AgetChar: fmt23x, dalvik.AgetShort: fmt23x,
	dalvik.Aput: fmt23x, dalvik.AputWide: fmt23x, dalvik.AputObject: fmt23x, dalvik.AputBoolean: fmt23x,
	dalvik.AputByte: fmt23x, dalvik.AputChar: fmt23x, dalvik.AputShort: fmt23x,

	dalvik.Iget: fmt22c, dalvik.IgetWide: fmt22c, dalvik.IgetObject: fmt22c, dalvik.IgetBoolean: fmt22c,
	dalvik.IgetByte: fmt22c, dalvik.IgetChar: fmt22c, dalvik.IgetShort: fmt22c,
	dalvik.Iput: fmt22c, dalvik.IputWide: fmt22c, dalvik.IputObject: fmt22c, dalvik.IputBoolean: fmt22c,
	dalvik.IputByte: fmt22c, dalvik.IputChar: fmt22c, dalvik.IputShort: fmt22c,

	dalvik.Sget: fmt21c, dalvik.SgetWide: fmt21c, dalvik.SgetObject: fmt21c, dalvik.SgetBoolean: fmt21c,
	dalvik.SgetByte: fmt21c, dalvik.SgetChar: fmt21c, dalvik.SgetShort: fmt21c,
	dalvik.Sput: fmt21c, dalvik.SputWide: fmt21c, dalvik.SputObject: fmt21c, dalvik.SputBoolean: fmt21c,
	dalvik.SputByte: fmt21c, dalvik.SputChar: fmt21c, dalvik.SputShort: fmt21c,

	dalvik.InvokeVirtual: fmt35c, dalvik.InvokeSuper: fmt35c, dalvik.InvokeDirect: fmt35c,
	dalvik.InvokeStatic: fmt35c, dalvik.InvokeInterface: fmt35c,
	dalvik.InvokeVirtualRange: fmt3rc, dalvik.InvokeSuperRange: fmt3rc, dalvik.InvokeDirectRange: fmt3rc,
	dalvik.InvokeStaticRange: fmt3rc, dalvik.InvokeInterfaceRange: fmt3rc,

	dalvik.NegInt: fmt12x, dalvik.NotInt: fmt12x, dalvik.NegLong: fmt12x, dalvik.NotLong: fmt12x,
	dalvik.NegFloat: fmt12x, dalvik.NegDouble: fmt12x,
	dalvik.IntToLong: fmt12x, dalvik.IntToFloat: fmt12x, dalvik.IntToDouble: fmt12x,
	dalvik.LongToInt: fmt12x, dalvik.LongToFloat: fmt12x, dalvik.LongToDouble: fmt12x,
	dalvik.FloatToInt: fmt12x, dalvik.FloatToLong: fmt12x, dalvik.FloatToDouble: fmt12x,
	dalvik.DoubleToInt: fmt12x, dalvik.DoubleToLong: fmt12x, dalvik.DoubleToFloat: fmt12x,
	dalvik.IntToByte: fmt12x, dalvik.IntToChar: fmt12x, dalvik.IntToShort: fmt12x,
}

func init() {
	for op := dalvik.AddInt; op <= dalvik.RemDouble; op++ {
		opcodeFormat[op] = fmt23x
	}
	for op := dalvik.AddInt2Addr; op <= dalvik.RemDouble2Addr; op++ {
		opcodeFormat[op] = fmt12x
	}
	for op := dalvik.AddIntLit16; op <= dalvik.XorIntLit16; op++ {
		opcodeFormat[op] = fmt22s
	}
	for op := dalvik.AddIntLit8; op <= dalvik.UshrIntLit8; op++ {
		opcodeFormat[op] = fmt22b
	}
}

// widthUnits is the instruction's size in 16-bit code units for each format.
var widthUnits = map[format]int{
	fmt10x: 1, fmt10t: 1, fmt11n: 1, fmt11x: 1, fmt12x: 1,
	fmt21c: 2, fmt21h: 2, fmt21s: 2, fmt21t: 2,
	fmt22b: 2, fmt22c: 2, fmt22s: 2, fmt22t: 2, fmt22x: 2, fmt23x: 2,
	fmt30t: 3, fmt31c: 3, fmt31i: 3, fmt31t: 3, fmt32x: 3,
	fmt35c: 3, fmt3rc: 3, fmt51l: 5,
}

// RawInsn is one decoded-from-code-units Dalvik instruction: the register
// addressing and immediate/branch/pool fields have already been unpacked
// from whichever format the opcode uses, so internal/decode can dispatch
// purely on semantics.
type RawInsn struct {
	Op     dalvik.Opcode
	Offset int // code-unit offset of this instruction within the method
	Width  int // size in code units

	A, B, C int // generic decoded register/immediate slots

	Literal      int64 // sign-extended immediate, for const/lit-op forms
	BranchOffset int32 // signed code-unit delta, for branch/payload-pointing forms
	PoolIndex    int   // string/type/field/method id table index

	Regs []int // ordered argument registers for invoke/filled-new-array forms
}

func signExtend(v uint32, bits uint) int32 {
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

// Payload is a packed-switch, sparse-switch, or fill-array-data block:
// these sit inline in the code-unit stream (usually after the method's
// last real instruction) but are reached only via a switch/fill-array-data
// instruction's BranchOffset, never by sequential flow, so the linear
// scan below lifts them out of the RawInsn stream entirely.
type Payload struct {
	Kind         int // 1 = packed-switch, 2 = sparse-switch, 3 = fill-array-data
	FirstKey     int32
	Keys         []int32
	Targets      []int32
	ElementWidth int
	Data         []uint64
}

const (
	packedSwitchIdent  = 0x0100
	sparseSwitchIdent  = 0x0200
	fillArrayDataIdent = 0x0300
)

// decodeInstructions walks a method's raw code-unit stream and produces
// one RawInsn per real instruction plus a table of the payload blocks
// interleaved in the stream, keyed by their code-unit offset.
func decodeInstructions(units []uint16) ([]RawInsn, map[int]Payload) {
	var out []RawInsn
	payloads := make(map[int]Payload)
	offset := 0
	for offset < len(units) {
		word := units[offset]
		if p, size, ok := tryDecodePayload(units, offset, word); ok {
			payloads[offset] = p
			offset += size
			continue
		}
		op := dalvik.Opcode(word & 0xff)
		hi := byte(word >> 8)
		f, ok := opcodeFormat[op]
		if !ok {
			// Unknown/unused opcode word: the decoder layer reports this as
			// a hard per-method error; here we still need to stop walking.
			out = append(out, RawInsn{Op: op, Offset: offset, Width: 1})
			break
		}
		width := widthUnits[f]
		if offset+width > len(units) {
			break
		}
		ri := RawInsn{Op: op, Offset: offset, Width: width}
		switch f {
		case fmt10x:
			// no operands
		case fmt10t:
			ri.BranchOffset = int32(signExtend(uint32(hi), 8))
		case fmt11n:
			ri.A = int(hi & 0x0f)
			ri.Literal = int64(signExtend(uint32(hi>>4), 4))
		case fmt11x:
			ri.A = int(hi)
		case fmt12x:
			ri.A = int(hi & 0x0f)
			ri.B = int(hi >> 4)
		case fmt21c:
			ri.A = int(hi)
			ri.PoolIndex = int(units[offset+1])
		case fmt21h:
			ri.A = int(hi)
			ri.Literal = int64(units[offset+1])
		case fmt21s:
			ri.A = int(hi)
			ri.Literal = int64(int16(units[offset+1]))
		case fmt21t:
			ri.A = int(hi)
			ri.BranchOffset = int32(int16(units[offset+1]))
		case fmt22b:
			ri.A = int(hi)
			ri.B = int(units[offset+1] & 0xff)
			ri.Literal = int64(int8(units[offset+1] >> 8))
		case fmt22c:
			ri.A = int(hi & 0x0f)
			ri.B = int(hi >> 4)
			ri.PoolIndex = int(units[offset+1])
		case fmt22s:
			ri.A = int(hi & 0x0f)
			ri.B = int(hi >> 4)
			ri.Literal = int64(int16(units[offset+1]))
		case fmt22t:
			ri.A = int(hi & 0x0f)
			ri.B = int(hi >> 4)
			ri.BranchOffset = int32(int16(units[offset+1]))
		case fmt22x:
			ri.A = int(hi)
			ri.B = int(units[offset+1])
		case fmt23x:
			ri.A = int(hi)
			ri.B = int(units[offset+1] & 0xff)
			ri.C = int(units[offset+1] >> 8)
		case fmt30t:
			lo, hiW := units[offset+1], units[offset+2]
			ri.BranchOffset = int32(uint32(hiW)<<16 | uint32(lo))
		case fmt31c:
			ri.A = int(hi)
			ri.PoolIndex = int(uint32(units[offset+2])<<16 | uint32(units[offset+1]))
		case fmt31i:
			ri.A = int(hi)
			ri.Literal = int64(int32(uint32(units[offset+2])<<16 | uint32(units[offset+1])))
		case fmt31t:
			ri.A = int(hi)
			ri.BranchOffset = int32(uint32(units[offset+2])<<16 | uint32(units[offset+1]))
		case fmt32x:
			ri.A = int(units[offset+1])
			ri.B = int(units[offset+2])
		case fmt35c:
			argCount := int(hi >> 4)
			regG := int(hi & 0x0f)
			ri.PoolIndex = int(units[offset+1])
			packed := units[offset+2]
			var regs []int
			regSlots := [4]int{int(packed & 0xf), int((packed >> 4) & 0xf), int((packed >> 8) & 0xf), int((packed >> 12) & 0xf)}
			for i := 0; i < argCount && i < 4; i++ {
				regs = append(regs, regSlots[i])
			}
			if argCount == 5 {
				regs = append(regs, regG)
			}
			ri.Regs = regs
		case fmt3rc:
			count := int(hi)
			ri.PoolIndex = int(units[offset+1])
			first := int(units[offset+2])
			regs := make([]int, count)
			for i := 0; i < count; i++ {
				regs[i] = first + i
			}
			ri.Regs = regs
		case fmt51l:
			w0 := uint64(units[offset+1])
			w1 := uint64(units[offset+2])
			w2 := uint64(units[offset+3])
			w3 := uint64(units[offset+4])
			ri.A = int(hi)
			ri.Literal = int64(w0 | w1<<16 | w2<<32 | w3<<48)
		}
		out = append(out, ri)
		offset += width
	}
	return out, payloads
}

// tryDecodePayload recognizes one of the three payload idents at the
// current code unit and parses its variable-length block.
func tryDecodePayload(units []uint16, offset int, word uint16) (Payload, int, bool) {
	switch word {
	case packedSwitchIdent:
		size := int(units[offset+1])
		firstKey := int32(uint32(units[offset+2]) | uint32(units[offset+3])<<16)
		targets := make([]int32, size)
		base := offset + 4
		for i := 0; i < size; i++ {
			targets[i] = int32(uint32(units[base+i*2]) | uint32(units[base+i*2+1])<<16)
		}
		return Payload{Kind: 1, FirstKey: firstKey, Targets: targets}, 4 + size*2, true
	case sparseSwitchIdent:
		size := int(units[offset+1])
		keys := make([]int32, size)
		targets := make([]int32, size)
		keyBase := offset + 2
		for i := 0; i < size; i++ {
			keys[i] = int32(uint32(units[keyBase+i*2]) | uint32(units[keyBase+i*2+1])<<16)
		}
		targetBase := keyBase + size*2
		for i := 0; i < size; i++ {
			targets[i] = int32(uint32(units[targetBase+i*2]) | uint32(units[targetBase+i*2+1])<<16)
		}
		return Payload{Kind: 2, Keys: keys, Targets: targets}, 2 + size*4, true
	case fillArrayDataIdent:
		elementWidth := int(units[offset+1])
		size := uint32(units[offset+2]) | uint32(units[offset+3])<<16
		byteCount := int(size) * elementWidth
		unitCount := (byteCount + 1) / 2
		data := make([]uint64, size)
		bytes := make([]byte, 0, byteCount)
		for i := 0; i < unitCount; i++ {
			u := units[offset+4+i]
			bytes = append(bytes, byte(u), byte(u>>8))
		}
		for i := 0; i < int(size); i++ {
			var v uint64
			for j := 0; j < elementWidth; j++ {
				v |= uint64(bytes[i*elementWidth+j]) << (8 * j)
			}
			data[i] = v
		}
		return Payload{Kind: 3, ElementWidth: elementWidth, Data: data}, 4 + unitCount, true
	default:
		return Payload{}, 0, false
	}
}
