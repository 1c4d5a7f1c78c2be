package decode

import (
	"tyde/internal/dalvik"
	"tyde/internal/dexfile"
	"tyde/internal/ir"
	"tyde/internal/vartype"
)

// decodeOne dispatches a single raw instruction to its opcode-family
// rule from §4.3, producing one fully-populated IR-insn and recording
// any ambiguity seeds it introduces. Access to d.body.Last() (the
// instruction decoded immediately before this one) is what lets
// move-result/-wide/-object recover the previous invoke or
// filled-new-array's result type.
func (d *decoder) decodeOne(raw dexfile.RawInsn) (*ir.Insn, error) {
	insn := ir.NewInsn(raw.Op, raw.Offset)

	switch {
	case raw.Op == dalvik.Nop || raw.Op == dalvik.ReturnVoid || raw.Op == dalvik.Goto ||
		raw.Op == dalvik.Goto16 || raw.Op == dalvik.Goto32:
		if raw.Op == dalvik.Goto || raw.Op == dalvik.Goto16 || raw.Op == dalvik.Goto32 {
			insn.BranchTargetOffset = raw.Offset + int(raw.BranchOffset)
			insn.HasBranchTarget = true
		}

	case raw.Op == dalvik.Move || raw.Op == dalvik.MoveFrom16 || raw.Op == dalvik.Move16:
		insn.AddSource(raw.B, vartype.New(vartype.FIUnknown))
		insn.SetDestination(raw.A, vartype.New(vartype.FIUnknown))
		d.addSourceSeed(insn, raw.B)
		d.addDestSeed(insn, raw.A)

	case raw.Op == dalvik.MoveWide || raw.Op == dalvik.MoveWideFrom16 || raw.Op == dalvik.MoveWide16:
		insn.AddSource(raw.B, vartype.New(vartype.DLUnknown))
		insn.SetDestination(raw.A, vartype.New(vartype.DLUnknown))
		d.addSourceSeed(insn, raw.B)
		d.addDestSeed(insn, raw.A)

	case raw.Op == dalvik.MoveObject || raw.Op == dalvik.MoveObjectFrom16 || raw.Op == dalvik.MoveObject16:
		insn.AddSource(raw.B, vartype.New(vartype.Object))
		insn.SetDestination(raw.A, vartype.New(vartype.Object))

	case isMoveResultFamily(raw.Op):
		d.decodeMoveResult(insn, raw)

	case raw.Op == dalvik.MoveException:
		caught := d.resolveCaughtType(raw.Offset)
		insn.SetDestination(raw.A, vartype.Parse(caught))
		d.recordStubIfExternal(caught)

	case raw.Op == dalvik.Return:
		insn.AddSource(raw.A, vartype.New(vartype.Int))
	case raw.Op == dalvik.ReturnWide:
		insn.AddSource(raw.A, vartype.New(vartype.Long))
	case raw.Op == dalvik.ReturnObject:
		insn.AddSource(raw.A, vartype.New(vartype.Object))

	case raw.Op == dalvik.Const4 || raw.Op == dalvik.Const16 || raw.Op == dalvik.Const:
		d.decodeNarrowConst(insn, raw, raw.Literal)
	case raw.Op == dalvik.ConstHigh16:
		bits := uint32(uint16(raw.Literal)) << 16
		d.decodeNarrowConst(insn, raw, int64(int32(bits)))

	case raw.Op == dalvik.ConstWide16 || raw.Op == dalvik.ConstWide32 || raw.Op == dalvik.ConstWide:
		d.decodeWideConst(insn, raw, raw.Literal)
	case raw.Op == dalvik.ConstWideHigh16:
		bits := uint64(uint16(raw.Literal)) << 48
		d.decodeWideConst(insn, raw, int64(bits))

	case raw.Op == dalvik.ConstString || raw.Op == dalvik.ConstStringJumbo:
		s := d.in.Dex.ResolveString(raw.PoolIndex)
		idx := d.pool.InternString(s)
		insn.SetDestination(raw.A, vartype.Type{Kind: vartype.NonArrayObject, Name: "java/lang/String"})
		insn.Reference = &ir.ConstRef{Kind: "string", Index: idx}

	case raw.Op == dalvik.ConstClass:
		descriptor := d.in.Dex.ResolveType(raw.PoolIndex)
		idx := d.pool.InternClass(descriptor)
		insn.SetDestination(raw.A, vartype.New(vartype.Object))
		insn.Reference = &ir.ConstRef{Kind: "class", Index: idx}
		d.recordStubIfExternal(descriptor)

	case raw.Op == dalvik.MonitorEnter || raw.Op == dalvik.MonitorExit || raw.Op == dalvik.Throw:
		insn.AddSource(raw.A, vartype.New(vartype.Object))

	case raw.Op == dalvik.CheckCast:
		descriptor := d.in.Dex.ResolveType(raw.PoolIndex)
		insn.AddSource(raw.A, vartype.New(vartype.Object))
		insn.SetDestination(raw.A, vartype.Parse(descriptor))
		d.recordStubIfExternal(descriptor)

	case raw.Op == dalvik.InstanceOf:
		descriptor := d.in.Dex.ResolveType(raw.PoolIndex)
		insn.AddSource(raw.B, vartype.New(vartype.Object))
		insn.SetDestination(raw.A, vartype.New(vartype.Boolean))
		insn.Reference = &ir.ConstRef{Kind: "class", Index: d.pool.InternClass(descriptor)}
		d.recordStubIfExternal(descriptor)

	case raw.Op == dalvik.ArrayLength:
		insn.AddSource(raw.B, vartype.New(vartype.Object))
		insn.SetDestination(raw.A, vartype.New(vartype.Int))

	case raw.Op == dalvik.NewInstance:
		descriptor := d.in.Dex.ResolveType(raw.PoolIndex)
		insn.SetDestination(raw.A, vartype.Parse(descriptor))
		insn.Reference = &ir.ConstRef{Kind: "class", Index: d.pool.InternClass(descriptor)}
		d.recordStubIfExternal(descriptor)

	case raw.Op == dalvik.NewArray:
		descriptor := d.in.Dex.ResolveType(raw.PoolIndex)
		arrType := vartype.Parse(descriptor)
		insn.AddSource(raw.B, vartype.New(vartype.Int))
		insn.SetDestination(raw.A, arrType)
		insn.Reference = &ir.ConstRef{Kind: "class", Index: d.pool.InternClass(descriptor)}
		if arrType.Name != "" {
			d.recordStubIfExternal(arrType.Name)
		}

	case raw.Op == dalvik.FilledNewArray || raw.Op == dalvik.FilledNewArrayRange:
		d.decodeFilledNewArray(insn, raw)

	case raw.Op == dalvik.FillArrayData:
		d.decodeFillArrayData(insn, raw)

	case isSwitch(raw.Op):
		d.decodeSwitch(insn, raw)

	case raw.Op == dalvik.CmplFloat || raw.Op == dalvik.CmpgFloat:
		insn.AddSource(raw.B, vartype.New(vartype.Float))
		insn.AddSource(raw.C, vartype.New(vartype.Float))
		insn.SetDestination(raw.A, vartype.New(vartype.Int))
	case raw.Op == dalvik.CmplDouble || raw.Op == dalvik.CmpgDouble:
		insn.AddSource(raw.B, vartype.New(vartype.Double))
		insn.AddSource(raw.C, vartype.New(vartype.Double))
		insn.SetDestination(raw.A, vartype.New(vartype.Int))
	case raw.Op == dalvik.CmpLong:
		insn.AddSource(raw.B, vartype.New(vartype.Long))
		insn.AddSource(raw.C, vartype.New(vartype.Long))
		insn.SetDestination(raw.A, vartype.New(vartype.Int))

	case raw.Op == dalvik.IfEq || raw.Op == dalvik.IfNe:
		insn.AddSource(raw.A, vartype.New(vartype.TrioUnknown))
		insn.AddSource(raw.B, vartype.New(vartype.TrioUnknown))
		d.addSourceSeed(insn, raw.A)
		d.addSourceSeed(insn, raw.B)
		insn.BranchTargetOffset = raw.Offset + int(raw.BranchOffset)
		insn.HasBranchTarget = true
	case raw.Op == dalvik.IfLt || raw.Op == dalvik.IfGe || raw.Op == dalvik.IfGt || raw.Op == dalvik.IfLe:
		insn.AddSource(raw.A, vartype.New(vartype.Int))
		insn.AddSource(raw.B, vartype.New(vartype.Int))
		insn.BranchTargetOffset = raw.Offset + int(raw.BranchOffset)
		insn.HasBranchTarget = true
	case raw.Op == dalvik.IfEqz || raw.Op == dalvik.IfNez || raw.Op == dalvik.IfLtz ||
		raw.Op == dalvik.IfGez || raw.Op == dalvik.IfGtz || raw.Op == dalvik.IfLez:
		insn.AddSource(raw.A, vartype.New(vartype.Int))
		insn.BranchTargetOffset = raw.Offset + int(raw.BranchOffset)
		insn.HasBranchTarget = true

	case raw.Op == dalvik.Aget:
		insn.AddSource(raw.B, vartype.New(vartype.AFIUnknown))
		insn.AddSource(raw.C, vartype.New(vartype.Int))
		insn.SetDestination(raw.A, vartype.New(vartype.FIUnknown))
		d.addSourceSeed(insn, raw.B)
		d.addDestSeed(insn, raw.A)
	case raw.Op == dalvik.AgetWide:
		insn.AddSource(raw.B, vartype.New(vartype.ADLUnknown))
		insn.AddSource(raw.C, vartype.New(vartype.Int))
		insn.SetDestination(raw.A, vartype.New(vartype.DLUnknown))
		d.addSourceSeed(insn, raw.B)
		d.addDestSeed(insn, raw.A)
	case raw.Op == dalvik.AgetObject:
		insn.AddSource(raw.B, vartype.New(vartype.AObjectUnknown))
		insn.AddSource(raw.C, vartype.New(vartype.Int))
		insn.SetDestination(raw.A, vartype.New(vartype.Object))
		d.addSourceSeed(insn, raw.B)
		d.addDestSeed(insn, raw.A)
	case raw.Op == dalvik.AgetBoolean:
		d.decodeConcreteAget(insn, raw, vartype.Boolean)
	case raw.Op == dalvik.AgetByte:
		d.decodeConcreteAget(insn, raw, vartype.Byte)
	case raw.Op == dalvik.AgetChar:
		d.decodeConcreteAget(insn, raw, vartype.Char)
	case raw.Op == dalvik.AgetShort:
		d.decodeConcreteAget(insn, raw, vartype.Short)

	case raw.Op == dalvik.Aput:
		insn.AddSource(raw.A, vartype.New(vartype.FIUnknown))
		insn.AddSource(raw.B, vartype.New(vartype.AFIUnknown))
		insn.AddSource(raw.C, vartype.New(vartype.Int))
		d.addSourceSeed(insn, raw.A)
		d.addSourceSeed(insn, raw.B)
	case raw.Op == dalvik.AputWide:
		insn.AddSource(raw.A, vartype.New(vartype.DLUnknown))
		insn.AddSource(raw.B, vartype.New(vartype.ADLUnknown))
		insn.AddSource(raw.C, vartype.New(vartype.Int))
		d.addSourceSeed(insn, raw.A)
		d.addSourceSeed(insn, raw.B)
	case raw.Op == dalvik.AputObject:
		insn.AddSource(raw.A, vartype.New(vartype.Object))
		insn.AddSource(raw.B, vartype.New(vartype.AObjectUnknown))
		insn.AddSource(raw.C, vartype.New(vartype.Int))
		d.addSourceSeed(insn, raw.A)
		d.addSourceSeed(insn, raw.B)
	case raw.Op == dalvik.AputBoolean:
		d.decodeConcreteAput(insn, raw, vartype.Boolean)
	case raw.Op == dalvik.AputByte:
		d.decodeConcreteAput(insn, raw, vartype.Byte)
	case raw.Op == dalvik.AputChar:
		d.decodeConcreteAput(insn, raw, vartype.Char)
	case raw.Op == dalvik.AputShort:
		d.decodeConcreteAput(insn, raw, vartype.Short)

	case raw.Op == dalvik.Iget || raw.Op == dalvik.IgetWide || raw.Op == dalvik.IgetObject ||
		raw.Op == dalvik.IgetBoolean || raw.Op == dalvik.IgetByte || raw.Op == dalvik.IgetChar || raw.Op == dalvik.IgetShort:
		owner, _, fieldDescriptor := d.in.Dex.ResolveField(raw.PoolIndex)
		insn.AddSource(raw.B, vartype.New(vartype.Object))
		insn.SetDestination(raw.A, vartype.Parse(fieldDescriptor))
		insn.Reference = d.internField(raw.PoolIndex)
		d.recordStubIfExternal(owner)

	case raw.Op == dalvik.Iput || raw.Op == dalvik.IputWide || raw.Op == dalvik.IputObject ||
		raw.Op == dalvik.IputBoolean || raw.Op == dalvik.IputByte || raw.Op == dalvik.IputChar || raw.Op == dalvik.IputShort:
		owner, _, fieldDescriptor := d.in.Dex.ResolveField(raw.PoolIndex)
		insn.AddSource(raw.A, vartype.Parse(fieldDescriptor))
		insn.AddSource(raw.B, vartype.New(vartype.Object))
		insn.Reference = d.internField(raw.PoolIndex)
		d.recordStubIfExternal(owner)

	case raw.Op == dalvik.Sget || raw.Op == dalvik.SgetWide || raw.Op == dalvik.SgetObject ||
		raw.Op == dalvik.SgetBoolean || raw.Op == dalvik.SgetByte || raw.Op == dalvik.SgetChar || raw.Op == dalvik.SgetShort:
		owner, _, fieldDescriptor := d.in.Dex.ResolveField(raw.PoolIndex)
		insn.SetDestination(raw.A, vartype.Parse(fieldDescriptor))
		insn.Reference = d.internField(raw.PoolIndex)
		d.recordStubIfExternal(owner)

	case raw.Op == dalvik.Sput || raw.Op == dalvik.SputWide || raw.Op == dalvik.SputObject ||
		raw.Op == dalvik.SputBoolean || raw.Op == dalvik.SputByte || raw.Op == dalvik.SputChar || raw.Op == dalvik.SputShort:
		owner, _, fieldDescriptor := d.in.Dex.ResolveField(raw.PoolIndex)
		insn.AddSource(raw.A, vartype.Parse(fieldDescriptor))
		insn.Reference = d.internField(raw.PoolIndex)
		d.recordStubIfExternal(owner)

	case isInvokeFamily(raw.Op):
		d.decodeInvoke(insn, raw)

	case isUnOp(raw.Op):
		kinds := unOpTypes[raw.Op]
		insn.AddSource(raw.B, vartype.New(kinds[0]))
		insn.SetDestination(raw.A, vartype.New(kinds[1]))

	case isBinOp3(raw.Op):
		k := binOpKind(raw.Op)
		insn.AddSource(raw.B, vartype.New(k))
		insn.AddSource(raw.C, vartype.New(k))
		insn.SetDestination(raw.A, vartype.New(k))
	case isBinOp2Addr(raw.Op):
		k := binOpKind(raw.Op)
		insn.AddSource(raw.A, vartype.New(k))
		insn.AddSource(raw.B, vartype.New(k))
		insn.SetDestination(raw.A, vartype.New(k))
	case isBinOpLit16(raw.Op) || isBinOpLit8(raw.Op):
		insn.AddSource(raw.B, vartype.New(vartype.Int))
		insn.SetDestination(raw.A, vartype.New(vartype.Int))

	default:
		// Unknown/unused opcode word: a hard per-method decode error.
		return nil, errUnknownOpcode(raw.Op)
	}

	return insn, nil
}

func (d *decoder) decodeMoveResult(insn *ir.Insn, raw dexfile.RawInsn) {
	prev := d.body.Last()
	resultType := prev.ResultType
	if resultType.IsVoid() {
		return
	}
	insn.SetDestination(raw.A, resultType)
}

func (d *decoder) decodeNarrowConst(insn *ir.Insn, raw dexfile.RawInsn, bits int64) {
	insn.Literal = bits
	insn.HasLiteral = true
	k := vartype.FIUnknown
	if int32(bits) == 0 {
		k = vartype.TrioUnknown
	}
	insn.SetDestination(raw.A, vartype.New(k))
	d.addDestSeed(insn, raw.A)
}

func (d *decoder) decodeWideConst(insn *ir.Insn, raw dexfile.RawInsn, bits int64) {
	insn.Literal = bits
	insn.HasLiteral = true
	insn.SetDestination(raw.A, vartype.New(vartype.DLUnknown))
	d.addDestSeed(insn, raw.A)
}

func (d *decoder) decodeConcreteAget(insn *ir.Insn, raw dexfile.RawInsn, k vartype.Kind) {
	insn.AddSource(raw.B, vartype.NewArray(k, 1))
	insn.AddSource(raw.C, vartype.New(vartype.Int))
	insn.SetDestination(raw.A, vartype.New(k))
}

func (d *decoder) decodeConcreteAput(insn *ir.Insn, raw dexfile.RawInsn, k vartype.Kind) {
	insn.AddSource(raw.A, vartype.New(k))
	insn.AddSource(raw.B, vartype.NewArray(k, 1))
	insn.AddSource(raw.C, vartype.New(vartype.Int))
}

func (d *decoder) decodeFilledNewArray(insn *ir.Insn, raw dexfile.RawInsn) {
	descriptor := d.in.Dex.ResolveType(raw.PoolIndex)
	arrType := vartype.Parse(descriptor)
	component := arrType
	component.Dim = arrType.Dim - 1
	for _, reg := range raw.Regs {
		insn.AddSource(reg, component)
	}
	insn.ArrayType = component
	insn.ResultType = arrType
	insn.Reference = &ir.ConstRef{Kind: "class", Index: d.pool.InternClass(descriptor)}
	if arrType.Name != "" {
		d.recordStubIfExternal(arrType.Name)
	}
}

func (d *decoder) decodeFillArrayData(insn *ir.Insn, raw dexfile.RawInsn) {
	target := raw.Offset + int(raw.BranchOffset)
	payload, ok := d.in.Method.Payloads[target]
	if !ok {
		return
	}
	var compKind vartype.Kind
	ambiguous := true
	switch payload.ElementWidth {
	case 1:
		compKind, ambiguous = vartype.Byte, false
	case 2:
		compKind = vartype.ACSUnknown
	case 4:
		compKind = vartype.AFIUnknown
	case 8:
		compKind = vartype.ADLUnknown
	}
	srcType := vartype.Type{Kind: compKind, Dim: 1}
	if compKind == vartype.Byte {
		srcType = vartype.NewArray(vartype.Byte, 1)
	}
	insn.AddSource(raw.A, srcType)
	insn.ArrayType = vartype.New(compKind)
	insn.FillArray = &ir.FillArrayData{ElementWidth: payload.ElementWidth, Words: payload.Data}
	if ambiguous {
		d.addSourceSeed(insn, raw.A)
	}
}

func (d *decoder) decodeSwitch(insn *ir.Insn, raw dexfile.RawInsn) {
	insn.AddSource(raw.A, vartype.New(vartype.Int))
	target := raw.Offset + int(raw.BranchOffset)
	payload, ok := d.in.Method.Payloads[target]
	if !ok {
		return
	}
	sd := &ir.SwitchData{Targets: make([]int32, len(payload.Targets))}
	for i, t := range payload.Targets {
		sd.Targets[i] = int32(raw.Offset) + t
	}
	if payload.Kind == 1 {
		sd.Keys = []int32{payload.FirstKey}
	} else {
		sd.Keys = payload.Keys
	}
	insn.Switch = sd
}

func (d *decoder) decodeInvoke(insn *ir.Insn, raw dexfile.RawInsn) {
	owner, name, paramTypes, returnType := d.in.Dex.ResolveMethod(raw.PoolIndex)
	d.recordStubIfExternal(owner)

	regs := raw.Regs
	if !isInvokeStatic(raw.Op) && len(regs) > 0 {
		insn.AddSource(regs[0], vartype.Type{Kind: vartype.NonArrayObject, Name: owner})
		regs = regs[1:]
	}
	for i, pt := range paramTypes {
		if i >= len(regs) {
			break
		}
		insn.AddSource(regs[i], vartype.Parse(pt))
	}
	insn.ResultType = vartype.Parse(returnType)
	insn.Reference = &ir.ConstRef{
		Kind:  "method",
		Index: d.pool.InternMethodRef(owner, name, methodDescriptor(paramTypes, returnType), isInvokeInterface(raw.Op)),
	}
}

func methodDescriptor(paramTypes []string, returnType string) string {
	d := "("
	for _, p := range paramTypes {
		d += p
	}
	return d + ")" + returnType
}

func (d *decoder) internField(poolIndex int) *ir.ConstRef {
	owner, name, descriptor := d.in.Dex.ResolveField(poolIndex)
	return &ir.ConstRef{Kind: "field", Index: d.pool.InternFieldRef(owner, name, descriptor)}
}

// resolveCaughtType finds which try-item's handler sits at handlerOffset
// and returns its caught-type descriptor, defaulting to Throwable for a
// catch-all slot (move-exception's destination type isn't encoded in the
// instruction stream itself — it has to be cross-referenced against the
// method's try table).
func (d *decoder) resolveCaughtType(handlerOffset int) string {
	for _, t := range d.in.Method.Tries {
		for _, h := range t.Handlers {
			if h.HandlerOffset == handlerOffset {
				return h.TypeDescriptor
			}
		}
		if t.CatchAllOffset == handlerOffset {
			return "java/lang/Throwable"
		}
	}
	return "java/lang/Throwable"
}

type unknownOpcodeError struct{ op dalvik.Opcode }

func (e unknownOpcodeError) Error() string { return "decode: unknown or unused opcode" }

func errUnknownOpcode(op dalvik.Opcode) error { return unknownOpcodeError{op: op} }
