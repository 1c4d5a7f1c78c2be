package dalvik

var names = map[Opcode]string{
	Nop: "nop",

	Move: "move", MoveFrom16: "move/from16", Move16: "move/16",
	MoveWide: "move-wide", MoveWideFrom16: "move-wide/from16", MoveWide16: "move-wide/16",
	MoveObject: "move-object", MoveObjectFrom16: "move-object/from16", MoveObject16: "move-object/16",
	MoveResult: "move-result", MoveResultWide: "move-result-wide", MoveResultObject: "move-result-object",
	MoveException: "move-exception",

	ReturnVoid: "return-void", Return: "return", ReturnWide: "return-wide", ReturnObject: "return-object",

	Const4: "const/4", Const16: "const/16", Const: "const", ConstHigh16: "const/high16",
	ConstWide16: "const-wide/16", ConstWide32: "const-wide/32", ConstWide: "const-wide", ConstWideHigh16: "const-wide/high16",
	ConstString: "const-string", ConstStringJumbo: "const-string/jumbo", ConstClass: "const-class",

	MonitorEnter: "monitor-enter", MonitorExit: "monitor-exit",
	CheckCast: "check-cast", InstanceOf: "instance-of", ArrayLength: "array-length",
	NewInstance: "new-instance", NewArray: "new-array",
	FilledNewArray: "filled-new-array", FilledNewArrayRange: "filled-new-array/range",
	FillArrayData: "fill-array-data",

	Throw: "throw", Goto: "goto", Goto16: "goto/16", Goto32: "goto/32",
	PackedSwitch: "packed-switch", SparseSwitch: "sparse-switch",

	CmplFloat: "cmpl-float", CmpgFloat: "cmpg-float", CmplDouble: "cmpl-double", CmpgDouble: "cmpg-double", CmpLong: "cmp-long",

	IfEq: "if-eq", IfNe: "if-ne", IfLt: "if-lt", IfGe: "if-ge", IfGt: "if-gt", IfLe: "if-le",
	IfEqz: "if-eqz", IfNez: "if-nez", IfLtz: "if-ltz", IfGez: "if-gez", IfGtz: "if-gtz", IfLez: "if-lez",

	Aget: "aget", AgetWide: "aget-wide", AgetObject: "aget-object", AgetBoolean: "aget-boolean",
	AgetByte: "aget-byte", AgetChar: "aget-char", AgetShort: "aget-short",
	Aput: "aput", AputWide: "aput-wide", AputObject: "aput-object", AputBoolean: "aput-boolean",
	AputByte: "aput-byte", AputChar: "aput-char", AputShort: "aput-short",

	Iget: "iget", IgetWide: "iget-wide", IgetObject: "iget-object", IgetBoolean: "iget-boolean",
	IgetByte: "iget-byte", IgetChar: "iget-char", IgetShort: "iget-short",
	Iput: "iput", IputWide: "iput-wide", IputObject: "iput-object", IputBoolean: "iput-boolean",
	IputByte: "iput-byte", IputChar: "iput-char", IputShort: "iput-short",

	Sget: "sget", SgetWide: "sget-wide", SgetObject: "sget-object", SgetBoolean: "sget-boolean",
	SgetByte: "sget-byte", SgetChar: "sget-char", SgetShort: "sget-short",
	Sput: "sput", SputWide: "sput-wide", SputObject: "sput-object", SputBoolean: "sput-boolean",
	SputByte: "sput-byte", SputChar: "sput-char", SputShort: "sput-short",

	InvokeVirtual: "invoke-virtual", InvokeSuper: "invoke-super", InvokeDirect: "invoke-direct",
	InvokeStatic: "invoke-static", InvokeInterface: "invoke-interface",
	InvokeVirtualRange: "invoke-virtual/range", InvokeSuperRange: "invoke-super/range",
	InvokeDirectRange: "invoke-direct/range", InvokeStaticRange: "invoke-static/range",
	InvokeInterfaceRange: "invoke-interface/range",

	NegInt: "neg-int", NotInt: "not-int", NegLong: "neg-long", NotLong: "not-long",
	NegFloat: "neg-float", NegDouble: "neg-double",
	IntToLong: "int-to-long", IntToFloat: "int-to-float", IntToDouble: "int-to-double",
	LongToInt: "long-to-int", LongToFloat: "long-to-float", LongToDouble: "long-to-double",
	FloatToInt: "float-to-int", FloatToLong: "float-to-long", FloatToDouble: "float-to-double",
	DoubleToInt: "double-to-int", DoubleToLong: "double-to-long", DoubleToFloat: "double-to-float",
	IntToByte: "int-to-byte", IntToChar: "int-to-char", IntToShort: "int-to-short",

	AddInt: "add-int", SubInt: "sub-int", MulInt: "mul-int", DivInt: "div-int", RemInt: "rem-int",
	AndInt: "and-int", OrInt: "or-int", XorInt: "xor-int", ShlInt: "shl-int", ShrInt: "shr-int", UshrInt: "ushr-int",
	AddLong: "add-long", SubLong: "sub-long", MulLong: "mul-long", DivLong: "div-long", RemLong: "rem-long",
	AndLong: "and-long", OrLong: "or-long", XorLong: "xor-long", ShlLong: "shl-long", ShrLong: "shr-long", UshrLong: "ushr-long",
	AddFloat: "add-float", SubFloat: "sub-float", MulFloat: "mul-float", DivFloat: "div-float", RemFloat: "rem-float",
	AddDouble: "add-double", SubDouble: "sub-double", MulDouble: "mul-double", DivDouble: "div-double", RemDouble: "rem-double",

	AddInt2Addr: "add-int/2addr", SubInt2Addr: "sub-int/2addr", MulInt2Addr: "mul-int/2addr",
	DivInt2Addr: "div-int/2addr", RemInt2Addr: "rem-int/2addr", AndInt2Addr: "and-int/2addr",
	OrInt2Addr: "or-int/2addr", XorInt2Addr: "xor-int/2addr", ShlInt2Addr: "shl-int/2addr",
	ShrInt2Addr: "shr-int/2addr", UshrInt2Addr: "ushr-int/2addr",
	AddLong2Addr: "add-long/2addr", SubLong2Addr: "sub-long/2addr", MulLong2Addr: "mul-long/2addr",
	DivLong2Addr: "div-long/2addr", RemLong2Addr: "rem-long/2addr", AndLong2Addr: "and-long/2addr",
	OrLong2Addr: "or-long/2addr", XorLong2Addr: "xor-long/2addr", ShlLong2Addr: "shl-long/2addr",
	ShrLong2Addr: "shr-long/2addr", UshrLong2Addr: "ushr-long/2addr",
	AddFloat2Addr: "add-float/2addr", SubFloat2Addr: "sub-float/2addr", MulFloat2Addr: "mul-float/2addr",
	DivFloat2Addr: "div-float/2addr", RemFloat2Addr: "rem-float/2addr",
	AddDouble2Addr: "add-double/2addr", SubDouble2Addr: "sub-double/2addr", MulDouble2Addr: "mul-double/2addr",
	DivDouble2Addr: "div-double/2addr", RemDouble2Addr: "rem-double/2addr",

	AddIntLit16: "add-int/lit16", RsubInt: "rsub-int", MulIntLit16: "mul-int/lit16",
	DivIntLit16: "div-int/lit16", RemIntLit16: "rem-int/lit16", AndIntLit16: "and-int/lit16",
	OrIntLit16: "or-int/lit16", XorIntLit16: "xor-int/lit16",

	AddIntLit8: "add-int/lit8", RsubIntLit8: "rsub-int/lit8", MulIntLit8: "mul-int/lit8",
	DivIntLit8: "div-int/lit8", RemIntLit8: "rem-int/lit8", AndIntLit8: "and-int/lit8",
	OrIntLit8: "or-int/lit8", XorIntLit8: "xor-int/lit8", ShlIntLit8: "shl-int/lit8",
	ShrIntLit8: "shr-int/lit8", UshrIntLit8: "ushr-int/lit8",

	SyntheticNopSentinel: "#nop-sentinel", SyntheticVerifyError: "#throw-verify-error",
	SyntheticArgDef: "#arg-def", SyntheticTrampoline: "goto",
	SyntheticPop: "#pop", SyntheticPop2: "#pop2",
}

// Name returns the textual mnemonic emit walks the body to print, or
// "unknown" for any opcode the table doesn't carry (the payload
// pseudo-opcodes among them).
func (o Opcode) Name() string {
	if n, ok := names[o]; ok {
		return n
	}
	return "unknown"
}
