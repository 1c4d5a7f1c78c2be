// Package dalvik names the Dalvik bytecode opcodes the decoder
// recognizes and classifies them into the semantic groups §4.3 of
// SPEC_FULL.md dispatches on. Numeric values follow the real Dalvik
// instruction set (as documented by the Android runtime) where a real
// opcode is modeled; synthetic pseudo-opcodes used only inside this
// tool's IR are numbered starting at 0x100 so they never collide with a
// decoded byte.
package dalvik

type Opcode uint16

const (
	Nop                 Opcode = 0x00
	Move                Opcode = 0x01
	MoveFrom16          Opcode = 0x02
	Move16              Opcode = 0x03
	MoveWide            Opcode = 0x04
	MoveWideFrom16      Opcode = 0x05
	MoveWide16          Opcode = 0x06
	MoveObject          Opcode = 0x07
	MoveObjectFrom16    Opcode = 0x08
	MoveObject16        Opcode = 0x09
	MoveResult          Opcode = 0x0a
	MoveResultWide      Opcode = 0x0b
	MoveResultObject    Opcode = 0x0c
	MoveException       Opcode = 0x0d
	ReturnVoid          Opcode = 0x0e
	Return              Opcode = 0x0f
	ReturnWide          Opcode = 0x10
	ReturnObject        Opcode = 0x11
	Const4              Opcode = 0x12
	Const16             Opcode = 0x13
	Const               Opcode = 0x14
	ConstHigh16         Opcode = 0x15
	ConstWide16         Opcode = 0x16
	ConstWide32         Opcode = 0x17
	ConstWide           Opcode = 0x18
	ConstWideHigh16     Opcode = 0x19
	ConstString         Opcode = 0x1a
	ConstStringJumbo    Opcode = 0x1b
	ConstClass          Opcode = 0x1c
	MonitorEnter        Opcode = 0x1d
	MonitorExit         Opcode = 0x1e
	CheckCast           Opcode = 0x1f
	InstanceOf          Opcode = 0x20
	ArrayLength         Opcode = 0x21
	NewInstance         Opcode = 0x22
	NewArray            Opcode = 0x23
	FilledNewArray      Opcode = 0x24
	FilledNewArrayRange Opcode = 0x25
	FillArrayData       Opcode = 0x26
	Throw               Opcode = 0x27
	Goto                Opcode = 0x28
	Goto16              Opcode = 0x29
	Goto32              Opcode = 0x2a
	PackedSwitch        Opcode = 0x2b
	SparseSwitch        Opcode = 0x2c
	CmplFloat           Opcode = 0x2d
	CmpgFloat           Opcode = 0x2e
	CmplDouble          Opcode = 0x2f
	CmpgDouble          Opcode = 0x30
	CmpLong             Opcode = 0x31
	IfEq                Opcode = 0x32
	IfNe                Opcode = 0x33
	IfLt                Opcode = 0x34
	IfGe                Opcode = 0x35
	IfGt                Opcode = 0x36
	IfLe                Opcode = 0x37
	IfEqz               Opcode = 0x38
	IfNez               Opcode = 0x39
	IfLtz               Opcode = 0x3a
	IfGez               Opcode = 0x3b
	IfGtz               Opcode = 0x3c
	IfLez               Opcode = 0x3d

	// aget/aput family, 0x44-0x51.
	Aget        Opcode = 0x44
	AgetWide    Opcode = 0x45
	AgetObject  Opcode = 0x46
	AgetBoolean Opcode = 0x47
	AgetByte    Opcode = 0x48
	AgetChar    Opcode = 0x49
	AgetShort   Opcode = 0x4a
	Aput        Opcode = 0x4b
	AputWide    Opcode = 0x4c
	AputObject  Opcode = 0x4d
	AputBoolean Opcode = 0x4e
	AputByte    Opcode = 0x4f
	AputChar    Opcode = 0x50
	AputShort   Opcode = 0x51

	// iget/iput family, 0x52-0x5f.
	Iget        Opcode = 0x52
	IgetWide    Opcode = 0x53
	IgetObject  Opcode = 0x54
	IgetBoolean Opcode = 0x55
	IgetByte    Opcode = 0x56
	IgetChar    Opcode = 0x57
	IgetShort   Opcode = 0x58
	Iput        Opcode = 0x59
	IputWide    Opcode = 0x5a
	IputObject  Opcode = 0x5b
	IputBoolean Opcode = 0x5c
	IputByte    Opcode = 0x5d
	IputChar    Opcode = 0x5e
	IputShort   Opcode = 0x5f

	// sget/sput family, 0x60-0x6d.
	Sget        Opcode = 0x60
	SgetWide    Opcode = 0x61
	SgetObject  Opcode = 0x62
	SgetBoolean Opcode = 0x63
	SgetByte    Opcode = 0x64
	SgetChar    Opcode = 0x65
	SgetShort   Opcode = 0x66
	Sput        Opcode = 0x67
	SputWide    Opcode = 0x68
	SputObject  Opcode = 0x69
	SputBoolean Opcode = 0x6a
	SputByte    Opcode = 0x6b
	SputChar    Opcode = 0x6c
	SputShort   Opcode = 0x6d

	// invoke family, 0x6e-0x78.
	InvokeVirtual        Opcode = 0x6e
	InvokeSuper          Opcode = 0x6f
	InvokeDirect         Opcode = 0x70
	InvokeStatic         Opcode = 0x71
	InvokeInterface      Opcode = 0x72
	InvokeVirtualRange   Opcode = 0x74
	InvokeSuperRange     Opcode = 0x75
	InvokeDirectRange    Opcode = 0x76
	InvokeStaticRange    Opcode = 0x77
	InvokeInterfaceRange Opcode = 0x78

	// Unary ops, 0x7b-0x8f.
	NegInt        Opcode = 0x7b
	NotInt        Opcode = 0x7c
	NegLong       Opcode = 0x7d
	NotLong       Opcode = 0x7e
	NegFloat      Opcode = 0x7f
	NegDouble     Opcode = 0x80
	IntToLong     Opcode = 0x81
	IntToFloat    Opcode = 0x82
	IntToDouble   Opcode = 0x83
	LongToInt     Opcode = 0x84
	LongToFloat   Opcode = 0x85
	LongToDouble  Opcode = 0x86
	FloatToInt    Opcode = 0x87
	FloatToLong   Opcode = 0x88
	FloatToDouble Opcode = 0x89
	DoubleToInt   Opcode = 0x8a
	DoubleToLong  Opcode = 0x8b
	DoubleToFloat Opcode = 0x8c
	IntToByte     Opcode = 0x8d
	IntToChar     Opcode = 0x8e
	IntToShort    Opcode = 0x8f

	// Binary ops, 3-register form: 0x90-0xaf.
	AddInt    Opcode = 0x90
	SubInt    Opcode = 0x91
	MulInt    Opcode = 0x92
	DivInt    Opcode = 0x93
	RemInt    Opcode = 0x94
	AndInt    Opcode = 0x95
	OrInt     Opcode = 0x96
	XorInt    Opcode = 0x97
	ShlInt    Opcode = 0x98
	ShrInt    Opcode = 0x99
	UshrInt   Opcode = 0x9a
	AddLong   Opcode = 0x9b
	SubLong   Opcode = 0x9c
	MulLong   Opcode = 0x9d
	DivLong   Opcode = 0x9e
	RemLong   Opcode = 0x9f
	AndLong   Opcode = 0xa0
	OrLong    Opcode = 0xa1
	XorLong   Opcode = 0xa2
	ShlLong   Opcode = 0xa3
	ShrLong   Opcode = 0xa4
	UshrLong  Opcode = 0xa5
	AddFloat  Opcode = 0xa6
	SubFloat  Opcode = 0xa7
	MulFloat  Opcode = 0xa8
	DivFloat  Opcode = 0xa9
	RemFloat  Opcode = 0xaa
	AddDouble Opcode = 0xab
	SubDouble Opcode = 0xac
	MulDouble Opcode = 0xad
	DivDouble Opcode = 0xae
	RemDouble Opcode = 0xaf

	// Binary ops, 2addr form: 0xb0-0xcf (same semantic groups as above).
	AddInt2Addr    Opcode = 0xb0
	SubInt2Addr    Opcode = 0xb1
	MulInt2Addr    Opcode = 0xb2
	DivInt2Addr    Opcode = 0xb3
	RemInt2Addr    Opcode = 0xb4
	AndInt2Addr    Opcode = 0xb5
	OrInt2Addr     Opcode = 0xb6
	XorInt2Addr    Opcode = 0xb7
	ShlInt2Addr    Opcode = 0xb8
	ShrInt2Addr    Opcode = 0xb9
	UshrInt2Addr   Opcode = 0xba
	AddLong2Addr   Opcode = 0xbb
	SubLong2Addr   Opcode = 0xbc
	MulLong2Addr   Opcode = 0xbd
	DivLong2Addr   Opcode = 0xbe
	RemLong2Addr   Opcode = 0xbf
	AndLong2Addr   Opcode = 0xc0
	OrLong2Addr    Opcode = 0xc1
	XorLong2Addr   Opcode = 0xc2
	ShlLong2Addr   Opcode = 0xc3
	ShrLong2Addr   Opcode = 0xc4
	UshrLong2Addr  Opcode = 0xc5
	AddFloat2Addr  Opcode = 0xc6
	SubFloat2Addr  Opcode = 0xc7
	MulFloat2Addr  Opcode = 0xc8
	DivFloat2Addr  Opcode = 0xc9
	RemFloat2Addr  Opcode = 0xca
	AddDouble2Addr Opcode = 0xcb
	SubDouble2Addr Opcode = 0xcc
	MulDouble2Addr Opcode = 0xcd
	DivDouble2Addr Opcode = 0xce
	RemDouble2Addr Opcode = 0xcf

	// Binary op with 16-bit literal, 0xd0-0xd7 (int-only).
	AddIntLit16 Opcode = 0xd0
	RsubInt     Opcode = 0xd1
	MulIntLit16 Opcode = 0xd2
	DivIntLit16 Opcode = 0xd3
	RemIntLit16 Opcode = 0xd4
	AndIntLit16 Opcode = 0xd5
	OrIntLit16  Opcode = 0xd6
	XorIntLit16 Opcode = 0xd7

	// Binary op with 8-bit literal, 0xd8-0xe2 (int-only).
	AddIntLit8  Opcode = 0xd8
	RsubIntLit8 Opcode = 0xd9
	MulIntLit8  Opcode = 0xda
	DivIntLit8  Opcode = 0xdb
	RemIntLit8  Opcode = 0xdc
	AndIntLit8  Opcode = 0xdd
	OrIntLit8   Opcode = 0xde
	XorIntLit8  Opcode = 0xdf
	ShlIntLit8  Opcode = 0xe0
	ShrIntLit8  Opcode = 0xe1
	UshrIntLit8 Opcode = 0xe2

	// Synthetic opcodes, never present in raw input.
	SyntheticNopSentinel Opcode = 0x100 // start/end-of-body anchors
	SyntheticVerifyError Opcode = 0x101 // injected throw-verify-error
	SyntheticArgDef      Opcode = 0x102 // solver Init's argument markers
	SyntheticTrampoline  Opcode = 0x103 // branch-range patching's unconditional jumps
	SyntheticPop         Opcode = 0x104 // discards a 1-slot invoke result the caller never consumed
	SyntheticPop2        Opcode = 0x105 // discards a 2-slot (wide) invoke result the caller never consumed

	// Payload pseudo-instructions, only ever read via their distinguishing
	// marker word (0x0100 packed-switch, 0x0200 sparse-switch, 0x0300
	// fill-array-data) at an offset the switch/fill-array-data
	// instruction points to; never dispatched through the main opcode switch.
	PackedSwitchPayload  Opcode = 0x200
	SparseSwitchPayload  Opcode = 0x201
	FillArrayDataPayload Opcode = 0x202
)
