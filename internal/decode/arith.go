package decode

import (
	"tyde/internal/dalvik"
	"tyde/internal/vartype"
)

// unOpTypes names each unary opcode's (source kind, destination kind) —
// fully determined by the opcode itself, never ambiguous.
var unOpTypes = map[dalvik.Opcode][2]vartype.Kind{
	dalvik.NegInt: {vartype.Int, vartype.Int}, dalvik.NotInt: {vartype.Int, vartype.Int},
	dalvik.NegLong: {vartype.Long, vartype.Long}, dalvik.NotLong: {vartype.Long, vartype.Long},
	dalvik.NegFloat: {vartype.Float, vartype.Float}, dalvik.NegDouble: {vartype.Double, vartype.Double},
	dalvik.IntToLong: {vartype.Int, vartype.Long}, dalvik.IntToFloat: {vartype.Int, vartype.Float}, dalvik.IntToDouble: {vartype.Int, vartype.Double},
	dalvik.LongToInt: {vartype.Long, vartype.Int}, dalvik.LongToFloat: {vartype.Long, vartype.Float}, dalvik.LongToDouble: {vartype.Long, vartype.Double},
	dalvik.FloatToInt: {vartype.Float, vartype.Int}, dalvik.FloatToLong: {vartype.Float, vartype.Long}, dalvik.FloatToDouble: {vartype.Float, vartype.Double},
	dalvik.DoubleToInt: {vartype.Double, vartype.Int}, dalvik.DoubleToLong: {vartype.Double, vartype.Long}, dalvik.DoubleToFloat: {vartype.Double, vartype.Float},
	dalvik.IntToByte: {vartype.Int, vartype.Byte}, dalvik.IntToChar: {vartype.Int, vartype.Char}, dalvik.IntToShort: {vartype.Int, vartype.Short},
}

// binOpKind returns the operand kind (int/long/float/double) a 3-register
// or 2addr binary arithmetic opcode operates on, derived from its offset
// within its opcode block — all four groups (int, long, float, double)
// occupy a fixed-size run within both the 3-register and 2addr blocks.
func binOpKind(op dalvik.Opcode) vartype.Kind {
	var idx int
	switch {
	case isBinOp3(op):
		idx = int(op - dalvik.AddInt)
	case isBinOp2Addr(op):
		idx = int(op - dalvik.AddInt2Addr)
	}
	switch {
	case idx < 11:
		return vartype.Int
	case idx < 22:
		return vartype.Long
	case idx < 27:
		return vartype.Float
	default:
		return vartype.Double
	}
}
