package dexfile

import (
	"encoding/binary"
	"math"
)

// parseClassData decodes a class_data_item: counts of static/instance
// fields and direct/virtual methods, each as a diff-encoded id plus
// access flags (and, for methods, a code_off).
func (f *File) parseClassData(c *Class, off uint32) error {
	b := f.raw
	staticFieldsSize, off1 := readULEB128(b, off)
	instanceFieldsSize, off2 := readULEB128(b, off1)
	directMethodsSize, off3 := readULEB128(b, off2)
	virtualMethodsSize, off4 := readULEB128(b, off3)
	cur := off4

	cur = f.readEncodedFields(c, cur, staticFieldsSize, true)
	cur = f.readEncodedFields(c, cur, instanceFieldsSize, false)
	var err error
	cur, err = f.readEncodedMethods(c, cur, directMethodsSize, true)
	if err != nil {
		return err
	}
	_, err = f.readEncodedMethods(c, cur, virtualMethodsSize, false)
	return err
}

func (f *File) readEncodedFields(c *Class, off uint32, count uint32, static bool) uint32 {
	var fieldIdx uint32
	for i := uint32(0); i < count; i++ {
		diff, o1 := readULEB128(f.raw, off)
		accessFlags, o2 := readULEB128(f.raw, o1)
		off = o2
		fieldIdx += diff
		name, descriptor := f.fieldDescriptor(uint16(fieldIdx))
		ef := EncodedField{Name: name, Descriptor: descriptor, AccessFlags: accessFlags}
		if static {
			c.StaticFields = append(c.StaticFields, ef)
		} else {
			c.InstanceFields = append(c.InstanceFields, ef)
		}
	}
	return off
}

func (f *File) readEncodedMethods(c *Class, off uint32, count uint32, direct bool) (uint32, error) {
	var methodIdx uint32
	for i := uint32(0); i < count; i++ {
		diff, o1 := readULEB128(f.raw, off)
		accessFlags, o2 := readULEB128(f.raw, o1)
		codeOff, o3 := readULEB128(f.raw, o2)
		off = o3
		methodIdx += diff

		name, paramTypes, returnType := f.methodSignature(uint16(methodIdx))
		descriptor := buildDescriptor(paramTypes, returnType)
		m := Method{
			Name:        name,
			Descriptor:  descriptor,
			AccessFlags: accessFlags,
			IsStatic:    accessFlags&0x0008 != 0,
		}
		if codeOff != 0 {
			f.parseCodeItem(&m, codeOff)
		}
		c.Methods = append(c.Methods, m)
	}
	return off, nil
}

func buildDescriptor(paramTypes []string, returnType string) string {
	d := "("
	for _, p := range paramTypes {
		d += p
	}
	d += ")" + returnType
	return d
}

// parseCodeItem decodes a code_item: register/ins/outs counts, the
// instruction stream, and the try/catch table.
func (f *File) parseCodeItem(m *Method, off uint32) {
	b := f.raw
	m.RegistersSize = int(binary.LittleEndian.Uint16(b[off:]))
	m.InsSize = int(binary.LittleEndian.Uint16(b[off+2:]))
	m.OutsSize = int(binary.LittleEndian.Uint16(b[off+4:]))
	triesSize := binary.LittleEndian.Uint16(b[off+6:])
	insnsSize := binary.LittleEndian.Uint32(b[off+12:])

	insnsOff := off + 16
	units := make([]uint16, insnsSize)
	for i := uint32(0); i < insnsSize; i++ {
		units[i] = binary.LittleEndian.Uint16(b[insnsOff+i*2:])
	}
	m.Instructions, m.Payloads = decodeInstructions(units)

	if triesSize == 0 {
		return
	}
	triesOff := insnsOff + insnsSize*2
	if insnsSize%2 != 0 {
		triesOff += 2 // 4-byte padding before the try table
	}
	handlersListOff := triesOff + uint32(triesSize)*8

	for i := uint16(0); i < triesSize; i++ {
		to := triesOff + uint32(i)*8
		startAddr := binary.LittleEndian.Uint32(b[to:])
		insnCount := binary.LittleEndian.Uint16(b[to+4:])
		handlerOff := binary.LittleEndian.Uint16(b[to+6:])
		ti := TryItem{
			StartOffset: int(startAddr),
			EndOffset:   int(startAddr) + int(insnCount),
			CatchAllOffset: -1,
		}
		f.parseEncodedCatchHandler(&ti, handlersListOff+uint32(handlerOff))
		m.Tries = append(m.Tries, ti)
	}
}

func (f *File) parseEncodedCatchHandler(ti *TryItem, off uint32) {
	size, o1 := readSLEB128(f.raw, off)
	cur := o1
	count := size
	if count < 0 {
		count = -count
	}
	for i := int32(0); i < count; i++ {
		typeIdx, o2 := readULEB128(f.raw, cur)
		addr, o3 := readULEB128(f.raw, o2)
		cur = o3
		ti.Handlers = append(ti.Handlers, CatchHandler{
			TypeDescriptor: f.typeString(typeIdx),
			HandlerOffset:  int(addr),
		})
	}
	if size <= 0 {
		addr, o4 := readULEB128(f.raw, cur)
		_ = o4
		ti.CatchAllOffset = int(addr)
	}
}

// applyStaticValues decodes an encoded_array_item, assigning each value
// in order to the class's leading static fields (the container's own
// convention: only fields with a non-default initial value are listed,
// in field-declaration order).
func (f *File) applyStaticValues(c *Class, off uint32) {
	size, cur := readULEB128(f.raw, off)
	for i := uint32(0); i < size && int(i) < len(c.StaticFields); i++ {
		v, next := f.readEncodedValue(cur)
		cur = next
		c.StaticFields[i].InitialValue = v
	}
}

// readEncodedValue decodes one encoded_value, supporting the primitive,
// string, and null forms needed for static-field initial values.
func (f *File) readEncodedValue(off uint32) (interface{}, uint32) {
	header := f.raw[off]
	valueType := header & 0x1f
	valueArgPlus1 := int(header>>5) + 1
	cur := off + 1

	readIntBytes := func(n int, signed bool) int64 {
		var v int64
		for i := 0; i < n; i++ {
			v |= int64(f.raw[cur]) << (8 * i)
			cur++
		}
		if signed && n < 8 {
			shift := uint(64 - 8*n)
			v = (v << shift) >> shift
		}
		return v
	}

	switch valueType {
	case 0x00: // VALUE_BYTE
		return int8(readIntBytes(1, true)), cur
	case 0x02: // VALUE_SHORT
		return int16(readIntBytes(valueArgPlus1, true)), cur
	case 0x03: // VALUE_CHAR
		return uint16(readIntBytes(valueArgPlus1, false)), cur
	case 0x04: // VALUE_INT
		return int32(readIntBytes(valueArgPlus1, true)), cur
	case 0x06: // VALUE_LONG
		return readIntBytes(valueArgPlus1, true), cur
	case 0x10: // VALUE_FLOAT, zero-extended to the right
		bits := uint32(readIntBytes(valueArgPlus1, false)) << (8 * uint(4-valueArgPlus1))
		return math.Float32frombits(bits), cur
	case 0x11: // VALUE_DOUBLE, zero-extended to the right
		bits := uint64(readIntBytes(valueArgPlus1, false)) << (8 * uint(8-valueArgPlus1))
		return math.Float64frombits(bits), cur
	case 0x1e: // VALUE_NULL
		return nil, cur
	case 0x1f: // VALUE_BOOLEAN
		return valueArgPlus1-1 != 0, cur
	case 0x17: // VALUE_STRING
		idx := uint32(readIntBytes(valueArgPlus1, false))
		return f.strings[idx], cur
	case 0x1c, 0x1d: // VALUE_ARRAY / VALUE_ANNOTATION: walked only to be skipped
		if valueType == 0x1d {
			_, cur = readULEB128(f.raw, cur) // annotation type_idx
		}
		n, next := readULEB128(f.raw, cur)
		cur = next
		for i := uint32(0); i < n; i++ {
			if valueType == 0x1d {
				_, cur = readULEB128(f.raw, cur) // element name_idx
			}
			_, cur = f.readEncodedValue(cur)
		}
		return nil, cur
	default:
		// Types/fields/methods/enums: not needed for the supplemented
		// "encoded static initial values" feature; skip the payload and
		// report nil.
		return nil, cur + uint32(valueArgPlus1)
	}
}
