package dexfile

import "testing"

func TestReadULEB128(t *testing.T) {
	// 300 encoded as ULEB128: 0xAC 0x02
	b := []byte{0xAC, 0x02}
	v, next := readULEB128(b, 0)
	if v != 300 || next != 2 {
		t.Fatalf("readULEB128 = (%d,%d), want (300,2)", v, next)
	}
}

func TestReadSLEB128Negative(t *testing.T) {
	// -2 encoded as SLEB128: 0x7e
	b := []byte{0x7e}
	v, next := readSLEB128(b, 0)
	if v != -2 || next != 1 {
		t.Fatalf("readSLEB128 = (%d,%d), want (-2,1)", v, next)
	}
}

func TestReadMUTF8ASCII(t *testing.T) {
	// length-prefixed "hi": ULEB128(2) then 'h','i', NUL terminator.
	b := []byte{0x02, 'h', 'i', 0x00}
	s, next := readMUTF8(b, 0)
	if s != "hi" || next != 3 {
		t.Fatalf("readMUTF8 = (%q,%d), want (\"hi\",3)", s, next)
	}
}
