package vartype

// Type is a (kind, dim) pair: dim is the array dimension (0 for a scalar),
// and for dim>0 kind names the array's component kind, not "array" itself.
// Name carries a resolved reference's class/array-component descriptor
// (e.g. "java/lang/String") when kind is Object/NonArrayObject/AObjectUnknown
// and dim tracks its array depth; it is empty for primitives.
type Type struct {
	Kind Kind
	Dim  int
	Name string
}

// New builds a scalar Type of the given kind.
func New(k Kind) Type { return Type{Kind: k} }

// NewArray builds a Type with the given component kind and dimension.
func NewArray(k Kind, dim int) Type { return Type{Kind: k, Dim: dim} }

// NewObject builds a named concrete reference type.
func NewObject(name string, dim int) Type {
	return Type{Kind: Object, Dim: dim, Name: name}
}

func (t Type) Equal(o Type) bool {
	return t.Kind == o.Kind && t.Dim == o.Dim
}

// Width is the number of stack/local slots this type occupies in the
// target model: 2 for a scalar long/double, 0 for void, 1 otherwise.
func (t Type) Width() int {
	switch {
	case t.Dim == 0 && (t.Kind == Long || t.Kind == Double):
		return 2
	case t.Kind == Void:
		return 0
	default:
		return 1
	}
}

func (t Type) IsIntSubtype() bool {
	return t.Dim == 0 && (t.Kind == Int || t.Kind == Short || t.Kind == Char || t.Kind == Boolean || t.Kind == Byte)
}

func (t Type) IsUnknown() bool {
	switch t.Kind {
	case Unknown, FIUnknown, DLUnknown, AFIUnknown, ADLUnknown, ACSUnknown, TrioUnknown:
		return true
	}
	return false
}

func (t Type) IsLong() bool   { return t.Kind == Long && t.Dim == 0 }
func (t Type) IsFloat() bool  { return t.Kind == Float && t.Dim == 0 }
func (t Type) IsDouble() bool { return t.Kind == Double && t.Dim == 0 }
func (t Type) IsInt() bool    { return t.Kind == Int && t.Dim == 0 }
func (t Type) IsLit() bool    { return t.Kind == Lit }
func (t Type) IsVoid() bool   { return t.Kind == Void }
func (t Type) IsPop() bool    { return t.Kind == Pop }
func (t Type) IsPop2() bool   { return t.Kind == Pop2 }
func (t Type) IsConflict() bool { return t.Kind == Conflict }
func (t Type) IsTrioUnknown() bool { return t.Kind == TrioUnknown }
func (t Type) IsNAObject() bool    { return t.Kind == NonArrayObject }
func (t Type) IsAObjectUnknown() bool { return t.Kind == AObjectUnknown }
func (t Type) IsBottomObject() bool   { return t.Kind == BottomObject }
func (t Type) IsUnknownObject() bool  { return t.Kind == Object && t.Dim == 0 }

func (t Type) IsObject() bool {
	switch t.Kind {
	case Object, NonArrayObject, BottomObject, AObjectUnknown:
		return true
	}
	return t.Dim > 0
}

func (t Type) IsPrimitive() bool {
	if t.Dim != 0 {
		return false
	}
	switch t.Kind {
	case Boolean, Char, Byte, Short, Int, Float, Long, Double, FIUnknown, DLUnknown:
		return true
	}
	return false
}

// IsArray reports whether this Type denotes an array, including the
// ambiguous array tags that haven't picked a concrete dim-bearing kind yet.
func (t Type) IsArray() bool {
	return t.Dim > 0 || t.Kind == AFIUnknown || t.Kind == ADLUnknown || t.Kind == ACSUnknown || t.Kind == AObjectUnknown
}

// Parse turns a type descriptor ("I", "[[Ljava/lang/String;", "V", ...)
// into a Type. Any non-primitive letter maps to a named reference, with
// the descriptor text after the array brackets recorded verbatim as its
// name: a non-array-object at dim 0, an Object of that dim otherwise.
func Parse(descriptor string) Type {
	dim := 0
	for dim < len(descriptor) && descriptor[dim] == '[' {
		dim++
	}
	if dim >= len(descriptor) {
		return Type{Kind: Unknown, Dim: dim}
	}
	switch descriptor[dim] {
	case 'V':
		return Type{Kind: Void}
	case 'Z':
		return Type{Kind: Boolean, Dim: dim}
	case 'B':
		return Type{Kind: Byte, Dim: dim}
	case 'S':
		return Type{Kind: Short, Dim: dim}
	case 'C':
		return Type{Kind: Char, Dim: dim}
	case 'I':
		return Type{Kind: Int, Dim: dim}
	case 'J':
		return Type{Kind: Long, Dim: dim}
	case 'F':
		return Type{Kind: Float, Dim: dim}
	case 'D':
		return Type{Kind: Double, Dim: dim}
	default:
		name := descriptor[dim:]
		if dim == 0 {
			return Type{Kind: NonArrayObject, Name: name}
		}
		return Type{Kind: Object, Dim: dim, Name: name}
	}
}

// ToJavaArrayType returns the spelling the emitter's typed-array operators
// (newarray / aastore-family) expect for this type's component kind.
func (t Type) ToJavaArrayType() string {
	switch t.Kind {
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	case Float:
		return "float"
	case Double:
		return "double"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	default:
		return t.Name
	}
}

func (t Type) String() string {
	s := ""
	for i := 0; i < t.Dim; i++ {
		s += "["
	}
	if t.Name != "" {
		return s + t.Name
	}
	return s + t.Kind.String()
}
