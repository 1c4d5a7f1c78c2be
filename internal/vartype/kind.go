// Package vartype implements the retargeting core's variable-type lattice:
// a closed set of primitive, ambiguous, and reference kinds plus an array
// dimension, subtyping queries, and the two merge operations the type
// solver uses to join types along a def-use edge.
package vartype

// Kind is the tag half of a Type's (kind, dim) pair. The grouping below
// (ambiguous primitives, concrete primitives, ambiguous references,
// concrete references) mirrors the kind split in the retargeting
// paper this package is based on.
type Kind int

const (
	// Bottom / ambiguous primitives. Unknown is the bottom of the whole
	// lattice: it merges to whatever it meets.
	Unknown Kind = iota
	TrioUnknown
	FIUnknown
	DLUnknown

	// Concrete integer-subtype primitives, in the merge table's column
	// order (Int is the widest). The solver does not distinguish them narrowly (see DESIGN.md).
	Boolean
	Char
	Byte
	Short
	Int

	// Other concrete primitives.
	Float
	Long
	Double

	// Type-error sentinel.
	Conflict

	// Untyped literal operand; never flows into a destination.
	Lit

	// Discard markers after a call whose result is unused.
	Pop
	Pop2

	// Method-return-only.
	Void

	// Reference kinds.
	Object       // concrete reference, or "some reference" when unresolved
	NonArrayObject
	BottomObject // reference-side bottom, used across object-moves
	AFIUnknown   // array of float-or-int
	ADLUnknown   // array of double-or-long
	ACSUnknown   // array of char-or-short
	AObjectUnknown
)

// primitiveKindCount bounds the square merge table; every primitive /
// ambiguous-primitive kind used as a table index must be below this.
const primitiveKindCount = 13

// primitiveIndex maps the primitive-group kinds onto the 0..12 index used
// by the merge table below. Kinds outside the primitive group have no
// valid index and must not reach mergePrimitiveTable.
var primitiveIndex = map[Kind]int{
	Unknown:     0,
	TrioUnknown: 1,
	FIUnknown:   2,
	DLUnknown:   3,
	Boolean:     4,
	Char:        5,
	Byte:        6,
	Short:       7,
	Int:         8,
	Float:       9,
	Long:        10,
	Double:      11,
	Conflict:    12,
}

// String renders a Kind the way the emitter and debug dumps want it.
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "unknown"
	case TrioUnknown:
		return "trio-unknown"
	case FIUnknown:
		return "fi-unknown"
	case DLUnknown:
		return "dl-unknown"
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	case Byte:
		return "byte"
	case Short:
		return "short"
	case Int:
		return "int"
	case Float:
		return "float"
	case Long:
		return "long"
	case Double:
		return "double"
	case Conflict:
		return "conflict"
	case Lit:
		return "literal"
	case Pop:
		return "pop"
	case Pop2:
		return "pop2"
	case Void:
		return "void"
	case Object:
		return "object"
	case NonArrayObject:
		return "na-object"
	case BottomObject:
		return "bottom-object"
	case AFIUnknown:
		return "afi-unknown"
	case ADLUnknown:
		return "adl-unknown"
	case ACSUnknown:
		return "acs-unknown"
	case AObjectUnknown:
		return "aobject-unknown"
	default:
		return "really-unknown"
	}
}
