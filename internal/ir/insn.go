// Package ir implements the retargeting core's typed intermediate
// instruction (Insn) and the method body (Body) that holds an ordered
// sequence of them plus the method's try-region table.
package ir

import (
	"tyde/internal/dalvik"
	"tyde/internal/vartype"
)

// Opcode is the Dalvik opcode of a decoded instruction, or one of the
// synthetic pseudo-opcodes the decoder/CFG builder introduce (sentinel
// nops, verifier-error throws, argument-definition markers).
type Opcode = dalvik.Opcode

// Operand is a single (register, type) slot — a source use or a
// destination definition.
type Operand struct {
	Reg  int
	Type vartype.Type
}

// SwitchData holds a packed- or sparse-switch's decoded keys/targets.
// For packed-switch Keys holds only the first key; Targets is parallel
// to the full target list either way.
type SwitchData struct {
	Keys    []int32
	Targets []int32
}

// FillArrayData holds a parsed fill-array-data payload: the raw 64-bit
// words (truncated to the element width) and, once C7 has run, one
// constant-pool reference per element.
type FillArrayData struct {
	ElementWidth int
	Words        []uint64
	Refs         []*ConstRef
}

// ConstRef is the IR's handle into the class-level constant pool. The
// constant pool package defines the concrete entry kinds; ir only needs
// an opaque, comparable handle.
type ConstRef struct {
	// Kind and Index are interpreted by internal/constpool; ir treats
	// this as an opaque token threaded through the pipeline.
	Kind  string
	Index int
}

// ErrorDescriptor carries the injected exception class for a
// verifier-error synthetic instruction.
type ErrorDescriptor struct {
	ClassDescriptor string
}

// Insn is one typed intermediate instruction: either a real decoded
// Dalvik instruction or one of the synthetic kinds described in spec.md
// (sentinel nops, argument-definition markers, verifier-error throws).
type Insn struct {
	Op             Opcode
	OriginalOffset int // position in the source instruction stream
	Index          int // current position in the containing Body
	Label          int // -1 if unlabeled; assigned lazily when branched to

	Sources     []Operand
	HasDest     bool
	Destination Operand

	Reference *ConstRef

	// Literal holds a const-family instruction's raw bit pattern (sign or
	// zero extended to 64 bits as the opcode dictates) until C7 promotes
	// it into a typed constant-pool reference once the destination's
	// type is known.
	Literal   int64
	HasLiteral bool

	// BranchTargetOffset is the source-offset target of a fixed branch
	// (goto/if-family); HasBranchTarget is false for every other opcode.
	// internal/cfgbuild resolves it to an *Insn via Body.FindByOffset.
	BranchTargetOffset int
	HasBranchTarget    bool

	Switch    *SwitchData
	FillArray *FillArrayData
	ArrayType  vartype.Type // filled-new-array's component type
	ResultType vartype.Type // invoke/filled-new-array's produced value type, for a following move-result
	Error      *ErrorDescriptor

	Successors           []*Insn
	Predecessors         []*Insn
	ExceptionSuccessors  []*Insn
	ExceptionPredecessors []*Insn

	Reachable bool

	// IsArgDef marks a synthetic argument-defining instruction inserted
	// by the type solver's Init phase; Finalize detaches these.
	IsArgDef bool
}

// NewInsn constructs a bare Insn for the given opcode and source offset.
// The decoder populates Sources/Destination/side-data afterward.
func NewInsn(op Opcode, originalOffset int) *Insn {
	return &Insn{Op: op, OriginalOffset: originalOffset, Label: -1}
}

// AddSource appends a source operand.
func (i *Insn) AddSource(reg int, t vartype.Type) {
	i.Sources = append(i.Sources, Operand{Reg: reg, Type: t})
}

// SetDestination sets the (single) destination operand.
func (i *Insn) SetDestination(reg int, t vartype.Type) {
	i.HasDest = true
	i.Destination = Operand{Reg: reg, Type: t}
}

// SourceTypeByRegister returns the type of the first source operand
// naming reg, and whether one was found.
func (i *Insn) SourceTypeByRegister(reg int) (vartype.Type, bool) {
	for _, s := range i.Sources {
		if s.Reg == reg {
			return s.Type, true
		}
	}
	return vartype.Type{}, false
}

// SetSourceTypeByRegister overwrites every source operand naming reg.
func (i *Insn) SetSourceTypeByRegister(reg int, t vartype.Type) {
	for idx := range i.Sources {
		if i.Sources[idx].Reg == reg {
			i.Sources[idx].Type = t
		}
	}
}

// SetSourceTypeByRegisterIfUnknown overwrites every source operand naming
// reg only where its current type is still one of the ambiguous/unknown
// kinds — C6's write-back must never clobber a type the decoder already
// pinned down.
func (i *Insn) SetSourceTypeByRegisterIfUnknown(reg int, t vartype.Type) {
	for idx := range i.Sources {
		if i.Sources[idx].Reg == reg && i.Sources[idx].Type.IsUnknown() {
			i.Sources[idx].Type = t
		}
	}
}

// SetDestinationTypeIfUnknown overwrites the destination operand's type
// only where it is still one of the ambiguous/unknown kinds.
func (i *Insn) SetDestinationTypeIfUnknown(reg int, t vartype.Type) {
	if i.HasDest && i.Destination.Reg == reg && i.Destination.Type.IsUnknown() {
		i.Destination.Type = t
	}
}

// IsSource reports whether reg appears among this instruction's sources.
func (i *Insn) IsSource(reg int) bool {
	for _, s := range i.Sources {
		if s.Reg == reg {
			return true
		}
	}
	return false
}

// AddSuccessor installs a normal CFG edge and its mirror predecessor edge.
func (i *Insn) AddSuccessor(to *Insn) {
	i.Successors = append(i.Successors, to)
	to.Predecessors = append(to.Predecessors, i)
}

// AddExceptionSuccessor installs an exceptional CFG edge and its mirror.
func (i *Insn) AddExceptionSuccessor(to *Insn) {
	i.ExceptionSuccessors = append(i.ExceptionSuccessors, to)
	to.ExceptionPredecessors = append(to.ExceptionPredecessors, i)
}

// ReplacePredecessor swaps the first occurrence of old with replacement
// in this instruction's predecessor list — the primitive branch-range
// patching uses to re-point an edge without disturbing edge order.
func (i *Insn) ReplacePredecessor(old, replacement *Insn) {
	for idx, p := range i.Predecessors {
		if p == old {
			i.Predecessors[idx] = replacement
			return
		}
	}
}

// PopPredecessor removes the last predecessor — used by the type
// solver's Finalize to detach synthetic argument-definition instructions.
func (i *Insn) PopPredecessor() {
	if len(i.Predecessors) > 0 {
		i.Predecessors = i.Predecessors[:len(i.Predecessors)-1]
	}
}
