package ir

import "sort"

// Handler is one (caught type, handler instruction) pair of a try-item.
// CaughtType is a class descriptor; an empty string marks the catch-all
// slot (tracked separately via TryItem.CatchAll).
type Handler struct {
	CaughtType string
	Target     *Insn
}

// TryItem is a contiguous instruction range with its exception handlers.
// End is exclusive, matching the source's encoded try-item semantics.
type TryItem struct {
	Start, End *Insn
	Handlers   []Handler
	CatchAll   *Insn // nil if this try-item has no catch-all handler
}

// Body is the ordered sequence of IR-insns making up one method, plus its
// try-region table. It supports in-place insertion and re-indexing, the
// two body-level primitives the CFG builder's branch-range patcher needs.
type Body struct {
	insns []*Insn
	Tries []TryItem
}

// NewBody builds an empty Body.
func NewBody() *Body { return &Body{} }

func (b *Body) Len() int        { return len(b.insns) }
func (b *Body) At(i int) *Insn  { return b.insns[i] }
func (b *Body) Last() *Insn     { return b.insns[len(b.insns)-1] }
func (b *Body) All() []*Insn    { return b.insns }

// Append adds insn to the end of the body without renumbering (callers
// append in order during decoding, so the index is already correct).
func (b *Body) Append(insn *Insn) {
	insn.Index = len(b.insns)
	b.insns = append(b.insns, insn)
}

// InsertAt splices newInsns into the body starting at index, then
// refreshes every index from that point on. Used by branch-range
// patching to splice in trampoline branches.
func (b *Body) InsertAt(index int, newInsns ...*Insn) {
	tail := append([]*Insn{}, b.insns[index:]...)
	b.insns = append(b.insns[:index], newInsns...)
	b.insns = append(b.insns, tail...)
	b.RefreshIndicesFrom(index)
}

// RemoveTrailing drops the last n instructions — used by the type
// solver's Finalize to remove the synthetic argument-defining
// instructions it appended during Init.
func (b *Body) RemoveTrailing(n int) {
	b.insns = b.insns[:len(b.insns)-n]
}

// RefreshIndicesFrom renumbers every instruction from k onward to match
// its new position in the body.
func (b *Body) RefreshIndicesFrom(k int) {
	for i := k; i < len(b.insns); i++ {
		b.insns[i].Index = i
	}
}

// FindByOffset binary-searches the [first, last] index range for the
// instruction whose OriginalOffset equals offset. The body must be
// sorted by OriginalOffset over that range, which holds for any
// just-decoded body before insertions begin.
func (b *Body) FindByOffset(offset, first, last int) *Insn {
	idx := sort.Search(last-first+1, func(i int) bool {
		return b.insns[first+i].OriginalOffset >= offset
	})
	if first+idx > last {
		return nil
	}
	found := b.insns[first+idx]
	if found.OriginalOffset != offset {
		return nil
	}
	return found
}
