// Package constpool implements the class-level constant pool (C7's
// target) and the process-wide stub registry the driver's worker pool
// shares across classes. The pool deduplicates numeric constants by
// value and symbolic references by identity, matching how a real class
// file's constant pool is built.
package constpool

import (
	"sync"

	"tyde/internal/ir"
)

// EntryKind is the tag of one constant pool slot.
type EntryKind int

const (
	Int EntryKind = iota
	Float
	Long
	Double
	String
	Class
	FieldRef
	MethodRef
	InterfaceMethodRef
)

// Entry is one resolved constant pool slot. Only the field matching Kind
// is meaningful.
type Entry struct {
	Kind EntryKind

	IntVal    int32
	FloatVal  float32
	LongVal   int64
	DoubleVal float64
	Utf8      string // String literal payload (class/member names live in the fields below)

	// Symbolic references: owner class + member name/descriptor, valid
	// for FieldRef/MethodRef/InterfaceMethodRef/Class.
	ClassDescriptor string
	MemberName      string
	MemberDescriptor string
}

// Pool is one class's constant pool. It is single-writer per the
// concurrency model: only the worker processing this class ever mutates
// its Pool.
type Pool struct {
	entries []Entry
	byValue map[Entry]int
}

func New() *Pool {
	return &Pool{byValue: make(map[Entry]int)}
}

// intern deduplicates an Entry by full value equality and returns its
// index, appending a new slot on first sight.
func (p *Pool) intern(e Entry) int {
	if idx, ok := p.byValue[e]; ok {
		return idx
	}
	idx := len(p.entries)
	p.entries = append(p.entries, e)
	p.byValue[e] = idx
	return idx
}

func (p *Pool) InternInt(v int32) int    { return p.intern(Entry{Kind: Int, IntVal: v}) }
func (p *Pool) InternFloat(v float32) int { return p.intern(Entry{Kind: Float, FloatVal: v}) }
func (p *Pool) InternLong(v int64) int   { return p.intern(Entry{Kind: Long, LongVal: v}) }
func (p *Pool) InternDouble(v float64) int { return p.intern(Entry{Kind: Double, DoubleVal: v}) }
func (p *Pool) InternString(s string) int { return p.intern(Entry{Kind: String, Utf8: s}) }
func (p *Pool) InternClass(descriptor string) int {
	return p.intern(Entry{Kind: Class, ClassDescriptor: descriptor})
}
func (p *Pool) InternFieldRef(class, name, descriptor string) int {
	return p.intern(Entry{Kind: FieldRef, ClassDescriptor: class, MemberName: name, MemberDescriptor: descriptor})
}
func (p *Pool) InternMethodRef(class, name, descriptor string, iface bool) int {
	kind := MethodRef
	if iface {
		kind = InterfaceMethodRef
	}
	return p.intern(Entry{Kind: kind, ClassDescriptor: class, MemberName: name, MemberDescriptor: descriptor})
}

func (p *Pool) At(i int) Entry { return p.entries[i] }
func (p *Pool) Len() int       { return len(p.entries) }

// Ref resolves an ir.ConstRef back into this pool's Entry by its Index
// (the pool slot) alone. The ref's Kind is the decoder/promoter's coarse
// tag ("numeric", "string", "class", "field", "method") and is not
// consulted here.
func (p *Pool) Ref(ref *ir.ConstRef) Entry {
	return p.entries[ref.Index]
}

// StubKey identifies an external class/member referenced but not defined
// by the input the run is processing.
type StubKey struct {
	Class  string
	Member string // empty for a bare class stub
}

// StubRegistry tracks every external reference encountered across the
// whole run, so the driver can synthesize one stub file per unresolved
// class instead of one per reference. It is shared by every per-class
// worker and guarded by a single mutex, matching the "a single global
// lock is sufficient" concurrency guidance.
type StubRegistry struct {
	mu    sync.Mutex
	seen  map[StubKey]bool
	order []StubKey
}

func NewStubRegistry() *StubRegistry {
	return &StubRegistry{seen: make(map[StubKey]bool)}
}

// Record marks key as needing a stub, returning true the first time it is
// seen (so the caller can decide whether to log it).
func (r *StubRegistry) Record(key StubKey) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[key] {
		return false
	}
	r.seen[key] = true
	r.order = append(r.order, key)
	return true
}

// Keys returns every recorded stub key in first-seen order. Safe to call
// only after every worker has finished.
func (r *StubRegistry) Keys() []StubKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StubKey, len(r.order))
	copy(out, r.order)
	return out
}
