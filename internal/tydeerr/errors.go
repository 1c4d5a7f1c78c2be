// Package tydeerr defines the diagnostic type shared across the
// retargeting pipeline. A *Diagnostic carries a Location saying where in
// the class a failure happened. The decoder reports its failures this
// way; the other components return bare errors.
package tydeerr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies which phase of the pipeline produced a Diagnostic.
type Kind string

const (
	DecodeError    Kind = "DecodeError"
	CFGError       Kind = "CFGError"
	SolverConflict Kind = "SolverConflict"
	ConstPoolError Kind = "ConstPoolError"
	VerifierError  Kind = "VerifierError"
	EmitError      Kind = "EmitError"
	LedgerError    Kind = "LedgerError"
)

// Location pins a Diagnostic to a place in the input: a class, one of its
// methods, and a bytecode offset within that method's body. Offset is -1
// when the diagnostic is not about a specific instruction.
type Location struct {
	Class  string
	Method string
	Offset int
}

func (l Location) String() string {
	if l.Class == "" {
		return "<unknown location>"
	}
	s := l.Class
	if l.Method != "" {
		s += "#" + l.Method
	}
	if l.Offset >= 0 {
		s += fmt.Sprintf("+0x%x", l.Offset)
	}
	return s
}

// Diagnostic is a single pipeline failure, optionally wrapping an
// underlying cause captured with a stack trace via github.com/pkg/errors.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Location Location
	Cause    error
}

func New(kind Kind, loc Location, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc}
}

// Wrap attaches loc/kind context to an existing error, preserving its
// pkg/errors stack trace if it has one.
func Wrap(kind Kind, loc Location, cause error, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
		Cause:    errors.WithStack(cause),
	}
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", d.Kind, d.Message)
	if loc := d.Location.String(); loc != "<unknown location>" {
		fmt.Fprintf(&sb, " (at %s)", loc)
	}
	if d.Cause != nil {
		fmt.Fprintf(&sb, ": %v", d.Cause)
	}
	return sb.String()
}

func (d *Diagnostic) Unwrap() error { return d.Cause }

// Diagnostics accumulates every non-fatal diagnostic raised while
// processing one class, so a single run can surface every broken method
// instead of stopping at the first one (per-class worker pools want this:
// one class's failure shouldn't hide a sibling class's).
type Diagnostics struct {
	items []*Diagnostic
}

func (d *Diagnostics) Add(diag *Diagnostic)  { d.items = append(d.items, diag) }
func (d *Diagnostics) Len() int              { return len(d.items) }
func (d *Diagnostics) All() []*Diagnostic    { return d.items }
func (d *Diagnostics) HasErrors() bool       { return len(d.items) > 0 }

func (d *Diagnostics) Error() string {
	lines := make([]string, len(d.items))
	for i, diag := range d.items {
		lines[i] = diag.Error()
	}
	return strings.Join(lines, "\n")
}
