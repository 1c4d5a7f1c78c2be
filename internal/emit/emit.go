// Package emit implements the textual emission step: a mechanical walk
// over a fully-typed, CFG-complete method body that prints the target
// assembler dialect's per-instruction mnemonic and operand form. It runs
// after C4-C7 and performs no optimization or peephole rewriting — its
// only job is to render what the pipeline already decided.
package emit

import (
	"bufio"
	"fmt"
	"io"

	"tyde/internal/constpool"
	"tyde/internal/dexfile"
	"tyde/internal/ir"
)

// MethodUnit bundles one method's raw signature with the body the
// pipeline produced for it. A method with no code (abstract/native) has a
// nil Body and is emitted as a bare declaration.
type MethodUnit struct {
	Method *dexfile.Method
	Body   *ir.Body
}

// Class writes one class's full textual form: header, field
// declarations, and every method unit in turn.
func Class(w io.Writer, class *dexfile.Class, pool *constpool.Pool, units []MethodUnit) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, ".class 0x%x %s\n", class.AccessFlags, class.Descriptor)
	if class.SuperclassDescriptor != "" {
		fmt.Fprintf(bw, ".super %s\n", class.SuperclassDescriptor)
	}
	for _, f := range class.StaticFields {
		fmt.Fprintf(bw, ".field static 0x%x %s %s\n", f.AccessFlags, f.Name, f.Descriptor)
	}
	for _, f := range class.InstanceFields {
		fmt.Fprintf(bw, ".field 0x%x %s %s\n", f.AccessFlags, f.Name, f.Descriptor)
	}

	for _, u := range units {
		writeMethod(bw, u, pool)
	}

	return bw.Flush()
}

func writeMethod(bw *bufio.Writer, u MethodUnit, pool *constpool.Pool) {
	m := u.Method
	fmt.Fprintf(bw, "\n.method 0x%x %s%s\n", m.AccessFlags, m.Name, m.Descriptor)

	if u.Body == nil {
		fmt.Fprintf(bw, ".end method\n")
		return
	}

	fmt.Fprintf(bw, ".registers %d\n", m.RegistersSize)

	for _, ti := range u.Body.Tries {
		writeTryItem(bw, ti)
	}

	for _, insn := range u.Body.All() {
		writeInsn(bw, insn, pool)
	}

	fmt.Fprintf(bw, ".end method\n")
}

func writeTryItem(bw *bufio.Writer, ti ir.TryItem) {
	endLabel := "end"
	if ti.End != nil {
		endLabel = label(ti.End)
	}
	for _, h := range ti.Handlers {
		fmt.Fprintf(bw, ".catch %s from %s to %s using %s\n",
			h.CaughtType, label(ti.Start), endLabel, label(h.Target))
	}
	if ti.CatchAll != nil {
		fmt.Fprintf(bw, ".catchall from %s to %s using %s\n",
			label(ti.Start), endLabel, label(ti.CatchAll))
	}
}

func label(insn *ir.Insn) string {
	if insn == nil {
		return "end"
	}
	if insn.Label < 0 {
		return fmt.Sprintf("i%d", insn.Index)
	}
	return fmt.Sprintf("L%d", insn.Label)
}

func writeInsn(bw *bufio.Writer, insn *ir.Insn, pool *constpool.Pool) {
	if insn.Label >= 0 {
		fmt.Fprintf(bw, "L%d:\n", insn.Label)
	}

	switch {
	case insn.IsArgDef:
		return
	}

	fmt.Fprintf(bw, "    %s", insn.Op.Name())

	if insn.HasDest {
		fmt.Fprintf(bw, " v%d(%s)", insn.Destination.Reg, insn.Destination.Type)
	}
	for _, s := range insn.Sources {
		fmt.Fprintf(bw, " v%d(%s)", s.Reg, s.Type)
	}
	if insn.HasLiteral {
		fmt.Fprintf(bw, " #%d", insn.Literal)
	}
	if insn.Reference != nil {
		fmt.Fprintf(bw, " %s", referenceString(insn.Reference, pool))
	}
	if insn.Error != nil {
		fmt.Fprintf(bw, " %s", insn.Error.ClassDescriptor)
	}
	if insn.HasBranchTarget && len(insn.Successors) > 0 {
		fmt.Fprintf(bw, " %s", label(targetByOffset(insn)))
	}
	if insn.Switch != nil {
		fmt.Fprintf(bw, " [%d cases]", len(insn.Switch.Keys))
	}
	if insn.FillArray != nil {
		fmt.Fprintf(bw, " [%d words]", len(insn.FillArray.Words))
	}

	fmt.Fprintln(bw)
}

func targetByOffset(insn *ir.Insn) *ir.Insn {
	for _, s := range insn.Successors {
		if s.OriginalOffset == insn.BranchTargetOffset {
			return s
		}
	}
	return insn.Successors[0]
}

func referenceString(ref *ir.ConstRef, pool *constpool.Pool) string {
	e := pool.Ref(ref)
	switch e.Kind {
	case constpool.Int:
		return fmt.Sprintf("#%d", e.IntVal)
	case constpool.Float:
		return fmt.Sprintf("#%gf", e.FloatVal)
	case constpool.Long:
		return fmt.Sprintf("#%dL", e.LongVal)
	case constpool.Double:
		return fmt.Sprintf("#%gd", e.DoubleVal)
	case constpool.String:
		return fmt.Sprintf("%q", e.Utf8)
	case constpool.Class:
		return e.ClassDescriptor
	case constpool.FieldRef:
		return fmt.Sprintf("%s->%s:%s", e.ClassDescriptor, e.MemberName, e.MemberDescriptor)
	case constpool.MethodRef, constpool.InterfaceMethodRef:
		return fmt.Sprintf("%s->%s%s", e.ClassDescriptor, e.MemberName, e.MemberDescriptor)
	default:
		return "?"
	}
}
