package emit

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"tyde/internal/constpool"
	"tyde/internal/dalvik"
	"tyde/internal/dexfile"
	"tyde/internal/ir"
	"tyde/internal/vartype"
)

func TestClassEmitsHeaderAndField(t *testing.T) {
	class := &dexfile.Class{
		Descriptor:           "Lcom/example/Foo;",
		SuperclassDescriptor: "Ljava/lang/Object;",
		AccessFlags:          0x1,
		InstanceFields: []dexfile.EncodedField{
			{Name: "bar", Descriptor: "I", AccessFlags: 0x2},
		},
	}
	pool := constpool.New()

	var buf bytes.Buffer
	if err := Class(&buf, class, pool, nil); err != nil {
		t.Fatalf("Class: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		".class 0x1 Lcom/example/Foo;",
		".super Ljava/lang/Object;",
		".field 0x2 bar I",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q, got:\n%s", want, out)
		}
	}
}

func TestWriteMethodRendersInsnOperands(t *testing.T) {
	body := ir.NewBody()
	constInsn := ir.NewInsn(dalvik.Const4, 0)
	constInsn.SetDestination(0, vartype.New(vartype.Int))
	constInsn.Literal = 5
	constInsn.HasLiteral = true
	body.Append(constInsn)

	ret := ir.NewInsn(dalvik.ReturnVoid, 2)
	body.Append(ret)

	method := &dexfile.Method{Name: "bar", Descriptor: "()V", RegistersSize: 1}
	pool := constpool.New()

	var buf bytes.Buffer
	bw := bufio.NewWriter(&buf)
	writeMethod(bw, MethodUnit{Method: method, Body: body}, pool)
	bw.Flush()

	out := buf.String()
	if !strings.Contains(out, "const/4 v0(int) #5") {
		t.Errorf("expected const/4 rendering, got:\n%s", out)
	}
	if !strings.Contains(out, "return-void") {
		t.Errorf("expected return-void rendering, got:\n%s", out)
	}
	if !strings.Contains(out, ".end method") {
		t.Errorf("expected .end method terminator, got:\n%s", out)
	}
}
