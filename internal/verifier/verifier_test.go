package verifier

import (
	"strings"
	"testing"
)

func TestParseNamedAndOrdinalKindsAgree(t *testing.T) {
	input := strings.NewReader(strings.Join([]string{
		"Lcom/example/Foo; bar (I)V a no-class",
		"Lcom/example/Foo; baz (I)V 1a 1",
	}, "\n"))

	annotations, warnings, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}

	bar := MethodKey{ClassDescriptor: "Lcom/example/Foo;", MethodName: "bar", MethodSig: "(I)V"}
	errs, fails := annotations.ForMethod(bar)
	if fails {
		t.Fatal("bar: methodFails = true, want false")
	}
	if got := errs[0x0a]; got != "java/lang/NoClassDefFoundError" {
		t.Errorf("bar offset 0xa error = %q, want NoClassDefFoundError", got)
	}

	baz := MethodKey{ClassDescriptor: "Lcom/example/Foo;", MethodName: "baz", MethodSig: "(I)V"}
	errs, fails = annotations.ForMethod(baz)
	if fails {
		t.Fatal("baz: methodFails = true, want false")
	}
	// ordinal 1 is kindOrder[1] == "no-class", same class as the named form.
	if got := errs[0x1a]; got != "java/lang/NoClassDefFoundError" {
		t.Errorf("baz offset 0x1a error = %q, want NoClassDefFoundError", got)
	}
}

func TestParseWholeMethodFailureMarker(t *testing.T) {
	input := strings.NewReader("Lcom/example/Foo; bar (I)V y")

	annotations, _, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	key := MethodKey{ClassDescriptor: "Lcom/example/Foo;", MethodName: "bar", MethodSig: "(I)V"}
	_, fails := annotations.ForMethod(key)
	if !fails {
		t.Error("methodFails = false, want true for a \"y\" marker")
	}
}

func TestParseSkipsMalformedLinesWithWarnings(t *testing.T) {
	input := strings.NewReader(strings.Join([]string{
		"# a comment line",
		"",
		"Lcom/example/Foo; bar",                      // too few fields
		"Lcom/example/Foo; bar (I)V a",                // missing error kind
		"Lcom/example/Foo; bar (I)V zz no-class",      // bad hex offset
		"Lcom/example/Foo; bar (I)V a bogus-kind",     // unrecognized kind
		"Lcom/example/Foo; good (I)V a null-pointer",  // well-formed
	}, "\n"))

	annotations, warnings, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(warnings) != 4 {
		t.Fatalf("warnings = %d, want 4 (one per malformed line): %v", len(warnings), warnings)
	}

	key := MethodKey{ClassDescriptor: "Lcom/example/Foo;", MethodName: "good", MethodSig: "(I)V"}
	errs, fails := annotations.ForMethod(key)
	if fails {
		t.Fatal("good: methodFails = true, want false")
	}
	if got := errs[0x0a]; got != "java/lang/NullPointerException" {
		t.Errorf("good offset 0xa error = %q, want NullPointerException", got)
	}
}

func TestForMethodUnknownKeyReturnsNotFound(t *testing.T) {
	annotations := Annotations{}
	errs, fails := annotations.ForMethod(MethodKey{ClassDescriptor: "Lx;", MethodName: "m", MethodSig: "()V"})
	if errs != nil || fails {
		t.Errorf("ForMethod on unknown key = (%v, %v), want (nil, false)", errs, fails)
	}
}
