package vartype

import "testing"

func TestSplitMethodDescriptor(t *testing.T) {
	params, ret := SplitMethodDescriptor("(ILjava/lang/String;[[J)V")
	want := []string{"I", "Ljava/lang/String;", "[[J"}
	if len(params) != len(want) {
		t.Fatalf("params = %v, want %v", params, want)
	}
	for i := range want {
		if params[i] != want[i] {
			t.Errorf("params[%d] = %q, want %q", i, params[i], want[i])
		}
	}
	if ret != "V" {
		t.Errorf("ret = %q, want V", ret)
	}
}

func TestSplitMethodDescriptorNoArgs(t *testing.T) {
	params, ret := SplitMethodDescriptor("()Z")
	if len(params) != 0 {
		t.Errorf("params = %v, want empty", params)
	}
	if ret != "Z" {
		t.Errorf("ret = %q, want Z", ret)
	}
}

func TestParamTypesAndReturnType(t *testing.T) {
	pts := ParamTypes("(II)J")
	if len(pts) != 2 || !pts[0].Equal(New(Int)) {
		t.Errorf("ParamTypes = %v", pts)
	}
	if rt := ReturnType("(II)J"); rt.Kind != Long {
		t.Errorf("ReturnType = %v, want long", rt)
	}
}
