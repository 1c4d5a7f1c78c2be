package vartype

import "testing"

func TestMergePrimitive(t *testing.T) {
	tests := []struct {
		name        string
		left, right Type
		want        Kind
	}{
		{"unknown absorbs int", New(Unknown), New(Int), Int},
		{"trio-unknown over fi-unknown", New(TrioUnknown), New(FIUnknown), FIUnknown},
		{"int over short keeps short", New(Int), New(Short), Short},
		{"boolean over char widens to char", New(Boolean), New(Char), Char},
		{"float over long conflicts", New(Float), New(Long), Conflict},
		{"double over dl-unknown resolves to double", New(Double), New(DLUnknown), Double},
		{"long over dl-unknown resolves to long", New(Long), New(DLUnknown), Long},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergePrimitive(tt.left, tt.right)
			if got.Kind != tt.want {
				t.Errorf("MergePrimitive(%v, %v) = %v, want %v", tt.left, tt.right, got.Kind, tt.want)
			}
		})
	}
}

func TestMergeArrayDimensions(t *testing.T) {
	tests := []struct {
		name        string
		left, right Type
		wantKind    Kind
		wantDim     int
	}{
		{"same-dim primitive arrays merge to object one dim down", NewArray(Float, 2), NewArray(Double, 2), Object, 1},
		{"same-dim 1-d primitive arrays merge to plain object", NewArray(Float, 1), NewArray(Double, 1), Object, 0},
		{"differing-dim arrays merge to object at the min dim", NewArray(Object, 3), NewArray(Object, 1), Object, 1},
		{"unknown array absorbs a concrete one", New(AObjectUnknown), NewArray(Int, 1), Int, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mergeArray(tt.left, tt.right)
			if got.Kind != tt.wantKind || got.Dim != tt.wantDim {
				t.Errorf("mergeArray(%v, %v) = (%v,%d), want (%v,%d)", tt.left, tt.right, got.Kind, got.Dim, tt.wantKind, tt.wantDim)
			}
		})
	}
}

func TestMergeReferenceNAObject(t *testing.T) {
	left := New(NonArrayObject)
	right := NewObject("java/lang/String", 0)
	got := MergeReference(left, right)
	if got.Kind != Object {
		t.Errorf("merging na-object with a concrete object should widen to object, got %v", got.Kind)
	}
}

func TestMergeReferenceUnknownLeftLetsRightWin(t *testing.T) {
	right := NewObject("java/lang/String", 0)
	if got := MergeReference(New(Unknown), right); got.Kind != right.Kind || got.Name != right.Name {
		t.Errorf("merging bottom-unknown left with %v should yield the right side, got %v", right, got)
	}
	if got := MergeReference(New(AObjectUnknown), right); got.Kind != right.Kind || got.Name != right.Name {
		t.Errorf("merging aobject-unknown left with %v should yield the right side, got %v", right, got)
	}
}

func TestDefaultForAmbiguousKinds(t *testing.T) {
	tests := []struct {
		k        Kind
		wantKind Kind
		wantDim  int
	}{
		{TrioUnknown, Boolean, 0},
		{FIUnknown, Boolean, 0},
		{DLUnknown, Double, 0},
		{AFIUnknown, Int, 1},
		{ADLUnknown, Double, 1},
		{ACSUnknown, Short, 1},
	}
	for _, tt := range tests {
		got := DefaultFor(tt.k)
		if got.Kind != tt.wantKind || got.Dim != tt.wantDim {
			t.Errorf("DefaultFor(%v) = (%v,%d), want (%v,%d)", tt.k, got.Kind, got.Dim, tt.wantKind, tt.wantDim)
		}
	}
}

func TestParseRoundTripsArrayDescriptors(t *testing.T) {
	ty := Parse("[[Ljava/lang/String;")
	if ty.Dim != 2 || ty.Kind != Object || ty.Name != "Ljava/lang/String;" {
		t.Fatalf("unexpected parse result: %+v", ty)
	}
	if ty.ToJavaArrayType() != "Ljava/lang/String;" {
		t.Errorf("ToJavaArrayType() = %q", ty.ToJavaArrayType())
	}
}
