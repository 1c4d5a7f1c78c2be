package vartype

import (
	"os"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"
)

// TestSplitMethodDescriptorGolden exercises SplitMethodDescriptor against a
// txtar fixture of (descriptor, params, return) triples, one golden case
// per run of three sections.
func TestSplitMethodDescriptorGolden(t *testing.T) {
	data, err := os.ReadFile("testdata/method_descriptors.txtar")
	if err != nil {
		t.Fatalf("reading fixture: %v", err)
	}
	archive := txtar.Parse(data)
	if len(archive.Files)%3 != 0 {
		t.Fatalf("fixture has %d sections, want a multiple of 3", len(archive.Files))
	}

	for i := 0; i < len(archive.Files); i += 3 {
		descriptor := strings.TrimSpace(string(archive.Files[i].Data))
		wantParams := splitLines(string(archive.Files[i+1].Data))
		wantReturn := strings.TrimSpace(string(archive.Files[i+2].Data))

		params, ret := SplitMethodDescriptor(descriptor)
		if len(params) != len(wantParams) {
			t.Errorf("%s: params = %v, want %v", descriptor, params, wantParams)
			continue
		}
		for j := range params {
			if params[j] != wantParams[j] {
				t.Errorf("%s: params[%d] = %q, want %q", descriptor, j, params[j], wantParams[j])
			}
		}
		if ret != wantReturn {
			t.Errorf("%s: ret = %q, want %q", descriptor, ret, wantReturn)
		}
	}
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
