// Package verifier parses the optional verifier-annotation file the
// driver's -p flag points at: a whitespace-delimited text record per
// flagged method, naming either the whole method as failing or a single
// instruction offset and the injected exception kind the decoder should
// synthesize in its place.
package verifier

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// kindDescriptors maps every recognized error-kind spelling to the
// exception class the decoder throws in its place. Both the named form
// and each name's ordinal position are accepted, since the source
// annotation files observed in the wild mix the two conventions.
var kindOrder = []string{
	"generic", "no-class", "no-field", "no-method",
	"access-class", "access-field", "access-method",
	"class-change", "instantiation", "null-pointer",
}

var kindDescriptors = map[string]string{
	"generic":        "java/lang/VerifyError",
	"no-class":       "java/lang/NoClassDefFoundError",
	"no-field":       "java/lang/NoSuchFieldError",
	"no-method":      "java/lang/NoSuchMethodError",
	"access-class":   "java/lang/IllegalAccessError",
	"access-field":   "java/lang/IllegalAccessError",
	"access-method":  "java/lang/IllegalAccessError",
	"class-change":   "java/lang/IncompatibleClassChangeError",
	"instantiation":  "java/lang/InstantiationError",
	"null-pointer":   "java/lang/NullPointerException",
}

// MethodKey identifies one method across the pipeline: class descriptor,
// name, and signature, matching how the annotation file names it.
type MethodKey struct {
	ClassDescriptor string
	MethodName      string
	MethodSig       string
}

// Record is one parsed annotation: either MethodFails is true (the whole
// method is replaced) or Offset/ErrorClass name a single instruction.
type Record struct {
	MethodFails bool
	Offset      int
	ErrorClass  string
}

// Annotations is the parsed file: every flagged method's records, keyed
// by MethodKey. A method with MethodFails set carries exactly one record
// whose Offset is meaningless.
type Annotations map[MethodKey][]Record

// Parse reads an annotation file in full. Malformed individual lines are
// skipped (logged via the returned warnings slice) rather than failing
// the whole parse, matching the pipeline's local-recovery posture.
func Parse(r io.Reader) (Annotations, []string, error) {
	out := make(Annotations)
	var warnings []string

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			warnings = append(warnings, fmt.Sprintf("line %d: too few fields, skipped", lineNo))
			continue
		}

		key := MethodKey{ClassDescriptor: fields[0], MethodName: fields[1], MethodSig: fields[2]}
		marker := fields[3]

		if marker == "y" {
			out[key] = append(out[key], Record{MethodFails: true, ErrorClass: "java/lang/VerifyError"})
			continue
		}

		if len(fields) < 5 {
			warnings = append(warnings, fmt.Sprintf("line %d: missing error kind, skipped", lineNo))
			continue
		}
		offset, err := strconv.ParseInt(marker, 16, 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("line %d: bad hex offset %q, skipped", lineNo, marker))
			continue
		}
		descriptor, ok := resolveKind(fields[4])
		if !ok {
			warnings = append(warnings, fmt.Sprintf("line %d: unrecognized error kind %q, skipped", lineNo, fields[4]))
			continue
		}
		out[key] = append(out[key], Record{Offset: int(offset), ErrorClass: descriptor})
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, errors.Wrap(err, "verifier: reading annotation file")
	}
	return out, warnings, nil
}

func resolveKind(token string) (string, bool) {
	if d, ok := kindDescriptors[token]; ok {
		return d, true
	}
	if idx, err := strconv.Atoi(token); err == nil && idx >= 0 && idx < len(kindOrder) {
		return kindDescriptors[kindOrder[idx]], true
	}
	return "", false
}

// ForMethod reduces the parsed annotations for one method into the two
// shapes internal/decode's Input expects.
func (a Annotations) ForMethod(key MethodKey) (errorsByOffset map[int]string, methodFails bool) {
	records, ok := a[key]
	if !ok {
		return nil, false
	}
	errorsByOffset = make(map[int]string)
	for _, rec := range records {
		if rec.MethodFails {
			return nil, true
		}
		errorsByOffset[rec.Offset] = rec.ErrorClass
	}
	return errorsByOffset, false
}
