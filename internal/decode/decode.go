// Package decode implements C4: it walks a method's raw, already
// field-unpacked Dalvik instruction stream and produces a fully-populated
// ir.Body, together with the two ambiguity seed lists C6 consumes.
package decode

import (
	"tyde/internal/constpool"
	"tyde/internal/dalvik"
	"tyde/internal/dexfile"
	"tyde/internal/ir"
	"tyde/internal/tydeerr"
	"tyde/internal/vartype"
)

// Seed names one (insn, register) ambiguity site, rooted at either a
// source use or a destination definition.
type Seed struct {
	Insn   *ir.Insn
	Reg    int
	Source bool // true for an ambiguous-source seed, false for ambiguous-destination
}

// Input bundles everything Decode needs about one method: the resolved
// signature (the driver/class loader already parsed these from the
// container) plus the verifier-error annotations that apply to it.
type Input struct {
	Dex             *dexfile.File
	Method          *dexfile.Method
	ClassDescriptor string
	ParamTypes      []vartype.Type // declared parameter types, receiver excluded
	ReturnType      vartype.Type

	// VerifierErrors maps a code-unit offset to the injected error class
	// descriptor for that instruction. MethodFails, when true, means the
	// whole method was marked as unconditionally failing verification.
	VerifierErrors map[int]string
	MethodFails    bool
}

// Result is C4's output: the decoded body plus C6's seed lists.
type Result struct {
	Body              *ir.Body
	AmbiguousSources  []Seed
	AmbiguousDests    []Seed
	TranslationNeeded bool
	StubsAdded        int // count of references newly recorded into the shared stub registry
}

type decoder struct {
	in    Input
	pool  *constpool.Pool
	stubs *constpool.StubRegistry
	body  *ir.Body
	res   *Result

	forceNextMoveResultNop bool
}

// Decode runs C4 over one method body.
func Decode(in Input, pool *constpool.Pool, stubs *constpool.StubRegistry) (*Result, error) {
	d := &decoder{in: in, pool: pool, stubs: stubs, body: ir.NewBody()}
	d.res = &Result{Body: d.body, TranslationNeeded: true}

	start := ir.NewInsn(dalvik.SyntheticNopSentinel, -1)
	d.body.Append(start)

	if in.MethodFails {
		errClass := in.VerifierErrors[-1]
		if errClass == "" {
			errClass = "java/lang/VerifyError"
		}
		errInsn := ir.NewInsn(dalvik.SyntheticVerifyError, 0)
		errInsn.Error = &ir.ErrorDescriptor{ClassDescriptor: errClass}
		d.body.Append(errInsn)
		d.res.TranslationNeeded = false
		d.body.Append(ir.NewInsn(dalvik.SyntheticNopSentinel, -1))
		return d.res, nil
	}

	raws := in.Method.Instructions
	for i, raw := range raws {
		if errClass, ok := in.VerifierErrors[raw.Offset]; ok {
			errInsn := ir.NewInsn(dalvik.SyntheticVerifyError, raw.Offset)
			errInsn.Error = &ir.ErrorDescriptor{ClassDescriptor: errClass}
			d.body.Append(errInsn)
			d.forceNextMoveResultNop = true
			continue
		}

		if d.forceNextMoveResultNop && isMoveResultFamily(raw.Op) {
			d.body.Append(ir.NewInsn(dalvik.Nop, raw.Offset))
			d.forceNextMoveResultNop = false
			continue
		}
		d.forceNextMoveResultNop = false

		insn, err := d.decodeOne(raw)
		if err != nil {
			return nil, tydeerr.Wrap(tydeerr.DecodeError,
				tydeerr.Location{Class: in.ClassDescriptor, Offset: raw.Offset}, err,
				"failed to decode opcode 0x%x", raw.Op)
		}
		d.body.Append(insn)

		if isInvokeFamily(raw.Op) && !in.ReturnTypeOf(raw).IsVoid() {
			var next *dexfile.RawInsn
			if i+1 < len(raws) {
				next = &raws[i+1]
			}
			if next == nil || !isMoveResultFamily(next.Op) {
				retType := insn.ResultType
				pop := ir.NewInsn(dalvik.SyntheticPop, raw.Offset)
				if retType.Width() == 2 {
					pop.Op = dalvik.SyntheticPop2
				}
				d.body.Append(pop)
			}
		}
	}

	d.body.Append(ir.NewInsn(dalvik.SyntheticNopSentinel, -1))
	return d.res, nil
}

// ReturnTypeOf resolves the return type of an invoke instruction's callee,
// used by Decode's lookahead to decide whether a pop needs synthesizing.
// It is exported on Input so decodeOne's own resolution logic (which
// already did this work building the insn) is the single source of truth;
// this just repeats the cheap constant-pool lookup.
func (in Input) ReturnTypeOf(raw dexfile.RawInsn) vartype.Type {
	_, _, _, ret := in.Dex.ResolveMethod(raw.PoolIndex)
	return vartype.Parse(ret)
}

func (d *decoder) addSourceSeed(insn *ir.Insn, reg int) {
	d.res.AmbiguousSources = append(d.res.AmbiguousSources, Seed{Insn: insn, Reg: reg, Source: true})
}

func (d *decoder) addDestSeed(insn *ir.Insn, reg int) {
	d.res.AmbiguousDests = append(d.res.AmbiguousDests, Seed{Insn: insn, Reg: reg, Source: false})
}

// recordStubIfExternal tells the shared stub registry about a
// class/member reference that does not resolve inside the input
// container, matching §5's stub-registry requirement.
func (d *decoder) recordStubIfExternal(classDescriptor string) {
	if classDescriptor == "" || d.in.Dex.IsDefined(classDescriptor) {
		return
	}
	if d.stubs.Record(constpool.StubKey{Class: classDescriptor}) {
		d.res.StubsAdded++
	}
}
