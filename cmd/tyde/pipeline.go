package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"tyde/internal/cfgbuild"
	"tyde/internal/constpool"
	"tyde/internal/decode"
	"tyde/internal/dexfile"
	"tyde/internal/emit"
	"tyde/internal/ledger"
	"tyde/internal/progress"
	"tyde/internal/typesolve"
	"tyde/internal/vartype"
	"tyde/internal/verifier"
)

// pipeline bundles the state every per-class worker shares: the parsed
// input container, run-level options, and the optional ledger/progress
// sinks. Its stub registry is the one place workers actually contend
// with each other, and that registry already serializes itself.
type pipeline struct {
	dex         *dexfile.File
	opts        *options
	annotations verifier.Annotations
	ledger      *ledger.Ledger
	runID       uuid.UUID
	feed        *progress.Broadcaster

	stubs *constpool.StubRegistry
}

// classResult summarizes one class's processing for the run-level
// totals and the -debug dump.
type classResult struct {
	Class     string
	methods   int
	conflicts int
	stubs     int
}

func (p *pipeline) processClass(class dexfile.Class) *classResult {
	if p.feed != nil {
		p.feed.Publish(progress.Event{Kind: progress.EventStarted, Class: class.Descriptor, Timestamp: now()})
	}

	pool := constpool.New()
	result := &classResult{Class: class.Descriptor}
	var units []emit.MethodUnit

	for i := range class.Methods {
		m := &class.Methods[i]
		start := time.Now()
		unit, conflicts, stubCount, err := p.processMethod(class.Descriptor, m, pool)
		elapsed := time.Since(start)
		if err != nil {
			if p.feed != nil {
				p.feed.Publish(progress.Event{Kind: progress.EventConflict, Class: class.Descriptor, Method: m.Name, Detail: err.Error(), Timestamp: now()})
			}
			continue
		}
		units = append(units, unit)
		result.methods++
		result.conflicts += conflicts
		result.stubs += stubCount

		if p.ledger != nil {
			status := ledger.StatusOK
			p.ledger.RecordMethod(context.Background(), p.runID, class.Descriptor, m.Name, m.Descriptor, status, conflicts, stubCount, elapsed)
		}
	}

	p.writeClass(class, pool, units)

	if p.feed != nil {
		p.feed.Publish(progress.Event{Kind: progress.EventDone, Class: class.Descriptor, Timestamp: now()})
	}
	return result
}

func (p *pipeline) processMethod(classDescriptor string, m *dexfile.Method, pool *constpool.Pool) (emit.MethodUnit, int, int, error) {
	if len(m.Instructions) == 0 {
		return emit.MethodUnit{Method: m, Body: nil}, 0, 0, nil
	}

	paramTypes := vartype.ParamTypes(m.Descriptor)
	returnType := vartype.ReturnType(m.Descriptor)

	key := verifier.MethodKey{ClassDescriptor: classDescriptor, MethodName: m.Name, MethodSig: m.Descriptor}
	errorsByOffset, methodFails := p.annotations.ForMethod(key)

	decResult, err := decode.Decode(decode.Input{
		Dex:             p.dex,
		Method:          m,
		ClassDescriptor: classDescriptor,
		ParamTypes:      paramTypes,
		ReturnType:      returnType,
		VerifierErrors:  errorsByOffset,
		MethodFails:     methodFails,
	}, pool, p.stubs)
	if err != nil {
		return emit.MethodUnit{}, 0, 0, err
	}

	body := decResult.Body
	if decResult.TranslationNeeded {
		cfgbuild.Build(body, m, pool, cfgbuild.Options{
			SplitTryRegions:  !p.opts.noSplitTries,
			BranchRangeLimit: p.opts.branchLimit,
			SizeThreshold:    p.opts.branchLimit,
		})

		solveResult := typesolve.Solve(typesolve.Input{
			Body:             body,
			AmbiguousSources: decResult.AmbiguousSources,
			AmbiguousDests:   decResult.AmbiguousDests,
			ParamTypes:       paramTypes,
			IsInstanceMethod: !m.IsStatic,
			RegistersSize:    m.RegistersSize,
			InsSize:          m.InsSize,
		})

		constpool.Promote(body, pool)

		return emit.MethodUnit{Method: m, Body: body}, solveResult.Conflicts, decResult.StubsAdded, nil
	}

	return emit.MethodUnit{Method: m, Body: body}, 0, decResult.StubsAdded, nil
}

func (p *pipeline) writeClass(class dexfile.Class, pool *constpool.Pool, units []emit.MethodUnit) {
	name := strings.Trim(strings.ReplaceAll(class.Descriptor, "/", "_"), "L;")
	path := filepath.Join(p.opts.outDir, name+".tyde")

	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tyde: writing %s: %v\n", path, err)
		return
	}
	defer f.Close()

	if err := emit.Class(f, &class, pool, units); err != nil {
		fmt.Fprintf(os.Stderr, "tyde: emitting %s: %v\n", path, err)
	}
}

func writeStubs(p *pipeline, dir string) {
	if dir == "" || p.stubs == nil {
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "tyde: creating stubs directory: %v\n", err)
		return
	}
	for _, key := range p.stubs.Keys() {
		name := strings.Trim(strings.ReplaceAll(key.Class, "/", "_"), "L;")
		path := filepath.Join(dir, name+".stub")
		content := fmt.Sprintf(".class stub %s\n.super Ljava/lang/Object;\n", key.Class)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "tyde: writing stub %s: %v\n", path, err)
		}
	}
}

func now() time.Time { return time.Now() }
