// Package cfgbuild implements C5: it turns a decoded, still-linear
// ir.Body into a control-flow graph by installing successor and
// exception edges, computing reachability, pruning dead exception
// handlers, and — for large methods — splicing trampolines so no
// conditional branch's offset exceeds the target model's narrow field.
package cfgbuild

import (
	"tyde/internal/constpool"
	"tyde/internal/dalvik"
	"tyde/internal/decode"
	"tyde/internal/dexfile"
	"tyde/internal/ir"
)

// Options mirrors the driver flags that govern C5's behavior.
type Options struct {
	SplitTryRegions  bool // default true; disabled by -e
	BranchRangeLimit int  // default 5000; -l
	SizeThreshold    int  // body length (instructions) above which patching is considered at all
}

// DefaultOptions matches the driver's documented defaults.
func DefaultOptions() Options {
	return Options{SplitTryRegions: true, BranchRangeLimit: 5000, SizeThreshold: 5000}
}

// Build runs the whole of C5 over body in place, using method's raw
// try-region table and pool to intern caught-type constants.
func Build(body *ir.Body, method *dexfile.Method, pool *constpool.Pool, opts Options) {
	first, last := realRange(body)
	installSuccessors(body, first, last)
	installExceptionEdges(body, method, pool, first, last, opts)
	markReachability(body, first)
	pruneDeadHandlers(body)
	if body.Len() > opts.SizeThreshold {
		patchBranchRanges(body, opts.BranchRangeLimit)
	}
}

// realRange returns the index of the first and last real (non-leading,
// non-trailing sentinel) instructions.
func realRange(body *ir.Body) (int, int) {
	first, last := 0, body.Len()-1
	if body.At(first).Op == dalvik.SyntheticNopSentinel {
		first++
	}
	if body.At(last).Op == dalvik.SyntheticNopSentinel {
		last--
	}
	return first, last
}

func installSuccessors(body *ir.Body, first, last int) {
	nextLabel := 1
	freshLabel := func(i *ir.Insn) {
		if i.Label < 0 {
			i.Label = nextLabel
			nextLabel++
		}
	}

	for i := 0; i < body.Len(); i++ {
		insn := body.At(i)

		if insn.HasBranchTarget {
			target := body.FindByOffset(insn.BranchTargetOffset, first, last)
			if target != nil {
				freshLabel(target)
				insn.AddSuccessor(target)
			}
		}

		if decode.IsSwitch(insn.Op) && insn.Switch != nil {
			for _, t := range insn.Switch.Targets {
				target := body.FindByOffset(int(t), first, last)
				if target != nil {
					freshLabel(target)
					insn.AddSuccessor(target)
				}
			}
		}

		if decode.FallsThrough(insn.Op) && i+1 < body.Len() {
			insn.AddSuccessor(body.At(i + 1))
		}
	}
}

func installExceptionEdges(body *ir.Body, method *dexfile.Method, pool *constpool.Pool, first, last int, opts Options) {
	for _, raw := range method.Tries {
		start := body.FindByOffset(raw.StartOffset, first, last)
		if start == nil {
			continue
		}
		end := body.FindByOffset(raw.EndOffset, first, last)
		endIdx := last + 1
		if end != nil {
			endIdx = end.Index
		}

		handlers := make([]ir.Handler, 0, len(raw.Handlers))
		for _, h := range raw.Handlers {
			target := body.FindByOffset(h.HandlerOffset, first, last)
			if target == nil {
				continue
			}
			pool.InternClass(h.TypeDescriptor)
			handlers = append(handlers, ir.Handler{CaughtType: h.TypeDescriptor, Target: target})
		}
		var catchAll *ir.Insn
		if raw.CatchAllOffset >= 0 {
			catchAll = body.FindByOffset(raw.CatchAllOffset, first, last)
		}
		if len(handlers) == 0 && catchAll == nil {
			continue
		}

		ranges := [][2]int{{start.Index, endIdx - 1}}
		if opts.SplitTryRegions {
			ranges = splitThrowingSubranges(body, start.Index, endIdx-1)
		}

		for _, r := range ranges {
			rangeStart := body.At(r[0])
			ti := ir.TryItem{Start: rangeStart, End: endOf(body, r[1]), Handlers: handlers, CatchAll: catchAll}
			body.Tries = append(body.Tries, ti)

			for idx := r[0]; idx <= r[1]; idx++ {
				insn := body.At(idx)
				if !opts.SplitTryRegions || decode.CanThrow(insn.Op) {
					// The edge is sourced from the throwing instruction's
					// predecessors, not the instruction itself, reflecting
					// the target model's expectation that exceptions
					// propagate from a program point rather than after the
					// operation completes.
					for _, pred := range insn.Predecessors {
						for _, h := range handlers {
							pred.AddExceptionSuccessor(h.Target)
						}
						if catchAll != nil {
							pred.AddExceptionSuccessor(catchAll)
						}
					}
				}
			}
		}
	}
}

// endOf returns the instruction one past index k, or nil at the body's end.
func endOf(body *ir.Body, k int) *ir.Insn {
	if k+1 < body.Len() {
		return body.At(k + 1)
	}
	return nil
}

// splitThrowingSubranges walks [lo, hi] and returns maximal index ranges
// that begin with a throw-capable instruction and run through any
// immediately following throw-capable instructions, per §4.4's
// split-exception-tables rule.
func splitThrowingSubranges(body *ir.Body, lo, hi int) [][2]int {
	var out [][2]int
	i := lo
	for i <= hi {
		if !decode.CanThrow(body.At(i).Op) {
			i++
			continue
		}
		start := i
		for i <= hi && decode.CanThrow(body.At(i).Op) {
			i++
		}
		out = append(out, [2]int{start, i - 1})
	}
	return out
}

func markReachability(body *ir.Body, first int) {
	if body.Len() == 0 {
		return
	}
	stack := []*ir.Insn{body.At(first)}
	for len(stack) > 0 {
		n := len(stack) - 1
		insn := stack[n]
		stack = stack[:n]
		if insn.Reachable {
			continue
		}
		insn.Reachable = true
		for _, s := range insn.Successors {
			if !s.Reachable {
				stack = append(stack, s)
			}
		}
		for _, s := range insn.ExceptionSuccessors {
			if !s.Reachable {
				stack = append(stack, s)
			}
		}
	}
}

func pruneDeadHandlers(body *ir.Body) {
	kept := make([]ir.TryItem, 0, len(body.Tries))
	for _, ti := range body.Tries {
		liveHandlers := make([]ir.Handler, 0, len(ti.Handlers))
		for _, h := range ti.Handlers {
			if h.Target.Reachable {
				liveHandlers = append(liveHandlers, h)
			}
		}
		ti.Handlers = liveHandlers
		if ti.CatchAll != nil && !ti.CatchAll.Reachable {
			ti.CatchAll = nil
		}
		if len(ti.Handlers) == 0 && ti.CatchAll == nil {
			continue
		}
		kept = append(kept, ti)
	}
	body.Tries = kept
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// patchBranchRanges splices trampolines around every conditional branch
// whose taken or fall-through edge now spans more than limit indices.
func patchBranchRanges(body *ir.Body, limit int) {
	for i := 0; i < body.Len(); i++ {
		insn := body.At(i)
		if !decode.IsConditionalBranch(insn.Op) {
			continue
		}
		patchOne(body, insn, limit)
	}
}

func patchOne(body *ir.Body, branch *ir.Insn, limit int) {
	var taken, fall *ir.Insn
	for _, s := range branch.Successors {
		if s.OriginalOffset == branch.BranchTargetOffset {
			taken = s
		} else {
			fall = s
		}
	}
	if taken == nil || fall == nil {
		return
	}
	if abs(taken.Index-branch.Index) <= limit && abs(fall.Index-branch.Index) <= limit {
		return
	}

	trampTaken := ir.NewInsn(dalvik.SyntheticTrampoline, -1)
	trampFall := ir.NewInsn(dalvik.SyntheticTrampoline, -1)

	for idx, s := range branch.Successors {
		switch s {
		case taken:
			branch.Successors[idx] = trampTaken
		case fall:
			branch.Successors[idx] = trampFall
		}
	}
	taken.ReplacePredecessor(branch, trampTaken)
	fall.ReplacePredecessor(branch, trampFall)
	trampTaken.Predecessors = append(trampTaken.Predecessors, branch)
	trampFall.Predecessors = append(trampFall.Predecessors, branch)
	trampTaken.AddSuccessor(taken)
	trampFall.AddSuccessor(fall)
	trampTaken.Reachable = branch.Reachable
	trampFall.Reachable = branch.Reachable

	body.InsertAt(branch.Index+1, trampTaken, trampFall)
}
