package typesolve

import (
	"tyde/internal/dalvik"
	"tyde/internal/ir"
)

// backDFS looks for the definition(s) of reg reaching seed, walking CFG
// predecessors (normal and exceptional). Each definition found adds
// def.type <= variable; an instruction whose destination is some other
// register does not kill reg, so the walk continues through it.
func (g *graph) backDFS(seed *ir.Insn, reg int, variable *node, dimDelta int) {
	visited := make(map[*ir.Insn]bool)
	stack := append(append([]*ir.Insn{}, seed.Predecessors...), seed.ExceptionPredecessors...)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if cur.HasDest && cur.Destination.Reg == reg {
			switch {
			case isMoveObject(cur.Op) && len(cur.Sources) > 0:
				g.backDFS(cur, cur.Sources[0].Reg, variable, dimDelta)
			case cur.Op == dalvik.AgetObject && len(cur.Sources) > 0:
				// the array source sits one dimension above the element
				// this instruction defines.
				g.backDFS(cur, cur.Sources[0].Reg, variable, dimDelta+1)
			default:
				g.linkDef(cur, reg, variable, dimDelta)
			}
			continue
		}

		stack = append(stack, cur.Predecessors...)
		stack = append(stack, cur.ExceptionPredecessors...)
	}
}

// forwardDFS looks for uses of reg reachable from seed, walking CFG
// successors. Each use found adds variable <= use.type; the walk does not
// continue past an instruction that redefines reg.
func (g *graph) forwardDFS(seed *ir.Insn, reg int, variable *node, dimDelta int) {
	visited := make(map[*ir.Insn]bool)
	stack := append(append([]*ir.Insn{}, seed.Successors...), seed.ExceptionSuccessors...)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		if cur.IsSource(reg) {
			switch {
			case isMoveObject(cur.Op) && len(cur.Sources) > 0 && cur.Sources[0].Reg == reg && cur.HasDest:
				g.forwardDFS(cur, cur.Destination.Reg, variable, dimDelta)
			case cur.Op == dalvik.AgetObject && len(cur.Sources) > 0 && cur.Sources[0].Reg == reg && cur.HasDest:
				// the array use feeds a destination one dimension lower.
				g.forwardDFS(cur, cur.Destination.Reg, variable, dimDelta-1)
			default:
				g.linkUse(cur, reg, variable, dimDelta)
			}
		}

		if cur.HasDest && cur.Destination.Reg == reg {
			continue
		}
		stack = append(stack, cur.Successors...)
		stack = append(stack, cur.ExceptionSuccessors...)
	}
}

// addInitialConstraints installs the direct register-to-register
// relations certain opcodes impose independently of any ambiguity seed.
func (g *graph) addInitialConstraints(body *ir.Body) {
	for _, insn := range body.All() {
		switch insn.Op {
		case dalvik.Move, dalvik.MoveFrom16, dalvik.Move16,
			dalvik.MoveWide, dalvik.MoveWideFrom16, dalvik.MoveWide16:
			if len(insn.Sources) > 0 && insn.HasDest {
				l := g.variable(insn, insn.Sources[0].Reg, true)
				r := g.variable(insn, insn.Destination.Reg, false)
				g.addEdge(l, r)
				g.addEdge(r, l)
			}
		case dalvik.IfEq, dalvik.IfNe:
			if len(insn.Sources) == 2 {
				a := g.variable(insn, insn.Sources[0].Reg, true)
				b := g.variable(insn, insn.Sources[1].Reg, true)
				g.addEdge(a, b)
				g.addEdge(b, a)
			}
		case dalvik.Aget, dalvik.AgetWide:
			if len(insn.Sources) > 0 && insn.HasDest {
				arr := g.variable(insn, insn.Sources[0].Reg, true)
				elem := g.variable(insn, insn.Destination.Reg, false)
				g.addEdge(g.projected(arr, -1), elem)
				g.addEdge(g.projected(elem, 1), arr)
			}
		case dalvik.Aput, dalvik.AputWide:
			if len(insn.Sources) >= 2 {
				elem := g.variable(insn, insn.Sources[0].Reg, true)
				arr := g.variable(insn, insn.Sources[1].Reg, true)
				g.addEdge(g.projected(arr, -1), elem)
				g.addEdge(g.projected(elem, 1), arr)
			}
		}
	}
}
