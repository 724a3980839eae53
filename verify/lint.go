package verify

import (
	"fmt"

	"github.com/sarchlab/bfemu/instr"
	"github.com/sarchlab/bfemu/program"
)

// RunLint performs static lint checks on a program.
// It validates jump pairing (LINK) and operation payloads (STRUCT).
// Returns a list of issues found, or empty list if no issues.
func RunLint(p program.Program) []Issue {
	var issues []Issue

	if !p.Linked {
		issues = append(issues, Issue{
			Type:    IssueLink,
			OpID:    -1,
			Message: "program is not linked",
		})
	}

	issues = append(issues, lintStruct(p)...)
	issues = append(issues, lintLinks(p)...)

	return issues
}

func lintStruct(p program.Program) []Issue {
	var issues []Issue

	for i, inst := range p.Insts {
		switch op := inst.Op; {
		case op.IsComposite():
			if op != instr.OpZero && inst.Offset == 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					OpID:    i,
					Message: fmt.Sprintf("%s targets the cell it clears", op),
				})
			}
		case op == instr.OpLeft, op == instr.OpRight,
			op == instr.OpRead, op == instr.OpWrite:
			if inst.Count <= 0 {
				issues = append(issues, Issue{
					Type:    IssueStruct,
					OpID:    i,
					Message: fmt.Sprintf("%s has non-positive count %d", op, inst.Count),
					Details: map[string]interface{}{"count": inst.Count},
				})
			}
		case op == instr.OpAdd, op == instr.OpSub, op.IsJump():
		default:
			issues = append(issues, Issue{
				Type:    IssueStruct,
				OpID:    i,
				Message: fmt.Sprintf("unknown operation %s", inst.Op),
			})
		}
	}

	return issues
}

// lintLinks replays the bracket nesting and checks every jump against the
// partner the nesting implies.
func lintLinks(p program.Program) []Issue {
	type openJump struct {
		index     int
		checkable bool
	}

	var issues []Issue
	var open []openJump

	report := func(i int, format string, args ...interface{}) {
		issues = append(issues, Issue{
			Type:    IssueLink,
			OpID:    i,
			Message: fmt.Sprintf(format, args...),
			Details: map[string]interface{}{"target": p.Insts[i].Target},
		})
	}

	for i, inst := range p.Insts {
		if !inst.Op.IsJump() {
			continue
		}

		checkable := p.Linked && lintTarget(p, i, report)

		if inst.Op == instr.OpJumpIfZero {
			open = append(open, openJump{index: i, checkable: checkable})
			continue
		}

		if len(open) == 0 {
			report(i, "loop end has no loop start")
			continue
		}

		start := open[len(open)-1]
		open = open[:len(open)-1]

		if checkable && inst.Target != start.index {
			report(i, "loop end points at %d, its loop start is %d",
				inst.Target, start.index)
		}
		if start.checkable && p.Insts[start.index].Target != i {
			report(start.index, "loop start points at %d, its loop end is %d",
				p.Insts[start.index].Target, i)
		}
	}

	for _, o := range open {
		report(o.index, "loop start has no loop end")
	}

	return issues
}

// lintTarget reports placeholder and out-of-range targets. It returns false
// when the target cannot be checked further.
func lintTarget(
	p program.Program,
	i int,
	report func(int, string, ...interface{}),
) bool {
	inst := p.Insts[i]

	switch {
	case inst.Target == instr.NoTarget:
		report(i, "%s still has a placeholder target", inst.Op)
		return false
	case inst.Target < 0 || inst.Target >= p.Len():
		report(i, "%s target %d outside program of %d operations",
			inst.Op, inst.Target, p.Len())
		return false
	}

	partner := p.Insts[inst.Target].Op
	if !partner.IsJump() || partner == inst.Op {
		report(i, "%s points at %s", inst.Op, partner)
		return false
	}

	return true
}
