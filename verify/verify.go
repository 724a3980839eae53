// Package verify provides debugging tools that check the interpreter
// against an independent model.
//
// It implements three complementary stages:
//
// 1. Static Lint (lint.go): structural checks on a linked program
//   - LINK checks: placeholder targets, out-of-range targets, pairs that do
//     not point at each other, pairs that cross
//   - STRUCT checks: unknown opcodes, empty counts, transfers onto the
//     source cell
//
// 2. Functional Simulator (funcsim.go): a reference interpreter that walks
// the raw source one symbol at a time over a sparse tape. It shares no
// code with the lexer, parser, optimizer or core.
//
// 3. Report (report.go): runs the reference model, the unoptimized program
// and the optimized program on the same input and compares their outputs
// and outcomes. It also checks that a second optimizer run finds nothing
// left to fold.
//
// # Outcome classes
//
// Runs are compared by output bytes and by how they ended:
//
//   - ok: the program ran off its end
//   - input exhausted: a read found no byte (core.ErrInputExhausted)
//   - step limit: the run hit its step budget (core.ErrStepLimit)
//   - syntax: the source has unbalanced brackets
//
// A reference run that hits the step limit makes the comparison
// inconclusive, since optimized programs execute fewer steps for the same
// work.
package verify

import (
	"errors"

	"github.com/sarchlab/bfemu/core"
	"github.com/sarchlab/bfemu/program"
)

// IssueType categorizes lint issues
type IssueType string

const (
	IssueLink   IssueType = "LINK"   // Jump pairing error
	IssueStruct IssueType = "STRUCT" // Malformed operation
)

// Issue represents a single lint issue
type Issue struct {
	Type    IssueType              // LINK or STRUCT
	OpID    int                    // Operation index or -1
	Message string                 // Human-readable description
	Details map[string]interface{} // Additional structured data
}

// Outcome classifies how a run ended.
type Outcome string

const (
	OutcomeOK             Outcome = "ok"
	OutcomeInputExhausted Outcome = "input exhausted"
	OutcomeStepLimit      Outcome = "step limit"
	OutcomeSyntax         Outcome = "syntax"
	OutcomeOther          Outcome = "error"
)

// Classify maps a run or load error onto its outcome class.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, core.ErrInputExhausted):
		return OutcomeInputExhausted
	case errors.Is(err, core.ErrStepLimit):
		return OutcomeStepLimit
	case errors.Is(err, program.ErrUnmatchedOpeningBracket),
		errors.Is(err, program.ErrUnmatchedClosingBracket):
		return OutcomeSyntax
	default:
		return OutcomeOther
	}
}
