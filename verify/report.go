package verify

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/bfemu/api"
	"github.com/sarchlab/bfemu/core"
	"github.com/sarchlab/bfemu/program"
)

// RunResult is what one model produced for the input.
type RunResult struct {
	Name    string
	Output  []byte
	Steps   uint64
	Err     error
	Outcome Outcome
}

// VerificationReport represents a complete verification report
type VerificationReport struct {
	SourceLen int
	Symbols   int

	PlainLen     int
	OptimizedLen int
	OptStats     program.Stats

	LintIssues []Issue
	FixpointOK bool

	Reference RunResult
	Plain     RunResult
	Optimized RunResult
}

// GenerateReport runs the reference model and both pipelines over source
// with the same input, and lints the optimized program.
func GenerateReport(source string, input []byte, maxSteps uint64) *VerificationReport {
	report := &VerificationReport{
		SourceLen:  len(source),
		Symbols:    len(program.Filter(source)),
		FixpointOK: true,
	}

	report.Reference = runReference(source, input, maxSteps)

	plain, _, err := program.Load(source, false)
	report.Plain = runProgram("unoptimized", plain, err, input, maxSteps)
	report.PlainLen = plain.Len()

	opt, stats, err := program.Load(source, true)
	report.Optimized = runProgram("optimized", opt, err, input, maxSteps)
	report.OptimizedLen = opt.Len()
	report.OptStats = stats

	if err == nil {
		report.LintIssues = RunLint(opt)

		_, again := program.Optimize(opt)
		report.FixpointOK = again.Folds() == 0
	}

	return report
}

func runReference(source string, input []byte, maxSteps uint64) RunResult {
	res := RunResult{Name: "reference"}

	fs, err := NewFunctionalSimulator(source, input)
	if err == nil {
		err = fs.Run(maxSteps)
		res.Output = fs.Output()
		res.Steps = fs.Steps()
	}

	res.Err = err
	res.Outcome = Classify(err)

	return res
}

func runProgram(
	name string,
	p program.Program,
	loadErr error,
	input []byte,
	maxSteps uint64,
) RunResult {
	res := RunResult{Name: name}
	if loadErr != nil {
		res.Err = loadErr
		res.Outcome = Classify(loadErr)
		return res
	}

	out := &bytes.Buffer{}
	driver := api.DriverBuilder{}.
		WithMaxSteps(maxSteps).
		Build("Verify")
	driver.MapProgram(p)
	driver.FeedIn(core.NewStreamSource(bytes.NewReader(input)))
	driver.Collect(out)

	res.Err = driver.Run()
	res.Outcome = Classify(res.Err)
	res.Output = out.Bytes()
	res.Steps = driver.Stats().Executed

	return res
}

// Inconclusive reports whether the reference model ran out of steps, so
// nothing can be said about agreement.
func (r *VerificationReport) Inconclusive() bool {
	return r.Reference.Outcome == OutcomeStepLimit
}

// Mismatches lists the runs that disagree with the reference model.
func (r *VerificationReport) Mismatches() []string {
	if r.Inconclusive() {
		return nil
	}

	var names []string
	for _, res := range []RunResult{r.Plain, r.Optimized} {
		if res.Outcome != r.Reference.Outcome ||
			!bytes.Equal(res.Output, r.Reference.Output) {
			names = append(names, res.Name)
		}
	}

	return names
}

// OK reports whether every check passed.
func (r *VerificationReport) OK() bool {
	return len(r.LintIssues) == 0 &&
		r.FixpointOK &&
		!r.Inconclusive() &&
		len(r.Mismatches()) == 0
}

// WriteReport writes a formatted report to a writer
func (r *VerificationReport) WriteReport(w io.Writer) {
	separator := strings.Repeat("=", 60)

	fmt.Fprintln(w, separator)
	fmt.Fprintln(w, "PROGRAM VERIFICATION REPORT")
	fmt.Fprintln(w, separator)

	fmt.Fprintf(w, "\nSource: %d bytes, %d symbols, %d operations unoptimized, %d optimized\n",
		r.SourceLen, r.Symbols, r.PlainLen, r.OptimizedLen)
	fmt.Fprintf(w, "Optimizer: %d passes, %d chains, %d zero loops, %d transfers, %d removed\n",
		r.OptStats.Passes, r.OptStats.ChainsFolded, r.OptStats.ZeroLoops,
		r.OptStats.Transfers, r.OptStats.Removed)

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 1: STATIC LINT CHECKS")
	fmt.Fprintln(w, separator)

	if len(r.LintIssues) == 0 {
		fmt.Fprintln(w, "✓ No lint issues found!")
	} else {
		fmt.Fprintf(w, "⚠ Found %d lint issues:\n", len(r.LintIssues))
		for _, issue := range r.LintIssues {
			fmt.Fprintf(w, "  [%s op=%d] %s\n", issue.Type, issue.OpID, issue.Message)
		}
	}

	if r.FixpointOK {
		fmt.Fprintln(w, "✓ Optimizer output is a fixpoint")
	} else {
		fmt.Fprintln(w, "⚠ A second optimizer run still folds operations")
	}

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "STAGE 2: FUNCTIONAL COMPARISON")
	fmt.Fprintln(w, separator)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Model", "Outcome", "Steps", "Output bytes", "Output"})
	for _, res := range []RunResult{r.Reference, r.Plain, r.Optimized} {
		t.AppendRow(table.Row{
			res.Name, string(res.Outcome), res.Steps, len(res.Output),
			preview(res.Output, 32),
		})
	}
	t.Render()

	fmt.Fprintln(w, "\n"+separator)
	fmt.Fprintln(w, "VERIFICATION SUMMARY")
	fmt.Fprintln(w, separator)

	switch {
	case r.Inconclusive():
		fmt.Fprintln(w, "⚠ INCONCLUSIVE: the reference model hit the step limit")
	case len(r.Mismatches()) > 0:
		fmt.Fprintf(w, "⚠ MISMATCH: %s disagree with the reference model\n",
			strings.Join(r.Mismatches(), ", "))
	case r.OK():
		fmt.Fprintln(w, "✓ PROGRAM PASSED ALL CHECKS")
	default:
		fmt.Fprintln(w, "⚠ Outputs agree but static checks failed")
	}

	fmt.Fprintln(w)
}

func preview(b []byte, n int) string {
	s := b
	if len(s) > n {
		s = s[:n]
	}

	var sb strings.Builder
	for _, c := range s {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			fmt.Fprintf(&sb, "\\x%02x", c)
		}
	}
	if len(b) > n {
		sb.WriteString("...")
	}

	return sb.String()
}

// SaveReportToFile saves the report to a file
func (r *VerificationReport) SaveReportToFile(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	r.WriteReport(file)
	return nil
}
