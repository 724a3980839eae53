package program

import (
	"log/slog"

	"github.com/sarchlab/bfemu/instr"
)

// Stats counts the rewrites made by Optimize. The numbers are diagnostic
// only.
type Stats struct {
	Passes       int
	ChainsFolded int
	ZeroLoops    int
	Transfers    int
	Removed      int // operations dropped from the program
}

// Folds returns the total number of rewrites.
func (s Stats) Folds() int {
	return s.ChainsFolded + s.ZeroLoops + s.Transfers
}

func (s *Stats) add(o Stats) {
	s.ChainsFolded += o.ChainsFolded
	s.ZeroLoops += o.ZeroLoops
	s.Transfers += o.Transfers
	s.Removed += o.Removed
}

// Optimize rewrites known idioms into composite operations. Every pass reads
// the input once and writes a fresh, never longer, instruction list; passes
// repeat until one makes no change. The result is unlinked and must go
// through Link before execution.
func Optimize(p Program) (Program, Stats) {
	var total Stats

	insts := p.Insts
	for {
		out, pass := optimizePass(insts)
		total.Passes++
		total.add(pass)

		slog.Debug("OptimizerPass",
			"Pass", total.Passes,
			"Chains", pass.ChainsFolded,
			"ZeroLoops", pass.ZeroLoops,
			"Transfers", pass.Transfers,
			"Len", len(out),
		)

		insts = out
		if pass.Folds() == 0 {
			break
		}
	}

	return Program{Insts: insts}, total
}

func optimizePass(in []instr.Inst) ([]instr.Inst, Stats) {
	var stats Stats
	out := make([]instr.Inst, 0, len(in))

	for i := 0; i < len(in); {
		window := in[i:]

		if n, folded, keep := foldChain(window); n > 0 {
			if keep {
				out = append(out, folded)
			}
			stats.ChainsFolded++
			stats.Removed += n - btoi(keep)
			i += n
			continue
		}

		if isZeroLoop(window) {
			out = append(out, instr.Zero())
			stats.ZeroLoops++
			stats.Removed += 2
			i += 3
			continue
		}

		if folded, ok := matchTransfer(window); ok {
			out = append(out, folded)
			stats.Transfers++
			stats.Removed += 5
			i += 6
			continue
		}

		out = append(out, unlinked(in[i]))
		i++
	}

	return out, stats
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}

// unlinked clears jump targets; indices are stale once anything moves.
func unlinked(i instr.Inst) instr.Inst {
	if i.Op.IsJump() {
		i.Target = instr.NoTarget
	}
	return i
}

// foldChain folds a leading run of two or more ADD/SUB operations into one.
// n is the length of the folded run, zero when nothing matched. keep is false
// when the run cancels out and nothing replaces it.
func foldChain(window []instr.Inst) (n int, folded instr.Inst, keep bool) {
	sum := 0
	for n < len(window) && (window[n].Op == instr.OpAdd || window[n].Op == instr.OpSub) {
		sum += window[n].Delta()
		n++
	}

	if n < 2 {
		return 0, instr.Inst{}, false
	}

	switch {
	case sum%256 == 0:
		return n, instr.Inst{}, false
	case sum > 0:
		return n, instr.Add(sum % 256), true
	default:
		return n, instr.Sub(-sum % 256), true
	}
}

// isZeroLoop matches [+] and [-].
func isZeroLoop(window []instr.Inst) bool {
	if len(window) < 3 {
		return false
	}

	body := window[1]
	return window[0].Op == instr.OpJumpIfZero &&
		(body.Op == instr.OpAdd || body.Op == instr.OpSub) &&
		body.Value == 1 &&
		window[2].Op == instr.OpJumpIfNonZero
}

// matchTransfer matches six-operation loops that drain the current cell into
// the cell at a fixed offset, such as [->+<], [<+++>-] and [->>-<<].
func matchTransfer(window []instr.Inst) (instr.Inst, bool) {
	if len(window) < 6 ||
		window[0].Op != instr.OpJumpIfZero ||
		window[5].Op != instr.OpJumpIfNonZero {
		return instr.Inst{}, false
	}

	body := window[1:5]
	var out, mod, back instr.Inst
	switch {
	case isDecOne(body[0]):
		out, mod, back = body[1], body[2], body[3]
	case isDecOne(body[3]):
		out, mod, back = body[0], body[1], body[2]
	default:
		return instr.Inst{}, false
	}

	offset, ok := roundTrip(out, back)
	if !ok {
		return instr.Inst{}, false
	}

	switch {
	case mod.Op == instr.OpAdd && mod.Value == 1:
		return instr.AddTo(offset), true
	case mod.Op == instr.OpAdd:
		return instr.MulAdd(mod.Value, offset), true
	case isDecOne(mod):
		return instr.SubFrom(offset), true
	default:
		return instr.Inst{}, false
	}
}

func isDecOne(i instr.Inst) bool {
	return i.Op == instr.OpSub && i.Value == 1
}

// roundTrip returns the signed offset of a move that is undone by back.
func roundTrip(out, back instr.Inst) (int, bool) {
	if out.Count != back.Count {
		return 0, false
	}

	switch {
	case out.Op == instr.OpRight && back.Op == instr.OpLeft:
		return out.Count, true
	case out.Op == instr.OpLeft && back.Op == instr.OpRight:
		return -out.Count, true
	default:
		return 0, false
	}
}
