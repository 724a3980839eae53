package program

import (
	"github.com/sarchlab/bfemu/instr"
)

type openBracket struct {
	index  int // position of the JZ in the instruction list
	offset int // position of the '[' in the source
}

type parser struct {
	lex *Lexer

	sym    byte
	offset int
	ok     bool

	insts    []instr.Inst
	brackets []openBracket
}

// Parse turns source text into an unlinked Program. Runs of identical
// non-bracket symbols collapse into one counted operation. Each closing jump
// records the index of its opener; openers are resolved by Link.
func Parse(src string) (Program, error) {
	p := &parser{lex: NewLexer(src)}
	p.advance()

	for p.ok {
		switch p.sym {
		case '[':
			p.brackets = append(p.brackets, openBracket{
				index:  len(p.insts),
				offset: p.offset,
			})
			p.insts = append(p.insts, instr.JumpIfZero())
			p.advance()
		case ']':
			if len(p.brackets) == 0 {
				return Program{}, &SyntaxError{
					Err:    ErrUnmatchedClosingBracket,
					Offset: p.offset,
				}
			}
			open := p.brackets[len(p.brackets)-1]
			p.brackets = p.brackets[:len(p.brackets)-1]
			p.insts = append(p.insts, instr.JumpIfNonZero(open.index))
			p.advance()
		default:
			sym := p.sym
			p.insts = append(p.insts, runInst(sym, p.countRun(sym)))
		}
	}

	if len(p.brackets) > 0 {
		return Program{}, &SyntaxError{
			Err:    ErrUnmatchedOpeningBracket,
			Offset: p.brackets[len(p.brackets)-1].offset,
		}
	}

	return Program{Insts: p.insts}, nil
}

func (p *parser) advance() {
	p.sym, p.offset, p.ok = p.lex.Next()
}

// countRun consumes the current symbol and every directly following copy of
// it, returning how many were consumed.
func (p *parser) countRun(sym byte) int {
	n := 0
	for p.ok && p.sym == sym {
		n++
		p.advance()
	}
	return n
}

func runInst(sym byte, n int) instr.Inst {
	switch sym {
	case '+':
		return instr.Add(n % 256)
	case '-':
		return instr.Sub(n % 256)
	case '<':
		return instr.Left(n)
	case '>':
		return instr.Right(n)
	case ',':
		return instr.Read(n)
	case '.':
		return instr.Write(n)
	default:
		panic("lexer produced a symbol outside the alphabet: " + string(sym))
	}
}
