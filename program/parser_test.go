package program_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfemu/instr"
	"github.com/sarchlab/bfemu/program"
)

var _ = Describe("Parser", func() {
	It("should run-length encode repeated symbols", func() {
		p, err := program.Parse("+++ >> <<< -- ., ,")

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Insts).To(Equal([]instr.Inst{
			instr.Add(3),
			instr.Right(2),
			instr.Left(3),
			instr.Sub(2),
			instr.Write(1),
			instr.Read(2),
		}))
		Expect(p.Linked).To(BeFalse())
	})

	It("should wrap add counts modulo 256", func() {
		p, err := program.Parse(strings.Repeat("+", 257))

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Insts).To(Equal([]instr.Inst{instr.Add(1)}))
	})

	It("should not merge brackets", func() {
		p, err := program.Parse("[[]]")

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Insts).To(Equal([]instr.Inst{
			instr.JumpIfZero(),
			instr.JumpIfZero(),
			instr.JumpIfNonZero(1),
			instr.JumpIfNonZero(0),
		}))
	})

	It("should fail on an unmatched opening bracket", func() {
		_, err := program.Parse("[")

		Expect(err).To(MatchError(program.ErrUnmatchedOpeningBracket))
	})

	It("should fail on an unmatched closing bracket", func() {
		_, err := program.Parse("]")

		Expect(err).To(MatchError(program.ErrUnmatchedClosingBracket))
	})

	It("should reject a closing bracket before its opener", func() {
		_, err := program.Parse("+][")

		Expect(err).To(MatchError(program.ErrUnmatchedClosingBracket))
	})

	It("should locate the innermost unclosed bracket", func() {
		_, err := program.Parse("[ [] [ +")

		var syntaxErr *program.SyntaxError
		Expect(err).To(BeAssignableToTypeOf(syntaxErr))
		syntaxErr = err.(*program.SyntaxError)
		Expect(syntaxErr.Offset).To(Equal(5))
		Expect(syntaxErr.Error()).To(ContainSubstring("offset 5"))
	})
})
