package instr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfemu/instr"
)

var _ = Describe("Inst", func() {
	It("should wrap add and sub counts", func() {
		Expect(instr.Add(257).Value).To(Equal(uint8(1)))
		Expect(instr.Sub(256).Value).To(Equal(uint8(0)))
	})

	It("should report signed deltas", func() {
		Expect(instr.Add(3).Delta()).To(Equal(3))
		Expect(instr.Sub(5).Delta()).To(Equal(-5))
		Expect(instr.Right(2).Delta()).To(Equal(0))
	})

	It("should start loops unlinked", func() {
		Expect(instr.JumpIfZero().Target).To(Equal(instr.NoTarget))
		Expect(instr.JumpIfZero().String()).To(Equal("JZ ->?"))
	})

	It("should classify opcodes", func() {
		Expect(instr.OpJumpIfZero.IsJump()).To(BeTrue())
		Expect(instr.OpAdd.IsJump()).To(BeFalse())
		Expect(instr.OpMulAdd.IsComposite()).To(BeTrue())
		Expect(instr.OpWrite.IsComposite()).To(BeFalse())
	})

	DescribeTable("rendering",
		func(i instr.Inst, text string) {
			Expect(i.String()).To(Equal(text))
		},
		Entry("add", instr.Add(3), "ADD 3"),
		Entry("left", instr.Left(4), "LEFT 4"),
		Entry("write", instr.Write(2), "WRITE 2"),
		Entry("linked jump", instr.JumpIfNonZero(7), "JNZ ->7"),
		Entry("zero", instr.Zero(), "ZERO"),
		Entry("add to", instr.AddTo(-1), "ADDTO @-1"),
		Entry("sub from", instr.SubFrom(2), "SUBFROM @+2"),
		Entry("mul", instr.MulAdd(4, 3), "MUL 4 @+3"),
		Entry("unknown", instr.Inst{Op: 200}, "OpCode(200)"),
	)
})
