package core

import (
	"bytes"
	"errors"
	"io"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfemu/instr"
	"github.com/sarchlab/bfemu/program"
)

var _ = Describe("InstEmulator", func() {
	var (
		mockCtrl *gomock.Controller
		ie       instEmulator
		s        coreState
		out      *bytes.Buffer
	)

	load := func(insts ...instr.Inst) {
		s.Code = program.Program{Insts: insts, Linked: true}
		s.IP = 0
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		out = &bytes.Buffer{}
		ie = instEmulator{}
		s = coreState{
			Tape:   NewTape(),
			Input:  NewEmptySource(),
			Output: out,
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("Arithmetic Instructions", func() {
		It("should return to the start after 256 increments", func() {
			s.Tape.Set(17)
			load(instr.Add(1))
			for n := 0; n < 256; n++ {
				s.IP = 0
				Expect(ie.RunInst(&s)).To(Succeed())
			}
			Expect(s.Tape.Get()).To(Equal(byte(17)))
			Expect(s.Executed).To(Equal(uint64(256)))
		})

		It("should wrap subtraction below zero", func() {
			load(instr.Sub(3))
			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.Tape.Get()).To(Equal(byte(253)))
			Expect(s.IP).To(Equal(1))
		})

		It("should zero the current cell", func() {
			s.Tape.Set(200)
			load(instr.Zero())
			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.Tape.Get()).To(Equal(byte(0)))
		})
	})

	Context("Transfer Instructions", func() {
		It("should multiply into the target with wrapping", func() {
			s.Tape.Set(100)
			s.Tape.AddAt(2, 10)
			load(instr.MulAdd(3, 2))

			Expect(ie.RunInst(&s)).To(Succeed())

			Expect(s.Tape.Cells()).To(Equal([]byte{0, 0, byte((10 + 100*3) % 256)}))
		})

		It("should add into a cell left of the tape start", func() {
			s.Tape.Set(5)
			load(instr.AddTo(-1))

			Expect(ie.RunInst(&s)).To(Succeed())

			Expect(s.Tape.Cells()).To(Equal([]byte{5, 0}))
			Expect(s.Tape.Head()).To(Equal(1))
		})

		It("should subtract from the target", func() {
			s.Tape.Set(3)
			s.Tape.AddAt(1, 1)
			load(instr.SubFrom(1))

			Expect(ie.RunInst(&s)).To(Succeed())

			Expect(s.Tape.Cells()).To(Equal([]byte{0, 254}))
		})
	})

	Context("Jump Instructions", func() {
		BeforeEach(func() {
			load(
				instr.Inst{Op: instr.OpJumpIfZero, Target: 2},
				instr.Add(1),
				instr.Inst{Op: instr.OpJumpIfNonZero, Target: 0},
			)
		})

		It("should skip past the loop when the cell is zero", func() {
			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.IP).To(Equal(3))
		})

		It("should enter the loop when the cell is nonzero", func() {
			s.Tape.Set(1)
			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.IP).To(Equal(1))
		})

		It("should go back into the body when the cell is nonzero", func() {
			s.Tape.Set(1)
			s.IP = 2
			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.IP).To(Equal(1))
		})

		It("should fall through the closing jump on zero", func() {
			s.IP = 2
			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.IP).To(Equal(3))
		})

		It("should panic on a target outside the program", func() {
			load(instr.Inst{Op: instr.OpJumpIfZero, Target: 9})
			Expect(func() { _ = ie.RunInst(&s) }).To(Panic())
		})
	})

	It("should panic on unknown operations", func() {
		load(instr.Inst{Op: instr.OpInvalid})
		Expect(func() { _ = ie.RunInst(&s) }).To(Panic())
	})

	Context("I/O Instructions", func() {
		It("should keep only the last byte of a multi-byte read", func() {
			src := NewMockByteSource(mockCtrl)
			gomock.InOrder(
				src.EXPECT().ReadByte().Return(byte('a'), nil),
				src.EXPECT().ReadByte().Return(byte('b'), nil),
				src.EXPECT().ReadByte().Return(byte('c'), nil),
			)
			s.Input = src
			load(instr.Read(3))

			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(s.Tape.Get()).To(Equal(byte('c')))
			Expect(s.Tape.Len()).To(Equal(1))
		})

		It("should fail when the input runs dry", func() {
			src := NewMockByteSource(mockCtrl)
			src.EXPECT().ReadByte().Return(byte(0), io.EOF)
			s.Input = src
			load(instr.Read(1))

			err := ie.RunInst(&s)

			Expect(errors.Is(err, ErrInputExhausted)).To(BeTrue())
			Expect(errors.Is(err, io.EOF)).To(BeTrue())
			Expect(s.IP).To(Equal(0))
		})

		It("should flush buffered output before reading", func() {
			w := NewMockFlushWriter(mockCtrl)
			src := NewMockByteSource(mockCtrl)
			gomock.InOrder(
				w.EXPECT().Flush().Return(nil),
				src.EXPECT().ReadByte().Return(byte('x'), nil),
			)
			s.Output = w
			s.Input = src
			load(instr.Read(1))

			Expect(ie.RunInst(&s)).To(Succeed())
		})

		It("should write the current cell count times", func() {
			s.Tape.Set('z')
			load(instr.Write(3))

			Expect(ie.RunInst(&s)).To(Succeed())
			Expect(out.String()).To(Equal("zzz"))
		})

		It("should report sink failures", func() {
			w := NewMockFlushWriter(mockCtrl)
			w.EXPECT().Write(gomock.Any()).Return(0, io.ErrClosedPipe)
			s.Output = w
			load(instr.Write(1))

			Expect(ie.RunInst(&s)).To(MatchError(io.ErrClosedPipe))
		})
	})
})
