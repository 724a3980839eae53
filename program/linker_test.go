package program_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/bfemu/instr"
	"github.com/sarchlab/bfemu/program"
)

var _ = Describe("Linker", func() {
	It("should pair nested loops", func() {
		p, err := program.Parse("[>[.]<]")
		Expect(err).NotTo(HaveOccurred())

		linked, err := program.Link(p)

		Expect(err).NotTo(HaveOccurred())
		Expect(linked.Linked).To(BeTrue())
		Expect(linked.Insts[0].Target).To(Equal(6))
		Expect(linked.Insts[6].Target).To(Equal(0))
		Expect(linked.Insts[2].Target).To(Equal(4))
		Expect(linked.Insts[4].Target).To(Equal(2))
	})

	It("should relink after optimization moved the brackets", func() {
		p, err := program.Parse("+-+-[-][>.<-]")
		Expect(err).NotTo(HaveOccurred())
		opt, _ := program.Optimize(p)

		linked, err := program.Link(opt)

		Expect(err).NotTo(HaveOccurred())
		Expect(linked.Insts).To(Equal([]instr.Inst{
			instr.Zero(),
			{Op: instr.OpJumpIfZero, Target: 6},
			instr.Right(1),
			instr.Write(1),
			instr.Left(1),
			instr.Sub(1),
			{Op: instr.OpJumpIfNonZero, Target: 1},
		}))
	})

	It("should not modify its input", func() {
		p, err := program.Parse("[.]")
		Expect(err).NotTo(HaveOccurred())

		_, err = program.Link(p)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Insts[0].Target).To(Equal(instr.NoTarget))
	})

	It("should reject broken pairings", func() {
		_, err := program.Link(program.Program{Insts: []instr.Inst{
			instr.JumpIfNonZero(0),
		}})
		Expect(err).To(MatchError(program.ErrInternal))

		_, err = program.Link(program.Program{Insts: []instr.Inst{
			instr.JumpIfZero(),
		}})
		Expect(err).To(MatchError(program.ErrInternal))
	})
})

var _ = Describe("Load", func() {
	It("should run the whole pipeline", func() {
		p, stats, err := program.Load(">+++++[<+>-]<.", true)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Transfers).To(Equal(1))
		Expect(p.Linked).To(BeTrue())
		Expect(p.Insts).To(Equal([]instr.Inst{
			instr.Right(1),
			instr.Add(5),
			instr.AddTo(-1),
			instr.Left(1),
			instr.Write(1),
		}))
	})

	It("should skip optimization when asked", func() {
		p, stats, err := program.Load("[-]", false)

		Expect(err).NotTo(HaveOccurred())
		Expect(stats.Passes).To(Equal(0))
		Expect(p.Len()).To(Equal(3))
		Expect(p.Insts[0].Target).To(Equal(2))
	})

	It("should propagate syntax errors", func() {
		_, _, err := program.Load("[[]", true)
		Expect(err).To(MatchError(program.ErrUnmatchedOpeningBracket))
	})

	It("should load files", func() {
		path := filepath.Join(GinkgoT().TempDir(), "three.b")
		Expect(os.WriteFile(path, []byte("+++ three ."), 0o644)).To(Succeed())

		p, _, err := program.LoadProgramFile(path, true)

		Expect(err).NotTo(HaveOccurred())
		Expect(p.Insts).To(Equal([]instr.Inst{instr.Add(3), instr.Write(1)}))
	})

	It("should report missing files", func() {
		_, _, err := program.LoadProgramFile("/does/not/exist.b", true)
		Expect(err).To(MatchError(program.ErrSourceUnavailable))
	})

	It("should render a listing", func() {
		p, _, err := program.Load("[-]>.", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.String()).To(Equal("   0  ZERO\n   1  RIGHT 1\n   2  WRITE 1\n"))
	})
})
