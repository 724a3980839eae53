package api_test

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bfemu/api"
	"github.com/sarchlab/bfemu/core"
	"github.com/sarchlab/bfemu/program"
)

const doubler = ",[>++<-]>."

var _ = Describe("Driver", func() {
	var (
		prog program.Program
		out  *bytes.Buffer
	)

	BeforeEach(func() {
		var err error
		prog, _, err = program.Load(doubler, true)
		Expect(err).NotTo(HaveOccurred())
		out = &bytes.Buffer{}
	})

	It("should refuse to run without a program", func() {
		driver := api.DriverBuilder{}.Build("Driver")

		Expect(driver.Run()).To(MatchError(api.ErrNoProgram))
	})

	It("should run directly without an engine", func() {
		driver := api.DriverBuilder{}.Build("Driver")
		driver.MapProgram(prog)
		driver.FeedIn(core.NewStreamSource(strings.NewReader("\x15")))
		driver.Collect(out)

		Expect(driver.Run()).To(Succeed())

		Expect(out.Bytes()).To(Equal([]byte{42}))
		stats := driver.Stats()
		Expect(stats.ProgramLen).To(Equal(prog.Len()))
		Expect(stats.Executed).To(BeNumerically(">", 0))
		Expect(stats.SimTime).To(BeZero())
	})

	It("should run on an engine and report simulated time", func() {
		engine := sim.NewSerialEngine()
		driver := api.DriverBuilder{}.
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			Build("Driver")
		driver.MapProgram(prog)
		driver.FeedIn(core.NewStreamSource(strings.NewReader("\x15")))
		driver.Collect(out)

		Expect(driver.Run()).To(Succeed())

		Expect(out.Bytes()).To(Equal([]byte{42}))
		Expect(float64(driver.Stats().SimTime)).To(BeNumerically(">", 0))
		Expect(driver.Core().Halted()).To(BeTrue())
	})

	It("should flush a buffered sink when the run ends", func() {
		driver := api.DriverBuilder{}.Build("Driver")
		driver.MapProgram(prog)
		driver.FeedIn(core.NewStreamSource(strings.NewReader("\x01")))
		driver.Collect(bufio.NewWriter(out))

		Expect(driver.Run()).To(Succeed())
		Expect(out.Bytes()).To(Equal([]byte{2}))
	})

	It("should surface the step limit", func() {
		p, _, err := program.Load("+[]", false)
		Expect(err).NotTo(HaveOccurred())

		driver := api.DriverBuilder{}.WithMaxSteps(100).Build("Driver")
		driver.MapProgram(p)

		err = driver.Run()

		Expect(errors.Is(err, core.ErrStepLimit)).To(BeTrue())
		Expect(driver.Stats().Executed).To(Equal(uint64(100)))
	})

	It("should run again after remapping", func() {
		driver := api.DriverBuilder{}.Build("Driver")
		driver.Collect(out)

		for _, in := range []string{"\x01", "\x02"} {
			driver.MapProgram(prog)
			driver.FeedIn(core.NewStreamSource(strings.NewReader(in)))
			Expect(driver.Run()).To(Succeed())
		}

		Expect(out.Bytes()).To(Equal([]byte{2, 4}))
	})
})
