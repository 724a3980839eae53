package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bfemu/api"
	"github.com/sarchlab/bfemu/program"
)

//go:embed hello.b
var helloSource string

func hello(driver api.Driver) {
	prog, stats, err := program.Load(helloSource, true)
	if err != nil {
		atexit.Fatalf("loading hello: %v", err)
	}

	driver.MapProgram(prog)
	driver.Collect(os.Stdout)

	if err := driver.Run(); err != nil {
		atexit.Fatalf("running hello: %v", err)
	}

	run := driver.Stats()
	fmt.Fprintf(os.Stderr, "%d operations (%d folds), %d executed, %.0f ns simulated\n",
		run.ProgramLen, stats.Folds(), run.Executed, float64(run.SimTime)*1e9)
}

func main() {
	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		Build("Driver")

	hello(driver)

	atexit.Exit(0)
}
