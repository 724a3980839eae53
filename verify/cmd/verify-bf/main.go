package main

import (
	"flag"
	"log"
	"os"

	"github.com/sarchlab/bfemu/verify"
)

// main runs lint and the reference comparison on one program file
func main() {
	input := flag.String("input", "", "file whose bytes are fed to the program")
	maxSteps := flag.Uint64("max-steps", 10_000_000, "step budget per model")
	reportFile := flag.String("report", "", "also save the report to this file")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: %s [flags] program-file", os.Args[0])
	}

	source, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to load %s: %v", flag.Arg(0), err)
	}

	var in []byte
	if *input != "" {
		in, err = os.ReadFile(*input)
		if err != nil {
			log.Fatalf("Failed to load input %s: %v", *input, err)
		}
	}

	report := verify.GenerateReport(string(source), in, *maxSteps)
	report.WriteReport(os.Stdout)

	if *reportFile != "" {
		if err := report.SaveReportToFile(*reportFile); err != nil {
			log.Fatal(err)
		}
	}

	if !report.OK() {
		log.Fatalf("Verification failed")
	}
}
