// Command bfemu loads a program file and runs it against stdin and stdout.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/bfemu/api"
	"github.com/sarchlab/bfemu/config"
	"github.com/sarchlab/bfemu/core"
	"github.com/sarchlab/bfemu/program"
)

type options struct {
	noOpt     bool
	simulate  bool
	freqGHz   float64
	inputMode string
	maxSteps  uint64
	showStats bool
	dump      bool
	logLevel  string
	logFile   string
}

func parseFlags(args []string, stderr io.Writer) (options, string, error) {
	var o options

	fs := flag.NewFlagSet("bfemu", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&o.noOpt, "no-opt", false, "run the program without the optimizer")
	fs.BoolVar(&o.simulate, "sim", false, "tick the core on a simulation engine")
	fs.Float64Var(&o.freqGHz, "freq", 1, "core frequency in GHz for -sim")
	fs.StringVar(&o.inputMode, "input", "auto", "input mode: auto, terminal or stream")
	fs.Uint64Var(&o.maxSteps, "max-steps", 0, "abort after this many operations (0 = no limit)")
	fs.BoolVar(&o.showStats, "stats", false, "print run statistics to stderr")
	fs.BoolVar(&o.dump, "dump", false, "print the linked program to stderr before running")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: trace, debug, info, warn or error")
	fs.StringVar(&o.logFile, "log-file", "", "write JSON logs to this file instead of stderr")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: bfemu [flags] program-file")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, "", err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return o, "", fmt.Errorf("expected exactly one program file, got %d arguments", fs.NArg())
	}

	return o, fs.Arg(0), nil
}

// run executes the command and returns the exit status. Program output goes
// to stdout unbuffered; diagnostics go to stderr.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fail := func(err error) int {
		fmt.Fprintf(stderr, "bfemu: %v\n", err)
		return 1
	}

	o, path, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		return fail(err)
	}

	closeLog, err := setupLogging(o, stderr)
	if err != nil {
		return fail(err)
	}
	defer closeLog()

	cfg, err := buildConfig(o)
	if err != nil {
		return fail(err)
	}

	prog, optStats, err := program.LoadProgramFile(path, cfg.Optimize)
	if err != nil {
		return fail(err)
	}

	if o.dump {
		fmt.Fprint(stderr, prog.String())
	}

	driver, err := config.NewMachineBuilder().
		WithConfig(cfg).
		WithInput(stdin).
		WithOutput(stdout).
		Build("BF")
	if err != nil {
		return fail(err)
	}

	driver.MapProgram(prog)
	runErr := driver.Run()

	if o.showStats {
		printStats(stderr, driver.Stats(), optStats, cfg)
	}

	if runErr != nil {
		return fail(runErr)
	}

	return 0
}

func main() {
	atexit.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func buildConfig(o options) (config.Config, error) {
	cfg := config.Default()
	cfg.Optimize = !o.noOpt
	cfg.MaxSteps = o.maxSteps
	cfg.Freq = sim.Freq(o.freqGHz) * sim.GHz

	if o.simulate {
		cfg.Mode = config.ModeSimulated
	}

	mode, err := config.ParseInputMode(o.inputMode)
	if err != nil {
		return cfg, err
	}
	cfg.InputMode = mode

	return cfg, cfg.Validate()
}

func setupLogging(o options, stderr io.Writer) (func(), error) {
	level, ok := map[string]slog.Level{
		"trace": core.LevelTrace,
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}[strings.ToLower(o.logLevel)]
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", o.logLevel)
	}

	opts := &slog.HandlerOptions{Level: level}

	if o.logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(stderr, opts)))
		return func() {}, nil
	}

	f, err := os.Create(o.logFile)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(f, opts)))

	return func() { _ = f.Close() }, nil
}

func printStats(w io.Writer, run api.RunStats, opt program.Stats, cfg config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Run Statistics")
	t.AppendRows([]table.Row{
		{"Mode", cfg.Mode.String()},
		{"Program length", run.ProgramLen},
		{"Executed operations", run.Executed},
		{"Optimizer passes", opt.Passes},
		{"Chains folded", opt.ChainsFolded},
		{"Zero loops", opt.ZeroLoops},
		{"Transfers", opt.Transfers},
		{"Operations removed", opt.Removed},
	})
	if cfg.Mode == config.ModeSimulated {
		t.AppendRow(table.Row{"Simulated time (ns)", float64(run.SimTime) * 1e9})
	}
	t.Render()
}
