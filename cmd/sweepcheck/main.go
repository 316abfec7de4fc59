package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"sweepcheck/internal/catalog"
	"sweepcheck/internal/cli"
	"sweepcheck/internal/config"
	"sweepcheck/internal/render"
	"sweepcheck/internal/sampler"
	"sweepcheck/internal/ui"
	"sweepcheck/internal/validate"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool     `short:"v" help:"Show version information"`
	Config  string   `short:"c" type:"path" help:"Path to YAML config file (optional)"`
	Plain   bool     `help:"Print one coefficient per file instead of the TUI"`
	Seed    *int64   `help:"Override the sampling seed"`
	Out     string   `short:"o" type:"path" help:"Output directory for rendered artifacts"`
	Summary bool     `help:"Report mean/median coefficient at the end"`
	Files   []string `arg:"" name:"files" help:"Source recordings to validate" type:"existingfile" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("sweepcheck"),
		kong.Description("Perceptual audio-distance monotonicity probe"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	cfg, err := config.Load(cliArgs.Config)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if cliArgs.Seed != nil {
		cfg.Seed = *cliArgs.Seed
	}
	if cliArgs.Out != "" {
		cfg.OutDir = cliArgs.Out
	}
	if cliArgs.Summary {
		cfg.Summary = true
	}

	// Explicit file arguments win over the configured corpus glob.
	files := cliArgs.Files
	if len(files) == 0 && cfg.InputGlob != "" {
		files, err = filepath.Glob(cfg.InputGlob)
		if err != nil {
			cli.PrintError(fmt.Sprintf("input glob %q: %v", cfg.InputGlob, err))
			os.Exit(1)
		}
		sort.Strings(files)
	}
	if len(files) == 0 {
		cli.PrintError("No input files specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	// A malformed transform table is a configuration error: fail before
	// touching any input.
	specs, err := catalog.Load()
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	// One process-wide sampling context, seeded once. Draw order is what
	// makes runs reproducible, so files are processed strictly in order.
	p := &pipeline{
		specs:     specs,
		sampler:   sampler.New(rand.New(rand.NewSource(cfg.Seed)), cfg.SweepLen),
		renderer:  render.New(render.NewSoxEngine(cfg.SoxPath), cfg.OutDir, cfg.ArtifactExt),
		validator: validate.New(),
	}

	if cliArgs.Plain {
		os.Exit(runPlain(p, files, cfg.Summary))
	}
	runTUI(p, files, cfg.Summary)
}

// pipeline bundles the per-file stages: sample → render → validate.
type pipeline struct {
	specs     []catalog.Spec
	sampler   *sampler.Sampler
	renderer  *render.Renderer
	validator *validate.Validator
}

// outcome is one file's validation result.
type outcome struct {
	Transform   string
	Variable    string
	Coefficient float64
	Distances   []float64
}

// runFile processes a single recording. Any stage failure aborts this
// file only; the caller decides whether to continue the corpus scan.
func (p *pipeline) runFile(path string, events driverEvents) (outcome, error) {
	spec := p.sampler.Pick(p.specs)
	plan, sweep := p.sampler.Sample(spec)
	if events.planned != nil {
		events.planned(spec.Name, sweep.Label)
	}

	artifacts, err := p.renderer.Render(path, plan, sweep, events.rendered)
	if err != nil {
		return outcome{}, err
	}

	if events.validating != nil {
		events.validating()
	}
	result, err := p.validator.Validate(artifacts)
	if err != nil {
		return outcome{}, err
	}

	return outcome{
		Transform:   spec.Name,
		Variable:    sweep.Label,
		Coefficient: result.Coefficient,
		Distances:   result.Distances,
	}, nil
}

// driverEvents carries optional per-stage progress callbacks.
type driverEvents struct {
	planned    func(transform, variable string)
	rendered   func(done, total int)
	validating func()
}

// runPlain processes the corpus without the TUI, printing one line per
// file: path, transform/variable, coefficient. Failures go to stderr so
// "no monotonic signal" (NaN) and "could not measure" stay distinct.
func runPlain(p *pipeline, files []string, summary bool) int {
	exitCode := 0
	var coefficients []float64
	for _, path := range files {
		out, err := p.runFile(path, driverEvents{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\tfailed: %v\n", path, err)
			exitCode = 1
			continue
		}
		fmt.Printf("%s\t%s/%s\t%s\n", path, out.Transform, out.Variable, formatRho(out.Coefficient))
		coefficients = append(coefficients, out.Coefficient)
	}
	if summary && len(coefficients) > 0 {
		mean, median := summarize(coefficients)
		fmt.Printf("mean\t%s\nmedian\t%s\n", formatRho(mean), formatRho(median))
	}
	return exitCode
}

// runTUI drives the corpus from a background goroutine while the
// Bubbletea program owns the terminal, mirroring file progress through
// messages.
func runTUI(p *pipeline, files []string, summary bool) {
	model := ui.NewModel(files)
	program := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		var coefficients []float64
		for i, path := range files {
			i := i
			program.Send(ui.FileStartMsg{FileIndex: i, FileName: path})

			events := driverEvents{
				planned: func(transform, variable string) {
					program.Send(ui.SweepPlanMsg{FileIndex: i, Transform: transform, Variable: variable})
				},
				rendered: func(done, total int) {
					program.Send(ui.RenderProgressMsg{FileIndex: i, Done: done, Total: total})
				},
				validating: func() {
					program.Send(ui.ValidatingMsg{FileIndex: i})
				},
			}

			out, err := p.runFile(path, events)
			if err != nil {
				program.Send(ui.FileCompleteMsg{FileIndex: i, Error: err})
				continue
			}
			coefficients = append(coefficients, out.Coefficient)
			program.Send(ui.FileCompleteMsg{
				FileIndex:   i,
				Transform:   out.Transform,
				Variable:    out.Variable,
				Coefficient: out.Coefficient,
			})
		}

		done := ui.AllCompleteMsg{}
		if summary && len(coefficients) > 0 {
			done.Mean, done.Median = summarize(coefficients)
			done.Summary = true
		}
		program.Send(done)
	}()

	if _, err := program.Run(); err != nil {
		cli.PrintError(fmt.Sprintf("UI error: %v", err))
		os.Exit(1)
	}
}

// summarize returns the mean and median of the finite coefficients.
// NaN entries (degenerate sweeps) are excluded rather than poisoning
// the aggregate.
func summarize(coefficients []float64) (mean, median float64) {
	finite := make([]float64, 0, len(coefficients))
	for _, c := range coefficients {
		if !math.IsNaN(c) {
			finite = append(finite, c)
		}
	}
	if len(finite) == 0 {
		return math.NaN(), math.NaN()
	}

	var sum float64
	for _, c := range finite {
		sum += c
	}
	mean = sum / float64(len(finite))

	sort.Float64s(finite)
	mid := len(finite) / 2
	if len(finite)%2 == 0 {
		median = (finite[mid-1] + finite[mid]) / 2
	} else {
		median = finite[mid]
	}
	return mean, median
}

func formatRho(rho float64) string {
	if math.IsNaN(rho) {
		return "undefined"
	}
	return fmt.Sprintf("%+.4f", rho)
}
