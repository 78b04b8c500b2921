package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridnet/pkg/grid"
	"github.com/matzehuels/gridnet/pkg/observability"
	"github.com/matzehuels/gridnet/pkg/scenario"
)

// simulateOpts holds the flags of the simulate command.
type simulateOpts struct {
	json        bool // print the result as JSON instead of tables
	interactive bool // step through the result in a terminal UI
	metrics     bool // collect Prometheus metrics and print a summary
	verify      bool // validate the partition against the oracle after every step
}

func (c *CLI) simulateCommand() *cobra.Command {
	var opts simulateOpts

	cmd := &cobra.Command{
		Use:   "simulate [file]",
		Short: "Play a scenario and print the partition after every step",
		Long: `Play a scenario file (.toml, .yaml or .hcl) against the partition engine.

The partition is printed after every step. Expectation steps fail the run
when the partition differs from what they describe.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "step through the result interactively")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "print a metrics summary after the run")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "validate the partition after every step")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, w io.Writer, path string, opts simulateOpts) error {
	sc, err := scenario.Load(path)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	logger := loggerFromContext(ctx).With("run", runID[:8])
	logger.Infof("Simulating %s (%d steps)", sc.Name, len(sc.Steps))

	runOpts := []scenario.RunnerOption{
		scenario.WithLogger(logger),
		scenario.WithVerify(opts.verify),
	}
	var reg *prometheus.Registry
	if opts.metrics {
		reg = prometheus.NewRegistry()
		hooks := observability.NewPrometheusHooks(reg)
		runOpts = append(runOpts,
			scenario.WithRunHooks(hooks),
			scenario.WithGridOptions(grid.WithHooks(hooks)))
	}

	prog := newProgress(logger)
	res, runErr := scenario.NewRunner(runOpts...).Run(ctx, sc)
	if res == nil || errors.Is(runErr, context.Canceled) {
		return runErr
	}

	switch {
	case opts.json:
		err = writeResultJSON(w, runID, res)
	case opts.interactive:
		err = runStepper(res)
	default:
		printRun(w, res)
	}
	if err != nil {
		return err
	}
	if reg != nil && !opts.json {
		if err := printMetrics(w, reg); err != nil {
			return err
		}
	}
	if runErr != nil {
		return runErr
	}

	prog.done("Simulated", "scenario", sc.Name, "steps", len(res.Steps))
	return nil
}

// writeResultJSON writes the run result tagged with its run ID.
func writeResultJSON(w io.Writer, runID string, res *scenario.Result) error {
	out := struct {
		RunID string `json:"run_id"`
		*scenario.Result
	}{runID, res}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// printRun prints the initial partition and every step with the networks it
// touched highlighted.
func printRun(w io.Writer, res *scenario.Result) {
	fmt.Fprintln(w, StyleTitle.Render(res.Scenario))
	fmt.Fprintln(w, networkTable(res.Initial, nil))

	prev := res.Initial
	for _, s := range res.Steps {
		label := fmt.Sprintf("%s %s", StyleDim.Render(fmt.Sprintf("%3d", s.Index)), s.Step)
		switch {
		case s.Err != nil:
			fmt.Fprintln(w, styleIconError.Render(iconError)+" "+label)
			fmt.Fprintln(w, "  "+StyleWarning.Render(s.Error))
		case s.Step.Op == scenario.OpExpect:
			fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+label)
		default:
			fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+label)
			fmt.Fprintln(w, networkTable(s.Snapshot, changedNetworks(prev, s.Snapshot)))
		}
		prev = s.Snapshot
	}

	st := res.Stats
	fmt.Fprintln(w)
	fmt.Fprintln(w, StyleDim.Render(strings.Join([]string{
		fmt.Sprintf("%d networks", len(prev.Networks)),
		fmt.Sprintf("%d merges", st.Merges),
		fmt.Sprintf("%d rebuilds", st.Rebuilds),
		fmt.Sprintf("%d nodes moved", st.NodesMoved),
		res.Duration.String(),
	}, " · ")))
}

// printMetrics prints every gathered metric family summed over its labels.
// Histograms contribute their sample count.
func printMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(families))
	for _, mf := range families {
		var total float64
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
		rows = append(rows, []string{mf.GetName(), strconv.FormatFloat(total, 'f', -1, 64)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Metric", "Value").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleTableHeader
			case col == 1:
				return StyleNumber.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})
	fmt.Fprintln(w, t.Render())
	return nil
}
