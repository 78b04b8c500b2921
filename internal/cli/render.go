package cli

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridnet/pkg/cache"
	errs "github.com/matzehuels/gridnet/pkg/errors"
	"github.com/matzehuels/gridnet/pkg/render/nodelink"
	"github.com/matzehuels/gridnet/pkg/scenario"
)

const (
	formatSVG = "svg"
	formatDOT = "dot"

	// stepLast renders the partition after the final step.
	stepLast = -1
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path, "-" for stdout
	format   string // "svg" or "dot"
	step     int    // render after this step; 0 is the initial partition
	detailed bool   // label nodes with their network and kind
	noCache  bool   // bypass the artifact cache
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{step: stepLast}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render the partition of a scenario as SVG or DOT",
		Long: `Render the partition of a scenario after a given step.

Every network is drawn as a colored cluster. Inactive nodes are dashed,
open switches dotted. SVG output is produced with Graphviz and cached by
the hash of the DOT source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				opts.format = c.Config.Render.Format
			}
			if !cmd.Flags().Changed("detailed") {
				opts.detailed = c.Config.Render.Detailed
			}
			if err := validateFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: input name with format extension, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg, dot")
	cmd.Flags().IntVar(&opts.step, "step", opts.step, "render after this step (0 for the initial partition, default last)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label nodes with network and kind")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

// validateFormat checks that the format is svg or dot.
func validateFormat(f string) error {
	if f != formatSVG && f != formatDOT {
		return errs.New(errs.ErrCodeInvalidFormat, "invalid format: %s (must be 'svg' or 'dot')", f)
	}
	return nil
}

// outputPath derives the output file from the input when none is given.
func outputPath(output, input, format string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	sc, err := scenario.Load(input)
	if err != nil {
		return err
	}
	st, err := stateAt(ctx, sc, opts.step, logger)
	if err != nil {
		return err
	}
	snap := st.Manager.Snapshot()
	logger.Debugf("Partition after step %d: %s", st.Applied(), snap)

	dot := nodelink.ToDOT(st.Graph, snap, nodelink.Options{Detailed: opts.detailed, Title: sc.Name})
	data, cached, err := c.renderArtifact(ctx, dot, opts)
	if err != nil {
		return err
	}

	path := outputPath(opts.output, input, opts.format)
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := out.Write(data); err != nil {
		return err
	}

	if path != "-" {
		printSuccess("Rendered %s after step %d", sc.Name, st.Applied())
		printStats(len(st.Manager.ActiveNodes()), len(snap.Networks), cached)
		printFile(path)
	}
	return nil
}

// stateAt plays sc up to step and returns the state. A step that fails an
// expectation still yields the partition it left behind.
func stateAt(ctx context.Context, sc *scenario.Scenario, step int, logger *log.Logger) (*scenario.State, error) {
	switch {
	case step == 0:
		return scenario.NewState(sc)
	case step > len(sc.Steps) || step < stepLast:
		return nil, errs.New(errs.ErrCodeInvalidInput, "step %d out of range (scenario has %d steps)", step, len(sc.Steps))
	}

	runOpts := []scenario.RunnerOption{scenario.WithLogger(logger)}
	if step > 0 {
		runOpts = append(runOpts, scenario.WithStopAfter(step))
	}
	res, err := scenario.NewRunner(runOpts...).Run(ctx, sc)
	switch {
	case err == nil:
		return res.State, nil
	case res != nil && errs.Is(err, errs.ErrCodeExpectationFailed):
		logger.Warn("rendering partition of a failed expectation", "err", errs.UserMessage(err))
		return res.State, nil
	default:
		return nil, err
	}
}

// renderArtifact turns DOT into the requested format. SVG output goes
// through the artifact cache, keyed by the DOT source.
func (c *CLI) renderArtifact(ctx context.Context, dot string, opts renderOpts) (data []byte, cached bool, err error) {
	if opts.format == formatDOT {
		return []byte(dot), false, nil
	}
	logger := loggerFromContext(ctx)

	store, keyer, err := c.newCache(ctx, opts.noCache)
	if err != nil {
		return nil, false, err
	}
	defer store.Close()

	key := keyer.ArtifactKey(cache.Hash([]byte(dot)), cache.ArtifactKeyOpts{Format: opts.format, Detailed: opts.detailed})
	if data, hit, err := store.Get(ctx, key); err != nil {
		logger.Warn("cache read failed", "err", err)
	} else if hit {
		logger.Debug("cache hit", "key", key)
		return data, true, nil
	}

	spin := newSpinnerWithContext(ctx, "Rendering SVG with Graphviz...")
	spin.Start()
	data, err = nodelink.RenderSVG(ctx, dot)
	spin.Stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, false, err
		}
		return nil, false, errs.Wrap(errs.ErrCodeRender, err, "render svg")
	}
	logger.Debugf("Generated svg: %d bytes", len(data))

	if err := store.Set(ctx, key, data, c.Config.Cache.TTL.Duration); err != nil {
		logger.Warn("cache write failed", "err", err)
	}
	return data, false, nil
}
