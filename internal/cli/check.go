package cli

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridnet/pkg/scenario"
)

// checkOpts holds the flags of the check command. Unset flags take their
// values from the [check] section of the config.
type checkOpts struct {
	seed   uint64
	params scenario.Params
	rounds int
	save   string // where to write a failing scenario
}

func (c *CLI) checkCommand() *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check the partition engine against a components oracle",
		Long: `Play random scenarios and validate the partition after every step.

Each round generates a graph from its own seed and applies random
activations, deactivations, rewiring and switch toggles. After every step
the partition is validated and compared with the connected components
computed from scratch. The first diverging scenario is saved for replay.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			cfg := c.Config.Check
			if !flags.Changed("nodes") {
				opts.params.Nodes = cfg.Nodes
			}
			if !flags.Changed("kinds") {
				opts.params.Kinds = cfg.Kinds
			}
			if !flags.Changed("steps") {
				opts.params.Steps = cfg.Steps
			}
			if !flags.Changed("edge-probability") {
				opts.params.EdgeProbability = cfg.EdgeProbability
			}
			if !flags.Changed("rounds") {
				opts.rounds = cfg.Rounds
			}
			if !flags.Changed("seed") {
				opts.seed = rand.Uint64()
			}
			return c.runCheck(cmd.Context(), opts)
		},
	}

	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed of the first round (default random)")
	cmd.Flags().IntVar(&opts.params.Nodes, "nodes", 0, "nodes per graph (default from config)")
	cmd.Flags().IntVar(&opts.params.Kinds, "kinds", 0, "node kinds per graph (default from config)")
	cmd.Flags().IntVar(&opts.params.Steps, "steps", 0, "steps per round (default from config)")
	cmd.Flags().Float64Var(&opts.params.EdgeProbability, "edge-probability", 0, "probability of an edge between two nodes (default from config)")
	cmd.Flags().IntVar(&opts.rounds, "rounds", 0, "number of rounds (default from config)")
	cmd.Flags().StringVar(&opts.save, "save", "", "file for a failing scenario (default gridnet-check-SEED.yaml)")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, opts checkOpts) error {
	runID := uuid.NewString()
	logger := loggerFromContext(ctx).With("run", runID[:8])
	logger.Infof("Checking %d rounds from seed %d", opts.rounds, opts.seed)

	prog := newProgress(logger)
	runner := scenario.NewRunner(scenario.WithLogger(logger), scenario.WithVerify(true))
	steps := 0
	for round := range opts.rounds {
		seed := opts.seed + uint64(round)
		sc := scenario.Random(seed, opts.params)

		res, err := runner.Run(ctx, sc)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return c.reportDivergence(sc, res, seed, opts.save, err)
		}
		steps += len(res.Steps)
		logger.Debug("round passed", "round", round+1, "seed", seed,
			"merges", res.Stats.Merges, "rebuilds", res.Stats.Rebuilds)
	}

	prog.done("Checked", "rounds", opts.rounds, "steps", steps)
	printSuccess("%d rounds, %d steps, no divergence", opts.rounds, steps)
	printDetail("seeds %d..%d", opts.seed, opts.seed+uint64(opts.rounds)-1)
	return nil
}

// reportDivergence saves the scenario up to the failing step and tells the
// user how to replay it.
func (c *CLI) reportDivergence(sc *scenario.Scenario, res *scenario.Result, seed uint64, path string, err error) error {
	var failed scenario.StepResult
	ok := false
	if res != nil {
		failed, ok = res.Failed()
	}
	if ok {
		sc.Steps = sc.Steps[:failed.Index]
		printError("seed %d diverged at step %d: %s", seed, failed.Index, failed.Step)
	} else {
		printError("seed %d failed: %v", seed, err)
	}

	if path == "" {
		path = fmt.Sprintf("%s-check-%d.yaml", appName, seed)
	}
	if saveErr := scenario.Save(path, sc); saveErr != nil {
		c.Logger.Warn("could not save failing scenario", "path", path, "err", saveErr)
		return err
	}
	printFile(path)
	printNextStep("Replay with", fmt.Sprintf("%s simulate --verify -v %s", appName, path))
	return err
}
