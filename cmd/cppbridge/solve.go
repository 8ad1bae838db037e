package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/cppbridge/internal/breakeven"
	"github.com/rgehrsitz/cppbridge/internal/domain"
)

func solveCmd(global *globalOptions) *cobra.Command {
	scenario := &scenarioOptions{}
	var (
		goal     string
		target   string
		minValue string
		maxValue string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "solve [input-file]",
		Short: "Find the assumption values at which the decision flips",
		Long: `Search each assumption for the value at which a goal starts or stops
holding, keeping everything else in the scenario fixed.

Goals:
  affordable        savings cover the bridge
  delay_pays        delaying has a non-negative expected lifetime gain
  recommend_delay   the recommendation policy says "Delay to 70"

Examples:
  # How much must be saved for the bridge?
  cppbridge solve scenario.yaml --goal affordable --target savings

  # Up to what real return does delaying still pay?
  cppbridge solve scenario.yaml --goal delay_pays --target real_rate --min 0 --max 0.15

  # Every assumption at once
  cppbridge solve scenario.yaml --goal recommend_delay`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := breakeven.ParseGoal(goal)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if target == "" && (flags.Changed("min") || flags.Changed("max")) {
				return fmt.Errorf("--min and --max need a --target")
			}

			a, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			s, err := scenario.first(cmd, args)
			if err != nil {
				return err
			}
			solver := breakeven.NewDefaultSolver(a.engine)

			var summary *breakeven.Summary
			if target == "" {
				summary, err = solver.SolveAll(cmd.Context(), s.Input, g)
				if err != nil {
					return err
				}
			} else {
				req := breakeven.Request{Base: s.Input, Target: target, Goal: g}
				if flags.Changed("min") {
					v, err := parseDecimal(minValue)
					if err != nil {
						return fmt.Errorf("invalid --min: %w", err)
					}
					req.Min = &v
				}
				if flags.Changed("max") {
					v, err := parseDecimal(maxValue)
					if err != nil {
						return fmt.Errorf("invalid --max: %w", err)
					}
					req.Max = &v
				}
				result, err := solver.Solve(cmd.Context(), req)
				if err != nil {
					return err
				}
				summary = &breakeven.Summary{Goal: g, Results: []breakeven.Result{*result}}
				summary.Recommendations = breakeven.Recommendations(summary)
			}

			for _, r := range summary.Results {
				a.logger.Debug("threshold solved",
					zap.String("target", r.Target),
					zap.Bool("success", r.Success),
					zap.String("threshold", r.Threshold.String()),
					zap.Int("iterations", r.Iterations))
			}

			data, err := breakeven.FormatSummary(summary, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	scenario.register(cmd)
	f := cmd.Flags()
	f.StringVar(&goal, "goal", string(breakeven.GoalRecommendDelay), "Goal: affordable, delay_pays or recommend_delay")
	f.StringVar(&target, "target", "", "Assumption to solve for: "+domain.ParamRealRate+", "+domain.ParamWageGrowth+", "+domain.ParamCurrentAge+" or "+domain.ParamSavings+" (default: all)")
	f.StringVar(&minValue, "min", "", "Search range start for --target")
	f.StringVar(&maxValue, "max", "", "Search range end for --target")
	f.StringVarP(&format, "format", "f", "console", "Output format (console, json, yaml)")
	return cmd
}
