package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/output"
)

// analysisCmd builds a command that loads one scenario, runs one analysis
// and prints it in the requested format
func analysisCmd(global *globalOptions, use, short, long string,
	run func(cmd *cobra.Command, a *app, in domain.ScenarioInput, format string) ([]byte, error),
) *cobra.Command {
	scenario := &scenarioOptions{}
	var format string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			s, err := scenario.first(cmd, args)
			if err != nil {
				return err
			}
			data, err := run(cmd, a, s.Input, format)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	scenario.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console", "Output format (console, csv, json, yaml)")
	return cmd
}

func breakevenCmd(global *globalOptions) *cobra.Command {
	return analysisCmd(global,
		"breakeven [input-file]",
		"Tabulate both income streams and find the breakeven ages",
		`Value the early and delayed income streams at 65 for every age from 66
to 105, and report the first age at which delaying is ahead both in present
value and in undiscounted dollars.`,
		func(cmd *cobra.Command, a *app, in domain.ScenarioInput, format string) ([]byte, error) {
			analysis, err := a.engine.AnalyzeBreakeven(cmd.Context(), in)
			if err != nil {
				return nil, err
			}
			return output.FormatBreakevenAnalysis(analysis, format)
		})
}

func projectionCmd(global *globalOptions) *cobra.Command {
	return analysisCmd(global,
		"projection [input-file]",
		"Print the month-by-month survival-weighted cash flows",
		`List every month from today to age 115 with the survival weight, discount
factor and present value of both claiming choices. The PV columns sum to the
expected present values reported by calculate.`,
		func(cmd *cobra.Command, a *app, in domain.ScenarioInput, format string) ([]byte, error) {
			proj, err := a.engine.Project(cmd.Context(), in)
			if err != nil {
				return nil, err
			}
			return output.FormatProjection(proj, format)
		})
}

func healthCmd(global *globalOptions) *cobra.Command {
	return analysisCmd(global,
		"health [input-file]",
		"Compare the decision under excellent, average and poor health",
		"",
		func(cmd *cobra.Command, a *app, in domain.ScenarioInput, format string) ([]byte, error) {
			cmp, err := a.engine.EvaluateAllHealth(cmd.Context(), in)
			if err != nil {
				return nil, err
			}
			return output.FormatHealthComparison(cmp, format)
		})
}

func lifeExpectancyCmd(global *globalOptions) *cobra.Command {
	var (
		age    int
		gender string
		health string
		format string
	)

	cmd := &cobra.Command{
		Use:   "life-expectancy",
		Short: "Show life expectancy and the survival curve for one person",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sex, err := domain.ParseSex(gender)
			if err != nil {
				return err
			}
			rating, err := domain.ParseHealthRating(health)
			if err != nil {
				return err
			}
			if age < domain.MinCurrentAge || age > domain.MaxCurrentAge {
				return fmt.Errorf("--age must be between %d and %d, got %d", domain.MinCurrentAge, domain.MaxCurrentAge, age)
			}

			a, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			model := a.engine.Model
			le, err := model.LifeExpectancy(age, sex, rating)
			if err != nil {
				return err
			}
			curve, err := model.SurvivalCurve(age, age, domain.MaxAge, sex, rating)
			if err != nil {
				return err
			}

			report := &output.SurvivalReport{CurrentAge: age, Sex: sex, Health: rating, LifeExpectancy: le}
			for i, p := range curve {
				report.Curve = append(report.Curve, domain.SurvivalPoint{
					Age:         age + i,
					Probability: decimal.NewFromFloat(p).Round(6),
				})
			}

			data, err := output.FormatSurvivalReport(report, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&age, "age", 0, "Current age (30-75)")
	f.StringVar(&gender, "gender", string(domain.Male), "male or female")
	f.StringVar(&health, "health", string(domain.HealthAverage), "excellent, average or poor")
	f.StringVarP(&format, "format", "f", "console", "Output format (console, csv, json, yaml)")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func mortalityCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mortality",
		Short: "Print the active mortality table as CSV",
		Long: `Print the mortality table the calculator would use with the current
settings: the embedded table, a --mortality-file, or the Gompertz curve fitted
to the embedded table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()
			return a.table.WriteCSV(cmd.OutOrStdout())
		},
	}
}
