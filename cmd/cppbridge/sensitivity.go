package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/output"
)

type sensitivityOptions struct {
	params []string
	min    string
	max    string
	steps  int
	format string
}

func sensitivityCmd(global *globalOptions) *cobra.Command {
	scenario := &scenarioOptions{}
	opts := &sensitivityOptions{}

	cmd := &cobra.Command{
		Use:   "sensitivity [input-file]",
		Short: "Sweep an assumption and watch the decision move",
		Long: `Re-evaluate a scenario across a range of one assumption and report how
the bridge cost, breakeven age, odds and recommendation respond.

Sweepable parameters: real_rate, wage_growth, current_age, savings.

Examples:
  # Default range for the real rate of return
  cppbridge sensitivity scenario.yaml --param real_rate

  # Custom range
  cppbridge sensitivity scenario.yaml --param real_rate --min 0 --max 0.04 --steps 9

  # Several parameters at once (name:min-max:steps)
  cppbridge sensitivity scenario.yaml --param real_rate:0-0.04:5 --param savings:50000-150000:3

  # Every parameter over its default range
  cppbridge sensitivity scenario.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch output.NormalizeFormatName(opts.format) {
			case "console", "csv", "json":
			default:
				return fmt.Errorf("unknown format %q (expected console, csv or json)", opts.format)
			}
			formatter := output.NewSensitivityFormatter(opts.format)

			a, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			s, err := scenario.first(cmd, args)
			if err != nil {
				return err
			}
			params, err := opts.parameters(cmd, s.Input)
			if err != nil {
				return err
			}

			analyses, err := calculation.NewSensitivityAnalyzer(a.engine).AnalyzeMultipleParameters(cmd.Context(), s.Input, params)
			if err != nil {
				return err
			}
			for _, analysis := range analyses {
				text, err := formatter.FormatSensitivityAnalysis(analysis)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
			}
			return nil
		},
	}

	scenario.register(cmd)
	f := cmd.Flags()
	f.StringSliceVar(&opts.params, "param", nil, "Parameter to sweep: name, or name:min-max:steps")
	f.StringVar(&opts.min, "min", "", "Range start for a single --param")
	f.StringVar(&opts.max, "max", "", "Range end for a single --param")
	f.IntVar(&opts.steps, "steps", 0, "Number of points for a single --param")
	f.StringVarP(&opts.format, "format", "f", "console", "Output format (console, csv, json)")
	return cmd
}

// parameters resolves the sweep definitions, taking each base value from the
// scenario being analysed
func (o *sensitivityOptions) parameters(cmd *cobra.Command, in domain.ScenarioInput) ([]domain.SensitivityParameter, error) {
	flags := cmd.Flags()
	rangeFlags := flags.Changed("min") || flags.Changed("max") || flags.Changed("steps")

	var params []domain.SensitivityParameter
	switch {
	case len(o.params) == 0:
		if rangeFlags {
			return nil, fmt.Errorf("--min, --max and --steps need a --param")
		}
		params = domain.GetCommonParameters()
	default:
		if rangeFlags && len(o.params) > 1 {
			return nil, fmt.Errorf("--min, --max and --steps apply to a single --param")
		}
		for _, spec := range o.params {
			p, err := parseParameterString(spec)
			if err != nil {
				return nil, err
			}
			params = append(params, p)
		}
	}

	if rangeFlags {
		p := &params[0]
		if flags.Changed("min") {
			v, err := parseDecimal(o.min)
			if err != nil {
				return nil, fmt.Errorf("invalid --min: %w", err)
			}
			p.MinValue = v
		}
		if flags.Changed("max") {
			v, err := parseDecimal(o.max)
			if err != nil {
				return nil, fmt.Errorf("invalid --max: %w", err)
			}
			p.MaxValue = v
		}
		if flags.Changed("steps") {
			p.Steps = o.steps
		}
	}

	for i := range params {
		if v, ok := in.ParameterValue(params[i].Name); ok {
			params[i].BaseValue = v
		}
	}
	return params, nil
}

// parseParameterString accepts "name" or "name:min-max:steps"
func parseParameterString(spec string) (domain.SensitivityParameter, error) {
	parts := strings.Split(spec, ":")
	param, ok := domain.LookupParameter(parts[0])
	if !ok {
		names := make([]string, 0, 4)
		for _, p := range domain.GetCommonParameters() {
			names = append(names, p.Name)
		}
		return param, fmt.Errorf("unknown parameter %q (expected one of %s)", parts[0], strings.Join(names, ", "))
	}
	if len(parts) == 1 {
		return param, nil
	}
	if len(parts) != 3 {
		return param, fmt.Errorf("invalid parameter format: %s (expected name:min-max:steps)", spec)
	}

	minMax := strings.Split(parts[1], "-")
	if len(minMax) != 2 {
		return param, fmt.Errorf("invalid range format: %s (expected min-max)", parts[1])
	}
	minValue, err := parseDecimal(minMax[0])
	if err != nil {
		return param, fmt.Errorf("invalid min value: %w", err)
	}
	maxValue, err := parseDecimal(minMax[1])
	if err != nil {
		return param, fmt.Errorf("invalid max value: %w", err)
	}
	steps, err := strconv.Atoi(parts[2])
	if err != nil {
		return param, fmt.Errorf("invalid steps value: %w", err)
	}

	param.MinValue = minValue
	param.MaxValue = maxValue
	param.Steps = steps
	return param, nil
}

func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
