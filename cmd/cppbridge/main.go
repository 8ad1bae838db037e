package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/cppbridge/internal/calculation"
	"github.com/rgehrsitz/cppbridge/internal/config"
	"github.com/rgehrsitz/cppbridge/internal/domain"
	"github.com/rgehrsitz/cppbridge/internal/logging"
	"github.com/rgehrsitz/cppbridge/internal/mortality"
	"github.com/rgehrsitz/cppbridge/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the persistent flags every command shares
type globalOptions struct {
	configFile      string
	mortalityFile   string
	mortalitySource string
	policy          string
	logLevel        string
	logFormat       string
	debug           bool
}

// app is what a command needs once settings are resolved
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	table    *mortality.Table
	engine   *calculation.CalculationEngine
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "cppbridge",
		Short: "CPP bridge calculator: take the pension at 65 or bridge to 70",
		Long: `Estimate whether spending RRSP savings as a bridge from 65 to 70, and
claiming a CPP pension 42% larger at 70, beats claiming at 65.

The calculator prices the bridge, finds the age past which delaying pays off,
and weighs that against your survival odds.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configFile, "config", "", "Settings file (default: ./cppbridge.yaml or ~/.config/cppbridge/cppbridge.yaml)")
	pf.StringVar(&opts.mortalityFile, "mortality-file", "", "Mortality table CSV (Age,Male-qx,Female-qx)")
	pf.StringVar(&opts.mortalitySource, "mortality-source", "", "Mortality source: table or gompertz")
	pf.StringVar(&opts.policy, "policy", "", "Recommendation policy: binary or tiered")
	pf.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	pf.BoolVar(&opts.debug, "debug", false, "Log every intermediate value of the calculation")

	root.AddCommand(
		calculateCmd(opts),
		validateCmd(),
		breakevenCmd(opts),
		projectionCmd(opts),
		sensitivityCmd(opts),
		solveCmd(opts),
		compareCmd(opts),
		healthCmd(opts),
		lifeExpectancyCmd(opts),
		mortalityCmd(opts),
		serveCmd(opts),
		versionCmd(),
	)
	return root
}

// setup resolves settings, applies flag overrides and builds the engine
func (o *globalOptions) setup(cmd *cobra.Command) (*app, error) {
	settings, err := config.SettingsLoader{ConfigFile: o.configFile, EnvFile: ".env"}.Load()
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("mortality-file") {
		settings.Mortality.File = o.mortalityFile
	}
	if flags.Changed("mortality-source") {
		settings.Mortality.Source = o.mortalitySource
	}
	if flags.Changed("policy") {
		settings.Recommendation.Policy = o.policy
	}
	if flags.Changed("log-level") {
		settings.Log.Level = o.logLevel
	}
	if flags.Changed("log-format") {
		settings.Log.Format = o.logFormat
	}
	if o.debug {
		settings.Log.Level = "debug"
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(settings.Log.Level, settings.Log.Format)
	if err != nil {
		return nil, err
	}

	table, err := mortality.Open(settings.Mortality.Source, settings.Mortality.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load mortality table: %w", err)
	}
	policy, err := calculation.PolicyByName(settings.Recommendation.Policy)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewCalculationEngineWithModel(mortality.NewModel(table), policy)
	engine.SetLogger(logger.Sugar())
	engine.Debug = o.debug

	logger.Debug("engine ready",
		zap.String("mortality", table.Source()),
		zap.String("policy", policy.Name()))
	return &app{settings: settings, logger: logger, table: table, engine: engine}, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cppbridge %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.GoVersion
	}
	return ""
}

func calculateCmd(global *globalOptions) *cobra.Command {
	scenario := &scenarioOptions{}
	var format string
	var save bool

	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Evaluate the bridge decision for one or more scenarios",
		Long: `Evaluate every scenario in a YAML file, or a single scenario described
by flags. Flags given alongside a file override that field in every scenario.

Examples:
  cppbridge calculate scenario.yaml
  cppbridge calculate --age 60 --benefit 1000 --savings 100000 --health poor
  cppbridge calculate scenarios.yaml --real-rate 0.03 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := output.GetFormatterByName(format)
			if formatter == nil {
				return fmt.Errorf("unknown format %q (available: %s)", format,
					strings.Join(output.AvailableFormatterNames(), ", "))
			}

			a, err := global.setup(cmd)
			if err != nil {
				return err
			}
			defer a.logger.Sync()

			scenarios, err := scenario.load(cmd, args)
			if err != nil {
				return err
			}

			report := &domain.ScenarioReport{MortalitySource: a.table.Source()}
			for _, s := range scenarios {
				out, err := a.engine.Evaluate(cmd.Context(), s.Input)
				if err != nil {
					return fmt.Errorf("scenario %s: %w", s.Name, err)
				}
				report.Results = append(report.Results, domain.ScenarioResult{Name: s.Name, Input: s.Input, Output: *out})
				a.logger.Info("scenario evaluated",
					zap.String("scenario", s.Name),
					zap.String("recommendation", out.Recommendation),
					zap.Int("breakeven_age", out.BreakevenAgeEconomic))
			}
			report.Assumptions = output.AssumptionsFor(scenarios[0].Input, a.table.Source())

			if save {
				path, err := output.WriteFormatted(formatter, report, fileExtension(formatter.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}

			data, err := formatter.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	scenario.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "console",
		"Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	cmd.Flags().BoolVar(&save, "save", false, "Write the report to a timestamped file instead of stdout")
	return cmd
}

func fileExtension(formatterName string) string {
	switch formatterName {
	case "console", "console-lite":
		return "txt"
	default:
		return formatterName
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scenario file %s is valid (%d scenario(s))\n", args[0], len(scenarios))
			return nil
		},
	}
}
