package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rgehrsitz/cppbridge/internal/compare"
	"github.com/rgehrsitz/cppbridge/internal/config"
	"github.com/rgehrsitz/cppbridge/internal/output"
	"github.com/rgehrsitz/cppbridge/internal/transform"
)

func compareCmd(global *globalOptions) *cobra.Command {
	scenario := &scenarioOptions{}
	var (
		base       string
		with       []string
		templates  []string
		transforms []string
		format     string
		listOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "compare [input-file]",
		Short: "Compare a base scenario against alternatives",
		Long: `Evaluate a base scenario and a set of alternatives side by side, with
each alternative's change in bridge cost, breakeven age, odds and expected gain.

Alternatives come from other scenarios in the file (--with), built-in what-if
templates (--template) or ad-hoc transforms (--transform name:key=value,...).
With none of these, every other scenario in the file is compared.

Examples:
  cppbridge compare scenarios.yaml --base "Early saver"
  cppbridge compare scenario.yaml --template poor_health,zero_return
  cppbridge compare scenario.yaml --transform set_real_rate:rate=0.03 --transform set_sex:sex=female
  cppbridge compare --list-templates`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if listOnly {
				return listTemplates(cmd)
			}

			var formatter func(*compare.ComparisonSet) (string, error)
			switch output.NormalizeFormatName(format) {
			case "console":
				formatter = func(s *compare.ComparisonSet) (string, error) {
					return (&compare.TableFormatter{}).Format(s), nil
				}
			case "compact":
				formatter = func(s *compare.ComparisonSet) (string, error) {
					return (&compare.TableFormatter{}).FormatCompact(s) + "\n", nil
				}
			case "csv":
				formatter = (&compare.CSVFormatter{}).Format
			case "json":
				formatter = (&compare.JSONFormatter{Pretty: true}).Format
			default:
				return fmt.Errorf("unknown format %q (expected console, compact, csv or json)", format)
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
			baseScenario := scenarios[0]
			if base != "" {
				found := false
				for _, s := range scenarios {
					if s.Name == base {
						baseScenario, found = s, true
						break
					}
				}
				if !found {
					return fmt.Errorf("base scenario %q not found (available: %s)", base, scenarioNames(scenarios))
				}
			}

			ce := compare.NewCompareEngine(a.engine)
			names, err := registerTransforms(ce.TemplateRegistry, transforms)
			if err != nil {
				return err
			}
			templates = append(templates, names...)

			var set *compare.ComparisonSet
			if len(templates) > 0 {
				if len(with) > 0 {
					return fmt.Errorf("--with cannot be combined with --template or --transform")
				}
				set, err = ce.Compare(cmd.Context(), baseScenario, templates)
			} else {
				if len(scenarios) < 2 {
					return fmt.Errorf("nothing to compare: give --with, --template or --transform, or a file with several scenarios")
				}
				set, err = ce.CompareScenarios(cmd.Context(), scenarios, baseScenario.Name, with)
			}
			if err != nil {
				return err
			}
			set.MortalitySource = a.table.Source()

			a.logger.Info("comparison complete",
				zap.String("base", set.BaseScenarioName),
				zap.Int("alternatives", len(set.AlternativeResults)))

			text, err := formatter(set)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}

	scenario.register(cmd)
	f := cmd.Flags()
	f.StringVar(&base, "base", "", "Base scenario name (default: first in file)")
	f.StringSliceVar(&with, "with", nil, "Scenarios from the file to compare against the base")
	f.StringSliceVar(&templates, "template", nil, "Built-in what-if templates to apply to the base")
	f.StringArrayVar(&transforms, "transform", nil, "Ad-hoc transform, e.g. set_health:health=poor (repeatable)")
	f.StringVarP(&format, "format", "f", "console", "Output format (console, compact, csv, json)")
	f.BoolVar(&listOnly, "list-templates", false, "List the built-in templates and transforms and exit")
	return cmd
}

// registerTransforms turns each ad-hoc transform spec into a one-step
// template named after the spec
func registerTransforms(registry *transform.TemplateRegistry, specs []string) ([]string, error) {
	transforms := transform.NewTransformRegistry()
	names := make([]string, 0, len(specs))
	for _, spec := range specs {
		t, err := transforms.ParseTransformSpec(spec)
		if err != nil {
			return nil, err
		}
		registry.Register(transform.Template{
			Name:        spec,
			Description: t.Description(),
			Transforms:  []transform.ScenarioTransform{t},
		})
		names = append(names, spec)
	}
	return names, nil
}

func listTemplates(cmd *cobra.Command) error {
	w := cmd.OutOrStdout()
	templates := transform.CreateBuiltInTemplates()

	fmt.Fprintln(w, "TEMPLATES")
	for _, name := range templates.List() {
		t, _ := templates.Get(name)
		fmt.Fprintf(w, "  %-18s %s\n", name, t.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "TRANSFORMS")
	fmt.Fprintf(w, "  %s\n", strings.Join(transform.NewTransformRegistry().List(), ", "))
	return nil
}

func scenarioNames(scenarios []config.NamedScenario) string {
	names := make([]string, len(scenarios))
	for i, s := range scenarios {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
