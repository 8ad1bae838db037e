package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/rgehrsitz/cppbridge/internal/config"
	"github.com/rgehrsitz/cppbridge/internal/domain"
)

// scenarioOptions are the per-field overrides shared by every command that
// evaluates a scenario
type scenarioOptions struct {
	age        int
	benefit    float64
	savings    float64
	gender     string
	health     string
	realRate   float64
	wageGrowth float64
	inflation  float64
	discount   bool
	name       string
}

func (o *scenarioOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.IntVar(&o.age, "age", 0, "Current age (30-75)")
	f.Float64Var(&o.benefit, "benefit", 0, "Estimated monthly CPP benefit at 65")
	f.Float64Var(&o.savings, "savings", 0, "RRSP savings available for the bridge")
	f.StringVar(&o.gender, "gender", "", "male or female")
	f.StringVar(&o.health, "health", "", "excellent, average or poor")
	f.Float64Var(&o.realRate, "real-rate", 0, "Real annual rate of return, e.g. 0.01")
	f.Float64Var(&o.wageGrowth, "wage-growth", 0, "Annual wage growth indexing the benefit, e.g. 0.011")
	f.Float64Var(&o.inflation, "inflation", 0, "Inflation rate (reported only)")
	f.BoolVar(&o.discount, "discount-pre-retirement", true, "Weigh the chance of dying before 65")
	f.StringVar(&o.name, "scenario", "", "Only use the named scenario from the file")
}

// load reads the scenario file, or builds one scenario from flags, and
// applies every override that was set
func (o *scenarioOptions) load(cmd *cobra.Command, args []string) ([]config.NamedScenario, error) {
	flags := cmd.Flags()

	var scenarios []config.NamedScenario
	if len(args) > 0 {
		loaded, err := config.NewInputParser().LoadFromFile(args[0])
		if err != nil {
			return nil, err
		}
		scenarios = loaded
	} else {
		if !flags.Changed("age") || !flags.Changed("benefit") || !flags.Changed("savings") {
			return nil, errors.New("provide a scenario file or all of --age, --benefit and --savings")
		}
		scenarios = []config.NamedScenario{{Name: "command line", Input: domain.DefaultScenarioInput()}}
	}

	if o.name != "" {
		var picked []config.NamedScenario
		for _, s := range scenarios {
			if s.Name == o.name {
				picked = append(picked, s)
			}
		}
		if len(picked) == 0 {
			return nil, fmt.Errorf("scenario %q not found", o.name)
		}
		scenarios = picked
	}

	for i := range scenarios {
		if err := o.apply(flags, &scenarios[i].Input); err != nil {
			return nil, err
		}
		if err := scenarios[i].Input.Validate(); err != nil {
			return nil, fmt.Errorf("%s validation failed: %w", scenarios[i].Name, err)
		}
	}
	return scenarios, nil
}

// first loads scenarios and returns the first one, for commands that analyse
// a single input
func (o *scenarioOptions) first(cmd *cobra.Command, args []string) (config.NamedScenario, error) {
	scenarios, err := o.load(cmd, args)
	if err != nil {
		return config.NamedScenario{}, err
	}
	return scenarios[0], nil
}

func (o *scenarioOptions) apply(flags *pflag.FlagSet, in *domain.ScenarioInput) error {
	if flags.Changed("age") {
		in.CurrentAge = o.age
	}
	if flags.Changed("benefit") {
		in.BenefitAt65 = decimal.NewFromFloat(o.benefit)
	}
	if flags.Changed("savings") {
		in.Savings = decimal.NewFromFloat(o.savings)
	}
	if flags.Changed("gender") {
		sex, err := domain.ParseSex(o.gender)
		if err != nil {
			return err
		}
		in.Sex = sex
	}
	if flags.Changed("health") {
		health, err := domain.ParseHealthRating(o.health)
		if err != nil {
			return err
		}
		in.Health = health
	}
	if flags.Changed("real-rate") {
		in.RealRateOfReturn = decimal.NewFromFloat(o.realRate)
	}
	if flags.Changed("wage-growth") {
		in.WageGrowth = decimal.NewFromFloat(o.wageGrowth)
	}
	if flags.Changed("inflation") {
		in.InflationRate = decimal.NewFromFloat(o.inflation)
	}
	if flags.Changed("discount-pre-retirement") {
		in.DiscountPreRetirementMortality = o.discount
	}
	return nil
}
