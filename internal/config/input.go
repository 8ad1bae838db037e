package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rgehrsitz/cppbridge/internal/domain"
	"gopkg.in/yaml.v3"
)

// NamedScenario is one validated input with a display name
type NamedScenario struct {
	Name  string
	Input domain.ScenarioInput
}

type namedRequest struct {
	Name                      string `yaml:"name"`
	domain.CalculationRequest `yaml:",inline"`
}

// scenarioFile accepts either a single scenario at the top level or a list
// under "scenarios"
type scenarioFile struct {
	Scenarios    []namedRequest `yaml:"scenarios"`
	namedRequest `yaml:",inline"`
}

// InputParser handles parsing of scenario files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads every scenario in a YAML file
func (ip *InputParser) LoadFromFile(filename string) ([]NamedScenario, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// LoadScenario loads a file that must hold exactly one scenario
func (ip *InputParser) LoadScenario(filename string) (domain.ScenarioInput, error) {
	scenarios, err := ip.LoadFromFile(filename)
	if err != nil {
		return domain.ScenarioInput{}, err
	}
	if len(scenarios) != 1 {
		return domain.ScenarioInput{}, fmt.Errorf("%s holds %d scenarios, expected exactly one", filename, len(scenarios))
	}
	return scenarios[0].Input, nil
}

// Parse decodes YAML scenario data, applies defaults and validates each
// scenario. Unknown keys are rejected.
func (ip *InputParser) Parse(data []byte) ([]NamedScenario, error) {
	var file scenarioFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("no scenarios provided")
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	requests := file.Scenarios
	if len(requests) == 0 {
		requests = []namedRequest{file.namedRequest}
	}

	scenarios := make([]NamedScenario, 0, len(requests))
	for i, req := range requests {
		name := req.Name
		if name == "" {
			name = fmt.Sprintf("scenario %d", i+1)
		}
		in, err := ip.ValidateRequest(req.CalculationRequest)
		if err != nil {
			return nil, fmt.Errorf("%s validation failed: %w", name, err)
		}
		scenarios = append(scenarios, NamedScenario{Name: name, Input: in})
	}
	return scenarios, nil
}

// ValidateRequest converts a request into a validated input
func (ip *InputParser) ValidateRequest(req domain.CalculationRequest) (domain.ScenarioInput, error) {
	in, err := req.ToInput()
	if err != nil {
		return in, err
	}
	if err := in.Validate(); err != nil {
		return in, err
	}
	return in, nil
}
