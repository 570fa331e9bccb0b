package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/aquacharge/core/model"
)

// Block repeats one decision for a number of steps.
type Block struct {
	Decision model.Decision `yaml:"decision"`
	Steps    int            `yaml:"steps"`
}

// Expected holds the assertions checked after a scenario run. Nil fields
// are not checked.
type Expected struct {
	FinalSocKWh   *float64 `yaml:"final_soc_kwh,omitempty"`
	ChargedKWh    *float64 `yaml:"charged_kwh,omitempty"`
	DischargedKWh *float64 `yaml:"discharged_kwh,omitempty"`
	ClampedSteps  *int     `yaml:"clamped_steps,omitempty"`
}

// Scenario is a vessel plus a decision schedule.
type Scenario struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	StepMinutes int          `yaml:"step_minutes,omitempty"`
	Vessel      model.Vessel `yaml:"vessel"`
	// Decisions is an explicit per-step list. Schedule blocks are appended
	// after it.
	Decisions []model.Decision `yaml:"decisions,omitempty"`
	Schedule  []Block          `yaml:"schedule,omitempty"`
	Expected  Expected         `yaml:"expected,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scenario document.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the vessel and the schedule.
func (s *Scenario) Validate() error {
	if err := s.Vessel.Validate(); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if s.StepMinutes < 0 {
		return fmt.Errorf("scenario %s: step_minutes must not be negative", s.Name)
	}
	for i, b := range s.Schedule {
		if b.Steps <= 0 {
			return fmt.Errorf("scenario %s: schedule block %d needs a positive step count", s.Name, i)
		}
	}
	if len(s.DecisionList()) == 0 {
		return fmt.Errorf("scenario %s: no decisions", s.Name)
	}
	return nil
}

// DecisionList expands the scenario into one decision per step.
func (s *Scenario) DecisionList() []model.Decision {
	out := append([]model.Decision(nil), s.Decisions...)
	for _, b := range s.Schedule {
		for i := 0; i < b.Steps; i++ {
			out = append(out, b.Decision)
		}
	}
	return out
}
