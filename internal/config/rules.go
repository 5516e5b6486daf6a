package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/draymaster/tripplanner/internal/domain"
)

// RuleOverrides is the on-disk shape for tuning the HOS constants without
// a rebuild — e.g. a future short-haul or adverse-conditions exception.
// Zero fields are left at domain.DefaultRules()'s value.
type RuleOverrides struct {
	MaxDrivingMins      *int     `yaml:"max_driving_mins"`
	MaxWindowMins       *int     `yaml:"max_window_mins"`
	MaxDriveBeforeBreak *int     `yaml:"max_drive_before_break"`
	RestMins            *int     `yaml:"rest_mins"`
	BreakMins           *int     `yaml:"break_mins"`
	RestartMins         *int     `yaml:"restart_mins"`
	MaxCycleMins        *int     `yaml:"max_cycle_mins"`
	FuelIntervalMiles   *float64 `yaml:"fuel_interval_miles"`
	FuelDurationMins    *int     `yaml:"fuel_duration_mins"`
	AverageSpeedMPH     *float64 `yaml:"average_speed_mph"`
}

// LoadRuleOverrides reads a YAML override file and layers it on top of
// domain.DefaultRules(). A missing file is not an error — it just means
// no overrides are configured.
func LoadRuleOverrides(path string) (domain.Rules, error) {
	rules := domain.DefaultRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return rules, nil
		}
		return rules, fmt.Errorf("reading rule overrides: %w", err)
	}

	var o RuleOverrides
	if err := yaml.Unmarshal(raw, &o); err != nil {
		return rules, fmt.Errorf("parsing rule overrides: %w", err)
	}

	applyOverrides(&rules, o)
	return rules, nil
}

func applyOverrides(r *domain.Rules, o RuleOverrides) {
	if o.MaxDrivingMins != nil {
		r.MaxDrivingMins = *o.MaxDrivingMins
	}
	if o.MaxWindowMins != nil {
		r.MaxWindowMins = *o.MaxWindowMins
	}
	if o.MaxDriveBeforeBreak != nil {
		r.MaxDriveBeforeBreak = *o.MaxDriveBeforeBreak
	}
	if o.RestMins != nil {
		r.RestMins = *o.RestMins
	}
	if o.BreakMins != nil {
		r.BreakMins = *o.BreakMins
	}
	if o.RestartMins != nil {
		r.RestartMins = *o.RestartMins
	}
	if o.MaxCycleMins != nil {
		r.MaxCycleMins = *o.MaxCycleMins
	}
	if o.FuelIntervalMiles != nil {
		r.FuelIntervalMiles = *o.FuelIntervalMiles
	}
	if o.FuelDurationMins != nil {
		r.FuelDurationMins = *o.FuelDurationMins
	}
	if o.AverageSpeedMPH != nil {
		r.AverageSpeedMPH = *o.AverageSpeedMPH
	}
}
