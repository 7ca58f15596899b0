package scheduling

import (
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lumawake/lumawake-backend/internal/types"
)

// Template is a condition definition before persistence: the authored form
// of the built-in catalog and of YAML overrides.
type Template struct {
	Key           string `yaml:"key" json:"key"`
	Type          string `yaml:"type" json:"type"`
	Operator      string `yaml:"operator" json:"operator"`
	Value         any    `yaml:"value" json:"value"`
	TimeMinutes   int    `yaml:"time_minutes" json:"time_minutes"`
	MaxAdjustment int    `yaml:"max_adjustment" json:"max_adjustment"`
	Reason        string `yaml:"reason" json:"reason"`
	Priority      int    `yaml:"priority" json:"priority"`
}

// BuiltinTemplates is the stock catalog seeded at startup. Negative minutes
// wake earlier, positive later.
func BuiltinTemplates() []Template {
	return []Template{
		{
			Key: "weather_rain_light", Type: types.ConditionTypeWeather,
			Operator: types.OperatorContains, Value: "rain|drizzle|shower",
			TimeMinutes: -15, MaxAdjustment: 30,
			Reason: "Rainy commute needs extra time", Priority: 5,
		},
		{
			Key: "weather_snow", Type: types.ConditionTypeWeather,
			Operator: types.OperatorContains, Value: "snow|sleet|ice",
			TimeMinutes: -30, MaxAdjustment: 45,
			Reason: "Snow slows everything down", Priority: 8,
		},
		{
			Key: "weather_storm", Type: types.ConditionTypeWeather,
			Operator: types.OperatorContains, Value: "storm|thunder|hail",
			TimeMinutes: -20, MaxAdjustment: 40,
			Reason: "Severe weather commute margin", Priority: 7,
		},
		{
			Key: "calendar_important", Type: types.ConditionTypeCalendar,
			Operator: types.OperatorContains, Value: "interview|presentation|flight|exam",
			TimeMinutes: -20, MaxAdjustment: 40,
			Reason: "Big day ahead, wake with margin", Priority: 9,
		},
		{
			Key: "calendar_early_meeting", Type: types.ConditionTypeCalendar,
			Operator: types.OperatorContains, Value: "standup|sync|meeting|review",
			TimeMinutes: -10, MaxAdjustment: 20,
			Reason: "Early meeting on the calendar", Priority: 4,
		},
		{
			Key: "sleep_debt_high", Type: types.ConditionTypeSleepDebt,
			Operator: types.OperatorGreaterThan, Value: 120,
			TimeMinutes: 20, MaxAdjustment: 30,
			Reason: "Large sleep debt, allow more rest", Priority: 6,
		},
		{
			Key: "sleep_debt_moderate", Type: types.ConditionTypeSleepDebt,
			Operator: types.OperatorGreaterThan, Value: 60,
			TimeMinutes: 10, MaxAdjustment: 20,
			Reason: "Moderate sleep debt, small lie-in", Priority: 3,
		},
		{
			Key: "exercise_planned", Type: types.ConditionTypeExercise,
			Operator: types.OperatorContains, Value: "run|gym|workout|swim|yoga",
			TimeMinutes: -25, MaxAdjustment: 40,
			Reason: "Morning workout planned", Priority: 5,
		},
	}
}

// LoadTemplates reads extra catalog templates from a YAML file. Entries
// with keys matching built-ins replace them; new keys are appended.
func LoadTemplates(path string) ([]Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	var doc struct {
		Conditions []Template `yaml:"conditions"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}
	for i := range doc.Conditions {
		if err := ValidateTemplate(doc.Conditions[i]); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return doc.Conditions, nil
}

// MergeTemplates overlays overrides onto base by key.
func MergeTemplates(base, overrides []Template) []Template {
	byKey := make(map[string]int, len(base))
	out := make([]Template, len(base))
	copy(out, base)
	for i, t := range out {
		byKey[t.Key] = i
	}
	for _, t := range overrides {
		if i, ok := byKey[t.Key]; ok {
			out[i] = t
			continue
		}
		byKey[t.Key] = len(out)
		out = append(out, t)
	}
	return out
}

// ValidateTemplate rejects malformed authored conditions before they are
// ever persisted or evaluated.
func ValidateTemplate(t Template) error {
	if t.Key == "" {
		return fmt.Errorf("key is required")
	}
	switch t.Type {
	case types.ConditionTypeWeather, types.ConditionTypeCalendar,
		types.ConditionTypeSleepDebt, types.ConditionTypeExercise,
		types.ConditionTypeCustom:
	default:
		return fmt.Errorf("unknown condition type %q", t.Type)
	}
	if t.MaxAdjustment < 0 {
		return fmt.Errorf("max_adjustment must not be negative")
	}
	raw, err := json.Marshal(t.Value)
	if err != nil {
		return fmt.Errorf("encode predicate value: %w", err)
	}
	if _, err := ParsePredicate(t.Operator, raw); err != nil {
		return err
	}
	return nil
}

// EncodeValue renders a template's operand as the JSON stored on the
// definition row.
func EncodeValue(v any) ([]byte, error) {
	return json.Marshal(v)
}
