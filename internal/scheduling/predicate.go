package scheduling

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lumawake/lumawake-backend/internal/types"
)

// Predicate is the decoded, typed form of a condition's operator/value
// pair. Authoring-time validation happens in Validate; evaluation assumes a
// valid predicate and stays allocation-light.
type Predicate struct {
	Operator string
	Text     string
	Number   float64
	IsNumber bool
}

// ParsePredicate decodes the stored JSON operand and pairs it with the
// operator. The operand must be a JSON string or number.
func ParsePredicate(operator string, rawValue []byte) (Predicate, error) {
	p := Predicate{Operator: operator}

	var v any
	if len(rawValue) > 0 {
		if err := json.Unmarshal(rawValue, &v); err != nil {
			return p, fmt.Errorf("decode predicate value: %w", err)
		}
	}
	switch val := v.(type) {
	case string:
		p.Text = val
	case float64:
		p.Number = val
		p.IsNumber = true
	case nil:
		return p, fmt.Errorf("predicate value is missing")
	default:
		return p, fmt.Errorf("predicate value must be a string or number, got %T", v)
	}

	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate rejects unknown operators and operator/operand mismatches. It is
// called when a condition is authored so evaluation never sees a malformed
// predicate that parsing let through.
func (p Predicate) Validate() error {
	switch p.Operator {
	case types.OperatorContains:
		if p.IsNumber {
			return fmt.Errorf("operator %q requires a string value", p.Operator)
		}
		if strings.TrimSpace(p.Text) == "" {
			return fmt.Errorf("operator %q requires a non-empty value", p.Operator)
		}
	case types.OperatorGreaterThan, types.OperatorLessThan:
		if !p.IsNumber {
			return fmt.Errorf("operator %q requires a numeric value", p.Operator)
		}
	case types.OperatorEquals:
		// Either operand type is fine; comparison coerces.
	default:
		return fmt.Errorf("unknown operator %q", p.Operator)
	}
	return nil
}

// MatchesText applies the predicate to a free-text field. contains matches
// case-insensitive substrings with "|" alternation; equals compares the
// whole string after trimming and case-folding, coercing a numeric operand
// to its decimal form.
func (p Predicate) MatchesText(text string) bool {
	haystack := strings.ToLower(text)
	switch p.Operator {
	case types.OperatorContains:
		for _, alt := range strings.Split(strings.ToLower(p.Text), "|") {
			alt = strings.TrimSpace(alt)
			if alt != "" && strings.Contains(haystack, alt) {
				return true
			}
		}
		return false
	case types.OperatorEquals:
		want := strings.ToLower(strings.TrimSpace(p.Text))
		if p.IsNumber {
			want = strconv.FormatFloat(p.Number, 'f', -1, 64)
		}
		return strings.TrimSpace(haystack) == want
	default:
		return false
	}
}

// MatchesNumber applies the predicate to a numeric field, coercing a string
// operand when it parses.
func (p Predicate) MatchesNumber(n float64) bool {
	operand := p.Number
	if !p.IsNumber {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(p.Text), 64)
		if err != nil {
			return false
		}
		operand = parsed
	}
	switch p.Operator {
	case types.OperatorGreaterThan:
		return n > operand
	case types.OperatorLessThan:
		return n < operand
	case types.OperatorEquals:
		return n == operand
	default:
		return false
	}
}
