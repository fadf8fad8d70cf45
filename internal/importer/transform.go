// =============================================================================
// PLN Usage Report - Import Transformations
// =============================================================================
//
// Spreadsheets from other tools rarely match the report's conventions. The
// transformation rules clean a cell before it is parsed into a line item.
//
// CONFIGURATION (plnreport.yaml):
//   import:
//     transforms:
//       - field: name
//         actions:
//           - type: normalize_whitespace
//           - type: title_case
//       - field: unit_price
//         actions:
//           - type: replace
//             find: "IDR"
//             value: ""
//
// FIELDS:
//   name, unit_price, quantity, unit
//
// =============================================================================

package importer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Field keys used by transformation rules.
const (
	FieldName      = "name"
	FieldUnitPrice = "unit_price"
	FieldQuantity  = "quantity"
	FieldUnit      = "unit"
)

// ErrUnknownTransform is returned for an unsupported action type.
var ErrUnknownTransform = errors.New("importer: unknown transformation")

// Rule lists the actions applied to one field, in order.
type Rule struct {
	Field   string   `mapstructure:"field" yaml:"field"`
	Actions []Action `mapstructure:"actions" yaml:"actions"`
}

// Action is a single transformation step.
type Action struct {
	// Type selects the transformation, see ApplyTransformation.
	Type string `mapstructure:"type" yaml:"type"`

	// Value is the argument of the transformation (text to add, replacement,
	// default value).
	Value string `mapstructure:"value" yaml:"value,omitempty"`

	// Find is the text or pattern to replace.
	Find string `mapstructure:"find" yaml:"find,omitempty"`
}

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies the configured rules to cell values.
type Transformer struct {
	rules map[string][]Action
}

// NewTransformer indexes rules by field. Later rules for the same field run
// after earlier ones.
func NewTransformer(rules []Rule) (*Transformer, error) {
	t := &Transformer{rules: make(map[string][]Action, len(rules))}
	for _, r := range rules {
		switch r.Field {
		case FieldName, FieldUnitPrice, FieldQuantity, FieldUnit:
		default:
			return nil, fmt.Errorf("importer: transformation for unknown field %q", r.Field)
		}
		for _, a := range r.Actions {
			if !knownTransform(a.Type) {
				return nil, fmt.Errorf("%w: %q", ErrUnknownTransform, a.Type)
			}
		}
		t.rules[r.Field] = append(t.rules[r.Field], r.Actions...)
	}
	return t, nil
}

// Transform applies every action registered for field to value.
//
// PARAMETERS:
//   - field: One of the Field* keys.
//   - value: The raw cell value.
//
// RETURNS:
//   - The transformed value.
//   - An error if an action fails.
func (t *Transformer) Transform(field, value string) (string, error) {
	if t == nil {
		return value, nil
	}

	result := value
	for _, action := range t.rules[field] {
		var err error
		result, err = ApplyTransformation(result, action)
		if err != nil {
			return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
		}
	}
	return result, nil
}

var (
	whitespace   = regexp.MustCompile(`\s+`)
	nonDigits    = regexp.MustCompile(`[^0-9]`)
	titleCaser   = cases.Title(language.Indonesian)
	transformSet = map[string]bool{
		"trim": true, "uppercase": true, "lowercase": true, "title_case": true,
		"normalize_whitespace": true, "prepend_string": true, "append_string": true,
		"replace": true, "regex_replace": true, "extract_digits": true,
		"if_empty_use_default": true,
	}
)

func knownTransform(name string) bool {
	return transformSet[name]
}

// ApplyTransformation applies a single action to value.
func ApplyTransformation(value string, action Action) (string, error) {
	switch action.Type {
	case "trim":
		return strings.TrimSpace(value), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "title_case":
		return titleCaser.String(value), nil

	case "normalize_whitespace":
		// "Kabel   NYM\t2x1.5" -> "Kabel NYM 2x1.5"
		return strings.TrimSpace(whitespace.ReplaceAllString(value, " ")), nil

	case "prepend_string":
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "replace":
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", fmt.Errorf("invalid pattern %q: %w", action.Find, err)
		}
		return re.ReplaceAllString(value, action.Value), nil

	case "extract_digits":
		// "Rp50rb (nego)" -> "50"
		return nonDigits.ReplaceAllString(value, ""), nil

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransform, action.Type)
	}
}
