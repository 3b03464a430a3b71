// Package decision turns raw oracle output into a validated entity.Decision.
package decision

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"browser-automation/internal/application/port/output"
	"browser-automation/internal/domain/entity"

	"github.com/kaptinlin/jsonrepair"
)

var (
	ErrNoJSON        = errors.New("no JSON object in oracle output")
	ErrInvalidSchema = errors.New("oracle output does not match decision schema")
)

type rawInput struct {
	FormIndex     *int   `json:"formIndex"`
	FieldSelector string `json:"fieldSelector"`
	Prompt        string `json:"prompt"`
	Secret        bool   `json:"secret"`
}

type rawDecision struct {
	LoginSucceeded *bool      `json:"loginSucceeded"`
	Interpretation *string    `json:"interpretation"`
	RequiredInputs []rawInput `json:"requiredInputs"`
	SubmitSelector string     `json:"submitSelector"`
}

// Parse extracts the outermost JSON object from content, repairing it when it
// is not strictly valid, and checks it against the decision schema.
func Parse(content string) (*entity.Decision, error) {
	obj, ok := extractObject(content)
	if !ok {
		return nil, ErrNoJSON
	}

	var raw rawDecision
	if err := json.Unmarshal([]byte(obj), &raw); err != nil {
		repaired, repairErr := jsonrepair.JSONRepair(obj)
		if repairErr != nil {
			return nil, fmt.Errorf("repair oracle output: %w", repairErr)
		}
		raw = rawDecision{}
		if err := json.Unmarshal([]byte(repaired), &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
		}
	}

	return raw.validate()
}

func (r rawDecision) validate() (*entity.Decision, error) {
	if r.LoginSucceeded == nil {
		return nil, fmt.Errorf("%w: loginSucceeded is required", ErrInvalidSchema)
	}
	if r.Interpretation == nil {
		return nil, fmt.Errorf("%w: interpretation is required", ErrInvalidSchema)
	}

	d := &entity.Decision{
		LoginSucceeded: *r.LoginSucceeded,
		Interpretation: strings.TrimSpace(*r.Interpretation),
		RequiredInputs: make([]entity.InputRequest, 0, len(r.RequiredInputs)),
		SubmitSelector: strings.TrimSpace(r.SubmitSelector),
	}

	for i, in := range r.RequiredInputs {
		if in.FormIndex == nil {
			return nil, fmt.Errorf("%w: requiredInputs[%d].formIndex is required", ErrInvalidSchema, i)
		}
		if *in.FormIndex < 0 {
			return nil, fmt.Errorf("%w: requiredInputs[%d].formIndex must be non-negative", ErrInvalidSchema, i)
		}
		d.RequiredInputs = append(d.RequiredInputs, entity.InputRequest{
			FormIndex:     *in.FormIndex,
			FieldSelector: strings.TrimSpace(in.FieldSelector),
			Prompt:        strings.TrimSpace(in.Prompt),
			Secret:        in.Secret,
		})
	}

	return d, nil
}

// extractObject returns the span from the first '{' to its matching '}'.
// An unbalanced object runs to the end of content and is left for repair.
func extractObject(content string) (string, bool) {
	start := strings.IndexByte(content, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(content); i++ {
		c := content[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[start : i+1], true
			}
		}
	}

	return content[start:], true
}

// Sanitize removes every selector the oracle did not copy verbatim from the
// extracted candidates. Dropped items are logged at warn level when logger
// is set.
func Sanitize(d *entity.Decision, forms []entity.ExtractedForm, logger output.LoggerPort) *entity.Decision {
	if d == nil {
		return nil
	}
	warn := func(msg string, args ...any) {
		if logger != nil {
			logger.Warn(msg, args...)
		}
	}

	kept := make([]entity.InputRequest, 0, len(d.RequiredInputs))
	for _, in := range d.RequiredInputs {
		if in.FormIndex >= len(forms) || !forms[in.FormIndex].HasFieldSelector(in.FieldSelector) {
			warn("Dropping input with unknown selector",
				"form_index", in.FormIndex,
				"selector", in.FieldSelector,
			)
			continue
		}
		kept = append(kept, in)
	}
	d.RequiredInputs = kept

	if d.SubmitSelector != "" && !knownSubmitSelector(d.SubmitSelector, forms) {
		warn("Dropping unknown submit selector", "selector", d.SubmitSelector)
		d.SubmitSelector = ""
	}

	return d
}

func knownSubmitSelector(selector string, forms []entity.ExtractedForm) bool {
	for _, f := range forms {
		if f.HasSubmitSelector(selector) || f.HasFieldSelector(selector) {
			return true
		}
	}
	return false
}
