package login

import (
	"regexp"

	"browser-automation/internal/domain/entity"
)

var usernameHint = regexp.MustCompile(`(?i)user|e-?mail|login`)

// credentialInputs guesses a username/password pair when the oracle asked for
// nothing. Username always comes first.
func credentialInputs(forms []entity.ExtractedForm) []entity.InputRequest {
	idx := credentialForm(forms)
	if idx < 0 {
		return nil
	}
	fields := forms[idx].Fields

	inputs := make([]entity.InputRequest, 0, 2)
	if f, ok := usernameField(fields); ok {
		inputs = append(inputs, entity.InputRequest{
			FormIndex:     idx,
			FieldSelector: f.PrimarySelector(),
			Prompt:        "Username or email",
		})
	}
	if f, ok := passwordField(fields); ok {
		inputs = append(inputs, entity.InputRequest{
			FormIndex:     idx,
			FieldSelector: f.PrimarySelector(),
			Prompt:        "Password",
			Secret:        true,
		})
	}
	return inputs
}

// credentialForm prefers a form with a password field, then the first form
// with anything fillable.
func credentialForm(forms []entity.ExtractedForm) int {
	for i, f := range forms {
		if _, ok := passwordField(f.Fields); ok {
			return i
		}
	}
	for i, f := range forms {
		for _, field := range f.Fields {
			if textual(field) {
				return i
			}
		}
	}
	return -1
}

func passwordField(fields []entity.ExtractedField) (entity.ExtractedField, bool) {
	for _, f := range fields {
		if f.Tag == entity.FieldTagInput && f.Type == "password" {
			return f, true
		}
	}
	return entity.ExtractedField{}, false
}

func usernameField(fields []entity.ExtractedField) (entity.ExtractedField, bool) {
	for _, f := range fields {
		if f.Tag == entity.FieldTagInput && f.Type == "email" {
			return f, true
		}
	}
	for _, f := range fields {
		if textual(f) && (usernameHint.MatchString(f.Name) ||
			usernameHint.MatchString(f.ID) ||
			usernameHint.MatchString(f.Autocomplete)) {
			return f, true
		}
	}
	for _, f := range fields {
		if textual(f) {
			return f, true
		}
	}
	return entity.ExtractedField{}, false
}

func textual(f entity.ExtractedField) bool {
	if f.Tag != entity.FieldTagInput {
		return false
	}
	switch f.Type {
	case "", "text", "email", "tel":
		return true
	}
	return false
}
