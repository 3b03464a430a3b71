package entity

type FieldTag string

const (
	FieldTagInput    FieldTag = "input"
	FieldTagSelect   FieldTag = "select"
	FieldTagTextarea FieldTag = "textarea"
)

// ExtractedField describes one form control. Selectors are ordered from the
// most to the least specific.
type ExtractedField struct {
	Tag          FieldTag `json:"tag"`
	Type         string   `json:"type,omitempty"`
	Name         string   `json:"name,omitempty"`
	ID           string   `json:"id,omitempty"`
	Placeholder  string   `json:"placeholder,omitempty"`
	Autocomplete string   `json:"autocomplete,omitempty"`
	Label        string   `json:"label,omitempty"`
	Required     bool     `json:"required,omitempty"`
	Selectors    []string `json:"selectors"`
}

// ExtractedForm is rebuilt on every poll and thrown away afterwards.
type ExtractedForm struct {
	Index           int              `json:"index"`
	Action          string           `json:"action"`
	Method          string           `json:"method"`
	ID              string           `json:"id,omitempty"`
	Name            string           `json:"name,omitempty"`
	Fields          []ExtractedField `json:"fields"`
	SubmitSelectors []string         `json:"submitSelectors"`
}

func (f ExtractedField) HasSelector(selector string) bool {
	for _, s := range f.Selectors {
		if s == selector {
			return true
		}
	}
	return false
}

// PrimarySelector returns the most specific candidate.
func (f ExtractedField) PrimarySelector() string {
	if len(f.Selectors) == 0 {
		return string(f.Tag)
	}
	return f.Selectors[0]
}

func (f ExtractedForm) HasFieldSelector(selector string) bool {
	for _, field := range f.Fields {
		if field.HasSelector(selector) {
			return true
		}
	}
	return false
}

func (f ExtractedForm) HasSubmitSelector(selector string) bool {
	for _, s := range f.SubmitSelectors {
		if s == selector {
			return true
		}
	}
	return false
}

// FieldBySelector returns the field that lists selector among its candidates.
func (f ExtractedForm) FieldBySelector(selector string) (ExtractedField, bool) {
	for _, field := range f.Fields {
		if field.HasSelector(selector) {
			return field, true
		}
	}
	return ExtractedField{}, false
}
