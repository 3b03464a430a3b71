package entity

// InputRequest asks a human for the value of one field.
type InputRequest struct {
	FormIndex     int    `json:"formIndex"`
	FieldSelector string `json:"fieldSelector"`
	Prompt        string `json:"prompt"`
	Secret        bool   `json:"secret"`
}

// Decision is the oracle's reading of the current page.
type Decision struct {
	LoginSucceeded bool           `json:"loginSucceeded"`
	Interpretation string         `json:"interpretation"`
	RequiredInputs []InputRequest `json:"requiredInputs,omitempty"`
	SubmitSelector string         `json:"submitSelector,omitempty"`
}
