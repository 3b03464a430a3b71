package prompts

import (
	"bytes"
	"encoding/json"
	"text/template"

	"browser-automation/internal/domain/entity"
)

const loginUserTemplate = `Page URL: {{.PageURL}}
{{if .Attempt}}Attempt: {{.Attempt}}{{if .MaxAttempts}} of {{.MaxAttempts}}{{end}}
{{end}}
## Page
{{if .PageText}}{{.PageText}}{{else}}(no readable text){{end}}

## Forms
{{.FormsJSON}}
{{if .HasScreenshot}}
A screenshot of the page is attached.{{end}}
`

var loginUserTmpl = template.Must(template.New("login_user").Parse(loginUserTemplate))

type LoginPromptData struct {
	PageURL       string
	PageText      string
	Forms         []entity.ExtractedForm
	Attempt       int
	MaxAttempts   int
	HasScreenshot bool
}

// SystemPromptWithSchema is LoginSystemPrompt followed by the decision schema,
// for backends that cannot enforce the schema through the API.
func SystemPromptWithSchema() string {
	return LoginSystemPrompt + "\n\nJSON schema:\n" + string(DecisionSchema)
}

// GenerateLoginPrompt renders the per-poll user message for the oracle.
func GenerateLoginPrompt(data LoginPromptData) (string, error) {
	forms := data.Forms
	if forms == nil {
		forms = []entity.ExtractedForm{}
	}
	formsJSON, err := json.MarshalIndent(forms, "", "  ")
	if err != nil {
		return "", err
	}

	view := struct {
		LoginPromptData
		FormsJSON string
	}{
		LoginPromptData: data,
		FormsJSON:       string(formsJSON),
	}

	var buf bytes.Buffer
	if err := loginUserTmpl.Execute(&buf, view); err != nil {
		return "", err
	}

	return buf.String(), nil
}
