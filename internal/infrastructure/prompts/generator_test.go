package prompts

import (
	"encoding/json"
	"strings"
	"testing"

	"browser-automation/internal/domain/entity"
)

func TestGenerateLoginPrompt(t *testing.T) {
	data := LoginPromptData{
		PageURL:     "https://example.com/login",
		PageText:    "# Sign in\n\nWelcome back.",
		Attempt:     2,
		MaxAttempts: 6,
		Forms: []entity.ExtractedForm{{
			Index:  0,
			Action: "/session",
			Method: "post",
			Fields: []entity.ExtractedField{{
				Tag:       entity.FieldTagInput,
				Type:      "email",
				Selectors: []string{"#email", "input"},
			}},
			SubmitSelectors: []string{`button[type="submit"]`},
		}},
		HasScreenshot: true,
	}

	result, err := GenerateLoginPrompt(data)
	if err != nil {
		t.Fatalf("GenerateLoginPrompt failed: %v", err)
	}

	for _, want := range []string{
		"Page URL: https://example.com/login",
		"Attempt: 2 of 6",
		"Welcome back.",
		`"#email"`,
		`"submitSelectors"`,
		"screenshot of the page is attached",
	} {
		if !strings.Contains(result, want) {
			t.Errorf("expected prompt to contain %q\n%s", want, result)
		}
	}
}

func TestGenerateLoginPrompt_NoForms(t *testing.T) {
	result, err := GenerateLoginPrompt(LoginPromptData{PageURL: "about:blank"})
	if err != nil {
		t.Fatalf("GenerateLoginPrompt failed: %v", err)
	}

	if !strings.Contains(result, "## Forms\n[]") {
		t.Errorf("expected empty forms array, got:\n%s", result)
	}
	if !strings.Contains(result, "(no readable text)") {
		t.Errorf("expected placeholder for empty page text")
	}
	if strings.Contains(result, "Attempt:") {
		t.Errorf("attempt line must be omitted without an attempt")
	}
	if strings.Contains(result, "screenshot") {
		t.Errorf("screenshot note must be omitted without a screenshot")
	}
}

func TestSystemPromptWithSchema(t *testing.T) {
	got := SystemPromptWithSchema()

	if !strings.HasPrefix(got, LoginSystemPrompt) {
		t.Error("expected the system prompt first")
	}
	if !strings.HasSuffix(got, string(DecisionSchema)) {
		t.Error("expected the decision schema appended")
	}
}

func TestEmbeddedAssets(t *testing.T) {
	if len(LoginSystemPrompt) < 100 {
		t.Error("login system prompt seems too short")
	}

	var schema struct {
		Required   []string                   `json:"required"`
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if err := json.Unmarshal(DecisionSchema, &schema); err != nil {
		t.Fatalf("decision schema is not valid JSON: %v", err)
	}
	for _, key := range []string{"loginSucceeded", "interpretation", "requiredInputs", "submitSelector"} {
		if _, ok := schema.Properties[key]; !ok {
			t.Errorf("schema is missing property %s", key)
		}
	}
}
