package decision

import (
	"testing"

	"browser-automation/internal/domain/entity"
	"browser-automation/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Plain(t *testing.T) {
	d, err := Parse(`{"loginSucceeded": false, "interpretation": " Login form ", "requiredInputs": [{"formIndex": 0, "fieldSelector": "#email", "prompt": "Email", "secret": false}], "submitSelector": "#go"}`)
	require.NoError(t, err)

	assert.False(t, d.LoginSucceeded)
	assert.Equal(t, "Login form", d.Interpretation)
	require.Len(t, d.RequiredInputs, 1)
	assert.Equal(t, "#email", d.RequiredInputs[0].FieldSelector)
	assert.Equal(t, "#go", d.SubmitSelector)
}

func TestParse_WrappedInProse(t *testing.T) {
	content := "Here is my answer:\n```json\n{\"loginSucceeded\": true, \"interpretation\": \"Dashboard {shown}\"}\n```\nDone."

	d, err := Parse(content)
	require.NoError(t, err)
	assert.True(t, d.LoginSucceeded)
	assert.Equal(t, "Dashboard {shown}", d.Interpretation)
	assert.NotNil(t, d.RequiredInputs)
	assert.Empty(t, d.RequiredInputs)
}

func TestParse_RepairsTrailingComma(t *testing.T) {
	d, err := Parse(`{"loginSucceeded": false, "interpretation": "OTP page", "requiredInputs": [{"formIndex": 1, "fieldSelector": "input", "prompt": "Code", "secret": true},],}`)
	require.NoError(t, err)
	require.Len(t, d.RequiredInputs, 1)
	assert.Equal(t, 1, d.RequiredInputs[0].FormIndex)
	assert.True(t, d.RequiredInputs[0].Secret)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse("I could not decide.")
	assert.ErrorIs(t, err, ErrNoJSON)

	_, err = Parse(`{"interpretation": "x"}`)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = Parse(`{"loginSucceeded": true}`)
	assert.ErrorIs(t, err, ErrInvalidSchema)

	_, err = Parse(`{"loginSucceeded": false, "interpretation": "x", "requiredInputs": [{"formIndex": -1, "fieldSelector": "#a"}]}`)
	assert.ErrorIs(t, err, ErrInvalidSchema)
}

func TestSanitize(t *testing.T) {
	forms := []entity.ExtractedForm{{
		Index: 0,
		Fields: []entity.ExtractedField{
			{Tag: entity.FieldTagInput, Selectors: []string{"#email", "input"}},
			{Tag: entity.FieldTagInput, Selectors: []string{`input[type="password"]`, "input"}},
		},
		SubmitSelectors: []string{"#go"},
	}}

	d := &entity.Decision{
		RequiredInputs: []entity.InputRequest{
			{FormIndex: 0, FieldSelector: "#email"},
			{FormIndex: 0, FieldSelector: "#made-up"},
			{FormIndex: 3, FieldSelector: "#email"},
			{FormIndex: 0, FieldSelector: `input[type="password"]`},
		},
		SubmitSelector: "button.invented",
	}

	out := Sanitize(d, forms, logger.NewNop())

	require.Len(t, out.RequiredInputs, 2)
	assert.Equal(t, "#email", out.RequiredInputs[0].FieldSelector)
	assert.Equal(t, `input[type="password"]`, out.RequiredInputs[1].FieldSelector)
	assert.Empty(t, out.SubmitSelector)

	d = &entity.Decision{SubmitSelector: "#go"}
	assert.Equal(t, "#go", Sanitize(d, forms, logger.NewNop()).SubmitSelector)

	assert.Nil(t, Sanitize(nil, forms, logger.NewNop()))
}

func TestExtractObject(t *testing.T) {
	obj, ok := extractObject(`x {"a": "}", "b": {"c": 1}} y`)
	require.True(t, ok)
	assert.Equal(t, `{"a": "}", "b": {"c": 1}}`, obj)

	obj, ok = extractObject(`{"a": 1`)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1`, obj)
}
