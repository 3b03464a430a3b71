package prompts

import (
	_ "embed"
)

//go:embed login_system.txt
var LoginSystemPrompt string

//go:embed decision_schema.json
var DecisionSchema []byte

// DecisionSchemaName is the name the schema is registered under in
// structured-output requests.
const DecisionSchemaName = "login_decision"
