package generatemetadata

import (
	"encoding/json"

	"folder-metadata/internal/metadata"
)

// Input is the request body shared by both modes. Tree stays raw so the
// caller's JSON reaches the prompt as sent.
type Input struct {
	Tree         json.RawMessage `json:"tree"`
	Hint         string          `json:"hint,omitempty"`
	CustomPrompt string          `json:"customPrompt,omitempty"`
}

// Output is a normalized record ready to send back. Reason is set for
// fallbacks and is only logged.
type Output struct {
	Record  json.RawMessage
	Outcome metadata.OutcomeKind
	Reason  string
}
