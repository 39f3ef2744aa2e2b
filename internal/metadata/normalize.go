package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	apperrors "folder-metadata/internal/common/errors"
	"folder-metadata/internal/common/validation"
	"folder-metadata/internal/models"
)

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFallback
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFallback:
		return "fallback"
	case OutcomeError:
		return "error"
	}
	return "unknown"
}

// Fallback reasons. They are logged and counted, never returned to callers.
const (
	ReasonJSONDecode  = "json_decode_error"
	ReasonMissingKeys = "missing_required_keys"
)

var ErrEmptyModelOutput = apperrors.ErrEmptyModelOutput

const fenceMarker = "```"

var requiredKeys = map[models.Mode]*validation.Schema{
	models.ModeFolderSummary: validation.MustRequiredKeysSchema("title", "description", "tags"),
	models.ModePerFile:       validation.MustRequiredKeysSchema("title", "files"),
}

// Outcome is the result of normalizing one model reply. Record holds the
// JSON to return to the caller on Success and Fallback. Missing lists the
// required keys the reply lacked when Reason is ReasonMissingKeys.
type Outcome struct {
	Kind    OutcomeKind
	Record  json.RawMessage
	Reason  string
	Missing []string
	Err     error
}

// Normalize turns a raw model reply into a record for mode. It only
// returns OutcomeError when the reply is blank; anything else that cannot
// be used yields the mode's fallback record.
func Normalize(mode models.Mode, raw string) Outcome {
	original := strings.TrimSpace(raw)
	if original == "" {
		return Outcome{Kind: OutcomeError, Err: ErrEmptyModelOutput}
	}
	if !utf8.ValidString(original) {
		original = strings.ToValidUTF8(original, string(utf8.RuneError))
	}

	candidate := ExtractObject(StripFences(original))

	parsed, err := decodeDocument(candidate)
	if err != nil {
		return fallback(ParseFailureRecord(mode, original), ReasonJSONDecode)
	}

	result, err := requiredKeys[mode].Validate(parsed)
	if err != nil || !result.Valid {
		out := fallback(SchemaFailureRecord(mode), ReasonMissingKeys)
		if result != nil {
			out.Missing = result.MissingFields()
		}
		return out
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, []byte(candidate)); err != nil {
		return fallback(ParseFailureRecord(mode, original), ReasonJSONDecode)
	}
	return Outcome{Kind: OutcomeSuccess, Record: compact.Bytes()}
}

// StripFences returns the body of a leading markdown code fence. Text
// before the opening fence line and after the closing one is dropped; an
// unclosed fence keeps everything after the opening line.
func StripFences(candidate string) string {
	if !strings.HasPrefix(candidate, fenceMarker) {
		return candidate
	}

	var body []string
	inside := false
	for _, line := range strings.Split(candidate, "\n") {
		isFence := strings.HasPrefix(strings.TrimSpace(line), fenceMarker)
		if isFence && !inside {
			inside = true
			continue
		}
		if isFence {
			break
		}
		if inside {
			body = append(body, line)
		}
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}

// ExtractObject narrows candidate to the span from its first '{' to its
// last '}', or returns it unchanged when there is no such span.
func ExtractObject(candidate string) string {
	start := strings.Index(candidate, "{")
	end := strings.LastIndex(candidate, "}")
	if start >= 0 && end > start {
		return candidate[start : end+1]
	}
	return candidate
}

// decodeDocument decodes exactly one JSON value. Numbers stay json.Number so
// values outside float64 range are still accepted.
func decodeDocument(candidate string) (interface{}, error) {
	dec := json.NewDecoder(strings.NewReader(candidate))
	dec.UseNumber()

	var parsed interface{}
	if err := dec.Decode(&parsed); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("trailing data after JSON value")
	}
	return parsed, nil
}

func fallback(record interface{}, reason string) Outcome {
	// fallback records are plain structs of strings; Marshal cannot fail
	data, _ := json.Marshal(record)
	return Outcome{Kind: OutcomeFallback, Record: data, Reason: reason}
}
