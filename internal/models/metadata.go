// internal/models/metadata.go
package models

import "fmt"

// Mode selects which output schema a generation request must satisfy.
type Mode string

const (
	ModeFolderSummary Mode = "folder"
	ModePerFile       Mode = "files"
)

func (m Mode) String() string { return string(m) }

// ParseMode accepts the config/CLI spellings of a mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "folder", "folder-summary", "summary":
		return ModeFolderSummary, nil
	case "files", "per-file", "file":
		return ModePerFile, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

type FolderSummaryRecord struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type PerFileRecord struct {
	Title string            `json:"title"`
	Files []FileEntryRecord `json:"files"`
}

type FileEntryRecord struct {
	Filename    string   `json:"filename"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
