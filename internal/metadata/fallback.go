package metadata

import "folder-metadata/internal/models"

const (
	fallbackTitle        = "Generated Folder"
	fallbackDescription  = "Metadata could not be generated properly."
	responsePrefix       = "AI response: "
	maxEchoedRunes       = 100
	truncationEllipsis   = "..."
	schemaFailureFile    = "unknown_file"
	parseFailureFile     = "error_file"
	schemaFailureFileTag = "unknown"
)

// SchemaFailureRecord is returned when the reply parsed but lacked a
// required key. It never carries any of the parsed content.
func SchemaFailureRecord(mode models.Mode) interface{} {
	if mode == models.ModePerFile {
		return models.PerFileRecord{
			Title: fallbackTitle,
			Files: []models.FileEntryRecord{{
				Filename:    schemaFailureFile,
				Description: fallbackDescription,
				Tags:        []string{schemaFailureFileTag},
			}},
		}
	}
	return models.FolderSummaryRecord{
		Title:       fallbackTitle,
		Description: fallbackDescription,
		Tags:        []string{"folder"},
	}
}

// ParseFailureRecord is returned when no JSON object could be decoded; it
// echoes the start of the reply so the caller sees what the model said.
func ParseFailureRecord(mode models.Mode, reply string) interface{} {
	description := responsePrefix + Truncate(reply, maxEchoedRunes)
	if mode == models.ModePerFile {
		return models.PerFileRecord{
			Title: fallbackTitle,
			Files: []models.FileEntryRecord{{
				Filename:    parseFailureFile,
				Description: description,
				Tags:        []string{"folder", "generated"},
			}},
		}
	}
	return models.FolderSummaryRecord{
		Title:       fallbackTitle,
		Description: description,
		Tags:        []string{"folder", "generated"},
	}
}

// Truncate cuts s to max characters and marks the cut with an ellipsis.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + truncationEllipsis
}
