package metadata

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"

	defaultExportName = "folder_metadata"
)

var csvHeader = []string{"Folder Title", "Filename", "Description", "Tags"}

// ExportFileName derives a download name from the record title: every
// character outside [A-Za-z0-9] becomes '_'.
func ExportFileName(record json.RawMessage, format string) string {
	var head struct {
		Title interface{} `json:"title"`
	}
	_ = json.Unmarshal(record, &head)

	title, _ := head.Title.(string)
	if title == "" {
		title = defaultExportName
	}

	var b strings.Builder
	for _, r := range title {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + "." + format
}

// Export writes record in format. JSON is indented with two spaces; CSV has
// one row per file entry, or a single "No files found" row for a folder
// summary.
func Export(w io.Writer, record json.RawMessage, format string) error {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if err := json.Indent(&buf, record, "", "  "); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	case FormatCSV:
		return exportCSV(w, record)
	}
	return fmt.Errorf("unknown export format %q", format)
}

func exportCSV(w io.Writer, record json.RawMessage) error {
	dec := json.NewDecoder(bytes.NewReader(record))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	title := stringOr(doc["title"], "Unknown Folder")
	rows := [][]string{csvHeader}

	if files, ok := doc["files"].([]interface{}); ok {
		for _, f := range files {
			entry, _ := f.(map[string]interface{})
			rows = append(rows, []string{
				title,
				stringOr(entry["filename"], "Unknown File"),
				stringOr(entry["description"], "No description"),
				joinTags(entry["tags"]),
			})
		}
	} else {
		rows = append(rows, []string{
			title,
			"No files found",
			stringOr(doc["description"], "No description available"),
			joinTags(doc["tags"]),
		})
	}

	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func joinTags(v interface{}) string {
	tags, ok := v.([]interface{})
	if !ok {
		return "No tags"
	}
	parts := make([]string, len(tags))
	for i, tag := range tags {
		switch t := tag.(type) {
		case nil:
		case string:
			parts[i] = t
		default:
			parts[i] = fmt.Sprint(t)
		}
	}
	return strings.Join(parts, ", ")
}
