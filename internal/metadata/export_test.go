package metadata

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportFileName(t *testing.T) {
	tests := []struct {
		record string
		format string
		want   string
	}{
		{`{"title":"Summer Trip 2024!"}`, FormatJSON, "Summer_Trip_2024_.json"},
		{`{"title":"Café"}`, FormatCSV, "Caf_.csv"},
		{`{"title":""}`, FormatJSON, "folder_metadata.json"},
		{`{"title":7}`, FormatJSON, "folder_metadata.json"},
		{`{}`, FormatCSV, "folder_metadata.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.record, func(t *testing.T) {
			assert.Equal(t, tt.want, ExportFileName(json.RawMessage(tt.record), tt.format))
		})
	}
}

func TestExport_JSONIsIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, json.RawMessage(`{"title":"A","tags":["x"]}`), FormatJSON))

	assert.Equal(t, "{\n  \"title\": \"A\",\n  \"tags\": [\n    \"x\"\n  ]\n}\n", buf.String())
}

func TestExport_CSVPerFile(t *testing.T) {
	record := `{"title":"Docs","files":[
		{"filename":"a.md","description":"Intro, first","tags":["doc","intro"]},
		{"description":"","tags":"bad"}
	]}`

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, json.RawMessage(record), FormatCSV))

	assert.Equal(t, "Folder Title,Filename,Description,Tags\n"+
		"Docs,a.md,\"Intro, first\",\"doc, intro\"\n"+
		"Docs,Unknown File,No description,No tags\n", buf.String())
}

func TestExport_CSVFolderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, json.RawMessage(`{"title":"Photos","description":"Trip","tags":["travel",3]}`), FormatCSV))

	assert.Equal(t, "Folder Title,Filename,Description,Tags\n"+
		"Photos,No files found,Trip,\"travel, 3\"\n", buf.String())
}

func TestExport_CSVDefaults(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, json.RawMessage(`{}`), FormatCSV))

	assert.Equal(t, "Folder Title,Filename,Description,Tags\n"+
		"Unknown Folder,No files found,No description available,No tags\n", buf.String())
}

func TestExport_UnknownFormat(t *testing.T) {
	assert.Error(t, Export(&bytes.Buffer{}, json.RawMessage(`{}`), "xlsx"))
}
