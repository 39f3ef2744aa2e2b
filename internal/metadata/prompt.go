package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"folder-metadata/internal/models"
)

var ErrInvalidTree = errors.New("INVALID_TREE")

// Prompt is the message pair sent to the chat model.
type Prompt struct {
	System string
	User   string
}

type systemTemplate struct {
	intro        string
	requirements []string
}

var folderSummaryTemplate = systemTemplate{
	intro: "You are an assistant that generates concise metadata for a folder based only on its folder and file names.",
	requirements: []string{
		`Return ONLY a valid JSON object with these keys:
   {
     "title": "short title summarizing the folder",
     "description": "detailed description (4-6 sentences) explaining what files and folders are inside, their purpose, and organization",
     "tags": ["array","of","short","keywords","from","folder"]
   }`,
		"Do NOT include any extra text, markdown, or explanations.",
		"Focus entirely on the names of the folders and files in the structure provided.",
		"Make the description comprehensive - mention specific file types, folder organization, and infer the project's purpose from the structure.",
	},
}

var perFileTemplate = systemTemplate{
	intro: "You are an assistant that generates concise metadata for every file of a folder based only on the file paths.",
	requirements: []string{
		`Return ONLY a valid JSON object with these keys:
   {
     "title": "short title summarizing the folder",
     "files": [
       {
         "filename": "the file path exactly as provided",
         "description": "1-2 sentences describing the likely purpose of the file",
         "tags": ["array","of","short","keywords"]
       }
     ]
   }`,
		"Include exactly one entry in \"files\" for each file path provided, in the same order.",
		"Do NOT include any extra text, markdown, code fences, or explanations.",
		"Infer each file's purpose from its name, extension and location in the folder structure.",
	},
}

// render numbers the requirements and appends the custom guidance as the
// last directive. The required keys above it stay authoritative.
func (t systemTemplate) render(custom string) string {
	var b strings.Builder
	b.WriteString(t.intro)
	b.WriteString(" \n\nRequirements:")
	n := 0
	for _, req := range t.requirements {
		n++
		b.WriteString("\n" + strconv.Itoa(n) + ". " + req)
	}
	if custom != "" {
		n++
		b.WriteString(fmt.Sprintf("\n%d. Additionally follow this analysis guidance, without changing the required JSON keys above: %s", n, custom))
	}
	return b.String()
}

// SystemMessage returns the fixed instruction for mode, plus the custom
// directive when one is given.
func SystemMessage(mode models.Mode, custom string) string {
	if mode == models.ModePerFile {
		return perFileTemplate.render(custom)
	}
	return folderSummaryTemplate.render(custom)
}

// BuildPrompt renders both messages for one request. tree is the raw JSON
// the caller sent.
func BuildPrompt(mode models.Mode, tree json.RawMessage, hint, custom string) (Prompt, error) {
	var user string
	switch mode {
	case models.ModePerFile:
		var root models.TreeNode
		if err := json.Unmarshal(tree, &root); err != nil {
			return Prompt{}, fmt.Errorf("%w: %v", ErrInvalidTree, err)
		}
		list, err := indentJSON(Flatten(root))
		if err != nil {
			return Prompt{}, fmt.Errorf("%w: %v", ErrInvalidTree, err)
		}
		parts := []string{"File list JSON:\n" + list}
		if hint != "" {
			parts = append(parts, "Hint: "+hint)
		}
		if custom != "" {
			parts = append(parts, "Custom Analysis Instructions: "+custom)
		}
		user = strings.Join(parts, "\n\n")
	default:
		var indented bytes.Buffer
		if err := json.Indent(&indented, bytes.TrimSpace(tree), "", "  "); err != nil {
			return Prompt{}, fmt.Errorf("%w: %v", ErrInvalidTree, err)
		}
		user = fmt.Sprintf("Folder tree JSON:\n%s\n\nHint: %s", indented.String(), hint)
	}

	return Prompt{
		System: SystemMessage(mode, custom),
		User:   user,
	}, nil
}

func indentJSON(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
