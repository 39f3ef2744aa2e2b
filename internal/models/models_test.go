package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreeNode_UnmarshalJSON(t *testing.T) {
	var root TreeNode
	err := json.Unmarshal([]byte(`{"type":"folder","name":"a","extra":1,"children":[
		{"type":"file","name":"b.txt"},
		{"type":7},
		"junk",
		{"type":"folder","name":"c","children":[{"type":"file","name":"d"}]}
	]}`), &root)
	require.NoError(t, err)

	assert.True(t, root.IsFolder())
	assert.Equal(t, "a", root.Name)
	require.Len(t, root.Children, 4)
	assert.True(t, root.Children[0].IsFile())
	assert.Equal(t, TreeNode{}, root.Children[1])
	assert.Equal(t, TreeNode{}, root.Children[2])
	assert.Equal(t, "d", root.Children[3].Children[0].Name)
}

func TestTreeNode_BadFieldsDropNode(t *testing.T) {
	var root TreeNode
	require.NoError(t, json.Unmarshal([]byte(`{"type":"folder","name":"a","children":[
		{"type":"file","name":3},
		{"type":"folder","name":"b","children":"nope"},
		{"name":"no-type"},
		{"type":"file","name":"ok"}
	]}`), &root))

	require.Len(t, root.Children, 4)
	assert.Equal(t, TreeNode{}, root.Children[0])
	assert.Equal(t, TreeNode{}, root.Children[1])
	assert.Equal(t, TreeNode{}, root.Children[2])
	assert.Equal(t, TreeNode{Type: NodeTypeFile, Name: "ok"}, root.Children[3])
}

func folderChain(depth int) string {
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteString(`{"type":"folder","name":"d","children":[`)
	}
	b.WriteString(`{"type":"file","name":"leaf.txt"}`)
	for i := 0; i < depth; i++ {
		b.WriteString(`]}`)
	}
	return b.String()
}

func TestTreeNode_DeepTreeDecodesInLinearTime(t *testing.T) {
	data := []byte(folderChain(4000))

	start := time.Now()
	var root TreeNode
	require.NoError(t, json.Unmarshal(data, &root))
	elapsed := time.Since(start)

	depth := 0
	for node := root; node.IsFolder(); node = node.Children[0] {
		require.Len(t, node.Children, 1)
		depth++
	}
	assert.Equal(t, 4000, depth)
	assert.Less(t, elapsed, time.Second)
}

func TestTreeNode_NullName(t *testing.T) {
	var n TreeNode
	require.NoError(t, json.Unmarshal([]byte(`{"type":"file","name":null}`), &n))

	assert.True(t, n.IsFile())
	assert.Empty(t, n.Name)
}

func TestIsEmptyJSON(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{``, true},
		{`null`, true},
		{`{}`, true},
		{`[]`, true},
		{`""`, true},
		{`false`, true},
		{`0`, true},
		{` {} `, true},
		{`{"type":"folder"}`, false},
		{`["x"]`, false},
		{`"tree"`, false},
		{`true`, false},
		{`1`, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmptyJSON(json.RawMessage(tt.raw)))
		})
	}
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"folder", "folder-summary", "summary"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, ModeFolderSummary, m)
	}
	for _, s := range []string{"files", "per-file", "file"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, ModePerFile, m)
	}

	_, err := ParseMode("tree")
	assert.Error(t, err)
}
