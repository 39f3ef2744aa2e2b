// internal/models/tree.go
package models

import (
	"bytes"
	"encoding/json"
)

const (
	NodeTypeFile   = "file"
	NodeTypeFolder = "folder"
)

// TreeNode is one folder or file entry of a client-supplied tree.
// A node that could not be decoded keeps an empty Type and is ignored
// by traversal.
type TreeNode struct {
	Type     string     `json:"type"`
	Name     string     `json:"name"`
	Children []TreeNode `json:"children,omitempty"`
}

func (n TreeNode) IsFile() bool   { return n.Type == NodeTypeFile }
func (n TreeNode) IsFolder() bool { return n.Type == NodeTypeFolder }

// UnmarshalJSON decodes a node without failing the whole tree on a bad
// descendant: any child that is not a well-formed node becomes a zero
// TreeNode in place. The document is decoded once and the nodes are built
// from the generic value, so cost stays linear in the input size.
func (n *TreeNode) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		*n = TreeNode{}
		return nil
	}
	*n = nodeFromValue(v)
	return nil
}

func nodeFromValue(v interface{}) TreeNode {
	obj, ok := v.(map[string]interface{})
	if !ok {
		return TreeNode{}
	}
	nodeType, ok := obj["type"].(string)
	if !ok {
		return TreeNode{}
	}

	node := TreeNode{Type: nodeType}
	switch name := obj["name"].(type) {
	case nil:
	case string:
		node.Name = name
	default:
		return TreeNode{}
	}

	switch children := obj["children"].(type) {
	case nil:
	case []interface{}:
		if len(children) > 0 {
			node.Children = make([]TreeNode, len(children))
			for i, child := range children {
				node.Children[i] = nodeFromValue(child)
			}
		}
	default:
		return TreeNode{}
	}
	return node
}

// IsEmptyJSON reports whether a raw JSON value carries no tree: absent,
// null, an empty object or array, an empty string, false or zero.
func IsEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return true
	}

	var v interface{}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return false
	}

	switch val := v.(type) {
	case nil:
		return true
	case map[string]interface{}:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	case string:
		return val == ""
	case bool:
		return !val
	case float64:
		return val == 0
	}
	return false
}
