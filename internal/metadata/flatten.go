package metadata

import "folder-metadata/internal/models"

// Flatten walks the tree depth-first in children order and returns the
// slash-joined path of every file node. Empty folders contribute nothing
// and nodes of unknown type are skipped along with their subtree.
func Flatten(root models.TreeNode) []string {
	files := []string{}
	walk(root, "", &files)
	return files
}

func walk(node models.TreeNode, prefix string, files *[]string) {
	switch {
	case node.IsFile():
		*files = append(*files, joinPath(prefix, node.Name))
	case node.IsFolder():
		next := prefix
		if !(prefix == "" && isRootName(node.Name)) {
			next = joinPath(prefix, node.Name)
		}
		for _, child := range node.Children {
			walk(child, next, files)
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}

// the browser client names its synthetic root "/"
func isRootName(name string) bool {
	return name == "" || name == "/"
}
