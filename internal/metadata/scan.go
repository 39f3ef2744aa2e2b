package metadata

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"folder-metadata/internal/models"
)

// ScanOptions controls ScanDir.
type ScanOptions struct {
	SkipHidden bool
	MaxDepth   int // 0 means unlimited
}

// ScanDir builds a tree of names from a local directory, in the same shape
// a client would send. Only names are read, never file contents.
func ScanDir(root string, opts ScanOptions) (models.TreeNode, error) {
	info, err := os.Stat(root)
	if err != nil {
		return models.TreeNode{}, fmt.Errorf("scan %s: %w", root, err)
	}

	name := filepath.Base(filepath.Clean(root))
	if !info.IsDir() {
		return models.TreeNode{Type: models.NodeTypeFile, Name: name}, nil
	}
	return scanFolder(os.DirFS(root), ".", name, 1, opts)
}

func scanFolder(fsys fs.FS, dir, name string, depth int, opts ScanOptions) (models.TreeNode, error) {
	node := models.TreeNode{Type: models.NodeTypeFolder, Name: name}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return node, fmt.Errorf("read %s: %w", dir, err)
	}

	for _, entry := range entries {
		if opts.SkipHidden && strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if !entry.IsDir() {
			node.Children = append(node.Children, models.TreeNode{Type: models.NodeTypeFile, Name: entry.Name()})
			continue
		}
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			node.Children = append(node.Children, models.TreeNode{Type: models.NodeTypeFolder, Name: entry.Name()})
			continue
		}
		child, err := scanFolder(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name())), entry.Name(), depth+1, opts)
		if err != nil {
			return node, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}
