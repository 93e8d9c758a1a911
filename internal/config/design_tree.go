package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"grove.dev/grove/internal/scan"
)

// LoadDesignTree reads a design tree from a YAML file:
//
//	base: main
//	branches:
//	  - parent: main
//	    child: feature/auth
//	  - parent: feature/auth
//	    child: feature/auth-ui
//
// A missing file returns (nil, nil): no design tree is a normal state, not
// an error.
func LoadDesignTree(path string) (*scan.DesignTree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read design tree: %w", err)
	}

	var tree scan.DesignTree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse design tree: %w", err)
	}

	for i, edge := range tree.Edges {
		if edge.Parent == "" || edge.Child == "" {
			return nil, fmt.Errorf("design tree edge %d is missing parent or child", i)
		}
	}

	return &tree, nil
}
