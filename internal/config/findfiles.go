package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// findInPath returns the given file, or every .hcl file below the given
// directory in lexical order.
func findInPath(configPath string) ([]string, error) {
	var matches []string

	info, err := os.Stat(configPath)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{configPath}, nil
	}

	err = filepath.Walk(configPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".hcl") {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return matches, err
	}

	if len(matches) == 0 {
		return matches, fmt.Errorf("could not find any configuration files in %s", configPath)
	}

	sort.Strings(matches)
	return matches, nil
}
