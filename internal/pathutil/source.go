package pathutil

import (
	"fmt"
	"os"
	"strings"
)

// ReadSource resolves a value that is either a path to a file or literal
// text. If value (after ~ expansion) names a regular file, its contents are
// returned with fromFile set. Otherwise value itself is returned unchanged.
func ReadSource(value string) (content string, fromFile bool, err error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return value, false, nil
	}

	path := ExpandHome(trimmed)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return value, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), true, nil
}
