package utils

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"
)

//go:embed catalog.txt
var defaultCatalog string

// DefaultCatalog returns the built-in list of daily titles
func DefaultCatalog() []string {
	titles, _ := parseCatalog(strings.NewReader(defaultCatalog))
	return titles
}

// LoadCatalog loads catalog titles from a file, one per line.
// Blank lines and lines starting with # are skipped. A missing file yields
// the built-in catalog.
func LoadCatalog(path string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultCatalog(), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseCatalog(file)
}

// parseCatalog keeps the file order and drops case-insensitive duplicates
func parseCatalog(r io.Reader) ([]string, error) {
	var titles []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		title := strings.TrimSpace(scanner.Text())
		if title == "" || strings.HasPrefix(title, "#") {
			continue
		}
		key := strings.ToLower(title)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		titles = append(titles, title)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return titles, nil
}
