package stockwatch

import (
	"os"
	"strings"
)

// ReadSkuFile reads a newline-delimited sku list. blank lines are
// skipped, surrounding whitespace is trimmed and duplicates keep
// their first position so downstream output order stays stable.
func ReadSkuFile(path string) ([]string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var skus []string
	for _, line := range strings.Split(string(contents), "\n") {
		sku := strings.TrimSpace(line)
		if sku == "" {
			continue
		}
		if _, ok := seen[sku]; ok {
			continue
		}
		seen[sku] = struct{}{}
		skus = append(skus, sku)
	}
	return skus, nil
}
