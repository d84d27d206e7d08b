package stockwatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store persists the set of skus recorded out of stock by the last
// run as a newline-delimited file.
type Store struct {
	Path string
}

// Load returns the previous run's out-of-stock set. a missing file
// is a first run, not an error.
func (s Store) Load() (map[string]struct{}, error) {
	contents, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, err
	}

	previous := map[string]struct{}{}
	for _, line := range strings.Split(string(contents), "\n") {
		sku := strings.TrimSpace(line)
		if sku == "" {
			continue
		}
		previous[sku] = struct{}{}
	}
	return previous, nil
}

// Save replaces the on-disk record with the given skus. the write
// goes to a temp file in the same directory which is then renamed
// into place so a partial write never corrupts the store.
func (s Store) Save(skus []string) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}

	var out strings.Builder
	for _, sku := range skus {
		out.WriteString(sku)
		out.WriteString("\n")
	}

	_, err = tmp.WriteString(out.String())
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store file: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close store file: %w", err)
	}

	err = os.Rename(tmp.Name(), s.Path)
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
