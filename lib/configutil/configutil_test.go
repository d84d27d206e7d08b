package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Timeout int    `json:"timeout_seconds"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json5")

	err := os.WriteFile(name, []byte(`{
		// trailing commas and comments are fine
		base_url: "https://example-store.com",
		timeout_seconds: 10,
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	config, err := ReadConfig[testConfig](name)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "https://example-store.com", config.BaseUrl)
	require.Equal(t, 10, config.Timeout)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()

	err := os.WriteFile(filepath.Join(dir, "config.json5"), []byte(`{
		base_url: "https://example-store.com",
		timeout_seconds: 10,
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}
	err = os.WriteFile(filepath.Join(dir, "config.local.json5"), []byte(`{
		base_url: "http://localhost:8080",
	}`), 0600)
	if err != nil {
		t.Fatal(err)
	}

	config, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "http://localhost:8080", config.BaseUrl)
	require.Equal(t, 10, config.Timeout)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.True(t, os.IsNotExist(err))
}
