package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"stockwatch/lib/telemetry"
)

type ScenarioParams struct {
	Name string
	// file name -> contents, written into the scenario directory
	Files map[string]string
}

type ScenarioResult struct {
	Dir string
}

// SetupScenario creates a temp working directory seeded with the
// given fixture files and sets up telemetry for the test.
func SetupScenario(t testing.TB, params ScenarioParams) (ScenarioResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dir := t.TempDir()
	for name, contents := range params.Files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0600)
		if err != nil {
			t.Fatal(err)
		}
	}

	return ScenarioResult{Dir: dir}, cleanup
}
