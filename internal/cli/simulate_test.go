package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/gridnet/pkg/errors"
)

func TestSimulateTables(t *testing.T) {
	var out bytes.Buffer
	c := testCLI(t)
	if err := c.runSimulate(context.Background(), &out, lineScenario, simulateOpts{verify: true}); err != nil {
		t.Fatalf("runSimulate: %v", err)
	}
	text := out.String()
	for _, want := range []string{"line", "deactivate [B]", "A C D E", "merges"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestSimulateJSON(t *testing.T) {
	var out bytes.Buffer
	c := testCLI(t)
	if err := c.runSimulate(context.Background(), &out, lineScenario, simulateOpts{json: true}); err != nil {
		t.Fatalf("runSimulate: %v", err)
	}

	var got struct {
		RunID    string `json:"run_id"`
		Scenario string `json:"scenario"`
		Steps    []struct {
			Index    int `json:"index"`
			Snapshot struct {
				Networks []struct {
					Members []string `json:"members"`
				} `json:"networks"`
			} `json:"snapshot"`
		} `json:"steps"`
		Stats struct {
			Rebuilds int `json:"rebuilds"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(got.RunID) != 36 {
		t.Errorf("run_id = %q, want a UUID", got.RunID)
	}
	if got.Scenario != "line" || len(got.Steps) != 9 {
		t.Errorf("scenario %q with %d steps, want line with 9", got.Scenario, len(got.Steps))
	}
	// One rebuild when B leaves, one when connecting E reports C's new
	// adjacency and the remnant {D} is remade.
	if got.Stats.Rebuilds != 2 {
		t.Errorf("rebuilds = %d, want 2", got.Stats.Rebuilds)
	}
	last := got.Steps[len(got.Steps)-1].Snapshot.Networks
	if len(last) != 1 || strings.Join(last[0].Members, ",") != "A,C,D,E" {
		t.Errorf("final networks = %+v", last)
	}
}

func TestSimulateMetrics(t *testing.T) {
	var out bytes.Buffer
	c := testCLI(t)
	if err := c.runSimulate(context.Background(), &out, lineScenario, simulateOpts{metrics: true}); err != nil {
		t.Fatalf("runSimulate: %v", err)
	}
	for _, want := range []string{"gridnet_node_activations_total", "gridnet_networks_created_total"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("metrics summary missing %q", want)
		}
	}
}

func TestSimulateFailedExpectation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wrong.yaml")
	content := `name: wrong
nodes:
  - {id: A, kind: lv, active: true}
  - {id: B, kind: lv, active: true}
steps:
  - op: expect
    together: [A, B]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := testCLI(t).runSimulate(context.Background(), &out, path, simulateOpts{})
	if !errs.Is(err, errs.ErrCodeExpectationFailed) {
		t.Fatalf("err = %v, want EXPECTATION_FAILED", err)
	}
	if !strings.Contains(out.String(), "expect") {
		t.Errorf("failed step should still be printed:\n%s", out.String())
	}
}

func TestSimulateMissingFile(t *testing.T) {
	err := testCLI(t).runSimulate(context.Background(), &bytes.Buffer{}, "does-not-exist.toml", simulateOpts{})
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}
