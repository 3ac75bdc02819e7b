package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/koyoi/falls/internal/config"
)

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"preset.json":   `{"emitter":{"rate_per_sec":999999}}`,
		"sequence.json": `{"tracks":[{"t":0,"apply":{"preset":"alt.json","force":"missing.json"}},{"t":5,"apply":{"preset":"alt.json"}}]}`,
		"capture.json":  `not json`,
		"alt.json":      `{"name":"alt"}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	reports := checkDir(dir, "")
	status := make(map[string]docReport)
	for _, r := range reports {
		status[filepath.Base(r.File)] = r
	}

	if r := status["preset.json"]; r.Status != "ok" || r.Value.(config.Preset).EmissionRate != config.MaxEmissionRate {
		t.Errorf("Unexpected preset report %+v", r)
	}
	if r := status["forcefield.json"]; r.Status != "missing" || r.Value != nil {
		t.Errorf("Unexpected forcefield report %+v", r)
	}
	if r := status["capture.json"]; r.Status != "malformed" || r.Error == "" {
		t.Errorf("Unexpected capture report %+v", r)
	}
	if r := status["alt.json"]; r.Status != "ok" {
		t.Errorf("Unexpected track preset report %+v", r)
	}
	if r := status["missing.json"]; r.Status != "missing" {
		t.Errorf("Unexpected track force report %+v", r)
	}
	// 5 watched documents plus 2 distinct track references.
	if len(reports) != 7 {
		t.Errorf("Expected 7 reports, got %d", len(reports))
	}
}
