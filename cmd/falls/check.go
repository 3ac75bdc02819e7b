package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/koyoi/falls/internal/config"
	"github.com/koyoi/falls/internal/director"
	"github.com/koyoi/falls/internal/sequence"
)

var checkCmd = &cobra.Command{
	Use:   "check [dir]",
	Short: "Validate the runtime documents in a directory",
	Long: `Load every runtime document the way the director would and print the
resulting (clamped) records as YAML. Track references in sequence.json are
resolved and loaded too.

Exits with status 1 if any document is malformed.

Examples:
  falls check
  falls check ./runtime`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

// docReport is the outcome of loading one document.
type docReport struct {
	File   string `yaml:"file"`
	Status string `yaml:"status"`
	Error  string `yaml:"error,omitempty"`
	Value  any    `yaml:"value,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	dir := settings.WatchDir
	if len(args) == 1 {
		dir = args[0]
	}

	reports := checkDir(dir, settings.ResRoot)

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"dir": dir, "documents": reports}); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	for _, r := range reports {
		if r.Status == "malformed" {
			return errors.New("one or more documents are malformed")
		}
	}
	return nil
}

// checkDir loads every watched document in dir plus the documents the
// sequence refers to.
func checkDir(dir, resRoot string) []docReport {
	path := func(name string) string { return filepath.Join(dir, name) }

	preset, err := config.LoadPreset(path(director.PresetFile))
	reports := []docReport{report(director.PresetFile, preset, err)}

	ff, err := config.LoadForceField(path(director.ForceFieldFile))
	reports = append(reports, report(director.ForceFieldFile, ff, err))

	seq, err := config.LoadSequence(path(director.SequenceFile))
	reports = append(reports, report(director.SequenceFile, seq, err))

	capDoc, err := config.LoadCapture(path(director.CaptureFile))
	reports = append(reports, report(director.CaptureFile, capDoc, err))

	if _, err := os.Stat(path(director.MaskFile)); err == nil {
		reports = append(reports, docReport{File: director.MaskFile, Status: "ok"})
	} else {
		reports = append(reports, docReport{File: director.MaskFile, Status: "missing"})
	}

	if resRoot == "" {
		resRoot = dir
	}
	seen := make(map[string]bool)
	for _, tr := range seq.Tracks {
		if tr.Preset != "" {
			ref := sequence.ResolveRef(dir, resRoot, tr.Preset)
			if !seen[ref] {
				seen[ref] = true
				p, err := config.LoadPreset(ref)
				reports = append(reports, report(ref, p, err))
			}
		}
		if tr.Force != "" {
			ref := sequence.ResolveRef(dir, resRoot, tr.Force)
			if !seen[ref] {
				seen[ref] = true
				f, err := config.LoadForceField(ref)
				reports = append(reports, report(ref, f, err))
			}
		}
	}
	return reports
}

func report(file string, value any, err error) docReport {
	r := docReport{File: file, Status: "ok", Value: value}
	switch {
	case err == nil:
	case errors.Is(err, config.ErrMissingFile):
		r.Status = "missing"
		r.Value = nil
	default:
		r.Status = "malformed"
		r.Error = err.Error()
		r.Value = nil
	}
	return r
}
