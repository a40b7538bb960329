package report

import (
	"encoding/json"
	"fmt"
	"io"
)

// SARIFWriter outputs failures in SARIF v2.1.0 format.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, run *Run) error {
	log := buildSARIF(run)
	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	ShortDescription sarifMessage `json:"shortDescription"`
	DefaultConfig    sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

var stageRules = map[string]sarifRule{
	StageFormat: {
		ID:               "presubmit/format",
		Name:             "format",
		ShortDescription: sarifMessage{Text: "isort and black reformatting"},
		DefaultConfig:    sarifConfig{Level: "error"},
	},
	StageLint: {
		ID:               "presubmit/lint",
		Name:             "lint",
		ShortDescription: sarifMessage{Text: "flake8 and pylint findings"},
		DefaultConfig:    sarifConfig{Level: "error"},
	},
	StageVerify: {
		ID:               "presubmit/verify",
		Name:             "verify",
		ShortDescription: sarifMessage{Text: "mypy type checking"},
		DefaultConfig:    sarifConfig{Level: "error"},
	},
}

func buildSARIF(run *Run) sarifLog {
	rules := []sarifRule{}
	results := []sarifResult{}
	seen := make(map[string]bool)

	for _, f := range run.Files {
		if !f.Failed() {
			continue
		}

		stage := failedStage(f)
		if !seen[stage] {
			seen[stage] = true
			rules = append(rules, stageRules[stage])
		}

		text := f.Failure
		if out := failureOutput(f); out != "" {
			text += "\n\n" + out
		}

		results = append(results, sarifResult{
			RuleID:  "presubmit/" + stage,
			Level:   "error",
			Message: sarifMessage{Text: text},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: f.Path},
				},
			}},
		})
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "presubmit",
						Version:        run.Version,
						InformationURI: "https://github.com/presubmit-dev/presubmit",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}
