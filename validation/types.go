// Package validation provides structural analysis for ladder programs and a
// bounded simulation check, producing pass/fail plus diagnostics for callers
// such as an automated regenerate-and-retry loop.
package validation

import (
	"time"

	"github.com/ladderlab-xyz/go-ladder/ladder"
)

// Result contains the outcome of validating one program.
type Result struct {
	Valid    bool       `json:"valid"`
	Errors   []Issue    `json:"errors,omitempty"`
	Warnings []Issue    `json:"warnings,omitempty"`
	Info     []Issue    `json:"info,omitempty"`
	Summary  Summary    `json:"summary"`
	Run      *RunReport `json:"run,omitempty"`
}

// Issue represents a single validation finding.
type Issue struct {
	Severity   string   `json:"severity"` // "error", "warning", "info"
	Category   string   `json:"category"` // "structure", "addressing", "simulation"
	Message    string   `json:"message"`
	Location   []string `json:"location,omitempty"` // affected networks/addresses
	Suggestion string   `json:"suggestion,omitempty"`
}

// Summary provides an overview of the validated program.
type Summary struct {
	Networks int `json:"networks"`
	Elements int `json:"elements"`
	Mappings int `json:"mappings"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

// RunReport describes a bounded simulation run.
type RunReport struct {
	Ticks           int           `json:"ticks"`
	CycleCount      uint64        `json:"cycleCount"`
	ScanTime        time.Duration `json:"scanTime"`
	OutputsAsserted []string      `json:"outputsAsserted,omitempty"`
	OutputsSilent   []string      `json:"outputsSilent,omitempty"`
}

// Validator accumulates issues for one program.
type Validator struct {
	program *ladder.Program
	result  *Result
}

// NewValidator creates a validator for a program.
func NewValidator(p *ladder.Program) *Validator {
	elements := 0
	for i := range p.Networks {
		elements += len(p.Networks[i].AllElements())
	}
	return &Validator{
		program: p,
		result: &Result{
			Valid: true,
			Summary: Summary{
				Networks: len(p.Networks),
				Elements: elements,
				Mappings: len(p.IOMappings),
			},
		},
	}
}

// AddError records an error issue.
func (v *Validator) AddError(category, message string, location []string, suggestion string) {
	v.result.Errors = append(v.result.Errors, Issue{
		Severity:   "error",
		Category:   category,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// AddWarning records a warning issue.
func (v *Validator) AddWarning(category, message string, location []string, suggestion string) {
	v.result.Warnings = append(v.result.Warnings, Issue{
		Severity:   "warning",
		Category:   category,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// AddInfo records an informational issue.
func (v *Validator) AddInfo(category, message string, location []string) {
	v.result.Info = append(v.result.Info, Issue{
		Severity: "info",
		Category: category,
		Message:  message,
		Location: location,
	})
}
