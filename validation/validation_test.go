package validation

import (
	"strings"
	"testing"

	"github.com/ladderlab-xyz/go-ladder/ladder/notation"
)

func TestValidate_CleanProgram(t *testing.T) {
	prog := notation.MustParse("Network 1\n[ I0.0 ]--( Q0.0 )\n\nI/O Mapping:\nI0.0 - Start\nQ0.0 - Motor\n")
	result := NewValidator(prog).Validate()

	if !result.Valid {
		t.Fatalf("expected valid, got errors: %+v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
	if result.Summary.Networks != 1 || result.Summary.Elements != 2 || result.Summary.Mappings != 2 {
		t.Errorf("unexpected summary: %+v", result.Summary)
	}
}

func TestValidate_EmptyNetworkWarns(t *testing.T) {
	prog := notation.MustParse("Network 1\n[ not parseable ]\n\nNetwork 2\n[ I0.0 ]--( Q0.0 )\n")
	result := NewValidator(prog).Validate()

	if !result.Valid {
		t.Fatal("an empty network is a warning, not an error")
	}
	if !hasIssue(result.Warnings, "no elements") {
		t.Errorf("expected an empty-network warning, got %+v", result.Warnings)
	}
}

func TestValidate_MissingOutputWarns(t *testing.T) {
	prog := notation.MustParse("Network 1\n[ I0.0 ]--[ I0.1 ]\n")
	result := NewValidator(prog).Validate()
	if !hasIssue(result.Warnings, "no output element") {
		t.Errorf("expected a missing-output warning, got %+v", result.Warnings)
	}
}

func TestValidate_DuplicateCoilsWarn(t *testing.T) {
	prog := notation.MustParse("Network 1\n[ I0.0 ]--( Q0.0 )\n\nNetwork 2\n[ I0.1 ]--( Q0.0 )\n")
	result := NewValidator(prog).Validate()
	if !hasIssue(result.Warnings, "driven by coils in networks") {
		t.Errorf("expected a duplicate-coil warning, got %+v", result.Warnings)
	}
}

func TestValidate_UnknownNamespaceWarns(t *testing.T) {
	prog := notation.MustParse("Network 1\n[ X5 ]--( Q0.0 )\n")
	result := NewValidator(prog).Validate()
	if !hasIssue(result.Warnings, "no known namespace") {
		t.Errorf("expected an unknown-namespace warning, got %+v", result.Warnings)
	}
}

func TestValidate_CoilOnInputWarns(t *testing.T) {
	prog := notation.MustParse("Network 1\n[ I0.0 ]--( I0.1 )\n")
	result := NewValidator(prog).Validate()
	if !hasIssue(result.Warnings, "not a Q or M address") {
		t.Errorf("expected a coil-binding warning, got %+v", result.Warnings)
	}
}

func TestValidateWithRun_ReportsOutputs(t *testing.T) {
	// An unconditional rung asserts its output; a gated one stays silent with
	// all inputs false.
	prog := notation.MustParse("Network 1\n[/ M9.9 ]--( Q0.0 )\n\nNetwork 2\n[ I0.0 ]--( Q0.1 )\n")
	result := NewValidator(prog).ValidateWithRun(10)

	if result.Run == nil {
		t.Fatal("expected a run report")
	}
	if result.Run.CycleCount != 10 {
		t.Errorf("expected 10 cycles, got %d", result.Run.CycleCount)
	}
	if len(result.Run.OutputsAsserted) != 1 || result.Run.OutputsAsserted[0] != "Q0.0" {
		t.Errorf("expected Q0.0 asserted, got %v", result.Run.OutputsAsserted)
	}
	if len(result.Run.OutputsSilent) != 1 || result.Run.OutputsSilent[0] != "Q0.1" {
		t.Errorf("expected Q0.1 silent, got %v", result.Run.OutputsSilent)
	}
}

func TestValidateWithRun_AllSilentInfo(t *testing.T) {
	prog := notation.MustParse("Network 1\n[ I0.0 ]--( Q0.0 )\n")
	result := NewValidator(prog).ValidateWithRun(5)
	if !hasIssue(result.Info, "no output asserted") {
		t.Errorf("expected an all-silent info issue, got %+v", result.Info)
	}
}

func hasIssue(issues []Issue, fragment string) bool {
	for _, i := range issues {
		if strings.Contains(i.Message, fragment) {
			return true
		}
	}
	return false
}
