package detector

import (
	"testing"

	"github.com/MrWong99/semanticchunker/pkg/chunker"
)

func TestRunStageD_HeaderForcesBoundary(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "Some closing prose.", StructureType: chunker.Plain},
		{Text: "Next Section", StructureType: chunker.Header},
	}
	candidates := []Candidate{{Index: 0, Boundary: false, Resolved: true, Source: "stage_a"}}
	runStageD(sentences, candidates, StageDConfig{})
	if !candidates[0].Boundary || candidates[0].Source != "stage_d" {
		t.Errorf("candidate = %+v, want forced boundary before header", candidates[0])
	}
}

func TestRunStageD_SameStructureListNeverBoundary(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "first item", StructureType: chunker.List, IndentLevel: 0},
		{Text: "second item", StructureType: chunker.List, IndentLevel: 0},
	}
	candidates := []Candidate{{Index: 0, Boundary: true, Resolved: true, Source: "stage_c"}}
	runStageD(sentences, candidates, StageDConfig{})
	if candidates[0].Boundary {
		t.Errorf("candidate = %+v, want demoted to non-boundary for sibling list items", candidates[0])
	}
}

func TestRunStageD_IndentOutdentForcesBoundary(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "deeply nested detail.", StructureType: chunker.Plain, IndentLevel: 8},
		{Text: "back to top level.", StructureType: chunker.Plain, IndentLevel: 0},
	}
	candidates := []Candidate{{Index: 0, Boundary: false, Resolved: true, Source: "stage_a"}}
	runStageD(sentences, candidates, StageDConfig{IndentDeltaThreshold: 4})
	if !candidates[0].Boundary {
		t.Errorf("candidate = %+v, want forced boundary on sharp outdent", candidates[0])
	}
}

func TestRunStageD_HighEntityOverlapDemotes(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "Marie Curie discovered Polonium in Paris.", StructureType: chunker.Plain},
		{Text: "Marie Curie later isolated Radium in Paris.", StructureType: chunker.Plain},
	}
	candidates := []Candidate{{Index: 0, Boundary: true, Resolved: true, Source: "stage_c"}}
	runStageD(sentences, candidates, StageDConfig{EntityJaccardThreshold: 0.3})
	if candidates[0].Boundary {
		t.Errorf("candidate = %+v, want demoted due to shared entities", candidates[0])
	}
}

func TestRunStageD_ConnectiveDemotes(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "The experiment produced unexpected results.", StructureType: chunker.Plain},
		{Text: "However, the margin of error was small.", StructureType: chunker.Plain},
	}
	candidates := []Candidate{{Index: 0, Boundary: true, Resolved: true, Source: "stage_c"}}
	runStageD(sentences, candidates, StageDConfig{})
	if candidates[0].Boundary {
		t.Errorf("candidate = %+v, want demoted after leading connective", candidates[0])
	}
}

func TestRunStageD_LeavesLowOverlapBoundaryAlone(t *testing.T) {
	sentences := []chunker.Sentence{
		{Text: "The chef prepared a five course meal.", StructureType: chunker.Plain},
		{Text: "Quantum computers use qubits instead of bits.", StructureType: chunker.Plain},
	}
	candidates := []Candidate{{Index: 0, Boundary: true, Resolved: true, Source: "stage_c"}}
	runStageD(sentences, candidates, StageDConfig{})
	if !candidates[0].Boundary {
		t.Errorf("candidate = %+v, want boundary preserved for unrelated passages", candidates[0])
	}
}
