package main

import (
	"errors"
	"strings"
	"testing"
)

// ============================================================================
// Pipeline Management Tests
// ============================================================================

// TestAddStep tests basic step creation
func TestAddStep(t *testing.T) {
	core := NewTextConvCore()

	stepID, err := core.AddStep("uppercase", nil, false)
	if err != nil {
		t.Fatalf("AddStep should succeed, got error: %v", err)
	}
	if stepID != "step_0" {
		t.Errorf("Expected stepID 'step_0', got '%s'", stepID)
	}

	step := core.GetStep(stepID)
	if step == nil {
		t.Fatal("Step should exist")
	}
	if step.Tool != "uppercase" {
		t.Errorf("Expected tool 'uppercase', got '%s'", step.Tool)
	}
}

// TestAddStepNormalizesToolName tests that tool names are stored canonically
func TestAddStepNormalizesToolName(t *testing.T) {
	core := NewTextConvCore()

	stepID, _ := core.AddStep(" Sentence-Case ", nil, false)
	if tool := core.GetStep(stepID).Tool; tool != "sentence-case" {
		t.Errorf("Expected tool 'sentence-case', got '%s'", tool)
	}
}

// TestAddUnknownStep tests that unknown tools are rejected
func TestAddUnknownStep(t *testing.T) {
	core := NewTextConvCore()

	_, err := core.AddStep("frobnicate", nil, false)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Expected ErrUnknownTool, got %v", err)
	}
	if len(core.GetPipeline()) != 0 {
		t.Error("Pipeline should stay empty")
	}
}

// TestAddMultipleSteps tests sequential step IDs
func TestAddMultipleSteps(t *testing.T) {
	core := NewTextConvCore()

	id1, _ := core.AddStep("uppercase", nil, false)
	id2, _ := core.AddStep("lowercase", nil, false)
	id3, _ := core.AddStep("replace-text", Params{"find": "a", "replace": "b"}, false)

	if id1 != "step_0" || id2 != "step_1" || id3 != "step_2" {
		t.Errorf("Expected sequential IDs, got %s, %s, %s", id1, id2, id3)
	}
	if len(core.GetPipeline()) != 3 {
		t.Errorf("Expected 3 steps, got %d", len(core.GetPipeline()))
	}
}

// TestUpdateStep tests updating an existing step
func TestUpdateStep(t *testing.T) {
	core := NewTextConvCore()
	stepID, _ := core.AddStep("uppercase", nil, false)
	core.SetInputText("a-b")

	err := core.UpdateStep(stepID, "replace-text", Params{"find": "-", "replace": "+"}, true)
	if err != nil {
		t.Fatalf("Update should succeed, got error: %v", err)
	}

	step := core.GetStep(stepID)
	if step.Tool != "replace-text" || step.Params["find"] != "-" || !step.LineBased {
		t.Errorf("Unexpected step after update: %+v", step)
	}
	if core.GetOutputText() != "a+b" {
		t.Errorf("Expected output 'a+b', got '%s'", core.GetOutputText())
	}
}

// TestUpdateNonexistentStep tests updating a step that doesn't exist
func TestUpdateNonexistentStep(t *testing.T) {
	core := NewTextConvCore()

	if err := core.UpdateStep("nonexistent", "uppercase", nil, false); err == nil {
		t.Error("Expected error when updating nonexistent step")
	}
}

// TestDeleteStep tests deleting a step
func TestDeleteStep(t *testing.T) {
	core := NewTextConvCore()
	id1, _ := core.AddStep("uppercase", nil, false)
	id2, _ := core.AddStep("trim", nil, false)
	_ = core.SelectStep(id1)

	if err := core.DeleteStep(id1); err != nil {
		t.Fatalf("Delete should succeed, got error: %v", err)
	}
	if core.GetStep(id1) != nil {
		t.Error("Deleted step should not exist")
	}
	if core.GetStep(id2) == nil {
		t.Error("Remaining step should still exist")
	}
	if core.GetSelectedStepID() != "" {
		t.Error("Selection should be cleared when the selected step is deleted")
	}
	if err := core.DeleteStep(id1); err == nil {
		t.Error("Expected error when deleting twice")
	}
}

// TestSelectStep tests selecting steps
func TestSelectStep(t *testing.T) {
	core := NewTextConvCore()
	stepID, _ := core.AddStep("uppercase", nil, false)

	if err := core.SelectStep(stepID); err != nil {
		t.Fatalf("Select should succeed, got error: %v", err)
	}
	if core.GetSelectedStepID() != stepID {
		t.Errorf("Expected selected step '%s', got '%s'", stepID, core.GetSelectedStepID())
	}
	if err := core.SelectStep("nonexistent"); err == nil {
		t.Error("Expected error when selecting nonexistent step")
	}
}

// TestMoveSteps tests reordering steps
func TestMoveSteps(t *testing.T) {
	core := NewTextConvCore()
	up, _ := core.AddStep("uppercase", nil, false)
	rep, _ := core.AddStep("replace-text", Params{"find": "a", "replace": "x"}, false)
	core.SetInputText("banana")

	if core.GetOutputText() != "BANANA" {
		t.Fatalf("Expected 'BANANA', got '%s'", core.GetOutputText())
	}

	if err := core.MoveStepUp(rep); err != nil {
		t.Fatalf("MoveStepUp failed: %v", err)
	}
	if core.GetOutputText() != "BXNXNX" {
		t.Errorf("Expected 'BXNXNX' after reorder, got '%s'", core.GetOutputText())
	}
	if err := core.MoveStepUp(rep); err == nil {
		t.Error("Expected error moving the first step up")
	}
	if err := core.MoveStepDown(up); err == nil {
		t.Error("Expected error moving the last step down")
	}
	if err := core.MoveStepDown(rep); err != nil {
		t.Errorf("MoveStepDown failed: %v", err)
	}
	if core.GetPipeline()[0].ID != up {
		t.Error("Expected original order to be restored")
	}
}

// ============================================================================
// Text Processing Tests
// ============================================================================

// TestSetInputText tests setting and retrieving input text
func TestSetInputText(t *testing.T) {
	core := NewTextConvCore()

	text := "Hello World"
	core.SetInputText(text)

	if core.GetInputText() != text {
		t.Errorf("Expected input '%s', got '%s'", text, core.GetInputText())
	}
	if core.GetOutputText() != text {
		t.Errorf("Expected empty pipeline to keep input, got '%s'", core.GetOutputText())
	}
}

// TestChainedSteps tests multiple tools in sequence
func TestChainedSteps(t *testing.T) {
	core := NewTextConvCore()
	core.AddStep("comma-to-list", nil, false)
	core.AddStep("ordered-list", Params{"marker_style": "roman-upper"}, false)

	core.SetInputText("red, green, blue")

	expected := "I. red\nII. green\nIII. blue"
	if core.GetOutputText() != expected {
		t.Errorf("Expected %q, got %q", expected, core.GetOutputText())
	}
}

// TestFailingStepKeepsInput tests that a failing tool never discards the input
func TestFailingStepKeepsInput(t *testing.T) {
	core := NewTextConvCore()
	core.AddStep("uppercase", nil, false)
	stepID, _ := core.AddStep("text-to-binary", nil, false)

	core.SetInputText("café")

	if core.GetOutputText() != "café" {
		t.Errorf("Expected unmodified input, got '%s'", core.GetOutputText())
	}
	if !strings.Contains(core.GetLastError(), stepID) {
		t.Errorf("Expected error naming %s, got '%s'", stepID, core.GetLastError())
	}

	core.SetInputText("ok")
	if core.GetLastError() != "" {
		t.Errorf("Expected error to clear, got '%s'", core.GetLastError())
	}
	if core.GetOutputText() != "01001111 01001011" {
		t.Errorf("Unexpected output '%s'", core.GetOutputText())
	}
}

// TestConvertDoesNotTouchSession tests one-shot conversion
func TestConvertDoesNotTouchSession(t *testing.T) {
	core := NewTextConvCore()
	core.SetInputText("keep")

	out, err := core.Convert("decimal-to-ascii", "72 105", nil)
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if out.Text != "Hi" {
		t.Errorf("Expected 'Hi', got '%s'", out.Text)
	}
	if core.GetOutputText() != "keep" {
		t.Error("Convert must not change the session output")
	}
}

// TestGetStepReturnsCopy tests that callers cannot mutate the pipeline
func TestGetStepReturnsCopy(t *testing.T) {
	core := NewTextConvCore()
	stepID, _ := core.AddStep("replace-text", Params{"find": "a", "replace": "b"}, false)

	step := core.GetStep(stepID)
	step.Params["find"] = "z"

	if core.GetStep(stepID).Params["find"] != "a" {
		t.Error("Pipeline step was mutated through GetStep")
	}
}

// ============================================================================
// Import/Export Tests
// ============================================================================

// TestRoundTripExportImport tests exporting and importing a pipeline
func TestRoundTripExportImport(t *testing.T) {
	core1 := NewTextConvCore()
	core1.AddStep("trim", nil, false)
	core1.AddStep("ordered-list", Params{"marker_style": "alpha-lower"}, true)

	exported, err := core1.ExportPipeline()
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	core2 := NewTextConvCore()
	if err := core2.ImportPipeline(exported); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	p1, p2 := core1.GetPipeline(), core2.GetPipeline()
	if len(p1) != len(p2) {
		t.Fatalf("Expected %d steps, got %d", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i].ID != p2[i].ID || p1[i].Tool != p2[i].Tool || p1[i].LineBased != p2[i].LineBased {
			t.Errorf("Step %d differs: %+v vs %+v", i, p1[i], p2[i])
		}
	}
}

// TestStepCounterAfterImport tests that new IDs do not collide with imported ones
func TestStepCounterAfterImport(t *testing.T) {
	core := NewTextConvCore()
	err := core.ImportPipeline(`[{"id":"step_7","tool":"uppercase"},{"tool":"trim"}]`)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	pipeline := core.GetPipeline()
	if pipeline[1].ID != "step_8" {
		t.Errorf("Expected missing ID to become 'step_8', got '%s'", pipeline[1].ID)
	}

	newID, _ := core.AddStep("lowercase", nil, false)
	if newID != "step_9" {
		t.Errorf("Expected 'step_9', got '%s'", newID)
	}
}

// TestImportDuplicateIDs tests that repeated IDs are reassigned so every step is reachable
func TestImportDuplicateIDs(t *testing.T) {
	core := NewTextConvCore()
	err := core.ImportPipeline(`[{"id":"step_2","tool":"uppercase"},{"id":"step_2","tool":"trim"},{"id":"step_2","tool":"lowercase"}]`)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	pipeline := core.GetPipeline()
	ids := []string{pipeline[0].ID, pipeline[1].ID, pipeline[2].ID}
	expected := []string{"step_2", "step_3", "step_4"}
	for i := range expected {
		if ids[i] != expected[i] {
			t.Errorf("Step %d: expected ID '%s', got '%s'", i, expected[i], ids[i])
		}
	}

	if err := core.DeleteStep("step_3"); err != nil {
		t.Fatalf("DeleteStep failed: %v", err)
	}
	pipeline = core.GetPipeline()
	if len(pipeline) != 2 || pipeline[1].Tool != "lowercase" {
		t.Errorf("Expected the trim step to be deleted, got %+v", pipeline)
	}
}

// TestImportInvalid tests importing malformed pipelines
func TestImportInvalid(t *testing.T) {
	core := NewTextConvCore()
	core.AddStep("uppercase", nil, false)

	if err := core.ImportPipeline("not json"); err == nil {
		t.Error("Expected error for invalid JSON")
	}
	if err := core.ImportPipeline(`[{"id":"step_0","tool":"nope"}]`); !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Expected ErrUnknownTool, got %v", err)
	}
	if len(core.GetPipeline()) != 1 {
		t.Error("Failed import must leave the pipeline unchanged")
	}
}
