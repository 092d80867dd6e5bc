package main

import (
	"encoding/json"
	"fmt"
)

// PipelineStep is one tool invocation in the session pipeline
type PipelineStep struct {
	ID        string `json:"id"`
	Tool      string `json:"tool"`
	Params    Params `json:"params,omitempty"`
	LineBased bool   `json:"line_based,omitempty"`
}

// TextConvCore is the headless session core. It owns the input buffer and
// the pipeline; output is recomputed whenever either changes.
type TextConvCore struct {
	pipeline       []PipelineStep
	selectedStepID string
	inputText      string
	outputText     string
	lastError      string
	stepCounter    int // For generating unique IDs
}

// NewTextConvCore creates a new TextConvCore instance
func NewTextConvCore() *TextConvCore {
	return &TextConvCore{
		pipeline: []PipelineStep{},
	}
}

// ============================================================================
// Pipeline Management Methods
// ============================================================================

// AddStep appends a step and returns its ID
func (tc *TextConvCore) AddStep(tool string, params Params, lineBased bool) (string, error) {
	op, ok := FindOperation(tool)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}

	step := PipelineStep{
		ID:        tc.generateStepID(),
		Tool:      op.Name,
		Params:    copyParams(params),
		LineBased: lineBased,
	}

	tc.pipeline = append(tc.pipeline, step)
	tc.processText()
	return step.ID, nil
}

// UpdateStep updates an existing step by ID
func (tc *TextConvCore) UpdateStep(stepID, tool string, params Params, lineBased bool) error {
	step := tc.findStepByID(stepID)
	if step == nil {
		return fmt.Errorf("step not found: %s", stepID)
	}

	op, ok := FindOperation(tool)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, tool)
	}

	step.Tool = op.Name
	step.Params = copyParams(params)
	step.LineBased = lineBased

	tc.processText()
	return nil
}

// DeleteStep deletes a step by ID
func (tc *TextConvCore) DeleteStep(stepID string) error {
	i := tc.findStepIndexByID(stepID)
	if i < 0 {
		return fmt.Errorf("step not found: %s", stepID)
	}

	tc.pipeline = append(tc.pipeline[:i], tc.pipeline[i+1:]...)
	if tc.selectedStepID == stepID {
		tc.selectedStepID = ""
	}
	tc.processText()
	return nil
}

// SelectStep sets the currently selected step
func (tc *TextConvCore) SelectStep(stepID string) error {
	if tc.findStepByID(stepID) == nil {
		return fmt.Errorf("step not found: %s", stepID)
	}
	tc.selectedStepID = stepID
	return nil
}

// MoveStepUp swaps a step with its predecessor
func (tc *TextConvCore) MoveStepUp(stepID string) error {
	i := tc.findStepIndexByID(stepID)
	if i < 0 {
		return fmt.Errorf("step not found: %s", stepID)
	}
	if i == 0 {
		return fmt.Errorf("step %s is already first", stepID)
	}

	tc.pipeline[i], tc.pipeline[i-1] = tc.pipeline[i-1], tc.pipeline[i]
	tc.processText()
	return nil
}

// MoveStepDown swaps a step with its successor
func (tc *TextConvCore) MoveStepDown(stepID string) error {
	i := tc.findStepIndexByID(stepID)
	if i < 0 {
		return fmt.Errorf("step not found: %s", stepID)
	}
	if i == len(tc.pipeline)-1 {
		return fmt.Errorf("step %s is already last", stepID)
	}

	tc.pipeline[i], tc.pipeline[i+1] = tc.pipeline[i+1], tc.pipeline[i]
	tc.processText()
	return nil
}

// ============================================================================
// Text Processing Methods
// ============================================================================

// SetInputText sets the input text and processes it through the pipeline
func (tc *TextConvCore) SetInputText(text string) {
	tc.inputText = text
	tc.processText()
}

// GetInputText returns the current input text
func (tc *TextConvCore) GetInputText() string {
	return tc.inputText
}

// GetOutputText returns the current output text
func (tc *TextConvCore) GetOutputText() string {
	return tc.outputText
}

// GetLastError returns the error of the last pipeline run
func (tc *TextConvCore) GetLastError() string {
	return tc.lastError
}

// Convert runs one tool on input, independent of the session pipeline
func (tc *TextConvCore) Convert(tool, input string, params Params) (Output, error) {
	return ProcessText(input, tool, params)
}

// processText executes the pipeline on the input text and updates outputText.
// A failing step leaves the output equal to the input so nothing the user
// typed is lost; the failure is kept in lastError.
func (tc *TextConvCore) processText() {
	output := tc.inputText
	for _, step := range tc.pipeline {
		out, err := ProcessTextWithMode(output, step.Tool, step.Params, step.LineBased)
		if err != nil {
			tc.outputText = tc.inputText
			tc.lastError = fmt.Sprintf("step %s: %v", step.ID, err)
			return
		}
		output = out.Text
	}
	tc.outputText = output
	tc.lastError = ""
}

// ============================================================================
// Query Methods
// ============================================================================

// GetStep returns a copy of a step by ID, or nil if not found
func (tc *TextConvCore) GetStep(stepID string) *PipelineStep {
	step := tc.findStepByID(stepID)
	if step == nil {
		return nil
	}
	c := *step
	c.Params = copyParams(step.Params)
	return &c
}

// GetSelectedStepID returns the ID of the currently selected step
func (tc *TextConvCore) GetSelectedStepID() string {
	return tc.selectedStepID
}

// GetPipeline returns a copy of the current pipeline
func (tc *TextConvCore) GetPipeline() []PipelineStep {
	return append([]PipelineStep{}, tc.pipeline...)
}

// ============================================================================
// Import/Export Methods
// ============================================================================

// ExportPipeline exports the pipeline as a JSON string
func (tc *TextConvCore) ExportPipeline() (string, error) {
	data, err := json.MarshalIndent(tc.pipeline, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ImportPipeline imports a pipeline from JSON string
func (tc *TextConvCore) ImportPipeline(jsonStr string) error {
	var pipeline []PipelineStep
	if err := json.Unmarshal([]byte(jsonStr), &pipeline); err != nil {
		return fmt.Errorf("invalid pipeline JSON: %w", err)
	}

	for i := range pipeline {
		op, ok := FindOperation(pipeline[i].Tool)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownTool, pipeline[i].Tool)
		}
		pipeline[i].Tool = op.Name
	}

	tc.pipeline = pipeline
	tc.selectedStepID = ""

	// Reset step counter to max ID + 1; missing and repeated IDs get new ones
	tc.stepCounter = tc.calculateMaxStepCounter() + 1
	seen := make(map[string]bool, len(tc.pipeline))
	for i := range tc.pipeline {
		if id := tc.pipeline[i].ID; id == "" || seen[id] {
			tc.pipeline[i].ID = tc.generateStepID()
		}
		seen[tc.pipeline[i].ID] = true
	}

	tc.processText()
	return nil
}

// ============================================================================
// Helper Methods (Private)
// ============================================================================

// generateStepID generates a unique step ID
func (tc *TextConvCore) generateStepID() string {
	id := fmt.Sprintf("step_%d", tc.stepCounter)
	tc.stepCounter++
	return id
}

func (tc *TextConvCore) findStepByID(stepID string) *PipelineStep {
	if i := tc.findStepIndexByID(stepID); i >= 0 {
		return &tc.pipeline[i]
	}
	return nil
}

func (tc *TextConvCore) findStepIndexByID(stepID string) int {
	for i := range tc.pipeline {
		if tc.pipeline[i].ID == stepID {
			return i
		}
	}
	return -1
}

// calculateMaxStepCounter finds the largest counter among "step_N" IDs
func (tc *TextConvCore) calculateMaxStepCounter() int {
	maxCounter := -1
	for _, step := range tc.pipeline {
		var counter int
		if _, err := fmt.Sscanf(step.ID, "step_%d", &counter); err == nil && counter > maxCounter {
			maxCounter = counter
		}
	}
	return maxCounter
}

func copyParams(p Params) Params {
	if len(p) == 0 {
		return nil
	}
	c := make(Params, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}
