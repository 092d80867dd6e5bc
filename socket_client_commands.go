package main

import (
	"encoding/json"
	"fmt"
)

// SocketClientCommands wraps a SocketClient to implement the TextConvCommands interface.
// Front-ends use the same interface whether they talk to a socket server or
// hold a TextConvCore directly.
type SocketClientCommands struct {
	client *SocketClient
}

// NewSocketClientCommands creates a new socket client wrapper
func NewSocketClientCommands(client *SocketClient) *SocketClientCommands {
	return &SocketClientCommands{client: client}
}

var _ TextConvCommands = (*SocketClientCommands)(nil)
var _ TextConvCommands = (*TextConvCore)(nil)

// ============================================================================
// Pipeline Management Methods
// ============================================================================

// AddStep implements TextConvCommands.AddStep
func (s *SocketClientCommands) AddStep(tool string, params Params, lineBased bool) (string, error) {
	result, err := s.client.Call("add_step", stepParams("", tool, params, lineBased))
	if err != nil {
		return "", err
	}
	stepID, _ := result["step_id"].(string)
	return stepID, nil
}

// UpdateStep implements TextConvCommands.UpdateStep
func (s *SocketClientCommands) UpdateStep(stepID, tool string, params Params, lineBased bool) error {
	_, err := s.client.Call("update_step", stepParams(stepID, tool, params, lineBased))
	return err
}

// DeleteStep implements TextConvCommands.DeleteStep
func (s *SocketClientCommands) DeleteStep(stepID string) error {
	return s.stepAction("delete_step", stepID)
}

// SelectStep implements TextConvCommands.SelectStep
func (s *SocketClientCommands) SelectStep(stepID string) error {
	return s.stepAction("select_step", stepID)
}

// MoveStepUp implements TextConvCommands.MoveStepUp
func (s *SocketClientCommands) MoveStepUp(stepID string) error {
	return s.stepAction("move_step_up", stepID)
}

// MoveStepDown implements TextConvCommands.MoveStepDown
func (s *SocketClientCommands) MoveStepDown(stepID string) error {
	return s.stepAction("move_step_down", stepID)
}

func (s *SocketClientCommands) stepAction(action, stepID string) error {
	_, err := s.client.Call(action, map[string]interface{}{"step_id": stepID})
	return err
}

// ============================================================================
// Text Processing Methods
// ============================================================================

// SetInputText implements TextConvCommands.SetInputText
func (s *SocketClientCommands) SetInputText(text string) {
	if _, err := s.client.Call("set_input_text", map[string]interface{}{"text": text}); err != nil {
		log.Warnf("SetInputText: %v", err)
	}
}

// GetInputText implements TextConvCommands.GetInputText
func (s *SocketClientCommands) GetInputText() string {
	return s.getText("get_input_text", "text")
}

// GetOutputText implements TextConvCommands.GetOutputText
func (s *SocketClientCommands) GetOutputText() string {
	return s.getText("get_output_text", "text")
}

// GetLastError implements TextConvCommands.GetLastError
func (s *SocketClientCommands) GetLastError() string {
	return s.getText("get_output_text", "error")
}

// GetSelectedStepID implements TextConvCommands.GetSelectedStepID
func (s *SocketClientCommands) GetSelectedStepID() string {
	return s.getText("get_selected_step_id", "step_id")
}

func (s *SocketClientCommands) getText(action, key string) string {
	result, err := s.client.Call(action, nil)
	if err != nil {
		log.Warnf("%s: %v", action, err)
		return ""
	}
	text, _ := result[key].(string)
	return text
}

// Convert implements TextConvCommands.Convert
func (s *SocketClientCommands) Convert(tool, input string, params Params) (Output, error) {
	result, err := s.client.Call("convert", map[string]interface{}{
		"tool":   tool,
		"input":  input,
		"params": paramsToJSON(params),
	})
	if err != nil {
		return Output{Text: input}, err
	}

	text, _ := result["output"].(string)
	return Output{Text: text, Stats: result["stats"]}, nil
}

// ============================================================================
// Query Methods
// ============================================================================

// GetStep implements TextConvCommands.GetStep
func (s *SocketClientCommands) GetStep(stepID string) *PipelineStep {
	result, err := s.client.Call("get_step", map[string]interface{}{"step_id": stepID})
	if err != nil {
		return nil
	}

	var step PipelineStep
	if err := remarshal(result, &step); err != nil {
		log.Warnf("GetStep: %v", err)
		return nil
	}
	return &step
}

// GetPipeline implements TextConvCommands.GetPipeline
func (s *SocketClientCommands) GetPipeline() []PipelineStep {
	result, err := s.client.Call("get_pipeline", nil)
	if err != nil {
		log.Warnf("GetPipeline: %v", err)
		return nil
	}

	var pipeline []PipelineStep
	if err := remarshal(result["pipeline"], &pipeline); err != nil {
		log.Warnf("GetPipeline: %v", err)
		return nil
	}
	return pipeline
}

// ============================================================================
// Import/Export Methods
// ============================================================================

// ExportPipeline implements TextConvCommands.ExportPipeline
func (s *SocketClientCommands) ExportPipeline() (string, error) {
	result, err := s.client.Call("export_pipeline", nil)
	if err != nil {
		return "", err
	}
	data, ok := result["pipeline"].(string)
	if !ok {
		return "", fmt.Errorf("unexpected export response")
	}
	return data, nil
}

// ImportPipeline implements TextConvCommands.ImportPipeline
func (s *SocketClientCommands) ImportPipeline(jsonStr string) error {
	_, err := s.client.Call("import_pipeline", map[string]interface{}{"pipeline": jsonStr})
	return err
}

// ============================================================================
// Helpers
// ============================================================================

func stepParams(stepID, tool string, params Params, lineBased bool) map[string]interface{} {
	p := map[string]interface{}{
		"tool":       tool,
		"params":     paramsToJSON(params),
		"line_based": lineBased,
	}
	if stepID != "" {
		p["step_id"] = stepID
	}
	return p
}

func paramsToJSON(params Params) map[string]interface{} {
	m := make(map[string]interface{}, len(params))
	for k, v := range params {
		m[k] = v
	}
	return m
}

// remarshal converts a decoded JSON value into a typed value
func remarshal(in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
