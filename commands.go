package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Command represents a JSON command sent by a client
type Command struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params"`
}

// Response represents a JSON response from command execution
type Response struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Envelope check only; per-action parameters are validated by the handlers.
var commandSchema = mustCompileSchema(`
{
  "type": "object",
  "required": ["action"],
  "properties": {
    "action": {
      "type": "string",
      "minLength": 1
    },
    "params": {
      "type": "object"
    }
  }
}`)

func mustCompileSchema(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(err)
	}
	return s
}

// validateCommand checks a raw command against the envelope schema
func validateCommand(cmdJSON string) error {
	result, err := commandSchema.Validate(gojsonschema.NewStringLoader(cmdJSON))
	if err != nil {
		return err
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

// ExecuteCommand executes a JSON command and returns a JSON response
func (tc *TextConvCore) ExecuteCommand(cmdJSON string) string {
	if err := validateCommand(cmdJSON); err != nil {
		return errorResponse("Invalid command: " + err.Error())
	}

	var cmd Command
	if err := json.Unmarshal([]byte(cmdJSON), &cmd); err != nil {
		return errorResponse("Invalid JSON: " + err.Error())
	}

	switch cmd.Action {
	case "convert":
		return tc.cmdConvert(cmd.Params)
	case "list_tools":
		return tc.cmdListTools(cmd.Params)
	case "set_input_text":
		return tc.cmdSetInputText(cmd.Params)
	case "get_input_text":
		return successResponse(map[string]interface{}{"text": tc.GetInputText()})
	case "get_output_text":
		return successResponse(map[string]interface{}{
			"text":  tc.GetOutputText(),
			"error": tc.GetLastError(),
		})
	case "add_step":
		return tc.cmdAddStep(cmd.Params)
	case "update_step":
		return tc.cmdUpdateStep(cmd.Params)
	case "delete_step":
		return tc.cmdStepAction(cmd.Params, tc.DeleteStep)
	case "select_step":
		return tc.cmdStepAction(cmd.Params, tc.SelectStep)
	case "move_step_up":
		return tc.cmdStepAction(cmd.Params, tc.MoveStepUp)
	case "move_step_down":
		return tc.cmdStepAction(cmd.Params, tc.MoveStepDown)
	case "get_step":
		return tc.cmdGetStep(cmd.Params)
	case "get_selected_step_id":
		return successResponse(map[string]interface{}{"step_id": tc.GetSelectedStepID()})
	case "get_pipeline":
		return successResponse(map[string]interface{}{"pipeline": tc.GetPipeline()})
	case "export_pipeline":
		return tc.cmdExportPipeline(cmd.Params)
	case "import_pipeline":
		return tc.cmdImportPipeline(cmd.Params)
	default:
		return errorResponse("Unknown action: " + cmd.Action)
	}
}

// ============================================================================
// Command Handlers
// ============================================================================

// cmdConvert runs one tool on the given input without changing the session
func (tc *TextConvCore) cmdConvert(params map[string]interface{}) string {
	tool := getStr(params, "tool", "")
	if tool == "" {
		return errorResponse("Missing required parameter: tool")
	}

	out, err := tc.Convert(tool, getStr(params, "input", ""), getParams(params, "params"))
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(out)
}

// cmdListTools returns the registered tools with their parameter names
func (tc *TextConvCore) cmdListTools(params map[string]interface{}) string {
	ops := GetOperations()
	tools := make([]map[string]interface{}, len(ops))
	for i, op := range ops {
		names := op.Params
		if names == nil {
			names = []string{}
		}
		tools[i] = map[string]interface{}{
			"name":        op.Name,
			"description": op.Description,
			"params":      names,
		}
	}
	return successResponse(map[string]interface{}{"tools": tools})
}

func (tc *TextConvCore) cmdSetInputText(params map[string]interface{}) string {
	text, ok := params["text"].(string)
	if !ok {
		return errorResponse("Missing required parameter: text")
	}

	tc.SetInputText(text)
	return successResponse(map[string]interface{}{
		"output": tc.GetOutputText(),
		"error":  tc.GetLastError(),
	})
}

func (tc *TextConvCore) cmdAddStep(params map[string]interface{}) string {
	tool := getStr(params, "tool", "")
	if tool == "" {
		return errorResponse("Missing required parameter: tool")
	}

	stepID, err := tc.AddStep(tool, getParams(params, "params"), getBool(params, "line_based"))
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(map[string]interface{}{"step_id": stepID})
}

func (tc *TextConvCore) cmdUpdateStep(params map[string]interface{}) string {
	stepID := getStr(params, "step_id", "")
	tool := getStr(params, "tool", "")
	if stepID == "" || tool == "" {
		return errorResponse("Missing required parameters: step_id, tool")
	}

	if err := tc.UpdateStep(stepID, tool, getParams(params, "params"), getBool(params, "line_based")); err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(map[string]interface{}{"success": true})
}

// cmdStepAction runs an action that only needs a step ID
func (tc *TextConvCore) cmdStepAction(params map[string]interface{}, action func(string) error) string {
	stepID := getStr(params, "step_id", "")
	if stepID == "" {
		return errorResponse("Missing required parameter: step_id")
	}

	if err := action(stepID); err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(map[string]interface{}{"success": true})
}

func (tc *TextConvCore) cmdGetStep(params map[string]interface{}) string {
	stepID := getStr(params, "step_id", "")
	if stepID == "" {
		return errorResponse("Missing required parameter: step_id")
	}

	step := tc.GetStep(stepID)
	if step == nil {
		return errorResponse("step not found: " + stepID)
	}
	return successResponse(step)
}

func (tc *TextConvCore) cmdExportPipeline(params map[string]interface{}) string {
	data, err := tc.ExportPipeline()
	if err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(map[string]interface{}{"pipeline": data})
}

func (tc *TextConvCore) cmdImportPipeline(params map[string]interface{}) string {
	data := getStr(params, "pipeline", "")
	if data == "" {
		return errorResponse("Missing required parameter: pipeline")
	}

	if err := tc.ImportPipeline(data); err != nil {
		return errorResponse(err.Error())
	}
	return successResponse(map[string]interface{}{"steps": len(tc.GetPipeline())})
}

// ============================================================================
// Helper Functions
// ============================================================================

// getStr safely extracts a string parameter, with a default value
func getStr(params map[string]interface{}, key, defaultValue string) string {
	if val, ok := params[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// getBool accepts both JSON booleans and boolean strings
func getBool(params map[string]interface{}, key string) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

// getParams converts a nested JSON object into tool Params.
// Numbers and booleans are accepted and rendered as strings.
func getParams(params map[string]interface{}, key string) Params {
	raw, ok := params[key].(map[string]interface{})
	if !ok {
		return nil
	}
	return toParams(raw)
}

// toParams converts decoded JSON parameter values to tool Params. Numbers
// and booleans are formatted, nulls are dropped.
func toParams(raw map[string]interface{}) Params {
	if raw == nil {
		return nil
	}

	p := make(Params, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			p[k] = val
		case bool:
			p[k] = strconv.FormatBool(val)
		case float64:
			p[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case nil:
		default:
			p[k] = fmt.Sprint(val)
		}
	}
	return p
}

// successResponse creates a successful response
func successResponse(result interface{}) string {
	resp := Response{
		Success: true,
		Result:  result,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

// errorResponse creates an error response
func errorResponse(errorMsg string) string {
	resp := Response{
		Success: false,
		Error:   errorMsg,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}
