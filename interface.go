package main

// TextConvCommands defines the interface for all session operations.
// Both TextConvCore (direct implementation) and SocketClientCommands (socket wrapper)
// implement this interface, ensuring feature parity between direct and socket-based access.
type TextConvCommands interface {
	// =========================================================================
	// Pipeline Management - Add, update, delete, and select steps
	// =========================================================================

	// AddStep appends a tool step to the pipeline and returns its ID
	AddStep(tool string, params Params, lineBased bool) (string, error)

	// UpdateStep replaces the tool and parameters of an existing step
	UpdateStep(stepID, tool string, params Params, lineBased bool) error

	// DeleteStep removes a step from the pipeline
	DeleteStep(stepID string) error

	// SelectStep marks a step as the currently selected step
	SelectStep(stepID string) error

	// MoveStepUp moves a step earlier in the pipeline
	MoveStepUp(stepID string) error

	// MoveStepDown moves a step later in the pipeline
	MoveStepDown(stepID string) error

	// =========================================================================
	// Text Processing - Set and get input/output text
	// =========================================================================

	// SetInputText sets the input text to be processed by the pipeline
	SetInputText(text string)

	// GetInputText returns the current input text
	GetInputText() string

	// GetOutputText returns the result of processing input through the pipeline
	GetOutputText() string

	// GetLastError returns the error of the last pipeline run, or "" on success
	GetLastError() string

	// Convert runs a single tool on the given input without touching the session
	Convert(tool, input string, params Params) (Output, error)

	// =========================================================================
	// Query Operations - Retrieve pipeline information
	// =========================================================================

	// GetStep returns a specific step by ID, or nil if not found
	GetStep(stepID string) *PipelineStep

	// GetSelectedStepID returns the ID of the currently selected step, or empty string if none selected
	GetSelectedStepID() string

	// GetPipeline returns all steps in order
	GetPipeline() []PipelineStep

	// =========================================================================
	// Import/Export - Serialize and deserialize pipeline
	// =========================================================================

	// ExportPipeline returns the pipeline as a JSON string
	ExportPipeline() (string, error)

	// ImportPipeline loads a pipeline from a JSON string
	ImportPipeline(jsonStr string) error
}
