package models

import "maps"

// StepStatus is the outcome of one node within a run.
type StepStatus string

const (
	StepStatusSuccess StepStatus = "success"
	StepStatusError   StepStatus = "error"
	StepStatusSkipped StepStatus = "skipped"
)

// Well-known keys carried between steps.
const (
	OutputDocumentURL = "documentUrl"
	OutputAIResponse  = "aiResponse"
)

// ActionResult is what a handler reports for its node.
type ActionResult struct {
	Status       StepStatus     `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Output       map[string]any `json:"output,omitempty"`

	// Exports are values later steps may read, keyed by the Output* constants.
	Exports map[string]string `json:"-"`
}

// Succeeded returns a success result with the given audit output.
func Succeeded(output map[string]any) ActionResult {
	return ActionResult{Status: StepStatusSuccess, Output: output}
}

// Skipped returns a skipped result carrying a human-readable reason.
func Skipped(reason string) ActionResult {
	return ActionResult{Status: StepStatusSkipped, ErrorMessage: reason}
}

// Failed returns an error result carrying the message verbatim.
func Failed(message string) ActionResult {
	return ActionResult{Status: StepStatusError, ErrorMessage: message}
}

// WithExport attaches a cross-step value to the result.
func (r ActionResult) WithExport(key, value string) ActionResult {
	exports := make(map[string]string, len(r.Exports)+1)
	maps.Copy(exports, r.Exports)
	exports[key] = value
	r.Exports = exports

	return r
}

// StepOutputs accumulates exports across a run. It is treated as a value:
// With returns a new map and never mutates the receiver.
type StepOutputs map[string]string

// With returns a copy of the outputs with the exports applied.
func (o StepOutputs) With(exports map[string]string) StepOutputs {
	next := make(StepOutputs, len(o)+len(exports))
	maps.Copy(next, o)
	maps.Copy(next, exports)

	return next
}

// DocumentURL returns the most recently generated document URL.
func (o StepOutputs) DocumentURL() string {
	return o[OutputDocumentURL]
}

// AIResponse returns the most recent language model response.
func (o StepOutputs) AIResponse() string {
	return o[OutputAIResponse]
}

// TemplateExtras exposes the outputs under their template names.
func (o StepOutputs) TemplateExtras() map[string]string {
	extras := map[string]string{}

	if url := o.DocumentURL(); url != "" {
		extras["quote.downloadUrl"] = url
	}

	if response := o.AIResponse(); response != "" {
		extras["ai.response"] = response
	}

	return extras
}

// ActionInput is everything a handler reads for one dispatch.
type ActionInput struct {
	Run     *RunContext
	Outputs StepOutputs
}

// Contact returns the run's contact, or nil.
func (in ActionInput) Contact() *Contact {
	if in.Run == nil {
		return nil
	}

	return in.Run.Contact
}

// Extras merges run-context extras with step outputs for template substitution.
func (in ActionInput) Extras() map[string]string {
	extras := map[string]string{}

	if in.Run != nil {
		maps.Copy(extras, in.Run.TemplateExtras())
	}

	maps.Copy(extras, in.Outputs.TemplateExtras())

	return extras
}
