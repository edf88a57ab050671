package workflow

import "errors"

var (
	ErrInvalidWorkflow      = errors.New("workflow is not executable")
	ErrWorkflowNotPublished = errors.New("workflow is not live")
)
