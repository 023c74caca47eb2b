package assistant

import (
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrEmptyMessage    = errors.New("message is empty")
	ErrRunNotCompleted = errors.New("run did not complete")
	ErrRunTimeout      = errors.New("run did not finish within the maximum wait")
)

// RunError reports a run that reached a terminal status other than completed.
// It matches ErrRunNotCompleted with errors.Is.
type RunError struct {
	RunID   string
	Status  openai.RunStatus
	Code    string
	Message string
}

func newRunError(run openai.Run) *RunError {
	err := &RunError{RunID: run.ID, Status: run.Status}
	if run.LastError != nil {
		err.Code = string(run.LastError.Code)
		err.Message = run.LastError.Message
	}
	return err
}

func (e *RunError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("run %s ended with status %s: %s (%s)", e.RunID, e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("run %s ended with status %s", e.RunID, e.Status)
}

func (e *RunError) Is(target error) bool {
	return target == ErrRunNotCompleted
}
