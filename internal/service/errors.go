package service

import "fmt"

// NoteNotRecordedError reports a partial success of update-and-annotate:
// the patient record was updated but the follow-up note creation failed.
// Callers must be able to tell this apart from an update failure, where
// no note creation is ever attempted.
type NoteNotRecordedError struct {
	Err error
}

func (e *NoteNotRecordedError) Error() string {
	return fmt.Sprintf("patient updated but note not recorded: %v", e.Err)
}

func (e *NoteNotRecordedError) Unwrap() error {
	return e.Err
}
