package note

import (
	"bytes"
	"strings"
	"time"
)

// Layouts the notes backend has been observed to emit. The gateway's
// note store serializes LocalDateTime without a zone offset.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

// Timestamp tolerates both offset-carrying and local datetime wire forms.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format("2006-01-02T15:04:05") + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// Formatted renders the creation time the way the edit view displays it.
func (t Timestamp) Formatted() string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// Note is a medical-history entry belonging to exactly one patient.
// Notes are immutable once created; this layer holds them only for the
// duration of a request.
type Note struct {
	ID          string    `json:"id,omitempty"`
	PatientID   int64     `json:"patientId"`
	Physician   string    `json:"physician"`
	Note        string    `json:"note"`
	CreatedAt   Timestamp `json:"createdAt,omitempty"`
	PatientName string    `json:"patientName,omitempty"`
}
