package patient

import (
	"bytes"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar day as the gateway serializes it ("yyyy-MM-dd").
// The zero value marshals as null so a placeholder patient does not
// carry a fake birth date.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Patient mirrors the gateway's patient record. Identity is assigned by
// the backend; this layer never generates it.
type Patient struct {
	PatientID int64  `json:"patientId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       Date   `json:"dob"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Gender    string `json:"gender"`
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Placeholder returns an otherwise-empty patient carrying only the
// requested id, so an edit form stays renderable when the fetch fails.
func Placeholder(id int64) Patient {
	return Patient{PatientID: id}
}
