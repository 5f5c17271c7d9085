package risk

// Risk levels the assessment backend reports.
const (
	LevelNone       = "None"
	LevelBorderline = "Borderline"
	LevelInDanger   = "In Danger"
	LevelEarlyOnset = "Early onset"
)

// Result is the diabetes-risk assessment computed by the backend from
// the current patient record plus accumulated notes. It is derived,
// read-only and stale the instant the patient or notes change; it is
// never persisted by this layer.
type Result struct {
	PatientID int64  `json:"patientId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	RiskLevel string `json:"riskLevel"`
}
