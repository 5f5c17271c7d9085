package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abernathy-clinic/medilabo-ui/internal/domain/note"
	"github.com/abernathy-clinic/medilabo-ui/internal/domain/patient"
	"github.com/abernathy-clinic/medilabo-ui/internal/domain/risk"
	"github.com/abernathy-clinic/medilabo-ui/internal/session"
	"github.com/abernathy-clinic/medilabo-ui/pkg/metrics"
)

// GatewayClient is the call contract to the remote capabilities. The
// concrete implementation lives in internal/gateway; tests substitute a
// recording fake.
type GatewayClient interface {
	ListPatients(ctx context.Context, cred session.Credential) ([]patient.Patient, error)
	GetPatient(ctx context.Context, id int64, cred session.Credential) (*patient.Patient, error)
	CreatePatient(ctx context.Context, p patient.Patient, cred session.Credential) (*patient.Patient, error)
	UpdatePatient(ctx context.Context, id int64, p patient.Patient, cred session.Credential) (*patient.Patient, error)
	ListNotes(ctx context.Context, patientID int64, cred session.Credential) ([]note.Note, error)
	CreateNote(ctx context.Context, n note.Note, cred session.Credential) (*note.Note, error)
	AssessRisk(ctx context.Context, patientID int64, cred session.Credential) (*risk.Result, error)
}

// EditView is the aggregate a single edit-page load renders: the patient,
// their history, and, when history exists, the risk assessment or an
// advisory message explaining its absence.
type EditView struct {
	Patient    patient.Patient `json:"patient"`
	Notes      []note.Note     `json:"notes"`
	RiskResult *risk.Result    `json:"riskResult,omitempty"`
	RiskError  string          `json:"riskError,omitempty"`
}

// PatientViewService orchestrates gateway calls per use case. It holds no
// state across requests; every call builds its own result aggregate from
// the credential it is handed.
type PatientViewService struct {
	gw      GatewayClient
	log     *zap.Logger
	metrics *metrics.Collector
}

func NewPatientViewService(gw GatewayClient, log *zap.Logger, collector *metrics.Collector) *PatientViewService {
	return &PatientViewService{gw: gw, log: log, metrics: collector}
}

// ListPatients returns the backend's patient list in backend order. A
// gateway failure is fatal for this view: no partial list is meaningful.
func (s *PatientViewService) ListPatients(ctx context.Context, cred session.Credential) ([]patient.Patient, error) {
	patients, err := s.gw.ListPatients(ctx, cred)
	if err != nil {
		return nil, fmt.Errorf("listing patients: %w", err)
	}
	return patients, nil
}

// CreatePatient forwards the submission and returns the backend's record
// with its assigned id. No read-back, no local validation: the backend
// owns the record's rules.
func (s *PatientViewService) CreatePatient(ctx context.Context, p patient.Patient, cred session.Credential) (*patient.Patient, error) {
	created, err := s.gw.CreatePatient(ctx, p, cred)
	if err != nil {
		return nil, fmt.Errorf("creating patient: %w", err)
	}
	s.log.Info("patient created", zap.Int64("patient_id", created.PatientID))
	return created, nil
}

// AssembleEditView builds the aggregate for one edit-page load. Reads
// feeding this display degrade rather than fail: a failed or not-found
// patient fetch yields an id-only placeholder, a failed note fetch yields
// an empty history, and a failed risk assessment becomes an advisory
// message. The view itself always assembles.
func (s *PatientViewService) AssembleEditView(ctx context.Context, id int64, cred session.Credential) *EditView {
	view := &EditView{Notes: []note.Note{}}

	p, err := s.gw.GetPatient(ctx, id, cred)
	if err != nil {
		s.log.Warn("patient fetch failed, rendering empty form",
			zap.Int64("patient_id", id),
			zap.Error(err),
		)
		s.countDegraded("patient")
		view.Patient = patient.Placeholder(id)
	} else {
		view.Patient = *p
	}

	notes, err := s.gw.ListNotes(ctx, id, cred)
	if err != nil {
		s.log.Warn("note fetch failed, rendering without history",
			zap.Int64("patient_id", id),
			zap.Error(err),
		)
		s.countDegraded("notes")
		notes = []note.Note{}
	}
	view.Notes = notes

	// Risk assessment is defined as requiring a history: a patient with
	// zero notes never triggers the call.
	if len(notes) == 0 {
		if s.metrics != nil {
			s.metrics.RiskCallsSkipped.Inc()
		}
		return view
	}

	result, err := s.gw.AssessRisk(ctx, id, cred)
	if err != nil {
		s.log.Warn("risk assessment failed",
			zap.Int64("patient_id", id),
			zap.Error(err),
		)
		s.countDegraded("risk")
		view.RiskError = fmt.Sprintf("risk assessment unavailable: %v", err)
		return view
	}
	view.RiskResult = result

	return view
}

// UpdatePatient updates the record and, when both physician and note text
// are provided, records a history note against it. An update failure
// aborts the note creation: a note is meaningless against a record that
// failed to persist. A note failure after a successful update surfaces as
// *NoteNotRecordedError alongside the updated patient.
func (s *PatientViewService) UpdatePatient(ctx context.Context, id int64, p patient.Patient, physician, noteText string, cred session.Credential) (*patient.Patient, error) {
	updated, err := s.gw.UpdatePatient(ctx, id, p, cred)
	if err != nil {
		return nil, fmt.Errorf("updating patient: %w", err)
	}

	if physician == "" || noteText == "" {
		if s.metrics != nil {
			s.metrics.NotesSkipped.Inc()
		}
		return updated, nil
	}

	n := note.Note{
		PatientID:   id,
		Physician:   physician,
		Note:        noteText,
		PatientName: updated.FirstName,
	}
	if _, err := s.gw.CreateNote(ctx, n, cred); err != nil {
		return updated, &NoteNotRecordedError{Err: err}
	}
	if s.metrics != nil {
		s.metrics.NotesRecorded.Inc()
	}
	s.log.Info("note recorded",
		zap.Int64("patient_id", id),
		zap.String("physician", physician),
	)

	return updated, nil
}

func (s *PatientViewService) countDegraded(step string) {
	if s.metrics != nil {
		s.metrics.EditViewsDegraded.WithLabelValues(step).Inc()
	}
}
