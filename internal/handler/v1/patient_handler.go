package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abernathy-clinic/medilabo-ui/internal/domain/patient"
	"github.com/abernathy-clinic/medilabo-ui/internal/service"
	"github.com/abernathy-clinic/medilabo-ui/internal/session"
)

// PatientHandler is the thin inbound surface over the orchestrator. Each
// handler extracts the caller's credential once and hands it to the
// service; no call inside one request is authenticated independently.
type PatientHandler struct {
	svc      *service.PatientViewService
	sessions *session.Extractor
	log      *zap.Logger
}

func NewPatientHandler(svc *service.PatientViewService, sessions *session.Extractor, log *zap.Logger) *PatientHandler {
	return &PatientHandler{svc: svc, sessions: sessions, log: log}
}

func (h *PatientHandler) Register(r gin.IRouter) {
	r.GET("/patients", h.list)
	r.POST("/patients", h.create)
	r.GET("/patients/:id/edit-view", h.editView)
	r.PUT("/patients/:id", h.update)
}

func (h *PatientHandler) list(c *gin.Context) {
	cred := h.sessions.Extract(c.Request)

	patients, err := h.svc.ListPatients(c.Request.Context(), cred)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, patients)
}

func (h *PatientHandler) create(c *gin.Context) {
	var p patient.Patient
	if !bindJSON(c, &p) {
		return
	}
	cred := h.sessions.Extract(c.Request)

	created, err := h.svc.CreatePatient(c.Request.Context(), p, cred)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondCreated(c, created)
}

func (h *PatientHandler) editView(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}
	cred := h.sessions.Extract(c.Request)

	view := h.svc.AssembleEditView(c.Request.Context(), id, cred)
	respondOK(c, view)
}

// updatePatientRequest carries the patient fields plus the optional note
// submission from the edit form.
type updatePatientRequest struct {
	patient.Patient
	Physician string `json:"physician"`
	Note      string `json:"note"`
}

func (h *PatientHandler) update(c *gin.Context) {
	id, ok := parsePatientID(c)
	if !ok {
		return
	}
	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}
	cred := h.sessions.Extract(c.Request)

	updated, err := h.svc.UpdatePatient(c.Request.Context(), id, req.Patient, req.Physician, req.Note, cred)
	if err != nil {
		// Partial success: the record persisted but the note did not.
		var noteErr *service.NoteNotRecordedError
		if errors.As(err, &noteErr) {
			c.JSON(http.StatusOK, APIResponse[any]{Data: updated, Message: noteErr.Error()})
			return
		}
		respondServiceError(c, err)
		return
	}
	respondOK(c, updated)
}
