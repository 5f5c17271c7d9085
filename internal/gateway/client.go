// Package gateway is the typed client for the remote capabilities this
// service orchestrates: patient records, medical-history notes, and
// diabetes-risk assessment. Every method maps one request to one
// response; there is no retry logic here, that is the caller's concern.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/abernathy-clinic/medilabo-ui/config"
	"github.com/abernathy-clinic/medilabo-ui/internal/domain/note"
	"github.com/abernathy-clinic/medilabo-ui/internal/domain/patient"
	"github.com/abernathy-clinic/medilabo-ui/internal/domain/risk"
	"github.com/abernathy-clinic/medilabo-ui/internal/session"
	"github.com/abernathy-clinic/medilabo-ui/pkg/metrics"
)

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
	metrics *metrics.Collector
	tracer  trace.Tracer
}

// NewClient builds a stateless gateway client. The http.Client it owns is
// safe for concurrent use; every call builds its own headers from the
// credential it is handed.
func NewClient(cfg config.GatewayConfig, log *zap.Logger, collector *metrics.Collector) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.CallTimeout},
		log:     log,
		metrics: collector,
		tracer:  otel.Tracer("medilabo-ui/gateway"),
	}
}

func (c *Client) ListPatients(ctx context.Context, cred session.Credential) ([]patient.Patient, error) {
	data, err := c.call(ctx, CapabilityPatients, "list", http.MethodGet, "/api/proxy/patients/all", nil, cred)
	if err != nil {
		return nil, err
	}
	return decodeList[patient.Patient](data, "patients")
}

func (c *Client) GetPatient(ctx context.Context, id int64, cred session.Credential) (*patient.Patient, error) {
	path := "/api/proxy/patients?id=" + strconv.FormatInt(id, 10)
	data, err := c.call(ctx, CapabilityPatients, "get", http.MethodGet, path, nil, cred)
	if err != nil {
		var ce *CallError
		if errors.As(err, &ce) && ce.StatusCode == http.StatusNotFound {
			return nil, patient.ErrNotFound
		}
		return nil, err
	}
	return decodeOne[patient.Patient](data, "patient")
}

func (c *Client) CreatePatient(ctx context.Context, p patient.Patient, cred session.Credential) (*patient.Patient, error) {
	data, err := c.call(ctx, CapabilityPatients, "create", http.MethodPost, "/api/proxy/patients", p, cred)
	if err != nil {
		return nil, err
	}
	return decodeOne[patient.Patient](data, "patient")
}

func (c *Client) UpdatePatient(ctx context.Context, id int64, p patient.Patient, cred session.Credential) (*patient.Patient, error) {
	path := "/api/proxy/patients?id=" + strconv.FormatInt(id, 10)
	data, err := c.call(ctx, CapabilityPatients, "update", http.MethodPut, path, p, cred)
	if err != nil {
		return nil, err
	}
	return decodeOne[patient.Patient](data, "patient")
}

func (c *Client) ListNotes(ctx context.Context, patientID int64, cred session.Credential) ([]note.Note, error) {
	path := "/api/proxy/notes/history?patientId=" + strconv.FormatInt(patientID, 10)
	data, err := c.call(ctx, CapabilityNotes, "list", http.MethodGet, path, nil, cred)
	if err != nil {
		return nil, err
	}
	return decodeList[note.Note](data, "notes")
}

func (c *Client) CreateNote(ctx context.Context, n note.Note, cred session.Credential) (*note.Note, error) {
	path := "/api/proxy/notes/history?patientId=" + strconv.FormatInt(n.PatientID, 10)
	data, err := c.call(ctx, CapabilityNotes, "create", http.MethodPost, path, n, cred)
	if err != nil {
		return nil, err
	}
	return decodeOne[note.Note](data, "note")
}

// AssessRisk asks the risk backend to score the patient. The patient is
// identified by query parameter; the call carries no body.
func (c *Client) AssessRisk(ctx context.Context, patientID int64, cred session.Credential) (*risk.Result, error) {
	path := "/api/proxy/risk/check?patientId=" + strconv.FormatInt(patientID, 10)
	data, err := c.call(ctx, CapabilityRisk, "assess", http.MethodPost, path, nil, cred)
	if err != nil {
		return nil, err
	}
	return decodeOne[risk.Result](data, "risk result")
}

// call performs one outbound request and returns the raw response body.
// Any non-2xx status or transport failure surfaces as a *CallError.
func (c *Client) call(ctx context.Context, capability Capability, op, method, path string, body any, cred session.Credential) ([]byte, error) {
	url := c.baseURL + path

	ctx, span := c.tracer.Start(ctx, "gateway."+string(capability)+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gateway.capability", string(capability)),
			attribute.String("http.method", method),
			attribute.String("url.full", url),
		),
	)
	defer span.End()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", capability, op, err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building %s %s request: %w", capability, op, err)
	}
	for key, values := range cred.Headers(body != nil) {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		c.observe(capability, op, "transport_error", elapsed)
		callErr := transportError(capability, op, err)
		span.RecordError(callErr)
		span.SetStatus(codes.Error, "transport failure")
		c.log.Warn("gateway call failed",
			zap.String("capability", string(capability)),
			zap.String("operation", op),
			zap.Error(err),
		)
		return nil, callErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.observe(capability, op, "transport_error", elapsed)
		return nil, transportError(capability, op, err)
	}

	c.observe(capability, op, strconv.Itoa(resp.StatusCode), elapsed)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		callErr := statusError(capability, op, resp.StatusCode, data)
		span.SetStatus(codes.Error, "non-2xx response")
		c.log.Warn("gateway call returned error status",
			zap.String("capability", string(capability)),
			zap.String("operation", op),
			zap.Int("status", resp.StatusCode),
		)
		return nil, callErr
	}

	return data, nil
}

func (c *Client) observe(capability Capability, op, status string, elapsed time.Duration) {
	if c.metrics == nil {
		return
	}
	c.metrics.GatewayCallsTotal.WithLabelValues(string(capability), op, status).Inc()
	c.metrics.GatewayCallDuration.WithLabelValues(string(capability), op).Observe(elapsed.Seconds())
}

// decodeList decodes a JSON array, treating an empty or null body as an
// empty sequence rather than nil.
func decodeList[T any](data []byte, what string) ([]T, error) {
	items := []T{}
	if len(bytes.TrimSpace(data)) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", what, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func decodeOne[T any](data []byte, what string) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", what, err)
	}
	return &v, nil
}
