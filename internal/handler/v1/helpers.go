package v1

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abernathy-clinic/medilabo-ui/internal/domain/patient"
	"github.com/abernathy-clinic/medilabo-ui/internal/gateway"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps orchestration failures to HTTP responses. A
// gateway failure always names the capability that failed and the backend
// status code, never just a generic message.
func respondServiceError(c *gin.Context, err error) {
	if errors.Is(err, patient.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	var callErr *gateway.CallError
	if errors.As(err, &callErr) {
		details := map[string]string{
			"capability": string(callErr.Capability),
			"operation":  callErr.Operation,
		}
		if callErr.StatusCode != 0 {
			details["backend_status"] = strconv.Itoa(callErr.StatusCode)
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   callErr.Error(),
			Code:    "GATEWAY_CALL_FAILED",
			Details: details,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}

	return true
}

func parsePatientID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: patient.ErrInvalidID.Error()})
		return 0, false
	}
	return id, true
}
