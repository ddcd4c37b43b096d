// Package respond maps service errors onto HTTP responses.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/alexanderramin/obra/internal/contract"
	"github.com/alexanderramin/obra/internal/repository"
	"github.com/alexanderramin/obra/internal/service"
	"github.com/gin-gonic/gin"
)

// StatusFor returns the HTTP status for err.
func StatusFor(err error) int {
	var planErr *contract.PlanError
	switch {
	case errors.As(err, &planErr):
		return planStatus(planErr.Code)
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalid):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func planStatus(code contract.PlanErrorCode) int {
	switch code {
	case contract.PlanErrInvalid:
		return http.StatusUnprocessableEntity
	case contract.PlanErrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as {"error": ..., "code": ...}. Internal errors are
// logged and their message is not echoed to the client.
func Error(c *gin.Context, err error) {
	status := StatusFor(err)
	body := gin.H{"error": err.Error()}

	var planErr *contract.PlanError
	if errors.As(err, &planErr) {
		body["code"] = string(planErr.Code)
		body["error"] = planErr.Message
	}
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		body["error"] = "internal error"
		body["code"] = string(contract.PlanErrInternal)
	}
	c.JSON(status, body)
}

// BadRequest writes a 400 for malformed input.
func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
