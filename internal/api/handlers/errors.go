package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/legisdash/legisdash/internal/core/deputy"
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/proposition"
	"github.com/legisdash/legisdash/internal/core/session"
	"github.com/legisdash/legisdash/internal/upstream"
)

const (
	CodeNotFound      = "not_found"
	CodeInvalidIntent = "invalid_intent"
	CodeUnsupported   = "unsupported"
	CodeUnknownKind   = "unknown_kind"
	CodeBadRequest    = "bad_request"
	CodeClosed        = "closed"
	CodeUpstream      = "upstream_error"
	CodeDecode        = "decode_error"
	CodeInternal      = "internal"
)

var intentErrors = []error{
	listquery.ErrInvalidPage,
	listquery.ErrInvalidPageSize,
	listquery.ErrUnsortable,
	listquery.ErrUnknownFilter,
	listquery.ErrInvalidValue,
}

// respondError maps domain errors to a status and a stable code.
func respondError(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, CodeInternal

	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, proposition.ErrNotFound),
		errors.Is(err, deputy.ErrNotFound),
		upstream.IsNotFound(err):
		status, code = http.StatusNotFound, CodeNotFound
	case errors.Is(err, session.ErrUnknownKind):
		status, code = http.StatusBadRequest, CodeUnknownKind
	case errors.Is(err, session.ErrUnsupported):
		status, code = http.StatusBadRequest, CodeUnsupported
	case errors.Is(err, listquery.ErrClosed):
		status, code = http.StatusGone, CodeClosed
	case upstream.IsDecode(err):
		status, code = http.StatusBadGateway, CodeDecode
	case upstream.IsNetwork(err):
		status, code = http.StatusBadGateway, CodeUpstream
	default:
		for _, target := range intentErrors {
			if errors.Is(err, target) {
				status, code = http.StatusBadRequest, CodeInvalidIntent
				break
			}
		}
	}

	if status == http.StatusInternalServerError {
		c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg, "code": CodeBadRequest})
}

func parseViewID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid view id")
		return uuid.Nil, false
	}
	return id, true
}

func parseIntID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
