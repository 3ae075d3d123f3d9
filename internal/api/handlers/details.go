package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/legisdash/legisdash/internal/core/deputy"
	"github.com/legisdash/legisdash/internal/core/proposition"
	"github.com/legisdash/legisdash/internal/core/transparency"
)

type PropositionHandler struct {
	propositions *proposition.Service
}

func NewPropositionHandler(propositions *proposition.Service) *PropositionHandler {
	return &PropositionHandler{propositions: propositions}
}

func (h *PropositionHandler) Get(c *gin.Context) {
	id, ok := parseIntID(c)
	if !ok {
		return
	}

	details, err := h.propositions.Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// Score itemizes the impact score of one proposition.
func (h *PropositionHandler) Score(c *gin.Context) {
	id, ok := parseIntID(c)
	if !ok {
		return
	}

	details, err := h.propositions.Details(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transparency.Breakdown(details.BaseData.Proposition))
}

func (h *PropositionHandler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, proposition.Choices())
}

type DeputyHandler struct {
	deputies *deputy.Service
}

func NewDeputyHandler(deputies *deputy.Service) *DeputyHandler {
	return &DeputyHandler{deputies: deputies}
}

func (h *DeputyHandler) Get(c *gin.Context) {
	id, ok := parseIntID(c)
	if !ok {
		return
	}

	d, err := h.deputies.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, d)
}

func (h *DeputyHandler) Activity(c *gin.Context) {
	id, ok := parseIntID(c)
	if !ok {
		return
	}

	a, err := h.deputies.Activity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, a)
}

func Transparency(c *gin.Context) {
	c.JSON(http.StatusOK, transparency.Explain())
}
