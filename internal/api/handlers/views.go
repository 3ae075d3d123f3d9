package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/legisdash/legisdash/internal/core/event"
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/session"
)

// maxWait bounds ?wait=true long polls.
const maxWait = 10 * time.Second

type ViewHandler struct {
	sessions *session.Manager
}

func NewViewHandler(sessions *session.Manager) *ViewHandler {
	return &ViewHandler{sessions: sessions}
}

type viewResponse struct {
	ID   string       `json:"id"`
	Kind session.Kind `json:"kind"`
	View any          `json:"view"`
}

func present(s *session.Session) viewResponse {
	return viewResponse{ID: s.ID.String(), Kind: s.Kind, View: s.View.Present()}
}

// Open mounts a view. The request query string is the page URL's query, so
// POST /api/views/propositions?search=saúde deep-links a search.
func (h *ViewHandler) Open(c *gin.Context) {
	kind, err := session.ParseKind(c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}

	s, err := h.sessions.Open(c.Request.Context(), kind, c.Request.URL.RawQuery)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, present(s))
}

// Get presents the view. With ?wait=true it first waits for in-flight
// requests to settle.
func (h *ViewHandler) Get(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if c.Query("wait") == "true" {
		waitSettled(c.Request.Context(), s.View)
	}
	c.JSON(http.StatusOK, present(s))
}

func (h *ViewHandler) Close(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	if err := h.sessions.Close(c.Request.Context(), s.ID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type setPageRequest struct {
	Page *int `json:"page" binding:"required"`
}

func (h *ViewHandler) SetPage(c *gin.Context) {
	var req setPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.listIntent(c, func(v listquery.View) error { return v.SetPage(*req.Page) })
}

type setPageSizeRequest struct {
	PageSize int `json:"page_size" binding:"required"`
}

func (h *ViewHandler) SetPageSize(c *gin.Context) {
	var req setPageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.listIntent(c, func(v listquery.View) error { return v.SetPageSize(req.PageSize) })
}

type setSortRequest struct {
	Property string `json:"property" binding:"required"`
}

func (h *ViewHandler) SetSort(c *gin.Context) {
	var req setSortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.listIntent(c, func(v listquery.View) error { return v.SetSort(req.Property) })
}

type setFilterRequest struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value"`
}

// SetFilter records a raw filter edit. A null value clears the key.
func (h *ViewHandler) SetFilter(c *gin.Context) {
	var req setFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	value := req.Value
	if value == nil {
		value = ""
	}
	h.listIntent(c, func(v listquery.View) error { return v.SetFilter(req.Key, value) })
}

type setWeekRequest struct {
	Shift *int   `json:"shift"`
	Date  string `json:"date"`
}

// SetWeek navigates the agenda by a relative shift or to the week of a date.
func (h *ViewHandler) SetWeek(c *gin.Context) {
	var req setWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if (req.Shift == nil) == (req.Date == "") {
		badRequest(c, "exactly one of shift or date is required")
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			badRequest(c, "date must be YYYY-MM-DD")
			return
		}
	}

	h.intent(c, func(v session.View) error {
		a, ok := v.(*event.Agenda)
		if !ok {
			return session.ErrUnsupported
		}
		if req.Shift != nil {
			return a.ShiftWeek(*req.Shift)
		}
		return a.GoToWeek(date)
	})
}

func (h *ViewHandler) DismissError(c *gin.Context) {
	h.intent(c, func(v session.View) error {
		v.DismissError()
		return nil
	})
}

func (h *ViewHandler) Reload(c *gin.Context) {
	h.intent(c, func(v session.View) error { return v.Reload() })
}

func (h *ViewHandler) listIntent(c *gin.Context, fn func(listquery.View) error) {
	h.intent(c, func(v session.View) error {
		lv, ok := v.(listquery.View)
		if !ok {
			return session.ErrUnsupported
		}
		return fn(lv)
	})
}

func (h *ViewHandler) intent(c *gin.Context, fn func(session.View) error) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	s, err := h.sessions.Do(c.Request.Context(), s.ID, fn)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, present(s))
}

// lookup resolves :id and checks that it belongs to :kind.
func (h *ViewHandler) lookup(c *gin.Context) (*session.Session, bool) {
	id, ok := parseViewID(c)
	if !ok {
		return nil, false
	}
	s, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if string(s.Kind) != c.Param("kind") {
		respondError(c, session.ErrNotFound)
		return nil, false
	}
	return s, true
}

func waitSettled(ctx context.Context, v session.View) {
	w, ok := v.(interface{ Wait() })
	if !ok {
		return
	}
	done := make(chan struct{})
	go func() {
		w.Wait()
		close(done)
	}()

	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
