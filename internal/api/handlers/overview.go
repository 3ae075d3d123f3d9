package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/legisdash/legisdash/internal/core/deputy"
	"github.com/legisdash/legisdash/internal/core/event"
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/proposition"
)

// OverviewHandler serves the dashboard home: high-impact propositions, the
// deputy ranking and this week's agenda.
type OverviewHandler struct {
	propositions *proposition.Service
	deputies     *deputy.Service
	events       listquery.Fetcher[event.Event]
	now          func() time.Time
}

func NewOverviewHandler(propositions *proposition.Service, deputies *deputy.Service, events listquery.Fetcher[event.Event]) *OverviewHandler {
	return &OverviewHandler{propositions: propositions, deputies: deputies, events: events, now: time.Now}
}

type overviewResponse struct {
	HighImpact []proposition.Proposition `json:"high_impact"`
	Ranking    []deputy.RankedDeputy     `json:"ranking"`
	WeekStart  string                    `json:"week_start"`
	Agenda     []event.Day               `json:"agenda"`
}

func (h *OverviewHandler) Get(c *gin.Context) {
	n := proposition.DefaultHighImpact
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 50 {
		n = v
	}

	now := h.now()
	monday := event.WeekStart(now)
	resp := overviewResponse{WeekStart: monday.Format("2006-01-02")}
	var events []event.Event

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		rows, err := h.propositions.HighImpact(ctx, n)
		resp.HighImpact = rows
		return err
	})
	g.Go(func() error {
		ranked, err := h.deputies.Ranking(ctx)
		resp.Ranking = ranked
		return err
	})
	g.Go(func() error {
		q := event.Schema.Initial(event.WeekFilters(monday))
		res, err := h.events.List(ctx, event.Schema.Request(q))
		events = res.Rows
		return err
	})
	if err := g.Wait(); err != nil {
		respondError(c, err)
		return
	}

	resp.Agenda = event.GroupByDay(monday, events, now)
	c.JSON(http.StatusOK, resp)
}
