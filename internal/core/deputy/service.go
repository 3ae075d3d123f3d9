package deputy

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/upstream"
)

var ErrNotFound = errors.New("deputy not found")

type Service struct {
	client *upstream.Client
}

func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Fetcher() listquery.Fetcher[Deputy] {
	return listquery.FetcherFunc[Deputy](func(ctx context.Context, req listquery.Request) (listquery.ResultSet[Deputy], error) {
		return upstream.ListOf[Deputy](ctx, s.client, Resource, req.Params(), RowSchema)
	})
}

func (s *Service) NewController(initial listquery.QueryState, opts listquery.Options) *listquery.Controller[Deputy] {
	return listquery.NewController(Schema, s.Fetcher(), initial, opts)
}

func (s *Service) Get(ctx context.Context, id int) (*Detailed, error) {
	d, err := upstream.GetOf[Detailed](ctx, s.client, DetailSchema, Resource, strconv.Itoa(id))
	if err != nil {
		return nil, notFound(err)
	}
	if d.Proposicoes == nil {
		d.Proposicoes = []AuthoredProposition{}
	}
	return d, nil
}

type activityPayload struct {
	Activity []string `json:"activity"`
}

// Activity aggregates the deputy's proposition timestamps into per-day
// counts, oldest day first.
func (s *Service) Activity(ctx context.Context, id int) (*Activity, error) {
	p, err := upstream.GetOf[activityPayload](ctx, s.client, activitySchema, Resource, strconv.Itoa(id), "activity", "propositions")
	if err != nil {
		return nil, notFound(err)
	}
	a := CountByDay(p.Activity)
	a.DeputyID = id
	return a, nil
}

// CountByDay buckets timestamps by UTC calendar day. Timestamps that cannot
// be parsed are counted in Skipped.
func CountByDay(timestamps []string) *Activity {
	counts := map[string]int{}
	a := &Activity{Days: []DayCount{}}
	for _, ts := range timestamps {
		t, err := upstream.ParseTime(ts)
		if err != nil {
			a.Skipped++
			continue
		}
		counts[t.UTC().Format("2006-01-02")]++
		a.Total++
	}
	for day, n := range counts {
		a.Days = append(a.Days, DayCount{Date: day, Count: n})
	}
	sort.Slice(a.Days, func(i, j int) bool { return a.Days[i].Date < a.Days[j].Date })
	return a
}

type rankingRow struct {
	ID             int      `json:"id"`
	Nome           *string  `json:"ultimoStatus_nome"`
	SiglaPartido   *string  `json:"ultimoStatus_siglaPartido"`
	SiglaUf        *string  `json:"ultimoStatus_siglaUf"`
	URLFoto        *string  `json:"ultimoStatus_urlFoto"`
	TotalImpacto   *float64 `json:"total_impacto"`
	TotalPropostas *int     `json:"total_propostas"`
}

// Ranking returns deputies in the order the API ranks them.
func (s *Service) Ranking(ctx context.Context) ([]RankedDeputy, error) {
	raw, err := s.client.Path(ctx, Resource, Resource+"/ranking", nil)
	if err != nil {
		return nil, err
	}
	rows, err := upstream.Decode[[]rankingRow](s.client, Resource, raw, rankingSchema)
	if err != nil {
		return nil, err
	}

	out := make([]RankedDeputy, 0, len(*rows))
	for _, r := range *rows {
		out = append(out, RankedDeputy{
			ID:             r.ID,
			Nome:           deref(r.Nome),
			SiglaPartido:   deref(r.SiglaPartido),
			SiglaUf:        deref(r.SiglaUf),
			URLFoto:        deref(r.URLFoto),
			TotalImpacto:   derefOr(r.TotalImpacto, 0),
			TotalPropostas: derefOr(r.TotalPropostas, 0),
		})
	}
	return out, nil
}

func notFound(err error) error {
	if upstream.IsNotFound(err) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
