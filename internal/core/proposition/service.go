package proposition

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/upstream"
)

var ErrNotFound = errors.New("proposition not found")

const DefaultHighImpact = 5

type Service struct {
	client *upstream.Client
}

func NewService(client *upstream.Client) *Service {
	return &Service{client: client}
}

// Fetcher issues list requests for the propositions controller.
func (s *Service) Fetcher() listquery.Fetcher[Proposition] {
	return listquery.FetcherFunc[Proposition](func(ctx context.Context, req listquery.Request) (listquery.ResultSet[Proposition], error) {
		return upstream.ListOf[Proposition](ctx, s.client, Resource, req.Params(), RowSchema)
	})
}

func (s *Service) NewController(initial listquery.QueryState, opts listquery.Options) *listquery.Controller[Proposition] {
	return listquery.NewController(Schema, s.Fetcher(), initial, opts)
}

// Details loads the detail page payload. Tramitações come back oldest first.
func (s *Service) Details(ctx context.Context, id int) (*Details, error) {
	d, err := upstream.GetOf[Details](ctx, s.client, DetailsSchema, Resource, strconv.Itoa(id), "details")
	if err != nil {
		if upstream.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, err
	}
	SortTramitacoes(d.Tramitacoes)
	if d.Autores == nil {
		d.Autores = []Author{}
	}
	if d.Relacionadas == nil {
		d.Relacionadas = []Proposition{}
	}
	if d.Temas == nil {
		d.Temas = []Theme{}
	}
	if d.Tramitacoes == nil {
		d.Tramitacoes = []Tramitacao{}
	}
	if d.Votacoes == nil {
		d.Votacoes = []Vote{}
	}
	return d, nil
}

// HighImpact returns the n highest-scored propositions.
func (s *Service) HighImpact(ctx context.Context, n int) ([]Proposition, error) {
	if n <= 0 {
		n = DefaultHighImpact
	}
	q := listquery.QueryState{
		PageSpec: listquery.PageSpec{Page: 0, PageSize: n},
		Sort:     listquery.SortSpec{Property: "impact_score", Order: listquery.Desc},
	}
	res, err := upstream.ListOf[Proposition](ctx, s.client, Resource, Schema.Request(q).Params(), RowSchema)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// SortTramitacoes orders by dataHora ascending. Unparseable dates sort last.
func SortTramitacoes(ts []Tramitacao) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, errA := upstream.ParseTime(ts[i].DataHora)
		b, errB := upstream.ParseTime(ts[j].DataHora)
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a.Before(b)
		}
	})
}
