package event

import (
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/validation"
)

const (
	Resource = "eventos"

	FromKey = "data_inicio"
	ToKey   = "data_fim"

	// WeekLimit is large enough for any week of the chamber's agenda.
	WeekLimit = 200

	// MaxVisiblePerDay is how many events a day column shows before "+N".
	MaxVisiblePerDay = 4
)

var Schema = listquery.Schema{
	Entity: "events",
	Fields: []listquery.Field{
		{Name: "dataHoraInicio", Label: "Início", DefaultOrder: listquery.Asc},
	},
	DefaultSort:     listquery.SortSpec{Property: "dataHoraInicio", Order: listquery.Asc},
	FilterKeys:      []string{FromKey, ToKey},
	PageSizes:       []int{WeekLimit},
	DefaultPageSize: WeekLimit,
}

var RowSchema = validation.Object([]string{"id", "dataHoraInicio"}, map[string]interface{}{
	"id":               validation.Type("integer"),
	"dataHoraInicio":   validation.Type("string"),
	"dataHoraFim":      validation.Nullable("string"),
	"situacao":         validation.Nullable("string"),
	"descricaoTipo":    validation.Nullable("string"),
	"descricao":        validation.Nullable("string"),
	"localCamara_nome": validation.Nullable("string"),
})
