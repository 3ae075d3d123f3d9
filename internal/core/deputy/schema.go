package deputy

import (
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/validation"
)

const (
	Resource  = "deputados"
	SearchKey = "search"
)

var Schema = listquery.Schema{
	Entity: "deputies",
	Fields: []listquery.Field{
		{Name: "nome", Label: "Nome", DefaultOrder: listquery.Asc},
		{Name: "siglaPartido", Label: "Partido", DefaultOrder: listquery.Asc},
		{Name: "siglaUf", Label: "UF", DefaultOrder: listquery.Asc},
		{Name: "situacao", Label: "Situação", DefaultOrder: listquery.Asc},
	},
	DefaultSort:     listquery.SortSpec{Property: "nome", Order: listquery.Asc},
	FilterKeys:      []string{SearchKey, "ultimoStatus_siglaPartido", "ultimoStatus_siglaUf"},
	ParamNames:      map[string]string{SearchKey: "ultimoStatus_nome__ilike"},
	PageSizes:       []int{5, 10, 25, 50},
	DefaultPageSize: 10,
	URLKey:          SearchKey,
}

var RowSchema = validation.Object([]string{"id"}, map[string]interface{}{
	"id":                        validation.Type("integer"),
	"nomeCivil":                 validation.Nullable("string"),
	"ultimoStatus_nome":         validation.Nullable("string"),
	"ultimoStatus_siglaPartido": validation.Nullable("string"),
	"ultimoStatus_siglaUf":      validation.Nullable("string"),
	"ultimoStatus_urlFoto":      validation.Nullable("string"),
	"ultimoStatus_situacao":     validation.Nullable("string"),
})

var DetailSchema = validation.Object([]string{"id"}, map[string]interface{}{
	"id":                validation.Type("integer"),
	"ultimoStatus_nome": validation.Nullable("string"),
	"redeSocial": map[string]interface{}{
		"type": []string{"object", "null"},
	},
	"proposicoes": map[string]interface{}{
		"type": []string{"array", "null"},
		"items": validation.Object([]string{"id"}, map[string]interface{}{
			"id": validation.Type("integer"),
		}),
	},
})

var activitySchema = validation.Object([]string{"activity"}, map[string]interface{}{
	"activity": map[string]interface{}{
		"type":  []string{"array", "null"},
		"items": validation.Type("string"),
	},
})

var rankingSchema = map[string]interface{}{
	"type": "array",
	"items": validation.Object([]string{"id"}, map[string]interface{}{
		"id":            validation.Type("integer"),
		"total_impacto": validation.Nullable("number"),
	}),
}
