package proposition

import (
	"github.com/legisdash/legisdash/internal/core/listquery"
	"github.com/legisdash/legisdash/internal/core/validation"
)

const (
	Resource  = "proposicoes"
	SearchKey = "search"
)

// Schema drives the propositions list. Free-text search goes to the API as a
// case-insensitive match on the ementa.
var Schema = listquery.Schema{
	Entity: "propositions",
	Fields: []listquery.Field{
		{Name: "id", Label: "Proposição", DefaultOrder: listquery.Asc},
		{Name: "ano", Label: "Ano", DefaultOrder: listquery.Desc},
		{Name: "dataApresentacao", Label: "Apresentação", DefaultOrder: listquery.Desc},
		{Name: "impact_score", Label: "Impacto", DefaultOrder: listquery.Desc},
	},
	DefaultSort: listquery.SortSpec{Property: "dataApresentacao", Order: listquery.Desc},
	FilterKeys: []string{
		SearchKey, "siglaTipo", "scope", "magnitude", "data_inicio", "data_fim",
		"autor", "numero", "ano", "scored",
	},
	ParamNames:      map[string]string{SearchKey: "ementa__ilike"},
	PageSizes:       []int{5, 10, 25},
	DefaultPageSize: 10,
	URLKey:          SearchKey,
}

var RowSchema = validation.Object([]string{"id"}, map[string]interface{}{
	"id":               validation.Type("integer"),
	"siglaTipo":        validation.Nullable("string"),
	"numero":           validation.Nullable("integer"),
	"ano":              validation.Nullable("integer"),
	"ementa":           validation.Nullable("string"),
	"dataApresentacao": validation.Nullable("string"),
	"impact_score":     validation.Nullable("number"),
	"scope":            validation.Nullable("string"),
	"magnitude":        validation.Nullable("string"),
	"tags": map[string]interface{}{
		"type":  []string{"array", "null"},
		"items": validation.Type("string"),
	},
})

var DetailsSchema = validation.Object([]string{"base_data"}, map[string]interface{}{
	"base_data":    RowSchema,
	"autores":      listOf(nil),
	"relacionadas": listOf(RowSchema),
	"temas":        listOf(nil),
	"tramitacoes":  listOf(nil),
	"votacoes":     listOf(nil),
})

func listOf(item map[string]interface{}) map[string]interface{} {
	s := map[string]interface{}{"type": []string{"array", "null"}}
	if item != nil {
		s["items"] = item
	}
	return s
}

var Types = []TypeOption{
	{Sigla: "MPV", Nome: "Medida Provisória"},
	{Sigla: "PDC", Nome: "Projeto de Decreto Legislativo"},
	{Sigla: "PEC", Nome: "Proposta de Emenda à Constituição"},
	{Sigla: "PL", Nome: "Projeto de Lei"},
	{Sigla: "PLP", Nome: "Projeto de Lei Complementar"},
	{Sigla: "PLV", Nome: "Projeto de Lei de Conversão"},
	{Sigla: "PRC", Nome: "Projeto de Resolução"},
	{Sigla: "RCP", Nome: "Requerimento de Instituição de CPI"},
	{Sigla: "REC", Nome: "Recurso"},
	{Sigla: "REQ", Nome: "Requerimento"},
}

var (
	Scopes     = []string{"Nacional", "Estadual", "Municipal"}
	Magnitudes = []string{"Baixo", "Médio", "Alto", "Setorial Específico", "População Geral"}
)

func Choices() FilterChoices {
	return FilterChoices{
		Types:      append([]TypeOption(nil), Types...),
		Scopes:     append([]string(nil), Scopes...),
		Magnitudes: append([]string(nil), Magnitudes...),
	}
}
