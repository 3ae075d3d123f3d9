package proposition

import (
	"strconv"
	"strings"
)

// Proposition is one row of the propositions list.
type Proposition struct {
	ID                  int      `json:"id"`
	SiglaTipo           string   `json:"siglaTipo"`
	Numero              int      `json:"numero"`
	Ano                 int      `json:"ano"`
	Ementa              string   `json:"ementa"`
	DataApresentacao    string   `json:"dataApresentacao"`
	DescricaoSituacao   string   `json:"statusProposicao_descricaoSituacao"`
	DescricaoTramitacao string   `json:"statusProposicao_descricaoTramitacao"`
	ImpactScore         *float64 `json:"impact_score"`
	Summary             *string  `json:"summary"`
	Scope               *string  `json:"scope"`
	Magnitude           *string  `json:"magnitude"`
	Tags                []string `json:"tags"`
}

// Title renders the conventional "PL 123/2025" reference.
func (p Proposition) Title() string {
	return p.SiglaTipo + " " + strconv.Itoa(p.Numero) + "/" + strconv.Itoa(p.Ano)
}

type Detailed struct {
	Proposition
	EmentaDetalhada string `json:"ementaDetalhada"`
	URLInteiroTeor  string `json:"urlInteiroTeor"`
}

type Author struct {
	URI  string `json:"uri"`
	Nome string `json:"nome"`
	Tipo string `json:"tipo"`
}

// DeputyID is the last segment of the author URI, "" for non-deputy authors.
func (a Author) DeputyID() string {
	uri := strings.TrimRight(a.URI, "/")
	if !strings.Contains(uri, "/deputados/") {
		return ""
	}
	return uri[strings.LastIndex(uri, "/")+1:]
}

type Theme struct {
	CodTema int    `json:"codTema"`
	Tema    string `json:"tema"`
}

type Tramitacao struct {
	DataHora          string `json:"dataHora"`
	SiglaOrgao        string `json:"siglaOrgao"`
	DescricaoSituacao string `json:"descricaoSituacao"`
	Despacho          string `json:"despacho"`
}

type Vote struct {
	ID         string `json:"id"`
	SiglaOrgao string `json:"siglaOrgao"`
	Data       string `json:"data"`
	Descricao  string `json:"descricao"`
}

// Details is the payload of the proposition detail endpoint.
type Details struct {
	BaseData     Detailed      `json:"base_data"`
	Autores      []Author      `json:"autores"`
	Relacionadas []Proposition `json:"relacionadas"`
	Temas        []Theme       `json:"temas"`
	Tramitacoes  []Tramitacao  `json:"tramitacoes"`
	Votacoes     []Vote        `json:"votacoes"`
}

type TypeOption struct {
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

// FilterChoices lists the fixed option sets of the propositions filter bar.
type FilterChoices struct {
	Types      []TypeOption `json:"types"`
	Scopes     []string     `json:"scopes"`
	Magnitudes []string     `json:"magnitudes"`
}
