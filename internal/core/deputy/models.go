package deputy

// Deputy is one row of the deputies table.
type Deputy struct {
	ID           int     `json:"id"`
	NomeCivil    *string `json:"nomeCivil"`
	Sexo         *string `json:"sexo"`
	Nome         *string `json:"ultimoStatus_nome"`
	SiglaPartido *string `json:"ultimoStatus_siglaPartido"`
	SiglaUf      *string `json:"ultimoStatus_siglaUf"`
	URLFoto      *string `json:"ultimoStatus_urlFoto"`
	Email        *string `json:"ultimoStatus_email"`
	Situacao     *string `json:"ultimoStatus_situacao"`
}

// AuthoredProposition is the short proposition form listed on a deputy page.
type AuthoredProposition struct {
	ID        int     `json:"id"`
	SiglaTipo string  `json:"siglaTipo"`
	Numero    int     `json:"numero"`
	Ano       int     `json:"ano"`
	Ementa    *string `json:"ementa"`
}

// Detailed is the payload of the deputy detail endpoint.
type Detailed struct {
	Deputy
	URI                 *string                `json:"uri"`
	DataNascimento      *string                `json:"dataNascimento"`
	DataFalecimento     *string                `json:"dataFalecimento"`
	UfNascimento        *string                `json:"ufNascimento"`
	MunicipioNascimento *string                `json:"municipioNascimento"`
	Escolaridade        *string                `json:"escolaridade"`
	URLWebsite          *string                `json:"urlWebsite"`
	RedeSocial          map[string]interface{} `json:"redeSocial"`
	IDLegislatura       *int                   `json:"ultimoStatus_idLegislatura"`
	NomeEleitoral       *string                `json:"ultimoStatus_nomeEleitoral"`
	GabineteNome        *string                `json:"ultimoStatus_gabinete_nome"`
	GabinetePredio      *string                `json:"ultimoStatus_gabinete_predio"`
	GabineteSala        *string                `json:"ultimoStatus_gabinete_sala"`
	GabineteAndar       *string                `json:"ultimoStatus_gabinete_andar"`
	GabineteTelefone    *string                `json:"ultimoStatus_gabinete_telefone"`
	GabineteEmail       *string                `json:"ultimoStatus_gabinete_email"`
	CondicaoEleitoral   *string                `json:"ultimoStatus_condicaoEleitoral"`
	DescricaoStatus     *string                `json:"ultimoStatus_descricaoStatus"`
	Proposicoes         []AuthoredProposition  `json:"proposicoes"`
}

// RankedDeputy is a deputy scored by the combined impact of their propositions.
type RankedDeputy struct {
	ID             int     `json:"id"`
	Nome           string  `json:"nome"`
	SiglaPartido   string  `json:"sigla_partido"`
	SiglaUf        string  `json:"sigla_uf"`
	URLFoto        string  `json:"url_foto"`
	TotalImpacto   float64 `json:"total_impacto"`
	TotalPropostas int     `json:"total_propostas"`
}

// DayCount is one heatmap cell.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD, UTC
	Count int    `json:"value"`
}

type Activity struct {
	DeputyID int        `json:"deputy_id"`
	Days     []DayCount `json:"days"`
	Total    int        `json:"total"`
	Skipped  int        `json:"skipped,omitempty"`
}
