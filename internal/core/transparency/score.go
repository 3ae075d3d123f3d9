// Package transparency explains how the backend impact score is composed.
// The score itself is computed upstream; nothing here feeds back into it.
package transparency

import "github.com/legisdash/legisdash/internal/core/proposition"

const (
	MaxScore       = 100
	PECBonus       = 10
	LLMEstimateMax = 30
)

type Weight struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

type WeightTable struct {
	Name    string   `json:"name"`
	Key     string   `json:"key"`
	Entries []Weight `json:"entries"`
}

var ScopeWeights = WeightTable{
	Name: "Peso da Abrangência",
	Key:  "scope_weights",
	Entries: []Weight{
		{Label: "Nacional", Points: 35},
		{Label: "Estadual", Points: 15},
		{Label: "Municipal", Points: 5},
	},
}

var MagnitudeWeights = WeightTable{
	Name: "Peso da Magnitude",
	Key:  "magnitude_weights",
	Entries: []Weight{
		{Label: "População Geral", Points: 25},
		{Label: "Setorial Específico", Points: 15},
		{Label: "Alto", Points: 10},
		{Label: "Médio", Points: 5},
		{Label: "Baixo", Points: 5},
	},
}

// Points returns the weight for label, 0 when the label is unknown.
func (t WeightTable) Points(label string) int {
	for _, w := range t.Entries {
		if w.Label == label {
			return w.Points
		}
	}
	return 0
}

type Explanation struct {
	Title       string        `json:"title"`
	Paragraphs  []string      `json:"paragraphs"`
	Formula     string        `json:"formula"`
	Weights     []WeightTable `json:"weights"`
	LLMEstimate Weight        `json:"llm_estimate"`
	PECBonus    int           `json:"pec_bonus"`
	MaxScore    int           `json:"max_score"`
}

func Explain() Explanation {
	return Explanation{
		Title: "Transparência no Cálculo de Impacto",
		Paragraphs: []string{
			"O Score de Impacto de cada proposição estima a sua relevância política e social.",
			"Uma análise qualitativa feita por um modelo de linguagem é ponderada com dados estruturados da própria proposição.",
		},
		Formula:     "Score = (Peso da Abrangência) + (Peso da Magnitude) + (Estimativa do LLM) + (Bônus para PEC)",
		Weights:     []WeightTable{ScopeWeights, MagnitudeWeights},
		LLMEstimate: Weight{Label: "Estimativa do LLM (0 a 30)", Points: LLMEstimateMax},
		PECBonus:    PECBonus,
		MaxScore:    MaxScore,
	}
}

// ScoreBreakdown itemizes the components the dashboard can see for one
// proposition. LLMEstimate is inferred as Score minus the known components
// and is only set when it falls inside the range the model can assign.
type ScoreBreakdown struct {
	PropositionID int      `json:"proposition_id"`
	Scope         string   `json:"scope,omitempty"`
	ScopePoints   int      `json:"scope_points"`
	Magnitude     string   `json:"magnitude,omitempty"`
	MagnitudePts  int      `json:"magnitude_points"`
	PECBonus      int      `json:"pec_bonus"`
	Known         int      `json:"known_points"`
	Score         *float64 `json:"score"`
	LLMEstimate   *float64 `json:"llm_estimate"`
	Capped        bool     `json:"capped"`
}

func Breakdown(p proposition.Proposition) ScoreBreakdown {
	b := ScoreBreakdown{PropositionID: p.ID, Score: p.ImpactScore}
	if p.Scope != nil {
		b.Scope = *p.Scope
		b.ScopePoints = ScopeWeights.Points(b.Scope)
	}
	if p.Magnitude != nil {
		b.Magnitude = *p.Magnitude
		b.MagnitudePts = MagnitudeWeights.Points(b.Magnitude)
	}
	if p.SiglaTipo == "PEC" {
		b.PECBonus = PECBonus
	}
	b.Known = b.ScopePoints + b.MagnitudePts + b.PECBonus

	if p.ImpactScore == nil {
		return b
	}
	score := *p.ImpactScore
	if score >= MaxScore {
		b.Capped = true
		return b
	}
	if est := score - float64(b.Known); est >= 0 && est <= LLMEstimateMax {
		b.LLMEstimate = &est
	}
	return b
}
