package event

import "time"

type Event struct {
	ID              int     `json:"id"`
	DataHoraInicio  string  `json:"dataHoraInicio"`
	DataHoraFim     *string `json:"dataHoraFim"`
	Situacao        string  `json:"situacao"`
	DescricaoTipo   string  `json:"descricaoTipo"`
	Descricao       string  `json:"descricao"`
	LocalCamaraNome *string `json:"localCamara_nome"`

	start time.Time
}

// Day is one column of the weekly calendar.
type Day struct {
	Date     string  `json:"date"`
	Weekday  string  `json:"weekday"`
	Today    bool    `json:"today"`
	Events   []Event `json:"events"`
	Overflow int     `json:"overflow"`
}
