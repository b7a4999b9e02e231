package core

import "strings"

// Template is a reusable record blueprint the user instantiates into a
// period. Templates are soft-deleted (Active flag) rather than removed, so
// existing records can keep pointing at retired ones without error.
type Template struct {
	ID           int64    `json:"id"`
	Name         string   `json:"nome"`
	Category     string   `json:"categoria,omitempty"`
	Value        float64  `json:"valor"`
	Frequency    string   `json:"frequencia,omitempty"`
	Currency     Currency `json:"moeda,omitempty"`
	Reliability  string   `json:"confiabilidade,omitempty"`
	Center       string   `json:"centro_custo,omitempty"`
	YieldPercent float64  `json:"rendimento_percentual,omitempty"`
	Liquidity    string   `json:"liquidez,omitempty"`
	Appreciation string   `json:"valorizacao,omitempty"`
	Notes        string   `json:"notas,omitempty"`
	Active       bool     `json:"ativo"`
}

func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrEmptyName
	}
	if t.Currency != "" {
		return t.Currency.Validate()
	}
	return nil
}
