package core

import (
	"errors"
	"strings"
	"time"
)

const (
	BRL Currency = "BRL"
	USD Currency = "USD"
)

const (
	ReliabilityHigh = "alta"
	ReliabilityLow  = "baixa"

	// SalaryCategory is the income category excluded from renda_independente.
	SalaryCategory = "salário/emprego"

	// UndefinedCostCenter labels cost records whose center is blank.
	// The map key must match what the presentation layer renders.
	UndefinedCostCenter = "Centro não definido"
)

type (
	// Currency is the denomination of a monetary amount. BRL is the local
	// baseline; USD is the only foreign currency modeled.
	Currency string

	// Period identifies a calendar year-month, e.g. "2025-10". Every record
	// belongs to exactly one period and aggregation never crosses periods.
	Period string

	Income struct {
		ID          int64    `json:"id"`
		Name        string   `json:"nome"`
		Category    string   `json:"categoria"`
		Amount      float64  `json:"valor"`
		Frequency   string   `json:"frequencia"`
		Currency    Currency `json:"moeda"`
		Reliability string   `json:"confiabilidade"`
		Notes       string   `json:"notas"`
		Period      Period   `json:"mes_ano"`
	}

	Cost struct {
		ID       int64    `json:"id"`
		Name     string   `json:"nome"`
		Amount   float64  `json:"valor"`
		Currency Currency `json:"moeda"`
		Center   string   `json:"centro_custo"`
		Notes    string   `json:"notas"`
		Period   Period   `json:"mes_ano"`
	}

	Investment struct {
		ID           int64    `json:"id"`
		Institution  string   `json:"instituicao"`
		Balance      float64  `json:"saldo"`
		Currency     Currency `json:"moeda"`
		YieldPercent float64  `json:"rendimento_percentual"`
		Liquidity    string   `json:"liquidez"`
		Notes        string   `json:"notas"`
		Period       Period   `json:"mes_ano"`
	}

	Asset struct {
		ID           int64    `json:"id"`
		Name         string   `json:"nome"`
		Value        float64  `json:"valor"`
		Appreciation string   `json:"valorizacao"`
		Currency     Currency `json:"moeda,omitempty"`
		Notes        string   `json:"notas"`
		Period       Period   `json:"mes_ano"`
	}

	Liability struct {
		ID     int64   `json:"id"`
		Name   string  `json:"nome"`
		Value  float64 `json:"valor"`
		Notes  string  `json:"notas"`
		Period Period  `json:"mes_ano"`
	}

	// Collections holds the five period-filtered record sets consumed by
	// Compute. Empty slices are valid input, not a failure.
	Collections struct {
		Incomes     []Income
		Costs       []Cost
		Investments []Investment
		Assets      []Asset
		Liabilities []Liability
	}
)

var (
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrInvalidCurrency = errors.New("invalid currency")
	ErrEmptyName       = errors.New("empty name")
)

// ParsePeriod validates and normalizes a "YYYY-MM" period string.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse("2006-01", s); err != nil {
		return "", ErrInvalidPeriod
	}
	return Period(s), nil
}

// CurrentPeriod returns the period containing now.
func CurrentPeriod() Period {
	return Period(time.Now().Format("2006-01"))
}

func (p Period) Validate() error {
	_, err := ParsePeriod(string(p))
	return err
}

func (p Period) String() string { return string(p) }

func (c Currency) Validate() error {
	switch c {
	case BRL, USD:
		return nil
	}
	return ErrInvalidCurrency
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyName
	}
	if err := i.Currency.Validate(); err != nil {
		return err
	}
	return i.Period.Validate()
}

func (c Cost) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if err := c.Currency.Validate(); err != nil {
		return err
	}
	return c.Period.Validate()
}

func (v Investment) Validate() error {
	if strings.TrimSpace(v.Institution) == "" {
		return ErrEmptyName
	}
	if err := v.Currency.Validate(); err != nil {
		return err
	}
	return v.Period.Validate()
}

func (a Asset) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if a.Currency != "" {
		if err := a.Currency.Validate(); err != nil {
			return err
		}
	}
	return a.Period.Validate()
}

func (l Liability) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	return l.Period.Validate()
}
