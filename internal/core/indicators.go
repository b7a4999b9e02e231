// Package core implements the indicator aggregation shared by the online
// (SQLite) and fallback (in-memory mirror) dashboard paths. Everything here
// is a pure function of its inputs: no I/O, no clock, no hidden state. Both
// paths must produce identical numbers from identical inputs, so any change
// to a formula below changes the wire contract.
package core

import "math"

// DefaultRate is the USD-BRL multiplier used when the exchange source is
// unavailable. It must stay identical across every call path.
const DefaultRate = 5.0

// InfiniteFactor is the sentinel for an independence factor with zero costs
// and positive income. It is a finite float so it survives JSON encoding.
const InfiniteFactor = math.MaxFloat64

// ToLocal converts an amount to the BRL baseline. BRL amounts pass through
// unchanged regardless of rate; USD amounts are multiplied by rate. No
// rounding happens here, formatting is a presentation concern.
func ToLocal(amount float64, currency Currency, rate float64) float64 {
	if currency == USD {
		return amount * rate
	}
	return amount
}

// Options selects the explicitly configurable aggregation behaviors.
type Options struct {
	// ConvertAssetCurrency enables USD-BRL conversion for asset values.
	// Off by default: historical data sets are all-local and their totals
	// must not silently change.
	ConvertAssetCurrency bool
}

type IncomeSummary struct {
	Total           float64
	HighReliability float64
	LowReliability  float64
	ExcludingSalary float64
}

type CostSummary struct {
	Total    float64
	ByCenter map[string]float64
}

type InvestmentSummary struct {
	TotalBRLOnly      float64 // raw BRL balances, BRL-denominated records only
	TotalUSDOnly      float64 // raw USD balances, never converted
	TotalConsolidated float64 // every balance converted to BRL
	TotalYield        float64 // yield value in BRL
	AverageYieldPct   float64 // simple arithmetic mean, not balance-weighted
}

type AssetSummary struct {
	Total float64
}

type LiabilitySummary struct {
	Total float64
}

// AggregateIncomes folds income records into the reliability and salary
// breakdowns. Reliability buckets on == "alta"; anything else, including
// "média", counts as low. The salary exclusion is a single subtraction at
// the end, not a running filter.
func AggregateIncomes(incomes []Income, rate float64) IncomeSummary {
	var s IncomeSummary
	var salary float64
	for _, in := range incomes {
		v := ToLocal(in.Amount, in.Currency, rate)
		s.Total += v
		if in.Reliability == ReliabilityHigh {
			s.HighReliability += v
		} else {
			s.LowReliability += v
		}
		if in.Category == SalaryCategory {
			salary += v
		}
	}
	s.ExcludingSalary = s.Total - salary
	return s
}

// AggregateCosts sums cost records and breaks them down by cost center.
// Blank centers collapse into UndefinedCostCenter so the map never carries
// an empty-string key.
func AggregateCosts(costs []Cost, rate float64) CostSummary {
	s := CostSummary{ByCenter: make(map[string]float64)}
	for _, c := range costs {
		v := ToLocal(c.Amount, c.Currency, rate)
		s.Total += v
		center := c.Center
		if center == "" {
			center = UndefinedCostCenter
		}
		s.ByCenter[center] += v
	}
	return s
}

// AggregateInvestments keeps per-currency totals in their native currency
// while the consolidated total converts everything to BRL. The asymmetry is
// intentional: the USD bucket answers "how many dollars", the consolidated
// total answers "how much is it all worth here".
func AggregateInvestments(investments []Investment, rate float64) InvestmentSummary {
	var s InvestmentSummary
	var pctSum float64
	for _, inv := range investments {
		balanceBRL := ToLocal(inv.Balance, inv.Currency, rate)
		if inv.Currency == USD {
			s.TotalUSDOnly += inv.Balance
		} else {
			s.TotalBRLOnly += inv.Balance
		}
		s.TotalConsolidated += balanceBRL
		s.TotalYield += balanceBRL * (inv.YieldPercent / 100)
		pctSum += inv.YieldPercent
	}
	if n := len(investments); n > 0 {
		// Simple mean over records. Downstream consumers expect this, not
		// a balance-weighted average.
		s.AverageYieldPct = pctSum / float64(n)
	}
	return s
}

// AggregateAssets sums asset values. Conversion only applies when the
// caller opted in; the default treats every asset as BRL.
func AggregateAssets(assets []Asset, rate float64, opts Options) AssetSummary {
	var s AssetSummary
	for _, a := range assets {
		if opts.ConvertAssetCurrency {
			s.Total += ToLocal(a.Value, a.Currency, rate)
		} else {
			s.Total += a.Value
		}
	}
	return s
}

// AggregateLiabilities sums liability values. Negative values are credits
// and need no special handling.
func AggregateLiabilities(liabilities []Liability) LiabilitySummary {
	var s LiabilitySummary
	for _, l := range liabilities {
		s.Total += l.Value
	}
	return s
}

// Indicators is the composed indicator set. JSON names are a wire contract
// with the presentation layer.
type Indicators struct {
	RendaTotal                float64            `json:"renda_total"`
	RendaAltaConfiabilidade   float64            `json:"renda_alta_confiabilidade"`
	RendaBaixaConfiabilidade  float64            `json:"renda_baixa_confiabilidade"`
	RendaIndependente         float64            `json:"renda_independente"`
	CustoTotal                float64            `json:"custo_total"`
	CustosPorCentro           map[string]float64 `json:"custos_por_centro"`
	InvestimentoTotalBRL      float64            `json:"investimento_total_brl"`
	InvestimentoTotalUSD      float64            `json:"investimento_total_usd"`
	InvestimentoTotal         float64            `json:"investimento_total"`
	RendimentoTotal           float64            `json:"rendimento_total"`
	MediaPercentualRendimento float64            `json:"media_percentual_rendimento"`
	AtivoTotal                float64            `json:"ativo_total"`
	PassivoTotal              float64            `json:"passivo_total"`
	RendaDisponivel           float64            `json:"renda_disponivel"`
	FatorIndependencia        float64            `json:"fator_independencia"`
	PercentualIndependencia   float64            `json:"percentual_independencia"`
	FaltaIndependencia        float64            `json:"falta_independencia"`
}

// Compose combines the five partial summaries into the final indicator set.
// The zero-cost branch is a defined edge case, not an error: the factor uses
// the InfiniteFactor sentinel rather than dividing, so no NaN or Inf ever
// reaches a JSON response.
func Compose(inc IncomeSummary, cost CostSummary, inv InvestmentSummary, asset AssetSummary, liab LiabilitySummary) Indicators {
	ind := Indicators{
		RendaTotal:                inc.Total,
		RendaAltaConfiabilidade:   inc.HighReliability,
		RendaBaixaConfiabilidade:  inc.LowReliability,
		RendaIndependente:         inc.ExcludingSalary,
		CustoTotal:                cost.Total,
		CustosPorCentro:           cost.ByCenter,
		InvestimentoTotalBRL:      inv.TotalBRLOnly,
		InvestimentoTotalUSD:      inv.TotalUSDOnly,
		InvestimentoTotal:         inv.TotalConsolidated,
		RendimentoTotal:           inv.TotalYield,
		MediaPercentualRendimento: inv.AverageYieldPct,
		AtivoTotal:                asset.Total,
		PassivoTotal:              liab.Total,
		RendaDisponivel:           inc.Total - cost.Total,
	}
	if ind.CustosPorCentro == nil {
		ind.CustosPorCentro = make(map[string]float64)
	}
	if cost.Total > 0 {
		factor := inc.Total / cost.Total
		ind.FatorIndependencia = factor
		ind.PercentualIndependencia = math.Min(100, factor*100)
		ind.FaltaIndependencia = math.Max(0, cost.Total-inc.Total)
	} else {
		if inc.Total > 0 {
			ind.FatorIndependencia = InfiniteFactor
		}
		ind.PercentualIndependencia = 100
	}
	return ind
}

// Compute runs the five aggregators over one period's collections and
// composes the indicator set. Both dashboard paths call this and nothing
// else, which is what keeps them numerically equivalent.
func Compute(c Collections, rate float64, opts Options) Indicators {
	return Compose(
		AggregateIncomes(c.Incomes, rate),
		AggregateCosts(c.Costs, rate),
		AggregateInvestments(c.Investments, rate),
		AggregateAssets(c.Assets, rate, opts),
		AggregateLiabilities(c.Liabilities),
	)
}

// PatrimonioLiquido is net worth as the presentation layer derives it:
// assets plus consolidated investments minus liabilities.
func (i Indicators) PatrimonioLiquido() float64 {
	return i.AtivoTotal + i.InvestimentoTotal - i.PassivoTotal
}
