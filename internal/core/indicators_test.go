package core

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestToLocalIdentityForBRL(t *testing.T) {
	rates := []float64{0, 1, 5.0, 123.45}
	for _, rate := range rates {
		if got := ToLocal(42.5, BRL, rate); got != 42.5 {
			t.Fatalf("rate %v: expected identity for BRL, got %v", rate, got)
		}
	}
}

func TestToLocalConvertsUSD(t *testing.T) {
	if got := ToLocal(10, USD, 5.0); got != 50 {
		t.Fatalf("expected 50, got %v", got)
	}
	if got := ToLocal(10, USD, DefaultRate); got != 50 {
		t.Fatalf("expected DefaultRate to be 5.0, got %v", got)
	}
}

func TestAggregateIncomesReliabilityAndSalary(t *testing.T) {
	incomes := []Income{
		{Name: "emprego", Category: SalaryCategory, Amount: 5000, Currency: BRL, Reliability: ReliabilityHigh},
		{Name: "freela", Category: "freelance", Amount: 100, Currency: USD, Reliability: ReliabilityLow},
		{Name: "aluguel", Category: "aluguel", Amount: 1200, Currency: BRL, Reliability: "média"},
	}
	s := AggregateIncomes(incomes, 5.0)

	if !almostEqual(s.Total, 5000+500+1200) {
		t.Fatalf("total = %v", s.Total)
	}
	if !almostEqual(s.HighReliability, 5000) {
		t.Fatalf("high = %v", s.HighReliability)
	}
	// "média" buckets into low, same as the original branch on == "alta".
	if !almostEqual(s.LowReliability, 500+1200) {
		t.Fatalf("low = %v", s.LowReliability)
	}
	if !almostEqual(s.ExcludingSalary, 500+1200) {
		t.Fatalf("excluding salary = %v", s.ExcludingSalary)
	}
}

func TestAggregateCostsByCenter(t *testing.T) {
	costs := []Cost{
		{Name: "mercado", Amount: 100, Currency: BRL, Center: "A"},
		{Name: "padaria", Amount: 50, Currency: BRL, Center: "A"},
		{Name: "farmácia", Amount: 25, Currency: BRL, Center: "B"},
	}
	s := AggregateCosts(costs, 5.0)

	if !almostEqual(s.Total, 175) {
		t.Fatalf("total = %v", s.Total)
	}
	if !almostEqual(s.ByCenter["A"], 150) || !almostEqual(s.ByCenter["B"], 25) {
		t.Fatalf("byCenter = %v", s.ByCenter)
	}
}

func TestAggregateCostsBlankCenterSentinel(t *testing.T) {
	s := AggregateCosts([]Cost{{Name: "avulso", Amount: 10, Currency: BRL}}, 5.0)
	if !almostEqual(s.ByCenter[UndefinedCostCenter], 10) {
		t.Fatalf("expected blank center under %q, got %v", UndefinedCostCenter, s.ByCenter)
	}
	if _, ok := s.ByCenter[""]; ok {
		t.Fatal("empty-string key must not appear")
	}
}

func TestAggregateInvestmentsCurrencyAsymmetry(t *testing.T) {
	s := AggregateInvestments([]Investment{
		{Institution: "corretora", Balance: 1000, Currency: USD, YieldPercent: 2},
	}, 5.0)

	if !almostEqual(s.TotalUSDOnly, 1000) {
		t.Fatalf("USD bucket must stay unconverted, got %v", s.TotalUSDOnly)
	}
	if !almostEqual(s.TotalBRLOnly, 0) {
		t.Fatalf("BRL bucket = %v", s.TotalBRLOnly)
	}
	if !almostEqual(s.TotalConsolidated, 5000) {
		t.Fatalf("consolidated = %v", s.TotalConsolidated)
	}
	if !almostEqual(s.TotalYield, 5000*0.02) {
		t.Fatalf("yield = %v", s.TotalYield)
	}
}

func TestAggregateInvestmentsSimpleMeanYield(t *testing.T) {
	s := AggregateInvestments([]Investment{
		{Institution: "a", Balance: 100, Currency: BRL, YieldPercent: 1},
		{Institution: "b", Balance: 10000, Currency: BRL, YieldPercent: 10},
	}, 5.0)

	// Arithmetic mean over records, not balance-weighted (~9.1%).
	if !almostEqual(s.AverageYieldPct, 5.5) {
		t.Fatalf("average yield = %v, want 5.5", s.AverageYieldPct)
	}
}

func TestAggregateInvestmentsEmptyMeanIsZero(t *testing.T) {
	s := AggregateInvestments(nil, 5.0)
	if s.AverageYieldPct != 0 {
		t.Fatalf("empty mean = %v", s.AverageYieldPct)
	}
}

func TestAggregateAssetsIgnoresCurrencyByDefault(t *testing.T) {
	assets := []Asset{
		{Name: "carro", Value: 30000, Currency: BRL},
		{Name: "conta exterior", Value: 1000, Currency: USD},
	}
	s := AggregateAssets(assets, 5.0, Options{})
	if !almostEqual(s.Total, 31000) {
		t.Fatalf("default must not convert, got %v", s.Total)
	}

	s = AggregateAssets(assets, 5.0, Options{ConvertAssetCurrency: true})
	if !almostEqual(s.Total, 30000+5000) {
		t.Fatalf("opt-in conversion, got %v", s.Total)
	}
}

func TestAggregateLiabilitiesNegativeIsCredit(t *testing.T) {
	s := AggregateLiabilities([]Liability{
		{Name: "financiamento", Value: 200000},
		{Name: "reembolso", Value: -500},
	})
	if !almostEqual(s.Total, 199500) {
		t.Fatalf("total = %v", s.Total)
	}
}

func TestComposeZeroCostPositiveIncome(t *testing.T) {
	ind := Compose(IncomeSummary{Total: 1000}, CostSummary{}, InvestmentSummary{}, AssetSummary{}, LiabilitySummary{})

	if ind.FatorIndependencia != InfiniteFactor {
		t.Fatalf("factor = %v, want sentinel", ind.FatorIndependencia)
	}
	if ind.PercentualIndependencia != 100 {
		t.Fatalf("percent = %v", ind.PercentualIndependencia)
	}
	if ind.FaltaIndependencia != 0 {
		t.Fatalf("shortfall = %v", ind.FaltaIndependencia)
	}
	if math.IsInf(ind.FatorIndependencia, 0) || math.IsNaN(ind.FatorIndependencia) {
		t.Fatal("sentinel must be a finite float")
	}
}

func TestComposeZeroCostZeroIncome(t *testing.T) {
	ind := Compose(IncomeSummary{}, CostSummary{}, InvestmentSummary{}, AssetSummary{}, LiabilitySummary{})
	if ind.FatorIndependencia != 0 || ind.PercentualIndependencia != 100 || ind.FaltaIndependencia != 0 {
		t.Fatalf("got factor=%v percent=%v shortfall=%v", ind.FatorIndependencia, ind.PercentualIndependencia, ind.FaltaIndependencia)
	}
	if ind.CustosPorCentro == nil {
		t.Fatal("custos_por_centro must be an empty map, not nil")
	}
}

func TestComposePercentClampedAt100(t *testing.T) {
	cases := []struct {
		income, cost float64
	}{
		{50, 100},
		{100, 100},
		{1000, 100},
		{1e12, 0.01},
	}
	for _, tc := range cases {
		ind := Compose(IncomeSummary{Total: tc.income}, CostSummary{Total: tc.cost}, InvestmentSummary{}, AssetSummary{}, LiabilitySummary{})
		if ind.PercentualIndependencia < 0 || ind.PercentualIndependencia > 100 {
			t.Fatalf("income=%v cost=%v: percent %v outside [0,100]", tc.income, tc.cost, ind.PercentualIndependencia)
		}
	}
}

func TestComputeScenarioSalaryMonth(t *testing.T) {
	c := Collections{
		Incomes: []Income{{Name: "emprego", Category: SalaryCategory, Amount: 5000, Currency: BRL, Reliability: ReliabilityHigh}},
		Costs:   []Cost{{Name: "aluguel", Amount: 3000, Currency: BRL, Center: "Moradia"}},
	}
	ind := Compute(c, DefaultRate, Options{})

	if !almostEqual(ind.RendaTotal, 5000) || !almostEqual(ind.CustoTotal, 3000) {
		t.Fatalf("totals: renda=%v custo=%v", ind.RendaTotal, ind.CustoTotal)
	}
	if !almostEqual(ind.RendaDisponivel, 2000) {
		t.Fatalf("disponivel = %v", ind.RendaDisponivel)
	}
	if !almostEqual(ind.FatorIndependencia, 5000.0/3000.0) {
		t.Fatalf("fator = %v", ind.FatorIndependencia)
	}
	if ind.PercentualIndependencia != 100 {
		t.Fatalf("percentual = %v, want clamp at 100", ind.PercentualIndependencia)
	}
	if ind.FaltaIndependencia != 0 {
		t.Fatalf("falta = %v", ind.FaltaIndependencia)
	}
	// The only income is salary, so nothing is independent.
	if !almostEqual(ind.RendaIndependente, 0) {
		t.Fatalf("independente = %v", ind.RendaIndependente)
	}
}

func TestComputeEmptyCollections(t *testing.T) {
	ind := Compute(Collections{}, DefaultRate, Options{})
	if ind.RendaTotal != 0 || ind.CustoTotal != 0 || ind.InvestimentoTotal != 0 ||
		ind.AtivoTotal != 0 || ind.PassivoTotal != 0 {
		t.Fatalf("expected all-zero totals, got %+v", ind)
	}
	if ind.PercentualIndependencia != 100 || ind.FatorIndependencia != 0 {
		t.Fatalf("zero-data branch: %+v", ind)
	}
}

func TestComputeDeterministic(t *testing.T) {
	c := Collections{
		Incomes:     []Income{{Name: "a", Amount: 10, Currency: USD, Reliability: ReliabilityHigh}},
		Costs:       []Cost{{Name: "b", Amount: 3, Currency: BRL, Center: "x"}},
		Investments: []Investment{{Institution: "c", Balance: 7, Currency: USD, YieldPercent: 1.5}},
		Assets:      []Asset{{Name: "d", Value: 2}},
		Liabilities: []Liability{{Name: "e", Value: -1}},
	}
	first := Compute(c, 5.37, Options{})
	for i := 0; i < 10; i++ {
		if got := Compute(c, 5.37, Options{}); got.RendaTotal != first.RendaTotal ||
			got.FatorIndependencia != first.FatorIndependencia ||
			got.InvestimentoTotal != first.InvestimentoTotal {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestPatrimonioLiquido(t *testing.T) {
	ind := Indicators{AtivoTotal: 100, InvestimentoTotal: 50, PassivoTotal: 30}
	if got := ind.PatrimonioLiquido(); !almostEqual(got, 120) {
		t.Fatalf("patrimonio liquido = %v", got)
	}
}
