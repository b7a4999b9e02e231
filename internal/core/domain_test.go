package core

import "testing"

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2025-10", true},
		{" 2025-01 ", true},
		{"2025-13", false},
		{"2025", false},
		{"outubro", false},
		{"", false},
	}
	for i, tc := range cases {
		_, err := ParsePeriod(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestCurrencyValidate(t *testing.T) {
	if err := BRL.Validate(); err != nil {
		t.Fatalf("BRL: %v", err)
	}
	if err := USD.Validate(); err != nil {
		t.Fatalf("USD: %v", err)
	}
	if err := Currency("EUR").Validate(); err == nil {
		t.Fatal("EUR should be rejected")
	}
}

func TestRecordValidate(t *testing.T) {
	good := Income{Name: "salário", Category: SalaryCategory, Amount: 1000, Currency: BRL, Reliability: ReliabilityHigh, Period: "2025-10"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []error{
		Income{Name: "", Currency: BRL, Period: "2025-10"}.Validate(),
		Income{Name: "x", Currency: "JPY", Period: "2025-10"}.Validate(),
		Income{Name: "x", Currency: BRL, Period: "errado"}.Validate(),
		Cost{Name: "", Currency: BRL, Period: "2025-10"}.Validate(),
		Investment{Institution: "", Currency: BRL, Period: "2025-10"}.Validate(),
		Asset{Name: "x", Currency: "EUR", Period: "2025-10"}.Validate(),
		Liability{Name: "x", Period: "2025/10"}.Validate(),
	}
	for i, err := range bads {
		if err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestAssetBlankCurrencyAllowed(t *testing.T) {
	a := Asset{Name: "imóvel", Value: 300000, Period: "2025-10"}
	if err := a.Validate(); err != nil {
		t.Fatalf("blank asset currency must validate: %v", err)
	}
}
