package types

import (
	"testing"

	"github.com/angelmondragon/depotvente-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func TestExemplairesKeysNumericOrder(t *testing.T) {
	ex := Exemplaires{
		"10": {Price: decimal.NewFromInt(1), State: enums.ExemplarStateNew},
		"2":  {Price: decimal.NewFromInt(2), State: enums.ExemplarStateGood},
		"0":  {Price: decimal.NewFromInt(3), State: enums.ExemplarStateUsed},
	}
	keys := ex.Keys()
	want := []string{"0", "2", "10"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v got %v", want, keys)
		}
	}
	first, ok := ex.First()
	if !ok || !first.Price.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("unexpected first %+v", first)
	}
	if !ex.TotalPrice().Equal(decimal.NewFromInt(6)) {
		t.Fatalf("unexpected total %s", ex.TotalPrice())
	}
}

func TestExemplairesValidate(t *testing.T) {
	ok := Exemplaires{"0": {Price: decimal.NewFromInt(5), State: enums.ExemplarStateVeryGood}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	badState := Exemplaires{"0": {Price: decimal.NewFromInt(5), State: "abîmé"}}
	if err := badState.Validate(); err == nil {
		t.Fatal("expected state error")
	}
	negative := Exemplaires{"0": {Price: decimal.NewFromInt(-1), State: enums.ExemplarStateNew}}
	if err := negative.Validate(); err == nil {
		t.Fatal("expected price error")
	}
}

func TestExemplairesValueScan(t *testing.T) {
	in := Exemplaires{"0": {Price: decimal.RequireFromString("12.5"), State: enums.ExemplarStateGood}}
	raw, err := in.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	var out Exemplaires
	if err := out.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if out.Count() != 1 || out["0"].State != enums.ExemplarStateGood || !out["0"].Price.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("unexpected scan result %+v", out)
	}
	if err := out.Scan(nil); err != nil || out.Count() != 0 {
		t.Fatalf("expected empty collection on nil scan")
	}
	if err := out.Scan(42); err == nil {
		t.Fatal("expected error on unsupported type")
	}
}
