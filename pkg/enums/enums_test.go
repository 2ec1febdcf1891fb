package enums

import "testing"

func TestParseSaleStatus(t *testing.T) {
	for _, raw := range []string{"en cours", "finalisé", "annulé"} {
		got, err := ParseSaleStatus(raw)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", raw, err)
		}
		if got.String() != raw {
			t.Fatalf("expected %q got %q", raw, got)
		}
	}
	if _, err := ParseSaleStatus("done"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestSaleStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to SaleStatus
		ok       bool
	}{
		{SaleStatusPending, SaleStatusFinalized, true},
		{SaleStatusPending, SaleStatusCancelled, true},
		{SaleStatusFinalized, SaleStatusCancelled, false},
		{SaleStatusCancelled, SaleStatusPending, false},
		{SaleStatusFinalized, SaleStatusFinalized, true},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.ok {
			t.Fatalf("%s -> %s: expected %v got %v", tc.from, tc.to, tc.ok, got)
		}
	}
}

func TestExemplarStates(t *testing.T) {
	states := ExemplarStates()
	if len(states) != 4 || states[0] != ExemplarStateNew {
		t.Fatalf("unexpected vocabulary %v", states)
	}
	states[0] = "cassé"
	if ExemplarStates()[0] != ExemplarStateNew {
		t.Fatal("ExemplarStates must return a copy")
	}
	if _, err := ParseExemplarState("très bon"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ExemplarState("abîmé").IsValid() {
		t.Fatal("expected invalid state")
	}
}

func TestParseRole(t *testing.T) {
	if r, err := ParseRole("gestionnaire"); err != nil || r != RoleGestionnaire {
		t.Fatalf("unexpected %v %v", r, err)
	}
	if _, err := ParseRole("root"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
