package ledger

import "testing"

func TestSimplifyHouseScenario(t *testing.T) {
	balances := GroupBalances(houseExpenses(), []int64{1, 2, 3})

	payments := Simplify(balances)
	if len(payments) != 1 {
		t.Fatalf("Simplify() = %v, want exactly one payment", payments)
	}
	p := payments[0]
	if p.FromUserID != 3 || p.ToUserID != 1 || p.Amount != 3000 {
		t.Errorf("payment = %+v, want {3 -> 1, 3000}", p)
	}
}

func TestSimplifySettledGroupIsEmpty(t *testing.T) {
	tests := []struct {
		name     string
		balances map[int64]map[int64]Cents
	}{
		{
			name:     "no balances at all",
			balances: map[int64]map[int64]Cents{},
		},
		{
			name: "everyone at zero",
			balances: map[int64]map[int64]Cents{
				1: {},
				2: {},
			},
		},
		{
			name: "residues within tolerance",
			balances: map[int64]map[int64]Cents{
				1: {2: 1},
				2: {1: -1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if payments := Simplify(tt.balances); len(payments) != 0 {
				t.Errorf("Simplify() = %v, want empty", payments)
			}
		})
	}
}

func TestSimplifyConservation(t *testing.T) {
	// Nets: 1 -> -5000, 2 -> -2500, 3 -> +4000, 4 -> +3500.
	balances := map[int64]map[int64]Cents{
		1: {3: -4000, 4: -1000},
		2: {4: -2500},
		3: {1: 4000},
		4: {1: 1000, 2: 2500},
	}

	payments := Simplify(balances)

	paid := make(map[int64]Cents)
	received := make(map[int64]Cents)
	for _, p := range payments {
		if p.Amount <= 0 {
			t.Fatalf("non-positive payment amount: %+v", p)
		}
		paid[p.FromUserID] += p.Amount
		received[p.ToUserID] += p.Amount
	}

	if paid[1] != 5000 || paid[2] != 2500 {
		t.Errorf("debtor outflows = %v, want 1:5000 2:2500", paid)
	}
	if received[3] != 4000 || received[4] != 3500 {
		t.Errorf("creditor inflows = %v, want 3:4000 4:3500", received)
	}
	// Payment count is bounded by debtors + creditors - 1.
	if len(payments) > 3 {
		t.Errorf("got %d payments, want at most 3", len(payments))
	}
}

func TestSimplifyDeterministicOrder(t *testing.T) {
	// Debtors 1 and 2, creditor 5. Debtors are visited in ascending id
	// order, so the payment sequence is fixed.
	balances := map[int64]map[int64]Cents{
		2: {5: -1000},
		1: {5: -2000},
		5: {1: 2000, 2: 1000},
	}

	for i := 0; i < 50; i++ {
		payments := Simplify(balances)
		if len(payments) != 2 {
			t.Fatalf("Simplify() = %v, want two payments", payments)
		}
		if payments[0].FromUserID != 1 || payments[1].FromUserID != 2 {
			t.Fatalf("payment order = %+v, want debtor 1 before debtor 2", payments)
		}
	}
}

func TestSimplifyReroutesAcrossCounterparties(t *testing.T) {
	// 2 owes 1, and 3 owes 2 the same amount. After netting, 3 pays 1
	// directly even though they never shared an expense: netting discards
	// the bilateral structure on purpose.
	balances := map[int64]map[int64]Cents{
		1: {2: 1500},
		2: {1: -1500, 3: 1500},
		3: {2: -1500},
	}

	payments := Simplify(balances)
	if len(payments) != 1 {
		t.Fatalf("Simplify() = %v, want one payment", payments)
	}
	if payments[0].FromUserID != 3 || payments[0].ToUserID != 1 || payments[0].Amount != 1500 {
		t.Errorf("payment = %+v, want {3 -> 1, 1500}", payments[0])
	}
}
