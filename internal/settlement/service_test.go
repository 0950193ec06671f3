package settlement

import (
	"testing"

	"github.com/liauzhanyi/splitwiser/internal/ledger"
)

func TestOffsetUserBalances(t *testing.T) {
	// User 1 is owed 3000 by user 3 and owes 2000 to user 2.
	balances := map[int64]ledger.Cents{
		2: -2000,
		3: 3000,
	}
	settlements := []*Settlement{
		{PayerID: 1, ReceiverID: 2, Amount: 2000}, // user 1 pays off user 2
		{PayerID: 3, ReceiverID: 1, Amount: 1000}, // user 3 pays half
		{PayerID: 4, ReceiverID: 5, Amount: 9999}, // unrelated
	}

	offsetUserBalances(balances, 1, settlements)

	if _, ok := balances[2]; ok {
		t.Errorf("balance with user 2 should be settled and dropped, got %d", balances[2])
	}
	if got := balances[3]; got != 2000 {
		t.Errorf("balance with user 3 = %d, want 2000", got)
	}
	if _, ok := balances[4]; ok {
		t.Error("unrelated settlement leaked into the balance map")
	}
}

func TestOffsetUserBalancesOverpayment(t *testing.T) {
	// Paying more than owed flips the direction of the debt.
	balances := map[int64]ledger.Cents{2: -1000}
	settlements := []*Settlement{
		{PayerID: 1, ReceiverID: 2, Amount: 1500},
	}

	offsetUserBalances(balances, 1, settlements)

	if got := balances[2]; got != 500 {
		t.Errorf("balance with user 2 = %d, want 500", got)
	}
}

func TestOffsetGroupBalancesKeepsAntisymmetry(t *testing.T) {
	balances := map[int64]map[int64]ledger.Cents{
		1: {3: 3000},
		2: {},
		3: {1: -3000},
	}
	settlements := []*Settlement{
		{PayerID: 3, ReceiverID: 1, Amount: 3000},
	}

	offsetGroupBalances(balances, settlements)

	for u, row := range balances {
		for v, amount := range row {
			if got := balances[v][u]; got != -amount {
				t.Errorf("balances[%d][%d] = %d, want %d", v, u, got, -amount)
			}
		}
	}
	if len(balances[1]) != 0 || len(balances[3]) != 0 {
		t.Errorf("settled pair should be dropped, got %v", balances)
	}
}

func TestOffsetGroupBalancesIgnoresNonMembers(t *testing.T) {
	balances := map[int64]map[int64]ledger.Cents{
		1: {2: 1000},
		2: {1: -1000},
	}
	settlements := []*Settlement{
		{PayerID: 7, ReceiverID: 8, Amount: 5000},
	}

	offsetGroupBalances(balances, settlements)

	if got := balances[1][2]; got != 1000 {
		t.Errorf("balances[1][2] = %d, want 1000", got)
	}
	if _, ok := balances[7]; ok {
		t.Error("non-member payer gained a balance row")
	}
}

func TestToBalanceEntriesSortedWithNet(t *testing.T) {
	balances := map[int64]ledger.Cents{
		5: -2500,
		2: 4000,
		9: 1000,
	}

	entries, net := toBalanceEntries(balances)

	wantOrder := []int64{2, 5, 9}
	if len(entries) != len(wantOrder) {
		t.Fatalf("got %d entries, want %d", len(entries), len(wantOrder))
	}
	for i, want := range wantOrder {
		if entries[i].CounterpartyID != want {
			t.Errorf("entries[%d].CounterpartyID = %d, want %d", i, entries[i].CounterpartyID, want)
		}
	}
	if net != 25.00 {
		t.Errorf("net = %v, want 25.00", net)
	}
}
