package ledger

import "testing"

// houseExpenses is the three-flatmate scenario: groceries paid by 1, split
// equally; electricity paid by 2; internet paid by 3.
func houseExpenses() []Expense {
	gid := int64(10)
	return []Expense{
		{
			ID: 1, GroupID: &gid, PayerID: 1, Description: "Groceries", Amount: 12000,
			SplitType: SplitTypeEqual,
			Splits: []Split{
				{UserID: 1, Amount: 4000},
				{UserID: 2, Amount: 4000},
				{UserID: 3, Amount: 4000},
			},
		},
		{
			ID: 2, GroupID: &gid, PayerID: 2, Description: "Electricity", Amount: 9000,
			SplitType: SplitTypeEqual,
			Splits: []Split{
				{UserID: 1, Amount: 3000},
				{UserID: 2, Amount: 3000},
				{UserID: 3, Amount: 3000},
			},
		},
		{
			ID: 3, GroupID: &gid, PayerID: 3, Description: "Internet", Amount: 6000,
			SplitType: SplitTypeEqual,
			Splits: []Split{
				{UserID: 1, Amount: 2000},
				{UserID: 2, Amount: 2000},
				{UserID: 3, Amount: 2000},
			},
		},
	}
}

func TestUserBalance(t *testing.T) {
	expenses := houseExpenses()

	tests := []struct {
		name   string
		userID int64
		want   map[int64]Cents
	}{
		{
			name:   "payer is owed by the other participants",
			userID: 1,
			// owed 40+40 from groceries, owes 30 for electricity and 20 for internet
			want: map[int64]Cents{2: 4000 - 3000, 3: 4000 - 2000},
		},
		{
			name:   "breakdown can be nonzero while net is zero",
			userID: 2,
			want:   map[int64]Cents{1: 3000 - 4000, 3: 3000 - 2000},
		},
		{
			name:   "net debtor",
			userID: 3,
			want:   map[int64]Cents{1: 2000 - 4000, 2: 2000 - 3000},
		},
		{
			name:   "user with no shared expenses",
			userID: 99,
			want:   map[int64]Cents{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserBalance(expenses, tt.userID)
			if len(got) != len(tt.want) {
				t.Fatalf("UserBalance() = %v, want %v", got, tt.want)
			}
			for id, amount := range tt.want {
				if got[id] != amount {
					t.Errorf("balance with user %d = %v, want %v", id, got[id], amount)
				}
			}
		})
	}
}

func TestUserBalanceSkipsUnsplitExpenses(t *testing.T) {
	expenses := []Expense{
		{ID: 1, PayerID: 1, Description: "Unsplit dinner", Amount: 5000},
		{
			ID: 2, PayerID: 1, Description: "Taxi", Amount: 3000,
			SplitType: SplitTypeEqual,
			Splits:    []Split{{UserID: 1, Amount: 1500}, {UserID: 2, Amount: 1500}},
		},
	}

	got := UserBalance(expenses, 1)
	if got[2] != 1500 {
		t.Errorf("balance with user 2 = %v, want 1500", got[2])
	}
	if len(got) != 1 {
		t.Errorf("unsplit expense leaked into balances: %v", got)
	}
}

func TestUserBalanceDropsSettledCounterparties(t *testing.T) {
	// 1 and 2 each paid 20.00 of a 40.00 equal split pair, so they cancel.
	expenses := []Expense{
		{
			ID: 1, PayerID: 1, Amount: 4000, SplitType: SplitTypeEqual,
			Splits: []Split{{UserID: 1, Amount: 2000}, {UserID: 2, Amount: 2000}},
		},
		{
			ID: 2, PayerID: 2, Amount: 4000, SplitType: SplitTypeEqual,
			Splits: []Split{{UserID: 1, Amount: 2000}, {UserID: 2, Amount: 2000}},
		},
	}

	if got := UserBalance(expenses, 1); len(got) != 0 {
		t.Errorf("UserBalance() = %v, want empty map", got)
	}
}

func TestGroupBalancesZeroSum(t *testing.T) {
	members := []int64{1, 2, 3}
	balances := GroupBalances(houseExpenses(), members)

	var total Cents
	nets := make(map[int64]Cents)
	for _, id := range members {
		for _, amount := range balances[id] {
			nets[id] += amount
		}
		total += nets[id]
	}

	if total != 0 {
		t.Errorf("group net balances sum to %v, want 0 (per-user: %v)", total, nets)
	}
	if nets[1] != 3000 || nets[2] != 0 || nets[3] != -3000 {
		t.Errorf("net balances = %v, want 1:+3000 2:0 3:-3000", nets)
	}
}
