package ledger

// UserBalance computes, for one user, the signed amount owed to or from
// every counterparty that shares a split expense with them. A positive entry
// means the counterparty owes the user; negative means the user owes the
// counterparty.
//
// The walk is a single O(expenses × participants) pass over the snapshot,
// re-derived on every call:
//   - expense paid by the user: every other participant's share is added
//     under that participant's key
//   - expense paid by someone else where the user holds a share: the share
//     is subtracted under the payer's key
//
// Unsplit expenses are skipped. Counterparties that net out to zero are not
// reported.
func UserBalance(expenses []Expense, userID int64) map[int64]Cents {
	balances := make(map[int64]Cents)

	for _, e := range expenses {
		if !e.IsSplit() {
			continue
		}
		if e.PayerID == userID {
			for _, s := range e.Splits {
				if s.UserID == userID {
					continue
				}
				balances[s.UserID] += s.Amount
			}
			continue
		}
		for _, s := range e.Splits {
			if s.UserID == userID && s.Amount > 0 {
				balances[e.PayerID] -= s.Amount
			}
		}
	}

	for id, amount := range balances {
		if amount == 0 {
			delete(balances, id)
		}
	}
	return balances
}

// GroupBalances computes the per-counterparty balance map for every member
// of a group over the same expense snapshot. The caller is expected to pass
// expenses already scoped to the group.
func GroupBalances(expenses []Expense, memberIDs []int64) map[int64]map[int64]Cents {
	balances := make(map[int64]map[int64]Cents, len(memberIDs))
	for _, id := range memberIDs {
		balances[id] = UserBalance(expenses, id)
	}
	return balances
}
