package ledger

import "slices"

// Payment is one settle-up instruction: FromUserID pays ToUserID Amount.
type Payment struct {
	FromUserID int64
	ToUserID   int64
	Amount     Cents
}

// Simplify reduces a group's balance maps to an ordered list of payments
// that brings every net balance to zero.
//
// Each user's bilateral amounts are first collapsed to a single net figure,
// then debtors are greedily matched against creditors: every debtor pays
// min(remaining debt, remaining credit) to the creditors in turn until
// their debt is cleared. Users are visited in ascending user-id order, so
// the output is deterministic for a given input.
//
// The result settles every debtor's full net debt and every creditor's full
// net credit, and contains at most debtors+creditors-1 payments. It is NOT
// guaranteed to be the minimum possible number of payments, and a payment
// may go to someone other than the original counterparty: netting
// deliberately discards the bilateral structure. Residues within Tolerance
// count as settled; a fully settled group yields an empty list.
func Simplify(balances map[int64]map[int64]Cents) []Payment {
	userIDs := make([]int64, 0, len(balances))
	for id := range balances {
		userIDs = append(userIDs, id)
	}
	slices.Sort(userIDs)

	type position struct {
		userID    int64
		remaining Cents
	}

	var creditors, debtors []position
	for _, id := range userIDs {
		var net Cents
		for _, amount := range balances[id] {
			net += amount
		}
		switch {
		case net > Tolerance:
			creditors = append(creditors, position{userID: id, remaining: net})
		case net < -Tolerance:
			debtors = append(debtors, position{userID: id, remaining: -net})
		}
	}

	var payments []Payment
	c := 0
	for d := range debtors {
		for debtors[d].remaining > Tolerance && c < len(creditors) {
			amount := min(debtors[d].remaining, creditors[c].remaining)
			payments = append(payments, Payment{
				FromUserID: debtors[d].userID,
				ToUserID:   creditors[c].userID,
				Amount:     amount,
			})
			debtors[d].remaining -= amount
			creditors[c].remaining -= amount
			if creditors[c].remaining <= Tolerance {
				c++
			}
		}
	}
	return payments
}
