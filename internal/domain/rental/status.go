package rental

import "time"

// Status summarizes a renter's payment standing for display and filtering
type Status string

const (
	StatusPaid     Status = "PAID"
	StatusPartial  Status = "PARTIAL"
	StatusOverdue  Status = "OVERDUE"
	StatusDue      Status = "DUE"
	StatusPastDue  Status = "PAST_DUE"
	StatusReminded Status = "REMINDED"
	StatusOnHold   Status = "ON_HOLD"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsValid checks if the status is one of the known labels
func (s Status) IsValid() bool {
	switch s {
	case StatusPaid, StatusPartial, StatusOverdue, StatusDue, StatusPastDue, StatusReminded, StatusOnHold:
		return true
	}
	return false
}

// RecentPaymentWindow is the trailing window in which a payment keeps a
// renter with an open balance at PARTIAL instead of OVERDUE/DUE.
const RecentPaymentWindow = 14 * 24 * time.Hour

// DeriveStatus derives a renter's payment status from the running balance and
// ledger history. It is a pure function: identical inputs always yield the
// same status, with no hidden state and no I/O.
//
// Rules are evaluated in order, first match wins:
//  1. deleted renter            -> ON_HOLD (display only, excluded from lists)
//  2. owner hold override       -> ON_HOLD
//  3. balance <= 0              -> PAID
//  4. payment within 14 days    -> PARTIAL
//  5. past the due date         -> OVERDUE
//  6. otherwise                 -> DUE
func DeriveStatus(renter *Renter, entries []*LedgerEntry, now time.Time) Status {
	if renter.Deleted {
		return StatusOnHold
	}
	if renter.OnHold {
		return StatusOnHold
	}
	if !renter.Balance.IsPositive() {
		return StatusPaid
	}
	if hasRecentPayment(entries, now) {
		return StatusPartial
	}
	if now.After(renter.NextDueAt) {
		return StatusOverdue
	}
	return StatusDue
}

// DisplayStatus layers the explicit reminder marker over the derived status.
// The marker only shows through while the renter still owes money; once the
// balance clears (or a recent payment lands), the derived status wins.
func DisplayStatus(renter *Renter, entries []*LedgerEntry, now time.Time) Status {
	derived := DeriveStatus(renter, entries, now)
	if derived != StatusOverdue && derived != StatusDue {
		return derived
	}
	switch renter.Marker {
	case ReminderMarkerReminded:
		return StatusReminded
	case ReminderMarkerPastDue:
		return StatusPastDue
	}
	return derived
}

func hasRecentPayment(entries []*LedgerEntry, now time.Time) bool {
	for _, entry := range entries {
		if entry.Type != EntryTypePayment {
			continue
		}
		age := now.Sub(entry.CreatedAt)
		if age >= 0 && age <= RecentPaymentWindow {
			return true
		}
	}
	return false
}
