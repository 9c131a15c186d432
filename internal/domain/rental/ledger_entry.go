package rental

import (
	"time"

	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// EntryType represents the type of a ledger entry
type EntryType string

const (
	// EntryTypeCharge represents recurring rent billed to a renter (balance increase)
	EntryTypeCharge EntryType = "charge"
	// EntryTypeFee represents a one-off fee billed to a renter (balance increase)
	EntryTypeFee EntryType = "fee"
	// EntryTypePayment represents money received from a renter (balance decrease)
	EntryTypePayment EntryType = "payment"
	// EntryTypeCredit represents a goodwill credit applied to a renter (balance decrease)
	EntryTypeCredit EntryType = "credit"
)

// String returns the string representation of EntryType
func (t EntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeCharge, EntryTypeFee, EntryTypePayment, EntryTypeCredit:
		return true
	}
	return false
}

// IncreasesBalance returns true if this entry type raises the amount owed
func (t EntryType) IncreasesBalance() bool {
	return t == EntryTypeCharge || t == EntryTypeFee
}

// LedgerEntry is an immutable record of a balance-affecting event. Once
// created, entries are never edited or deleted - corrections are made with
// new entries. Only a full tenant purge removes them.
type LedgerEntry struct {
	shared.BaseEntity
	TenantID    uuid.UUID
	RenterID    uuid.UUID
	Type        EntryType
	Amount      valueobject.Money // always positive, direction determined by type
	Note        string
	Method      string // payment method, free text, payments only
	ActorUID    string
	ActorEmail  string
	EffectiveAt time.Time // logical event time, may differ from write time
}

// NewLedgerEntry creates a new ledger entry
func NewLedgerEntry(
	tenantID, renterID uuid.UUID,
	entryType EntryType,
	amount valueobject.Money,
	note string,
) (*LedgerEntry, error) {
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}
	if renterID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RENTER", "Renter ID cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid ledger entry type")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	entry := &LedgerEntry{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		RenterID:    renterID,
		Type:        entryType,
		Amount:      amount,
		Note:        note,
		EffectiveAt: time.Now(),
	}
	return entry, nil
}

// WithMethod sets the payment method for the entry
func (e *LedgerEntry) WithMethod(method string) *LedgerEntry {
	e.Method = method
	return e
}

// WithActor sets the acting identity for attribution
func (e *LedgerEntry) WithActor(uid, email string) *LedgerEntry {
	e.ActorUID = uid
	e.ActorEmail = email
	return e
}

// WithEffectiveAt sets the logical event time
func (e *LedgerEntry) WithEffectiveAt(at time.Time) *LedgerEntry {
	e.EffectiveAt = at
	return e
}

// SignedAmount returns the amount with sign based on entry type.
// Charges and fees increase the balance, payments and credits decrease it.
func (e *LedgerEntry) SignedAmount() valueobject.Money {
	if e.Type.IncreasesBalance() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// SumEntries returns the signed sum of a ledger slice. A renter's balance
// must always equal this sum over its full history.
func SumEntries(entries []*LedgerEntry) valueobject.Money {
	total := valueobject.Zero()
	for _, entry := range entries {
		total = total.Add(entry.SignedAmount())
	}
	return total
}
