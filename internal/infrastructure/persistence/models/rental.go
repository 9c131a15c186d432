package models

import (
	"time"

	"github.com/boothledger/backend/internal/domain/rental"
	"github.com/boothledger/backend/internal/domain/shared"
	"github.com/boothledger/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// RenterModel is the persistence model for the Renter aggregate.
type RenterModel struct {
	TenantAggregateModel
	Name            string     `gorm:"type:varchar(200);not null"`
	Email           string     `gorm:"type:varchar(255)"`
	Phone           string     `gorm:"type:varchar(50)"`
	Station         string     `gorm:"type:varchar(100)"`
	PlanCadence     string     `gorm:"type:varchar(10);not null"`
	PlanAmountCents int64      `gorm:"not null;default:0"`
	PlanDueDay      string     `gorm:"type:varchar(20)"`
	BalanceCents    int64      `gorm:"not null;default:0"`
	NextDueAt       time.Time  `gorm:"type:timestamptz;not null"`
	OnHold          bool       `gorm:"not null;default:false"`
	Active          bool       `gorm:"not null;default:true"`
	Deleted         bool       `gorm:"not null;default:false;index:idx_renters_deleted"`
	Marker          string     `gorm:"type:varchar(10);not null;default:''"`
	LastRemindedAt  *time.Time `gorm:"type:timestamptz"`
	Notes           string     `gorm:"type:varchar(2000)"`
}

// TableName returns the table name for GORM
func (RenterModel) TableName() string {
	return "renters"
}

// ToDomain converts the persistence model to a domain Renter aggregate.
func (m *RenterModel) ToDomain() *rental.Renter {
	r := &rental.Renter{
		Name:    m.Name,
		Email:   m.Email,
		Phone:   m.Phone,
		Station: m.Station,
		Plan: rental.RentPlan{
			Cadence: rental.Cadence(m.PlanCadence),
			Amount:  valueobject.NewMoney(m.PlanAmountCents),
			DueDay:  m.PlanDueDay,
		},
		Balance:        valueobject.NewMoney(m.BalanceCents),
		NextDueAt:      m.NextDueAt,
		OnHold:         m.OnHold,
		Active:         m.Active,
		Deleted:        m.Deleted,
		Marker:         rental.ReminderMarker(m.Marker),
		LastRemindedAt: m.LastRemindedAt,
		Notes:          m.Notes,
	}
	m.PopulateTenantAggregateRoot(&r.TenantAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain Renter aggregate.
func (m *RenterModel) FromDomain(r *rental.Renter) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.Name = r.Name
	m.Email = r.Email
	m.Phone = r.Phone
	m.Station = r.Station
	m.PlanCadence = r.Plan.Cadence.String()
	m.PlanAmountCents = r.Plan.Amount.Cents()
	m.PlanDueDay = r.Plan.DueDay
	m.BalanceCents = r.Balance.Cents()
	m.NextDueAt = r.NextDueAt
	m.OnHold = r.OnHold
	m.Active = r.Active
	m.Deleted = r.Deleted
	m.Marker = string(r.Marker)
	m.LastRemindedAt = r.LastRemindedAt
	m.Notes = r.Notes
}

// RenterModelFromDomain creates a new persistence model from a domain Renter aggregate.
func RenterModelFromDomain(r *rental.Renter) *RenterModel {
	m := &RenterModel{}
	m.FromDomain(r)
	return m
}

// LedgerEntryModel is the persistence model for the LedgerEntry entity.
// Rows are append-only; there is no update path through the repository.
type LedgerEntryModel struct {
	BaseModel
	TenantID    uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_tenant_renter,priority:1"`
	RenterID    uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_tenant_renter,priority:2"`
	EntryType   string    `gorm:"type:varchar(10);not null;index:idx_ledger_type"`
	AmountCents int64     `gorm:"not null"`
	Note        string    `gorm:"type:varchar(500)"`
	Method      string    `gorm:"type:varchar(50)"`
	ActorUID    string    `gorm:"type:varchar(128)"`
	ActorEmail  string    `gorm:"type:varchar(255)"`
	EffectiveAt time.Time `gorm:"type:timestamptz;not null;index:idx_ledger_effective"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry entity.
func (m *LedgerEntryModel) ToDomain() *rental.LedgerEntry {
	return &rental.LedgerEntry{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID:    m.TenantID,
		RenterID:    m.RenterID,
		Type:        rental.EntryType(m.EntryType),
		Amount:      valueobject.NewMoney(m.AmountCents),
		Note:        m.Note,
		Method:      m.Method,
		ActorUID:    m.ActorUID,
		ActorEmail:  m.ActorEmail,
		EffectiveAt: m.EffectiveAt,
	}
}

// FromDomain populates the persistence model from a domain LedgerEntry entity.
func (m *LedgerEntryModel) FromDomain(e *rental.LedgerEntry) {
	m.FromDomainBaseEntity(e.BaseEntity)
	m.TenantID = e.TenantID
	m.RenterID = e.RenterID
	m.EntryType = e.Type.String()
	m.AmountCents = e.Amount.Cents()
	m.Note = e.Note
	m.Method = e.Method
	m.ActorUID = e.ActorUID
	m.ActorEmail = e.ActorEmail
	m.EffectiveAt = e.EffectiveAt
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry entity.
func LedgerEntryModelFromDomain(e *rental.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// ReceiptModel is the persistence model for the Receipt entity. The unique
// index on (tenant_id, receipt_number) backs up the sequence counter: a
// duplicate allocation fails the transaction instead of issuing two receipts
// with the same number.
type ReceiptModel struct {
	BaseModel
	TenantID      uuid.UUID                `gorm:"type:uuid;not null;uniqueIndex:idx_receipts_tenant_number,priority:1"`
	RenterID      uuid.UUID                `gorm:"type:uuid;not null;index:idx_receipts_renter"`
	ReceiptNumber string                   `gorm:"type:varchar(30);not null;uniqueIndex:idx_receipts_tenant_number,priority:2"`
	TotalCents    int64                    `gorm:"not null"`
	LineItems     []rental.ReceiptLineItem `gorm:"type:jsonb;serializer:json"`
	IssuedAt      time.Time                `gorm:"type:timestamptz;not null"`
}

// TableName returns the table name for GORM
func (ReceiptModel) TableName() string {
	return "receipts"
}

// ToDomain converts the persistence model to a domain Receipt entity.
func (m *ReceiptModel) ToDomain() *rental.Receipt {
	return &rental.Receipt{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID:      m.TenantID,
		RenterID:      m.RenterID,
		ReceiptNumber: m.ReceiptNumber,
		Total:         valueobject.NewMoney(m.TotalCents),
		LineItems:     m.LineItems,
		IssuedAt:      m.IssuedAt,
	}
}

// FromDomain populates the persistence model from a domain Receipt entity.
func (m *ReceiptModel) FromDomain(rc *rental.Receipt) {
	m.FromDomainBaseEntity(rc.BaseEntity)
	m.TenantID = rc.TenantID
	m.RenterID = rc.RenterID
	m.ReceiptNumber = rc.ReceiptNumber
	m.TotalCents = rc.Total.Cents()
	m.LineItems = rc.LineItems
	m.IssuedAt = rc.IssuedAt
}

// ReceiptModelFromDomain creates a new persistence model from a domain Receipt entity.
func ReceiptModelFromDomain(rc *rental.Receipt) *ReceiptModel {
	m := &ReceiptModel{}
	m.FromDomain(rc)
	return m
}

// HistoryEventModel is the persistence model for the HistoryEvent entity.
// Rows are append-only.
type HistoryEventModel struct {
	BaseModel
	TenantID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_history_tenant"`
	RenterID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_history_renter"`
	Action      string            `gorm:"type:varchar(30);not null"`
	AmountCents int64             `gorm:"not null;default:0"`
	ActorUID    string            `gorm:"type:varchar(128)"`
	ActorEmail  string            `gorm:"type:varchar(255)"`
	Metadata    map[string]string `gorm:"type:jsonb;serializer:json"`
}

// TableName returns the table name for GORM
func (HistoryEventModel) TableName() string {
	return "history_events"
}

// ToDomain converts the persistence model to a domain HistoryEvent entity.
func (m *HistoryEventModel) ToDomain() *rental.HistoryEvent {
	metadata := m.Metadata
	if metadata == nil {
		metadata = make(map[string]string)
	}
	return &rental.HistoryEvent{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		TenantID:   m.TenantID,
		RenterID:   m.RenterID,
		Action:     rental.ActionType(m.Action),
		Amount:     valueobject.NewMoney(m.AmountCents),
		ActorUID:   m.ActorUID,
		ActorEmail: m.ActorEmail,
		Metadata:   metadata,
	}
}

// FromDomain populates the persistence model from a domain HistoryEvent entity.
func (m *HistoryEventModel) FromDomain(h *rental.HistoryEvent) {
	m.FromDomainBaseEntity(h.BaseEntity)
	m.TenantID = h.TenantID
	m.RenterID = h.RenterID
	m.Action = string(h.Action)
	m.AmountCents = h.Amount.Cents()
	m.ActorUID = h.ActorUID
	m.ActorEmail = h.ActorEmail
	m.Metadata = h.Metadata
}

// HistoryEventModelFromDomain creates a new persistence model from a domain HistoryEvent entity.
func HistoryEventModelFromDomain(h *rental.HistoryEvent) *HistoryEventModel {
	m := &HistoryEventModel{}
	m.FromDomain(h)
	return m
}
