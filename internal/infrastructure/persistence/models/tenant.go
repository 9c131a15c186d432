package models

import (
	"github.com/boothledger/backend/internal/domain/tenant"
	"gorm.io/gorm"
)

// TenantModel is the persistence model for the Tenant aggregate.
type TenantModel struct {
	AggregateModel
	Name              string `gorm:"type:varchar(200);not null"`
	OwnerUID          string `gorm:"type:varchar(128);not null;uniqueIndex:idx_tenants_owner"`
	ContactEmail      string `gorm:"type:varchar(255)"`
	ContactPhone      string `gorm:"type:varchar(50)"`
	ReceiptPrefix     string `gorm:"type:varchar(10);not null"`
	ReceiptFooterNote string `gorm:"type:varchar(500)"`
	ThemeColor        string `gorm:"type:varchar(20)"`
	WeekStart         string `gorm:"type:varchar(10);not null"`
	NextReceiptSeq    int64  `gorm:"not null;default:1"`
	Active            bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant aggregate.
func (m *TenantModel) ToDomain() *tenant.Tenant {
	t := &tenant.Tenant{
		Name:              m.Name,
		OwnerUID:          m.OwnerUID,
		ContactEmail:      m.ContactEmail,
		ContactPhone:      m.ContactPhone,
		ReceiptPrefix:     m.ReceiptPrefix,
		ReceiptFooterNote: m.ReceiptFooterNote,
		ThemeColor:        m.ThemeColor,
		WeekStart:         tenant.WeekStart(m.WeekStart),
		NextReceiptSeq:    m.NextReceiptSeq,
		Active:            m.Active,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Tenant aggregate.
func (m *TenantModel) FromDomain(t *tenant.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.OwnerUID = t.OwnerUID
	m.ContactEmail = t.ContactEmail
	m.ContactPhone = t.ContactPhone
	m.ReceiptPrefix = t.ReceiptPrefix
	m.ReceiptFooterNote = t.ReceiptFooterNote
	m.ThemeColor = t.ThemeColor
	m.WeekStart = t.WeekStart.String()
	m.NextReceiptSeq = t.NextReceiptSeq
	m.Active = t.Active
}

// TenantModelFromDomain creates a new persistence model from a domain Tenant aggregate.
func TenantModelFromDomain(t *tenant.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

var _ schema = TenantModel{}

// schema is a compile-time check that every model declares its table name.
type schema interface {
	TableName() string
}

// AllModels lists every persistence model for migration tooling.
func AllModels() []any {
	return []any{
		&TenantModel{},
		&RenterModel{},
		&LedgerEntryModel{},
		&ReceiptModel{},
		&HistoryEventModel{},
		&MailMessageModel{},
	}
}

// AutoMigrate runs GORM auto-migration for all models. Development
// convenience; production schemas come from the SQL migrations.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
