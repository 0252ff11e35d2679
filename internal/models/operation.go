package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the closed set of movement kinds the journal records.
type OperationType string

const (
	// TypeEntree is cash coming in.
	TypeEntree OperationType = "entree"
	// TypeDepense is cash going out.
	TypeDepense OperationType = "depense"
	// TypeVente is a sale, optionally derived from quantity × unit price.
	TypeVente OperationType = "vente"
)

// Valid reports whether t is one of the three known types.
func (t OperationType) Valid() bool {
	return t == TypeEntree || t == TypeDepense || t == TypeVente
}

// DateFormat is the calendar-date layout used everywhere operations
// cross a boundary (forms, filters, CSV).
const DateFormat = "2006-01-02"

// MonthKeyFormat is the bucket key layout of the monthly aggregate.
// Zero-padded, so lexicographic order equals chronological order.
const MonthKeyFormat = "2006-01"

// Operation is a single movement in the cash journal.
type Operation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Date   time.Time       `gorm:"type:date;not null;index" json:"date"`
	Type   OperationType   `gorm:"size:20;not null" json:"type"`
	Label  string          `gorm:"size:200;not null" json:"label"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount"`
	Note   string          `gorm:"type:text" json:"note,omitempty"`

	// Sale metadata. Quantity and UnitPrice drive amount derivation for
	// vente only; for other types they are inert metadata.
	Designation string           `gorm:"size:120" json:"designation,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"unit_price,omitempty"`

	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`
}

// GetUserID implements the policy.Ownable interface for
// ownership-based authorization.
func (o *Operation) GetUserID() uint {
	return o.UserID
}

// SignedAmount returns the operation's contribution to the balance:
// entree and vente add, depense subtracts. This is the single source
// of truth for the sign rule; summaries, running balances and monthly
// aggregates all go through it.
func (o *Operation) SignedAmount() decimal.Decimal {
	if o.Type == TypeDepense {
		return o.Amount.Neg()
	}
	return o.Amount
}

// MonthKey returns the "YYYY-MM" bucket key of the operation's date.
func (o *Operation) MonthKey() string {
	return o.Date.Format(MonthKeyFormat)
}
