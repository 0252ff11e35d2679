// Package ledger is the query and aggregation engine of the cash
// journal. Views are always recomputed from the full matching set of
// operations; nothing here caches totals.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

// Filter is an optional conjunction of constraints on the journal.
// Zero values mean "no constraint". Start and End are inclusive.
type Filter struct {
	Type       models.OperationType
	Start      *time.Time
	End        *time.Time
	CategoryID uint
}

// Apply adds the filter's constraints and the load-bearing ordering
// (date ascending, then id ascending) to a query. Running balances are
// order-dependent, so every journal read goes through here.
func (f Filter) Apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&models.Operation{})
	if f.Type.Valid() {
		q = q.Where("type = ?", f.Type)
	}
	if f.Start != nil {
		q = q.Where("date >= ?", *f.Start)
	}
	if f.End != nil {
		q = q.Where("date <= ?", *f.End)
	}
	if f.CategoryID != 0 {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	return q.Order("date ASC, id ASC")
}

// Entries returns the operations matching the filter, preloading their
// category, in (date ASC, id ASC) order.
func Entries(db *gorm.DB, f Filter) ([]models.Operation, error) {
	var ops []models.Operation
	if err := f.Apply(db).Preload("Category").Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// Summary holds the per-type totals and the net balance of a set of
// operations. Amounts keep full decimal precision; rounding to the
// minor unit happens at presentation only.
type Summary struct {
	Entree  decimal.Decimal `json:"entree"`
	Depense decimal.Decimal `json:"depense"`
	Vente   decimal.Decimal `json:"vente"`
	Balance decimal.Decimal `json:"solde"`
}

// Summarize sums each type's amount independently and derives
// balance = entree + vente - depense.
func Summarize(ops []models.Operation) Summary {
	var s Summary
	for i := range ops {
		switch ops[i].Type {
		case models.TypeEntree:
			s.Entree = s.Entree.Add(ops[i].Amount)
		case models.TypeDepense:
			s.Depense = s.Depense.Add(ops[i].Amount)
		case models.TypeVente:
			s.Vente = s.Vente.Add(ops[i].Amount)
		}
	}
	s.Balance = s.Entree.Add(s.Vente).Sub(s.Depense)
	return s
}

// RunningBalance folds the signed amounts left to right, returning one
// running total per operation, same length and order as the input.
func RunningBalance(ops []models.Operation) []decimal.Decimal {
	running := make([]decimal.Decimal, len(ops))
	var acc decimal.Decimal
	for i := range ops {
		acc = acc.Add(ops[i].SignedAmount())
		running[i] = acc
	}
	return running
}

// MonthBucket is one month of aggregated totals, keyed by "YYYY-MM".
type MonthBucket struct {
	Month   string          `json:"month"`
	Entree  decimal.Decimal `json:"entree"`
	Depense decimal.Decimal `json:"depense"`
	Vente   decimal.Decimal `json:"vente"`
	Net     decimal.Decimal `json:"net"`
}

// MonthlyAggregate buckets operations by calendar month and sums each
// type's amount per bucket, deriving net = entree + vente - depense.
// Only months with at least one operation appear; buckets come back
// sorted by key, which for zero-padded "YYYY-MM" keys is chronological.
func MonthlyAggregate(ops []models.Operation) []MonthBucket {
	byMonth := make(map[string]*MonthBucket)
	for i := range ops {
		key := ops[i].MonthKey()
		b, ok := byMonth[key]
		if !ok {
			b = &MonthBucket{Month: key}
			byMonth[key] = b
		}
		switch ops[i].Type {
		case models.TypeEntree:
			b.Entree = b.Entree.Add(ops[i].Amount)
		case models.TypeDepense:
			b.Depense = b.Depense.Add(ops[i].Amount)
		case models.TypeVente:
			b.Vente = b.Vente.Add(ops[i].Amount)
		}
	}

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buckets := make([]MonthBucket, 0, len(keys))
	for _, k := range keys {
		b := byMonth[k]
		b.Net = b.Entree.Add(b.Vente).Sub(b.Depense)
		buckets = append(buckets, *b)
	}
	return buckets
}
