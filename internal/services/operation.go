package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/validation"
)

// OperationInput is the mutable surface of a ledger entry. A nil
// pointer means "field not supplied": on create the field takes its
// default, on update it retains its previous value. For the clearable
// optionals (note, designation, category, quantity, unit price) a
// supplied zero value clears the field.
type OperationInput struct {
	Type        *string
	Date        *string // calendar date, "2006-01-02"
	Label       *string
	Note        *string
	CategoryID  *uint
	Designation *string
	Quantity    *int
	UnitPrice   *decimal.Decimal
	Amount      *decimal.Decimal
}

var operationTypes = []string{
	string(models.TypeEntree),
	string(models.TypeDepense),
	string(models.TypeVente),
}

// OperationService validates, derives and persists ledger entries.
// Authorization happens before any of these methods run.
type OperationService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewOperationService creates the service with the wall clock.
func NewOperationService(db *gorm.DB) *OperationService {
	return &OperationService{db: db, now: time.Now}
}

// Create validates the input, applies the vente derivation rule and
// appends a new entry owned by userID. Validation runs before any
// write; a failed input leaves the store untouched.
func (s *OperationService) Create(ctx context.Context, userID uint, in OperationInput) (*models.Operation, error) {
	v := make(validation.Violations)

	typ := strValue(in.Type)
	validation.Required("type", typ, v)
	if typ != "" {
		validation.OneOf("type", typ, operationTypes, v)
	}
	validation.Required("label", strValue(in.Label), v)
	validation.Date("date", strValue(in.Date), models.DateFormat, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	op := models.Operation{
		Type:   models.OperationType(typ),
		Label:  strValue(in.Label),
		Note:   strValue(in.Note),
		UserID: userID,
	}
	if in.Date != nil && *in.Date != "" {
		d, _ := time.Parse(models.DateFormat, *in.Date)
		op.Date = d
	} else {
		// default to "today" in the server's calendar
		y, m, d := s.now().Date()
		op.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	applyOptionals(&op, in)
	op.Amount = deriveAmount(&op, in.Amount)

	if err := s.db.WithContext(ctx).Create(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

// Update merges the input into the stored entry and re-applies the
// same validation and derivation as Create. The amount-vs-derivation
// precedence is re-evaluated from the merged quantity, unit price and
// amount, not from the new input alone.
func (s *OperationService) Update(ctx context.Context, id uint, in OperationInput) (*models.Operation, error) {
	var op models.Operation
	if err := s.db.WithContext(ctx).First(&op, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	v := make(validation.Violations)
	if in.Type != nil {
		validation.Required("type", *in.Type, v)
		validation.OneOf("type", *in.Type, operationTypes, v)
	}
	if in.Label != nil {
		validation.Required("label", *in.Label, v)
	}
	validation.Date("date", strValue(in.Date), models.DateFormat, v)
	if !v.Empty() {
		return nil, &ValidationError{Violations: v}
	}

	if in.Type != nil {
		op.Type = models.OperationType(*in.Type)
	}
	if in.Label != nil {
		op.Label = *in.Label
	}
	if in.Date != nil && *in.Date != "" {
		d, _ := time.Parse(models.DateFormat, *in.Date)
		op.Date = d
	}
	applyOptionals(&op, in)
	op.Amount = deriveAmount(&op, in.Amount)

	if err := s.db.WithContext(ctx).Save(&op).Error; err != nil {
		return nil, err
	}
	return &op, nil
}

// Delete removes an entry. Missing ids surface as ErrNotFound so the
// caller can show a notice instead of an error page.
func (s *OperationService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Operation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get loads an entry with its category, for edit forms and ownership
// checks.
func (s *OperationService) Get(ctx context.Context, id uint) (*models.Operation, error) {
	var op models.Operation
	if err := s.db.WithContext(ctx).Preload("Category").First(&op, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// applyOptionals merges the clearable optional fields onto op.
// Zero values clear; nil pointers keep the existing value.
func applyOptionals(op *models.Operation, in OperationInput) {
	if in.Note != nil {
		op.Note = *in.Note
	}
	if in.Designation != nil {
		op.Designation = *in.Designation
	}
	if in.CategoryID != nil {
		if *in.CategoryID == 0 {
			op.CategoryID = nil
		} else {
			id := *in.CategoryID
			op.CategoryID = &id
		}
	}
	if in.Quantity != nil {
		if *in.Quantity == 0 {
			op.Quantity = nil
		} else {
			q := *in.Quantity
			op.Quantity = &q
		}
	}
	if in.UnitPrice != nil {
		if in.UnitPrice.IsZero() {
			op.UnitPrice = nil
		} else {
			p := *in.UnitPrice
			op.UnitPrice = &p
		}
	}
}

// deriveAmount resolves the stored amount from the merged entry state
// and the explicitly supplied amount, if any. An explicit amount
// always wins. A vente with both quantity and unit price derives
// quantity × unit price. Otherwise the previous amount stands (zero on
// a fresh entry). Negative amounts are deliberately not rejected; the
// sign of the balance contribution comes from the type, never from the
// stored value.
func deriveAmount(op *models.Operation, explicit *decimal.Decimal) decimal.Decimal {
	if explicit != nil {
		return *explicit
	}
	if op.Type == models.TypeVente && op.Quantity != nil && op.UnitPrice != nil {
		return op.UnitPrice.Mul(decimal.NewFromInt(int64(*op.Quantity)))
	}
	return op.Amount
}

func strValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
