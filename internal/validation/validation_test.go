package validation

import "testing"

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("label", "  ", v)
	if v["label"] != "required" {
		t.Errorf("violations = %v", v)
	}

	v = make(Violations)
	Required("label", "ok", v)
	if !v.Empty() {
		t.Errorf("unexpected violations: %v", v)
	}
}

func TestOneOf(t *testing.T) {
	choices := []string{"entree", "depense", "vente"}

	v := make(Violations)
	OneOf("type", "vente", choices, v)
	if !v.Empty() {
		t.Errorf("unexpected violations: %v", v)
	}

	v = make(Violations)
	OneOf("type", "transfer", choices, v)
	if v["type"] != "invalid_choice" {
		t.Errorf("violations = %v", v)
	}
}

func TestDate(t *testing.T) {
	v := make(Violations)
	Date("date", "2024-05-10", "2006-01-02", v)
	if !v.Empty() {
		t.Errorf("unexpected violations: %v", v)
	}

	v = make(Violations)
	Date("date", "10/05/2024", "2006-01-02", v)
	if v["date"] != "invalid_date" {
		t.Errorf("violations = %v", v)
	}

	// empty dates are Required's concern
	v = make(Violations)
	Date("date", "", "2006-01-02", v)
	if !v.Empty() {
		t.Errorf("unexpected violations: %v", v)
	}
}

func TestPositiveInt(t *testing.T) {
	v := make(Violations)
	PositiveInt("quantity", 0, v)
	if v["quantity"] != "must_be_positive" {
		t.Errorf("violations = %v", v)
	}

	v = make(Violations)
	PositiveInt("quantity", 3, v)
	if !v.Empty() {
		t.Errorf("unexpected violations: %v", v)
	}
}

func TestMaxLen(t *testing.T) {
	v := make(Violations)
	MaxLen("label", "abcdef", 5, v)
	if v["label"] != "too_long" {
		t.Errorf("violations = %v", v)
	}
}
