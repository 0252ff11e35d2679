package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/models"
)

func TestWriteCSV(t *testing.T) {
	qty := 3
	price := decimal.RequireFromString("1500")
	ops := []models.Operation{
		{
			Date:   time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Type:   models.TypeVente,
			Label:  "savon",
			Amount: decimal.RequireFromString("4500"),
			Category: &models.Category{Name: "vente"},
			Designation: "savon artisanal",
			Quantity:    &qty,
			UnitPrice:   &price,
			Note:        "marché",
		},
		{
			Date:   time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC),
			Type:   models.TypeDepense,
			Label:  "transport",
			Amount: decimal.RequireFromString("600"),
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, ops); err != nil {
		t.Fatalf("write: %v", err)
	}

	out := buf.Bytes()
	if !bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("missing UTF-8 BOM")
	}

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want header + 2 rows", len(records))
	}
	if got := strings.Join(records[0], ","); got != "date,type,label,amount,category,designation,quantity,unit_price,note" {
		t.Errorf("header = %q", got)
	}
	want := []string{"2024-05-10", "vente", "savon", "4500.00", "vente", "savon artisanal", "3", "1500.00", "marché"}
	for i, w := range want {
		if records[1][i] != w {
			t.Errorf("row[%d] = %q, want %q", i, records[1][i], w)
		}
	}
	// optional fields come out empty, not "0"
	if records[2][4] != "" || records[2][6] != "" || records[2][7] != "" {
		t.Errorf("empty optionals rendered wrong: %v", records[2])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want header only", len(records))
	}
}
