package crm

import (
	"testing"

	"github.com/dkomarov/crm/internal/domain"
	"github.com/dkomarov/crm/internal/storage/memory"
)

func TestPhoneMatchesPattern(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"empty phone is valid", "", true},
		{"plus country code", "+1234567890", true},
		{"dashed us number", "555-123-4567", true},
		{"parenthesized area code", "(555) 444-5555", true},
		{"dotted separators", "555.123.4567", true},
		{"bare seven digits", "5551234", true},
		{"letters rejected", "abc-def-ghij", false},
		{"too short", "12345", false},
		{"trailing garbage", "555-123-4567x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PhoneMatchesPattern(tt.phone); got != tt.want {
				t.Errorf("PhoneMatchesPattern(%q) = %v, want %v", tt.phone, got, tt.want)
			}
		})
	}
}

func TestEmailIsUnique(t *testing.T) {
	customers := memory.NewCustomerRepository()
	if err := customers.Create(domain.Customer{ID: "c1", Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	unique, err := EmailIsUnique(customers, "alice@example.com")
	if err != nil {
		t.Fatalf("EmailIsUnique: %v", err)
	}
	if unique {
		t.Error("expected taken email to be reported as not unique")
	}

	unique, err = EmailIsUnique(customers, "bob@example.com")
	if err != nil {
		t.Fatalf("EmailIsUnique: %v", err)
	}
	if !unique {
		t.Error("expected free email to be reported as unique")
	}
}

func TestPartitionProducts(t *testing.T) {
	products := memory.NewProductRepository()
	for _, p := range []domain.Product{
		{ID: "p1", Name: "Laptop", PriceMinor: 99999, Stock: 4},
		{ID: "p2", Name: "Mouse", PriceMinor: 1999, Stock: 10},
	} {
		if err := products.Create(p); err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}

	found, missing, err := PartitionProducts(products, []string{"p1", "ghost", "p2", "ghost", "phantom"})
	if err != nil {
		t.Fatalf("PartitionProducts: %v", err)
	}
	if len(found) != 2 {
		t.Errorf("found %d products, want 2", len(found))
	}
	if len(missing) != 2 || missing[0] != "ghost" || missing[1] != "phantom" {
		t.Errorf("missing = %v, want [ghost phantom]", missing)
	}
}
