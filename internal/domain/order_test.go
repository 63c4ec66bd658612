package domain_test

import (
	"testing"
	"time"

	"github.com/dkomarov/crm/internal/domain"
)

// helper для создания валидного заказа с двумя товарами.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:         "order-1",
		CustomerID: "customer-1",
		ProductIDs: []string{"product-1", "product-2"},
		TotalMinor: 2999,
		OrderDate:  now,
		CreatedAt:  now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
		want error
	}{
		{
			name: "no customer",
			mut: func(o *domain.Order) {
				o.CustomerID = ""
			},
			want: domain.ErrCustomerRequired,
		},
		{
			name: "no products",
			mut: func(o *domain.Order) {
				o.ProductIDs = nil
			},
			want: domain.ErrEmptyProductList,
		},
		{
			name: "negative total",
			mut: func(o *domain.Order) {
				o.TotalMinor = -1
			},
			want: domain.ErrTotalNegative,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			tc.mut(&order)

			errs := order.ValidateInvariants()
			if len(errs) != 1 {
				t.Fatalf("expected exactly one error, got %v", errs)
			}
			if errs[0] != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, errs[0])
			}
		})
	}
}

func TestProductValidateInvariants(t *testing.T) {
	valid := domain.Product{ID: "p-1", Name: "Laptop", PriceMinor: 99999, Stock: 4}
	if errs := valid.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	zeroPrice := valid
	zeroPrice.PriceMinor = 0
	if errs := zeroPrice.ValidateInvariants(); len(errs) != 1 || errs[0] != domain.ErrInvalidPrice {
		t.Fatalf("expected ErrInvalidPrice, got %v", errs)
	}

	negativeStock := valid
	negativeStock.Stock = -1
	if errs := negativeStock.ValidateInvariants(); len(errs) != 1 || errs[0] != domain.ErrInvalidStock {
		t.Fatalf("expected ErrInvalidStock, got %v", errs)
	}
}

func TestCustomerValidateInvariants(t *testing.T) {
	valid := domain.Customer{ID: "c-1", Name: "John Doe", Email: "john.doe@example.com"}
	if errs := valid.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}

	missing := domain.Customer{ID: "c-2"}
	errs := missing.ValidateInvariants()
	if len(errs) != 2 {
		t.Fatalf("expected two errors for empty name and email, got %v", errs)
	}
}
