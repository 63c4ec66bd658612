package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/dkomarov/crm/internal/domain"
	"github.com/dkomarov/crm/internal/storage/memory"
)

func newTestService(t *testing.T) (*Service, domain.CustomerRepository, domain.ProductRepository, domain.OrderRepository) {
	t.Helper()

	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository(customers, products)

	logger := log.New()
	logger.SetLevel(log.ErrorLevel)

	svc := NewServiceWithoutMetrics(customers, products, orders, logger.WithField("component", "crm-test"))
	return svc, customers, products, orders
}

func TestCreateCustomer(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, CustomerInput{
		Name:  "Alice",
		Email: "alice@example.com",
		Phone: "+1234567890",
	})
	if err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	if customer.ID == "" {
		t.Error("expected generated customer ID")
	}
	if customer.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	_, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Another Alice", Email: "alice@example.com"})
	if !domain.IsDuplicateEmail(err) {
		t.Fatalf("expected duplicate email error, got %v", err)
	}
	if got, want := err.Error(), "Email 'alice@example.com' already exists."; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestCreateCustomerInvalidPhone(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.CreateCustomer(context.Background(), CustomerInput{
		Name:  "Bob",
		Email: "bob@example.com",
		Phone: "not-a-phone",
	})
	if !errors.Is(err, domain.ErrInvalidPhoneFormat) {
		t.Fatalf("expected phone format error, got %v", err)
	}
	if got, want := err.Error(), "Invalid phone number format for 'not-a-phone'."; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}

func TestCreateCustomerValidationOrder(t *testing.T) {
	// При занятом email и плохом телефоне первой сообщается ошибка email.
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	_, err := svc.CreateCustomer(ctx, CustomerInput{
		Name:  "Clone",
		Email: "alice@example.com",
		Phone: "garbage",
	})
	if !domain.IsDuplicateEmail(err) {
		t.Fatalf("expected duplicate email to win over phone check, got %v", err)
	}
}

func TestCreateProduct(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	product, err := svc.CreateProduct(context.Background(), ProductInput{
		Name:  "Laptop",
		Price: "999.99",
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.PriceMinor != 99999 {
		t.Errorf("PriceMinor = %d, want 99999", product.PriceMinor)
	}
}

func TestCreateProductInvalidInput(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   ProductInput
		wantErr error
	}{
		{"zero price", ProductInput{Name: "Free", Price: "0", Stock: 1}, domain.ErrInvalidPrice},
		{"negative price", ProductInput{Name: "Refund", Price: "-5.00", Stock: 1}, domain.ErrInvalidPrice},
		{"malformed price", ProductInput{Name: "Weird", Price: "ten", Stock: 1}, domain.ErrInvalidPrice},
		{"too many decimals", ProductInput{Name: "Precise", Price: "9.999", Stock: 1}, domain.ErrInvalidPrice},
		{"negative stock", ProductInput{Name: "Ghost", Price: "5.00", Stock: -1}, domain.ErrInvalidStock},
		{"missing name", ProductInput{Name: "", Price: "5.00", Stock: 1}, domain.ErrProductNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(ctx, tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateProduct error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildReport(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := context.Background()

	alice, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("create customer: %v", err)
	}
	if _, err := svc.CreateCustomer(ctx, CustomerInput{Name: "Bob", Email: "bob@example.com"}); err != nil {
		t.Fatalf("create customer: %v", err)
	}

	laptop, err := svc.CreateProduct(ctx, ProductInput{Name: "Laptop", Price: "999.99", Stock: 5})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	mouse, err := svc.CreateProduct(ctx, ProductInput{Name: "Mouse", Price: "19.99", Stock: 50})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, err := svc.CreateOrder(ctx, OrderInput{CustomerID: alice.ID, ProductIDs: []string{laptop.ID, mouse.ID}}); err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := svc.CreateOrder(ctx, OrderInput{CustomerID: alice.ID, ProductIDs: []string{mouse.ID}}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	report, err := svc.BuildReport(ctx)
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if report.TotalCustomers != 2 {
		t.Errorf("TotalCustomers = %d, want 2", report.TotalCustomers)
	}
	if report.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", report.TotalOrders)
	}
	// 999.99 + 19.99 + 19.99 = 1039.97 без потерь на плавающей точке.
	if report.TotalRevenueMinor != 103997 {
		t.Errorf("TotalRevenueMinor = %d, want 103997", report.TotalRevenueMinor)
	}
}

func TestCreateCustomerEnqueuesOutboxEvent(t *testing.T) {
	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository(customers, products)
	outbox := memory.NewOutboxRepository()

	logger := log.New()
	logger.SetLevel(log.ErrorLevel)

	svc := NewServiceWithOutbox(customers, products, orders, outbox, logger.WithField("component", "crm-test"))
	svc.metrics = nil
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }

	if _, err := svc.CreateCustomer(context.Background(), CustomerInput{Name: "Alice", Email: "alice@example.com"}); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}

	pending, err := outbox.PullPending(10)
	if err != nil {
		t.Fatalf("PullPending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending events = %d, want 1", len(pending))
	}
	if pending[0].EventType != EventCustomerCreated {
		t.Errorf("EventType = %q, want %q", pending[0].EventType, EventCustomerCreated)
	}
	if pending[0].AggregateType != "customer" {
		t.Errorf("AggregateType = %q, want customer", pending[0].AggregateType)
	}
}
