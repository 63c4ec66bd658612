package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dkomarov/crm/internal/service/cron"
)

// Утилита наполняет работающий CRM сервис тестовыми данными через
// GraphQL мутации: клиенты, товары и заказы с историческими датами.

const (
	defaultEndpoint = "http://127.0.0.1:8000/graphql"
	requestTimeout  = 15 * time.Second
)

type customerSeed struct {
	Name  string
	Email string
	Phone string
}

type productSeed struct {
	Name  string
	Price string
	Stock int
}

type orderSeed struct {
	CustomerIndex  int
	ProductIndices []int
	DaysAgo        int
}

var customerSeeds = []customerSeed{
	{Name: "John Doe", Email: "john.doe@example.com", Phone: "+1234567890"},
	{Name: "Jane Smith", Email: "jane.smith@example.com", Phone: "+1-987-654-3210"},
	{Name: "Bob Johnson", Email: "bob.johnson@example.com", Phone: "555-123-4567"},
	{Name: "Alice Brown", Email: "alice.brown@example.com", Phone: "+1 (555) 987-6543"},
	{Name: "Charlie Wilson", Email: "charlie.wilson@example.com"},
	{Name: "Diana Davis", Email: "diana.davis@example.com", Phone: "+442079460958"},
	{Name: "Eve Miller", Email: "eve.miller@example.com", Phone: "+1 555 222 3333"},
	{Name: "Frank Garcia", Email: "frank.garcia@example.com", Phone: "(555) 444-5555"},
	{Name: "Grace Lee", Email: "grace.lee@example.com", Phone: "+1-555-666-7777"},
	{Name: "Henry Taylor", Email: "henry.taylor@example.com", Phone: "555.888.9999"},
}

var productSeeds = []productSeed{
	{Name: "Laptop", Price: "999.99", Stock: 50},
	{Name: "Desktop Computer", Price: "1299.99", Stock: 25},
	{Name: "Smartphone", Price: "699.99", Stock: 100},
	{Name: "Tablet", Price: "399.99", Stock: 75},
	{Name: "Wireless Mouse", Price: "29.99", Stock: 200},
	{Name: "Mechanical Keyboard", Price: "149.99", Stock: 80},
	{Name: "Monitor 27\"", Price: "299.99", Stock: 40},
	{Name: "Webcam HD", Price: "79.99", Stock: 60},
	{Name: "Headphones", Price: "199.99", Stock: 90},
	{Name: "USB Flash Drive", Price: "19.99", Stock: 300},
	{Name: "External Hard Drive", Price: "119.99", Stock: 45},
	{Name: "Graphics Card", Price: "599.99", Stock: 20},
	{Name: "RAM 16GB", Price: "89.99", Stock: 100},
	{Name: "SSD 1TB", Price: "129.99", Stock: 70},
	{Name: "Printer", Price: "179.99", Stock: 30},
}

var orderSeeds = []orderSeed{
	{CustomerIndex: 0, ProductIndices: []int{0, 4, 5}, DaysAgo: 5},
	{CustomerIndex: 1, ProductIndices: []int{2, 8}, DaysAgo: 3},
	{CustomerIndex: 2, ProductIndices: []int{1, 6, 4}, DaysAgo: 7},
	{CustomerIndex: 3, ProductIndices: []int{3, 7}, DaysAgo: 2},
	{CustomerIndex: 4, ProductIndices: []int{9, 10}, DaysAgo: 1},
	{CustomerIndex: 0, ProductIndices: []int{11, 12}, DaysAgo: 10},
	{CustomerIndex: 5, ProductIndices: []int{13, 14}, DaysAgo: 4},
	{CustomerIndex: 6, ProductIndices: []int{2, 3, 8}, DaysAgo: 6},
	{CustomerIndex: 7, ProductIndices: []int{0, 5, 6}, DaysAgo: 8},
	{CustomerIndex: 8, ProductIndices: []int{4, 7, 9}, DaysAgo: 12},
	{CustomerIndex: 9, ProductIndices: []int{1, 11, 12, 13}, DaysAgo: 15},
	{CustomerIndex: 1, ProductIndices: []int{14}, DaysAgo: 9},
}

const createCustomerMutation = `
mutation CreateCustomer($input: CustomerInput!) {
  createCustomer(input: $input) {
    customer { id name }
    message
  }
}`

const createProductMutation = `
mutation CreateProduct($input: ProductInput!) {
  createProduct(input: $input) {
    product { id name price }
  }
}`

const createOrderMutation = `
mutation CreateOrder($input: OrderInput!) {
  createOrder(input: $input) {
    order { id totalAmount }
  }
}`

func main() {
	var endpoint string
	flag.StringVar(&endpoint, "endpoint", defaultEndpoint, "GraphQL endpoint of a running CRM service")
	flag.Parse()

	client := cron.NewGraphQLClient(endpoint, requestTimeout)
	ctx := context.Background()

	fmt.Println("Starting database seeding...")

	customerIDs, err := seedCustomers(ctx, client)
	if err != nil {
		fail("seed customers: %v", err)
	}

	productIDs, err := seedProducts(ctx, client)
	if err != nil {
		fail("seed products: %v", err)
	}

	orderCount, err := seedOrders(ctx, client, customerIDs, productIDs)
	if err != nil {
		fail("seed orders: %v", err)
	}

	fmt.Println("\nSeeding completed successfully!")
	fmt.Printf("Created: %d customers, %d products, %d orders\n", len(customerIDs), len(productIDs), orderCount)
}

func seedCustomers(ctx context.Context, client *cron.GraphQLClient) ([]string, error) {
	fmt.Println("Creating customers...")

	ids := make([]string, 0, len(customerSeeds))
	for _, seed := range customerSeeds {
		input := map[string]interface{}{
			"name":  seed.Name,
			"email": seed.Email,
		}
		if seed.Phone != "" {
			input["phone"] = seed.Phone
		}

		var resp struct {
			CreateCustomer struct {
				Customer struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"customer"`
				Message string `json:"message"`
			} `json:"createCustomer"`
		}
		if err := client.Execute(ctx, createCustomerMutation, map[string]interface{}{"input": input}, &resp); err != nil {
			return nil, fmt.Errorf("create customer %q: %w", seed.Name, err)
		}

		ids = append(ids, resp.CreateCustomer.Customer.ID)
		fmt.Printf("Created customer: %s\n", resp.CreateCustomer.Customer.Name)
	}

	fmt.Printf("Created %d customers.\n", len(ids))
	return ids, nil
}

func seedProducts(ctx context.Context, client *cron.GraphQLClient) ([]string, error) {
	fmt.Println("Creating products...")

	ids := make([]string, 0, len(productSeeds))
	for _, seed := range productSeeds {
		input := map[string]interface{}{
			"name":  seed.Name,
			"price": seed.Price,
			"stock": seed.Stock,
		}

		var resp struct {
			CreateProduct struct {
				Product struct {
					ID    string `json:"id"`
					Name  string `json:"name"`
					Price string `json:"price"`
				} `json:"product"`
			} `json:"createProduct"`
		}
		if err := client.Execute(ctx, createProductMutation, map[string]interface{}{"input": input}, &resp); err != nil {
			return nil, fmt.Errorf("create product %q: %w", seed.Name, err)
		}

		ids = append(ids, resp.CreateProduct.Product.ID)
		fmt.Printf("Created product: %s - $%s\n", resp.CreateProduct.Product.Name, resp.CreateProduct.Product.Price)
	}

	fmt.Printf("Created %d products.\n", len(ids))
	return ids, nil
}

func seedOrders(ctx context.Context, client *cron.GraphQLClient, customerIDs, productIDs []string) (int, error) {
	fmt.Println("Creating orders...")

	created := 0
	for _, seed := range orderSeeds {
		products := make([]string, 0, len(seed.ProductIndices))
		for _, idx := range seed.ProductIndices {
			products = append(products, productIDs[idx])
		}

		orderDate := time.Now().UTC().AddDate(0, 0, -seed.DaysAgo)
		input := map[string]interface{}{
			"customerId": customerIDs[seed.CustomerIndex],
			"productIds": products,
			"orderDate":  orderDate.Format(time.RFC3339),
		}

		var resp struct {
			CreateOrder struct {
				Order struct {
					ID          string `json:"id"`
					TotalAmount string `json:"totalAmount"`
				} `json:"order"`
			} `json:"createOrder"`
		}
		if err := client.Execute(ctx, createOrderMutation, map[string]interface{}{"input": input}, &resp); err != nil {
			return created, fmt.Errorf("create order for %s: %w", customerSeeds[seed.CustomerIndex].Name, err)
		}

		created++
		fmt.Printf("Created order for %s - Total: $%s\n",
			customerSeeds[seed.CustomerIndex].Name, resp.CreateOrder.Order.TotalAmount)
	}

	fmt.Printf("Created %d orders.\n", created)
	return created, nil
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
