package graphql_test

import (
	"context"
	"testing"

	gql "github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	crmgraphql "github.com/dkomarov/crm/internal/graphql"
	"github.com/dkomarov/crm/internal/service/crm"
	"github.com/dkomarov/crm/internal/storage/memory"
)

func newTestSchema(t *testing.T) gql.Schema {
	t.Helper()

	customers := memory.NewCustomerRepository()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository(customers, products)

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: false, DisableTimestamp: true})
	logger.SetLevel(logrus.ErrorLevel)

	svc := crm.NewServiceWithoutMetrics(customers, products, orders, logger.WithField("component", "graphql-test"))

	schema, err := crmgraphql.NewSchema(svc)
	require.NoError(t, err)
	return schema
}

func execute(t *testing.T, schema gql.Schema, query string, variables map[string]interface{}) *gql.Result {
	t.Helper()
	return gql.Do(gql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
		Context:        context.Background(),
	})
}

func TestHelloQuery(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, `{ hello }`, nil)
	require.Empty(t, result.Errors)

	data := result.Data.(map[string]interface{})
	require.Equal(t, "Hello, GraphQL!", data["hello"])
}

func TestCreateCustomerMutation(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, `
		mutation {
			createCustomer(input: {name: "Alice", email: "alice@example.com", phone: "+1234567890"}) {
				customer { id name email phone }
				message
			}
		}
	`, nil)
	require.Empty(t, result.Errors)

	payload := result.Data.(map[string]interface{})["createCustomer"].(map[string]interface{})
	require.Equal(t, "Customer created successfully.", payload["message"])

	customer := payload["customer"].(map[string]interface{})
	require.Equal(t, "Alice", customer["name"])
	require.Equal(t, "alice@example.com", customer["email"])
	require.Equal(t, "+1234567890", customer["phone"])
	require.NotEmpty(t, customer["id"])
}

func TestCreateCustomerDuplicateEmailError(t *testing.T) {
	schema := newTestSchema(t)

	first := execute(t, schema, `
		mutation {
			createCustomer(input: {name: "Alice", email: "alice@example.com"}) {
				customer { id }
			}
		}
	`, nil)
	require.Empty(t, first.Errors)

	second := execute(t, schema, `
		mutation {
			createCustomer(input: {name: "Clone", email: "alice@example.com"}) {
				customer { id }
			}
		}
	`, nil)
	require.Len(t, second.Errors, 1)
	require.Equal(t, "Email 'alice@example.com' already exists.", second.Errors[0].Message)
}

func TestBulkCreateCustomersMutation(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, `
		mutation BulkCreate($input: [CustomerInput!]!) {
			bulkCreateCustomers(input: $input) {
				customers { name email }
				errors
			}
		}
	`, map[string]interface{}{
		"input": []interface{}{
			map[string]interface{}{"name": "Alice", "email": "alice@example.com"},
			map[string]interface{}{"name": "Bob", "email": "bob@example.com", "phone": "bad-phone"},
			map[string]interface{}{"name": "Carol", "email": "carol@example.com"},
		},
	})
	require.Empty(t, result.Errors)

	payload := result.Data.(map[string]interface{})["bulkCreateCustomers"].(map[string]interface{})
	customers := payload["customers"].([]interface{})
	require.Len(t, customers, 2)

	errs := payload["errors"].([]interface{})
	require.Len(t, errs, 1)
	require.Equal(t, "Record 2: Invalid phone number format for 'bad-phone'.", errs[0])
}

func TestCreateProductMutation(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, `
		mutation {
			createProduct(input: {name: "Laptop", price: "999.99", stock: 10}) {
				product { name price stock }
			}
		}
	`, nil)
	require.Empty(t, result.Errors)

	product := result.Data.(map[string]interface{})["createProduct"].(map[string]interface{})["product"].(map[string]interface{})
	require.Equal(t, "Laptop", product["name"])
	require.Equal(t, "999.99", product["price"])
	require.Equal(t, 10, product["stock"])
}

func TestCreateProductInvalidPrice(t *testing.T) {
	schema := newTestSchema(t)

	result := execute(t, schema, `
		mutation {
			createProduct(input: {name: "Freebie", price: "-1.00"}) {
				product { id }
			}
		}
	`, nil)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "price must be a positive value", result.Errors[0].Message)
}

func TestCreateOrderMutation(t *testing.T) {
	schema := newTestSchema(t)

	customerID := createCustomer(t, schema, "Alice", "alice@example.com")
	laptopID := createProduct(t, schema, "Laptop", "999.99")
	mouseID := createProduct(t, schema, "Mouse", "19.99")

	result := execute(t, schema, `
		mutation CreateOrder($input: OrderInput!) {
			createOrder(input: $input) {
				order {
					id
					totalAmount
					customer { name }
					products { name price }
				}
			}
		}
	`, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": customerID,
			"productIds": []interface{}{laptopID, mouseID},
		},
	})
	require.Empty(t, result.Errors)

	order := result.Data.(map[string]interface{})["createOrder"].(map[string]interface{})["order"].(map[string]interface{})
	require.Equal(t, "1019.98", order["totalAmount"])
	require.Equal(t, "Alice", order["customer"].(map[string]interface{})["name"])
	require.Len(t, order["products"].([]interface{}), 2)
}

func TestCreateOrderInvalidProducts(t *testing.T) {
	schema := newTestSchema(t)

	customerID := createCustomer(t, schema, "Alice", "alice@example.com")

	result := execute(t, schema, `
		mutation CreateOrder($input: OrderInput!) {
			createOrder(input: $input) { order { id } }
		}
	`, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": customerID,
			"productIds": []interface{}{"ghost"},
		},
	})
	require.Len(t, result.Errors, 1)
	require.Equal(t, "Invalid product IDs found: ghost", result.Errors[0].Message)
}

func TestFilteredQueries(t *testing.T) {
	schema := newTestSchema(t)

	createCustomer(t, schema, "Alice Johnson", "alice@example.com")
	createCustomer(t, schema, "Bob Smith", "bob@example.com")
	createProduct(t, schema, "Laptop", "999.99")
	createProduct(t, schema, "Mouse", "19.99")

	customers := execute(t, schema, `
		{ allCustomers(filter: {nameIcontains: "alice"}) { name } }
	`, nil)
	require.Empty(t, customers.Errors)
	require.Len(t, customers.Data.(map[string]interface{})["allCustomers"].([]interface{}), 1)

	products := execute(t, schema, `
		{ allProducts(filter: {priceGte: "100.00"}) { name } }
	`, nil)
	require.Empty(t, products.Errors)
	list := products.Data.(map[string]interface{})["allProducts"].([]interface{})
	require.Len(t, list, 1)
	require.Equal(t, "Laptop", list[0].(map[string]interface{})["name"])
}

func TestCRMReportQuery(t *testing.T) {
	schema := newTestSchema(t)

	customerID := createCustomer(t, schema, "Alice", "alice@example.com")
	productID := createProduct(t, schema, "Mouse", "19.99")

	orderResult := execute(t, schema, `
		mutation CreateOrder($input: OrderInput!) {
			createOrder(input: $input) { order { id } }
		}
	`, map[string]interface{}{
		"input": map[string]interface{}{
			"customerId": customerID,
			"productIds": []interface{}{productID},
		},
	})
	require.Empty(t, orderResult.Errors)

	result := execute(t, schema, `
		{ crmReport { totalCustomers totalOrders totalRevenue } }
	`, nil)
	require.Empty(t, result.Errors)

	report := result.Data.(map[string]interface{})["crmReport"].(map[string]interface{})
	require.Equal(t, 1, report["totalCustomers"])
	require.Equal(t, 1, report["totalOrders"])
	require.Equal(t, "19.99", report["totalRevenue"])
}

func createCustomer(t *testing.T, schema gql.Schema, name, email string) string {
	t.Helper()

	result := execute(t, schema, `
		mutation Create($input: CustomerInput!) {
			createCustomer(input: $input) { customer { id } }
		}
	`, map[string]interface{}{
		"input": map[string]interface{}{"name": name, "email": email},
	})
	require.Empty(t, result.Errors)

	payload := result.Data.(map[string]interface{})["createCustomer"].(map[string]interface{})
	return payload["customer"].(map[string]interface{})["id"].(string)
}

func createProduct(t *testing.T, schema gql.Schema, name, price string) string {
	t.Helper()

	result := execute(t, schema, `
		mutation Create($input: ProductInput!) {
			createProduct(input: $input) { product { id } }
		}
	`, map[string]interface{}{
		"input": map[string]interface{}{"name": name, "price": price},
	})
	require.Empty(t, result.Errors)

	payload := result.Data.(map[string]interface{})["createProduct"].(map[string]interface{})
	return payload["product"].(map[string]interface{})["id"].(string)
}
