package graphql

import (
	"fmt"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/dkomarov/crm/internal/domain"
	"github.com/dkomarov/crm/internal/service/crm"
)

// NewSchema собирает GraphQL-схему CRM поверх сервиса.
func NewSchema(svc *crm.Service) (graphql.Schema, error) {
	b := &schemaBuilder{svc: svc}
	return b.build()
}

type schemaBuilder struct {
	svc *crm.Service

	customerType *graphql.Object
	productType  *graphql.Object
	orderType    *graphql.Object
	reportType   *graphql.Object
}

func (b *schemaBuilder) build() (graphql.Schema, error) {
	b.customerType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Customer",
		Fields: graphql.Fields{
			"id":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"phone": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					customer := p.Source.(domain.Customer)
					if customer.Phone == "" {
						return nil, nil
					}
					return customer.Phone, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Customer).CreatedAt, nil
				},
			},
		},
	})

	b.productType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":   &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			// Цена сериализуется десятичной строкой, чтобы не терять
			// точность на float-представлении.
			"price": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return domain.FormatAmount(p.Source.(domain.Product).PriceMinor), nil
				},
			},
			"stock": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Product).CreatedAt, nil
				},
			},
		},
	})

	b.orderType = graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id": &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"customer": &graphql.Field{
				Type: graphql.NewNonNull(b.customerType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order := p.Source.(domain.Order)
					return b.svc.GetCustomer(p.Context, order.CustomerID)
				},
			},
			"products": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.productType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					order := p.Source.(domain.Order)
					return b.svc.ProductsByIDs(p.Context, order.ProductIDs)
				},
			},
			"totalAmount": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return domain.FormatAmount(p.Source.(domain.Order).TotalMinor), nil
				},
			},
			"orderDate": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Order).OrderDate, nil
				},
			},
			"createdAt": &graphql.Field{
				Type: graphql.NewNonNull(graphql.DateTime),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(domain.Order).CreatedAt, nil
				},
			},
		},
	})

	b.reportType = graphql.NewObject(graphql.ObjectConfig{
		Name: "CRMReport",
		Fields: graphql.Fields{
			"totalCustomers": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalOrders":    &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"totalRevenue": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return domain.FormatAmount(p.Source.(crm.Report).TotalRevenueMinor), nil
				},
			},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"hello": &graphql.Field{
				Type: graphql.NewNonNull(graphql.String),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return "Hello, GraphQL!", nil
				},
			},
			"allCustomers": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.customerType))),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: customerFilterInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					predicates := crm.TranslateCustomerFilter(filterArg(p))
					return b.svc.ListCustomers(p.Context, predicates)
				},
			},
			"allProducts": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.productType))),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: productFilterInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					predicates := crm.TranslateProductFilter(filterArg(p))
					return b.svc.ListProducts(p.Context, predicates)
				},
			},
			"orders": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(b.orderType))),
				Args: graphql.FieldConfigArgument{
					"filter": &graphql.ArgumentConfig{Type: orderFilterInput},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					predicates := crm.TranslateOrderFilter(filterArg(p))
					return b.svc.ListOrders(p.Context, predicates)
				},
			},
			"crmReport": &graphql.Field{
				Type: graphql.NewNonNull(b.reportType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return b.svc.BuildReport(p.Context)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createCustomer":      b.createCustomerField(),
			"bulkCreateCustomers": b.bulkCreateCustomersField(),
			"createProduct":       b.createProductField(),
			"createOrder":         b.createOrderField(),
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}

func (b *schemaBuilder) createCustomerField() *graphql.Field {
	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateCustomerPayload",
		Fields: graphql.Fields{
			"customer": &graphql.Field{Type: b.customerType},
			"message":  &graphql.Field{Type: graphql.String},
		},
	})

	return &graphql.Field{
		Type: graphql.NewNonNull(resultType),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(customerInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			input := customerInputArg(p.Args["input"].(map[string]interface{}))
			customer, err := b.svc.CreateCustomer(p.Context, input)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"customer": customer,
				"message":  "Customer created successfully.",
			}, nil
		},
	}
}

func (b *schemaBuilder) bulkCreateCustomersField() *graphql.Field {
	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BulkCreateCustomersPayload",
		Fields: graphql.Fields{
			"customers": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(b.customerType))},
			"errors":    &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(graphql.String))},
		},
	})

	return &graphql.Field{
		Type: graphql.NewNonNull(resultType),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(customerInput))),
			},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			rawInputs := p.Args["input"].([]interface{})
			inputs := make([]crm.CustomerInput, 0, len(rawInputs))
			for _, raw := range rawInputs {
				inputs = append(inputs, customerInputArg(raw.(map[string]interface{})))
			}

			customers, errs := b.svc.BulkCreateCustomers(p.Context, inputs)
			return map[string]interface{}{
				"customers": customers,
				"errors":    errs,
			}, nil
		},
	}
}

func (b *schemaBuilder) createProductField() *graphql.Field {
	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateProductPayload",
		Fields: graphql.Fields{
			"product": &graphql.Field{Type: b.productType},
		},
	})

	return &graphql.Field{
		Type: graphql.NewNonNull(resultType),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(productInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			args := p.Args["input"].(map[string]interface{})
			input := crm.ProductInput{
				Name:  stringArg(args, "name"),
				Price: stringArg(args, "price"),
			}
			if stock, ok := args["stock"].(int); ok {
				input.Stock = int32(stock)
			}

			product, err := b.svc.CreateProduct(p.Context, input)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"product": product}, nil
		},
	}
}

func (b *schemaBuilder) createOrderField() *graphql.Field {
	resultType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CreateOrderPayload",
		Fields: graphql.Fields{
			"order": &graphql.Field{Type: b.orderType},
		},
	})

	return &graphql.Field{
		Type: graphql.NewNonNull(resultType),
		Args: graphql.FieldConfigArgument{
			"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(orderInput)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			args := p.Args["input"].(map[string]interface{})

			input := crm.OrderInput{
				CustomerID: stringArg(args, "customerId"),
			}
			for _, raw := range args["productIds"].([]interface{}) {
				input.ProductIDs = append(input.ProductIDs, fmt.Sprintf("%v", raw))
			}
			if orderDate, ok := args["orderDate"].(time.Time); ok {
				input.OrderDate = &orderDate
			}

			order, err := b.svc.CreateOrder(p.Context, input)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"order": order}, nil
		},
	}
}

var customerInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"email": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"phone": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var productInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		// Цена — десятичная строка с не более чем двумя знаками после точки.
		"price": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		"stock": &graphql.InputObjectFieldConfig{Type: graphql.Int, DefaultValue: 0},
	},
})

var orderInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"customerId": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
		"productIds": &graphql.InputObjectFieldConfig{
			Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.ID))),
		},
		"orderDate": &graphql.InputObjectFieldConfig{Type: graphql.DateTime},
	},
})

// Значения фильтров передаются строками: суммы — десятичные строки,
// даты — RFC3339 или YYYY-MM-DD. Интерпретация значений лежит на
// хранилище.
var customerFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "CustomerFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"nameIcontains":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"emailIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"createdAtGte":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"createdAtLte":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"phonePattern":   &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var productFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "ProductFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"nameIcontains": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"priceGte":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"priceLte":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"stockGte":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"stockLte":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"stock":         &graphql.InputObjectFieldConfig{Type: graphql.String},
		"lowStock":      &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var orderFilterInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OrderFilterInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"totalAmountGte": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"totalAmountLte": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"orderDateGte":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"orderDateLte":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"customerName":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"productName":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"productId":      &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

func customerInputArg(args map[string]interface{}) crm.CustomerInput {
	return crm.CustomerInput{
		Name:  stringArg(args, "name"),
		Email: stringArg(args, "email"),
		Phone: stringArg(args, "phone"),
	}
}

// filterArg извлекает карту фильтра из аргументов запроса.
func filterArg(p graphql.ResolveParams) map[string]string {
	raw, ok := p.Args["filter"].(map[string]interface{})
	if !ok {
		return nil
	}
	filter := make(map[string]string, len(raw))
	for key, value := range raw {
		if value == nil {
			continue
		}
		filter[key] = fmt.Sprintf("%v", value)
	}
	return filter
}

func stringArg(args map[string]interface{}, key string) string {
	if value, ok := args[key].(string); ok {
		return value
	}
	return ""
}
