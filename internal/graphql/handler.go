package graphql

import (
	"fmt"
	"net/http"

	"github.com/graphql-go/handler"

	"github.com/dkomarov/crm/internal/service/crm"
)

// NewHandler создаёт HTTP-обработчик GraphQL-эндпоинта с GraphiQL.
func NewHandler(svc *crm.Service) (http.Handler, error) {
	schema, err := NewSchema(svc)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}

	return handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	}), nil
}
