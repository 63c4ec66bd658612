package cron

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultRequestTimeout = 10 * time.Second

// GraphQLClient — минимальный HTTP-клиент GraphQL-эндпоинта для
// фоновых задач. Задачи ходят к сервису через его публичный API,
// а не напрямую в хранилище.
type GraphQLClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewGraphQLClient создаёт клиент для заданного эндпоинта.
func NewGraphQLClient(endpoint string, timeout time.Duration) *GraphQLClient {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &GraphQLClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query выполняет запрос без переменных и декодирует поле data в out.
func (c *GraphQLClient) Query(ctx context.Context, query string, out interface{}) error {
	return c.Execute(ctx, query, nil, out)
}

// Execute выполняет запрос или мутацию с переменными.
func (c *GraphQLClient) Execute(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from graphql endpoint", resp.StatusCode)
	}

	var decoded graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return fmt.Errorf("graphql error: %s", decoded.Errors[0].Message)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
