package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dkomarov/crm/internal/service/cron"
)

// Разовая задача: находит заказы за последние 7 дней и дописывает
// напоминания по каждому из них в лог-файл.

const (
	defaultEndpoint = "http://127.0.0.1:8000/graphql"
	defaultLogPath  = "/tmp/order_reminders_log.txt"
	requestTimeout  = 15 * time.Second
	timestampLayout = "2006-01-02 15:04:05"
	lookbackDays    = 7
)

const pendingOrdersQuery = `
query GetPendingOrders($filter: OrderFilterInput) {
  orders(filter: $filter) {
    id
    orderDate
    customer {
      id
      email
    }
  }
}`

type pendingOrdersResponse struct {
	Orders []struct {
		ID        string `json:"id"`
		OrderDate string `json:"orderDate"`
		Customer  struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"orders"`
}

func main() {
	var (
		endpoint string
		logPath  string
	)
	flag.StringVar(&endpoint, "endpoint", defaultEndpoint, "GraphQL endpoint of a running CRM service")
	flag.StringVar(&logPath, "log", defaultLogPath, "path to the reminders log file")
	flag.Parse()

	timestamp := time.Now().Format(timestampLayout)

	if err := processReminders(context.Background(), endpoint, logPath, timestamp); err != nil {
		_ = appendLine(logPath, fmt.Sprintf("[%s] ERROR: %v", timestamp, err))
		fmt.Fprintf(os.Stderr, "Error processing order reminders: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Order reminders processed!")
}

func processReminders(ctx context.Context, endpoint, logPath, timestamp string) error {
	client := cron.NewGraphQLClient(endpoint, requestTimeout)

	sevenDaysAgo := time.Now().AddDate(0, 0, -lookbackDays).Format("2006-01-02")
	variables := map[string]interface{}{
		"filter": map[string]interface{}{"orderDateGte": sevenDaysAgo},
	}

	var resp pendingOrdersResponse
	if err := client.Execute(ctx, pendingOrdersQuery, variables, &resp); err != nil {
		return fmt.Errorf("query pending orders: %w", err)
	}

	if len(resp.Orders) == 0 {
		return appendLine(logPath, fmt.Sprintf("[%s] No pending orders found in the last 7 days", timestamp))
	}

	lines := make([]string, 0, len(resp.Orders))
	for _, order := range resp.Orders {
		email := order.Customer.Email
		if email == "" {
			email = "No email"
		}
		lines = append(lines, fmt.Sprintf("[%s] Order ID: %s, Customer Email: %s", timestamp, order.ID, email))
	}
	return appendLine(logPath, strings.Join(lines, "\n"))
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return err
	}
	return nil
}
