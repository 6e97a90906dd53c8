// Seed posts todos to a running server. Run from project root: go run ./scripts/seed --count 100
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"todo-web/internal/config"

	"github.com/spf13/cobra"
)

func main() {
	var (
		baseURL string
		count   int
		prefix  string
	)
	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Create todos through the HTTP API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return seed(cmd.Context(), &http.Client{Timeout: 5 * time.Second}, baseURL, prefix, count)
		},
	}
	if err := config.LoadEnvFile(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "Reading .env failed:", err)
	}
	cfg := config.Get()
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:"+cfg.HTTPPort, "server base URL")
	cmd.Flags().IntVar(&count, "count", 100, "number of todos to create")
	cmd.Flags().StringVar(&prefix, "prefix", "Todo", "text prefix for generated todos")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Seed failed:", err)
		os.Exit(1)
	}
}

func seed(ctx context.Context, client *http.Client, baseURL, prefix string, count int) error {
	endpoint := strings.TrimRight(baseURL, "/") + "/todos"
	start := time.Now()
	for i := 1; i <= count; i++ {
		body, err := json.Marshal(map[string]string{"text": fmt.Sprintf("%s %d", prefix, i)})
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("create todo %d: %w", i, err)
		}
		msg, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("create todo %d: status %d: %s", i, resp.StatusCode, strings.TrimSpace(string(msg)))
		}
		fmt.Printf("\rCreated %d / %d", i, count)
	}
	fmt.Printf("\nDone: %d todos in %v\n", count, time.Since(start))
	return nil
}
