// Package main provides a simple CLI client for the council HTTP API.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/xiaot623/gogo/council/internal/domain"
)

// Client talks to a running council server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Info fetches the council description.
func (c *Client) Info() (*domain.CouncilInfo, error) {
	resp, err := c.httpClient.Get(c.baseURL + "/v1/council")
	if err != nil {
		return nil, fmt.Errorf("get council: %w", err)
	}
	defer resp.Body.Close()

	var info domain.CouncilInfo
	if err := decode(resp, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Query sends a conversation to the council.
func (c *Client) Query(messages []domain.Message) (*domain.CouncilResponse, error) {
	body, err := json.Marshal(domain.CouncilQueryRequest{Messages: messages})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+"/v1/council/query", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()

	var out domain.CouncilResponse
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func decode(resp *http.Response, v interface{}) error {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return json.Unmarshal(data, v)
}

func printResponse(resp *domain.CouncilResponse, elapsed time.Duration) {
	fmt.Printf("\n[%s] %d/%d answered in %s\n", resp.Mode, resp.Succeeded(), len(resp.Entries), elapsed.Round(time.Millisecond))
	for _, entry := range resp.Entries {
		fmt.Printf("\n=== %s (%s) ===\n", entry.Model, entry.Backend)
		switch {
		case entry.Result == nil:
			fmt.Printf("FAILED: %s\n", entry.Error)
		case entry.Result.Content == nil:
			fmt.Println("(no content)")
		default:
			fmt.Println(*entry.Result.Content)
		}
	}
	fmt.Println()
}

func main() {
	addr := flag.String("addr", "http://localhost:8001", "Council server address")
	system := flag.String("system", "", "Optional system prompt sent with every query")
	timeout := flag.Duration("timeout", 15*time.Minute, "Request timeout")
	flag.Parse()

	log.SetFlags(log.Ltime)

	client := NewClient(*addr, *timeout)

	info, err := client.Info()
	if err != nil {
		log.Fatalf("Failed to reach council: %v", err)
	}
	fmt.Printf("Council (%s): %s\n", info.Mode, strings.Join(info.Models, ", "))
	if len(info.Blocked) > 0 {
		fmt.Printf("Blocked by policy: %s\n", strings.Join(info.Blocked, ", "))
	}
	fmt.Println("\nType a question and press Enter to send.")
	fmt.Println("Commands: /quit to exit")

	// Handle Ctrl+C
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		fmt.Println("\nInterrupted")
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			fmt.Println("Bye!")
			return
		}

		var messages []domain.Message
		if *system != "" {
			messages = append(messages, domain.NewMessage(domain.RoleSystem, *system))
		}
		messages = append(messages, domain.NewMessage(domain.RoleUser, input))

		start := time.Now()
		resp, err := client.Query(messages)
		if err != nil {
			log.Printf("Query error: %v", err)
			continue
		}
		printResponse(resp, time.Since(start))
	}
}
