package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	pin         string
	matchStatus string
	matchLimit  int
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)

	registerCmd.Flags().StringVar(&pin, "pin", "", "PIN of 4 to 12 digits")
	loginCmd.Flags().StringVar(&pin, "pin", "", "PIN of the player")
	matchesCmd.Flags().StringVar(&matchStatus, "status", "", "Only list matches with this status (PENDING, APPROVED, REJECTED)")
	matchesCmd.Flags().IntVar(&matchLimit, "limit", 0, "Maximum number of matches to list")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get the persisted lifecycle counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/stats")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the ladder, highest rating first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recent matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{}
		if matchStatus != "" {
			q.Set("status", matchStatus)
		}
		if matchLimit > 0 {
			q.Set("limit", strconv.Itoa(matchLimit))
		}
		endpoint := "/api/matches"
		if len(q) > 0 {
			endpoint += "?" + q.Encode()
		}
		return performGetRequest(endpoint)
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List the matches waiting for your approval",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/api/matches/pending", nil)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [name]",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/auth/register", map[string]string{"name": args[0], "pin": pin})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [player-id]",
	Short: "Log in and print a session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/api/auth/login", map[string]string{"playerId": args[0], "pin": pin})
	},
}

var approveCmd = &cobra.Command{
	Use:   "approve [match-id]",
	Short: "Approve a pending match and apply the rating change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPatch, "/api/matches/"+url.PathEscape(args[0])+"/approve", nil)
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject [match-id]",
	Short: "Reject a pending match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPatch, "/api/matches/"+url.PathEscape(args[0])+"/reject", nil)
	},
}

func performGetRequest(endpoint string) error {
	return performRequest(http.MethodGet, endpoint, nil)
}

func performRequest(method, endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s %s\n", method, url)

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
