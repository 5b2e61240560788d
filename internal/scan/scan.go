// Package scan is a thin Polygonscan-style explorer client used to verify
// deposit transaction hashes supplied by admins.
package scan

import (
	"errors"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	http   *resty.Client
	apiKey string
}

type receiptStatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  struct {
		Status string `json:"status"` // "1" = success, "0" = failed
	} `json:"result"`
}

func New() *Client {
	baseUrl := os.Getenv("SCAN_API_URL")
	if baseUrl == "" {
		baseUrl = "https://api.polygonscan.com/api"
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseUrl).
			SetTimeout(10 * time.Second),
		apiKey: os.Getenv("SCAN_API_KEY"),
	}
}

// Enabled reports whether explorer verification is configured for this
// deployment.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// TxSucceeded checks the receipt status of a transaction hash.
func (c *Client) TxSucceeded(txHash string) (bool, error) {
	var out receiptStatusResponse
	resp, err := c.http.R().
		SetQueryParams(map[string]string{
			"module": "transaction",
			"action": "gettxreceiptstatus",
			"txhash": txHash,
			"apikey": c.apiKey,
		}).
		SetResult(&out).
		Get("")
	if err != nil {
		return false, err
	}
	if resp.IsError() {
		return false, errors.New("explorer request failed")
	}
	return out.Result.Status == "1", nil
}
