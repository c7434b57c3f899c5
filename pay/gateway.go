package pay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// VerifyResult is the gateway's view of a transaction.
type VerifyResult struct {
	Status    string  `json:"status"`
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
}

// Success reports whether the gateway confirmed the payment.
func (v *VerifyResult) Success() bool {
	return v != nil && v.Status == "success"
}

// Verifier checks a transaction reference against the payment gateway.
// One attempt per call; retrying is the gateway's job, not ours.
type Verifier interface {
	Verify(ctx context.Context, txRef string) (*VerifyResult, error)
}

// ChapaClient talks to the Chapa transaction-verification endpoint.
type ChapaClient struct {
	baseURL string
	secret  string
	client  *http.Client
}

func NewChapaClient(baseURL, secret string) *ChapaClient {
	return &ChapaClient{
		baseURL: baseURL,
		secret:  secret,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *ChapaClient) Verify(ctx context.Context, txRef string) (*VerifyResult, error) {
	url := fmt.Sprintf("%s/v1/transaction/verify/%s", c.baseURL, txRef)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var body struct {
		Status string        `json:"status"`
		Data   *VerifyResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Data == nil {
		return &VerifyResult{Status: "failed"}, nil
	}
	return body.Data, nil
}
