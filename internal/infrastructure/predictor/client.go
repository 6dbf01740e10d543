// Package predictor calls the ML gateway that serves the fare model.
package predictor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"metrofleet/analyst-api/internal/domain/prediction"
	"metrofleet/analyst-api/internal/domain/retry"
)

// Client implements prediction.Predictor against the gateway's REST API.
// Transient gateway failures (the model may still be loading) are retried
// with backoff; 4xx responses are not.
type Client struct {
	httpClient *resty.Client
	policy     retry.Policy
}

// NewClient creates a Resty-backed client. The gateway authenticates with
// an X-API-Key header.
func NewClient(baseURL, apiKey string) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)
	if apiKey != "" {
		httpClient.SetHeader("X-API-Key", apiKey)
	}
	return &Client{
		httpClient: httpClient,
		policy:     retry.DefaultPolicy(),
	}
}

// Ensure interface compliance.
var _ prediction.Predictor = (*Client)(nil)

// fareRequest mirrors the gateway's camelCase trip schema.
type fareRequest struct {
	PickupLocationID  int     `json:"pickupLocationId"`
	DropoffLocationID int     `json:"dropoffLocationId"`
	PickupDatetime    string  `json:"pickupDatetime"`
	TripDistance      float64 `json:"tripDistance"`
	PrecipMM          float64 `json:"precipMm"`
	TempC             float64 `json:"tempC"`
}

// fareResponse mirrors the gateway's prediction schema.
type fareResponse struct {
	EstimatedFare decimal.Decimal `json:"estimatedFare"`
	Currency      string          `json:"currency"`
	ModelVersion  string          `json:"modelVersion"`
}

// PredictFare asks the gateway for a fare estimate. Gateway defaults apply
// when weather fields are absent, matching its schema defaults here.
func (c *Client) PredictFare(ctx context.Context, params prediction.CreateParams) (prediction.Estimate, error) {
	body := fareRequest{
		PickupLocationID:  params.PickupLocationID,
		DropoffLocationID: params.DropoffLocationID,
		PickupDatetime:    params.PickupDatetime.Format(time.RFC3339),
		TripDistance:      params.TripDistance,
		PrecipMM:          0.0,
		TempC:             15.0,
	}
	if params.PrecipMM != nil {
		body.PrecipMM = *params.PrecipMM
	}
	if params.TempC != nil {
		body.TempC = *params.TempC
	}

	return retry.ExecuteWithResult(ctx, c.policy, func(ctx context.Context, _ int) (prediction.Estimate, error) {
		var result fareResponse
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetBody(body).
			SetResult(&result).
			Post("/api/v1/predict/fare")
		if err != nil {
			return prediction.Estimate{}, fmt.Errorf("call predictor: %w", err)
		}
		if resp.IsError() {
			err := fmt.Errorf("predictor error: %d %s", resp.StatusCode(), resp.String())
			if resp.StatusCode() >= 400 && resp.StatusCode() < 500 {
				return prediction.Estimate{}, retry.Permanent(err)
			}
			return prediction.Estimate{}, err
		}

		return prediction.Estimate{
			Fare:         result.EstimatedFare,
			Currency:     result.Currency,
			ModelVersion: result.ModelVersion,
		}, nil
	})
}
