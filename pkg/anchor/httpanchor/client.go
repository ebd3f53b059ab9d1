// Package httpanchor talks to a remote anchoring service over HTTP.
package httpanchor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/chris/invoice-funding-marketplace/pkg/anchor"
	"github.com/chris/invoice-funding-marketplace/pkg/models"
	"github.com/go-resty/resty/v2"
)

// ErrUnavailable wraps transport failures and 5xx responses.
var ErrUnavailable = errors.New("anchor service unavailable")

type anchorResponse struct {
	TokenID     string    `json:"token_id"`
	TxHash      string    `json:"tx_hash"`
	BlockNumber uint64    `json:"block_number"`
	Timestamp   time.Time `json:"timestamp"`
	ContentHash string    `json:"content_hash"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client implements anchor.Client against a remote service exposing
// POST /anchors and GET /anchors/{ref}.
type Client struct {
	httpClient *resty.Client
}

var _ anchor.Client = (*Client)(nil)

// New creates a client. Per-call deadlines come from the caller's context.
func New(baseURL, apiKey string) *Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &Client{httpClient: client}
}

func (c *Client) Anchor(ctx context.Context, req anchor.Request) (*models.ChainAnchor, error) {
	var result anchorResponse
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Idempotency-Key", req.IdempotencyKey).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/anchors")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.IsSuccess():
	case resp.StatusCode() == http.StatusConflict:
		return nil, anchor.ErrIdempotencyConflict
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode(), apiErr.Error)
	default:
		return nil, fmt.Errorf("anchor request rejected: status %d: %s", resp.StatusCode(), apiErr.Error)
	}

	slog.DebugContext(ctx, "hash anchored remotely", "tx_hash", result.TxHash, "block", result.BlockNumber)
	return &models.ChainAnchor{
		TokenID:     result.TokenID,
		TxHash:      result.TxHash,
		BlockNumber: result.BlockNumber,
		Timestamp:   result.Timestamp,
		ContentHash: result.ContentHash,
	}, nil
}

func (c *Client) Verify(ctx context.Context, ref string) (*anchor.Confirmation, error) {
	var result anchor.Confirmation
	var apiErr errorResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&result).
		SetError(&apiErr).
		Get("/anchors/" + url.PathEscape(ref))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.IsSuccess():
		return &result, nil
	case resp.StatusCode() == http.StatusNotFound:
		return nil, anchor.ErrNotFound
	case resp.StatusCode() >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode(), apiErr.Error)
	default:
		return nil, fmt.Errorf("anchor lookup rejected: status %d: %s", resp.StatusCode(), apiErr.Error)
	}
}
