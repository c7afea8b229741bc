// Package storeapi reads chit groups and payment records from an upstream
// JSON API and writes payment requests back to it.
package storeapi

import (
	"bytes"
	"chitfund-engine/internal/domain/chit"
	"chitfund-engine/internal/domain/installment"
	"chitfund-engine/internal/infrastructure/monitoring"
	"chitfund-engine/internal/pkg/apperrors"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxResponseBytes = 4 << 20

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ chit.LedgerStore = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewClientWithHTTP(baseURL, &http.Client{Timeout: timeout}, logger)
}

// NewClientWithHTTP lets callers supply the transport, e.g. an httptest server client.
func NewClientWithHTTP(baseURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: store base URL %q is not an absolute URL", apperrors.ErrInvalidArgument, baseURL)
	}
	return &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: httpClient,
		logger:     logger.With("component", "StoreAPIClient"),
	}, nil
}

func (c *Client) GetGroup(ctx context.Context, groupID string) (map[string]any, error) {
	var body any
	if err := c.do(ctx, "GetGroup", http.MethodGet, c.groupPath(groupID), nil, &body); err != nil {
		return nil, err
	}

	group := unwrapObject(body, "group", "data")
	if group == nil {
		return nil, fmt.Errorf("%w: group %s response is not an object", apperrors.ErrUpstream, groupID)
	}
	if _, ok := group["_id"]; !ok {
		group["_id"] = groupID
	}
	return group, nil
}

func (c *Client) ListPayments(ctx context.Context, groupID, memberID string) ([]map[string]any, error) {
	var body any
	if err := c.do(ctx, "ListPayments", http.MethodGet, c.paymentsPath(groupID, memberID), nil, &body); err != nil {
		return nil, err
	}
	return installment.UnwrapRecords(body), nil
}

func (c *Client) CreatePaymentRequest(ctx context.Context, req *chit.PaymentRequest) (*chit.PaymentRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: payment request cannot be nil", apperrors.ErrInvalidArgument)
	}
	payload, err := json.Marshal(req.Record())
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode payment request: %w", apperrors.ErrInternalServer, err)
	}

	var body any
	if err := c.do(ctx, "CreatePaymentRequest", http.MethodPost, c.paymentsPath(req.GroupID, req.MemberID), payload, &body); err != nil {
		return nil, err
	}

	created := *req
	if stored := unwrapObject(body, "payment", "data"); stored != nil {
		if id, ok := stored["_id"].(string); ok && id != "" {
			created.ID = id
		} else if id, ok := stored["id"].(string); ok && id != "" {
			created.ID = id
		}
	}
	return &created, nil
}

func (c *Client) groupPath(groupID string) string {
	return "/groups/" + url.PathEscape(groupID)
}

func (c *Client) paymentsPath(groupID, memberID string) string {
	return c.groupPath(groupID) + "/members/" + url.PathEscape(memberID) + "/payments"
}

func (c *Client) do(ctx context.Context, operation, method, path string, payload []byte, out any) (err error) {
	logCtx := c.logger.With("operation", operation, "path", path)
	startTime := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		monitoring.RecordStoreRequest(operation, status, time.Since(startTime))
	}()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: create request: %w", apperrors.ErrInternalServer, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logCtx.ErrorContext(ctx, "Store request failed", slog.Any("error", err))
		return apperrors.WrapUpstreamError(err, operation+" request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return apperrors.WrapUpstreamError(err, operation+" read response")
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		logCtx.WarnContext(ctx, "Store resource not found")
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		logCtx.ErrorContext(ctx, "Store returned error status", "status", resp.StatusCode, "body", truncate(string(body), 256))
		return apperrors.WrapUpstreamError(fmt.Errorf("status %d", resp.StatusCode), operation+" unexpected status")
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		logCtx.ErrorContext(ctx, "Store response is not valid JSON", slog.Any("error", err))
		return apperrors.WrapUpstreamError(err, operation+" decode response")
	}
	return nil
}

// unwrapObject returns v itself when it is a record, or the first wrapped
// object found under one of the envelope keys.
func unwrapObject(v any, keys ...string) map[string]any {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	for _, k := range keys {
		if inner, ok := m[k].(map[string]any); ok {
			return inner
		}
	}
	return m
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
