package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoBaseURL means the ordering API base URL was never configured. It is
// a deployment defect, not a user mistake, and is raised at the first
// request attempt so the rest of the assistant still works without the API.
var ErrNoBaseURL = errors.New("order API base URL is not configured")

// Category buckets a gateway failure by the HTTP status that caused it.
// Callers branch on the category, never on error text.
type Category string

const (
	CategoryBadRequest  Category = "bad_request"
	CategoryNotFound    Category = "not_found"
	CategoryServerError Category = "server_error"
	CategoryUnknown     Category = "unknown"
)

func categorize(status int) Category {
	switch {
	case status == http.StatusBadRequest:
		return CategoryBadRequest
	case status == http.StatusNotFound:
		return CategoryNotFound
	case status >= 500:
		return CategoryServerError
	default:
		return CategoryUnknown
	}
}

// APIError is a non-2xx answer from the ordering API.
type APIError struct {
	Status   int
	Category Category
}

func (e *APIError) Error() string {
	return fmt.Sprintf("order API returned status %d (%s)", e.Status, e.Category)
}

// Gateway is the HTTP client for the external ordering API.
type Gateway struct {
	HTTP    *http.Client
	BaseURL string
}

func NewGateway(baseURL string, timeout time.Duration) *Gateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Gateway{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
	}
}

// joinURL glues base and path with exactly one slash at the seam, whatever
// each side carries.
func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// request performs one call against the ordering API. A 2xx answer with a
// JSON body yields that body; a 2xx answer with an empty or non-JSON body
// yields "{}" so callers never have to special-case missing bodies.
func (g *Gateway) request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if g.BaseURL == "" {
		return nil, ErrNoBaseURL
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, joinURL(g.BaseURL, path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := g.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &APIError{Status: res.StatusCode, Category: categorize(res.StatusCode)}
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	ct := strings.ToLower(res.Header.Get("Content-Type"))
	if len(data) == 0 || !strings.Contains(ct, "application/json") {
		return json.RawMessage("{}"), nil
	}
	return json.RawMessage(data), nil
}

func (g *Gateway) CreateOrder(ctx context.Context, req createOrderRequest) error {
	_, err := g.request(ctx, http.MethodPost, "/api/orders/", req)
	return err
}

func (g *Gateway) OrdersByDocument(ctx context.Context, document string) ([]OrderSummary, error) {
	q := url.Values{"client_document": {document}}
	raw, err := g.request(ctx, http.MethodGet, "/api/orders/filter/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var out []OrderSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		// filter endpoint answered with something other than a list
		return nil, nil
	}
	return out, nil
}

func (g *Gateway) OrderByID(ctx context.Context, id int) (*RemoteOrder, error) {
	raw, err := g.request(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d/", id), nil)
	if err != nil {
		return nil, err
	}
	var out RemoteOrder
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (g *Gateway) AddItems(ctx context.Context, orderID int, items []Item) error {
	_, err := g.request(ctx, http.MethodPatch,
		fmt.Sprintf("/api/orders/%d/add-items/", orderID),
		addItemsRequest{Items: toWireItems(items)})
	return err
}

func (g *Gateway) UpdateAddress(ctx context.Context, orderID int, addr Address) error {
	_, err := g.request(ctx, http.MethodPatch,
		fmt.Sprintf("/api/orders/%d/update-address/", orderID),
		updateAddressRequest{DeliveryAddress: addr})
	return err
}

func (g *Gateway) RemoveItem(ctx context.Context, orderID, itemID int) error {
	_, err := g.request(ctx, http.MethodDelete,
		fmt.Sprintf("/api/orders/%d/items/%d/", orderID, itemID), nil)
	return err
}
