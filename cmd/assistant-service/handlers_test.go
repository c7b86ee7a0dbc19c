package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beautypizza/order-assistant/internal/menu"
	"github.com/beautypizza/order-assistant/internal/order"
	"github.com/beautypizza/order-assistant/internal/session"
)

//
// ---------- STUBS & FAKES ----------
//

// stubMenuRepo implements menu.Repository in memory.
type stubMenuRepo struct {
	entries []menu.Entry
}

func (s *stubMenuRepo) List(ctx context.Context) ([]menu.Entry, error) {
	return s.entries, nil
}

func (s *stubMenuRepo) PricesFor(ctx context.Context, flavor string) ([]menu.Entry, error) {
	var out []menu.Entry
	for _, e := range s.entries {
		if e.PizzaName == flavor {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubMenuRepo) Flavors(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, e := range s.entries {
		if !seen[e.PizzaName] {
			seen[e.PizzaName] = true
			out = append(out, e.PizzaName)
		}
	}
	return out, nil
}

// fakeOrderAPI is an in-memory stand-in for the external ordering service.
type fakeOrderAPI struct {
	mu sync.Mutex

	createStatus int // 0 means 201
	created      []json.RawMessage
	ordersJSON   string // body of the filter endpoint
	orderJSON    string // body of the detail endpoint
	calls        int
}

func (f *fakeOrderAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls++
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders/":
			body, _ := json.Marshal(json.RawMessage(mustRead(r)))
			f.mu.Lock()
			f.created = append(f.created, body)
			f.mu.Unlock()
			if f.createStatus != 0 {
				w.WriteHeader(f.createStatus)
				return
			}
			w.WriteHeader(http.StatusCreated)
		case r.URL.Path == "/api/orders/filter/":
			_, _ = w.Write([]byte(f.ordersJSON))
		case strings.HasPrefix(r.URL.Path, "/api/orders/") && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(f.orderJSON))
		default:
			w.WriteHeader(http.StatusOK)
		}
	})
}

func mustRead(r *http.Request) []byte {
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r.Body)
	return buf.Bytes()
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func testRouter(t *testing.T, api *fakeOrderAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	lookup := menu.NewLookup(&stubMenuRepo{entries: []menu.Entry{
		{PizzaName: "Calabresa", Size: "M", Crust: "fina", UnitPrice: price("35.00")},
		{PizzaName: "Margherita", Size: "G", Crust: "recheada", UnitPrice: price("49.90")},
	}})
	gw := order.NewGateway(srv.URL, 2*time.Second)
	return newRouter(lookup, session.NewManager(), gw)
}

func do(t *testing.T, r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBufferString("")
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

//
// ---------- TESTS ----------
//

func TestMenuPrices_FuzzyMatch(t *testing.T) {
	r := testRouter(t, &fakeOrderAPI{})

	w := do(t, r, http.MethodGet, "/menu/prices?flavor=calabreza", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Items []menu.Entry `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Calabresa", resp.Items[0].PizzaName)
}

func TestMenuPrices_NoMatchIsInformational(t *testing.T) {
	r := testRouter(t, &fakeOrderAPI{})

	w := do(t, r, http.MethodGet, "/menu/prices?flavor=completely-unrelated-xyz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no flavor on the menu matches")
}

func TestSubmitDraft_HappyPathWireShape(t *testing.T) {
	api := &fakeOrderAPI{}
	r := testRouter(t, api)

	do(t, r, http.MethodPost, "/sessions/s1/draft/items",
		`{"name":"Calabresa","size":"M","crust":"fina","quantity":2,"unit_price":35.0}`)
	do(t, r, http.MethodPut, "/sessions/s1/draft/customer-name", `{"name":"Ana"}`)
	do(t, r, http.MethodPut, "/sessions/s1/draft/customer-document", `{"document":"123"}`)
	do(t, r, http.MethodPut, "/sessions/s1/draft/address",
		`{"street_name":"Rua A","number":10,"complement":"","reference_point":""}`)

	w := do(t, r, http.MethodPost, "/sessions/s1/draft/submit", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Len(t, api.created, 1)
	var payload struct {
		ClientName     string `json:"client_name"`
		ClientDocument string `json:"client_document"`
		DeliveryDate   string `json:"delivery_date"`
		Items          []struct {
			Name      string  `json:"name"`
			Quantity  int     `json:"quantity"`
			UnitPrice float64 `json:"unit_price"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(api.created[0], &payload))
	assert.Equal(t, "Ana", payload.ClientName)
	assert.Equal(t, "123", payload.ClientDocument)
	assert.Equal(t, time.Now().Format("2006-01-02"), payload.DeliveryDate)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Calabresa - M - fina", payload.Items[0].Name)
	assert.Equal(t, 2, payload.Items[0].Quantity)
	assert.Equal(t, 35.0, payload.Items[0].UnitPrice)

	// the draft was consumed: the next draft view is empty
	w = do(t, r, http.MethodGet, "/sessions/s1/draft", "")
	assert.NotContains(t, w.Body.String(), "Calabresa")
}

func TestSubmitDraft_ValidationFailureKeepsDraft(t *testing.T) {
	api := &fakeOrderAPI{}
	r := testRouter(t, api)

	do(t, r, http.MethodPost, "/sessions/s1/draft/items",
		`{"name":"Calabresa","size":"M","crust":"fina","quantity":1,"unit_price":35.0}`)

	w := do(t, r, http.MethodPost, "/sessions/s1/draft/submit", "")
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "name")
	assert.Zero(t, api.calls, "validation failures never reach the network")

	// items survive, the user only has to add what was missing
	w = do(t, r, http.MethodGet, "/sessions/s1/draft", "")
	assert.Contains(t, w.Body.String(), "Calabresa")
}

func TestSubmitDraft_ServerErrorKeepsDraft(t *testing.T) {
	api := &fakeOrderAPI{createStatus: http.StatusInternalServerError}
	r := testRouter(t, api)

	do(t, r, http.MethodPost, "/sessions/s2/draft/items",
		`{"name":"Calabresa","size":"M","crust":"fina","quantity":1,"unit_price":35.0}`)
	do(t, r, http.MethodPut, "/sessions/s2/draft/customer-name", `{"name":"Ana"}`)
	do(t, r, http.MethodPut, "/sessions/s2/draft/customer-document", `{"document":"123"}`)
	do(t, r, http.MethodPut, "/sessions/s2/draft/address", `{"street_name":"Rua A","number":10}`)

	w := do(t, r, http.MethodPost, "/sessions/s2/draft/submit", "")
	require.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "internal problem")

	w = do(t, r, http.MethodGet, "/sessions/s2/draft", "")
	assert.Contains(t, w.Body.String(), "Calabresa", "draft intact for retry")
}

const singleOrderJSON = `[{"id":7,"status":"pending","total_value":"70.00","delivery_date":"2026-08-31"}]`
const orderDetailJSON = `{
	"id": 7, "status": "pending", "total_value": "70.00", "delivery_date": "2026-08-31",
	"items": [{"id": 31, "name": "Calabresa - M - fina", "quantity": 2, "unit_price": 35.0}],
	"delivery_address": {"street_name": "Rua A", "number": 10, "complement": "", "reference_point": ""}
}`

func TestFindOrders_SingleHitAutoSelects(t *testing.T) {
	api := &fakeOrderAPI{ordersJSON: singleOrderJSON, orderJSON: orderDetailJSON}
	r := testRouter(t, api)

	w := do(t, r, http.MethodGet, "/sessions/s1/orders?client_document=123", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"selected_order"`)

	// the selected order's items are immediately listable
	w = do(t, r, http.MethodGet, "/sessions/s1/selected-order/items", "")
	assert.Contains(t, w.Body.String(), "Calabresa - M - fina")
}

func TestFindOrders_MultipleHitsNeedExplicitSelect(t *testing.T) {
	api := &fakeOrderAPI{
		ordersJSON: `[{"id":7,"status":"pending"},{"id":8,"status":"pending"}]`,
		orderJSON:  orderDetailJSON,
	}
	r := testRouter(t, api)

	w := do(t, r, http.MethodGet, "/sessions/s1/orders?client_document=123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "select one by id")
	assert.NotContains(t, w.Body.String(), `"selected_order"`)

	w = do(t, r, http.MethodPost, "/sessions/s1/orders/7/select", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"selected_order"`)
}

func TestFindOrders_NoneFound(t *testing.T) {
	api := &fakeOrderAPI{ordersJSON: `[]`}
	r := testRouter(t, api)

	w := do(t, r, http.MethodGet, "/sessions/s1/orders?client_document=123", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no orders found")
}

func TestFlush_WithoutSelectionIsConflict(t *testing.T) {
	r := testRouter(t, &fakeOrderAPI{})

	w := do(t, r, http.MethodPost, "/sessions/s1/updates/flush", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFlush_NothingPendingIsInformational(t *testing.T) {
	api := &fakeOrderAPI{ordersJSON: singleOrderJSON, orderJSON: orderDetailJSON}
	r := testRouter(t, api)

	do(t, r, http.MethodGet, "/sessions/s1/orders?client_document=123", "")
	before := api.calls

	w := do(t, r, http.MethodPost, "/sessions/s1/updates/flush", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no pending changes")
	assert.Equal(t, before, api.calls, "empty flush issues zero network calls")
}

func TestFlush_QueuedChangesApplied(t *testing.T) {
	api := &fakeOrderAPI{ordersJSON: singleOrderJSON, orderJSON: orderDetailJSON}
	r := testRouter(t, api)

	do(t, r, http.MethodGet, "/sessions/s1/orders?client_document=123", "")
	do(t, r, http.MethodPost, "/sessions/s1/updates/items",
		`{"name":"Margherita","size":"G","crust":"recheada","quantity":1,"unit_price":49.9}`)
	do(t, r, http.MethodPost, "/sessions/s1/updates/removals", `{"item_id":31}`)

	w := do(t, r, http.MethodPost, "/sessions/s1/updates/flush", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"ok":true`)

	// a second flush finds everything cleared
	w = do(t, r, http.MethodPost, "/sessions/s1/updates/flush", "")
	assert.Contains(t, w.Body.String(), "no pending changes")
}

func TestHealthz(t *testing.T) {
	r := testRouter(t, &fakeOrderAPI{})
	w := do(t, r, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}
