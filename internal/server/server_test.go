package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/marketdesk/internal/app"
	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/storage/tokenstore"
)

// fakeBackend is a scripted marketplace API keyed by "METHOD /path".
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  []string
}

func (b *fakeBackend) on(method, path string, h http.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = h
}

func (b *fakeBackend) reply(method, path string, status int, data interface{}) {
	b.on(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeBackend(w, status, data)
	})
}

func (b *fakeBackend) called(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
	b.mu.Lock()
	b.calls = append(b.calls, key)
	h, ok := b.routes[key]
	b.mu.Unlock()
	if !ok {
		writeBackend(w, http.StatusNotFound, nil)
		return
	}
	h(w, r)
}

func writeBackend(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if status >= 400 {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "error": http.StatusText(status)})
		return
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": data})
}

type testEnv struct {
	backend *fakeBackend
	app     *app.App
	srv     *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := &fakeBackend{routes: map[string]http.HandlerFunc{}}
	backendSrv := httptest.NewServer(backend)
	t.Cleanup(backendSrv.Close)

	cfg := common.NewDefaultConfig()
	cfg.Backend.BaseURL = backendSrv.URL + "/api"
	cfg.Backend.RateLimit = 1000

	logger := common.NewSilentLogger()
	store, err := tokenstore.NewStore(logger, t.TempDir())
	require.NoError(t, err)

	a := app.NewAppWithStore(cfg, logger, store)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(NewServer(a).Handler())
	t.Cleanup(srv.Close)

	return &testEnv{backend: backend, app: a, srv: srv}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

// login signs in through the API and returns the session ID.
func (e *testEnv) login(t *testing.T, role string) string {
	t.Helper()
	e.backend.reply(http.MethodPost, "/auth/login", http.StatusOK, map[string]interface{}{
		"token": "backend-" + role,
		"user":  map[string]interface{}{"id": "u-" + role, "email": role + "@example.com", "role": role},
	})
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": role + "@example.com", "password": "pw"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body loginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	return e
}

func TestHealth_IgnoresStaleBearer(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/health", "stale-session", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/version", "stale-session", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))
}

func TestLogin_MissingCredentials(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": " "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidInput, decodeError(t, resp).Code)
	assert.False(t, env.backend.called("POST /auth/login"), "backend is not contacted")
}

func TestLogin_BackendRejects(t *testing.T) {
	env := newTestEnv(t)
	env.backend.reply(http.MethodPost, "/auth/login", http.StatusUnauthorized, nil)

	resp := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@b.c", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")

	resp := env.do(t, http.MethodGet, "/api/auth/session", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sess map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	assert.Equal(t, "user@example.com", sess["email"])
	assert.NotContains(t, sess, "token", "backend token never reaches the browser")

	resp = env.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, CodeSessionExpired, decodeError(t, resp).Code)
}

func TestProtectedRoute_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/api/portfolio", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Bearer", resp.Header.Get("WWW-Authenticate"))
	assert.Equal(t, CodeUnauthorized, decodeError(t, resp).Code)
}

func TestPortfolio_ForwardsBackendToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")

	env.backend.on(http.MethodGet, "/portfolio", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer backend-user", r.Header.Get("Authorization"))
		writeBackend(w, http.StatusOK, map[string]interface{}{
			"accountId": "acc-1",
			"holdings": []map[string]interface{}{
				{"id": "h1", "quantity": 10, "totalInvested": 100, "product": map[string]interface{}{"id": "p1", "symbol": "ACME", "sharePrice": 12.5}},
			},
		})
	})

	resp := env.do(t, http.MethodGet, "/api/portfolio", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary struct {
		TotalValue float64 `json:"totalValue"`
		TotalPnL   float64 `json:"totalPnL"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	assert.Equal(t, 125.0, summary.TotalValue)
	assert.Equal(t, 25.0, summary.TotalPnL)

	resp = env.do(t, http.MethodGet, "/api/portfolio/report", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	md, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(md), "ACME")

	resp = env.do(t, http.MethodGet, "/api/portfolio/chart", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestBackendUnauthorized_InvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")
	env.backend.reply(http.MethodGet, "/wallets", http.StatusUnauthorized, nil)

	resp := env.do(t, http.MethodGet, "/api/wallets", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, CodeSessionExpired, decodeError(t, resp).Code)

	resp = env.do(t, http.MethodGet, "/api/auth/session", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "session dropped after backend 401")
}

func TestBackendServerError_MapsToBadGateway(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")
	env.backend.reply(http.MethodGet, "/products", http.StatusInternalServerError, nil)

	resp := env.do(t, http.MethodGet, "/api/products", token, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, CodeBackend, decodeError(t, resp).Code)
}

func stubTradingBackend(b *fakeBackend, available float64) {
	b.reply(http.MethodGet, "/products/p1", http.StatusOK, map[string]interface{}{
		"id": "p1", "symbol": "ACME", "sharePrice": 20.0, "status": "active",
	})
	b.reply(http.MethodGet, "/wallets", http.StatusOK, []map[string]interface{}{
		{"id": "w1", "currency": "USD", "balance": available, "available": available},
	})
	b.on(http.MethodPost, "/orders", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		writeBackend(w, http.StatusCreated, map[string]interface{}{
			"id": "o1", "productId": req["productId"], "side": req["side"], "type": req["type"],
			"quantity": req["quantity"], "status": "pending",
		})
	})
}

func TestPlaceOrder_RejectedByValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")
	stubTradingBackend(env.backend, 50)

	resp := env.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"productId": "p1", "side": "buy", "type": "market", "quantity": 10,
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body rejectedOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeValidation, body.Code)
	require.NotNil(t, body.Validation)
	assert.False(t, body.Validation.Valid)
	assert.Contains(t, body.Error, "insufficient balance")
	assert.False(t, env.backend.called("POST /orders"), "invalid orders are never submitted")
}

func TestPlaceOrder_SubmitsAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")
	stubTradingBackend(env.backend, 1000)

	resp := env.do(t, http.MethodPost, "/api/orders/validate", token, map[string]interface{}{
		"productId": "p1", "side": "buy", "type": "market", "quantity": 10,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, env.backend.called("POST /orders"))

	resp = env.do(t, http.MethodPost, "/api/orders", token, map[string]interface{}{
		"productId": "p1", "side": "buy", "type": "market", "quantity": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body placedOrderResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Order)
	assert.Equal(t, "o1", body.Order.ID)
	assert.Equal(t, 200.0, body.Validation.EstimatedTotal)

	resp = env.do(t, http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed notificationListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	require.NotEmpty(t, feed.Notifications)
	assert.Equal(t, "Order submitted", feed.Notifications[0].Title)
	assert.Equal(t, "BUY p1 x10 is pending review", feed.Notifications[0].Message)
}

func TestNotifications_ReadAndDismiss(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")

	resp := env.do(t, http.MethodGet, "/api/notifications", token, nil)
	var feed notificationListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&feed))
	require.Len(t, feed.Notifications, 1, "login notification")
	id := feed.Notifications[0].ID

	resp = env.do(t, http.MethodPost, "/api/notifications/"+id+"/read", token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/notifications/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, "/api/notifications/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNotificationsWS_SessionQueryParam(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")

	url := "ws" + strings.TrimPrefix(env.srv.URL, "http") + "/api/notifications/ws?session=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var ev struct {
		Type   string `json:"type"`
		Unread int    `json:"unread"`
	}
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "unread", ev.Type)
	assert.Equal(t, 1, ev.Unread)
}

func TestWithdrawal_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")

	resp := env.do(t, http.MethodPost, "/api/withdrawals", token, map[string]interface{}{"walletId": "w1", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/withdrawals", token, map[string]interface{}{"amount": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, env.backend.called("POST /withdrawals"))
}

func TestKYC_RequiresDocument(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")

	resp := env.do(t, http.MethodPost, "/api/kyc", token, map[string]interface{}{"fullName": "A"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, CodeInvalidInput, decodeError(t, resp).Code)
}

func TestAdmin_ForbiddenForUsers(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "user")

	resp := env.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, CodeForbidden, decodeError(t, resp).Code)
}

func TestAdmin_DashboardAndDecision(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "admin")

	env.backend.reply(http.MethodGet, "/admin/kyc", http.StatusInternalServerError, nil)
	env.backend.reply(http.MethodGet, "/admin/orders", http.StatusOK, []map[string]interface{}{{"id": "o1", "status": "pending"}})
	env.backend.reply(http.MethodGet, "/admin/withdrawals", http.StatusOK, []map[string]interface{}{})
	env.backend.reply(http.MethodGet, "/admin/users", http.StatusOK, []map[string]interface{}{{"id": "u1"}, {"id": "u2"}})
	env.backend.reply(http.MethodPost, "/admin/orders/o1/decision", http.StatusOK, map[string]interface{}{"id": "o1", "status": "approved"})

	resp := env.do(t, http.MethodGet, "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dash map[string]map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&dash))
	assert.Equal(t, false, dash["pendingKyc"]["ok"])
	assert.Equal(t, true, dash["pendingOrders"]["ok"])
	assert.Equal(t, float64(2), dash["userCount"]["data"])

	resp = env.do(t, http.MethodPost, "/api/admin/orders/o1/decision", token, map[string]interface{}{"approve": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/admin/kyc/k1/review", token, map[string]interface{}{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/api/admin/orders/o1/bogus", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
