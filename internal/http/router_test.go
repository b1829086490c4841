package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apphttp "github.com/imrfidelz/djk-sub001/internal/http"
	"github.com/imrfidelz/djk-sub001/internal/http/middleware"
	"github.com/imrfidelz/djk-sub001/internal/modules/auth"
	"github.com/imrfidelz/djk-sub001/internal/modules/badge"
	"github.com/imrfidelz/djk-sub001/internal/modules/cart"
	"github.com/imrfidelz/djk-sub001/internal/modules/orders"
	"github.com/imrfidelz/djk-sub001/internal/modules/products"
	"github.com/imrfidelz/djk-sub001/internal/rest"
	"github.com/imrfidelz/djk-sub001/internal/storage"
)

const testToken = "tok-1"

// fakeAPI is the backing REST API the router's gateways talk to.
func fakeAPI() http.Handler {
	user := map[string]any{"_id": "u1", "name": "Client", "email": "client@example.com", "role": "customer"}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"token": testToken, "user": user})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "session expired, please sign in again"})
			return
		}
		writeJSON(w, http.StatusOK, user)
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /products/p1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"_id": "p1", "name": "Silk Scarf", "slug": "silk-scarf", "priceCents": 25000, "stock": 12,
		})
	})
	mux.HandleFunc("GET /carts/u1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "no cart"})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := httptest.NewServer(fakeAPI())
	t.Cleanup(api.Close)

	blob := storage.NewLocal(t.TempDir())
	productGW := products.NewGateway(rest.NewClient(api.URL, 2*time.Second, nil))

	visitors := middleware.NewVisitorRegistry(func(id string) *middleware.Visitor {
		notifier := badge.NewNotifier()
		counter := badge.NewCounter(notifier)

		session := auth.NewSession(nil)
		rc := rest.NewClient(api.URL, 2*time.Second, session)
		authClient := auth.NewClient(rc)
		session.Bind(authClient)

		local := cart.NewLocalStore(blob, "guest-carts/"+id, notifier)
		rec := cart.NewReconciler(local, cart.NewGateway(rc), productGW, session, notifier)

		return &middleware.Visitor{
			Session:    session,
			AuthClient: authClient,
			Reconciler: rec,
			Orders:     orders.NewAdminController(orders.NewGateway(rc)),
			Notifier:   notifier,
			Counter:    counter,
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(apphttp.NewRouter(apphttp.Deps{
		Logger:   logger,
		Products: productGW,
		Visitors: visitors,
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newBrowser returns a client with its own cookie jar, standing in for one
// browser.
func newBrowser(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 5 * time.Second}
}

func do(t *testing.T, client *http.Client, method, url string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

func TestMeAndLogoutRequireSignIn(t *testing.T) {
	srv := newTestServer(t)
	browser := newBrowser(t)

	status, _ := do(t, browser, http.MethodGet, srv.URL+"/me", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, browser, http.MethodPost, srv.URL+"/logout", nil)
	require.Equal(t, http.StatusUnauthorized, status)

	status, body := do(t, browser, http.MethodPost, srv.URL+"/login", map[string]string{
		"email": "client@example.com", "password": "client-password",
	})
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "user")

	status, body = do(t, browser, http.MethodGet, srv.URL+"/me", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "client@example.com", body["email"])

	status, _ = do(t, browser, http.MethodPost, srv.URL+"/logout", nil)
	require.Equal(t, http.StatusNoContent, status)

	status, _ = do(t, browser, http.MethodGet, srv.URL+"/me", nil)
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestGuestCartsDoNotLeakBetweenVisitors(t *testing.T) {
	srv := newTestServer(t)
	guestA := newBrowser(t)
	guestB := newBrowser(t)

	status, body := do(t, guestA, http.MethodPost, srv.URL+"/cart/items", map[string]any{
		"productId": "p1", "quantity": 2,
	})
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 2, body["count"])

	status, body = do(t, guestB, http.MethodGet, srv.URL+"/cart", nil)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, body["items"])
	require.EqualValues(t, 0, body["count"])

	status, body = do(t, guestB, http.MethodGet, srv.URL+"/cart/badge", nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 0, body["count"])

	status, body = do(t, guestA, http.MethodGet, srv.URL+"/cart/badge", nil)
	require.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 2, body["count"])
}
