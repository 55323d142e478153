package fakes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Route names accepted by Fail.
const (
	RouteWhoAmI         = "whoami"
	RoutePublicSettings = "public_settings"
	RouteUser           = "user"
)

// RecordedRequest captures what the fake API received.
type RecordedRequest struct {
	Route         string
	Path          string
	RawQuery      string
	PublicKey     string
	Authorization string
	RequestID     string
}

// Y360 is an in-process stand-in for the directory and disk admin APIs. Both
// base URLs point at the same server.
type Y360 struct {
	Server *httptest.Server

	mu             sync.Mutex
	token          string
	whoami         map[string]any
	publicSettings map[string]any
	users          map[string]any
	failures       map[string]int
	requests       []RecordedRequest
}

// NewY360 starts a fake accepting token. The server is closed with the test.
func NewY360(t testing.TB, token string) *Y360 {
	t.Helper()

	f := &Y360{
		token:          token,
		whoami:         map[string]any{"login": "admin", "scopes": []string{}, "orgIds": []int64{}},
		publicSettings: make(map[string]any),
		users:          make(map[string]any),
		failures:       make(map[string]int),
	}

	r := chi.NewRouter()
	r.Get("/whoami", f.handle(RouteWhoAmI, f.serveWhoAmI))
	r.Get("/v1/disk/public/resources/admin/public-settings", f.handle(RoutePublicSettings, f.servePublicSettings))
	r.Get("/directory/v1/org/{orgID}/users/{userID}", f.handle(RouteUser, f.serveUser))

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL for both APIs.
func (f *Y360) URL() string {
	return f.Server.URL
}

// SetIdentity configures the whoami payload.
func (f *Y360) SetIdentity(login string, scopes []string, orgIDs []int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.whoami = map[string]any{"login": login, "scopes": scopes, "orgIds": orgIDs}
}

// SetOwner publishes locator with a single owner entry next to a non-owner one.
func (f *Y360) SetOwner(locator string, userID, orgID any) {
	f.SetPublicSettings(locator, map[string]any{
		"accesses": []map[string]any{
			{"type": "macro", "macros": []string{"all"}, "rights": []string{"read"}},
			{"type": "owner", "id": userID, "org_id": orgID, "rights": []string{"read", "write"}},
		},
	})
}

// SetPublicSettings stores a raw public-settings body for locator.
func (f *Y360) SetPublicSettings(locator string, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.publicSettings[locator] = body
}

// SetUser stores a raw directory user body.
func (f *Y360) SetUser(orgID, userID int64, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[userKey(fmt.Sprint(orgID), fmt.Sprint(userID))] = body
}

// Fail forces route to answer with status.
func (f *Y360) Fail(route string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[route] = status
}

// Requests returns a copy of the recorded requests.
func (f *Y360) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

func userKey(orgID, userID string) string {
	return orgID + "/" + userID
}

func (f *Y360) handle(route string, next func(w http.ResponseWriter, r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := RecordedRequest{
			Route:         route,
			Path:          r.URL.Path,
			RawQuery:      r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-Id"),
		}
		if quoted := r.URL.Query().Get("public_key"); quoted != "" {
			if key, err := url.PathUnescape(quoted); err == nil {
				rec.PublicKey = key
			}
		}

		f.mu.Lock()
		f.requests = append(f.requests, rec)
		status, failing := f.failures[route]
		token := f.token
		f.mu.Unlock()

		if rec.Authorization != "OAuth "+token {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthorized", "error": "UnauthorizedError"})
			return
		}
		if failing {
			writeJSON(w, status, map[string]any{"message": http.StatusText(status)})
			return
		}
		next(w, r)
	}
}

func (f *Y360) serveWhoAmI(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	body := f.whoami
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, body)
}

func (f *Y360) servePublicSettings(w http.ResponseWriter, r *http.Request) {
	key, err := url.PathUnescape(r.URL.Query().Get("public_key"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "bad public_key"})
		return
	}

	f.mu.Lock()
	body, ok := f.publicSettings[key]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Resource not found", "error": "DiskNotFoundError"})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (f *Y360) serveUser(w http.ResponseWriter, r *http.Request) {
	key := userKey(chi.URLParam(r, "orgID"), chi.URLParam(r, "userID"))

	f.mu.Lock()
	body, ok := f.users[key]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Not found"})
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
