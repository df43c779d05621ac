package catalogd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/catalog"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/state"
	"github.com/Japan-Minecraft-Server-List/minecraft-server-list/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServerListAcceptsQuotedAndBareOrdering(t *testing.T) {
	store := state.NewCatalogStore()
	entries := testutil.Entries(3)
	store.Replace(entries, Reverse(entries))
	r := NewRouter(store, quietLogger())

	cases := map[string][]catalog.Entry{
		`"Player"`:        entries,
		"Player":          entries,
		`"PlayerReverse"`: Reverse(entries),
		"PlayerReverse":   Reverse(entries),
	}
	for ordering, want := range cases {
		rec := get(t, r, "/api/get_server_list?ordering="+url.QueryEscape(ordering))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", ordering, rec.Code)
		}
		var got []catalog.Entry
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("%s: decode: %v", ordering, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s: entries mismatch (-want +got):\n%s", ordering, diff)
		}
	}
}

func TestServerListRejectsBadOrdering(t *testing.T) {
	r := NewRouter(state.NewCatalogStore(), quietLogger())
	for _, target := range []string{
		"/api/get_server_list",
		"/api/get_server_list?ordering=Sideways",
		"/api/get_server_list?ordering=" + url.QueryEscape(`"player"`),
	} {
		rec := get(t, r, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
			t.Fatalf("%s: expected error body, got %s", target, rec.Body.String())
		}
	}
}

func TestServerListEmptyIsArray(t *testing.T) {
	r := NewRouter(state.NewCatalogStore(), quietLogger())
	rec := get(t, r, "/api/get_server_list?ordering=Player")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "[]" {
		t.Fatalf("expected [], got %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	store := state.NewCatalogStore()
	r := NewRouter(store, quietLogger())

	var body map[string]any
	rec := get(t, r, "/healthz")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" || body["updated_at"] != nil {
		t.Fatalf("unexpected body before first publish: %v", body)
	}

	store.Replace(nil, nil)
	rec = get(t, r, "/healthz")
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["updated_at"].(string); !ok {
		t.Fatalf("expected updated_at timestamp, got %v", body["updated_at"])
	}
}
