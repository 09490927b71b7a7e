package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"simak/models"
	"simak/pkg/localstore"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// setupTestServer wires the router against a throwaway file store, so the
// tests stay hermetic. The admin password is fixed to "rahasia".
func setupTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	jwtSecret = []byte("test-secret")
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	adminPassHash = hash

	store, err := localstore.OpenFile(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	state = NewAppState(store)
	if err := state.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	r := gin.New()
	setupRoutes(r)
	return r
}

func loginAs(t *testing.T, r *gin.Engine, role, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"role": role, "password": password})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "")
	if resp.Code != 200 {
		t.Fatalf("login as %s failed status=%d body=%s", role, resp.Code, resp.Body.String())
	}
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", out)
	}
	return token
}

func TestLogin(t *testing.T) {
	r := setupTestServer(t)

	// wrong admin password
	body, _ := json.Marshal(map[string]string{"role": "admin", "password": "salah"})
	resp := performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "")
	if resp.Code != 401 {
		t.Fatalf("wrong password must be 401, got %d", resp.Code)
	}

	// correct admin password
	_ = loginAs(t, r, "admin", "rahasia")

	// viewer needs no password
	_ = loginAs(t, r, "viewer", "")

	// unknown role
	body, _ = json.Marshal(map[string]string{"role": "root"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(body), "")
	if resp.Code != 401 {
		t.Fatalf("unknown role must be 401, got %d", resp.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	r := setupTestServer(t)
	resp := performRequest(r, http.MethodGet, "/records", nil, "")
	if resp.Code != 401 {
		t.Fatalf("missing token must be 401, got %d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/records", nil, "not-a-jwt")
	if resp.Code != 401 {
		t.Fatalf("garbage token must be 401, got %d", resp.Code)
	}
}

func TestViewerCannotMutate(t *testing.T) {
	r := setupTestServer(t)
	viewer := loginAs(t, r, "viewer", "")

	body, _ := json.Marshal(sampleRecord())
	resp := performRequest(r, http.MethodPost, "/records", bytes.NewBuffer(body), viewer)
	if resp.Code != 403 {
		t.Fatalf("viewer save must be 403, got %d", resp.Code)
	}
	resp = performRequest(r, http.MethodDelete, "/records/123", nil, viewer)
	if resp.Code != 403 {
		t.Fatalf("viewer delete must be 403, got %d", resp.Code)
	}

	// read endpoints stay open to viewers
	resp = performRequest(r, http.MethodGet, "/records", nil, viewer)
	if resp.Code != 200 {
		t.Fatalf("viewer list must be 200, got %d", resp.Code)
	}
}

func TestRecordFlow(t *testing.T) {
	r := setupTestServer(t)
	admin := loginAs(t, r, "admin", "rahasia")

	// create
	body, _ := json.Marshal(sampleRecord())
	resp := performRequest(r, http.MethodPost, "/records", bytes.NewBuffer(body), admin)
	if resp.Code != 200 {
		t.Fatalf("save failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var saved models.ViolationRecord
	_ = json.Unmarshal(resp.Body.Bytes(), &saved)
	if saved.ID == "" {
		t.Fatal("save must return a generated id")
	}

	// list + search
	resp = performRequest(r, http.MethodGet, "/records?q=budi", nil, admin)
	var list []models.ViolationRecord
	_ = json.Unmarshal(resp.Body.Bytes(), &list)
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Fatalf("search result wrong: %+v", list)
	}
	resp = performRequest(r, http.MethodGet, "/records?q=tidakada", nil, admin)
	_ = json.Unmarshal(resp.Body.Bytes(), &list)
	if len(list) != 0 {
		t.Fatalf("expected empty array, got %+v", list)
	}

	// fetch one
	resp = performRequest(r, http.MethodGet, "/records/"+saved.ID, nil, admin)
	if resp.Code != 200 {
		t.Fatalf("get failed status=%d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/records/no-such", nil, admin)
	if resp.Code != 404 {
		t.Fatalf("missing record must be 404, got %d", resp.Code)
	}

	// status transition clears the action note
	saved.KetTindakan = "Penahanan"
	saved.Status = models.StatusSelesai
	body, _ = json.Marshal(saved)
	resp = performRequest(r, http.MethodPost, "/records", bytes.NewBuffer(body), admin)
	var done models.ViolationRecord
	_ = json.Unmarshal(resp.Body.Bytes(), &done)
	if done.KetTindakan != "" {
		t.Fatalf("completed record must drop its note: %+v", done)
	}

	// invalid status rejected
	bad := sampleRecord()
	bad.Status = "Ditunda"
	body, _ = json.Marshal(bad)
	resp = performRequest(r, http.MethodPost, "/records", bytes.NewBuffer(body), admin)
	if resp.Code != 400 {
		t.Fatalf("unknown status must be 400, got %d", resp.Code)
	}

	// delete, then delete again
	resp = performRequest(r, http.MethodDelete, "/records/"+saved.ID, nil, admin)
	if resp.Code != 200 {
		t.Fatalf("delete failed status=%d", resp.Code)
	}
	var del map[string]bool
	_ = json.Unmarshal(resp.Body.Bytes(), &del)
	if !del["deleted"] {
		t.Fatalf("first delete must report deleted=true: %+v", del)
	}
	resp = performRequest(r, http.MethodDelete, "/records/"+saved.ID, nil, admin)
	_ = json.Unmarshal(resp.Body.Bytes(), &del)
	if resp.Code != 200 || del["deleted"] {
		t.Fatalf("second delete must be a no-op: status=%d %+v", resp.Code, del)
	}
}

func TestDashboardEndpoint(t *testing.T) {
	r := setupTestServer(t)
	admin := loginAs(t, r, "admin", "rahasia")

	body, _ := json.Marshal(sampleRecord())
	performRequest(r, http.MethodPost, "/records", bytes.NewBuffer(body), admin)

	resp := performRequest(r, http.MethodGet, "/dashboard", nil, admin)
	if resp.Code != 200 {
		t.Fatalf("dashboard status=%d", resp.Code)
	}
	var stats DashboardStats
	_ = json.Unmarshal(resp.Body.Bytes(), &stats)
	if stats.Proses != 1 || stats.Selesai != 0 {
		t.Fatalf("dashboard counts wrong: %+v", stats)
	}
	if len(stats.PerSatuan) != len(DefaultSatuanList) {
		t.Fatalf("dashboard must list every unit: %+v", stats.PerSatuan)
	}
}

func TestSatuanEndpoints(t *testing.T) {
	r := setupTestServer(t)
	admin := loginAs(t, r, "admin", "rahasia")

	body, _ := json.Marshal(map[string]string{"name": "Denma Brigif"})
	resp := performRequest(r, http.MethodPost, "/satuan", bytes.NewBuffer(body), admin)
	if resp.Code != 200 {
		t.Fatalf("add satuan status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodPost, "/satuan", bytes.NewBuffer(bytes.Clone(body)), admin)
	if resp.Code != 409 {
		t.Fatalf("duplicate satuan must be 409, got %d", resp.Code)
	}

	body, _ = json.Marshal(map[string]string{"old": "Denma Brigif", "new": "Denma Brigif 4"})
	resp = performRequest(r, http.MethodPut, "/satuan", bytes.NewBuffer(body), admin)
	if resp.Code != 200 {
		t.Fatalf("rename satuan status=%d", resp.Code)
	}

	// unit names carry slashes, so removal goes through the query string
	resp = performRequest(r, http.MethodDelete, "/satuan?name=Denma+Brigif+4", nil, admin)
	if resp.Code != 200 {
		t.Fatalf("remove satuan status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodDelete, "/satuan?name=Denma+Brigif+4", nil, admin)
	if resp.Code != 404 {
		t.Fatalf("removing a missing satuan must be 404, got %d", resp.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	r := setupTestServer(t)
	admin := loginAs(t, r, "admin", "rahasia")

	body, _ := json.Marshal(sampleRecord())
	performRequest(r, http.MethodPost, "/records", bytes.NewBuffer(body), admin)

	resp := performRequest(r, http.MethodGet, "/notifications", nil, admin)
	var notifs []models.AppNotification
	_ = json.Unmarshal(resp.Body.Bytes(), &notifs)
	if len(notifs) != 1 || notifs[0].IsRead {
		t.Fatalf("expected one unread notification: %+v", notifs)
	}

	resp = performRequest(r, http.MethodPost, "/notifications/read", nil, admin)
	if resp.Code != 200 {
		t.Fatalf("mark read status=%d", resp.Code)
	}
	resp = performRequest(r, http.MethodGet, "/notifications", nil, admin)
	_ = json.Unmarshal(resp.Body.Bytes(), &notifs)
	if len(notifs) != 1 || !notifs[0].IsRead {
		t.Fatalf("notification must be read: %+v", notifs)
	}
}

func TestThemeEndpoints(t *testing.T) {
	r := setupTestServer(t)
	viewer := loginAs(t, r, "viewer", "")

	resp := performRequest(r, http.MethodGet, "/theme", nil, viewer)
	var out map[string]string
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	if out["theme"] != DefaultTheme {
		t.Fatalf("default theme: %+v", out)
	}

	body, _ := json.Marshal(map[string]string{"theme": "desert"})
	resp = performRequest(r, http.MethodPut, "/theme", bytes.NewBuffer(body), viewer)
	if resp.Code != 200 {
		t.Fatalf("set theme status=%d body=%s", resp.Code, resp.Body.String())
	}

	body, _ = json.Marshal(map[string]string{"theme": "plasma"})
	resp = performRequest(r, http.MethodPut, "/theme", bytes.NewBuffer(body), viewer)
	if resp.Code != 400 {
		t.Fatalf("unknown theme must be 400, got %d", resp.Code)
	}
}

func TestExportEndpoints(t *testing.T) {
	r := setupTestServer(t)
	admin := loginAs(t, r, "admin", "rahasia")

	body, _ := json.Marshal(sampleRecord())
	resp := performRequest(r, http.MethodPost, "/records", bytes.NewBuffer(body), admin)
	var saved models.ViolationRecord
	_ = json.Unmarshal(resp.Body.Bytes(), &saved)

	resp = performRequest(r, http.MethodGet, "/export/records/pdf", nil, admin)
	if resp.Code != 200 {
		t.Fatalf("roster export status=%d", resp.Code)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("roster export is not a PDF")
	}
	if cd := resp.Header().Get("Content-Disposition"); cd == "" {
		t.Fatal("roster export missing Content-Disposition")
	}

	resp = performRequest(r, http.MethodGet, "/export/records/"+saved.ID+"/pdf", nil, admin)
	if resp.Code != 200 {
		t.Fatalf("card export status=%d", resp.Code)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("card export is not a PDF")
	}

	resp = performRequest(r, http.MethodGet, "/export/records/no-such/pdf", nil, admin)
	if resp.Code != 404 {
		t.Fatalf("export of missing record must be 404, got %d", resp.Code)
	}
}

func TestStatusEndpointIsPublic(t *testing.T) {
	r := setupTestServer(t)
	resp := performRequest(r, http.MethodGet, "/status", nil, "")
	if resp.Code != 200 {
		t.Fatalf("status endpoint must be public, got %d", resp.Code)
	}
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	if out["online"] != true {
		t.Fatalf("status payload wrong: %+v", out)
	}
	n, ok := out["onlineCount"].(float64)
	if !ok || n < 5 || n > 30 {
		t.Fatalf("onlineCount out of range: %+v", out)
	}
}

func TestConfigEndpoint(t *testing.T) {
	r := setupTestServer(t)
	viewer := loginAs(t, r, "viewer", "")
	resp := performRequest(r, http.MethodGet, "/config", nil, viewer)
	if resp.Code != 200 {
		t.Fatalf("config status=%d", resp.Code)
	}
	var out map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &out)
	for _, k := range []string{"pangkat", "perkara", "tindakan", "status", "themes", "unit"} {
		if _, ok := out[k]; !ok {
			t.Fatalf("config missing %q: %+v", k, out)
		}
	}
}
