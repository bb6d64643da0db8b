package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ummeeayz/edusafe-app/internal/apperrors"
	"github.com/ummeeayz/edusafe-app/internal/db"
	"github.com/ummeeayz/edusafe-app/internal/services"
	"github.com/ummeeayz/edusafe-app/internal/storage"
	syncpkg "github.com/ummeeayz/edusafe-app/internal/sync"
	"github.com/ummeeayz/edusafe-app/internal/sync/scheduler"
	_ "modernc.org/sqlite"
)

// newTestServer wires the full API surface against an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	testDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	testDB.SetMaxOpenConns(1)
	t.Cleanup(func() { testDB.Close() })

	migrator := db.NewMigrator(testDB)
	if err := migrator.Initialize(); err != nil {
		t.Fatalf("failed to initialize migrator: %v", err)
	}
	if err := migrator.Up(); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}

	repo := db.NewRepository(testDB)
	t.Cleanup(func() { repo.Close() })

	documents := services.NewDocumentService(repo, nil)
	assignments := services.NewAssignmentService(repo)
	settings := services.NewSettingsService(repo)
	importer := services.NewImportService(documents)
	storageMgr := storage.NewManager(repo)
	engine := syncpkg.NewEngine(repo, syncpkg.SimulatedBackend{}, nil)
	sched := scheduler.New(engine, nil)

	mux := http.NewServeMux()

	docsHandler := NewDocumentsHandler(documents)
	mux.HandleFunc("GET /api/documents", docsHandler.List)
	mux.HandleFunc("POST /api/documents", docsHandler.Create)
	mux.HandleFunc("GET /api/documents/{id}", docsHandler.Get)
	mux.HandleFunc("PATCH /api/documents/{id}", docsHandler.Update)
	mux.HandleFunc("DELETE /api/documents/{id}", docsHandler.Delete)
	mux.HandleFunc("GET /api/documents/{id}/versions", docsHandler.Versions)

	assignHandler := NewAssignmentsHandler(assignments)
	mux.HandleFunc("GET /api/assignments", assignHandler.List)
	mux.HandleFunc("POST /api/assignments", assignHandler.Create)

	syncHandler := NewSyncHandler(engine, sched)
	mux.HandleFunc("GET /api/sync/status", syncHandler.Status)
	mux.HandleFunc("POST /api/sync", syncHandler.Trigger)
	mux.HandleFunc("POST /api/sync/connectivity", syncHandler.SetConnectivity)

	storageHandler := NewStorageHandler(storageMgr, nil)
	mux.HandleFunc("GET /api/storage/analytics", storageHandler.Analytics)
	mux.HandleFunc("POST /api/storage/optimize", storageHandler.Optimize)

	settingsHandler := NewSettingsHandler(settings)
	mux.HandleFunc("GET /api/settings", settingsHandler.List)
	mux.HandleFunc("GET /api/settings/{key}", settingsHandler.Get)
	mux.HandleFunc("PUT /api/settings/{key}", settingsHandler.Set)

	importHandler := NewImportHandler(importer)
	mux.HandleFunc("POST /api/import", importHandler.Import)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestDocumentEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/documents", `{"title":"Biology Notes","category":"Class Notes","content":"cells"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created map[string]string
	decodeBody(t, resp, &created)
	id := created["id"]
	if id == "" {
		t.Fatal("expected id in create response")
	}

	resp, err := http.Get(server.URL + "/api/documents/" + id)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var doc struct {
		Title        string `json:"title"`
		VersionCount int    `json:"version_count"`
	}
	decodeBody(t, resp, &doc)
	if doc.Title != "Biology Notes" || doc.VersionCount != 1 {
		t.Errorf("unexpected document: %+v", doc)
	}

	resp, err = http.Get(server.URL + "/api/documents/" + id + "/versions")
	if err != nil {
		t.Fatalf("GET versions failed: %v", err)
	}
	var versions []map[string]interface{}
	decodeBody(t, resp, &versions)
	if len(versions) != 1 {
		t.Errorf("expected 1 version, got %d", len(versions))
	}
}

func TestDocumentNotFoundResponse(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/documents/00000000-0000-4000-8000-000000000000")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var body errorBody
	decodeBody(t, resp, &body)
	if body.Error.Code != string(apperrors.ErrDocumentNotFound) {
		t.Errorf("expected coded error, got %q", body.Error.Code)
	}
}

func TestCreateDocumentRequiresTitle(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/documents", `{"content":"no title"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestSyncEndpoints(t *testing.T) {
	server := newTestServer(t)

	// A mutation enqueues work.
	resp := postJSON(t, server.URL+"/api/documents", `{"title":"Notes"}`)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/sync/status")
	if err != nil {
		t.Fatalf("GET status failed: %v", err)
	}
	var status struct {
		Online  bool `json:"online"`
		Pending int  `json:"pending"`
	}
	decodeBody(t, resp, &status)
	if !status.Online || status.Pending != 1 {
		t.Errorf("unexpected status: %+v", status)
	}

	// Going offline makes the drain refuse.
	resp = postJSON(t, server.URL+"/api/sync/connectivity", `{"online":false}`)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/sync", `{}`)
	var result struct {
		Success bool   `json:"success"`
		Reason  string `json:"reason"`
	}
	decodeBody(t, resp, &result)
	if result.Success || result.Reason != "offline" {
		t.Errorf("expected offline refusal, got %+v", result)
	}

	// Back online the queue drains.
	resp = postJSON(t, server.URL+"/api/sync/connectivity", `{"online":true}`)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/sync", `{}`)
	var drained struct {
		Success     bool `json:"success"`
		SyncedCount int  `json:"synced_count"`
	}
	decodeBody(t, resp, &drained)
	if !drained.Success && drained.SyncedCount == 0 {
		// The reconnect drain may have emptied the queue already; check
		// that nothing is left either way.
		t.Logf("manual drain result: %+v", drained)
	}

	// The reconnect drain runs asynchronously; wait for the queue to
	// empty rather than assuming it already has.
	deadline := time.Now().Add(2 * time.Second)
	for {
		resp, err = http.Get(server.URL + "/api/sync/status")
		if err != nil {
			t.Fatalf("GET status failed: %v", err)
		}
		decodeBody(t, resp, &status)
		if status.Pending == 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected empty queue, got %d pending", status.Pending)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestStorageEndpoints(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/documents", `{"title":"Notes","size":1000}`)
	resp.Body.Close()

	resp, err := http.Get(server.URL + "/api/storage/analytics")
	if err != nil {
		t.Fatalf("GET analytics failed: %v", err)
	}
	var analytics struct {
		DocumentCount int   `json:"document_count"`
		TotalSize     int64 `json:"total_size"`
	}
	decodeBody(t, resp, &analytics)
	if analytics.DocumentCount != 1 || analytics.TotalSize != 1000 {
		t.Errorf("unexpected analytics: %+v", analytics)
	}

	resp = postJSON(t, server.URL+"/api/storage/optimize", `{"clear_cache":true}`)
	var result struct {
		SpaceFreed int64 `json:"space_freed"`
	}
	decodeBody(t, resp, &result)
	if result.SpaceFreed != storage.ClearCacheCredit {
		t.Errorf("expected clear-cache credit, got %d", result.SpaceFreed)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	server := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/settings/theme", strings.NewReader(`{"value":"dark"}`))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/api/settings/theme")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	var setting map[string]string
	decodeBody(t, resp, &setting)
	if setting["value"] != "dark" {
		t.Errorf("expected dark, got %q", setting["value"])
	}

	resp, err = http.Get(server.URL + "/api/settings")
	if err != nil {
		t.Fatalf("GET list failed: %v", err)
	}
	var all []map[string]string
	decodeBody(t, resp, &all)
	if len(all) != 1 || all[0]["key"] != "theme" {
		t.Errorf("unexpected settings list: %v", all)
	}
}

func TestImportEndpoint(t *testing.T) {
	server := newTestServer(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "photosynthesis.md")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("# Photosynthesis\n\nLight reactions.\n"))
	writer.WriteField("category", "Class Notes")
	writer.Close()

	resp, err := http.Post(server.URL+"/api/import", writer.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST import failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created map[string]string
	decodeBody(t, resp, &created)
	if created["id"] == "" {
		t.Error("expected id in import response")
	}
}
