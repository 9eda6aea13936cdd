package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/jera/internal/page"
	"github.com/starford/jera/internal/pageservice"
	"github.com/starford/jera/internal/site"
	"github.com/starford/jera/internal/testutil"
)

type testEnv struct {
	dir    string
	svc    *pageservice.Service
	server *httptest.Server
}

func newTestEnv(t *testing.T, authEnabled bool, token string) *testEnv {
	t.Helper()
	dir, store := testutil.TestWorkspace(t)
	db := testutil.TestDB(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	syncer := site.NewSyncer(store, db, site.Config{
		Roots: map[page.Category]string{
			page.Demos:       "demos",
			page.Experiments: "experiments",
			page.Snippets:    "snippets",
		},
		RepoURL: "https://github.com/acme/samples",
	}, logger)

	svc := pageservice.NewService(store, db, syncer, nil)
	server := httptest.NewServer(NewRouter(svc, authEnabled, token, nil))
	t.Cleanup(server.Close)

	return &testEnv{dir: dir, svc: svc, server: server}
}

func (e *testEnv) seedDemo(t *testing.T, folder, content string) {
	t.Helper()
	testutil.WriteFile(t, e.dir, "demos/"+folder+"/README.md", content)
	if _, err := e.svc.Sync(context.Background()); err != nil {
		t.Fatalf("seed sync: %v", err)
	}
}

func (e *testEnv) request(t *testing.T, method, path string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestListPages(t *testing.T) {
	env := newTestEnv(t, false, "")
	env.seedDemo(t, "alpha", "# Alpha\n\nFirst demo.\n\n## Tags\n\nbedrock\n")
	env.seedDemo(t, "beta", "# Beta\n\nSecond demo.\n")

	resp, body := env.request(t, http.MethodGet, "/pages", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}
	var got PageListResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 2 || len(got.Pages) != 2 {
		t.Errorf("total = %d, pages = %d, want 2/2", got.Total, len(got.Pages))
	}
}

func TestListPagesEmpty(t *testing.T) {
	env := newTestEnv(t, false, "")

	resp, body := env.request(t, http.MethodGet, "/pages", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got PageListResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Pages == nil {
		t.Error("pages should be an empty array, not null")
	}
}

func TestListPagesCategoryFilter(t *testing.T) {
	env := newTestEnv(t, false, "")
	env.seedDemo(t, "alpha", "# Alpha\n\nFirst demo.\n")
	testutil.WriteFile(t, env.dir, "experiments/probe/README.md", "# Probe\n\nAn experiment.\n")
	if _, err := env.svc.Sync(context.Background()); err != nil {
		t.Fatal(err)
	}

	resp, body := env.request(t, http.MethodGet, "/pages?category=experiments", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var got PageListResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Total != 1 || len(got.Pages) != 1 || got.Pages[0].Category != "experiments" {
		t.Errorf("unexpected filtered result: %+v", got)
	}
}

func TestListPagesInvalidCategory(t *testing.T) {
	env := newTestEnv(t, false, "")

	resp, _ := env.request(t, http.MethodGet, "/pages?category=bogus", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetPage(t *testing.T) {
	env := newTestEnv(t, false, "")
	env.seedDemo(t, "alpha", "# Alpha\n\nFirst demo.\n")

	resp, body := env.request(t, http.MethodGet, "/pages/_demos/alpha.md", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}
	var got PageDetail
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Title != "Alpha" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Content == "" {
		t.Error("content should include the rendered page")
	}
	if got.SourcePath != "demos/alpha/README.md" {
		t.Errorf("source_path = %q", got.SourcePath)
	}
}

func TestGetPageEncodedPath(t *testing.T) {
	env := newTestEnv(t, false, "")
	env.seedDemo(t, "alpha", "# Alpha\n\nFirst demo.\n")

	resp, _ := env.request(t, http.MethodGet, "/pages/_demos%2Falpha.md", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestGetPageNotFound(t *testing.T) {
	env := newTestEnv(t, false, "")

	resp, _ := env.request(t, http.MethodGet, "/pages/_demos/nope.md", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t, false, "")
	env.seedDemo(t, "wardrobe", "# Virtual Wardrobe\n\nOutfit try-on with image models.\n")

	resp, body := env.request(t, http.MethodGet, "/search?q=wardrobe", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}
	var got SearchResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Results) != 1 || got.Results[0].OutputPath != "_demos/wardrobe.md" {
		t.Errorf("results = %+v", got.Results)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	env := newTestEnv(t, false, "")

	resp, _ := env.request(t, http.MethodGet, "/search", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestTriggerSync(t *testing.T) {
	env := newTestEnv(t, false, "")
	testutil.WriteFile(t, env.dir, "demos/alpha/README.md", "# Alpha\n\nFirst demo.\n")

	resp, body := env.request(t, http.MethodPost, "/sync", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body: %s", resp.StatusCode, body)
	}
	var got SyncResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Report.Synced != 1 {
		t.Errorf("synced = %d, want 1", got.Report.Synced)
	}
}

func TestAuthEnabled(t *testing.T) {
	env := newTestEnv(t, true, "secret-token")

	resp, _ := env.request(t, http.MethodGet, "/pages", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodGet, "/pages", map[string]string{
		"Authorization": "Bearer wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", resp.StatusCode)
	}

	resp, _ = env.request(t, http.MethodGet, "/pages", map[string]string{
		"Authorization": "Bearer secret-token",
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", resp.StatusCode)
	}
}
