package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"skill-match/internal/config"
	"skill-match/internal/report"

	"github.com/gofiber/fiber/v3"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		App: config.AppConfig{AppName: "skill-match-test"},
		Catalog: config.CatalogConfig{
			Source: config.CatalogSourceFile,
			Path:   filepath.Join("..", "..", "known_skills.json"),
		},
		Storage:  config.StorageConfig{Driver: config.StorageDriverLocal, LocalDir: t.TempDir()},
		Match:    config.MatchConfig{TopRoles: 3, UploadMaxBytes: 1 << 20},
		Download: config.DownloadConfig{Secret: "test-secret", ExpiresIn: time.Hour},
	}
}

func call(t *testing.T, a *App, req *http.Request) (*http.Response, envelope, []byte) {
	t.Helper()
	resp, err := a.Fiber.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var env envelope
	_ = json.Unmarshal(body, &env)
	return resp, env, body
}

func TestBootstrap_InMemoryEndToEnd(t *testing.T) {
	a, closeFn, err := Bootstrap(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	defer closeFn()

	resp, _, _ := call(t, a, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}

	body := bytes.NewBufferString(`{"role":"Backend Developer","tokens":["Go","SQL","go"]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", body)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, env, _ := call(t, a, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("match: expected 200, got %d", resp.StatusCode)
	}
	var match struct {
		Score    int `json:"score"`
		TopRoles []struct {
			Role string `json:"role"`
		} `json:"top_roles"`
	}
	if err := json.Unmarshal(env.Data, &match); err != nil {
		t.Fatalf("decode match: %v", err)
	}
	if match.Score != 25 {
		t.Fatalf("expected score 25, got %d", match.Score)
	}
	if len(match.TopRoles) != 3 {
		t.Fatalf("expected 3 top roles, got %d", len(match.TopRoles))
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("role", "Backend Developer")
	fw, _ := mw.CreateFormFile("resume", "jane_doe.txt")
	_, _ = fw.Write([]byte("Golang and Postgres engineer. Docker, Redis, REST API design."))
	_ = mw.Close()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &buf)
	req.Header.Set(fiber.HeaderContentType, mw.FormDataContentType())
	resp, env, _ = call(t, a, req)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("analyze: expected 201, got %d", resp.StatusCode)
	}
	var created struct {
		ID        string   `json:"id"`
		Score     int      `json:"score"`
		Matched   []string `json:"matched"`
		ReportURL string   `json:"report_url"`
	}
	if err := json.Unmarshal(env.Data, &created); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	// go, postgresql, docker, redis, rest api of 8
	if created.Score != 63 {
		t.Fatalf("expected score 63, got %d (matched %v)", created.Score, created.Matched)
	}

	resp, env, _ = call(t, a, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+created.ID, nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("get: expected 200, got %d (%s)", resp.StatusCode, env.Message)
	}

	resp, _, raw := call(t, a, httptest.NewRequest(http.MethodGet, created.ReportURL, nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("report: expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != report.ContentTypeXLSX {
		t.Fatalf("unexpected report content type %q", ct)
	}
	if len(raw) == 0 {
		t.Fatal("empty report body")
	}
}
