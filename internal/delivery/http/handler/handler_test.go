package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skill-match/internal/delivery/http/middleware"
	"skill-match/internal/domain/analysis"
	"skill-match/internal/domain/matching"
	"skill-match/internal/pkg/jwt"
	"skill-match/internal/report"
	"skill-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type mockCatalogUsecase struct {
	roles []usecase.RoleItem
}

func (m mockCatalogUsecase) ListRoles(context.Context) ([]usecase.RoleItem, error) {
	return m.roles, nil
}

func (m mockCatalogUsecase) GetRole(_ context.Context, name string) (usecase.RoleItem, error) {
	for _, r := range m.roles {
		if strings.EqualFold(r.Name, strings.TrimSpace(name)) {
			return r, nil
		}
	}
	return usecase.RoleItem{}, usecase.ErrRoleNotFound
}

type mockAnalysisUsecase struct {
	analysis  analysis.Analysis
	artifact  report.Artifact
	err       error
	lastInput usecase.AnalyzeInput
	lastMatch usecase.MatchInput
}

func (m *mockAnalysisUsecase) Analyze(_ context.Context, in usecase.AnalyzeInput) (analysis.Analysis, error) {
	m.lastInput = in
	return m.analysis, m.err
}

func (m *mockAnalysisUsecase) Get(_ context.Context, id uuid.UUID) (analysis.Analysis, error) {
	if m.err != nil {
		return analysis.Analysis{}, m.err
	}
	if id != m.analysis.ID {
		return analysis.Analysis{}, usecase.ErrAnalysisNotFound
	}
	return m.analysis, nil
}

func (m *mockAnalysisUsecase) Report(ctx context.Context, id uuid.UUID) (report.Artifact, error) {
	if _, err := m.Get(ctx, id); err != nil {
		return report.Artifact{}, err
	}
	return m.artifact, nil
}

func (m *mockAnalysisUsecase) Match(_ context.Context, in usecase.MatchInput) (usecase.MatchOutput, error) {
	m.lastMatch = in
	if m.err != nil {
		return usecase.MatchOutput{}, m.err
	}
	required := matching.NewSkillSet("go", "sql", "docker")
	extracted := matching.NormalizeTokens(in.Tokens)
	return usecase.MatchOutput{
		Role:      in.Role,
		RoleKnown: true,
		Result:    matching.ComputeMatch(required, extracted),
		TopRoles:  matching.Ranked{{Role: in.Role, Score: matching.ComputeScore(required, extracted)}},
		Extracted: extracted,
	}, nil
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(uc *mockAnalysisUsecase, tokens jwt.Service) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(nil).Middleware())
	NewHealthHandler("v1").RegisterRoutes(app)
	api := app.Group("/api/v1")
	NewRoleHandler(mockCatalogUsecase{roles: []usecase.RoleItem{
		{Name: "Backend Developer", Skills: []string{"go", "sql", "docker"}},
	}}).RegisterRoutes(api)
	NewMatchHandler(uc).RegisterRoutes(api)
	NewAnalysisHandler(uc, tokens, "/api/v1").RegisterRoutes(api)
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var env envelope
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &env); err != nil {
			t.Fatalf("decode body %q: %v", body, err)
		}
	}
	return resp, env
}

func sampleAnalysis() analysis.Analysis {
	return analysis.Analysis{
		ID:        uuid.New(),
		Filename:  "jane.pdf",
		Role:      "Backend Developer",
		RoleKnown: true,
		Result: matching.Result{
			Score:   67,
			Matched: matching.NewSkillSet("go", "sql"),
			Missing: matching.NewSkillSet("docker"),
		},
		TopRoles:  matching.Ranked{{Role: "Backend Developer", Score: 67}},
		Extracted: matching.NewSkillSet("go", "sql"),
		CreatedAt: time.Now().UTC(),
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(&mockAnalysisUsecase{}, nil)
	resp, env := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	if resp.StatusCode != fiber.StatusOK || env.Status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRoleHandler(t *testing.T) {
	app := newTestApp(&mockAnalysisUsecase{}, nil)

	resp, env := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/roles", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var roles []struct {
		Name   string   `json:"name"`
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal(env.Data, &roles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(roles) != 1 || roles[0].Name != "Backend Developer" || len(roles[0].Skills) != 3 {
		t.Fatalf("unexpected roles: %+v", roles)
	}

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/roles/Backend%20Developer", nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for escaped name, got %d", resp.StatusCode)
	}

	resp, env = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/roles/Pilot", nil))
	if resp.StatusCode != fiber.StatusNotFound || env.Message != "Role not found" {
		t.Fatalf("expected 404 Role not found, got %d %q", resp.StatusCode, env.Message)
	}
}

func TestMatchHandler(t *testing.T) {
	uc := &mockAnalysisUsecase{}
	app := newTestApp(uc, nil)

	body := `{"role":"Backend Developer","tokens":["Go","sql"],"top":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, env := doRequest(t, app, req)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var out struct {
		Role      string   `json:"role"`
		RoleKnown bool     `json:"role_known"`
		Score     int      `json:"score"`
		Matched   []string `json:"matched"`
		Missing   []string `json:"missing"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Score != 67 || !out.RoleKnown || strings.Join(out.Missing, ",") != "docker" {
		t.Fatalf("unexpected match: %+v", out)
	}
	if uc.lastMatch.TopN != 3 {
		t.Fatalf("expected top to be forwarded, got %d", uc.lastMatch.TopN)
	}
}

func TestMatchHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{usecase.ErrInvalidInput, fiber.StatusBadRequest},
		{usecase.ErrInternal, fiber.StatusInternalServerError},
	}
	for _, tc := range cases {
		app := newTestApp(&mockAnalysisUsecase{err: tc.err}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"role":""}`))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, env := doRequest(t, app, req)
		if resp.StatusCode != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, resp.StatusCode)
		}
		if tc.status == fiber.StatusInternalServerError && env.Message != "internal server error" {
			t.Fatalf("expected 5xx details hidden, got %q", env.Message)
		}
	}
}

func multipartUpload(t *testing.T, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := w.CreateFormFile(resumeFormField, filename)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		_, _ = fw.Write(data)
	}
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestAnalysisHandler_CreateAndDownload(t *testing.T) {
	a := sampleAnalysis()
	uc := &mockAnalysisUsecase{
		analysis: a,
		artifact: report.Artifact{Filename: "jane_report.xlsx", ContentType: report.ContentTypeXLSX, Data: []byte("xlsx")},
	}
	tokens := jwt.NewHMACService("secret", time.Minute)
	app := newTestApp(uc, tokens)

	resp, env := doRequest(t, app, multipartUpload(t, "jane.pdf", []byte("%PDF-1.4"), map[string]string{
		"role": "Backend Developer",
		"top":  "2",
	}))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if uc.lastInput.Role != "Backend Developer" || uc.lastInput.TopN != 2 || uc.lastInput.Filename != "jane.pdf" {
		t.Fatalf("unexpected usecase input: %+v", uc.lastInput)
	}

	var out struct {
		ID        uuid.UUID `json:"id"`
		Score     int       `json:"score"`
		ReportURL string    `json:"report_url"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != a.ID || out.Score != 67 {
		t.Fatalf("unexpected analysis: %+v", out)
	}
	if !strings.HasPrefix(out.ReportURL, "/api/v1/analyses/"+a.ID.String()+"/report?token=") {
		t.Fatalf("unexpected report url %q", out.ReportURL)
	}

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, out.ReportURL, nil))
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 download, got %d", resp.StatusCode)
	}
	if cd := resp.Header.Get(fiber.HeaderContentDisposition); !strings.Contains(cd, "jane_report.xlsx") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	if ct := resp.Header.Get(fiber.HeaderContentType); ct != report.ContentTypeXLSX {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestAnalysisHandler_DownloadRequiresValidToken(t *testing.T) {
	a := sampleAnalysis()
	uc := &mockAnalysisUsecase{analysis: a}
	tokens := jwt.NewHMACService("secret", time.Minute)
	app := newTestApp(uc, tokens)

	resp, _ := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+a.ID.String()+"/report", nil))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	other, _, err := tokens.GenerateDownloadToken(uuid.New())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+a.ID.String()+"/report?token="+other, nil))
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for token of another analysis, got %d", resp.StatusCode)
	}
}

func TestAnalysisHandler_Errors(t *testing.T) {
	app := newTestApp(&mockAnalysisUsecase{analysis: sampleAnalysis()}, nil)

	resp, _ := doRequest(t, app, multipartUpload(t, "", nil, map[string]string{"role": "x"}))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 without file, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", resp.StatusCode)
	}

	resp, _ = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+uuid.NewString(), nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	cases := []struct {
		err    error
		status int
	}{
		{usecase.ErrFileTooLarge, fiber.StatusRequestEntityTooLarge},
		{usecase.ErrUnsupportedFile, fiber.StatusUnsupportedMediaType},
	}
	for _, tc := range cases {
		app := newTestApp(&mockAnalysisUsecase{err: tc.err}, nil)
		resp, _ := doRequest(t, app, multipartUpload(t, "a.png", []byte("x"), map[string]string{"role": "x"}))
		if resp.StatusCode != tc.status {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.status, resp.StatusCode)
		}
	}
}
