package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/khanhnv2901/headerguard/internal/analysis"
	consts "github.com/khanhnv2901/headerguard/internal/shared/constants"
	"github.com/khanhnv2901/headerguard/internal/shared/paths"
	"go.uber.org/zap"
)

// TestEnv holds test environment configuration and cleanup functions.
type TestEnv struct {
	TmpDir       string
	ResultsDir   string
	Logger       *zap.SugaredLogger
	cleanupFuncs []func()
	t            *testing.T
}

// NewTestEnv creates a new test environment with automatic cleanup.
// Usage:
//
//	env := testutil.NewTestEnv(t)
//	defer env.Cleanup()
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	tmpDir := t.TempDir() // Automatically cleaned up by Go test framework
	resultsDir := filepath.Join(tmpDir, "results")
	if err := os.MkdirAll(resultsDir, consts.DefaultDirPerm); err != nil {
		t.Fatalf("Failed to create test results directory: %v", err)
	}

	return &TestEnv{
		TmpDir:       tmpDir,
		ResultsDir:   resultsDir,
		Logger:       zap.NewNop().Sugar(),
		t:            t,
		cleanupFuncs: []func(){},
	}
}

// WithLogger sets a custom logger for tests that need one.
func (e *TestEnv) WithLogger(logger *zap.SugaredLogger) *TestEnv {
	e.Logger = logger
	return e
}

// AddCleanup adds a cleanup function to be called when Cleanup() is called.
// Cleanup functions are called in reverse order (LIFO).
func (e *TestEnv) AddCleanup(fn func()) {
	e.cleanupFuncs = append([]func(){fn}, e.cleanupFuncs...)
}

// Cleanup runs all registered cleanup functions.
func (e *TestEnv) Cleanup() {
	for _, fn := range e.cleanupFuncs {
		fn()
	}
}

// HistoryPath returns the history log location inside the results directory.
func (e *TestEnv) HistoryPath() string {
	return filepath.Join(e.ResultsDir, consts.HistoryFileName)
}

// CreateFile creates a file in the test environment with the given content.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) CreateFile(relativePath string, content []byte) string {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	dir := filepath.Dir(fullPath)

	if err := os.MkdirAll(dir, consts.DefaultDirPerm); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, content, consts.DefaultFilePerm); err != nil {
		e.t.Fatalf("Failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// ReadFile reads a file from the test environment.
// The file path is relative to the test's temporary directory.
func (e *TestEnv) ReadFile(relativePath string) []byte {
	e.t.Helper()

	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", fullPath, err)
	}

	return content
}

// FileExists checks if a file exists in the test environment.
func (e *TestEnv) FileExists(relativePath string) bool {
	fullPath := resolveTmpPath(e.TmpDir, relativePath, e.t)
	_, err := os.Stat(fullPath)
	return err == nil
}

// MustNotExist fails the test if the file exists.
func (e *TestEnv) MustNotExist(relativePath string) {
	e.t.Helper()
	if e.FileExists(relativePath) {
		e.t.Fatalf("File %s should not exist but does", relativePath)
	}
}

// MustExist fails the test if the file does not exist.
func (e *TestEnv) MustExist(relativePath string) {
	e.t.Helper()
	if !e.FileExists(relativePath) {
		e.t.Fatalf("File %s should exist but does not", relativePath)
	}
}

func resolveTmpPath(baseDir, relativePath string, t *testing.T) string {
	t.Helper()
	path, err := paths.ResolveWithin(baseDir, relativePath)
	if err != nil {
		t.Fatalf("invalid test path %s: %v", relativePath, err)
	}
	return path
}

// StubHandler decides the status and body for one analyze request. A string
// body is written verbatim; anything else is JSON encoded.
type StubHandler func(req analysis.AnalyzeRequest) (int, any)

// Respond returns a handler that always answers with status and body.
func Respond(status int, body any) StubHandler {
	return func(analysis.AnalyzeRequest) (int, any) {
		return status, body
	}
}

// AnalyzerStub is an httptest analyzer that records what it receives.
type AnalyzerStub struct {
	server  *httptest.Server
	handler StubHandler

	mu         sync.Mutex
	requests   []analysis.AnalyzeRequest
	requestIDs []string
}

// NewAnalyzerStub starts a stub analyzer that is closed when the test ends.
func NewAnalyzerStub(t *testing.T, handler StubHandler) *AnalyzerStub {
	t.Helper()

	stub := &AnalyzerStub{handler: handler}
	stub.server = httptest.NewServer(http.HandlerFunc(stub.serve))
	t.Cleanup(stub.server.Close)
	return stub
}

// URL is the analyzer base URL.
func (s *AnalyzerStub) URL() string {
	return s.server.URL
}

// Requests returns the decoded request bodies in arrival order.
func (s *AnalyzerStub) Requests() []analysis.AnalyzeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]analysis.AnalyzeRequest(nil), s.requests...)
}

// RequestIDs returns the X-Request-ID header of each request.
func (s *AnalyzerStub) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *AnalyzerStub) serve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != consts.AnalyzePath {
		http.NotFound(w, r)
		return
	}

	var req analysis.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.requestIDs = append(s.requestIDs, r.Header.Get("X-Request-ID"))
	s.mu.Unlock()

	status, body := http.StatusOK, any(analysis.AnalyzeResponse{})
	if s.handler != nil {
		status, body = s.handler(req)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if raw, ok := body.(string); ok {
		_, _ = w.Write([]byte(raw))
		return
	}
	_ = json.NewEncoder(w).Encode(body)
}
