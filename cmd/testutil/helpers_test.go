package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/khanhnv2901/headerguard/internal/analysis"
)

func TestNewTestEnv(t *testing.T) {
	env := NewTestEnv(t)
	defer env.Cleanup()

	if env.TmpDir == "" {
		t.Error("TmpDir should not be empty")
	}
	if env.Logger == nil {
		t.Error("Logger should default to a no-op logger")
	}
	if _, err := os.Stat(env.ResultsDir); os.IsNotExist(err) {
		t.Error("Results directory should exist")
	}
}

func TestTestEnv_Cleanup(t *testing.T) {
	env := NewTestEnv(t)

	var order []int
	env.AddCleanup(func() { order = append(order, 1) })
	env.AddCleanup(func() { order = append(order, 2) })
	env.Cleanup()

	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("Expected cleanup in reverse order [2 1], got %v", order)
	}
}

func TestTestEnv_Files(t *testing.T) {
	env := NewTestEnv(t)
	defer env.Cleanup()

	env.MustNotExist("nested/file.txt")
	env.CreateFile("nested/file.txt", []byte("hello"))
	env.MustExist("nested/file.txt")

	if got := string(env.ReadFile("nested/file.txt")); got != "hello" {
		t.Errorf("Expected file content 'hello', got %q", got)
	}
}

func TestAnalyzerStubRecordsRequests(t *testing.T) {
	stub := NewAnalyzerStub(t, Respond(http.StatusOK, analysis.AnalyzeResponse{Score: 80, Summary: "ok"}))

	body, _ := json.Marshal(analysis.AnalyzeRequest{URL: "example.com", BypassCache: true})
	req, err := http.NewRequest(http.MethodPost, stub.URL()+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("X-Request-ID", "req-42")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	var decoded analysis.AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Score != 80 {
		t.Errorf("Expected score 80, got %d", decoded.Score)
	}

	reqs := stub.Requests()
	if len(reqs) != 1 || reqs[0].URL != "example.com" || !reqs[0].BypassCache {
		t.Errorf("unexpected recorded requests %+v", reqs)
	}
	if ids := stub.RequestIDs(); len(ids) != 1 || ids[0] != "req-42" {
		t.Errorf("unexpected request ids %v", ids)
	}
}

func TestAnalyzerStubRawBodyAndUnknownPath(t *testing.T) {
	stub := NewAnalyzerStub(t, Respond(http.StatusForbidden, `{"error":"Rate limited"}`))

	resp, err := http.Post(stub.URL()+"/api/analyze", "application/json", bytes.NewReader([]byte(`{"url":"a"}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", resp.StatusCode)
	}

	other, err := http.Get(stub.URL() + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	other.Body.Close()
	if other.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", other.StatusCode)
	}
}
