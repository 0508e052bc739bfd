package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/khanhnv2901/headerguard/cmd/testutil"
	"github.com/khanhnv2901/headerguard/internal/analysis"
	"github.com/khanhnv2901/headerguard/internal/history"
	"github.com/spf13/viper"
)

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}

func newTestSession(t *testing.T, appCtx *AppContext, out *bytes.Buffer) *analyzeSession {
	t.Helper()
	session, err := newAnalyzeSession(appCtx, out, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newAnalyzeSession: %v", err)
	}
	t.Cleanup(session.Close)
	return session
}

func TestAnalyzeScoredURL(t *testing.T) {
	disableColor(t)
	stub := testutil.NewAnalyzerStub(t, testutil.Respond(http.StatusOK, analysis.AnalyzeResponse{
		Score:   95,
		Summary: "Great!",
		Issues:  []analysis.SecurityIssue{},
	}))
	appCtx, env := setupTestAppContext(t, stub.URL())

	var out bytes.Buffer
	session := newTestSession(t, appCtx, &out)
	if err := session.runBatch(context.Background(), []string{"  example.com  "}); err != nil {
		t.Fatalf("runBatch: %v", err)
	}

	if !strings.Contains(out.String(), "95 / 100 (excellent)") || !strings.Contains(out.String(), "Great!") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}

	reqs := stub.Requests()
	if len(reqs) != 1 || reqs[0].URL != "example.com" || reqs[0].BypassCache {
		t.Fatalf("unexpected analyzer requests %+v", reqs)
	}

	store, err := history.NewStore(env.ResultsDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	records, err := store.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one history record, got %d", len(records))
	}
	if records[0].Outcome != "scored" || records[0].Tier != "excellent" {
		t.Errorf("unexpected history record %+v", records[0])
	}
	if ids := stub.RequestIDs(); len(ids) != 1 || ids[0] == "" || ids[0] != records[0].RequestID {
		t.Errorf("history request id %q does not match the outbound header %v", records[0].RequestID, ids)
	}
}

func TestAnalyzeBlankURLFailsLocally(t *testing.T) {
	disableColor(t)
	stub := testutil.NewAnalyzerStub(t, nil)
	appCtx, _ := setupTestAppContext(t, stub.URL())

	var out bytes.Buffer
	session := newTestSession(t, appCtx, &out)
	err := session.runBatch(context.Background(), []string{"   "})

	var failed *AnalysisFailedError
	if !errors.As(err, &failed) || failed.Failed != 1 || failed.Total != 1 {
		t.Fatalf("expected AnalysisFailedError{1,1}, got %v", err)
	}
	if got := out.String(); got != "Error: Please enter a URL\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if len(stub.Requests()) != 0 {
		t.Fatal("blank input must not reach the analyzer")
	}
}

func TestAnalyzeBatchReportsFailures(t *testing.T) {
	disableColor(t)
	stub := testutil.NewAnalyzerStub(t, func(req analysis.AnalyzeRequest) (int, any) {
		if req.URL == "blocked.example" {
			return http.StatusForbidden, `{"error":"Rate limited"}`
		}
		return http.StatusOK, analysis.AnalyzeResponse{Score: 55, Summary: "Fair"}
	})
	appCtx, _ := setupTestAppContext(t, stub.URL())

	var out bytes.Buffer
	session := newTestSession(t, appCtx, &out)
	err := session.runBatch(context.Background(), []string{"ok.example", "blocked.example"})

	var failed *AnalysisFailedError
	if !errors.As(err, &failed) || failed.Failed != 1 || failed.Total != 2 {
		t.Fatalf("expected AnalysisFailedError{1,2}, got %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "55 / 100 (fair)") || !strings.Contains(got, "Error: Rate limited") {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if len(stub.Requests()) != 2 {
		t.Fatalf("expected two analyzer calls, got %d", len(stub.Requests()))
	}
}

func TestAnalyzeJSONOutput(t *testing.T) {
	count := 4
	stub := testutil.NewAnalyzerStub(t, testutil.Respond(http.StatusOK, analysis.AnalyzeResponse{
		CDNWarning: &analysis.CDNWarning{DetectedServer: "cloudflare", HeaderCount: count, Message: "edge"},
	}))
	appCtx, _ := setupTestAppContext(t, stub.URL())
	appCtx.Config.Analyze.JSONOutput = true
	appCtx.Config.Analyze.BypassCache = true

	var out bytes.Buffer
	session := newTestSession(t, appCtx, &out)
	if err := session.runBatch(context.Background(), []string{"https://example.com/"}); err != nil {
		t.Fatalf("runBatch: %v", err)
	}

	var report analysisReport
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out.String())
	}
	if report.Phase != "succeeded" || !report.BypassCache || report.RequestID == "" {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Outcome == nil || report.Outcome.Kind != analysis.OutcomeWarning {
		t.Fatalf("expected warning outcome, got %+v", report.Outcome)
	}
	if !report.Outcome.Warning.Legacy || report.Outcome.Score != nil {
		t.Fatalf("expected legacy warning without score, got %+v", report.Outcome)
	}
	if !strings.Contains(report.Outcome.Hint, "https://example.com/home") {
		t.Fatalf("expected remediation hint, got %q", report.Outcome.Hint)
	}
	if reqs := stub.Requests(); len(reqs) != 1 || !reqs[0].BypassCache {
		t.Fatalf("expected bypass flag to reach the analyzer, got %+v", reqs)
	}
}

func TestAnalyzeHistoryDisabled(t *testing.T) {
	disableColor(t)
	stub := testutil.NewAnalyzerStub(t, testutil.Respond(http.StatusOK, analysis.AnalyzeResponse{Score: 10}))
	appCtx, env := setupTestAppContext(t, stub.URL())
	appCtx.Config.Analyze.History = false

	var out bytes.Buffer
	session := newTestSession(t, appCtx, &out)
	if err := session.runBatch(context.Background(), []string{"example.com"}); err != nil {
		t.Fatalf("runBatch: %v", err)
	}
	if _, err := os.Stat(env.HistoryPath()); !os.IsNotExist(err) {
		t.Fatalf("expected no history file, stat err = %v", err)
	}
}

func TestNewAnalyzeSessionValidation(t *testing.T) {
	appCtx, _ := setupTestAppContext(t, "http://localhost:3000")

	appCtx.Config.Analyze.TimeoutSecs = 0
	var flagErr *InvalidFlagError
	if _, err := newAnalyzeSession(appCtx, &bytes.Buffer{}, &bytes.Buffer{}); !errors.As(err, &flagErr) || flagErr.Flag != "timeout" {
		t.Fatalf("expected timeout flag error, got %v", err)
	}

	appCtx.Config.Analyze.TimeoutSecs = 5
	appCtx.Config.APIURL = "ftp://analyzer.example"
	if _, err := newAnalyzeSession(appCtx, &bytes.Buffer{}, &bytes.Buffer{}); err == nil {
		t.Fatal("expected invalid api url to be rejected")
	}
}

func TestAnalyzeCommandEndToEnd(t *testing.T) {
	disableColor(t)
	stub := testutil.NewAnalyzerStub(t, testutil.Respond(http.StatusOK, analysis.AnalyzeResponse{Score: 72, Summary: "Good"}))

	home := t.TempDir()
	resultsDir := filepath.Join(home, "results")
	t.Setenv("HOME", home)
	t.Setenv("HEADERGUARD_RESULTS_DIR", resultsDir)

	originalCfg := *cliConfig
	originalCtx := globalAppContext
	t.Cleanup(func() {
		*cliConfig = originalCfg
		globalAppContext = originalCtx
		viper.Reset()
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		for _, name := range []string{"api-url", "timeout", "history"} {
			if flag := rootCmd.PersistentFlags().Lookup(name); flag != nil {
				flag.Changed = false
			}
		}
		if flag := analyzeCmd.Flags().Lookup("no-progress"); flag != nil {
			flag.Changed = false
		}
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"analyze", "--api-url", stub.URL(), "--no-progress", "example.com"})

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v (stderr=%s)", err, errOut.String())
	}
	if !strings.Contains(out.String(), "72 / 100 (good)") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if _, err := os.Stat(filepath.Join(resultsDir, "history.jsonl")); err != nil {
		t.Fatalf("expected history file in results dir: %v", err)
	}
}
