package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/headerguard/internal/history"
)

func TestPrintHistory(t *testing.T) {
	disableColor(t)

	score := 88
	records := []history.Record{
		{Timestamp: time.Now(), URL: "a.example", Outcome: "scored", Score: &score, Tier: "good", IssueCount: 2, DurationSeconds: 0.42},
		{Timestamp: time.Now(), URL: "b.example", Outcome: "warning", WarningType: "cdn"},
		{Timestamp: time.Now(), URL: "", Outcome: "failed", Error: "Please enter a URL"},
	}

	var buf bytes.Buffer
	if err := printHistory(&buf, records); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	got := buf.String()

	for _, want := range []string{"TIME", "OUTCOME", "a.example", "88 (good)", "0.42s", "cdn", "Please enter a URL"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
	if lines := strings.Count(got, "\n"); lines != 4 {
		t.Errorf("expected header plus three rows, got %d lines", lines)
	}
}

func TestPrintHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printHistory(&buf, nil); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	if got := buf.String(); got != "No analyses recorded yet.\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestHistoryCommandListsRecords(t *testing.T) {
	disableColor(t)
	appCtx, _ := setupTestAppContext(t, "http://localhost:3000")

	store, err := history.NewStore(appCtx.ResultsDir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	for _, url := range []string{"one.example", "two.example", "three.example"} {
		if err := store.Append(history.Record{URL: url, Outcome: history.OutcomeFailed, Error: "boom"}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	original := historyLimit
	historyLimit = 2
	t.Cleanup(func() { historyLimit = original })

	var buf bytes.Buffer
	historyCmd.SetOut(&buf)
	t.Cleanup(func() { historyCmd.SetOut(nil) })

	if err := historyCmd.RunE(historyCmd, nil); err != nil {
		t.Fatalf("history: %v", err)
	}
	got := buf.String()
	if strings.Contains(got, "one.example") || !strings.Contains(got, "two.example") || !strings.Contains(got, "three.example") {
		t.Fatalf("expected only the two most recent records, got:\n%s", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)
	if got := buf.String(); got != "HeaderGuard version "+Version+"\n" {
		t.Fatalf("unexpected version output %q", got)
	}
}
