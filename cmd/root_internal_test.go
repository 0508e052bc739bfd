package cmd

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func TestStoreAndGetAppContext(t *testing.T) {
	original := globalAppContext
	defer func() {
		globalAppContext = original
	}()

	cmd := &cobra.Command{Use: "root"}
	appCtx := &AppContext{ResultsDir: "/tmp/results"}

	storeAppContext(cmd, appCtx)

	got := getAppContext(cmd)
	if got != appCtx {
		t.Fatalf("expected stored app context to be returned")
	}
}

func TestGetAppContextFallsBackToGlobal(t *testing.T) {
	original := globalAppContext
	defer func() {
		globalAppContext = original
	}()

	globalAppContext = &AppContext{ResultsDir: "/tmp/global"}
	cmd := &cobra.Command{Use: "other"}
	cmd.SetContext(context.Background())

	if got := getAppContext(cmd); got != globalAppContext {
		t.Fatalf("expected global app context, got %+v", got)
	}
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{false, true} {
		logger, err := newLogger(debug)
		if err != nil {
			t.Fatalf("newLogger(%v): %v", debug, err)
		}
		if got := logger.Core().Enabled(zapcore.DebugLevel); got != debug {
			t.Errorf("newLogger(%v) debug enabled = %v", debug, got)
		}
	}
}

func TestRootRegistersCommands(t *testing.T) {
	want := map[string]bool{"analyze": false, "interactive": false, "history": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %s to be registered", name)
		}
	}
}
