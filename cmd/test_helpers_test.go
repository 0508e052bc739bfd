package cmd

import (
	"testing"

	"github.com/khanhnv2901/headerguard/cmd/testutil"
)

// setupTestAppContext installs an AppContext pointing at apiURL with an
// isolated results directory. Progress output and pacing are disabled.
func setupTestAppContext(t *testing.T, apiURL string) (*AppContext, *testutil.TestEnv) {
	t.Helper()

	env := testutil.NewTestEnv(t)
	cfg := newCLIConfig()
	cfg.APIURL = apiURL
	cfg.Analyze.RateLimit = 0
	cfg.Analyze.NoProgress = true

	appCtx := &AppContext{
		Logger:     env.Logger,
		ResultsDir: env.ResultsDir,
		Config:     cfg,
	}

	original := globalAppContext
	globalAppContext = appCtx
	t.Cleanup(func() {
		globalAppContext = original
	})
	return appCtx, env
}
