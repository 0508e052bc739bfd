package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/khanhnv2901/headerguard/internal/analysis"
	"github.com/khanhnv2901/headerguard/internal/client"
	"github.com/khanhnv2901/headerguard/internal/history"
	"github.com/khanhnv2901/headerguard/internal/lifecycle"
	"github.com/khanhnv2901/headerguard/internal/presenter"
	sharederrors "github.com/khanhnv2901/headerguard/internal/shared/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [url...]",
	Short: "Analyze the security headers of one or more URLs",
	Long: `Submit each URL to the analyzer in turn and print its score, warning
and security issues. With no arguments a blank submission is made, which
fails validation.`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		if appCtx == nil {
			return errors.New("application context not initialised")
		}

		session, err := newAnalyzeSession(appCtx, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer session.Close()

		urls := args
		if len(urls) == 0 {
			urls = []string{""}
		}
		return session.runBatch(cmd.Context(), urls)
	},
}

// analysisReport is the --json rendering of one submission.
type analysisReport struct {
	URL         string            `json:"url"`
	BypassCache bool              `json:"bypass_cache"`
	Phase       string            `json:"phase"`
	RequestID   string            `json:"request_id,omitempty"`
	Error       string            `json:"error,omitempty"`
	Outcome     *analysis.Outcome `json:"outcome,omitempty"`
}

// analyzeSession wires one controller to the terminal, the history log and
// the analyzer for the lifetime of a command.
type analyzeSession struct {
	ctrl      *lifecycle.Controller
	presenter *presenter.Presenter
	store     *history.Store
	logger    *zap.SugaredLogger
	out       io.Writer

	bypassCache bool
	jsonOutput  bool
	rateLimit   int
}

func newAnalyzeSession(appCtx *AppContext, out, progressOut io.Writer) (*analyzeSession, error) {
	cfg := appCtx.Config
	if cfg.Analyze.TimeoutSecs <= 0 {
		return nil, &InvalidFlagError{Flag: "timeout", Value: strconv.Itoa(cfg.Analyze.TimeoutSecs), Reason: "must be positive"}
	}
	timeout := time.Duration(cfg.Analyze.TimeoutSecs) * time.Second

	logger := appCtx.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	api, err := client.New(client.Config{
		BaseURL:    cfg.APIURL,
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger.Desugar(),
	})
	if err != nil {
		return nil, err
	}
	return newAnalyzeSessionWith(api, appCtx, out, progressOut)
}

func newAnalyzeSessionWith(api client.Analyzer, appCtx *AppContext, out, progressOut io.Writer) (*analyzeSession, error) {
	cfg := appCtx.Config.Analyze
	logger := appCtx.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	tty := false
	if f, ok := progressOut.(*os.File); ok {
		tty = isTerminal(f)
	}
	display := newLoadingDisplay(progressOut, tty, cfg.NoProgress || cfg.JSONOutput)

	s := &analyzeSession{
		presenter:   presenter.New(out),
		logger:      logger,
		out:         out,
		bypassCache: cfg.BypassCache,
		jsonOutput:  cfg.JSONOutput,
		rateLimit:   cfg.RateLimit,
	}
	s.ctrl = lifecycle.NewController(api, lifecycle.Options{
		Timeout:  time.Duration(cfg.TimeoutSecs) * time.Second,
		Logger:   logger.Desugar(),
		OnChange: display.Update,
	})

	if cfg.History {
		store, err := history.NewStore(appCtx.ResultsDir)
		if err != nil {
			logger.Warnf("history disabled: %v", err)
		} else {
			s.store = store
		}
	}
	return s, nil
}

// Close abandons any in-flight submission.
func (s *analyzeSession) Close() {
	s.ctrl.Close()
}

// runBatch submits urls one after another, paced by the configured rate.
func (s *analyzeSession) runBatch(ctx context.Context, urls []string) error {
	limit := rate.Inf
	if s.rateLimit > 0 {
		limit = rate.Limit(s.rateLimit)
	}
	limiter := rate.NewLimiter(limit, 1)

	failed := 0
	for i, url := range urls {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
		if i > 0 && !s.jsonOutput {
			fmt.Fprintln(s.out)
		}

		state, err := s.submit(ctx, url)
		if err != nil {
			return err
		}
		if state.Phase == lifecycle.PhaseFailed {
			failed++
		}
	}

	if failed > 0 {
		return &AnalysisFailedError{Failed: failed, Total: len(urls)}
	}
	return nil
}

// submit runs one submission, renders it and records it in history.
func (s *analyzeSession) submit(ctx context.Context, url string) (lifecycle.State, error) {
	requestID := client.NewRequestID()
	started := time.Now()

	state, err := s.ctrl.Submit(client.WithRequestID(ctx, requestID), url, s.bypassCache)
	if err != nil {
		if errors.Is(err, sharederrors.ErrSuperseded) {
			s.logger.Debugf("submission for %q superseded", url)
		}
		return state, err
	}

	if err := s.render(requestID, state); err != nil {
		return state, err
	}
	s.record(requestID, state, time.Since(started))
	return state, nil
}

func (s *analyzeSession) render(requestID string, state lifecycle.State) error {
	if !s.jsonOutput {
		s.presenter.Render(state)
		return nil
	}

	report := analysisReport{
		URL:         state.URL,
		BypassCache: state.BypassCache,
		Phase:       state.Phase.String(),
		RequestID:   requestID,
		Error:       state.Error,
	}
	if out, ok := state.Outcome(); ok {
		report.Outcome = &out
	}

	enc := json.NewEncoder(s.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("%w: %v", sharederrors.ErrSerializationFailed, err)
	}
	return nil
}

func (s *analyzeSession) record(requestID string, state lifecycle.State, elapsed time.Duration) {
	if s.store == nil {
		return
	}
	rec, ok := history.NewRecord(requestID, state, elapsed)
	if !ok {
		return
	}
	if err := s.store.Append(rec); err != nil {
		s.logger.Warnf("failed to record history: %v", err)
	}
}

func init() {
	analyzeCmd.Flags().BoolVar(&cliConfig.Analyze.BypassCache, "bypass-cache", cliConfig.Analyze.BypassCache, "ask the analyzer to skip its cached result")
	analyzeCmd.Flags().IntVar(&cliConfig.Analyze.RateLimit, "rate-limit", cliConfig.Analyze.RateLimit, "maximum submissions per second when analyzing several URLs (0 = unlimited)")
	analyzeCmd.Flags().BoolVar(&cliConfig.Analyze.JSONOutput, "json", false, "print classified outcomes as JSON")
	analyzeCmd.Flags().BoolVar(&cliConfig.Analyze.NoProgress, "no-progress", false, "disable the rotating loading message")
}
