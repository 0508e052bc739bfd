package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for URLs and analyze them one at a time",
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

		return runInteractive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), session)
	},
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// runInteractive reads one URL per line until "q" or end of input. "b"
// toggles the bypass-cache option for later submissions.
func runInteractive(ctx context.Context, in io.Reader, out io.Writer, session *analyzeSession) error {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "=== HeaderGuard ===")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprintf(out, "[b] Bypass cache: %s    [q] Quit\n", onOff(session.bypassCache))
		fmt.Fprint(out, "URL: ")
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("failed to read input: %w", readErr)
		}
		input := strings.TrimSpace(line)
		if errors.Is(readErr, io.EOF) && input == "" {
			fmt.Fprintln(out)
			return nil
		}

		switch strings.ToLower(input) {
		case "q":
			return nil
		case "b":
			session.bypassCache = !session.bypassCache
			fmt.Fprintf(out, "Bypass cache %s\n", onOff(session.bypassCache))
		default:
			if _, err := session.submit(ctx, input); err != nil {
				return err
			}
		}
		fmt.Fprintln(out)

		if errors.Is(readErr, io.EOF) {
			return nil
		}
	}
}
