package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskflow/internal/adapter/prefs"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the SLA views of a user live",
	Long: `Keep a session open for the user and reprint the views on every projection
change. With the notifications.sla preference on, tasks that turn critical or
overdue are announced as they change tier.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("user", "", "User id whose views are followed (required)")
	watchCmd.Flags().String("lang", "en", "Language of status labels")
}

func runWatch(cmd *cobra.Command, args []string) error {
	lang, _ := cmd.Flags().GetString("lang")

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := prefs.Open(resolvePrefsPath())
	if err != nil {
		return err
	}
	p, err := store.Load()
	if err != nil {
		return err
	}

	b, err := openBackend(ctx, newLogger())
	if err != nil {
		return err
	}
	defer b.close()

	principal, err := principalFor(ctx, cmd, b)
	if err != nil {
		return err
	}
	return watchViews(ctx, cmd.OutOrStdout(), b.views, principal, lang, p.Notifications.SLA)
}

// watchViews prints the views once, then again after every change, until
// ctx is done or the change channel closes.
func watchViews(ctx context.Context, w io.Writer, views ports.ViewService, principal domain.Principal, lang string, alerts bool) error {
	changes, stop, err := views.Watch(ctx, principal)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer stop()

	var seen map[string]string
	refresh := func() error {
		summary, err := collectViews(ctx, views, principal, lang)
		if err != nil {
			return err
		}
		if alerts && seen != nil {
			announce(w, seen, summary.AtRisk)
		}
		seen = tiers(summary.AtRisk)
		fmt.Fprintln(w, "----")
		return writeViews(w, outputTable, summary)
	}

	if err := refresh(); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			if err := refresh(); err != nil {
				return err
			}
		}
	}
}

func tiers(lines []taskLine) map[string]string {
	out := make(map[string]string, len(lines))
	for _, line := range lines {
		out[line.ID] = line.SLA
	}
	return out
}

// announce prints tasks that entered the critical or overdue tier since the
// previous refresh.
func announce(w io.Writer, previous map[string]string, lines []taskLine) {
	for _, line := range lines {
		if line.SLA != string(domain.SLACritical) && line.SLA != string(domain.SLAOverdue) {
			continue
		}
		if previous[line.ID] == line.SLA {
			continue
		}
		fmt.Fprintf(w, "! %s is %s (%s)\n", line.Title, line.SLALabel, line.Remaining)
	}
}
