package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taskflow/internal/adapter/render"
	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
)

const (
	outputTable = "table"
	outputYAML  = "yaml"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Print the SLA views of a user",
	Long: `Print the at-risk and upcoming-SLA views and the task counts exactly as the
user sees them: admins get every task, other users their own.`,
	RunE: runViews,
}

func init() {
	viewsCmd.Flags().String("user", "", "User id whose views are shown (required)")
	viewsCmd.Flags().StringP("output", "o", outputTable, "Output format: table, yaml")
	viewsCmd.Flags().String("lang", "en", "Language of status labels")
}

type viewSummary struct {
	User        string       `yaml:"user"`
	GeneratedAt string       `yaml:"generated_at"`
	Counts      countSummary `yaml:"counts"`
	AtRisk      []taskLine   `yaml:"at_risk"`
	UpcomingSLA []taskLine   `yaml:"upcoming_sla"`
}

type countSummary struct {
	Total      int `yaml:"total"`
	Completed  int `yaml:"completed"`
	InProgress int `yaml:"in_progress"`
	AtRisk     int `yaml:"at_risk"`
}

type taskLine struct {
	ID          string `yaml:"id"`
	Title       string `yaml:"title"`
	Assignee    string `yaml:"assignee"`
	Status      string `yaml:"status"`
	StatusLabel string `yaml:"status_label"`
	SLA         string `yaml:"sla"`
	SLALabel    string `yaml:"sla_label"`
	Remaining   string `yaml:"remaining"`
	Deadline    string `yaml:"deadline"`
}

func runViews(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	lang, _ := cmd.Flags().GetString("lang")
	if output != outputTable && output != outputYAML {
		return fmt.Errorf("unknown output format %q (want table or yaml)", output)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
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

	summary, err := collectViews(ctx, b.views, principal, lang)
	if err != nil {
		return err
	}
	return writeViews(cmd.OutOrStdout(), output, summary)
}

func collectViews(ctx context.Context, views ports.ViewService, principal domain.Principal, lang string) (viewSummary, error) {
	atRisk, err := views.AtRisk(ctx, principal)
	if err != nil {
		return viewSummary{}, fmt.Errorf("load at-risk view: %w", err)
	}
	upcoming, err := views.UpcomingSLA(ctx, principal)
	if err != nil {
		return viewSummary{}, fmt.Errorf("load upcoming view: %w", err)
	}
	counts, err := views.Counts(ctx, principal)
	if err != nil {
		return viewSummary{}, fmt.Errorf("load counts: %w", err)
	}

	now := views.Now()
	return viewSummary{
		User:        fmt.Sprintf("%s (%s)", principal.DisplayName, principal.ID),
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Counts: countSummary{
			Total:      counts.Total,
			Completed:  counts.Completed,
			InProgress: counts.InProgress,
			AtRisk:     counts.AtRisk,
		},
		AtRisk:      toLines(views, atRisk, lang, now),
		UpcomingSLA: toLines(views, upcoming, lang, now),
	}, nil
}

func toLines(views ports.ViewService, tasks []domain.Task, lang string, now time.Time) []taskLine {
	lines := make([]taskLine, 0, len(tasks))
	for _, task := range tasks {
		sla := views.SLAStatus(task)
		lines = append(lines, taskLine{
			ID:          task.ID,
			Title:       task.Title,
			Assignee:    task.AssignedToName,
			Status:      string(task.Status),
			StatusLabel: render.StatusLabel(lang, task.Status),
			SLA:         string(sla),
			SLALabel:    render.SLALabel(lang, sla),
			Remaining:   render.Remaining(lang, task.SLADeadline, now),
			Deadline:    task.SLADeadline.UTC().Format(time.RFC3339),
		})
	}
	return lines
}

func writeViews(w io.Writer, output string, summary viewSummary) error {
	if output == outputYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return fmt.Errorf("encode views: %w", err)
		}
		return enc.Close()
	}

	fmt.Fprintf(w, "User: %s\nGenerated: %s\n", summary.User, summary.GeneratedAt)
	fmt.Fprintf(w, "Total %d  Completed %d  In progress %d  At risk %d\n",
		summary.Counts.Total, summary.Counts.Completed, summary.Counts.InProgress, summary.Counts.AtRisk)

	writeSection(w, "AT RISK", summary.AtRisk)
	writeSection(w, "UPCOMING SLA", summary.UpcomingSLA)
	return nil
}

func writeSection(w io.Writer, heading string, lines []taskLine) {
	fmt.Fprintf(w, "\n%s\n", heading)
	if len(lines) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTITLE\tASSIGNEE\tSTATUS\tSLA\tREMAINING")
	for _, line := range lines {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t%s\n",
			line.ID, line.Title, line.Assignee, line.StatusLabel, line.SLALabel, line.Remaining)
	}
	tw.Flush()
}
