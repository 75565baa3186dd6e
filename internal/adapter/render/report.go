package render

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"taskflow/internal/core/domain"
	"taskflow/internal/core/ports"
	"taskflow/pkg/translator"
)

const timestampLayout = "2006-01-02 15:04 MST"

const reportTemplate = `{{.Heading}}
{{underline .Heading}}

{{row .Labels.Task .Task.Title}}
{{row .Labels.Status .Status}}
{{row .Labels.Assignee .Assignee}}
{{row .Labels.CreatedBy .CreatedBy}}
{{row .Labels.CreatedAt .CreatedAt}}
{{row .Labels.Deadline .Deadline}}
{{row .Labels.CompletedAt .CompletedAt}}
{{row .Labels.Outcome .Outcome}}

{{.Labels.Description}}:
{{.Description}}

{{.Labels.GeneratedAt}}: {{.GeneratedAt}}
`

var tmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"row": func(label, value string) string { return fmt.Sprintf("%-16s %s", label+":", value) },
	"underline": func(s string) string {
		return string(bytes.Repeat([]byte("="), len([]rune(s))))
	},
}).Parse(reportTemplate))

type reportLabels struct {
	Task        string
	Description string
	Assignee    string
	CreatedBy   string
	Status      string
	Deadline    string
	CreatedAt   string
	CompletedAt string
	Outcome     string
	GeneratedAt string
}

type reportData struct {
	Heading     string
	Labels      reportLabels
	Task        domain.Task
	Status      string
	Assignee    string
	CreatedBy   string
	CreatedAt   string
	Deadline    string
	CompletedAt string
	Outcome     string
	Description string
	GeneratedAt string
}

type ReportRenderer struct {
	location *time.Location
	now      func() time.Time
}

type Option func(*ReportRenderer)

// WithLocation sets the time zone timestamps are printed in. UTC by default.
func WithLocation(loc *time.Location) Option {
	return func(r *ReportRenderer) {
		if loc != nil {
			r.location = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *ReportRenderer) { r.now = now }
}

func NewReportRenderer(opts ...Option) *ReportRenderer {
	r := &ReportRenderer{location: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ReportRenderer) Render(ctx context.Context, task domain.Task, lang string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l := func(id string) string { return translator.Localize(lang, id, nil) }
	none := l("reportNone")

	data := reportData{
		Heading: l("reportHeading"),
		Labels: reportLabels{
			Task:        l("reportTask"),
			Description: l("reportDescription"),
			Assignee:    l("reportAssignee"),
			CreatedBy:   l("reportCreatedBy"),
			Status:      l("reportStatus"),
			Deadline:    l("reportDeadline"),
			CreatedAt:   l("reportCreatedAt"),
			CompletedAt: l("reportCompletedAt"),
			Outcome:     l("reportSLAOutcome"),
			GeneratedAt: l("reportGeneratedAt"),
		},
		Task:        task,
		Status:      StatusLabel(lang, task.Status),
		Assignee:    orDefault(task.AssignedToName, task.AssignedTo, none),
		CreatedBy:   orDefault(task.CreatedByName, task.CreatedBy, none),
		CreatedAt:   r.format(task.CreatedAt, none),
		Deadline:    r.format(task.SLADeadline, none),
		CompletedAt: none,
		Outcome:     none,
		Description: orDefault(task.Description, none),
		GeneratedAt: r.format(r.now(), none),
	}
	if completedAt, ok := task.CompletedAt(); ok {
		data.CompletedAt = r.format(completedAt, none)
		if !task.SLADeadline.IsZero() {
			if completedAt.After(task.SLADeadline) {
				data.Outcome = l("reportMissedSLA")
			} else {
				data.Outcome = l("reportMetSLA")
			}
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ReportRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

func (r *ReportRenderer) format(t time.Time, none string) string {
	if t.IsZero() {
		return none
	}
	return t.In(r.location).Format(timestampLayout)
}

func orDefault(values ...string) string {
	for _, v := range values[:len(values)-1] {
		if v != "" {
			return v
		}
	}
	return values[len(values)-1]
}

var _ ports.ReportRenderer = (*ReportRenderer)(nil)
