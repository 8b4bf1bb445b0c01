package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/term"

	"github.com/ToluGIT/loop/core/grade"
	"github.com/ToluGIT/loop/core/student"
)

const (
	suggestionCutoff = 0.7
	maxLineWidth     = 100
	defaultLineWidth = 72
	leverageShown    = 3
)

var (
	isTerminalFunc   = term.IsTerminal // mockable
	terminalSizeFunc = term.GetSize    // mockable
)

// notFoundError is returned when no student matches a report query.
type notFoundError struct {
	query      string
	suggestion string
}

func (e *notFoundError) Error() string {
	if e.suggestion == "" {
		return fmt.Sprintf("no student matches %q", e.query)
	}
	return fmt.Sprintf("no student matches %q, did you mean %q?", e.query, e.suggestion)
}

func (e *notFoundError) Cause() error { return student.ErrNotFound }

// findStudent looks query up as an ID first, then as an exact name or email.
func (cli *commandLine) findStudent(ctx context.Context, query string) (student.Student, error) {
	s, err := cli.svc.Get(ctx, query)
	if err == nil {
		return s, nil
	}
	if errors.Cause(err) != student.ErrNotFound {
		return student.Student{}, err
	}

	all, err := cli.svc.Query(ctx, nil, nil)
	if err != nil {
		return student.Student{}, err
	}
	for _, c := range all {
		if strings.EqualFold(c.Name, query) || strings.EqualFold(c.Email, query) {
			return cli.svc.Get(ctx, c.ID)
		}
	}
	return student.Student{}, &notFoundError{query: query, suggestion: suggest(query, all)}
}

// suggest returns the name of the student whose name or email is closest to query,
// or "" if none is close enough.
func suggest(query string, candidates []student.Student) string {
	query = strings.ToLower(strings.TrimSpace(query))
	best, bestRatio := "", 0.0
	for _, c := range candidates {
		for _, s := range []string{c.Name, c.Email} {
			m := difflib.NewMatcher(strings.Split(query, ""), strings.Split(strings.ToLower(s), ""))
			if m.QuickRatio() < suggestionCutoff {
				continue
			}
			if r := m.Ratio(); r > bestRatio {
				best, bestRatio = c.Name, r
			}
		}
	}
	if bestRatio < suggestionCutoff {
		return ""
	}
	return best
}

func lineWidth() int {
	fd := int(os.Stdout.Fd())
	if !isTerminalFunc(fd) {
		return defaultLineWidth
	}
	w, _, err := terminalSizeFunc(fd)
	if err != nil || w <= 0 {
		return defaultLineWidth
	}
	return min(w, maxLineWidth)
}

func formatAvg(avg *float64) string {
	if avg == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *avg)
}

func (cli *commandLine) report(ctx context.Context, query string) error {
	s, err := cli.findStudent(ctx, query)
	if err != nil {
		return err
	}
	r := student.NewReport(s.Modules)
	c := r.Classification
	rule := strings.Repeat("-", lineWidth())

	fmt.Fprintf(cli.out, "%s <%s>\n%s, year %d\n%s\n", s.Name, s.Email, s.Course, s.Year, rule)

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Classification\t%s\n", c.Classification)
	fmt.Fprintf(tw, "Weighted average\t%.1f%%\n", c.WeightedAverage)
	fmt.Fprintf(tw, "Level 5 average\t%s\n", formatAvg(c.Level5Average))
	fmt.Fprintf(tw, "Level 6 average\t%s\n", formatAvg(c.Level6Average))
	fmt.Fprintf(tw, "Credits graded\t%d/%d (%d%% complete)\n", c.CreditsCompleted, c.TotalCredits, r.Completion)
	fmt.Fprintf(tw, "Risk\t%s: %s\n", r.Risk.RiskLevel, r.Risk.Message)
	if err = tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "%s\nModules\n", rule)
	tw = tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, m := range r.Modules {
		fmt.Fprintf(tw, "  %s\t%s\tL%d\t%d cr\t%s\t%s\n", m.Code, m.Name, m.Level, m.Credits, formatAvg(m.Average), m.Band.Short())
	}
	if err = tw.Flush(); err != nil {
		return err
	}

	if len(r.Leverage) > 0 {
		fmt.Fprintf(cli.out, "%s\nHighest leverage\n", rule)
		for i, l := range r.Leverage[:min(len(r.Leverage), leverageShown)] {
			fmt.Fprintf(cli.out, "  %d. %s %s: %s\n", i+1, l.ModuleCode, l.AssessmentName, l.Description)
		}
	}

	if len(r.Insights) > 0 {
		fmt.Fprintf(cli.out, "%s\nInsights\n", rule)
		for _, in := range r.Insights {
			fmt.Fprintf(cli.out, "  [%s] %s: %s\n", in.Tone, in.Title, in.Description)
		}
	}
	return nil
}

func (cli *commandLine) campus(ctx context.Context) error {
	stats, err := cli.svc.Campus(ctx)
	if err != nil {
		return err
	}
	b := stats.Breakdown

	fmt.Fprintf(cli.out, "%d students\n", stats.TotalStudents)
	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "  %s\t%.0f%%\n", grade.First, b.First*100)
	fmt.Fprintf(tw, "  %s\t%.0f%%\n", grade.UpperSecond, b.UpperSecond*100)
	fmt.Fprintf(tw, "  %s\t%.0f%%\n", grade.LowerSecond, b.LowerSecond*100)
	fmt.Fprintf(tw, "  %s\t%.0f%%\n", grade.Third, b.Third*100)
	fmt.Fprintf(tw, "  %s\t%.0f%%\n", grade.Fail, b.Fail*100)
	if err = tw.Flush(); err != nil {
		return err
	}

	if len(stats.Modules) == 0 {
		return nil
	}
	fmt.Fprintln(cli.out, "\nModules by average")
	tw = tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	for _, m := range stats.Modules {
		fmt.Fprintf(tw, "  %s\t%s\t%.1f%%\t%d students\t%.0f%% firsts\n", m.Code, m.Name, m.Average, m.Students, m.FirstPct*100)
	}
	return tw.Flush()
}
