package output

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/collector"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/jedsaxon/misinfodetector/internal/pager"
)

const (
	timeLayout = "2006-01-02 15:04"

	// MisinfoWarning is shown with flagged posts
	MisinfoWarning = "This post could contain misinformation"
	misinfoDetail  = "Our classifier flagged this post as potential misinformation. Check other sources before trusting or sharing it."

	EmptyFeedMessage = "No posts yet. Be the first to post with `misinfo posts new`."
	NoDataMessage    = "No data available"
)

var (
	bold    = color.New(color.Bold)
	faint   = color.New(color.Faint)
	warning = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed)
	success = color.New(color.FgGreen)
)

// RenderError prints a user-facing error. DetailedErrors show their title and description.
func RenderError(w io.Writer, err error) {
	var de *api.DetailedError
	if errors.As(err, &de) {
		danger.Fprintf(w, "%s\n", de.Title)
		if de.Description != "" {
			fmt.Fprintf(w, "  %s\n", de.Description)
		}
		return
	}
	danger.Fprintf(w, "Error: %v\n", err)
}

// RenderPosts prints one page of posts followed by the pager
func RenderPosts(w io.Writer, posts []models.Post, window pager.Window) {
	if len(posts) == 0 {
		faint.Fprintln(w, EmptyFeedMessage)
		return
	}

	for i := range posts {
		renderPostSummary(w, &posts[i])
		fmt.Fprintln(w)
	}

	if line := window.Render(); line != "" {
		fmt.Fprintf(w, "%s   (page %d of %d)\n", line, window.Page, window.TotalPages)
	}
}

func renderPostSummary(w io.Writer, p *models.Post) {
	bold.Fprint(w, p.Username)
	faint.Fprintf(w, "  %s  %s\n", p.Date.Local().Format(timeLayout), p.ID)
	fmt.Fprintf(w, "  %s\n", p.Message)
	if p.PotentialMisinformation() {
		warning.Fprintf(w, "  ⚠ %s%s\n", MisinfoWarning, confidenceSuffix(p))
	}
}

// RenderPost prints a single post with the expanded misinformation warning
func RenderPost(w io.Writer, p *models.Post) {
	bold.Fprintln(w, p.Username)
	faint.Fprintf(w, "%s  %s\n\n", p.Date.Local().Format(timeLayout), p.ID)
	fmt.Fprintln(w, p.Message)

	switch {
	case p.PotentialMisinformation():
		fmt.Fprintln(w)
		warning.Fprintf(w, "⚠ %s%s\n", MisinfoWarning, confidenceSuffix(p))
		fmt.Fprintf(w, "  %s\n", misinfoDetail)
	case p.Classified():
		fmt.Fprintln(w)
		success.Fprintf(w, "✓ Not flagged%s\n", confidenceSuffix(p))
	default:
		fmt.Fprintln(w)
		faint.Fprintln(w, "Not classified yet")
	}
}

func confidenceSuffix(p *models.Post) string {
	if p.Confidence == nil {
		return ""
	}
	return fmt.Sprintf(" (confidence %.0f%%)", *p.Confidence*100)
}

// RenderDistribution prints the flagged vs factual split as two bars
func RenderDistribution(w io.Writer, d analytics.Distribution, width int) {
	if d.Empty() {
		faint.Fprintln(w, NoDataMessage)
		return
	}
	if width < 10 {
		width = 10
	}

	share := d.MisinfoShare()
	rows := []struct {
		label string
		count int
		share float64
		c     *color.Color
	}{
		{"Misinformation", d.MisinfoCount, share, danger},
		{"True", d.TrueCount, 1 - share, success},
	}

	for _, r := range rows {
		filled := int(r.share*float64(width) + 0.5)
		fmt.Fprintf(w, "%-15s ", r.label)
		r.c.Fprint(w, strings.Repeat("█", filled))
		fmt.Fprint(w, strings.Repeat("░", width-filled))
		fmt.Fprintf(w, " %5.1f%%  (%d)\n", r.share*100, r.count)
	}
	faint.Fprintf(w, "%d classified posts\n", d.Total)
}

// RenderSunburst prints the year/month/topic hierarchy as an indented tree.
// Empty months are omitted.
func RenderSunburst(w io.Writer, nodes []analytics.SunburstNode) {
	if len(nodes) == 0 {
		faint.Fprintln(w, NoDataMessage)
		return
	}

	for _, year := range nodes {
		bold.Fprintf(w, "%s (%d)\n", year.Name, year.Total())
		for _, month := range year.Children {
			total := month.Total()
			if total == 0 {
				continue
			}
			fmt.Fprintf(w, "  %s (%d)\n", month.Name, total)
			for _, topic := range month.Children {
				faint.Fprintf(w, "    %-24s %d\n", topic.Name, topic.Value)
			}
		}
	}
}

// ScatterRows turns series into table rows: name, colour, point count and centroid
func ScatterRows(series []analytics.ScatterSeries) [][]string {
	rows := make([][]string, 0, len(series))
	for _, s := range series {
		var cx, cy float64
		for _, p := range s.Points {
			cx += p.TnseX
			cy += p.TnseY
		}
		if n := float64(len(s.Points)); n > 0 {
			cx /= n
			cy /= n
		}
		rows = append(rows, []string{
			s.Name,
			s.Color,
			strconv.Itoa(len(s.Points)),
			fmt.Sprintf("(%.2f, %.2f)", cx, cy),
		})
	}
	return rows
}

// RenderScatter prints the series table and the prediction summary
func RenderScatter(w io.Writer, series []analytics.ScatterSeries, summary analytics.PredictionSummary) {
	if len(series) == 0 {
		faint.Fprintln(w, NoDataMessage)
		return
	}

	FprintTable(w, []string{"SERIES", "COLOUR", "POINTS", "CENTROID"}, ScatterRows(series))

	total := summary.Correct + summary.Incorrect
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(summary.Correct) / float64(total) * 100
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Correct predictions:   %d\n", summary.Correct)
	fmt.Fprintf(w, "Incorrect predictions: %d\n", summary.Incorrect)
	fmt.Fprintf(w, "Accuracy:              %.1f%%\n", accuracy)
}

// Progress returns a collector progress callback that redraws one status line on w
func Progress(w io.Writer, label string) collector.ProgressFunc {
	return func(current, total int) {
		fmt.Fprintf(w, "\r%s: page %d of %d", label, current, total)
		if current >= total {
			fmt.Fprintln(w)
		}
	}
}
