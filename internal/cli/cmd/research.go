package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/cli/config"
	"github.com/jedsaxon/misinfodetector/internal/cli/output"
	"github.com/jedsaxon/misinfodetector/internal/collector"
	"github.com/jedsaxon/misinfodetector/internal/service"
	"github.com/spf13/cobra"
)

var (
	scatterGroup string
	pieServer    bool
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research dashboard charts",
	Long:  "Summaries of classified posts, topic activity and classifier embeddings",
}

var researchPieCmd = &cobra.Command{
	Use:   "pie",
	Short: "Misinformation vs true posts",
	Long: `Fetch every page of posts and count flagged against factual posts.
Pages are fetched one at a time with a short pause between requests.
Press Ctrl+C to cancel. Use --server to read the server's precomputed counts instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		r := newResearch()
		if pieServer {
			return r.serverPie(ctx)
		}
		return r.pie(ctx)
	},
}

var researchSunburstCmd = &cobra.Command{
	Use:   "sunburst",
	Short: "Topic activity by year, month and topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newResearch().sunburst(cmd.Context())
	},
}

var researchScatterCmd = &cobra.Command{
	Use:   "scatter",
	Short: "t-SNE embedding series",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := analytics.ParseGroupKey(scatterGroup)
		if err != nil {
			return err
		}
		return newResearch().scatter(cmd.Context(), key)
	},
}

func init() {
	researchPieCmd.Flags().BoolVar(&pieServer, "server", false, "Use the server's precomputed distribution")
	researchScatterCmd.Flags().StringVar(&scatterGroup, "group", string(analytics.GroupByCorrectness), "Group by: correctness, label, pred_label")

	researchCmd.AddCommand(researchPieCmd)
	researchCmd.AddCommand(researchSunburstCmd)
	researchCmd.AddCommand(researchScatterCmd)
}

// research runs the research commands
type research struct {
	client *api.Client
	svc    *service.ResearchService
	out    io.Writer
	status io.Writer
	format output.OutputFormat
	width  int
}

func newResearch() *research {
	c := newAPIClient()
	pacing := collector.New(config.GetInt("research.page_size"), config.PageDelay())
	return &research{
		client: c,
		svc:    service.NewResearchService(c, pacing),
		out:    output.Out,
		status: os.Stderr,
		format: output.GetOutputFormat(),
		width:  output.TerminalWidth(80),
	}
}

func (r *research) barWidth() int {
	// label, percentages and counts take about 40 columns
	return r.width - 40
}

func (r *research) pie(ctx context.Context) error {
	token := collector.NewToken()
	stop := context.AfterFunc(ctx, token.Cancel)
	defer stop()

	report, err := r.svc.MisinfoDistribution(ctx, token, output.Progress(r.status, "Fetching posts"))
	if errors.Is(err, collector.ErrCancelled) {
		fmt.Fprintln(r.status)
		output.PrintWarning("Cancelled, no chart was drawn")
		return nil
	}
	if err != nil {
		return err
	}

	if r.format == output.FormatJSON {
		return output.PrintJSON(map[string]interface{}{
			"misinfo_count": report.MisinfoCount,
			"true_count":    report.TrueCount,
			"total":         report.Total,
			"pages":         report.Pages,
			"posts":         report.Posts,
			"failed_pages":  len(report.Failed),
		})
	}

	output.RenderDistribution(r.out, report.Distribution, r.barWidth())
	if n := len(report.Failed); n > 0 {
		output.PrintWarning("%d of %d pages could not be loaded and were skipped", n, report.Pages)
	}
	return nil
}

func (r *research) serverPie(ctx context.Context) error {
	dist, err := r.client.FetchMisinfoDistribution(ctx)
	if err != nil {
		return err
	}
	if r.format == output.FormatJSON {
		return output.PrintJSON(dist)
	}
	output.RenderDistribution(r.out, *dist, r.barWidth())
	return nil
}

func (r *research) sunburst(ctx context.Context) error {
	nodes, err := r.svc.TopicSunburst(ctx)
	if err != nil {
		return err
	}
	if r.format == output.FormatJSON {
		if nodes == nil {
			nodes = []analytics.SunburstNode{}
		}
		return output.PrintJSON(nodes)
	}
	output.RenderSunburst(r.out, nodes)
	return nil
}

func (r *research) scatter(ctx context.Context, key analytics.GroupKey) error {
	series, summary, err := r.svc.Scatter(ctx, key)
	if err != nil {
		return err
	}
	if r.format == output.FormatJSON {
		return output.PrintJSON(map[string]interface{}{"series": series, "summary": summary})
	}
	output.RenderScatter(r.out, series, summary)
	return nil
}
