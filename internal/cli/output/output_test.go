package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/jedsaxon/misinfodetector/internal/analytics"
	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/cli/config"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/jedsaxon/misinfodetector/internal/pager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		format  string
		isValid bool
	}{
		{"json", true},
		{"text", true},
		{"table", true},
		{"yaml", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.isValid, ValidateOutputFormat(tt.format), tt.format)
	}
}

func TestGetOutputFormat(t *testing.T) {
	config.Set("output.format", "json")
	assert.Equal(t, FormatJSON, GetOutputFormat())
	config.Set("output.format", "bogus")
	assert.Equal(t, FormatText, GetOutputFormat())
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = color.Output }()

	require.NoError(t, PrintJSON(analytics.Distribution{MisinfoCount: 1, TrueCount: 2, Total: 3}))
	assert.Contains(t, buf.String(), `"misinfo_count": 1`)
	assert.Contains(t, buf.String(), `"total": 3`)
}

func TestPrintMessages(t *testing.T) {
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = color.Output }()

	PrintSuccess("Post created (%s)", "abc")
	PrintInfo("Post discarded")
	PrintError("Page %d does not exist", 9)
	PrintWarning("%d pages skipped", 2)

	assert.Equal(t, "Post created (abc)\nPost discarded\nError: Page 9 does not exist\nWarning: 2 pages skipped\n", buf.String())
}

func TestFprintTable(t *testing.T) {
	var buf bytes.Buffer
	FprintTable(&buf, []string{"A", "BB"}, [][]string{{"x", "1"}, {"long", "2"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "A     BB", lines[0])
	assert.Equal(t, "long  2", lines[2])
}

func flagged(v int) *int { return &v }

func TestRenderPosts(t *testing.T) {
	conf := 0.9
	posts := []models.Post{
		{ID: "a", Username: "ada", Message: "first", Date: time.Now()},
		{ID: "b", Username: "bob", Message: "second", Date: time.Now(), MisinfoState: flagged(models.MisinfoStateFlagged), Confidence: &conf},
	}

	var buf bytes.Buffer
	RenderPosts(&buf, posts, pager.ComputeWindow(2, 5, pager.DefaultMaxPrev, pager.DefaultMaxNext))
	out := buf.String()

	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
	assert.Equal(t, 1, strings.Count(out, MisinfoWarning))
	assert.Contains(t, out, "confidence 90%")
	assert.Contains(t, out, "[2]")
	assert.Contains(t, out, "page 2 of 5")
}

func TestRenderPostsEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderPosts(&buf, nil, pager.ComputeWindow(1, 0, 3, 3))
	assert.Equal(t, EmptyFeedMessage+"\n", buf.String())
}

func TestRenderPost(t *testing.T) {
	var buf bytes.Buffer
	RenderPost(&buf, &models.Post{ID: "a", Username: "ada", Message: "hi", Date: time.Now(), MisinfoState: flagged(models.MisinfoStateFlagged)})
	assert.Contains(t, buf.String(), MisinfoWarning)
	assert.Contains(t, buf.String(), misinfoDetail)

	buf.Reset()
	RenderPost(&buf, &models.Post{ID: "a", Username: "ada", Message: "hi", Date: time.Now()})
	assert.NotContains(t, buf.String(), MisinfoWarning)
	assert.Contains(t, buf.String(), "Not classified yet")
}

func TestRenderDistribution(t *testing.T) {
	var buf bytes.Buffer
	RenderDistribution(&buf, analytics.Distribution{MisinfoCount: 42, TrueCount: 42, Total: 84}, 20)
	out := buf.String()

	assert.Contains(t, out, " 50.0%  (42)")
	assert.Contains(t, out, "84 classified posts")
	assert.Equal(t, 10, strings.Count(strings.Split(out, "\n")[0], "█"))

	buf.Reset()
	RenderDistribution(&buf, analytics.Distribution{}, 20)
	assert.Equal(t, NoDataMessage+"\n", buf.String())
}

func TestRenderSunburst(t *testing.T) {
	nodes := analytics.BuildSunburst([]models.TopicActivity{
		{DBID: 1, Date: "2016-02-01", TopicName: "health"},
		{DBID: 2, Date: "2016-02-03", TopicName: "health"},
	})

	var buf bytes.Buffer
	RenderSunburst(&buf, nodes)
	out := buf.String()
	assert.Contains(t, out, "2016 (2)")
	assert.Contains(t, out, "Feb (2)")
	assert.NotContains(t, out, "Jan")

	buf.Reset()
	RenderSunburst(&buf, nil)
	assert.Equal(t, NoDataMessage+"\n", buf.String())
}

func TestRenderScatter(t *testing.T) {
	points := []models.TNSEEmbedding{
		{ID: 1, Correct: "True", TnseX: 1, TnseY: 1},
		{ID: 2, Correct: "True", TnseX: 3, TnseY: 3},
		{ID: 3, Correct: "False", TnseX: 0, TnseY: 0},
	}
	series := analytics.GroupEmbeddings(points, analytics.GroupByCorrectness)

	rows := ScatterRows(series)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"True", analytics.ColorCorrect, "2", "(2.00, 2.00)"}, rows[1])

	var buf bytes.Buffer
	RenderScatter(&buf, series, analytics.SummarizePredictions(points))
	assert.Contains(t, buf.String(), "Accuracy:              66.7%")
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	RenderError(&buf, &api.DetailedError{Title: "Post not found", Description: "The requested post does not exist."})
	assert.Equal(t, "Post not found\n  The requested post does not exist.\n", buf.String())

	buf.Reset()
	RenderError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	progress := Progress(&buf, "Fetching posts")
	progress(1, 2)
	progress(2, 2)
	assert.Equal(t, "\rFetching posts: page 1 of 2\rFetching posts: page 2 of 2\n", buf.String())
}
