package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jedsaxon/misinfodetector/internal/api"
	"github.com/jedsaxon/misinfodetector/internal/cli/config"
	"github.com/jedsaxon/misinfodetector/internal/cli/output"
	"github.com/jedsaxon/misinfodetector/internal/cli/prompter"
	"github.com/jedsaxon/misinfodetector/internal/models"
	"github.com/jedsaxon/misinfodetector/internal/pager"
	"github.com/jedsaxon/misinfodetector/internal/service"
	"github.com/spf13/cobra"
)

var (
	postsPage     int
	postsPageSize int
	postMessage   string
	postUsername  string
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "Posts feed commands",
	Long:  "List, view, browse and create posts",
}

var postsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List one page of posts, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newFeed().list(cmd.Context(), postsPage)
	},
}

var postsShowCmd = &cobra.Command{
	Use:   "show <post-id>",
	Short: "View a single post",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return newFeed().show(cmd.Context(), args[0])
	},
}

var postsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Create a post",
	Long:  "Create a post. Missing --message or --username values are prompted for.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newFeed().create(cmd.Context(), postMessage, postUsername)
	},
}

var postsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the feed interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newFeed().browse(cmd.Context(), postsPage)
	},
}

func init() {
	for _, c := range []*cobra.Command{postsListCmd, postsBrowseCmd} {
		c.Flags().IntVar(&postsPage, "page", 1, "Page number (1-indexed)")
		c.Flags().IntVar(&postsPageSize, "size", 0, "Posts per page (default: output.page_size)")
	}
	postsNewCmd.Flags().StringVarP(&postMessage, "message", "m", "", "Post message (1-256 characters)")
	postsNewCmd.Flags().StringVarP(&postUsername, "username", "u", "", "Username (1-64 characters)")

	postsCmd.AddCommand(postsListCmd)
	postsCmd.AddCommand(postsShowCmd)
	postsCmd.AddCommand(postsNewCmd)
	postsCmd.AddCommand(postsBrowseCmd)
}

// feed runs the posts commands against a post service
type feed struct {
	svc      *service.PostService
	prompt   *prompter.Prompter
	out      io.Writer
	pageSize int
	format   output.OutputFormat
}

func newFeed() *feed {
	size := postsPageSize
	if size <= 0 {
		size = config.GetInt("output.page_size")
	}
	return &feed{
		svc:      service.NewPostService(newAPIClient()),
		prompt:   prompter.Stdio(),
		out:      output.Out,
		pageSize: size,
		format:   output.GetOutputFormat(),
	}
}

func (f *feed) list(ctx context.Context, page int) error {
	if page < 1 {
		return fmt.Errorf("--page must be at least 1")
	}

	resp, err := f.svc.Page(ctx, page, f.pageSize)
	if err != nil {
		return err
	}

	switch f.format {
	case output.FormatJSON:
		return output.PrintJSON(map[string]interface{}{"posts": resp.Posts, "pages": resp.PageCount})
	case output.FormatTable:
		output.PrintTable([]string{"ID", "USER", "DATE", "FLAGGED", "MESSAGE"}, postRows(resp.Posts))
		return nil
	default:
		output.RenderPosts(f.out, resp.Posts, pager.ComputeWindow(page, resp.PageCount, pager.DefaultMaxPrev, pager.DefaultMaxNext))
		return nil
	}
}

func postRows(posts []models.Post) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		flagged := "-"
		if p.Classified() {
			flagged = strconv.FormatBool(p.PotentialMisinformation())
		}
		rows = append(rows, []string{p.ID, p.Username, p.Date.Local().Format("2006-01-02 15:04"), flagged, ellipsize(p.Message, 48)})
	}
	return rows
}

func ellipsize(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max-1]) + "…"
}

func (f *feed) show(ctx context.Context, id string) error {
	post, err := f.svc.Post(ctx, id)
	if err != nil {
		return err
	}

	if f.format == output.FormatJSON {
		return output.PrintJSON(post)
	}
	output.RenderPost(f.out, post)
	return nil
}

// maxMessageLines bounds the interactive message editor
const maxMessageLines = 8

// create submits a post. Values missing from the flags are prompted for and
// the post is only sent after confirmation.
func (f *feed) create(ctx context.Context, message, username string) error {
	var err error
	prompted := false
	if username == "" {
		if username, err = f.prompt.PromptString("Username: "); err != nil {
			return err
		}
		prompted = true
	}
	if message == "" {
		if message, err = f.prompt.PromptMultilineString("Message", maxMessageLines); err != nil {
			return err
		}
		prompted = true
	}
	if prompted {
		ok, err := f.prompt.PromptConfirm("Submit this post?")
		if err != nil {
			return err
		}
		if !ok {
			output.PrintInfo("Post discarded")
			return nil
		}
	}

	post, err := f.svc.Upload(ctx, message, username)
	if err != nil {
		return err
	}

	if f.format == output.FormatJSON {
		return output.PrintJSON(post)
	}
	output.PrintSuccess("Post created (%s)\n", post.ID)
	output.RenderPost(f.out, post)
	return nil
}

const browseHelp = "[n]ext  [p]rev  [g <page>]  [w]rite  [r]efresh  [q]uit"

// browse shows a page, then reads navigation commands until quit or end of input
func (f *feed) browse(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	window := pager.ComputeWindow(page, 0, pager.DefaultMaxPrev, pager.DefaultMaxNext)

	for {
		resp, err := f.svc.Page(ctx, page, f.pageSize)
		if err != nil {
			output.RenderError(f.out, err)
		} else {
			if resp.PageCount > 0 && page > resp.PageCount {
				page = resp.PageCount
				continue
			}
			window = pager.ComputeWindow(page, resp.PageCount, pager.DefaultMaxPrev, pager.DefaultMaxNext)
			output.RenderPosts(f.out, resp.Posts, window)
		}

		fmt.Fprintln(f.out, browseHelp)
		line, err := f.prompt.PromptString("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(strings.ToLower(line))
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "q", "quit":
			return nil
		case "n", "next":
			if next, ok := window.Next(); ok {
				page = next
			} else {
				output.PrintInfo("Already on the last page")
			}
		case "p", "prev":
			if prev, ok := window.Prev(); ok {
				page = prev
			} else {
				output.PrintInfo("Already on the first page")
			}
		case "g", "go":
			var n int
			if len(fields) < 2 {
				n, err = f.prompt.PromptInt("Page: ", 1, max(window.TotalPages, 1))
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					output.PrintError("%v", err)
					continue
				}
			} else if n, err = strconv.Atoi(fields[1]); err != nil {
				output.PrintError("%q is not a page number", fields[1])
				continue
			}
			if target, ok := window.Request(n); ok {
				page = target
			} else if n != window.Page {
				output.PrintError("Page %d does not exist", n)
			}
		case "w", "write", "new":
			if err := f.create(ctx, "", ""); err != nil {
				var de *api.DetailedError
				if errors.As(err, &de) {
					output.RenderError(f.out, err)
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			page = 1
		case "r", "refresh":
			f.svc.Refresh()
		default:
			output.PrintError("Unknown command %q", fields[0])
		}
	}
}
