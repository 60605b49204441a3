package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/imgscout/imgscout/color"
	"github.com/imgscout/imgscout/filesystem"
	"github.com/imgscout/imgscout/icon"
	"github.com/imgscout/imgscout/provider"
	"github.com/imgscout/imgscout/query"
	"github.com/imgscout/imgscout/source"
	"github.com/imgscout/imgscout/style"
	"github.com/imgscout/imgscout/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// searchOutput is what search prints with --json.
type searchOutput struct {
	Provider string        `json:"provider"`
	Query    string        `json:"query"`
	Size     string        `json:"size,omitempty"`
	Items    []source.Item `json:"items"`
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("provider", "p", "bing", "Provider to search with")
	lo.Must0(searchCmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return provider.IDs(), cobra.ShellCompDirectiveNoFileComp
	}))

	searchCmd.Flags().StringP("size", "s", "", "Size modifier ("+strings.Join(source.Sizes, ", ")+"), ignored by booru providers")
	lo.Must0(searchCmd.RegisterFlagCompletionFunc("size", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return source.Sizes, cobra.ShellCompDirectiveNoFileComp
	}))

	searchCmd.Flags().IntP("count", "n", 0, "Results per batch, defaults to session.batch_size")
	searchCmd.Flags().IntP("batches", "b", 1, "Number of batches to fetch")
	searchCmd.Flags().BoolP("all", "a", false, "Keep fetching batches until the provider runs dry")
	searchCmd.Flags().BoolP("resolve", "r", false, "Resolve view page results into direct image URLs")
	searchCmd.Flags().BoolP("json", "j", false, "Print results as JSON")
	searchCmd.Flags().StringP("output", "o", "", "Write the output to a file")
	searchCmd.MarkFlagsMutuallyExclusive("batches", "all")

	searchCmd.SetOut(os.Stdout)
}

var searchCmd = &cobra.Command{
	Use:     "search [query]",
	Short:   "Search for images",
	Example: "  imgscout search -p bing -s 4k northern lights\n  imgscout search -p booru -n 50 'cat_ears rating:safe'",
	Args:    cobra.MinimumNArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		var (
			providerID = lo.Must(cmd.Flags().GetString("provider"))
			count      = lo.Must(cmd.Flags().GetInt("count"))
			batches    = lo.Must(cmd.Flags().GetInt("batches"))
			all        = lo.Must(cmd.Flags().GetBool("all"))
			resolve    = lo.Must(cmd.Flags().GetBool("resolve"))
			asJson     = lo.Must(cmd.Flags().GetBool("json"))
			output     = lo.Must(cmd.Flags().GetString("output"))
			q          = source.Query{
				Text: strings.Join(args, " "),
				Size: lo.Must(cmd.Flags().GetString("size")),
			}
		)

		if strings.TrimSpace(q.Text) == "" {
			handleErr(errors.New("query is empty"))
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		manager := newManager()
		handle, err := manager.Create(providerID, q)
		handleErr(err)
		defer manager.Close(handle)

		var items []source.Item
		for i := 0; all || i < batches; i++ {
			erase := util.PrintErasable(fmt.Sprintf("%s Fetching batch %d...", icon.Get(icon.Search), i+1))
			batch, err := manager.NextBatch(ctx, handle, count)
			erase()
			handleErr(err)

			if len(batch) == 0 {
				break
			}
			items = append(items, batch...)
		}

		if resolve {
			for i, item := range items {
				items[i] = manager.Resolve(ctx, item)
			}
		}

		var writer io.Writer = cmd.OutOrStdout()
		if output != "" {
			file, err := filesystem.API().Create(output)
			handleErr(err)
			defer file.Close()
			writer = file
		}

		if asJson {
			encoder := json.NewEncoder(writer)
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(searchOutput{
				Provider: providerID,
				Query:    q.Text,
				Size:     q.Size,
				Items:    lo.Ternary(items == nil, []source.Item{}, items),
			}))
			return
		}

		printItems(writer, items)
	},
}

func printItems(w io.Writer, items []source.Item) {
	if len(items) == 0 {
		fmt.Fprintf(w, "%s %s\n", style.Fg(color.Yellow)(icon.Get(icon.Fail)), "no results")
		return
	}

	const titleWidth = 24
	width := util.TerminalWidth(120)
	urlWidth := util.Max(width-titleWidth-10, 20)

	title := style.Truncate(titleWidth)
	link := style.Truncate(urlWidth)

	for i, item := range items {
		marker := icon.Get(icon.Image)
		if item.NeedsResolution {
			marker = icon.Get(icon.Link)
		}

		fmt.Fprintf(w, "%s %s %s %s\n",
			style.Faint(fmt.Sprintf("%3d", i+1)),
			marker,
			style.Fg(color.Purple)(fmt.Sprintf("%-*s", titleWidth, title(item.Title))),
			link(item.ImageRef),
		)
	}

	unresolved := lo.CountBy(items, func(item source.Item) bool { return item.NeedsResolution })
	fmt.Fprintf(w, "\n%s %s\n",
		style.Fg(color.Green)(icon.Get(icon.Success)),
		util.Quantify(len(items), "result", "results"),
	)
	if unresolved > 0 {
		fmt.Fprintln(w, style.Faint(fmt.Sprintf("%s need resolution, rerun with --resolve or use \"imgscout resolve <url>\"", util.Quantify(unresolved, "result", "results"))))
	}
}
