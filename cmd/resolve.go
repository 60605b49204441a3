package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/imgscout/imgscout/open"
	"github.com/imgscout/imgscout/source"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolP("open", "O", false, "Open the image in the default browser")
	resolveCmd.SetOut(os.Stdout)
}

var resolveCmd = &cobra.Command{
	Use:   "resolve [view url]",
	Short: "Resolve a booru view page into its direct image URL",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		item := source.Item{
			ImageRef:        args[0],
			OriginURL:       args[0],
			SourceName:      source.TagBooruHTML,
			NeedsResolution: true,
		}

		resolved := newManager().Resolve(context.Background(), item)
		if resolved.NeedsResolution {
			handleErr(errors.New("could not resolve " + args[0]))
		}

		cmd.Println(resolved.ImageRef)

		if lo.Must(cmd.Flags().GetBool("open")) {
			handleErr(open.URL(resolved.ImageRef))
		}
	},
}
