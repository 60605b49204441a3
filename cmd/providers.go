package cmd

import (
	"os"

	"github.com/imgscout/imgscout/color"
	"github.com/imgscout/imgscout/provider"
	"github.com/imgscout/imgscout/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(providersCmd)
	providersCmd.Flags().BoolP("raw", "r", false, "Print only provider ids")
	providersCmd.SetOut(os.Stdout)
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the available providers",
	Run: func(cmd *cobra.Command, args []string) {
		raw := lo.Must(cmd.Flags().GetBool("raw"))

		for _, p := range provider.Builtins() {
			if raw {
				cmd.Println(p.ID)
				continue
			}

			tag := style.Tag(color.New("230"), color.Blue)(p.ID)
			if p.Tagged {
				tag += " " + style.Faint("tags")
			}
			cmd.Printf("%s %s\n", tag, style.Bold(p.Name.String()))
			cmd.Println("  " + style.Faint(p.Description))
		}
	},
}
