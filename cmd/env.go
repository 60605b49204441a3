package cmd

import (
	"os"

	"github.com/imgscout/imgscout/color"
	"github.com/imgscout/imgscout/config"
	"github.com/imgscout/imgscout/style"
	"github.com/imgscout/imgscout/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))

		secret := make(map[string]bool)
		envs := []string{where.EnvConfigPath}
		for _, field := range config.Default {
			envs = append(envs, field.Env())
			secret[field.Env()] = field.Secret
		}
		slices.Sort(envs)

		for _, env := range envs {
			value, present := os.LookupEnv(env)
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			cmd.Print(style.Bold(style.Fg(color.Purple)(env)))
			cmd.Print("=")

			switch {
			case !present:
				cmd.Println(style.Fg(color.Red)("unset"))
			case secret[env]:
				cmd.Println(style.Fg(color.Green)("********"))
			default:
				cmd.Println(style.Fg(color.Green)(value))
			}
		}
	},
}
