package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/imgscout/imgscout/auth"
	"github.com/imgscout/imgscout/color"
	"github.com/imgscout/imgscout/icon"
	"github.com/imgscout/imgscout/style"
	"github.com/imgscout/imgscout/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage booru API credentials in the system keyring",
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("user-id", "u", "", "Booru account id")
	authSetCmd.Flags().Bool("api-key-stdin", false, "Read the API key from stdin")
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store booru credentials",
	Long: `Store booru credentials in the system keyring.

The API key is never taken as a flag so it does not end up in shell history.
It is prompted for, or read from stdin with --api-key-stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		userID := lo.Must(cmd.Flags().GetString("user-id"))
		if userID == "" {
			handleErr(errors.New("--user-id is required"))
		}

		apiKey, err := readAPIKey(lo.Must(cmd.Flags().GetBool("api-key-stdin")))
		handleErr(err)

		handleErr(auth.SetCredentials(auth.Credentials{APIKey: apiKey, UserID: userID}))
		fmt.Printf("%s stored credentials for user %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(userID),
		)
	},
}

func readAPIKey(fromStdin bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if fromStdin || !term.IsTerminal(fd) {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read api key: %w", err)
		}
		return strings.TrimSpace(line), nil
	}

	fmt.Print(icon.Get(icon.Key) + " API key: ")
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read api key: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func init() {
	authCmd.AddCommand(authGetCmd)
	authGetCmd.SetOut(os.Stdout)
}

var authGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show which booru credentials are in use, masked",
	Run: func(cmd *cobra.Command, args []string) {
		creds, ok := auth.Booru().Get()
		if !ok {
			cmd.Println(style.Fg(color.Yellow)("no credentials configured"))
			return
		}

		cmd.Printf("%s %s\n", style.Faint("user id"), style.Bold(creds.UserID))
		cmd.Printf("%s %s\n", style.Faint("api key"), util.Mask(creds.APIKey))
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Remove booru credentials from the keyring",
	Aliases: []string{"remove"},
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteCredentials())
		fmt.Printf("%s deleted credentials\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}
