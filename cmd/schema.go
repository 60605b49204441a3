package cmd

import (
	"encoding/json"
	"os"

	"github.com/imgscout/imgscout/source"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolP("item", "i", false, "Schema of a single result item instead of the search output")
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of search --json output",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true

		var schema *jsonschema.Schema
		if lo.Must(cmd.Flags().GetBool("item")) {
			schema = reflector.Reflect(&source.Item{})
		} else {
			schema = reflector.Reflect(&searchOutput{})
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		handleErr(encoder.Encode(schema))
	},
}
