package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"vibecap/internal/model/caption"
)

var vibesJSON bool

var vibesCmd = &cobra.Command{
	Use:   "vibes",
	Short: "List the available vibes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if vibesJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(caption.Catalog())
		}
		for _, info := range caption.Catalog() {
			marker := " "
			if info.ID == caption.DefaultVibe {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %-12s %s %s\n", marker, info.ID, info.Emoji, info.Name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vibesCmd)
	vibesCmd.Flags().BoolVar(&vibesJSON, "json", false, "print as JSON")
}
