package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "List catalog roles and their required skills",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := loadCatalog(cmd.Context())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			type role struct {
				Name   string   `json:"name"`
				Skills []string `json:"skills"`
			}
			out := make([]role, 0, cat.Len())
			for _, r := range cat.Roles() {
				out = append(out, role{Name: r.Name, Skills: r.Skills.Items()})
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		for _, r := range cat.Roles() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d): %s\n", r.Name, r.Skills.Len(), strings.Join(r.Skills.Items(), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rolesCmd.Flags().Bool("json", false, "print roles as JSON")
}
