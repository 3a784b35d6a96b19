/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/duedesk/apiserver/config"
	"github.com/spf13/cobra"
)

// subjectsCmd prints the subjects a fresh server starts with.
var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Print the configured subject list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()
		for _, subject := range cfg.DefaultSubjects {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), subject); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subjectsCmd)
}
