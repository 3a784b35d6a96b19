/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "duedesk",
	Short: "Multi-user assignment tracker",
	Long: `duedesk tracks assignments for many users behind a small JSON API.

	duedesk server     start the API
	duedesk watch      follow your assignments from a terminal
	duedesk events     print published domain events
	duedesk subjects   print the configured subject list
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
