package main

import (
	"fmt"

	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/seed"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Validate or load a books.yaml catalogue",
}

var seedValidateCmd = &cobra.Command{
	Use:   "validate [books.yaml]",
	Short: "Check a catalogue file without touching the store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedPath(args)
		loader := seed.NewLoader()
		if err := loader.Load(path); err != nil {
			return fmt.Errorf("validation failed for %s: %w", path, err)
		}

		out := cmd.OutOrStdout()
		entries := loader.List()
		fmt.Fprintf(out, "%s is valid, %d book(s)\n", path, len(entries))
		for i, e := range entries {
			fmt.Fprintf(out, "%d. %s by %s (%s)\n", i+1, e.Name, e.Author, e.Status)
		}
		return nil
	},
}

var seedApplyCmd = &cobra.Command{
	Use:   "apply [books.yaml]",
	Short: "Insert a catalogue file into the configured store",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := seed.NewLoader()
		if err := loader.Load(seedPath(args)); err != nil {
			return err
		}
		return withService(cmd, func(s *book.Service) error {
			created, err := loader.Apply(cmd.Context(), s)
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), created)
			return nil
		})
	},
}

func seedPath(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return "books.yaml"
}

func init() {
	seedCmd.AddCommand(seedValidateCmd, seedApplyCmd)
	rootCmd.AddCommand(seedCmd)
}
