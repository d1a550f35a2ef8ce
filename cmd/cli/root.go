package main

import (
	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/config"
	"github.com/marcelsud/book-lending/internal/store"
	"github.com/spf13/cobra"
)

var driverFlag string

var rootCmd = &cobra.Command{
	Use:   "books",
	Short: "Manage the lending catalogue from the command line",
	Long: `books talks to the same store as the API, selected by STORE_DRIVER
(or --driver) and the rest of the .env / environment configuration.

Examples:
  books list
  books create --name "Dune" --author "Frank Herbert"
  books borrow 3f1c2a9e-...
  books --driver sqlite stats`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Store driver (memory, sqlite, postgres, redis)")
}

// withService opens the configured store, hands a service to fn and closes the store
func withService(cmd *cobra.Command, fn func(s *book.Service) error) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}
	if driverFlag != "" {
		cfg.StoreDriver = driverFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	repo, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	return fn(book.NewService(repo))
}
