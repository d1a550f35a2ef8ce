package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/marcelsud/book-lending/book"
	"github.com/marcelsud/book-lending/metrics"
	"github.com/spf13/cobra"
)

var (
	createName   string
	createAuthor string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every book",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(s *book.Service) error {
			all, err := s.List(cmd.Context())
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), all)
			return nil
		})
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Add a book as Available",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(s *book.Service) error {
			b, err := s.Create(cmd.Context(), createName, createAuthor)
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), []book.Book{b})
			return nil
		})
	},
}

var borrowCmd = &cobra.Command{
	Use:   "borrow <id>",
	Short: "Mark a book as Borrowed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(s *book.Service) error {
			b, err := s.MarkBorrowed(cmd.Context(), args[0])
			if errors.Is(err, book.ErrNotFound) {
				return fmt.Errorf("no book with id %s", args[0])
			}
			if err != nil {
				return err
			}
			printBooks(cmd.OutOrStdout(), []book.Book{b})
			return nil
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(s *book.Service) error {
			err := s.Delete(cmd.Context(), args[0])
			if errors.Is(err, book.ErrNotFound) {
				return fmt.Errorf("no book with id %s", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		})
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count books by status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(s *book.Service) error {
			m, err := metrics.NewBookCollector(s.Repo).Collect(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Available: %d\n", m.StatusCounts[book.Available.String()])
			fmt.Fprintf(out, "Borrowed:  %d\n", m.StatusCounts[book.Borrowed.String()])
			fmt.Fprintf(out, "Total:     %d\n", m.Total)
			return nil
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&createName, "name", "", "Book name")
	createCmd.Flags().StringVar(&createAuthor, "author", "", "Book author")
	_ = createCmd.MarkFlagRequired("name")
	_ = createCmd.MarkFlagRequired("author")

	rootCmd.AddCommand(listCmd, createCmd, borrowCmd, deleteCmd, statsCmd)
}

func printBooks(w io.Writer, books []book.Book) {
	if len(books) == 0 {
		fmt.Fprintln(w, "(no books)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAUTHOR\tSTATUS")
	for _, b := range books {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Author, b.Status)
	}
	tw.Flush()
}
