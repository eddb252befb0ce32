package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"library-circulation/library"
)

const defaultDBFile = "library.db"

func main() {
	// .env is optional; environment variables win either way.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func dbPath() string {
	if p := os.Getenv("LIBRARY_DB"); p != "" {
		return p
	}
	return defaultDBFile
}

// withService opens the database for the duration of one command.
func withService(fn func(svc *library.Service) error) error {
	db, err := library.NewDatabase(dbPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()
	return fn(library.NewService(db))
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Library circulation: catalog, borrowing, late fees and payments",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAddBookCmd(),
		newListBooksCmd(),
		newSearchCmd(),
		newBorrowCmd(),
		newReturnCmd(),
		newFeeCmd(),
		newStatusCmd(),
		newPayCmd(),
		newRefundCmd(),
	)
	return root
}

func newAddBookCmd() *cobra.Command {
	var (
		title  string
		author string
		isbn   string
		copies int
	)
	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a title to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *library.Service) error {
				msg, err := svc.AddBookToCatalog(title, author, isbn, copies)
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().StringVar(&isbn, "isbn", "", "13-digit ISBN")
	cmd.Flags().IntVar(&copies, "copies", 1, "number of copies")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("author")
	cmd.MarkFlagRequired("isbn")
	return cmd
}

func newListBooksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List the whole catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *library.Service) error {
				books, err := svc.ListBooks()
				if err != nil {
					return err
				}
				printBooks(books)
				return nil
			})
		},
	}
}

func newSearchCmd() *cobra.Command {
	var searchType string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by title, author or isbn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *library.Service) error {
				books, err := svc.SearchCatalog(args[0], searchType)
				if err != nil {
					return err
				}
				if len(books) == 0 {
					fmt.Printf("No books found matching '%s'.\n", args[0])
					return nil
				}
				printBooks(books)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&searchType, "by", "title", "search field: title, author or isbn")
	return cmd
}

func newBorrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <patron-id> <book-id>",
		Short: "Borrow a book for 14 days",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			return withService(func(svc *library.Service) error {
				msg, err := svc.BorrowBook(args[0], bookID)
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}

func newReturnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <patron-id> <book-id>",
		Short: "Return a borrowed book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			return withService(func(svc *library.Service) error {
				msg, err := svc.ReturnBook(args[0], bookID)
				if err != nil {
					return err
				}
				fmt.Println(msg)
				return nil
			})
		},
	}
}

func newFeeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fee <patron-id> <book-id>",
		Short: "Show the late fee currently owed on a borrowed book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			return withService(func(svc *library.Service) error {
				assessment := svc.CalculateLateFee(args[0], bookID)
				if assessment.Status != library.StatusSuccess {
					return fmt.Errorf("%s", assessment.Message)
				}
				fmt.Printf("%s Fee: $%s\n", assessment.Message, assessment.FeeAmount.StringFixed(2))
				return nil
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <patron-id>",
		Short: "Show a patron's loans, fees and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(func(svc *library.Service) error {
				report, err := svc.PatronStatus(args[0])
				if err != nil {
					return err
				}
				printStatus(report)
				return nil
			})
		},
	}
}

func newPayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <patron-id> <book-id>",
		Short: "Pay the late fee owed on a borrowed book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bookID, err := parseBookID(args[1])
			if err != nil {
				return err
			}
			return withService(func(svc *library.Service) error {
				result := svc.PayLateFees(args[0], bookID, library.NewSimulatedGateway())
				if !result.OK {
					return fmt.Errorf("%s", result.Message)
				}
				fmt.Println(result.Message)
				fmt.Printf("Transaction: %s\n", result.TransactionID)
				return nil
			})
		},
	}
}

func newRefundCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refund <transaction-id> <amount>",
		Short: "Refund a late-fee payment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount: %s", args[1])
			}
			return withService(func(svc *library.Service) error {
				result := svc.RefundLateFeePayment(args[0], amount, library.NewSimulatedGateway())
				if !result.OK {
					return fmt.Errorf("%s", result.Message)
				}
				fmt.Println(result.Message)
				return nil
			})
		},
	}
}

func parseBookID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid book ID: %s", s)
	}
	return id, nil
}

func printBooks(books []*library.Book) {
	if len(books) == 0 {
		fmt.Println("No books in library.")
		return
	}
	fmt.Printf("%-5s %-40s %-25s %-15s %s\n", "ID", "Title", "Author", "ISBN", "Available")
	fmt.Println(strings.Repeat("-", 100))
	for _, b := range books {
		fmt.Printf("%-5d %-40s %-25s %-15s %d/%d\n",
			b.ID, truncateString(b.Title, 40), truncateString(b.Author, 25), b.ISBN,
			b.AvailableCopies, b.TotalCopies)
	}
}

func printStatus(report *library.StatusReport) {
	fmt.Printf("Patron %s: %d book(s) currently borrowed, $%s in late fees\n",
		report.PatronID, report.NumBooksBorrowed, report.TotalLateFees.StringFixed(2))

	if len(report.BorrowedBooks) > 0 {
		fmt.Println("\nCurrently borrowed:")
		fmt.Printf("%-5s %-40s %-25s %s\n", "ID", "Title", "Author", "Due")
		fmt.Println(strings.Repeat("-", 90))
		for _, rec := range report.BorrowedBooks {
			fmt.Printf("%-5d %-40s %-25s %s\n",
				rec.BookID, truncateString(rec.Title, 40), truncateString(rec.Author, 25),
				rec.DueDate.Format("2006-01-02"))
		}
	}

	if len(report.History) > 0 {
		fmt.Println("\nHistory:")
		fmt.Printf("%-5s %-40s %-12s %s\n", "ID", "Title", "Borrowed", "Returned")
		fmt.Println(strings.Repeat("-", 80))
		for _, rec := range report.History {
			returned := ""
			if rec.ReturnDate != nil {
				returned = rec.ReturnDate.Format("2006-01-02")
			}
			fmt.Printf("%-5d %-40s %-12s %s\n",
				rec.BookID, truncateString(rec.Title, 40),
				rec.BorrowDate.Format("2006-01-02"), returned)
		}
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
