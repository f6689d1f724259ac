package main

import (
	"fmt"
	"strings"
	"time"

	"library-checkout/library"

	"github.com/spf13/cobra"
)

func newAddBookCmd(a *app) *cobra.Command {
	var isbn, title, author, published string
	cmd := &cobra.Command{
		Use:   "add-book",
		Short: "Add a book to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := library.NewBookInput{ISBN: isbn, Title: title, Author: author, PublishedOn: published}
			if err := library.ValidateInput(in); err != nil {
				return err
			}
			publishedOn := time.Now()
			if published != "" {
				var err error
				publishedOn, err = time.Parse("2006-01-02", published)
				if err != nil {
					return fmt.Errorf("parse published date: %w", err)
				}
			}
			book := &library.Book{
				ISBN:        isbn,
				Title:       title,
				Author:      author,
				PublishedOn: publishedOn,
			}
			if err := a.lib.AddBook(book); err != nil {
				return err
			}
			fmt.Printf("Added book %q (%s)\n", title, isbn)
			return nil
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "book ISBN")
	cmd.Flags().StringVar(&title, "title", "", "book title")
	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().StringVar(&published, "published", "", "publication date (YYYY-MM-DD)")
	return cmd
}

func newAddMemberCmd(a *app) *cobra.Command {
	var name, email, tier string
	cmd := &cobra.Command{
		Use:   "add-member",
		Short: "Register a library member",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(fmt.Sprintf("Password for %s: ", email))
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			in := library.NewMemberInput{Name: name, Email: email, Tier: tier, Password: password}
			if err := library.ValidateInput(in); err != nil {
				return err
			}
			memberTier, err := library.ParseTier(tier)
			if err != nil {
				return err
			}
			member, err := a.lib.RegisterMember(name, email, memberTier, password)
			if err != nil {
				return err
			}
			fmt.Printf("Registered %s (%s) as %s member\n", member.Name, member.Email, member.Tier)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "member name")
	cmd.Flags().StringVar(&email, "email", "", "member email")
	cmd.Flags().StringVar(&tier, "tier", "regular", "membership tier (regular, premium, student)")
	return cmd
}

func newListBooksCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-books",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.lib.ListBooks()
			if err != nil {
				return err
			}
			printBooks(books)
			return nil
		},
	}
}

func newListMembersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list-members",
		Short: "List registered members",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := a.lib.ListMembers()
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Println("No members registered.")
				return nil
			}
			fmt.Printf("%-30s %-25s %-10s %s\n", "Email", "Name", "Tier", "Checked Out")
			fmt.Println(strings.Repeat("-", 80))
			for _, m := range members {
				fmt.Printf("%-30s %-25s %-10s %d\n",
					truncateString(m.Email, 30), truncateString(m.Name, 25), m.Tier, m.BooksCheckedOut)
			}
			return nil
		},
	}
}

func newCheckoutCmd(a *app) *cobra.Command {
	var isbn, email string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Check a book out to a member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authenticateMember(a, email); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			outcome, err := a.lib.Checkout(isbn, email)
			if err != nil {
				return err
			}
			fmt.Println(outcome.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "book ISBN")
	cmd.Flags().StringVar(&email, "email", "", "member email")
	return cmd
}

func newReturnCmd(a *app) *cobra.Command {
	var isbn string
	cmd := &cobra.Command{
		Use:   "return",
		Short: "Return a checked-out book",
		RunE: func(cmd *cobra.Command, args []string) error {
			// The borrower authenticates the return.
			book, err := a.lib.SearchByISBN(isbn)
			if err != nil {
				return err
			}
			if book != nil && !book.Available() && book.BorrowedBy != nil {
				if err := authenticateMember(a, *book.BorrowedBy); err != nil {
					return fmt.Errorf("authentication failed: %w", err)
				}
			}
			outcome, err := a.lib.Return(isbn)
			if err != nil {
				return err
			}
			fmt.Println(outcome.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "book ISBN")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search <title|author|isbn> <query>",
		Short: "Search the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.lib.SearchBy(args[0], args[1])
			if err != nil {
				return err
			}
			if len(books) == 0 {
				fmt.Printf("No books found matching %q.\n", args[1])
				return nil
			}
			fmt.Printf("Found %d book(s) matching %q:\n", len(books), args[1])
			printBooks(books)
			return nil
		},
	}
}

func newReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "report <overdue|available|members>",
		Short: "Generate a circulation report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.lib.GenerateReport(args[0])
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func newHoldCmd(a *app) *cobra.Command {
	var isbn, email string
	cmd := &cobra.Command{
		Use:   "hold",
		Short: "Place a hold on a checked-out book",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authenticateMember(a, email); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			outcome, err := a.lib.PlaceHold(isbn, email)
			if err != nil {
				return err
			}
			fmt.Println(outcome.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "book ISBN")
	cmd.Flags().StringVar(&email, "email", "", "member email")
	return cmd
}

func newCancelHoldCmd(a *app) *cobra.Command {
	var isbn, email string
	cmd := &cobra.Command{
		Use:   "cancel-hold",
		Short: "Cancel an active hold",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := authenticateMember(a, email); err != nil {
				return fmt.Errorf("authentication failed: %w", err)
			}
			if err := a.lib.CancelHold(isbn, email); err != nil {
				return err
			}
			fmt.Printf("Hold cancelled for %s on %s\n", email, isbn)
			return nil
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "book ISBN")
	cmd.Flags().StringVar(&email, "email", "", "member email")
	return cmd
}

func newHoldsCmd(a *app) *cobra.Command {
	var isbn string
	cmd := &cobra.Command{
		Use:   "holds",
		Short: "List active holds for a book",
		RunE: func(cmd *cobra.Command, args []string) error {
			holds, err := a.lib.ListHolds(isbn)
			if err != nil {
				return err
			}
			if len(holds) == 0 {
				fmt.Println("No active holds for this book.")
				return nil
			}
			fmt.Printf("%-10s %-30s %s\n", "Position", "Member", "Placed")
			fmt.Println(strings.Repeat("-", 60))
			for i, h := range holds {
				fmt.Printf("%-10d %-30s %s\n", i+1, truncateString(h.MemberEmail, 30),
					h.PlacedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&isbn, "isbn", "", "book ISBN")
	return cmd
}

func newResetPasswordCmd(a *app) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a member's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(fmt.Sprintf("New password for %s: ", email))
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}
			if err := a.lib.ResetPassword(email, password); err != nil {
				return err
			}
			fmt.Printf("Password reset for %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "member email")
	return cmd
}

func printBooks(books []*library.Book) {
	if len(books) == 0 {
		fmt.Println("No books in library.")
		return
	}
	fmt.Printf("%-15s %-35s %-25s %-12s %-12s %s\n", "ISBN", "Title", "Author", "Status", "Due", "Borrower")
	fmt.Println(strings.Repeat("-", 125))
	for _, b := range books {
		due, borrower := "", ""
		if b.DueDate != nil {
			due = b.DueDate.Format("2006-01-02")
		}
		if b.BorrowedBy != nil {
			borrower = *b.BorrowedBy
		}
		fmt.Printf("%-15s %-35s %-25s %-12s %-12s %s\n",
			b.ISBN,
			truncateString(b.Title, 35),
			truncateString(b.Author, 25),
			b.Status,
			due,
			truncateString(borrower, 30))
	}
}
