package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"library-checkout/library"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type app struct {
	cfg   library.Config
	log   *slog.Logger
	store *library.SQLiteStore
	lib   *library.Library
}

func main() {
	a := &app{}
	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "library",
		Short:         "Library checkout service",
		Long:          "Check books in and out, search the catalog, and run circulation reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := library.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: cfg.SlogLevel(),
			}))

			store, err := library.NewSQLiteStore(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			a.store = store
			a.lib = library.NewLibrary(store,
				library.NewConsoleNotifier(os.Stdout, a.log),
				library.WithLogger(a.log))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store != nil {
				return a.store.Close()
			}
			return nil
		},
	}

	root.AddCommand(
		newAddBookCmd(a),
		newAddMemberCmd(a),
		newListBooksCmd(a),
		newListMembersCmd(a),
		newCheckoutCmd(a),
		newReturnCmd(a),
		newSearchCmd(a),
		newReportCmd(a),
		newHoldCmd(a),
		newCancelHoldCmd(a),
		newHoldsCmd(a),
		newResetPasswordCmd(a),
	)
	return root
}

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

// authenticateMember prompts for and verifies the member's password.
func authenticateMember(a *app, email string) error {
	password, err := readPassword(fmt.Sprintf("Password for %s: ", email))
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	return a.lib.Authenticate(email, password)
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return s[:maxLength]
	}
	return s[:maxLength-3] + "..."
}
