package cli

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoapp/internal/devserver"
)

const (
	FlagAddr   = "addr"
	FlagDB     = "db"
	FlagUser   = "user"
	FlagNoAuth = "no-auth"
	FlagAPIKey = "api-key"
)

func newDevServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Run a local stand-in for the Todo API and its login endpoint",
		Args:  exactArgs(0, "todoapp devserver [--addr :8080] [--db todos.db] [--user name:password]..."),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString(FlagAddr)
			dbPath, _ := cmd.Flags().GetString(FlagDB)
			users, _ := cmd.Flags().GetStringArray(FlagUser)
			noAuth, _ := cmd.Flags().GetBool(FlagNoAuth)
			apiKey, _ := cmd.Flags().GetString(FlagAPIKey)

			store, err := devserver.OpenStore(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			for _, u := range users {
				name, pass, ok := strings.Cut(u, ":")
				if !ok {
					return usagef("--%s wants name:password, got %q", FlagUser, u)
				}
				if err := store.AddUser(name, pass); err != nil {
					return err
				}
			}

			logger := log.New(os.Stderr, "devserver ", log.LstdFlags)
			srv := devserver.NewServer(store, devserver.Options{NoAuth: noAuth, APIKey: apiKey, Logger: logger})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Printf("listening on %s (graphql at /graphql, login at /auth/login)", addr)
			if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			logger.Printf("stopped")
			return nil
		},
	}
	cmd.Flags().String(FlagAddr, ":8080", "listen address")
	cmd.Flags().String(FlagDB, "todos.db", "sqlite database file (:memory: for a throwaway one)")
	cmd.Flags().StringArray(FlagUser, nil, "user to create, as name:password (repeatable)")
	cmd.Flags().Bool(FlagNoAuth, false, "accept requests without credentials")
	cmd.Flags().String(FlagAPIKey, "", "accept this key in the x-api-key header")
	return cmd
}
