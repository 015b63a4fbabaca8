package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoapp/internal/auth"
	"github.com/idilsaglam/todoapp/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the session token",
		Args:  exactArgs(0, "todoapp auth <login|logout|status|whoami>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: todoapp auth <login|logout|status|whoami>")
		},
	}
	cmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd(), newAuthWhoAmICmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with a username/password or by pasting a token",
		Args:  exactArgs(0, "todoapp auth login [--username U | --token T]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			token, _ := cmd.Flags().GetString("token")
			if token != "" {
				return saveToken(token)
			}
			if username == "" {
				return pasteToken()
			}
			e, err := loadEnv(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			if e.cfg.AuthURL == "" {
				return fmt.Errorf("auth_url is not configured")
			}
			password, err := auth.ReadPassword("Password: ")
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), e.cfg.Timeout())
			defer cancel()
			token, expires, err := auth.Login(ctx, nil, e.cfg.AuthURL, username, password)
			if err != nil {
				return err
			}
			if err := auth.SetToken(token, username, expires); err != nil {
				return fmt.Errorf("save token: %w", err)
			}
			ui.OK("logged in as " + username)
			return nil
		},
	}
	cmd.Flags().String("username", "", "log in against auth_url instead of pasting a token")
	cmd.Flags().String("token", "", "store this token without prompting")
	return cmd
}

func pasteToken() error {
	fmt.Print("Paste your token: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && strings.TrimSpace(line) == "" {
		return fmt.Errorf("read token: %w", err)
	}
	return saveToken(line)
}

func saveToken(token string) error {
	if strings.TrimSpace(token) == "" {
		return usagef("auth login: empty token")
	}
	if err := auth.SetToken(token, "", nil); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	ui.OK("logged in")
	return nil
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  exactArgs(0, "todoapp auth logout"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, _ := auth.GetToken()
			if ti != nil && ti.Source == "env" {
				ui.OK("token is provided by " + auth.EnvToken + " env var (nothing to delete)")
				return nil
			}
			if err := auth.DeleteToken(); err != nil {
				return fmt.Errorf("logout: %w", err)
			}
			ui.OK("logged out")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the token comes from and when it expires",
		Args:  exactArgs(0, "todoapp auth status"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.GetToken()
			if err != nil {
				return err
			}
			if ti == nil {
				fmt.Println(ui.Current().Muted.Render("not logged in"))
				fmt.Println("Run: todoapp auth login")
				return nil
			}
			fmt.Printf("source: %s\n", ti.Source)
			if ti.Username != "" {
				fmt.Printf("user: %s\n", ti.Username)
			}
			if ti.ExpiresAt != nil {
				state := ""
				if ti.Expired(time.Now()) {
					state = " " + ui.Current().Error.Render("(expired)")
				}
				fmt.Printf("expires: %s%s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), state)
			} else {
				fmt.Println("expires: (unknown)")
			}
			fmt.Println("env override: " + auth.EnvToken)
			return nil
		},
	}
}

// whoami decodes a JWT locally (unverified); opaque tokens print basic info.
func newAuthWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the token's claims",
		Args:  exactArgs(0, "todoapp auth whoami"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ti, err := auth.Require()
			if err != nil {
				return err
			}
			if payload, ok := auth.JWTPayload(ti.Token); ok {
				fmt.Println("JWT payload:")
				fmt.Println(payload)
				return nil
			}
			fmt.Println("Opaque token (cannot introspect locally).")
			if ti.Username != "" {
				fmt.Println("user:", ti.Username)
			}
			fmt.Println("source:", ti.Source)
			return nil
		},
	}
}
