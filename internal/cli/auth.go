package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/product_inventory/internal/models"
	"github.com/Skotchmaster/product_inventory/internal/session"
)

const loggedOutNav = "Login | Register"

func newLoginCmd(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p := newPrompter(a.in, a.out)
			email = p.ask("Email", email)
			password = p.ask("Password", password)

			st, next, err := a.sess.Login(ctx, email, password)
			if err != nil {
				return errors.New(session.FailureMessage("Login", err))
			}
			a.log.Debug("navigate", "to", string(next))
			fmt.Fprintf(a.out, "Logged in as %s\n", navText(st.User))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(a.in, a.out)
			username = p.ask("Username", username)
			email = p.ask("Email", email)
			password = p.ask("Password", password)

			next, err := a.sess.Register(cmd.Context(), username, email, password)
			if err != nil {
				return errors.New(session.FailureMessage("Registration", err))
			}
			a.log.Debug("navigate", "to", string(next))
			fmt.Fprintln(a.out, "Registration successful. Run 'inventory login' to continue.")
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			next, err := a.sess.Logout(cmd.Context())
			if err != nil {
				return err
			}
			a.log.Debug("navigate", "to", string(next))
			fmt.Fprintln(a.out, "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show what the navigation bar shows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st := a.resolve(cmd.Context())
			fmt.Fprintln(a.out, navText(st.User))
			return nil
		},
	}
}

func navText(u *models.User) string {
	if u == nil {
		return loggedOutNav
	}
	return u.DisplayName()
}

// prompter reads values not given as flags, one line each.
type prompter struct {
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{r: bufio.NewReader(in), out: out}
}

func (p *prompter) ask(label, current string) string {
	if current != "" {
		return current
	}
	fmt.Fprintf(p.out, "%s: ", label)
	line, _ := p.r.ReadString('\n')
	return strings.TrimSpace(line)
}
