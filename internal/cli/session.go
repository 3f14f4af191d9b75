package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tgienger/crm/internal/models"
	"github.com/tgienger/crm/internal/session"
)

// NewLoginCommand creates the login command. Any credentials sign in the
// demo user.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the local workspace",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.session.Login(session.DemoUser); err != nil {
				return WrapExitError(ExitFailure, "login", err)
			}
			return newFormatter(rootOpts, cmd).Success(session.DemoUser, func(w io.Writer) error {
				return writeUser(w, session.DemoUser)
			})
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email (not checked)")
	cmd.Flags().StringVar(&password, "password", "", "password (not checked)")
	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			if err := e.session.Logout(); err != nil {
				return WrapExitError(ExitFailure, "logout", err)
			}
			return newFormatter(rootOpts, cmd).Success(map[string]bool{"authenticated": false}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, "Signed out")
				return err
			})
		},
	}
}

// NewWhoamiCommand creates the whoami command.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			user, ok := e.session.Current()
			if !ok {
				return NewExitError(ExitFailure, "not signed in (run crm login)")
			}
			return newFormatter(rootOpts, cmd).Success(user, func(w io.Writer) error {
				return writeUser(w, user)
			})
		},
	}
}

func writeUser(w io.Writer, u models.User) error {
	_, err := fmt.Fprintf(w, "%s <%s>, %s\n", u.Name, u.Email, u.Role)
	return err
}
