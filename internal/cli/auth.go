package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fixmycity/internal/model"
)

func (a *App) registerCommand() *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Example: `  fixmycity register --first-name Ada --last-name Banda \
    --email ada@example.com --password secret1 --phone 0977000000 --nrc 123456/78/1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.sessions.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.done("Registered and signed in as %s", session.User.FullName())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.FirstName, "first-name", "", "first name")
	f.StringVar(&req.LastName, "last-name", "", "last name")
	f.StringVar(&req.Email, "email", "", "email address")
	f.StringVar(&req.Password, "password", "", "password")
	f.StringVar(&req.Phone, "phone", "", "phone number")
	f.StringVar(&req.NRC, "nrc", "", "national registration card number")
	for _, name := range []string{"first-name", "last-name", "email", "password", "phone", "nrc"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func (a *App) loginCommand() *cobra.Command {
	var req model.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.sessions.Login(cmd.Context(), req)
			if err != nil {
				return err
			}
			a.done("Signed in as %s", session.User.FullName())
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (a *App) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a.sessions.LogOut(cmd.Context())
			a.done("Signed out")
			return nil
		},
	}
}

func (a *App) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.requireSession()
			if err != nil {
				return err
			}

			if a.jsonOutput {
				a.printJSON(session.User)
				return nil
			}

			u := session.User
			fmt.Fprintf(a.out, "%s <%s>\n", u.FullName(), u.Email)
			if u.CreatedAt != nil {
				fmt.Fprintf(a.out, "Member since %s\n", model.MemberSince(*u.CreatedAt))
			}
			if exp, ok := session.ExpiresAt(); ok {
				fmt.Fprintf(a.out, "Session expires %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}
