package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"autosheetify/internal/auth"
	"autosheetify/internal/preflight"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the saved session token",
	}
	authCmd.AddCommand(newAuthLoginCommand(ctx))
	authCmd.AddCommand(newAuthLogoutCommand(ctx))
	authCmd.AddCommand(newAuthStatusCommand(ctx))
	return authCmd
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newAuthLoginCommand(ctx *commandContext) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save a bearer token issued by the AutoSheetify web app",
		Long: `Save a bearer token to the session file. The token is the one the web app
keeps after signing in; it is sent as "Authorization: Bearer <token>".
Without --token you are prompted for it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token := ctx.flagToken()
			if token == "" {
				if !stdinIsTerminal() {
					return errors.New("no token given; pass --token when not running interactively")
				}
				prompt := &survey.Password{Message: "Bearer token:"}
				if err := survey.AskOne(prompt, &token, survey.WithValidator(survey.Required)); err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				if email == "" {
					_ = survey.AskOne(&survey.Input{Message: "Account email (optional):"}, &email)
				}
			}
			token = strings.TrimSpace(token)

			session := auth.NewTokenSession(token).Session()
			if !session.Valid {
				return errors.New("token is expired; sign in to the web app again and copy a fresh token")
			}

			store := ctx.sessionStore()
			if err := store.Save(auth.Record{Token: token, Email: strings.TrimSpace(email)}); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Saved session to %s\n", store.Path())
			if exp, ok := auth.ExpiresAt(token); ok {
				fmt.Fprintf(out, "Token expires %s (%s)\n", exp.Local().Format(time.DateTime), humanize.Time(exp))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email to remember alongside the token")
	return cmd
}

func newAuthLogoutCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.sessionStore()
			if err := store.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session %s\n", store.Path())
			return nil
		},
	}
}

func newAuthStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which token would be used and whether it is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			result := preflight.CheckSession(ctx.sessionProvider())
			fmt.Fprintln(out, renderCheck(result, colorize))
			fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Source:", ctx.sessionSource())

			if ctx.flagToken() == "" && strings.TrimSpace(ctx.configValue().Auth.Token) == "" {
				record, err := ctx.sessionStore().Load()
				if err != nil {
					return err
				}
				if record.Email != "" {
					fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Email:", record.Email)
				}
				if !record.SavedAt.IsZero() {
					fmt.Fprintf(out, "%s%-*s %s\n", statusIndent, statusLabelWidth, "Saved:", humanize.Time(record.SavedAt))
				}
			}
			return nil
		},
	}
}
