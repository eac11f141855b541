package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shandysiswandi/resetmail/internal/app"
	"github.com/shandysiswandi/resetmail/internal/notification/usecase"
	"github.com/spf13/cobra"
)

// @title           resetmail API
// @version         1.0
// @description     resetmail sends localized administrator password reset emails.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "resetmail",
		Short:        "Administrator password reset email service",
		SilenceUsage: true,
		RunE: func(*cobra.Command, []string) error {
			serve(configPath)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or ./config/config.yaml)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API, broker consumers and spool flusher",
			RunE: func(*cobra.Command, []string) error {
				serve(configPath)
				return nil
			},
		},
		newSpoolCommand(&configPath),
		newEmailCommand(&configPath),
		newTokenCommand(&configPath),
	)

	return root
}

func serve(configPath string) {
	application := app.New(app.Options{ConfigPath: configPath}) // Initialize the application
	wait := application.Start()                                 // Start the application and wait for the termination signal
	<-wait                                                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}

// runCommand builds the command-mode application, runs fn and releases
// every resource afterwards.
func runCommand(cmd *cobra.Command, configPath string, fn func(ctx context.Context, a *app.App) error) error {
	a := app.New(app.Options{ConfigPath: configPath, Command: true})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.Stop(ctx)
	}()

	return fn(cmd.Context(), a)
}

func newSpoolCommand(configPath *string) *cobra.Command {
	spool := &cobra.Command{
		Use:   "spool",
		Short: "Inspect and deliver the mail spool",
	}

	var in usecase.FlushSpoolInput
	send := &cobra.Command{
		Use:   "send",
		Short: "Deliver spooled messages through mail.spool.transport once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				out, err := a.Notification().FlushSpool(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sent=%d failed=%d recovered=%d\n", out.Sent, out.Failed, out.Recovered)
				if out.Failed > 0 {
					return fmt.Errorf("%d message(s) could not be delivered", out.Failed)
				}
				return nil
			})
		},
	}
	send.Flags().IntVar(&in.MessageLimit, "message-limit", 0, "stop after this many messages (0 uses mail.spool.message_limit)")
	send.Flags().DurationVar(&in.TimeLimit, "time-limit", 0, "stop after this long (0 uses mail.spool.time_limit_seconds)")
	send.Flags().DurationVar(&in.RecoverTimeout, "recover-timeout", 0, "requeue messages stuck in sending for longer than this")

	count := &cobra.Command{
		Use:   "count",
		Short: "Print the number of spooled messages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				n, err := a.Notification().CountSpool(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every spooled message without sending it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				return a.Notification().ClearSpool(ctx)
			})
		},
	}

	spool.AddCommand(send, count, clearCmd)
	return spool
}

func newEmailCommand(configPath *string) *cobra.Command {
	email := &cobra.Command{
		Use:   "email",
		Short: "Send emails directly through the configured transport",
	}

	var in usecase.SendAdminPasswordResetInput
	reset := &cobra.Command{
		Use:   "admin-password-reset",
		Short: "Send the administrator password reset email",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, *configPath, func(ctx context.Context, a *app.App) error {
				if err := a.Notification().SendAdminPasswordReset(ctx, in); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "password reset email handed to transport for %s\n", in.Email)
				return nil
			})
		},
	}
	reset.Flags().StringVar(&in.Email, "email", "", "recipient address")
	reset.Flags().StringVar(&in.Token, "token", "", "password reset token embedded in the link")
	reset.Flags().StringVar(&in.Locale, "locale", "", "locale code such as fr_FR (defaults to the user or configured locale)")
	reset.Flags().StringVar(&in.Username, "username", "", "administrator username")
	reset.Flags().StringVar(&in.FirstName, "first-name", "", "administrator first name")
	reset.Flags().StringVar(&in.LastName, "last-name", "", "administrator last name")
	_ = reset.MarkFlagRequired("email")
	_ = reset.MarkFlagRequired("token")

	email.AddCommand(reset)
	return email
}

var errJWTNotConfigured = errors.New("jwt.secret is not configured")

func newTokenCommand(configPath *string) *cobra.Command {
	token := &cobra.Command{
		Use:   "token",
		Short: "Manage operator tokens",
	}

	var subject, role string
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Mint an operator JWT for the notification endpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCommand(cmd, *configPath, func(_ context.Context, a *app.App) error {
				if a.JWT() == nil {
					return errJWTNotConfigured
				}
				tok, err := a.JWT().Generate(subject, role)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), tok)
				return nil
			})
		},
	}
	issue.Flags().StringVar(&subject, "subject", "", "token subject")
	issue.Flags().StringVar(&role, "role", "operator", "role checked by authz.policies")
	_ = issue.MarkFlagRequired("subject")

	token.AddCommand(issue)
	return token
}
