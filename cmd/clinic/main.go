package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/client/api"
	"github.com/clinic/clinic/internal/client/session"
	"github.com/clinic/clinic/internal/client/viewmodel"
	"github.com/clinic/clinic/internal/config"
)

var errNotLoggedIn = errors.New("not logged in: run `clinic login` or `clinic register` first")

// app is the state shared by every command of one invocation.
type app struct {
	cfg    *config.ClientConfig
	logger zerolog.Logger
	client *api.Client
	store  *session.Store
	out    io.Writer
	errOut io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:          "clinic",
		Short:        "Clinic management client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	pf := rootCmd.PersistentFlags()
	pf.String("api-url", "", "Backend base URL (env CLINIC_API_URL)")
	pf.String("session-file", "", "Where the session is kept between runs (env CLINIC_SESSION_FILE)")
	pf.Duration("timeout", 0, "Per-command request timeout (env CLINIC_REQUEST_TIMEOUT)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")

	rootCmd.AddCommand(loginCmd(a))
	rootCmd.AddCommand(registerCmd(a))
	rootCmd.AddCommand(logoutCmd(a))
	rootCmd.AddCommand(whoamiCmd(a))
	rootCmd.AddCommand(patientsCmd(a))
	rootCmd.AddCommand(appointmentsCmd(a))
	rootCmd.AddCommand(followUpsCmd(a))
	rootCmd.AddCommand(staffCmd(a))
	rootCmd.AddCommand(dashboardCmd(a))
	return rootCmd
}

// init loads configuration, wires the transport to the session store and
// restores the persisted session.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.LoadClient(cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	a.logger = zerolog.New(zerolog.ConsoleWriter{Out: a.errOut}).Level(level).With().Timestamp().Logger()

	var store *session.Store
	a.client = api.New(cfg.APIURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		api.WithTokenSource(api.TokenFunc(func() string { return store.Token() })),
		api.WithLogger(a.logger),
	)
	store = session.NewStore(a.client, session.NewFileStorage(cfg.SessionFile), a.logger)
	a.store = store

	if id := store.Restore(); id != nil {
		a.logger.Debug().Str("user_id", id.ID).Str("organization", id.OrganizationName).Msg("session restored")
	}
	return nil
}

// context bounds one command's backend calls by the configured timeout.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), a.cfg.RequestTimeout)
}

func (a *app) requireSession() error {
	if !a.store.Authenticated() {
		return errNotLoggedIn
	}
	return nil
}

// notifier prints view-model notifications to stderr.
func (a *app) notifier() viewmodel.Notifier {
	return viewmodel.NotifierFunc(func(n viewmodel.Notification) {
		if n.Level == viewmodel.LevelError {
			fmt.Fprintf(a.errOut, "error: %s\n", n.Message)
			return
		}
		fmt.Fprintln(a.errOut, n.Message)
	})
}

// authed wraps a RunE so it only runs with a restored session.
func (a *app) authed(run func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.requireSession(); err != nil {
			return err
		}
		return run(cmd, args)
	}
}
