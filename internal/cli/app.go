// Package cli is the fixmycity command line client. It wires configuration,
// the session store and the client services, and renders their results.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fixmycity/internal/apiclient"
	"fixmycity/internal/config"
	"fixmycity/internal/logging"
	"fixmycity/internal/model"
	"fixmycity/internal/service"
)

// App holds the dependencies shared by every command. They are built in the
// root command's PersistentPreRunE, after flags are parsed.
type App struct {
	out    io.Writer
	errOut io.Writer

	// flags
	apiURL      string
	storeName   string
	sessionFile string
	profile     string
	logLevel    string
	jsonOutput  bool

	cfg      *config.Config
	logger   zerolog.Logger
	client   *apiclient.Client
	closers  []func() error
	sessions *service.SessionManager
}

func New(out, errOut io.Writer) *App {
	return &App{out: out, errOut: errOut}
}

// Execute runs the CLI and returns the process exit code. Failures are
// printed as the user-facing message, or as a Result with --json.
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.RootCommand()
	root.SetArgs(args)
	defer a.teardown()

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	res := model.ResultOf(err)
	if a.jsonOutput {
		a.printJSON(res)
	} else {
		fmt.Fprintln(a.errOut, "Error:", res.Error)
	}
	return 1
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "fixmycity",
		Short: "Fix My City client",
		Long: `fixmycity talks to the Fix My City API: sign in, browse the shared
feed of civic issue reports, submit your own and manage them.

The session is kept between runs in the configured session store
(a local file by default, or Redis/Postgres).`,
		PersistentPreRunE: a.setup,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.apiURL, "api-url", "", "API base URL (overrides API_URL)")
	flags.StringVar(&a.storeName, "store", "", "session store: file, redis or postgres (overrides SESSION_STORE)")
	flags.StringVar(&a.sessionFile, "session-file", "", "session file for the file store (overrides SESSION_FILE)")
	flags.StringVar(&a.profile, "profile", "default", "session profile name for the redis and postgres stores")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error (LOG_LEVEL applies when unset)")
	flags.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		a.registerCommand(),
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.feedCommand(),
		a.submitCommand(),
		a.mineCommand(),
		a.deleteCommand(),
		a.archiveCommand(),
	)
	return root
}

func (a *App) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.apiURL != "" {
		cfg.APIURL = a.apiURL
	}
	if a.storeName != "" {
		cfg.SessionStore = a.storeName
	}
	if a.sessionFile != "" {
		cfg.SessionFile = a.sessionFile
	}
	a.cfg = cfg

	level := a.logLevel
	if !cmd.Flags().Changed("log-level") && os.Getenv("LOG_LEVEL") != "" {
		level = cfg.LogLevel
	}
	logger, closeLog := logging.New(logging.Config{Level: level, Format: cfg.LogFormat, Output: cfg.LogOutput})
	a.logger = logger
	a.closers = append(a.closers, closeLog)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	store, closeStore, err := newSessionStore(cmd.Context(), cfg, a.profile)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeStore)

	a.client = apiclient.New(cfg.APIURL, cfg.HTTPTimeout, a.logger)
	a.sessions = service.NewSessionManager(a.client, store, a.logger)
	a.sessions.CheckSession(cmd.Context())
	return nil
}

// teardown closes in reverse order of opening, so the log file goes last.
func (a *App) teardown() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("close FAILED")
		}
	}
	a.closers = nil
}

// requireSession fails fast when no one is signed in.
func (a *App) requireSession() (model.Session, error) {
	session := a.sessions.Session()
	if !session.IsLoggedIn() {
		return model.Session{}, fmt.Errorf("%w: run `fixmycity login` first", model.ErrNotLoggedIn)
	}
	return session, nil
}

// done prints a success line, or Result{success:true} with --json.
func (a *App) done(format string, args ...any) {
	if a.jsonOutput {
		a.printJSON(model.ResultOf(nil))
		return
	}
	fmt.Fprintf(a.out, format+"\n", args...)
}

func (a *App) printJSON(v any) {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
