package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/rentdesk/internal/client/client"
	"github.com/dmitrijs2005/rentdesk/internal/client/config"
	"github.com/dmitrijs2005/rentdesk/internal/client/services"
	"github.com/dmitrijs2005/rentdesk/internal/client/session"
	"github.com/dmitrijs2005/rentdesk/internal/filex"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
)

type App struct {
	config     *config.Config
	auth       services.AuthService
	apartments services.ApartmentService
	logger     logging.Logger
	reader     *bufio.Reader
	out        io.Writer
	closeFn    func() error
}

// NewApp opens the local database, restores the stored session and wires
// the API client and services. The caller must Close the App.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	baseURL, err := c.BaseURL()
	if err != nil {
		return nil, err
	}

	dbPath, err := filex.EnsureParentDir(c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	store := session.New(db, logger)
	store.Initialize(ctx)

	apiClient := client.NewHTTPClient(baseURL, store, client.WithLogger(logger))

	logger.Debug(ctx, "client ready", "mode", c.Mode, "api", baseURL)

	return &App{
		config:     c,
		auth:       services.NewAuthService(apiClient, store, logger),
		apartments: services.NewApartmentService(apiClient, logger),
		logger:     logger,
		reader:     bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		closeFn:    db.Close,
	}, nil
}

// Run blocks in the REPL until the user exits, stdin is closed or ctx is
// canceled.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "rentdesk: type 'help' for the list of commands")
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) Close() error {
	if a.closeFn == nil {
		return nil
	}
	return a.closeFn()
}

func (a *App) isLoggedIn() bool {
	_, ok := a.auth.CurrentUser()
	return ok
}

func (a *App) status() string {
	if u, ok := a.auth.CurrentUser(); ok {
		return u.Email
	}
	return "anonymous"
}
