// Package cli собирает зависимости cardsync и описывает команды.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iudanet/cardsync/internal/client/api"
	"github.com/iudanet/cardsync/internal/client/auth"
	"github.com/iudanet/cardsync/internal/client/contacts"
	"github.com/iudanet/cardsync/internal/client/iocli"
	"github.com/iudanet/cardsync/internal/client/storage/boltdb"
	"github.com/iudanet/cardsync/internal/client/storage/jsonfile"
	"github.com/iudanet/cardsync/internal/client/sync"
	"github.com/iudanet/cardsync/internal/config"
	"github.com/iudanet/cardsync/internal/logging"
)

// BuildInfo версия сборки, задается через ldflags
type BuildInfo struct {
	Version   string
	BuildDate string
	GitCommit string
}

// Cli состояние одного запуска
type Cli struct {
	io         iocli.IO
	stderr     io.Writer
	secrets    *logging.Secrets
	logger     *slog.Logger
	cfg        *config.Config
	build      BuildInfo
	configPath string
	verbose    bool
}

// New создает cli поверх терминала io; лог пишется в stderr
func New(terminal iocli.IO, stderr io.Writer, build BuildInfo) *Cli {
	return &Cli{
		io:      terminal,
		stderr:  stderr,
		secrets: &logging.Secrets{},
		build:   build,
	}
}

// Execute выполняет команду и возвращает код выхода
func (c *Cli) Execute(ctx context.Context, args []string) int {
	root := c.rootCmd()
	root.SetArgs(args)
	root.SetOut(c.io)
	root.SetErr(c.stderr)

	err := root.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, sync.ErrQuit):
		// ответ Q: ничего не записано
		fmt.Fprintln(c.stderr, "Aborted")
		return 1
	default:
		fmt.Fprintf(c.stderr, "Error: %v\n", c.secrets.Redact(err.Error()))
		return 1
	}
}

func (c *Cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cardsync",
		Short:         "Synchronize a local contacts file with iCloud",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		c.loginCmd(),
		c.logoutCmd(),
		c.statusCmd(),
		c.listCmd(),
		c.pullCmd(),
		c.pushCmd(),
		c.syncGroupsCmd(),
		c.versionCmd(),
	)
	return root
}

func (c *Cli) loadConfig() error {
	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path, explicit)
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if c.verbose {
		level = slog.LevelDebug
	}
	c.secrets.Add(cfg.Password)
	c.cfg = cfg
	c.logger = logging.New(c.stderr, level, c.secrets)
	c.logger.Debug("config loaded", "path", path, "explicit", explicit)
	return nil
}

// session один api.Client на запуск, общий для входа и менеджера контактов
type session struct {
	client        *api.Client
	authenticator *auth.Authenticator
}

func (c *Cli) newSession() (*session, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	store, err := api.NewSessionStore(c.cfg.SessionDir, c.cfg.AppleID)
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(c.cfg.APIConfig(), store, c.logger)
	if err != nil {
		return nil, err
	}
	return &session{
		client:        client,
		authenticator: auth.NewAuthenticator(client, iocli.NewChallenger(c.io), c.logger),
	}, nil
}

// login входит в аккаунт; пароль берется из окружения, конфигурации или спрашивается
func (c *Cli) login(ctx context.Context, s *session) error {
	password := c.cfg.ResolvePassword()
	if password == "" {
		var err error
		password, err = c.io.ReadPassword(fmt.Sprintf("Password for %s: ", c.cfg.AppleID))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}
	c.secrets.Add(password)

	return s.authenticator.Authenticate(ctx, auth.Credentials{
		AppleID:  c.cfg.AppleID,
		Password: password,
	})
}

// openCache открывает bolt кэш; вызывающий закрывает его
func (c *Cli) openCache(ctx context.Context) (*boltdb.Storage, error) {
	if err := os.MkdirAll(filepath.Dir(c.cfg.CacheFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	return boltdb.New(ctx, c.cfg.CacheFile)
}

func (c *Cli) localStore() (*jsonfile.Store, error) {
	if err := os.MkdirAll(filepath.Dir(c.cfg.ContactsFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create contacts dir: %w", err)
	}
	return jsonfile.New(c.cfg.ContactsFile), nil
}

// withSync собирает sync.Service и вызывает fn.
// При online == false вход не выполняется: нужен только локальный кэш.
func (c *Cli) withSync(ctx context.Context, online bool, fn func(*sync.Service) error) (err error) {
	s, err := c.newSession()
	if err != nil {
		return err
	}
	if online {
		if err := c.login(ctx, s); err != nil {
			return err
		}
	}

	cache, err := c.openCache(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := cache.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close cache: %w", cerr)
		}
	}()

	local, err := c.localStore()
	if err != nil {
		return err
	}

	manager := contacts.NewManager(s.client, c.logger)
	svc := sync.NewService(manager, local, cache, cache, c.io, c.logger,
		sync.WithIgnoredIDs(c.cfg.IgnoredIDs),
		sync.WithGroupRules(c.cfg.Groups),
	)
	return fn(svc)
}
