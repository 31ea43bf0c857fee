package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"autosheetify/internal/artifacts"
	"autosheetify/internal/auth"
	"autosheetify/internal/config"
	"autosheetify/internal/library"
	"autosheetify/internal/logging"
	"autosheetify/internal/transcribe"
)

var errLibraryDisabled = errors.New("library is disabled (set [library] enabled = true)")

type commandContext struct {
	configFlag *string
	tokenFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, tokenFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		tokenFlag:  tokenFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// log returns the process logger, falling back to a nop logger when the
// configured one cannot be built.
func (c *commandContext) log() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.configValue())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) flagToken() string {
	if c.tokenFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.tokenFlag)
}

func (c *commandContext) sessionStore() *auth.FileStore {
	return auth.NewFileStore(c.configValue().Auth.SessionPath)
}

func (c *commandContext) sessionProvider() auth.SessionProvider {
	cfg := c.configValue()
	return auth.Resolve(c.flagToken(), cfg.Auth.Token, c.sessionStore())
}

// sessionSource names where sessionProvider reads the token from.
func (c *commandContext) sessionSource() string {
	switch {
	case c.flagToken() != "":
		return "--token flag"
	case strings.TrimSpace(c.configValue().Auth.Token) != "":
		return "config / AUTOSHEETIFY_TOKEN"
	default:
		return c.sessionStore().Path()
	}
}

func (c *commandContext) gate() *auth.Gate {
	return auth.NewGate(c.sessionProvider())
}

func userAgent() string {
	return "autosheetify/" + version
}

func (c *commandContext) transcribeClient() *transcribe.Client {
	cfg := c.configValue()
	return transcribe.NewClient(cfg.Service.BaseURL,
		transcribe.WithTimeout(cfg.RequestTimeout()),
		transcribe.WithUserAgent(userAgent()),
		transcribe.WithLogger(c.log()),
	)
}

func (c *commandContext) downloader() (*artifacts.Downloader, error) {
	return artifacts.NewDownloader(c.configValue().Service.BaseURL,
		artifacts.WithUserAgent(userAgent()),
		artifacts.WithLogger(c.log()),
	)
}

func (c *commandContext) openLibrary() (*library.Store, error) {
	cfg := c.configValue()
	if !cfg.Library.Enabled {
		return nil, errLibraryDisabled
	}
	store, err := library.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return store, nil
}

func (c *commandContext) withLibrary(fn func(*library.Store) error) error {
	store, err := c.openLibrary()
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
