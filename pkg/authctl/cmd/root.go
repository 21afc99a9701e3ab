package cmd

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rkx-dev/authctl/pkg/authctl/auth"
	"github.com/rkx-dev/authctl/pkg/authctl/config"
)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	Input        io.Reader
}

func DefaultConfig() Config {
	return Config{
		ConfigPath:   config.DefaultConfigPath(),
		OutputWriter: os.Stdout,
		Input:        os.Stdin,
	}
}

type runtimeState struct {
	configPath           string
	cfg                  *config.Config
	serverOverride       string
	clientIDOverride     string
	tokenStorageOverride string
	nonInteractive       bool
	noBrowser            bool
	verbose              bool
	writer               io.Writer
	input                io.Reader
	logger               *zap.Logger
}

type runtimeKey struct{}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{configPath: cfg.ConfigPath, writer: cfg.OutputWriter, input: cfg.Input}

	root := &cobra.Command{
		Use:           "authctl",
		Short:         "Authenticate against the auth server from the command line",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = os.Stdout
			}
			if rt.input == nil {
				rt.input = os.Stdin
			}
			// A .env next to the invocation may carry the client ID,
			// mirroring the server's own configuration. Existing
			// environment variables win.
			_ = godotenv.Load()
			if rt.configPath == "" {
				rt.configPath = config.DefaultConfigPath()
			}
			if rt.serverOverride == "" {
				rt.serverOverride = os.Getenv("AUTHCTL_SERVER")
			}
			if rt.clientIDOverride == "" {
				rt.clientIDOverride = os.Getenv("AUTHCTL_CLIENT_ID")
			}
			if rt.tokenStorageOverride == "" {
				rt.tokenStorageOverride = os.Getenv("AUTHCTL_TOKEN_STORAGE")
			}
			if !rt.nonInteractive {
				rt.nonInteractive = strings.EqualFold(os.Getenv("AUTHCTL_NON_INTERACTIVE"), "true")
			}
			if !rt.noBrowser {
				rt.noBrowser = strings.EqualFold(os.Getenv("AUTHCTL_NO_BROWSER"), "true")
			}
			if !rt.verbose {
				rt.verbose = strings.EqualFold(os.Getenv("AUTHCTL_VERBOSE"), "true")
			}
			if err := rt.initLogger(); err != nil {
				return err
			}

			if cmd.Name() == "version" || cmd.Name() == "completion" {
				return nil
			}
			return rt.EnsureConfigLoaded()
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().StringVar(&rt.tokenStorageOverride, "token-storage", "", "Credential storage backend: file or keychain")
	root.PersistentFlags().BoolVar(&rt.nonInteractive, "non-interactive", false, "Fail instead of prompting")
	root.PersistentFlags().BoolVar(&rt.noBrowser, "no-browser", false, "Never open a browser")
	root.PersistentFlags().BoolVarP(&rt.verbose, "verbose", "v", false, "Enable verbose logging")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		newLoginCommand(),
		newLogoutCommand(),
		newWhoamiCommand(),
		newTokenCommand(),
		NewConfigCommand(),
		NewVersionCommand(),
		NewCompletionCommand(),
	)

	return root
}

func getRuntime(cmd *cobra.Command) (*runtimeState, error) {
	rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState)
	if !ok || rt == nil {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

func (rt *runtimeState) Writer() io.Writer {
	if rt.writer != nil {
		return rt.writer
	}
	return os.Stdout
}

func (rt *runtimeState) initLogger() error {
	if rt.logger != nil {
		return nil
	}
	if !rt.verbose {
		rt.logger = zap.NewNop()
		return nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"stderr"}
	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	rt.logger = logger
	return nil
}

func (rt *runtimeState) EnsureConfigLoaded() error {
	if rt.cfg != nil {
		return nil
	}
	cfg, err := config.Load(rt.configPath)
	if err != nil {
		return err
	}
	rt.cfg = cfg
	return nil
}

// resolveServer applies flag > environment > config precedence.
func (rt *runtimeState) resolveServer(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if rt.serverOverride != "" {
		return rt.serverOverride
	}
	if rt.cfg != nil {
		return rt.cfg.ServerURL
	}
	return ""
}

func (rt *runtimeState) resolveClientID(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if rt.clientIDOverride != "" {
		return rt.clientIDOverride
	}
	if rt.cfg != nil {
		return rt.cfg.ClientID
	}
	return ""
}

func (rt *runtimeState) resolveScope(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if rt.cfg != nil {
		return rt.cfg.Scope
	}
	return ""
}

func (rt *runtimeState) tokenStorage() string {
	if rt.tokenStorageOverride != "" {
		return rt.tokenStorageOverride
	}
	if rt.cfg != nil && rt.cfg.TokenStorage != "" {
		return rt.cfg.TokenStorage
	}
	return auth.StorageFile
}

func (rt *runtimeState) tokenStore() *auth.TokenStore {
	return &auth.TokenStore{
		Path:    config.DefaultCredentialPath(),
		Backend: rt.tokenStorage(),
	}
}

func (rt *runtimeState) browserDisabled() bool {
	if rt.noBrowser {
		return true
	}
	return rt.cfg != nil && rt.cfg.NoBrowser
}

func (rt *runtimeState) httpClient() (*http.Client, error) {
	var caFile string
	var insecure bool
	if rt.cfg != nil {
		caFile = rt.cfg.CAFile
		insecure = rt.cfg.InsecureSkipTLSVerify
	}
	return auth.NewHTTPClient(caFile, insecure)
}
