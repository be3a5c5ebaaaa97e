package commands

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tableflip.dev/devo/pkg/config"
	"tableflip.dev/devo/pkg/logging"
	"tableflip.dev/devo/pkg/scripture"
	"tableflip.dev/devo/pkg/store"
)

// env is what every command needs: settings, a logger and the service client.
type env struct {
	cfg    *config.Config
	log    *zerolog.Logger
	client *scripture.Client
}

func setup() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Fields: map[string]string{"app": "devo"},
	})

	client, err := scripture.New(scripture.Options{
		BaseURL:    cfg.ServiceURL,
		Token:      scripture.StaticToken(cfg.ServiceToken),
		HTTPClient: &http.Client{Timeout: cfg.ServiceTimeout},
		Logger:     logging.Get(),
	})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logging.Named("cli"), client: client}, nil
}

func (e *env) persistence() (store.Persistence, error) {
	return store.Load(e.cfg)
}

// contextOf is the command context, which is unset when Execute was used
// instead of ExecuteContext.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
