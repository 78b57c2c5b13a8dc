package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	modplan "github.com/albertocavalcante/go-modplan"
	"github.com/albertocavalcante/go-modplan/loader"
)

// init layers configuration (flags over env over config file over defaults)
// and installs the logger.
func (a *app) init(cmd *cobra.Command) error {
	v := a.v
	v.SetEnvPrefix("MODPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", a.cfgFile, err)
		}
	} else {
		v.SetConfigName(".modplan")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config: %w", err)
			}
		}
	}

	level, err := log.ParseLevel(v.GetString(keyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid --%s: %w", keyLogLevel, err)
	}
	handler := log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "modplan",
		Level:  level,
	})
	a.logger = slog.New(handler)

	if used := v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", "file", used)
	}
	return nil
}

func (a *app) loaderOptions() []loader.Option {
	if a.v.GetBool(keyCommentedDisabled) {
		return []loader.Option{loader.WithCommentedDisabled()}
	}
	return nil
}

func (a *app) resolverOptions() []modplan.Option {
	return []modplan.Option{
		modplan.WithLogger(a.logger),
		modplan.WithConcurrency(a.v.GetInt(keyConcurrency)),
	}
}

// registries loads every configured registry directory in order. Load
// failures are logged and returned joined; a directory that cannot be read
// at all is a hard error.
func (a *app) registries(ctx context.Context) ([]*modplan.MemoryRegistry, error) {
	dirs := a.v.GetStringSlice(keyRegistry)
	if len(dirs) == 0 {
		dirs = []string{"."}
	}

	regs := make([]*modplan.MemoryRegistry, 0, len(dirs))
	var loadErrs []error
	for _, dir := range dirs {
		reg, err := modplan.LoadDir(ctx, dir,
			modplan.WithLoaderOptions(a.loaderOptions()...),
			modplan.WithDirLogger(a.logger.With("registry", dir)))
		if reg == nil {
			return nil, fmt.Errorf("load registry %s: %w", dir, err)
		}
		if err != nil {
			loadErrs = append(loadErrs, err)
		}
		a.logger.Info("registry loaded", "dir", dir, "modules", reg.Len())
		regs = append(regs, reg)
	}
	return regs, errors.Join(loadErrs...)
}

// resolver builds a resolver over the chained registries. Load failures
// are only logged here; a module they would have provided shows up as a
// missing module when it matters.
func (a *app) resolver(ctx context.Context) (*modplan.Resolver, error) {
	regs, err := a.registries(ctx)
	if regs == nil {
		return nil, err
	}
	chain := make([]modplan.Registry, len(regs))
	for i, r := range regs {
		chain[i] = r
	}
	return modplan.NewResolver(modplan.NewChainRegistry(chain...), a.resolverOptions()...)
}
