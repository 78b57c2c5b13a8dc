package modplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/go-modplan/loader"
)

// FromRecord converts a deserialized descriptor record into a
// ModuleDescriptor. No validation happens here; Register validates.
func FromRecord(r loader.Record) ModuleDescriptor {
	return ModuleDescriptor{
		Name:                 r.Name,
		LanguageStandard:     LanguageStandard(r.LanguageStandard),
		PCHMode:              PCHMode(r.PCHMode),
		PublicDependencies:   r.Public,
		PrivateDependencies:  r.Private,
		DisabledDependencies: r.Disabled,
	}
}

// DirOption configures LoadDir.
type DirOption func(*dirConfig)

type dirConfig struct {
	loaderOpts []loader.Option
	logger     *slog.Logger
}

// WithLoaderOptions passes options through to the descriptor loader.
func WithLoaderOptions(opts ...loader.Option) DirOption {
	return func(c *dirConfig) {
		c.loaderOpts = append(c.loaderOpts, opts...)
	}
}

// WithDirLogger sets a structured logger for load diagnostics.
func WithDirLogger(l *slog.Logger) DirOption {
	return func(c *dirConfig) {
		c.logger = l
	}
}

// LoadDir builds a registry from every descriptor file under dir.
//
// Files are parsed concurrently and registered in lexical path order, so the
// outcome never depends on scheduling. A file that fails to parse, or a module
// that fails validation or collides with an earlier one, is skipped and its
// error joined into the returned error; everything else stays registered.
// The registry is nil only when dir itself cannot be read or ctx is
// canceled before parsing finishes.
func LoadDir(ctx context.Context, dir string, opts ...DirOption) (*MemoryRegistry, error) {
	cfg := &dirConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	log := cfg.logger
	if log == nil {
		log = slog.New(discardHandler{})
	}

	files, err := loader.Discover(dir)
	if err != nil {
		return nil, err
	}
	log.Debug("descriptor files discovered", "dir", dir, "files", len(files))

	results := make([][]loader.Record, len(files))
	parseErrs := make([]error, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(defaultMaxConcurrency)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i], parseErrs[i] = loader.LoadFile(file, cfg.loaderOpts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	reg := &MemoryRegistry{modules: make(map[string]ModuleDescriptor)}
	var errs []error
	for i, file := range files {
		if parseErrs[i] != nil {
			log.Warn("skipping descriptor file", "file", file, "error", parseErrs[i])
			errs = append(errs, parseErrs[i])
			continue
		}
		for _, rec := range results[i] {
			if err := reg.Register(FromRecord(rec)); err != nil {
				log.Warn("skipping module", "file", file, "module", rec.Name, "error", err)
				errs = append(errs, fmt.Errorf("%s: %w", file, err))
				continue
			}
			log.Debug("module registered", "file", file, "module", rec.Name)
		}
	}
	return reg, errors.Join(errs...)
}
