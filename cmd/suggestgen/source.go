package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	suggest "github.com/goliatone/go-suggest"
	"github.com/goliatone/go-suggest/pkg/descriptor"
	pkgopenapi "github.com/goliatone/go-suggest/pkg/openapi"
	"github.com/goliatone/go-suggest/pkg/orchestrator"
	"github.com/goliatone/go-suggest/pkg/registry"
	"github.com/goliatone/go-suggest/pkg/sqlschema"
	pkgsuggest "github.com/goliatone/go-suggest/pkg/suggest"
)

const remoteTimeout = 30 * time.Second

// modelSource is the configured origin of models.
type modelSource struct {
	request orchestrator.Request
	// watch is the local path whose changes invalidate served dictionaries.
	watch string
	close func()
}

func (a *app) modelSource(ctx context.Context) (modelSource, error) {
	noop := func() {}

	if dsn := a.cfg.Database.DSN; dsn != "" {
		catalog, closeFn, err := sqlschema.Open(ctx, a.cfg.Database.Driver, dsn, a.cfg.Database.Schema)
		if err != nil {
			return modelSource{}, err
		}
		provider := sqlschema.NewIntrospector(catalog,
			sqlschema.WithTables(a.cfg.Database.Tables...),
			sqlschema.WithLogger(a.logger),
		)
		return modelSource{request: orchestrator.Request{Provider: provider}, close: closeFn}, nil
	}

	location := a.cfg.Source
	if location == "" {
		return modelSource{}, errors.New("no model source: set --source or --db-dsn")
	}

	if info, err := os.Stat(location); err == nil && info.IsDir() {
		provider := descriptor.Provider(os.DirFS(location))
		return modelSource{
			request: orchestrator.Request{Provider: provider},
			watch:   location,
			close:   noop,
		}, nil
	}

	src, err := registry.ParseSource(location)
	if err != nil {
		return modelSource{}, fmt.Errorf("invalid --source: %w", err)
	}
	ms := modelSource{
		request: orchestrator.Request{Source: src, Adapter: a.cfg.Adapter},
		close:   noop,
	}
	if src.Kind() == registry.SourceKindFile {
		ms.watch = src.Location()
	}
	return ms, nil
}

func (a *app) orchestrator() *orchestrator.Orchestrator {
	loader := suggest.NewLoader(pkgopenapi.WithHTTPFallback(remoteTimeout))
	return orchestrator.New(
		orchestrator.WithLoader(loader),
		orchestrator.WithExcluded(a.cfg.Exclude...),
		orchestrator.WithCollisionPolicy(a.cfg.CollisionPolicy()),
		orchestrator.WithLogger(a.logger),
	)
}

// generate resolves the source and builds the dictionary once.
func (a *app) generate(ctx context.Context) (*orchestrator.Orchestrator, pkgsuggest.Result, error) {
	source, err := a.modelSource(ctx)
	if err != nil {
		return nil, pkgsuggest.Result{}, err
	}
	defer source.close()

	gen := a.orchestrator()
	result, err := gen.Generate(ctx, source.request)
	if err != nil {
		return nil, pkgsuggest.Result{}, fmt.Errorf("generate: %w", err)
	}
	for _, collision := range result.Collisions {
		a.logger.Debug("verbose name collision", "key", collision.Key, "origins", len(collision.Origins))
	}
	return gen, result, nil
}
