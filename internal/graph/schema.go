package graph

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"runtime/debug"

	"blogql/internal/middleware"

	graphql "github.com/graph-gophers/graphql-go"
)

// SchemaSDL is the type and field declaration every resolver must satisfy.
//
//go:embed schema.graphql
var SchemaSDL string

// SchemaOptions bounds query execution.
type SchemaOptions struct {
	MaxDepth       int
	MaxParallelism int
}

// NewSchema binds the resolvers of engine to SchemaSDL. A resolver set that
// does not match the declared fields is reported here, before serving.
func NewSchema(engine *Engine, opts SchemaOptions) (*graphql.Schema, error) {
	schemaOpts := []graphql.SchemaOpt{graphql.Logger(panicLogger{})}
	if opts.MaxDepth > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxDepth(opts.MaxDepth))
	}
	if opts.MaxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(opts.MaxParallelism))
	}

	schema, err := graphql.ParseSchema(SchemaSDL, &Resolver{engine: engine}, schemaOpts...)
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	return schema, nil
}

// panicLogger sends recovered resolver panics to the structured logger.
type panicLogger struct{}

func (panicLogger) LogPanic(ctx context.Context, value interface{}) {
	middleware.Logger.ErrorContext(ctx, "graphql resolver panic",
		slog.Any("panic", value),
		slog.String("stack", string(debug.Stack())),
	)
}
