// Package telemetry provides OpenTelemetry integration for distributed tracing.
package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled          bool
	LogFullSQL       bool          // Include full SQL statements in spans (dev only)
	SlowQueryThresh  time.Duration // Threshold for marking queries as slow (default: 200ms)
	DBSystem         string        // Database system name (default: "postgresql")
	WithoutVariables bool          // Exclude query variables from the recorded SQL
}

// DefaultDBTracingConfig returns default configuration for database tracing.
// SQL text and variables stay out of spans unless explicitly opted in.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:          false,
		LogFullSQL:       false,
		SlowQueryThresh:  200 * time.Millisecond,
		DBSystem:         "postgresql",
		WithoutVariables: true,
	}
}

// registerHooks installs fn before or after every gorm operation (create,
// query, update, delete, row, raw) under the given name prefix, so each
// operation type gets the same hook.
func registerHooks(db *gorm.DB, prefix string, before bool, fn func(*gorm.DB)) error {
	cb := db.Callback()
	if before {
		return errors.Join(
			cb.Create().Before("gorm:create").Register(prefix+":create", fn),
			cb.Query().Before("gorm:query").Register(prefix+":query", fn),
			cb.Update().Before("gorm:update").Register(prefix+":update", fn),
			cb.Delete().Before("gorm:delete").Register(prefix+":delete", fn),
			cb.Row().Before("gorm:row").Register(prefix+":row", fn),
			cb.Raw().Before("gorm:raw").Register(prefix+":raw", fn),
		)
	}
	return errors.Join(
		cb.Create().After("gorm:create").Register(prefix+":create", fn),
		cb.Query().After("gorm:query").Register(prefix+":query", fn),
		cb.Update().After("gorm:update").Register(prefix+":update", fn),
		cb.Delete().After("gorm:delete").Register(prefix+":delete", fn),
		cb.Row().After("gorm:row").Register(prefix+":row", fn),
		cb.Raw().After("gorm:raw").Register(prefix+":raw", fn),
	)
}

// annotateQuerySpan adds the rows-affected and table attributes to the active
// span, marks non-NotFound errors, and flags the query as slow when the
// elapsed time (from the timing before-hook) exceeds the threshold.
// ErrRecordNotFound is a normal outcome for lookups and never marks the span.
func annotateQuerySpan(db *gorm.DB, threshold time.Duration) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if startTime, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		elapsed := time.Since(startTime)
		if elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query_warning", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", threshold.Milliseconds()),
			))
		}
	}
}

// stampQueryStart records the query start time on the statement context so
// the after-hook can compute elapsed time.
func stampQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

// DBTracingPlugin wraps the otelgorm plugin with slow query detection and
// error marking on the per-query spans.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin with the given configuration.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm registers the otelgorm plugin plus the timing and slow
// query hooks on the GORM DB instance. A disabled config registers nothing.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := registerHooks(db, "otel_timing:before", true, stampQueryStart); err != nil {
		return err
	}
	if err := registerHooks(db, "otel_slow_query", false, p.slowQueryCallback); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.String("db_system", p.config.DBSystem),
	)
	return nil
}

// slowQueryCallback runs after each database operation.
func (p *DBTracingPlugin) slowQueryCallback(db *gorm.DB) {
	annotateQuerySpan(db, p.config.SlowQueryThresh)
}

// queryStartTimeKey is the context key for storing query start time.
type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// WithQueryStartTime returns a context with the query start time set.
// The slow query callback uses it to calculate elapsed time.
func WithQueryStartTime(ctx context.Context) context.Context {
	return context.WithValue(ctx, queryStartTimeKey, time.Now())
}

// DBTracingCallback annotates query spans without the otelgorm plugin. It
// covers handles that cannot take the full plugin, such as read replicas
// opened outside the main wiring.
type DBTracingCallback struct {
	slowQueryThresh time.Duration
}

// NewDBTracingCallback creates a new callback for tracking query timing.
func NewDBTracingCallback(slowQueryThresh time.Duration) *DBTracingCallback {
	return &DBTracingCallback{
		slowQueryThresh: slowQueryThresh,
	}
}

// BeforeCallback sets the query start time in context.
func (c *DBTracingCallback) BeforeCallback(db *gorm.DB) {
	stampQueryStart(db)
}

// AfterCallback checks for slow queries and adds attributes to the span.
func (c *DBTracingCallback) AfterCallback(db *gorm.DB) {
	annotateQuerySpan(db, c.slowQueryThresh)
}

// RegisterCallbacks registers the before and after callbacks on the GORM DB instance.
func (c *DBTracingCallback) RegisterCallbacks(db *gorm.DB) error {
	if err := registerHooks(db, "otel_timing:before", true, c.BeforeCallback); err != nil {
		return err
	}
	return registerHooks(db, "otel_timing:after", false, c.AfterCallback)
}
