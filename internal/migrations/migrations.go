// Package migrations применяет SQL-миграции схемы задач через goose.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed sql/*.sql
var files embed.FS

const dir = "sql"

// Up накатывает все недостающие миграции на базу, к которой подключен пул
func Up(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, mustSub(),
		goose.WithLogger(&zapGooseLogger{sugar: logger.Sugar()}),
	)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	for _, res := range results {
		logger.Info("migration applied",
			zap.String("source", res.Source.Path),
			zap.Int64("version", res.Source.Version),
			zap.Duration("took", res.Duration),
		)
	}
	return nil
}

func mustSub() fs.FS {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// zapGooseLogger адаптер goose.Logger к zap
type zapGooseLogger struct {
	sugar *zap.SugaredLogger
}

func (l *zapGooseLogger) Printf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// Fatalf не завершает процесс, ошибку вернет Up
func (l *zapGooseLogger) Fatalf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}
