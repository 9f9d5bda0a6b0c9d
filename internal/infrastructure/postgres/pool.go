package postgres

import (
	"context"
	"fmt"
	"time"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/catalogo-calzado/pkg/config"
	"github.com/jhoicas/catalogo-calzado/pkg/logger"
)

const (
	pingAttempts = 30
	pingInterval = time.Second
)

// NewPool crea un pool de conexiones PostgreSQL y espera a que la base responda.
func NewPool(ctx context.Context, cfg config.DBConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}

	maxConns := int32(cfg.MaxConns)
	if maxConns <= 0 {
		maxConns = 10
	}
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// Registrar codec para NUMERIC -> shopspring/decimal (todas las conexiones del pool).
	poolConfig.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}

	// Esperar a la base (docker compose levanta ambos a la vez).
	var pingErr error
	for i := 0; i < pingAttempts; i++ {
		if pingErr = pool.Ping(ctx); pingErr == nil {
			log.Info().Int32("max_conns", maxConns).Msg("conectado a PostgreSQL")
			return pool, nil
		}
		log.Warn().Err(pingErr).Int("intento", i+1).Int("max", pingAttempts).Msg("esperando base de datos")
		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(pingInterval):
		}
	}
	pool.Close()
	return nil, fmt.Errorf("ping DB tras %d intentos: %w", pingAttempts, pingErr)
}
