package resources

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Configure seeds viper from the environment. JWT_SECRET deliberately has no
// default: the identity gate must never run on a guessable key.
func Configure() {
	viper.AutomaticEnv()

	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "postgres")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "office_portal")

	viper.SetDefault("HTTP_HOST", "localhost")
	viper.SetDefault("HTTP_PORT", "8080")
	viper.SetDefault("DEBUG_HOST", "localhost")
	viper.SetDefault("DEBUG_PORT", "6060")

	viper.SetDefault("OTEL_ENDPOINT", "localhost:4317")
}

func CreateDatabaseConnectionPool(ctx context.Context) (*pgxpool.Pool, error) {
	//nolint:nosprintfhostport
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		viper.GetString("DB_USER"), viper.GetString("DB_PASSWORD"),
		viper.GetString("DB_HOST"), viper.GetString("DB_PORT"), viper.GetString("DB_NAME")))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to parse database connection string")
		return nil, fmt.Errorf("failed to parse database connection string: %w", err)
	}

	cfg.ConnConfig.Tracer = otelpgx.NewTracer()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("unable to connect to database")
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		pool.Close()
		log.Ctx(ctx).Error().Err(err).Msg("unable to ping database")

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
