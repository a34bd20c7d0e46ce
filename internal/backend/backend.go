package backend

import (
	"context"
	"fmt"
	"net"

	"github.com/2beens/elitefitness/internal/config"
	"github.com/2beens/elitefitness/internal/db"
	"github.com/2beens/elitefitness/internal/kvstore"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Backend holds the connections behind the roster store. Only the client of the
// configured storage is set, Redis is also opened for postgres storage when a
// redis host is configured, to back sessions and rate limiting.
type Backend struct {
	Store  kvstore.Store
	Redis  *redis.Client
	DBPool *pgxpool.Pool

	collectors []prometheus.Collector
}

type OpenParams struct {
	Config         *config.Config
	Secrets        config.Secrets
	TracingEnabled bool
}

func Open(ctx context.Context, params OpenParams) (_ *Backend, err error) {
	cfg := params.Config
	b := &Backend{}
	defer func() {
		if err != nil {
			if closeErr := b.Close(); closeErr != nil {
				log.Errorf("backend: close after failed open: %s", closeErr)
			}
		}
	}()

	if cfg.RedisHost != "" && cfg.RedisPort != "" {
		b.Redis = redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: params.Secrets.RedisPassword,
			DB:       0, // use default DB
		})
		if params.TracingEnabled {
			b.Redis.AddHook(redisotel.NewTracingHook())
		}

		rdbStatus := b.Redis.Ping(ctx)
		if err := rdbStatus.Err(); err != nil {
			if cfg.Storage == config.StorageRedis {
				return nil, fmt.Errorf("ping redis: %w", err)
			}
			log.Errorf("--> failed to ping redis: %s", err)
		} else {
			log.Debugf("redis ping: %s", rdbStatus.Val())
		}
	}

	switch cfg.Storage {
	case config.StorageRedis:
		if b.Redis == nil {
			return nil, fmt.Errorf("redis storage without redis client")
		}
		b.Store = kvstore.NewRedisStore(b.Redis)
	case config.StoragePostgres:
		b.DBPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     params.Secrets.PostgresPassword,
			TracingEnabled: params.TracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := b.DBPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		b.collectors = append(b.collectors, pgxpoolprometheus.NewCollector(
			b.DBPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
		b.Store, err = kvstore.NewPostgresStore(ctx, b.DBPool)
		if err != nil {
			return nil, err
		}
	case config.StorageMemory:
		log.Warnln("using in-memory storage, all data is lost on restart")
		b.Store = kvstore.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage: %s", cfg.Storage)
	}

	if cfg.CacheSizeMB > 0 {
		log.Debugf("roster cache enabled: %d MB", cfg.CacheSizeMB)
		b.Store = kvstore.NewCachedStore(b.Store, cfg.CacheSizeMB)
	}

	return b, nil
}

// Collectors are the extra prometheus collectors of the opened connections.
func (b *Backend) Collectors() []prometheus.Collector {
	return b.collectors
}

func (b *Backend) Close() error {
	var err error
	if b.Redis != nil {
		err = multierr.Append(err, b.Redis.Close())
	}
	if b.DBPool != nil {
		log.Debugln("closing db pool ...")
		b.DBPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}
	return err
}
