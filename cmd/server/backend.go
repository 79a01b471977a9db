package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-booking-backend/internal/cache"
	"github.com/tbourn/go-booking-backend/internal/config"
	"github.com/tbourn/go-booking-backend/internal/events"
	httpapi "github.com/tbourn/go-booking-backend/internal/http"
	"github.com/tbourn/go-booking-backend/internal/http/handlers"
	"github.com/tbourn/go-booking-backend/internal/repo"
	"github.com/tbourn/go-booking-backend/internal/services"
)

const idempotencyPurgeEvery = 10 * time.Minute

// backend bundles the stores and clients chosen by configuration.
type backend struct {
	store  services.AppointmentStore
	idem   handlers.IdempotencyStore
	events events.Publisher
	ready  []httpapi.ReadyCheck

	// purge, when set, runs until ctx is done.
	purge func(ctx context.Context)

	closers []func() error
}

// Close releases clients in reverse order of creation.
func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log.Warn().Err(err).Msg("close backend client")
		}
	}
}

func buildBackend(ctx context.Context, cfg config.Config) (*backend, error) {
	b := &backend{}

	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, err := repo.ConnectMongo(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, func() error { return client.Disconnect(context.Background()) })

		ms := repo.NewMongoStore(client.Database(cfg.Store.MongoDatabase).Collection("appointments"))
		if err := ms.EnsureIndexes(ctx, cfg.Store.StrictUniqueness); err != nil {
			b.Close()
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		b.store = ms

		// A TTL index expires keys, so there is no purge loop here.
		mi := repo.NewMongoIdempotency(client.Database(cfg.Store.MongoDatabase).Collection("idempotency_keys"))
		if err := mi.EnsureIndexes(ctx); err != nil {
			b.Close()
			return nil, fmt.Errorf("mongo idempotency indexes: %w", err)
		}
		b.idem = mi
		b.ready = append(b.ready, httpapi.ReadyCheck{Name: "mongo", Check: ms.Ping})

	default:
		db, err := repo.OpenSQLite(cfg.Store.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		b.closers = append(b.closers, func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		})
		if err := repo.AutoMigrate(db); err != nil {
			b.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		if cfg.Store.StrictUniqueness {
			if err := repo.EnsureUniqueIndexes(db); err != nil {
				b.Close()
				return nil, fmt.Errorf("unique indexes: %w", err)
			}
		}
		gs := repo.NewGormStore(db)
		b.store = gs
		b.idem = repo.GormIdempotency{DB: db}
		b.purge = func(ctx context.Context) { purgeIdempotency(ctx, db, idempotencyPurgeEvery) }
		b.ready = append(b.ready, httpapi.ReadyCheck{Name: "sqlite", Check: gs.Ping})
	}

	if cfg.Redis.Enabled() {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, rc.Close)
		b.store = cache.NewCachedStore(b.store, rc, cfg.Redis.CacheTTL)
		// Redis expires keys itself, so the SQL purge loop is not needed.
		b.idem = cache.RedisIdempotency{Cache: rc}
		b.purge = nil
		b.ready = append(b.ready, httpapi.ReadyCheck{Name: "redis", Check: rc.Ping})
	}

	b.events = events.Nop{}
	if cfg.Kafka.Enabled() {
		kp, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, kp.Close)
		b.events = kp
	}

	return b, nil
}

// purgeIdempotency removes expired Idempotency-Key rows every interval.
func purgeIdempotency(ctx context.Context, db *gorm.DB, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("removed", n).Msg("purged idempotency keys")
			}
		}
	}
}
