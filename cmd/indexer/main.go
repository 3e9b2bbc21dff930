package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/ariefcatur/go-marketplace/internal/catalog"
	"github.com/ariefcatur/go-marketplace/internal/config"
	"github.com/ariefcatur/go-marketplace/internal/events"
	"github.com/ariefcatur/go-marketplace/internal/indexer"
	kafkax "github.com/ariefcatur/go-marketplace/internal/kafka"
	"github.com/ariefcatur/go-marketplace/internal/logx"
	"github.com/ariefcatur/go-marketplace/internal/orders"
	"github.com/ariefcatur/go-marketplace/internal/postgres"
	"github.com/ariefcatur/go-marketplace/internal/redisx"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logx.New(cfg.ServiceName+"-indexer", cfg.LogLevel)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	h := &indexer.Handler{
		Snapshots: &catalog.SnapshotCache{RDB: rdb},
		Dedup:     &indexer.RedisDedup{RDB: rdb, Service: "indexer"},
		Log:       log,
	}

	recorder := &orders.Recorder{Orders: &orders.Repo{DB: db}, Log: log}

	// Consumers: listing changes and placed orders
	var wg sync.WaitGroup
	consume := func(topic string, handle kafkax.Handler) {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.IndexerGroup, topic, cfg.IndexerWorkers, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			log.Info().Str("group", cfg.IndexerGroup).Str("topic", topic).
				Int("workers", cfg.IndexerWorkers).Msg("consumer started")
			if err := cons.Start(ctx, handle); err != nil {
				log.Error().Err(err).Str("topic", topic).Msg("consumer exit")
				cancel()
			}
		}()
	}
	consume(events.TopicListingChanged, h.HandleListingChanged)
	consume(events.TopicOrderPlaced, recorder.HandleOrderPlaced)

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer")
	cancel()
	wg.Wait()
}
