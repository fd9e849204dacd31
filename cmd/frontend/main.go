package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/matst80/slask-filters/pkg/common"
	"github.com/matst80/slask-filters/pkg/config"
	"github.com/matst80/slask-filters/pkg/messaging"
	"github.com/matst80/slask-filters/pkg/search"
	"github.com/matst80/slask-filters/pkg/server"
	"github.com/matst80/slask-filters/pkg/session"
	"github.com/matst80/slask-filters/pkg/tracking"
	"github.com/matst80/slask-filters/pkg/types"

	amqp "github.com/rabbitmq/amqp091-go"
)

type app struct {
	cfg     config.Config
	loc     *time.Location
	tracker types.Tracking
	cache   *search.RedisCache
	conn    *amqp.Connection
}

// ConnectIndexChanges flushes cached searches whenever the index changes.
func (a *app) ConnectIndexChanges(amqpUrl string) {
	conn, err := amqp.DialConfig(amqpUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		log.Printf("Failed to connect to RabbitMQ: %v", err)
		return
	}
	a.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		log.Printf("Failed to open a channel: %v", err)
		return
	}
	err = messaging.ListenToTopic(ch, a.cfg.Country, messaging.IndexChanged, func(d amqp.Delivery) error {
		if a.cache == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		removed, err := a.cache.Flush(ctx, "search:")
		if err != nil {
			return err
		}
		log.Printf("Index changed, flushed %d cached searches", removed)
		return nil
	})
	if err != nil {
		log.Printf("Failed to listen for index changes: %v", err)
		return
	}
	log.Printf("Listening for index changes")
}

func (a *app) newSession(id string) (*session.Session, error) {
	opts := session.DefaultOptions()
	opts.Location = a.loc
	opts.HitsPerPage = a.cfg.Search.HitsPerPage
	opts.Padding = a.cfg.Pagination.Padding
	if a.tracker != nil {
		opts.Track = func(action, reason string) {
			err := a.tracker.TrackAction(id, types.TrackingAction{Action: action, Reason: reason})
			if err != nil {
				log.Printf("Failed to track %s: %v", action, err)
			}
		}
	}
	return session.New(id, opts)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	a := &app{cfg: cfg, loc: loc}

	elastic, err := search.NewElasticClient(cfg.Elastic.Host, cfg.Elastic.Index)
	if err != nil {
		log.Fatalf("Failed to create elastic client: %v", err)
	}
	var client search.Client = elastic
	if cfg.Redis.Addr != "" {
		a.cache = search.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.cache.Ping(ctx); err != nil {
			log.Printf("Redis not reachable, searches are not cached: %v", err)
			a.cache.Close()
			a.cache = nil
		} else {
			client = search.NewCachedClient(client, a.cache, cfg.Cache.TTL)
		}
		cancel()
	}

	if cfg.Rabbit.Url != "" {
		tracker, err := tracking.NewRabbitTracking(cfg.Rabbit.Url, cfg.Country)
		if err != nil {
			log.Printf("Failed to connect to rabbitmq for tracking: %v", err)
		} else {
			a.tracker = tracker
		}
		a.ConnectIndexChanges(cfg.Rabbit.Url)
	}

	store := session.NewStore(cfg.Session.IdleTimeout, a.newSession)
	ctx, stopSweeper := context.WithCancel(context.Background())
	go store.Run(ctx)
	if a.cache != nil {
		go a.cache.Run(ctx, a.cache.LocalTTL)
	}

	ws := server.NewWebServer(store, client, a.tracker)
	ws.Location = loc

	timeouts := common.LoadTimeoutConfig(common.DefaultTimeoutConfig())
	servers := []*http.Server{
		common.NewServerWithTimeouts(cfg.Server.Listen, ws.ClientHandler(), timeouts),
		common.NewServerWithTimeouts(cfg.Server.Debug, ws.DebugHandler(), timeouts),
	}

	common.RunServerWithShutdown(context.Background(), servers, "slask-filters", timeouts,
		func(ctx context.Context) error {
			stopSweeper()
			store.Close()
			return nil
		},
		func(ctx context.Context) error {
			if a.tracker != nil {
				return a.tracker.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			if a.conn != nil {
				return a.conn.Close()
			}
			return nil
		},
		func(ctx context.Context) error {
			if a.cache != nil {
				return a.cache.Close()
			}
			return nil
		},
	)
}
