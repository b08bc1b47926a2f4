package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/matst80/gig-finder/pkg/api"
	"github.com/matst80/gig-finder/pkg/catalog"
	"github.com/matst80/gig-finder/pkg/common"
	"github.com/matst80/gig-finder/pkg/config"
	"github.com/matst80/gig-finder/pkg/facet"
	"github.com/matst80/gig-finder/pkg/notify"
	"github.com/matst80/gig-finder/pkg/server"
	"github.com/matst80/gig-finder/pkg/sorting"
	"github.com/matst80/gig-finder/pkg/tracking"
	"github.com/matst80/gig-finder/pkg/view"
)

var configFile = flag.String("config", os.Getenv("CONFIG_FILE"), "path to yaml config")
var enableProfiling = flag.Bool("profiling", false, "enable profiling endpoints")
var debugAddress = ":8081"

func viewOptions(cfg config.Config) view.Options {
	mode := facet.CountLinks
	if cfg.CountMode == "groups" {
		mode = facet.CountGroups
	}
	return view.Options{Locale: sorting.ParseLocale(cfg.Locale), CountMode: mode}
}

func newNotifier(cfg config.Config, logger *zap.Logger) notify.Notifier {
	if cfg.RedisUrl != "" {
		logger.Info("catalog changes via redis", zap.String("addr", cfg.RedisUrl))
		return notify.NewRedisNotifier(cfg.RedisUrl, cfg.RedisPassword, 0, logger)
	}
	if cfg.RabbitUrl != "" {
		n, err := notify.NewRabbitNotifier(cfg.RabbitUrl, cfg.Country, logger)
		if err == nil {
			logger.Info("catalog changes via rabbitmq")
			return n
		}
		logger.Warn("could not connect to rabbitmq for catalog changes", zap.Error(err))
	}
	return notify.NewLocal()
}

func startProfiling(logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	go func() {
		if err := http.ListenAndServe(debugAddress, mux); err != nil {
			logger.Warn("profiling server stopped", zap.Error(err))
		}
	}()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	client, err := api.New(cfg.ApiUrl,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithRateLimit(cfg.ApiRateLimit),
		api.WithLogger(logger.Named("api")))
	if err != nil {
		logger.Fatal("invalid api configuration", zap.Error(err))
	}

	store := catalog.NewStore(client, logger.Named("catalog"))
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := store.Load(ctx); err != nil {
		logger.Warn("initial catalog load incomplete", zap.Error(err))
	}

	srv := server.NewWebServer(store, client, viewOptions(cfg), logger.Named("server"))
	defer srv.Close()
	srv.Notifier = newNotifier(cfg, logger.Named("notify"))
	defer srv.Notifier.Close()
	if err := srv.FollowChanges(ctx); err != nil {
		logger.Warn("not following catalog changes", zap.Error(err))
	}
	srv.ReloadEvery(ctx, cfg.ReloadInterval)

	if cfg.RabbitUrl != "" {
		trk, err := tracking.NewRabbitTracking(cfg.RabbitUrl, cfg.Country, logger.Named("tracking"))
		if err != nil {
			logger.Warn("tracking disabled", zap.Error(err))
		} else {
			srv.Tracking = trk
		}
	}

	if *enableProfiling {
		startProfiling(logger)
	}

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 5 * time.Second,
		Read:       15 * time.Second,
		Write:      30 * time.Second,
		Idle:       60 * time.Second,
		Shutdown:   15 * time.Second,
		Hook:       5 * time.Second,
	})
	httpServer := common.NewServerWithTimeouts(&http.Server{Addr: cfg.ListenAddress, Handler: srv.Handler()}, timeouts)

	common.RunServerWithShutdown(httpServer, logger, "gig-finder", timeouts.Shutdown, timeouts.Hook,
		func(ctx context.Context) error {
			cancel()
			return nil
		},
		func(ctx context.Context) error {
			if srv.Tracking != nil {
				return srv.Tracking.Close()
			}
			return nil
		},
	)
}
