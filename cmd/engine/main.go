package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lintang-b-s/roadsim/docs"
	"github.com/lintang-b-s/roadsim/pkg/config"
	"github.com/lintang-b-s/roadsim/pkg/engine/clustering"
	"github.com/lintang-b-s/roadsim/pkg/engine/routingalgorithm"
	"github.com/lintang-b-s/roadsim/pkg/engine/traffic"
	"github.com/lintang-b-s/roadsim/pkg/generator"
	"github.com/lintang-b-s/roadsim/pkg/kv"
	"github.com/lintang-b-s/roadsim/pkg/server/rest"
	"github.com/lintang-b-s/roadsim/pkg/server/rest/service"
	"github.com/lintang-b-s/roadsim/pkg/snap"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

var (
	configFile = flag.String("config", "", "hcl config file, defaults are used when empty")
	listenAddr = flag.String("listenaddr", "", "server listen address, overrides the config")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

//	@title			roadsim API
//	@version		1.0
//	@description	planar road network engine: quadtree spatial index, zoom clustering, A* routing and a traffic simulator

//	@contact.name	lintang birda saputra

//	@license.name	GNU Affero General Public License v3.0
//	@license.url	https://www.gnu.org/licenses/gpl-3.0.en.html

// @host		localhost:5000
// @BasePath	/api
// @schemes	http
func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("engine stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := generator.Generate(ctx, cfg.Map)
	if err != nil {
		return fmt.Errorf("generate map: %w", err)
	}
	logger.Info("road network ready", "vertices", g.NumVertices(), "edges", g.NumEdges())
	recordMemProfile(memprofile, "generate_map")

	model := traffic.NewTrafficModel(
		traffic.WithSeed(cfg.Simulation.Seed),
		traffic.WithCongestionThreshold(cfg.Simulation.CongestionThreshold),
	)
	model.Initialize(g)

	reg := prometheus.NewRegistry()
	m := rest.NewMetrics(reg)

	sim := traffic.NewSimulator(g, model,
		traffic.WithInterval(cfg.Simulation.Interval),
		traffic.WithLogger(logger),
		traffic.WithMetrics(m),
	)
	defer sim.Stop()

	db, err := kv.OpenInMemory()
	if err != nil {
		return fmt.Errorf("open cluster view store: %w", err)
	}
	kvDB := kv.NewKVDB(db)
	defer kvDB.Close()

	snapper := snap.NewRoadSnapper()
	if err := snapper.BuildRoadSnapper(g); err != nil {
		return fmt.Errorf("build road snapper: %w", err)
	}

	routingAlgorithm := routingalgorithm.NewRouteAlgorithm(g, model)
	roadNetworkSvc := service.NewRoadNetworkService(g, routingAlgorithm, kvDB, snapper, sim)

	start := time.Now()
	if err := roadNetworkSvc.PrecomputeZoomLevels(ctx, clustering.DefaultZoomLevels); err != nil {
		return fmt.Errorf("precompute zoom levels: %w", err)
	}
	logger.Info("zoom levels ready", "levels", clustering.DefaultZoomLevels, "took", time.Since(start))
	recordMemProfile(memprofile, "service_init")

	r := chi.NewRouter()

	r.Use(middleware.Logger)

	r.Use(rest.PromeHttpMiddleware(m)) // prometheus http middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Mount("/debug", middleware.Profiler())

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:5000/swagger/doc.json"), //The url pointing to API definition
	))

	rest.RoadNetworkRouter(r, roadNetworkSvc, m)

	if cfg.Simulation.Autostart {
		if _, err := roadNetworkSvc.StartSimulation(ctx); err != nil {
			logger.Error("autostart traffic simulation", "error", err)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Server.ListenAddr,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", cfg.Server.ListenAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func recordMemProfile(memprofile *string, name string) {
	if *memprofile != "" {
		path := strings.Replace(*memprofile, ".mprof", fmt.Sprintf("%s.mprof", name), -1)
		f, err := os.Create(path)
		if err != nil {
			slog.Error("create memory profile", "error", err)
			return
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}
}
