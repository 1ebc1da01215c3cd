package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/interactions/internal/core/events/bus"
	"github.com/zeusync/interactions/internal/core/interaction"
	"github.com/zeusync/interactions/internal/core/observability/log"
	"github.com/zeusync/interactions/internal/injector"
	"github.com/zeusync/interactions/internal/sandbox"
	"github.com/zeusync/interactions/internal/telemetry"
)

type options struct {
	profiles string
	scenario string
	tick     time.Duration
	duration time.Duration
	listen   string
	mqtt     string
	level    string
}

func main() {
	var opts options
	flag.StringVar(&opts.profiles, "profiles", "profiles", "directory of interaction profiles (*.yaml, *.yml, *.json)")
	flag.StringVar(&opts.scenario, "scenario", "", "scenario file; defaults to visiting every profile once")
	flag.DurationVar(&opts.tick, "tick", 16*time.Millisecond, "simulation tick")
	flag.DurationVar(&opts.duration, "duration", 0, "stop after this long; 0 runs until the scenario ends")
	flag.StringVar(&opts.listen, "listen", "", "serve the websocket event feed on this address, e.g. :8080")
	flag.StringVar(&opts.mqtt, "mqtt", "", "publish outcomes to this MQTT broker, e.g. tcp://localhost:1883")
	flag.StringVar(&opts.level, "log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logger := log.NewWithConfig(log.Config{Level: log.ParseLevel(opts.level), Encoding: "console", Name: "sandbox"})
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-stopCh
		logger.Info("shutting down", log.String("signal", sig.String()))
		cancel()
	}()

	if err := run(ctx, opts, logger); err != nil {
		logger.Error("sandbox failed", log.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, logger log.Log) error {
	profiles, err := interaction.LoadDir(ctx, opts.profiles)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	if len(profiles) == 0 {
		return fmt.Errorf("no profiles in %s", opts.profiles)
	}

	scenario := sandbox.DefaultScenario(profiles)
	if opts.scenario != "" {
		if scenario, err = sandbox.LoadScenarioFile(opts.scenario); err != nil {
			return err
		}
	}

	var observers []bus.Observer
	if opts.listen != "" {
		hub := telemetry.NewHub(logger)
		defer hub.Close()
		srv := &http.Server{Addr: opts.listen, Handler: routes(hub), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("event feed stopped", log.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		logger.Info("serving event feed", log.String("addr", opts.listen))
		observers = append(observers, hub)
	}
	if opts.mqtt != "" {
		client, err := telemetry.DialMQTT(opts.mqtt, "interactions-sandbox", logger)
		if err != nil {
			return err
		}
		publisher := telemetry.NewMQTTPublisher(client, logger)
		defer func() { _ = publisher.Close() }()
		observers = append(observers, publisher)
	}

	world, err := sandbox.Build(injector.NewWorld(logger), profiles, observers...)
	if err != nil {
		return err
	}
	defer world.Teardown()

	duration := opts.duration
	if duration <= 0 {
		duration = scenario.End() + time.Second
	}
	logger.Info("running scenario",
		log.Int("profiles", len(profiles)), log.Int("steps", len(scenario.Steps)), log.Duration("duration", duration))

	world.Schedule(scenario)
	if err := world.Run(ctx, opts.tick, duration); err != nil {
		return err
	}
	for _, snap := range world.Snapshots() {
		logger.Info("final state",
			log.String("profile", snap.Name),
			log.Stringer("kind", snap.Kind),
			log.Stringer("state", snap.State),
			log.Int("cycles", snap.PassedLifecycles))
	}
	summary := world.Summary()
	logger.Info("scenario done",
		log.Int("finished", summary[interaction.StateFinished]),
		log.Any("pending", world.Pending()))
	return nil
}

func routes(hub *telemetry.Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	return mux
}
