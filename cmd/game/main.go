package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/younwookim/stagehand/internal/application/assets"
	"github.com/younwookim/stagehand/internal/application/game"
	"github.com/younwookim/stagehand/internal/application/orchestrator"
	"github.com/younwookim/stagehand/internal/application/replay"
	"github.com/younwookim/stagehand/internal/application/rig"
	"github.com/younwookim/stagehand/internal/engine"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
	"github.com/younwookim/stagehand/internal/infrastructure/debugserver"
	"github.com/younwookim/stagehand/internal/infrastructure/importer"
	"github.com/younwookim/stagehand/internal/infrastructure/logging"
	"github.com/younwookim/stagehand/internal/infrastructure/telemetry"
	"github.com/younwookim/stagehand/internal/infrastructure/watch"
)

func main() {
	configDir := flag.String("config", "", "Directory containing app.toml (default: embedded config)")
	recordFlag := flag.String("record", "", "Record dispatched actions to file (e.g., -record replay.json)")
	replayFlag := flag.String("replay", "", "Replay actions from a recorded journal")
	flag.Parse()

	cfg, err := loadConfig(*configDir)
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatal("failed to create logger", "err", err)
	}

	if err := run(cfg, logger, *recordFlag, *replayFlag); err != nil {
		logger.Fatal("game exited", "err", err)
	}
}

func loadConfig(dir string) (*config.AppConfig, error) {
	if dir != "" {
		return config.NewLoader(dir).Load()
	}
	fsys, err := fs.Sub(configFS, "configs")
	if err != nil {
		return nil, fmt.Errorf("config subfs: %w", err)
	}
	return config.NewFSLoader(fsys, "configs").Load()
}

func rigConfig(c config.RigConfig) rig.Config {
	return rig.Config{
		EyeHeight: c.EyeHeight,
		Smoothing: c.Smoothing,
		Tilt:      mgl32.DegToRad(c.TiltDeg),
		Offset:    mgl32.Vec3{c.Offset[0], c.Offset[1], c.Offset[2]},
	}
}

func run(cfg *config.AppConfig, logger *log.Logger, recordFile, replayFile string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := telemetry.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	eng, err := engine.New(cfg.Window.Width, cfg.Window.Height, logger)
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}

	cache := assets.NewCachingImporter(importer.NewImporter(cfg.Assets.Dir))
	if cfg.Assets.Watch {
		w, err := watch.New(cfg.Assets.Dir, cache, logger)
		if err != nil {
			logger.Warn("asset watching disabled", "err", err)
		} else {
			go w.Run(ctx)
		}
	}

	preparer := assets.NewPreparer(assets.PreparerConfig{
		Importer:         cache,
		PlayerModel:      cfg.Assets.PlayerModel,
		EnvironmentModel: cfg.Assets.EnvironmentModel,
		Logger:           logger.WithPrefix("assets"),
		Observer:         metrics,
	})
	slot := assets.NewSlot(ctx, preparer)

	o := orchestrator.New(orchestrator.Config{
		Loading: eng,
		Builders: game.Builders(game.Deps{
			Engine:      eng,
			Slot:        slot,
			Rig:         rigConfig(cfg.Rig),
			PlayerSpeed: cfg.Player.Speed,
			AutoAdvance: cfg.Cutscene.AutoAdvance.Duration,
			Logger:      logger,
		}),
		Logger:  logger,
		Metrics: metrics,
	})
	defer o.Close()

	o.Subscribe(func(ev orchestrator.Event) {
		if ev.Err != nil {
			logger.Warn("transition failed", "frame", ev.Frame, "from", ev.From, "to", ev.To, "err", ev.Err)
			return
		}
		logger.Info("transition", "frame", ev.Frame, "from", ev.From, "to", ev.To, "scene", ev.SceneID, "took", ev.Duration)
	})

	var recorder *replay.Recorder
	if recordFile != "" {
		recorder = replay.NewRecorder()
		o.Subscribe(recorder.Observe)
		logger.Info("recording enabled", "file", recordFile)
	}

	var replayer *replay.Replayer
	if replayFile != "" {
		j, err := replay.LoadJournal(replayFile)
		if err != nil {
			return err
		}
		if replayer, err = replay.NewReplayer(*j); err != nil {
			return err
		}
		logger.Info("replaying", "file", replayFile, "actions", replayer.Total())
	}

	if err := o.Boot(ctx); err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	if cfg.Debug.Listen != "" {
		srv := debugserver.NewServer(cfg.Debug.Listen, debugserver.NewHandler(o, reg, logger), logger)
		go func() {
			if err := srv.Run(ctx); err != nil {
				logger.Error("debug server stopped", "err", err)
			}
		}()
	}

	g := game.New(game.Config{
		Stage:    o,
		Engine:   eng,
		Replayer: replayer,
		Overlay:  cfg.Debug.Overlay,
		Gauge:    metrics,
		Logger:   logger,
	})
	g.SetDT(1.0 / float64(cfg.Window.TPS))

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	runErr := ebiten.RunGame(g)
	if errors.Is(runErr, ebiten.Termination) {
		runErr = nil
	}

	if recorder != nil {
		recorder.Stop()
		if err := recorder.Save(recordFile); err != nil {
			logger.Error("failed to save recording", "err", err)
		} else {
			logger.Info("recording saved", "file", recordFile, "actions", recorder.Len())
		}
	}
	return runErr
}
