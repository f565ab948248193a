package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/acrogo/acro/internal/bridge"
	"github.com/acrogo/acro/internal/config"
	"github.com/acrogo/acro/internal/core/event"
	coresys "github.com/acrogo/acro/internal/core/system"
	"github.com/acrogo/acro/internal/host"
	"github.com/acrogo/acro/internal/scripting"
	"github.com/acrogo/acro/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/acro.toml"
	if p := os.Getenv("ACRO_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Host world and starting scene
	bus := event.NewBus()
	store := host.NewStore(bus, log)
	if cfg.Scene.Path != "" {
		sc, err := host.LoadScene(cfg.Scene.Path)
		if err != nil {
			return fmt.Errorf("scene: %w", err)
		}
		if err := store.Apply(sc); err != nil {
			return fmt.Errorf("apply scene %s: %w", cfg.Scene.Path, err)
		}
	}

	// 4. Script context: kind table, descriptors, Lua engine
	ctx := bridge.NewContext(bridge.NewCountingChannel(store), log)
	for _, d := range store.Descriptors() {
		ctx.Kinds().Define(d)
	}
	ctx.RegisterComponentKinds(store.ComponentKinds())

	engine, err := scripting.NewEngine(cfg.Scripting, ctx, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	printSection("World")
	printStat("entities", store.EntityCount())
	printStat("component kinds", len(store.ComponentKinds()))
	printStat("behavior types", len(ctx.Behaviors().Types()))
	fmt.Println()

	// 5. Create systems and register with runner
	runner := coresys.NewRunner()
	runner.Register(system.NewEventRelaySystem(bus, ctx, log))
	runner.Register(system.NewBehaviorInitSystem(store, ctx, log))
	runner.Register(system.NewScriptSystem(ctx, log))
	if cfg.Scripting.HotReload {
		runner.Register(system.NewReloadSystem(engine, cfg.Scripting.ReloadInterval, log))
	}
	runner.Register(system.NewCleanupSystem(store, ctx, log))

	// 6. Start loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("loop started (tick: %s)", cfg.Loop.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Loop.TickRate)
			if cfg.Loop.MaxFrames > 0 && runner.Ticks() >= uint64(cfg.Loop.MaxFrames) {
				log.Info("frame limit reached", zap.Uint64("frames", runner.Ticks()))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			log.Info("stopped", zap.Uint64("frames", runner.Ticks()), zap.Int("behaviors", ctx.Behaviors().Len()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
