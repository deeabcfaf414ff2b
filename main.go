package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

func main() {
	headless := flag.Bool("headless", false, "run without a window and print status lines")
	pets := flag.Int("pets", 1, "number of pets to spawn at start")
	maxPets := flag.Int("max-pets", 0, "population cap (0 uses the default)")
	debug := flag.Bool("debug", false, "enable the debug overlay and debug logging")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	logger := setupLogger(*debug)

	game, err := NewGame(logger, *pets, *maxPets, *debug)
	if err != nil {
		log.Fatal(err)
	}

	if *headless {
		if err := runHeadless(game); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("deskpet")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

// setupLogger configures the default slog logger: text output, debug level
// when the debug flag is set.
func setupLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// runHeadless drives the engine at the normal tick rate without a window,
// printing a status dump once a second. Useful over ssh and for soak runs.
func runHeadless(g *Game) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if g.watcher != nil {
				_ = g.watcher.Close()
			}
			return nil
		case <-ticker.C:
			g.headlessTick()
		}
	}
}

// headlessTick advances the engine without input polling. A synthetic cursor
// circles the lower screen so cursor-driven behaviors still get exercised.
func (g *Game) headlessTick() {
	t := float64(g.ticks) * 0.01
	g.desktop.SetCursor(cp.Vector{
		X: screenWidth/2 + 300*math.Cos(t),
		Y: screenHeight - 150 + 100*math.Sin(t),
	})
	g.desktop.Update()
	g.manager.Update()
	g.pollReload()
	g.ticks++

	if g.ticks%60 == 0 {
		fmt.Print(g.diagnostics())
	}
}
