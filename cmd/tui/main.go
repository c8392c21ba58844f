// Command tui is a hot-seat terminal client: both players share one
// keyboard and the engine runs in-process.
package main

import (
	"io"
	"log"
	"os"
	"time"

	"air-hockey/internal/config"
	"air-hockey/internal/game"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
)

// paddleStep is how far one key press moves a paddle, in arena pixels.
const paddleStep = 20

func main() {
	_ = godotenv.Load()

	// The screen owns stdout, so logs go to a file or nowhere
	if path := os.Getenv("TUI_LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("open log file: %v", err)
		}
		defer f.Close()
		log.SetOutput(f)
	} else {
		log.SetOutput(io.Discard)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("create screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("init screen: %v", err)
	}
	defer screen.Fini()

	engine := game.NewEngine(game.EngineConfig{Arena: config.ArenaFromEnv().Game()})

	sound := newSoundPlayer()
	defer sound.close()

	engine.SetCallbacks(
		func(ev game.GoalEvent) {
			log.Printf("⚽ Goal for %s (%d-%d)", ev.Scorer, ev.Score1, ev.Score2)
			sound.playGoal(ev.Scorer)
		},
		func(snap *game.GameSnapshot) {
			log.Printf("🏆 Match over: %s", snap.Winner)
			sound.playFinish()
		},
	)
	engine.Start()
	defer engine.Stop()

	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(game.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !handleKey(engine, ev.Key(), ev.Rune()) {
					return
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			draw(screen, engine)
		}
	}
}

// handleKey applies one key press. It returns false when the user quits.
func handleKey(engine *game.Engine, key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		movePaddle(engine, game.SideBottom, 0, -paddleStep)
	case tcell.KeyDown:
		movePaddle(engine, game.SideBottom, 0, paddleStep)
	case tcell.KeyLeft:
		movePaddle(engine, game.SideBottom, -paddleStep, 0)
	case tcell.KeyRight:
		movePaddle(engine, game.SideBottom, paddleStep, 0)
	case tcell.KeyRune:
		return handleRune(engine, r)
	}
	return true
}

func handleRune(engine *game.Engine, r rune) bool {
	switch r {
	case 'q', 'Q':
		return false
	case '1':
		engine.SelectMode(game.ModeFirstTo10)
	case '2':
		engine.SelectMode(game.ModeTimed)
	case 'r', 'R':
		engine.Restart()
	case 'w', 'W':
		movePaddle(engine, game.SideTop, 0, -paddleStep)
	case 's', 'S':
		movePaddle(engine, game.SideTop, 0, paddleStep)
	case 'a', 'A':
		movePaddle(engine, game.SideTop, -paddleStep, 0)
	case 'd', 'D':
		movePaddle(engine, game.SideTop, paddleStep, 0)
	}
	return true
}

// movePaddle nudges a paddle from its current spot; the engine clamps it.
func movePaddle(engine *game.Engine, side game.Side, dx, dy float64) {
	p := engine.GetSnapshot().Paddle(side)
	engine.SetPaddlePosition(side, p.X+dx, p.Y+dy)
}

func draw(screen tcell.Screen, engine *game.Engine) {
	snap := engine.GetSnapshot()
	w, h := screen.Size()
	screen.Clear()
	drawSnapshot(screen, newLayout(snap.Arena, w, h), snap)
	screen.Show()
}
