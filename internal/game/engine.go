package game

import (
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Fixed cadences of the match loop.
const (
	TickInterval  = 16 * time.Millisecond // physics step, no delta-time scaling
	ClockInterval = time.Second           // countdown step in timed mode
)

// EngineConfig configures a new engine.
type EngineConfig struct {
	Arena Arena
	Seed  int64 // RNG seed for puck serves; 0 picks one from the clock

	// Loop cadences. Zero means TickInterval / ClockInterval; tests shorten
	// them to run whole matches quickly.
	TickInterval  time.Duration
	ClockInterval time.Duration
}

// Engine owns the puck, both paddles and the match, and is the only place
// they are mutated. Every inbound operation is a single critical section, so
// a goal's score update, puck re-serve and win check are atomic with respect
// to the next tick.
//
// The engine can be driven two ways. Without Start, callers invoke Tick and
// TimerTick themselves. After Start, selecting a mode spawns a match loop
// that delivers both ticks on their fixed cadences and exits as soon as the
// match leaves the running phase.
type Engine struct {
	mu sync.RWMutex

	arena  Arena
	match  *Match
	puck   Puck
	bottom Paddle
	top    Paddle

	matchID   string
	tickCount uint64

	tickInterval  time.Duration
	clockInterval time.Duration

	// Match loop control
	autoRun  bool
	loopGen  uint64
	loopStop chan struct{}
	loopWg   sync.WaitGroup

	rng     *rand.Rand
	rngSeed int64

	snapshots *SnapshotStore
	eventLog  *EventLog

	// Event callbacks, invoked outside the lock
	onGoal   func(GoalEvent)
	onFinish func(*GameSnapshot)
	onTick   func(time.Duration)
	onClamp  func(Side)
}

// NewEngine creates an engine on the menu with the puck and paddles at
// their spawn points. Invalid arenas fall back to the default board.
func NewEngine(cfg EngineConfig) *Engine {
	arena := cfg.Arena
	if !arena.Valid() {
		arena = DefaultArena()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = TickInterval
	}
	clockInterval := cfg.ClockInterval
	if clockInterval <= 0 {
		clockInterval = ClockInterval
	}

	e := &Engine{
		arena:         arena,
		match:         NewMatch(),
		bottom:        NewPaddle(SideBottom, arena),
		top:           NewPaddle(SideTop, arena),
		tickInterval:  tickInterval,
		clockInterval: clockInterval,
		rng:           rand.New(rand.NewSource(seed)),
		rngSeed:       seed,
		snapshots:     NewSnapshotStore(),
		eventLog:      NewEventLog(),
	}
	e.puck = NewPuck(arena, e.rng)
	e.publishLocked()
	return e
}

// Start enables the autonomous match loop. If a match is already running
// its loop starts immediately.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.autoRun {
		return
	}
	e.autoRun = true
	if e.match.Running() {
		e.startLoopLocked()
	}
	log.Printf("🎮 Hockey engine started (%v physics, %v clock)", e.tickInterval, e.clockInterval)
}

// Stop cancels any running match loop and waits for it to exit. The match
// itself is left as it is.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.autoRun {
		e.mu.Unlock()
		return
	}
	e.autoRun = false
	e.stopLoopLocked()
	e.mu.Unlock()

	e.loopWg.Wait()
	log.Println("🛑 Hockey engine stopped")
}

func (e *Engine) startLoopLocked() {
	e.stopLoopLocked()
	e.loopGen++
	stop := make(chan struct{})
	e.loopStop = stop

	e.loopWg.Add(1)
	go e.runLoop(e.loopGen, stop, e.match.Mode() == ModeTimed)
}

func (e *Engine) stopLoopLocked() {
	if e.loopStop != nil {
		close(e.loopStop)
		e.loopStop = nil
	}
}

// runLoop delivers ticks for one match. Both tickers are stopped when it
// returns, which happens on Stop, on a newer loop replacing it, or as soon
// as a tick reports the match is no longer running.
func (e *Engine) runLoop(gen uint64, stop <-chan struct{}, timed bool) {
	defer e.loopWg.Done()

	physics := time.NewTicker(e.tickInterval)
	defer physics.Stop()

	var clock <-chan time.Time
	if timed {
		t := time.NewTicker(e.clockInterval)
		defer t.Stop()
		clock = t.C
	}

	for {
		select {
		case <-stop:
			return
		case <-physics.C:
			if !e.step(gen, false) {
				return
			}
		case <-clock:
			if !e.step(gen, true) {
				return
			}
		}
	}
}

// step runs one loop tick if gen still owns the match.
func (e *Engine) step(gen uint64, clock bool) bool {
	e.mu.Lock()
	if gen != e.loopGen {
		e.mu.Unlock()
		return false
	}
	if clock {
		return e.timerTickUnlock()
	}
	return e.tickUnlock()
}

// SelectMode leaves the menu and starts a match. It is a no-op returning
// false outside the menu or for an unknown mode.
func (e *Engine) SelectMode(mode Mode) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.match.SelectMode(mode) {
		return false
	}
	e.matchID = uuid.NewString()
	e.tickCount = 0

	e.eventLog.EmitSimple(EventTypeMatchStart, e.tickCount, e.matchID, MatchStartPayload{
		Mode:     mode,
		TimeLeft: e.match.TimeLeft(),
		RNGSeed:  e.rngSeed,
	})
	if e.autoRun {
		e.startLoopLocked()
	}
	e.publishLocked()

	log.Printf("🏒 Match %s started: %s", e.matchID[:8], mode)
	return true
}

// SetPaddlePosition moves a paddle, clamping the target into the side's
// legal region. It returns the stored position; ok is false only when the
// coordinates are not finite, in which case nothing changes.
func (e *Engine) SetPaddlePosition(side Side, x, y float64) (Vector2, bool) {
	e.mu.Lock()

	paddle := &e.bottom
	if side == SideTop {
		paddle = &e.top
	}
	pos, clamped, ok := paddle.MoveTo(Vector2{X: x, Y: y}, e.arena)
	if ok {
		e.publishLocked()
	}
	onClamp := e.onClamp
	e.mu.Unlock()

	if clamped && onClamp != nil {
		onClamp(side)
	}
	return pos, ok
}

// Tick runs one physics step. It returns true if the match is still
// running afterwards; while not running it does nothing and returns false.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	return e.tickUnlock()
}

// tickUnlock expects e.mu held and releases it before running callbacks.
func (e *Engine) tickUnlock() bool {
	if !e.match.Running() {
		e.mu.Unlock()
		return false
	}
	start := time.Now()
	e.tickCount++

	next, goal := e.puck.Advance(e.bottom, e.top, e.arena)
	var (
		goalEvent GoalEvent
		finished  bool
	)
	if goal == GoalNone {
		e.puck = next
	} else {
		goalEvent = e.scoreLocked(goal)
		if e.match.Finished() {
			e.finishLocked()
			finished = true
		}
	}
	snap := e.publishLocked()
	running := e.match.Running()
	onGoal, onFinish, onTick := e.onGoal, e.onFinish, e.onTick
	e.mu.Unlock()

	if goal != GoalNone && onGoal != nil {
		onGoal(goalEvent)
	}
	if finished && onFinish != nil {
		onFinish(snap)
	}
	if onTick != nil {
		onTick(time.Since(start))
	}
	return running
}

// scoreLocked credits a goal and re-serves the puck in one step.
func (e *Engine) scoreLocked(goal Goal) GoalEvent {
	last := e.puck.Position
	e.match.GoalScored(goal)
	e.puck = NewPuck(e.arena, e.rng)

	s1, s2 := e.match.Scores()
	ev := GoalEvent{
		MatchID:  e.matchID,
		Goal:     goal,
		Side:     goal.String(),
		Scorer:   goal.Scorer(),
		Score1:   s1,
		Score2:   s2,
		Tick:     e.tickCount,
		Position: last,
	}
	e.eventLog.EmitSimple(EventTypeGoal, e.tickCount, e.matchID, ev)
	log.Printf("🥅 Goal for %s (%d - %d)", ev.Scorer, s1, s2)
	return ev
}

// TimerTick advances the timed-mode countdown by one second. It returns
// true if the match is still running afterwards; outside a running timed
// match it does nothing and returns false.
func (e *Engine) TimerTick() bool {
	e.mu.Lock()
	return e.timerTickUnlock()
}

func (e *Engine) timerTickUnlock() bool {
	if !e.match.TimerTick() {
		e.mu.Unlock()
		return false
	}
	e.eventLog.EmitSimple(EventTypeClock, e.tickCount, e.matchID, ClockPayload{TimeLeft: e.match.TimeLeft()})

	finished := e.match.Finished()
	if finished {
		e.finishLocked()
	}
	snap := e.publishLocked()
	running := e.match.Running()
	onFinish := e.onFinish
	e.mu.Unlock()

	if finished && onFinish != nil {
		onFinish(snap)
	}
	return running
}

// finishLocked records the end of a match. The loop notices the phase
// change on its own and exits.
func (e *Engine) finishLocked() {
	s1, s2 := e.match.Scores()
	e.eventLog.EmitSimple(EventTypeMatchEnd, e.tickCount, e.matchID, MatchEndPayload{
		Mode:     e.match.Mode(),
		Winner:   e.match.Winner(),
		Score1:   s1,
		Score2:   s2,
		TimeLeft: e.match.TimeLeft(),
	})
	log.Printf("🏁 Match finished: %s wins (%d - %d)", e.match.Winner(), s1, s2)
}

// Restart returns a finished match to the menu, re-serving the puck and
// putting both paddles back on their spawn points. It is a no-op returning
// false unless the match is finished.
func (e *Engine) Restart() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.match.Restart() {
		return false
	}
	e.eventLog.EmitSimple(EventTypeRestart, e.tickCount, e.matchID, nil)

	e.stopLoopLocked()
	e.puck = NewPuck(e.arena, e.rng)
	e.bottom = NewPaddle(SideBottom, e.arena)
	e.top = NewPaddle(SideTop, e.arena)
	e.matchID = ""
	e.tickCount = 0
	e.publishLocked()

	log.Println("🔄 Match reset to menu")
	return true
}

// GetSnapshot returns the latest immutable snapshot without locking.
func (e *Engine) GetSnapshot() *GameSnapshot {
	return e.snapshots.Load()
}

// Arena returns the engine's board dimensions.
func (e *Engine) Arena() Arena {
	return e.arena
}

func (e *Engine) snapshotLocked() *GameSnapshot {
	s1, s2 := e.match.Scores()
	return &GameSnapshot{
		TickNumber: e.tickCount,
		MatchID:    e.matchID,
		Arena:      e.arena,
		Puck:       e.puck.Position,
		Bottom:     PaddleSnapshot{Side: SideBottom, X: e.bottom.Position.X, Y: e.bottom.Position.Y},
		Top:        PaddleSnapshot{Side: SideTop, X: e.top.Position.X, Y: e.top.Position.Y},
		Mode:       e.match.Mode(),
		Phase:      e.match.Phase(),
		Score1:     s1,
		Score2:     s2,
		TimeLeft:   e.match.TimeLeft(),
		Winner:     e.match.Winner(),
	}
}

func (e *Engine) publishLocked() *GameSnapshot {
	snap := e.snapshotLocked()
	e.snapshots.Publish(snap)
	return snap
}

// SetCallbacks sets match event callbacks. They run on the goroutine that
// caused the event, after the engine lock is released.
func (e *Engine) SetCallbacks(onGoal func(GoalEvent), onFinish func(*GameSnapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onGoal = onGoal
	e.onFinish = onFinish
}

// SetObservers sets instrumentation hooks for tick duration and clamped
// paddle writes.
func (e *Engine) SetObservers(onTick func(time.Duration), onClamp func(Side)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = onTick
	e.onClamp = onClamp
}

// StartEventLog opens the match journal
func (e *Engine) StartEventLog(filePath string) error {
	return e.eventLog.Start(filePath)
}

// StopEventLog flushes and closes the match journal
func (e *Engine) StopEventLog() {
	e.eventLog.Stop()
}

// GetEventLogStats returns journal statistics for monitoring
func (e *Engine) GetEventLogStats() map[string]interface{} {
	return e.eventLog.GetStats()
}
