package game

// Match is the state machine for a single game: Menu -> Running -> Finished,
// and back to Menu on restart. It holds no geometry; the engine resets the
// puck and paddles alongside it.
//
// Every transition method returns false, without touching any field, when
// the event is not legal in the current phase.
type Match struct {
	mode     Mode
	phase    Phase
	score1   int
	score2   int
	timeLeft int
	winner   Player
}

// NewMatch returns a match waiting on the menu.
func NewMatch() *Match {
	return &Match{timeLeft: RoundSeconds}
}

func (m *Match) Mode() Mode         { return m.mode }
func (m *Match) Phase() Phase       { return m.phase }
func (m *Match) Score1() int        { return m.score1 }
func (m *Match) Score2() int        { return m.score2 }
func (m *Match) TimeLeft() int      { return m.timeLeft }
func (m *Match) Winner() Player     { return m.winner }
func (m *Match) Running() bool      { return m.phase == PhaseRunning }
func (m *Match) Finished() bool     { return m.phase == PhaseFinished }
func (m *Match) Scores() (int, int) { return m.score1, m.score2 }

// SelectMode starts the match from the menu.
func (m *Match) SelectMode(mode Mode) bool {
	if m.phase != PhaseMenu || (mode != ModeFirstTo10 && mode != ModeTimed) {
		return false
	}
	m.mode = mode
	m.phase = PhaseRunning
	if mode == ModeTimed {
		m.timeLeft = RoundSeconds
	}
	return true
}

// GoalScored credits the scorer and immediately re-evaluates the win
// condition. It returns false if the match was not running.
func (m *Match) GoalScored(g Goal) bool {
	if m.phase != PhaseRunning {
		return false
	}
	switch g.Scorer() {
	case Player1:
		m.score1++
	case Player2:
		m.score2++
	default:
		return false
	}

	if w := evaluateFirstTo(m.mode, m.score1, m.score2); w != PlayerNone {
		m.finish(w)
	}
	return true
}

// TimerTick advances the countdown by one second in timed mode. When the
// last second elapses the match finishes with the leader as winner.
func (m *Match) TimerTick() bool {
	if m.phase != PhaseRunning || m.mode != ModeTimed {
		return false
	}
	if m.timeLeft <= 1 {
		m.timeLeft = 0
		m.finish(evaluateTimeout(m.score1, m.score2))
		return true
	}
	m.timeLeft--
	return true
}

// Restart returns a finished match to the menu with everything cleared.
func (m *Match) Restart() bool {
	if m.phase != PhaseFinished {
		return false
	}
	*m = Match{timeLeft: RoundSeconds}
	return true
}

func (m *Match) finish(w Player) {
	m.phase = PhaseFinished
	m.winner = w
}

// evaluateFirstTo returns the player who has reached WinScore in
// first-to-10 mode, or PlayerNone.
func evaluateFirstTo(mode Mode, score1, score2 int) Player {
	if mode != ModeFirstTo10 {
		return PlayerNone
	}
	switch {
	case score2 >= WinScore:
		return Player2
	case score1 >= WinScore:
		return Player1
	}
	return PlayerNone
}

// evaluateTimeout picks the winner when the clock runs out. A tie goes to
// Player 2.
func evaluateTimeout(score1, score2 int) Player {
	if score1 > score2 {
		return Player1
	}
	return Player2
}
