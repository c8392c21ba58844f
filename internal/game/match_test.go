package game

import "testing"

func TestNewMatch(t *testing.T) {
	m := NewMatch()
	if m.Phase() != PhaseMenu {
		t.Errorf("Expected menu phase, got %s", m.Phase())
	}
	if m.Mode() != ModeNone {
		t.Errorf("Expected no mode, got %s", m.Mode())
	}
	if m.Winner() != PlayerNone {
		t.Errorf("Expected no winner, got %s", m.Winner())
	}
	if m.TimeLeft() != RoundSeconds {
		t.Errorf("Expected %d seconds, got %d", RoundSeconds, m.TimeLeft())
	}
}

func TestMatchSelectMode(t *testing.T) {
	tests := []struct {
		name     string
		mode     Mode
		accepted bool
		timeLeft int
	}{
		{"first to 10", ModeFirstTo10, true, RoundSeconds},
		{"timed", ModeTimed, true, RoundSeconds},
		{"no mode", ModeNone, false, RoundSeconds},
		{"out of range", Mode(42), false, RoundSeconds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatch()
			if got := m.SelectMode(tt.mode); got != tt.accepted {
				t.Fatalf("SelectMode(%v) = %v, want %v", tt.mode, got, tt.accepted)
			}
			wantPhase := PhaseMenu
			if tt.accepted {
				wantPhase = PhaseRunning
			}
			if m.Phase() != wantPhase {
				t.Errorf("Expected phase %s, got %s", wantPhase, m.Phase())
			}
			if m.TimeLeft() != tt.timeLeft {
				t.Errorf("Expected timeLeft %d, got %d", tt.timeLeft, m.TimeLeft())
			}
		})
	}
}

// TestMatchSelectModeOnlyFromMenu verifies selection is a no-op elsewhere
func TestMatchSelectModeOnlyFromMenu(t *testing.T) {
	m := NewMatch()
	m.SelectMode(ModeFirstTo10)

	if m.SelectMode(ModeTimed) {
		t.Error("SelectMode should be rejected while running")
	}
	if m.Mode() != ModeFirstTo10 {
		t.Errorf("Mode should stay first_to_10, got %s", m.Mode())
	}

	for i := 0; i < WinScore; i++ {
		m.GoalScored(GoalTop)
	}
	before := *m
	if m.SelectMode(ModeTimed) {
		t.Error("SelectMode should be rejected once finished")
	}
	if *m != before {
		t.Error("Rejected SelectMode must not mutate the match")
	}
}

// TestMatchFirstTo10 verifies the match finishes exactly at the tenth goal
func TestMatchFirstTo10(t *testing.T) {
	tests := []struct {
		name   string
		goal   Goal
		winner Player
	}{
		{"player 1 wins", GoalTop, Player1},
		{"player 2 wins", GoalBottom, Player2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatch()
			m.SelectMode(ModeFirstTo10)

			for i := 1; i < WinScore; i++ {
				m.GoalScored(tt.goal)
				if m.Phase() != PhaseRunning {
					t.Fatalf("Match finished early after %d goals", i)
				}
				if m.Winner() != PlayerNone {
					t.Fatalf("Winner set early after %d goals", i)
				}
			}

			m.GoalScored(tt.goal)
			if m.Phase() != PhaseFinished {
				t.Fatalf("Expected finished after %d goals, got %s", WinScore, m.Phase())
			}
			if m.Winner() != tt.winner {
				t.Errorf("Expected winner %s, got %s", tt.winner, m.Winner())
			}

			// Further goals are ignored
			s1, s2 := m.Scores()
			if m.GoalScored(tt.goal) {
				t.Error("GoalScored should be rejected after finish")
			}
			if a, b := m.Scores(); a != s1 || b != s2 {
				t.Errorf("Scores changed after finish: %d-%d -> %d-%d", s1, s2, a, b)
			}
		})
	}
}

// TestMatchFirstTo10InterleavedGoals verifies order of goals does not matter
func TestMatchFirstTo10InterleavedGoals(t *testing.T) {
	m := NewMatch()
	m.SelectMode(ModeFirstTo10)

	for i := 0; i < 9; i++ {
		m.GoalScored(GoalTop)
		m.GoalScored(GoalBottom)
	}
	if m.Finished() {
		t.Fatal("9-9 should still be running")
	}
	m.GoalScored(GoalBottom)
	if !m.Finished() || m.Winner() != Player2 {
		t.Errorf("Expected Player 2 to win 9-10, got phase=%s winner=%s", m.Phase(), m.Winner())
	}
}

// TestMatchTimedIgnoresWinScore verifies goals never end a timed match
func TestMatchTimedIgnoresWinScore(t *testing.T) {
	m := NewMatch()
	m.SelectMode(ModeTimed)

	for i := 0; i < WinScore*2; i++ {
		m.GoalScored(GoalTop)
	}
	if m.Finished() {
		t.Error("Timed match must only finish on the clock")
	}
	if m.Score1() != WinScore*2 {
		t.Errorf("Expected score1 %d, got %d", WinScore*2, m.Score1())
	}
}

// TestMatchTimerCountdown verifies timeLeft strictly decreases to zero
func TestMatchTimerCountdown(t *testing.T) {
	m := NewMatch()
	m.SelectMode(ModeTimed)

	for want := RoundSeconds - 1; want >= 1; want-- {
		if !m.TimerTick() {
			t.Fatalf("TimerTick rejected at %d", want+1)
		}
		if m.TimeLeft() != want {
			t.Fatalf("Expected timeLeft %d, got %d", want, m.TimeLeft())
		}
		if m.Finished() {
			t.Fatalf("Finished early at %d", want)
		}
	}

	if !m.TimerTick() {
		t.Fatal("Final TimerTick should be accepted")
	}
	if m.TimeLeft() != 0 {
		t.Errorf("Expected timeLeft 0, got %d", m.TimeLeft())
	}
	if !m.Finished() {
		t.Fatal("Expected finished at zero")
	}

	if m.TimerTick() {
		t.Error("TimerTick after finish should be a no-op")
	}
	if m.TimeLeft() != 0 {
		t.Errorf("timeLeft should stay 0, got %d", m.TimeLeft())
	}
}

// TestMatchTimeoutWinner verifies the leader wins and a tie goes to Player 2
func TestMatchTimeoutWinner(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 int
		winner Player
	}{
		{"player 1 leads", 3, 1, Player1},
		{"player 2 leads", 0, 2, Player2},
		{"tie goes to player 2", 4, 4, Player2},
		{"scoreless tie", 0, 0, Player2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatch()
			m.SelectMode(ModeTimed)
			for i := 0; i < tt.p1; i++ {
				m.GoalScored(GoalTop)
			}
			for i := 0; i < tt.p2; i++ {
				m.GoalScored(GoalBottom)
			}
			for m.TimerTick() && m.Running() {
			}
			if m.Winner() != tt.winner {
				t.Errorf("Expected %s, got %s", tt.winner, m.Winner())
			}
		})
	}
}

func TestMatchTimerTickRequiresTimedRunning(t *testing.T) {
	m := NewMatch()
	if m.TimerTick() {
		t.Error("TimerTick on menu should be a no-op")
	}
	m.SelectMode(ModeFirstTo10)
	if m.TimerTick() {
		t.Error("TimerTick in first_to_10 should be a no-op")
	}
	if m.TimeLeft() != RoundSeconds {
		t.Errorf("timeLeft should be untouched, got %d", m.TimeLeft())
	}
}

func TestMatchGoalOnMenuIgnored(t *testing.T) {
	m := NewMatch()
	if m.GoalScored(GoalTop) {
		t.Error("GoalScored on menu should be a no-op")
	}
	if m.Score1() != 0 {
		t.Errorf("Expected score1 0, got %d", m.Score1())
	}
}

// TestMatchRestart verifies restart is only legal from finished and always
// yields the same initial state
func TestMatchRestart(t *testing.T) {
	m := NewMatch()
	if m.Restart() {
		t.Error("Restart from menu should be a no-op")
	}
	m.SelectMode(ModeTimed)
	if m.Restart() {
		t.Error("Restart while running should be a no-op")
	}

	finishers := []func(*Match){
		func(m *Match) {
			m.SelectMode(ModeFirstTo10)
			for i := 0; i < WinScore; i++ {
				m.GoalScored(GoalTop)
			}
		},
		func(m *Match) {
			m.SelectMode(ModeFirstTo10)
			for i := 0; i < WinScore; i++ {
				m.GoalScored(GoalBottom)
			}
		},
		func(m *Match) {
			m.SelectMode(ModeTimed)
			m.GoalScored(GoalTop)
			for m.TimerTick() && m.Running() {
			}
		},
	}

	initial := *NewMatch()
	for i, finish := range finishers {
		m := NewMatch()
		finish(m)
		if !m.Finished() {
			t.Fatalf("finisher %d did not finish the match", i)
		}
		if !m.Restart() {
			t.Fatalf("finisher %d: Restart rejected", i)
		}
		if *m != initial {
			t.Errorf("finisher %d: restart state %+v, want %+v", i, *m, initial)
		}
	}
}

func TestEvaluateFirstTo(t *testing.T) {
	tests := []struct {
		mode   Mode
		s1, s2 int
		want   Player
	}{
		{ModeFirstTo10, 0, 0, PlayerNone},
		{ModeFirstTo10, 9, 9, PlayerNone},
		{ModeFirstTo10, 10, 3, Player1},
		{ModeFirstTo10, 4, 10, Player2},
		{ModeFirstTo10, 12, 2, Player1},
		{ModeTimed, 10, 0, PlayerNone},
		{ModeNone, 10, 0, PlayerNone},
	}

	for _, tt := range tests {
		if got := evaluateFirstTo(tt.mode, tt.s1, tt.s2); got != tt.want {
			t.Errorf("evaluateFirstTo(%s, %d, %d) = %s, want %s", tt.mode, tt.s1, tt.s2, got, tt.want)
		}
	}
}
