package game

import (
	"errors"
	"testing"
)

func TestArenaGeometry(t *testing.T) {
	a := DefaultArena()

	if !a.Valid() {
		t.Fatal("Default arena should be valid")
	}
	if c := a.Center(); c != (Vector2{169, 289}) {
		t.Errorf("Expected center (169,289), got %+v", c)
	}
	if a.PuckMaxX() != 338 || a.PuckMaxY() != 578 {
		t.Errorf("Expected puck limits 338/578, got %v/%v", a.PuckMaxX(), a.PuckMaxY())
	}

	tests := []struct {
		side   Side
		region Region
		spawn  Vector2
	}{
		{SideBottom, Region{MinX: 0, MaxX: 280, MinY: 300, MaxY: 500}, Vector2{140, 500}},
		{SideTop, Region{MinX: 0, MaxX: 280, MinY: 20, MaxY: 220}, Vector2{140, 20}},
	}
	for _, tt := range tests {
		t.Run(tt.side.String(), func(t *testing.T) {
			if r := a.PaddleRegion(tt.side); r != tt.region {
				t.Errorf("Expected region %+v, got %+v", tt.region, r)
			}
			spawn := a.PaddleSpawn(tt.side)
			if spawn != tt.spawn {
				t.Errorf("Expected spawn %+v, got %+v", tt.spawn, spawn)
			}
			if !a.PaddleRegion(tt.side).Contains(spawn) {
				t.Error("Spawn point must lie inside the legal region")
			}
		})
	}
}

func TestArenaValid(t *testing.T) {
	tests := []struct {
		name  string
		arena Arena
		valid bool
	}{
		{"default", DefaultArena(), true},
		{"wide and tall", Arena{Width: 800, Height: 1200}, true},
		{"minimum height", Arena{Width: 360, Height: 2 * (PaddleSize + PaddleMargin)}, true},
		{"narrower than paddle", Arena{Width: 79, Height: 600}, false},
		{"too short for regions", Arena{Width: 360, Height: 150}, false},
		{"zero", Arena{}, false},
		{"negative", Arena{Width: -360, Height: -600}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.arena.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestRegionClamp(t *testing.T) {
	r := DefaultArena().PaddleRegion(SideBottom)

	tests := []struct {
		name string
		in   Vector2
		want Vector2
	}{
		{"inside", Vector2{100, 400}, Vector2{100, 400}},
		{"corner min", Vector2{-10, -10}, Vector2{0, 300}},
		{"corner max", Vector2{1e6, 1e6}, Vector2{280, 500}},
		{"edge", Vector2{280, 300}, Vector2{280, 300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Clamp(tt.in)
			if got != tt.want {
				t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if !r.Contains(got) {
				t.Errorf("Clamped point %+v outside region", got)
			}
		})
	}
}

func TestRectOverlaps(t *testing.T) {
	paddle := Rect{X: 140, Y: 500, W: PaddleSize, H: PaddleSize}

	tests := []struct {
		name string
		box  Rect
		want bool
	}{
		{"inside", Rect{X: 150, Y: 520, W: PuckSize, H: PuckSize}, true},
		{"partial", Rect{X: 130, Y: 490, W: PuckSize, H: PuckSize}, true},
		{"touching top", Rect{X: 150, Y: 478, W: PuckSize, H: PuckSize}, false},
		{"touching left", Rect{X: 118, Y: 520, W: PuckSize, H: PuckSize}, false},
		{"touching right", Rect{X: 220, Y: 520, W: PuckSize, H: PuckSize}, false},
		{"far", Rect{X: 0, Y: 0, W: PuckSize, H: PuckSize}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.Overlaps(paddle); got != tt.want {
				t.Errorf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := paddle.Overlaps(tt.box); got != tt.want {
				t.Errorf("Overlaps should be symmetric")
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
		err  bool
	}{
		{"first_to_10", ModeFirstTo10, false},
		{"First-To-10", ModeFirstTo10, false},
		{" timed ", ModeTimed, false},
		{"1_minute", ModeTimed, false},
		{"", ModeNone, true},
		{"sudden_death", ModeNone, true},
	}

	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.err {
			if !errors.Is(err, ErrInvalidMode) {
				t.Errorf("ParseMode(%q) error = %v, want ErrInvalidMode", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
		err  bool
	}{
		{"bottom", SideBottom, false},
		{"1", SideBottom, false},
		{"Player1", SideBottom, false},
		{"top", SideTop, false},
		{"2", SideTop, false},
		{"left", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if tt.err {
			if !errors.Is(err, ErrInvalidSide) {
				t.Errorf("ParseSide(%q) error = %v, want ErrInvalidSide", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseSide(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestSideOwnerAndGoalScorer(t *testing.T) {
	if SideBottom.Owner() != Player1 || SideTop.Owner() != Player2 {
		t.Error("Bottom paddle belongs to Player 1, top to Player 2")
	}
	if GoalTop.Scorer() != Player1 || GoalBottom.Scorer() != Player2 || GoalNone.Scorer() != PlayerNone {
		t.Error("Unexpected goal scorer mapping")
	}
}
