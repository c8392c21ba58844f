package main

import (
	"fmt"

	"air-hockey/internal/game"

	"github.com/gdamore/tcell/v2"
)

var (
	styleBorder       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleMarkings     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	stylePuck         = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	stylePaddleBottom = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0x00, 0xe5, 0xff))
	stylePaddleTop    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0xff, 0x76, 0x75))
	styleText         = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleHighlight    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.NewRGBColor(0x00, 0xe5, 0xff))
)

// layout maps arena pixels onto terminal cells. The board keeps the
// arena's aspect ratio, assuming cells roughly twice as tall as wide.
type layout struct {
	left, top      int // first interior cell
	cols, rows     int // interior size in cells
	scaleX, scaleY float64
}

func newLayout(arena game.Arena, screenW, screenH int) layout {
	// Two rows are reserved for the HUD, two columns and rows for the border
	maxRows := screenH - 4
	maxCols := screenW - 2
	if maxRows < 1 {
		maxRows = 1
	}
	if maxCols < 1 {
		maxCols = 1
	}

	rows := maxRows
	cols := int(float64(rows) * 2 * arena.Width / arena.Height)
	if cols > maxCols {
		cols = maxCols
		rows = int(float64(cols) / 2 * arena.Height / arena.Width)
		if rows < 1 {
			rows = 1
		}
	}
	if cols < 1 {
		cols = 1
	}

	return layout{
		left:   (screenW - cols) / 2,
		top:    1,
		cols:   cols,
		rows:   rows,
		scaleX: float64(cols) / arena.Width,
		scaleY: float64(rows) / arena.Height,
	}
}

// cell converts an arena point to a screen cell, clamped to the interior.
func (l layout) cell(x, y float64) (int, int) {
	col := int(x * l.scaleX)
	row := int(y * l.scaleY)
	col = min(max(col, 0), l.cols-1)
	row = min(max(row, 0), l.rows-1)
	return l.left + col, l.top + row
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func drawCentered(s tcell.Screen, l layout, y int, style tcell.Style, text string) {
	drawText(s, l.left+(l.cols-len(text))/2, y, style, text)
}

func drawBoard(s tcell.Screen, l layout) {
	left, right := l.left-1, l.left+l.cols
	top, bottom := l.top-1, l.top+l.rows

	for x := left + 1; x < right; x++ {
		s.SetContent(x, top, '─', nil, styleBorder)
		s.SetContent(x, bottom, '─', nil, styleBorder)
	}
	for y := top + 1; y < bottom; y++ {
		s.SetContent(left, y, '│', nil, styleBorder)
		s.SetContent(right, y, '│', nil, styleBorder)
	}
	s.SetContent(left, top, '╭', nil, styleBorder)
	s.SetContent(right, top, '╮', nil, styleBorder)
	s.SetContent(left, bottom, '╰', nil, styleBorder)
	s.SetContent(right, bottom, '╯', nil, styleBorder)

	mid := l.top + l.rows/2
	for x := l.left; x < l.left+l.cols; x++ {
		s.SetContent(x, mid, '┄', nil, styleMarkings)
	}
}

func drawPaddle(s tcell.Screen, l layout, p game.PaddleSnapshot, style tcell.Style) {
	x0, y0 := l.cell(p.X, p.Y)
	x1, y1 := l.cell(p.X+game.PaddleSize-1, p.Y+game.PaddleSize-1)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			s.SetContent(x, y, '█', nil, style)
		}
	}
}

func drawSnapshot(s tcell.Screen, l layout, snap *game.GameSnapshot) {
	drawBoard(s, l)
	drawPaddle(s, l, snap.Top, stylePaddleTop)
	drawPaddle(s, l, snap.Bottom, stylePaddleBottom)

	px, py := l.cell(snap.Puck.X+game.PuckSize/2, snap.Puck.Y+game.PuckSize/2)
	s.SetContent(px, py, '●', nil, stylePuck)

	hud := l.top + l.rows + 1
	status := fmt.Sprintf("P1 %d : %d P2", snap.Score1, snap.Score2)
	if snap.Mode == game.ModeTimed {
		status += fmt.Sprintf("   %ds", snap.TimeLeft)
	}
	drawCentered(s, l, hud, styleText, status)
	drawCentered(s, l, hud+1, styleMarkings, "arrows: P1  wasd: P2  q: quit")

	mid := l.top + l.rows/2
	switch snap.Phase {
	case game.PhaseMenu:
		drawCentered(s, l, mid-2, styleText, "AIR HOCKEY")
		drawCentered(s, l, mid, styleHighlight, " [1] First to 10 ")
		drawCentered(s, l, mid+2, styleHighlight, " [2] 1 Minute Match ")
	case game.PhaseFinished:
		drawCentered(s, l, mid-1, styleText, fmt.Sprintf("%s Wins", snap.Winner))
		drawCentered(s, l, mid+1, styleHighlight, " [r] Restart ")
	}
}
