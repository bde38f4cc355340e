package main

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/blockfall/debugui"
	"github.com/plus3/blockfall/engine"
	"github.com/plus3/blockfall/input"
	"github.com/plus3/blockfall/scheduler"
	"golang.org/x/image/colornames"
)

const (
	sidePanelWidth  = 160
	debugPanelWidth = 420

	// Held movement keys repeat after repeatDelay ticks, every repeatEvery ticks.
	repeatDelay = 12
	repeatEvery = 3
)

var (
	background = color.RGBA{R: 16, G: 16, B: 24, A: 255}
	gridLine   = color.RGBA{R: 48, G: 48, B: 64, A: 255}
)

type binding struct {
	key    ebiten.Key
	cmd    engine.Command
	repeat bool
}

var bindings = []binding{
	{ebiten.KeyArrowLeft, engine.MoveLeft, true},
	{ebiten.KeyA, engine.MoveLeft, true},
	{ebiten.KeyArrowRight, engine.MoveRight, true},
	{ebiten.KeyD, engine.MoveRight, true},
	{ebiten.KeyArrowDown, engine.SoftDrop, true},
	{ebiten.KeyS, engine.SoftDrop, true},
	{ebiten.KeyArrowUp, engine.Rotate, false},
	{ebiten.KeyW, engine.Rotate, false},
	{ebiten.KeySpace, engine.Rotate, false},
}

// Game adapts the engine to ebiten.Game. Update turns key presses into queued
// commands and runs one scheduler frame with the wall-clock delta.
type Game struct {
	engine    *engine.Engine
	scheduler *scheduler.Scheduler
	queue     *input.Queue
	blockSize int

	width, height int
	last          time.Time

	imgui      *debugui.Backend
	imguiInput *debugui.InputState
}

func newGame(e *engine.Engine, sched *scheduler.Scheduler, queue *input.Queue, blockSize int) *Game {
	g := &Game{
		engine:    e,
		scheduler: sched,
		queue:     queue,
		blockSize: blockSize,
	}
	g.width, g.height = g.windowSize()
	return g
}

func (g *Game) windowSize() (int, int) {
	return g.engine.Cols()*g.blockSize + sidePanelWidth, g.engine.Rows() * g.blockSize
}

func pressed(b binding) bool {
	if inpututil.IsKeyJustPressed(b.key) {
		return true
	}
	if !b.repeat {
		return false
	}
	d := inpututil.KeyPressDuration(b.key)
	return d >= repeatDelay && (d-repeatDelay)%repeatEvery == 0
}

func (g *Game) handleKeys() {
	if g.imguiInput != nil && g.imguiInput.WantCaptureKeyboard {
		return
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.queue.Quit()
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.queue.Clear()
		g.engine.Reset()
		return
	}

	for _, b := range bindings {
		if pressed(b) {
			g.queue.Push(b.cmd)
		}
	}
}

func (g *Game) Update() error {
	now := time.Now()
	if g.last.IsZero() {
		g.last = now
	}
	dt := now.Sub(g.last)
	g.last = now

	g.handleKeys()
	if g.queue.Quitting() {
		return ebiten.Termination
	}

	if g.imgui != nil {
		g.imgui.BeginFrame()
	}
	g.scheduler.Once(dt)
	if g.imgui != nil {
		g.imgui.EndFrame()
	}
	return nil
}

func (g *Game) drawCell(screen *ebiten.Image, x, y int, c color.Color) {
	bs := float32(g.blockSize)
	vector.DrawFilledRect(screen, float32(x)*bs+1, float32(y)*bs+1, bs-2, bs-2, c, false)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	snap := g.engine.Snapshot()

	bs := float32(g.blockSize)
	wellW := float32(g.engine.Cols()) * bs
	wellH := float32(g.engine.Rows()) * bs
	vector.StrokeRect(screen, 0, 0, wellW, wellH, 1, gridLine, false)

	for y, row := range snap.Cells {
		for x, cell := range row {
			if cell.Filled {
				g.drawCell(screen, x, y, cell.Color)
			}
		}
	}
	for _, c := range snap.PieceCells {
		if c.Y >= 0 {
			g.drawCell(screen, c.X, c.Y, snap.PieceColor)
		}
	}

	textX := int(wellW) + 16
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("SCORE\n%d", snap.Score), textX, 16)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LEVEL\n%d", snap.Level), textX, 56)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("LINES\n%d", snap.Lines), textX, 96)
	ebitenutil.DebugPrintAt(screen, "arrows: move\nup: rotate\nR: restart\nQ: quit", textX, 146)

	if snap.State == engine.GameOver {
		vector.DrawFilledRect(screen, 0, wellH/2-24, wellW, 48, colornames.Black, false)
		ebitenutil.DebugPrintAt(screen, "GAME OVER\nPress R to restart", 16, int(wellH/2)-16)
	}

	if g.imgui != nil {
		g.imgui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.imgui != nil {
		g.imgui.Layout(outsideWidth, outsideHeight)
		return outsideWidth, outsideHeight
	}
	return g.width, g.height
}
