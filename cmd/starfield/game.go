package main

import (
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/frankfika/thanksgiving/internal/host"
	"github.com/frankfika/thanksgiving/internal/layout"
	"github.com/frankfika/thanksgiving/internal/render"
	"github.com/frankfika/thanksgiving/internal/scene"
)

// Game is the Ebitengine game struct. It owns input and drawing; the
// starfield state lives in the engine, the scene and the host.
type Game struct {
	width, height int

	loop     *layout.FrameLoop
	engine   *layout.Engine
	scene    *scene.Scene
	host     *host.Host
	renderer *render.Renderer
	log      *zap.Logger

	chars    []rune
	touchIDs []ebiten.TouchID
	touch    ebiten.TouchID
	touching bool
	inside   bool
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene, g.host)
}

// Layout implements ebiten.Game. The logical size is fixed; the engine's
// viewport was sampled from it at startup.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if err := g.updateKeys(); err != nil {
		return err
	}
	g.updatePointer()

	g.loop.Advance(time.Second / time.Duration(ebiten.TPS()))
	g.host.Poll()
	return nil
}

func (g *Game) updateKeys() error {
	_, carded := g.host.Selected()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if carded {
			g.host.ClearSelection()
			return nil
		}
		return ebiten.Termination
	}
	if carded {
		return nil
	}

	in := g.host.Input()
	g.chars = ebiten.AppendInputChars(g.chars[:0])
	in.Insert(g.chars...)
	if repeating(ebiten.KeyBackspace) {
		in.Backspace()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter) {
		err := g.host.SubmitInput()
		switch {
		case err == nil:
			g.log.Debug("submitted star")
		case errors.Is(err, host.ErrEmptyText):
		default:
			g.log.Info("submission refused", zap.Error(err))
		}
	}
	return nil
}

// repeating reports a key press, then auto-repeat after half a second.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	return d == 1 || (d >= 30 && d%3 == 0)
}

func (g *Game) updatePointer() {
	if _, ok := g.host.Selected(); ok {
		g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || len(g.touchIDs) > 0 {
			g.host.ClearSelection()
			g.scene.PointerLeave()
			g.touching = false
		}
		return
	}
	if g.updateTouch() {
		return
	}

	x, y := ebiten.CursorPosition()
	if x < 0 || y < 0 || x >= g.width || y >= g.height || !ebiten.IsFocused() {
		if g.inside {
			g.scene.PointerLeave()
			g.inside = false
		}
		return
	}
	g.inside = true

	fx, fy := float64(x), float64(y)
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		g.scene.PointerDown(fx, fy)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		g.scene.PointerUp(fx, fy)
	default:
		g.scene.PointerMove(fx, fy)
	}
}

// updateTouch follows the first finger down. It reports whether a touch
// gesture owns the pointer this frame.
func (g *Game) updateTouch() bool {
	if !g.touching {
		g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
		if len(g.touchIDs) == 0 {
			return false
		}
		g.touch = g.touchIDs[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touch)
		g.scene.PointerDown(float64(x), float64(y))
		return true
	}

	if inpututil.IsTouchJustReleased(g.touch) {
		x, y := inpututil.TouchPositionInPreviousTick(g.touch)
		g.scene.PointerUp(float64(x), float64(y))
		g.scene.PointerLeave()
		g.touching = false
		return true
	}
	x, y := ebiten.TouchPosition(g.touch)
	g.scene.PointerMove(float64(x), float64(y))
	return true
}

// Close stops the simulation and abandons any pending submission.
func (g *Game) Close() {
	g.scene.Close()
	g.engine.Stop()
	g.host.Close()
}
