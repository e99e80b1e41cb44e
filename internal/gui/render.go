package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/physics"
)

func vec2(p r2.Vec) rl.Vector2 { return rl.NewVector2(float32(p.X), float32(p.Y)) }

func toColor(c color.RGBA) rl.Color { return rl.NewColor(c.R, c.G, c.B, c.A) }

func (a *App) drawBodies() {
	a.Sim.Each(func(_ int, b physics.Body) {
		rl.DrawCircleV(vec2(b.Position()), float32(b.Radius()), toColor(b.Color()))
	})
}

func (a *App) drawBoundary() {
	center, radius := a.Sim.Boundary()
	rl.DrawCircleLines(int32(center.X), int32(center.Y), float32(radius), ColBoundary)
}

func (a *App) drawEmitter() {
	p := vec2(a.Sim.EmitterPosition())
	rl.DrawLineV(rl.NewVector2(p.X-6, p.Y), rl.NewVector2(p.X+6, p.Y), ColEmitter)
	rl.DrawLineV(rl.NewVector2(p.X, p.Y-6), rl.NewVector2(p.X, p.Y+6), ColEmitter)
}
