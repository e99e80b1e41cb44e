package gui

import (
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/sim"
)

var (
	ColBg       = rl.Black
	ColText     = rl.White
	ColBoundary = rl.White
	ColEmitter  = rl.NewColor(140, 140, 140, 255)
)

type App struct {
	Sim     *sim.Simulation
	Scene   config.SceneConfig
	Font    rl.Font
	Running bool

	customFont bool
	frameDt    float32
	log        *slog.Logger
}

// initWindow opens the window and caps the frame rate. Escape closes it.
func initWindow(sc config.SceneConfig) {
	rl.InitWindow(int32(sc.Width), int32(sc.Height), sc.Title)
	rl.SetTargetFPS(int32(sc.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)
}

// loadFont tries each configured font in order and falls back to the
// built-in raylib font with a warning.
func loadFont(paths []string, log *slog.Logger) (rl.Font, bool) {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		font := rl.LoadFontEx(p, 32, nil, 0)
		if font.Texture.ID == 0 {
			continue
		}
		rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
		return font, true
	}
	log.Warn("could not load font, text may not display properly", "tried", paths)
	return rl.GetFontDefault(), false
}

func NewApp(s *sim.Simulation, sc config.SceneConfig, log *slog.Logger) *App {
	if log == nil {
		log = slog.Default()
	}
	font, custom := loadFont(sc.Fonts, log)
	return &App{
		Sim:        s,
		Scene:      sc,
		Font:       font,
		Running:    true,
		customFont: custom,
		log:        log,
	}
}

// Run opens a window for cfg and blocks until it is closed.
func Run(cfg *config.Config, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	s, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build simulation: %w", err)
	}

	initWindow(cfg.Scene)
	defer rl.CloseWindow()

	app := NewApp(s, cfg.Scene, log)
	defer app.Close()

	log.Info("particle simulation started", "width", cfg.Scene.Width, "height", cfg.Scene.Height)
	log.Info("controls: mouse moves the emitter, left click emits, arrows set gravity")
	app.RunLoop()
	log.Info("window closed", "bodies", s.Len())
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		a.Update(rl.GetFrameTime())
		a.Draw()
	}
}

func (a *App) Close() {
	if a.customFont {
		rl.UnloadFont(a.Font)
	}
}

// Update applies one frame of input and advances the simulation by dt.
func (a *App) Update(dt float32) {
	a.frameDt = dt

	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		a.Sim.SetGravityDirection(sim.GravityUp)
	case rl.IsKeyPressed(rl.KeyDown):
		a.Sim.SetGravityDirection(sim.GravityDown)
	case rl.IsKeyPressed(rl.KeyLeft):
		a.Sim.SetGravityDirection(sim.GravityLeft)
	case rl.IsKeyPressed(rl.KeyRight):
		a.Sim.SetGravityDirection(sim.GravityRight)
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.Sim.Reset()
	}

	mouse := rl.GetMousePosition()
	a.Sim.SetEmitterPosition(r2.Vec{X: float64(mouse.X), Y: float64(mouse.Y)})

	if !a.Running {
		return
	}
	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		a.Sim.Emit(1)
	}
	a.Sim.Update(float64(dt))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawBodies()
	a.drawBoundary()
	a.drawEmitter()
	a.DrawHUD()

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	for i, line := range hudLines(a.frameDt, a.Sim.Len()) {
		size := 20
		if i == 0 {
			size = 24
		}
		a.drawText(line, 10, 10+30*i, size, ColText)
	}
	if !a.Running {
		a.drawText("PAUSED", a.Scene.Width-100, 10, 20, ColEmitter)
	}
	a.drawText("[MOUSE] EMITTER  [CLICK] EMIT  [ARROWS] GRAVITY  [SPACE] PAUSE  [R] RESET  [ESC] QUIT",
		10, a.Scene.Height-24, 14, ColEmitter)
}

// hudLines formats the frame counters shown in the top-left corner.
func hudLines(dt float32, count int) []string {
	fps := 0
	if dt > 0 {
		fps = int(1 / dt)
	}
	return []string{
		fmt.Sprintf("FPS: %d", fps),
		fmt.Sprintf("Frame Time: %.3f ms", dt*1000),
		fmt.Sprintf("Particle Count: %d", count),
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
