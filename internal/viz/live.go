package viz

import (
	"fmt"
	"image"
	"image/color"
	stdpalette "image/color/palette"
	"image/gif"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/particlesim/internal/physics"
	"github.com/san-kum/particlesim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	// maxFrameDt caps the measured tick interval so a stalled terminal does
	// not produce one huge step.
	maxFrameDt  = 1.0 / 15
	emitterStep = 10.0
	gifSize     = 240
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a Simulation from the terminal: arrow keys set gravity,
// wasd/hjkl move the emitter and space emits.
type Model struct {
	sim       *sim.Simulation
	name      string
	canvas    *Canvas
	running   bool
	autoEmit  bool
	showHelp  bool
	recording bool
	frames    []*image.Paletted
	gifPath   string

	energyHistory []float64
	countHistory  []float64

	lastTick  time.Time
	frameTime float64
	fps       float64

	log *slog.Logger
}

func NewModel(s *sim.Simulation, name string, log *slog.Logger) Model {
	if log == nil {
		log = slog.Default()
	}
	return Model{
		sim:           s,
		name:          name,
		canvas:        NewCanvas(width, height),
		running:       true,
		gifPath:       "particles.gif",
		energyHistory: make([]float64, 0, historyCapacity),
		countHistory:  make([]float64, 0, historyCapacity),
		log:           log,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.recording {
				m.saveGIF()
			}
			return m, tea.Quit
		case "up":
			m.sim.SetGravityDirection(sim.GravityUp)
		case "down":
			m.sim.SetGravityDirection(sim.GravityDown)
		case "left":
			m.sim.SetGravityDirection(sim.GravityLeft)
		case "right":
			m.sim.SetGravityDirection(sim.GravityRight)
		case "w", "k":
			m.moveEmitter(0, -emitterStep)
		case "s", "j":
			m.moveEmitter(0, emitterStep)
		case "a", "h":
			m.moveEmitter(-emitterStep, 0)
		case "d", "l":
			m.moveEmitter(emitterStep, 0)
		case " ":
			m.sim.Emit(1)
		case "e":
			m.autoEmit = !m.autoEmit
		case "p":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			NextTheme()
		case "g":
			if m.recording {
				m.saveGIF()
				m.recording = false
				m.frames = nil
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		dt := 1.0 / 60
		if !m.lastTick.IsZero() {
			dt = math.Min(now.Sub(m.lastTick).Seconds(), maxFrameDt)
		}
		m.lastTick = now
		if dt > 0 {
			m.frameTime = dt
			m.fps = 1 / dt
		}
		if m.running {
			m.step(dt)
		}
		if m.recording {
			m.captureFrame()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) moveEmitter(dx, dy float64) {
	m.sim.SetEmitterPosition(r2.Add(m.sim.EmitterPosition(), r2.Vec{X: dx, Y: dy}))
}

// step mirrors one frame of the window front-end: emit, then update.
func (m *Model) step(dt float64) {
	if m.autoEmit {
		m.sim.Emit(1)
	}
	m.sim.Update(dt)

	ke := 0.0
	m.sim.Each(func(_ int, b physics.Body) { ke += b.KineticEnergy() })
	m.energyHistory = pushHistory(m.energyHistory, ke)
	m.countHistory = pushHistory(m.countHistory, float64(m.sim.Len()))
}

func pushHistory(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) reset() {
	m.sim.Reset()
	m.energyHistory = m.energyHistory[:0]
	m.countHistory = m.countHistory[:0]
}

// View renders the TUI interface.
func (m Model) View() string {
	st := stylesFor(CurrentTheme)
	m.draw()
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render(GradientText(strings.ToUpper(m.name), CurrentTheme.Primary, CurrentTheme.Secondary)) + "\n")

	status := st.running.Render("RUNNING")
	if !m.running {
		status = st.paused.Render("PAUSED")
	}
	if m.recording {
		status += "  " + st.record.Render(fmt.Sprintf("REC %d", len(m.frames)))
	}
	s.WriteString(status + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Kinetic energy"))
		s.WriteString(st.graph.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(st.label.Render(label) + st.value.Render(value) + "\n")
	}
	em := m.sim.EmitterPosition()
	row("FPS", fmt.Sprintf("%d", int(m.fps)))
	row("Frame", fmt.Sprintf("%.3f ms", m.frameTime*1000))
	row("Bodies", fmt.Sprintf("%d", m.sim.Len()))
	row("Gravity", fmt.Sprintf("%.0f°", m.sim.GravityDirection()))
	row("Emitter", fmt.Sprintf("%.0f, %.0f", em.X, em.Y))
	row("Collisions", fmt.Sprintf("%d", m.sim.Collisions()))
	if m.autoEmit {
		row("Emit", "auto")
	} else {
		row("Emit", "manual")
	}
	s.WriteString(st.label.Render("Count") + st.Sparkline(m.countHistory, 24) + "\n")
	if limit := m.sim.Config().MaxBodies; limit > 0 {
		s.WriteString(st.label.Render("Capacity") + st.ProgressBar(float64(m.sim.Len())/float64(limit), 24) + "\n")
	}

	s.WriteString(st.help.Render("─────────────────────\n←↑↓→:Gravity WASD:Emitter\nSP:Emit E:Auto P:Pause R:Reset\nT:Theme G:Record ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.panel.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Arrows   - Point gravity            ║
║  W/A/S/D  - Move emitter (or HJKL)   ║
║  Space    - Emit one body            ║
║  E        - Toggle auto emission     ║
║  P        - Pause/Resume             ║
║  R        - Remove all bodies        ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
` + "\n\n" + mainView
	}
	return mainView
}

// project maps scene coordinates onto canvas sub-pixels, fitting the
// boundary circle to the shorter canvas side.
func (m *Model) project(p r2.Vec) (int, int, float64) {
	cw, ch := m.canvas.PixelSize()
	center, radius := m.sim.Boundary()
	scale := float64(min(cw, ch)-2) / (2 * radius)
	x := float64(cw)/2 + (p.X-center.X)*scale
	y := float64(ch)/2 + (p.Y-center.Y)*scale
	return int(math.Round(x)), int(math.Round(y)), scale
}

func (m *Model) draw() {
	m.canvas.Clear()

	center, radius := m.sim.Boundary()
	cx, cy, scale := m.project(center)
	m.canvas.DrawCircle(cx, cy, int(math.Round(radius*scale)))

	m.sim.Each(func(_ int, b physics.Body) {
		x, y, _ := m.project(b.Position())
		m.canvas.FillDisc(x, y, int(math.Round(b.Radius()*scale)))
	})

	ex, ey, _ := m.project(m.sim.EmitterPosition())
	m.canvas.DrawLine(ex-2, ey, ex+2, ey)
	m.canvas.DrawLine(ex, ey-2, ex, ey+2)
}

// captureFrame renders the bodies in their own colors for GIF export.
func (m *Model) captureFrame() {
	img := image.NewPaletted(image.Rect(0, 0, gifSize, gifSize), stdpalette.Plan9)
	black := uint8(img.Palette.Index(color.Black))
	for i := range img.Pix {
		img.Pix[i] = black
	}

	center, radius := m.sim.Boundary()
	scale := float64(gifSize-2) / (2 * radius)
	toPixel := func(p r2.Vec) (int, int) {
		return int(gifSize/2 + (p.X-center.X)*scale), int(gifSize/2 + (p.Y-center.Y)*scale)
	}

	white := uint8(img.Palette.Index(color.White))
	for a := 0.0; a < 2*math.Pi; a += 1 / (radius * scale) {
		x, y := toPixel(r2.Add(center, physics.FromAngle(a, radius)))
		img.SetColorIndex(x, y, white)
	}

	m.sim.Each(func(_ int, b physics.Body) {
		x, y := toPixel(b.Position())
		idx := uint8(img.Palette.Index(b.Color()))
		r := max(1, int(b.Radius()*scale))
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					img.SetColorIndex(x+dx, y+dy, idx)
				}
			}
		}
	})
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() {
	if len(m.frames) == 0 {
		return
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range m.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(m.gifPath)
	if err != nil {
		m.log.Error("create gif", "path", m.gifPath, "err", err)
		return
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		m.log.Error("encode gif", "path", m.gifPath, "err", err)
		return
	}
	m.log.Info("recording saved", "path", m.gifPath, "frames", len(m.frames))
}

// Run starts the terminal front-end and blocks until the user quits.
func Run(s *sim.Simulation, name string, log *slog.Logger) error {
	p := tea.NewProgram(NewModel(s, name, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
