package automation

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

// Scenario is a scripted sequence of input events for a headless run.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Events      []Event `yaml:"events"`
}

// Event fires at time At (seconds). With Every > 0 it repeats with that
// period until Until (0 means forever). Every set field is applied, in the
// order emitter, gravity, emit.
type Event struct {
	At      float64     `yaml:"at"`
	Every   float64     `yaml:"every,omitempty"`
	Until   float64     `yaml:"until,omitempty"`
	Emit    int         `yaml:"emit,omitempty"`
	Gravity *float64    `yaml:"gravity,omitempty"`
	Emitter *[2]float64 `yaml:"emitter,omitempty"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Validate checks every event and reports the first bad one.
func (s *Scenario) Validate() error {
	for i, ev := range s.Events {
		var msg string
		switch {
		case !finite(ev.At) || ev.At < 0:
			msg = "at must be >= 0"
		case !finite(ev.Every) || ev.Every < 0:
			msg = "every must be >= 0"
		case !finite(ev.Until) || ev.Until < 0:
			msg = "until must be >= 0"
		case ev.Emit < 0:
			msg = "emit must be >= 0"
		case ev.Gravity != nil && !finite(*ev.Gravity):
			msg = "gravity must be finite"
		case ev.Emitter != nil && !(finite(ev.Emitter[0]) && finite(ev.Emitter[1])):
			msg = "emitter must be finite"
		default:
			continue
		}
		return fmt.Errorf("%w: event %d: %s", dynamo.ErrParameterBounds, i, msg)
	}
	return nil
}

func (s *Scenario) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Player replays a Scenario as a sim.Driver. Each event fires once per
// period; a step longer than the period fires it repeatedly to catch up.
type Player struct {
	events []Event
	next   []float64
	done   []bool
	fired  int
}

func NewPlayer(s *Scenario) *Player {
	p := &Player{}
	if s != nil {
		p.events = append(p.events, s.Events...)
	}
	p.Rewind()
	return p
}

// Rewind returns every event to its first firing time.
func (p *Player) Rewind() {
	p.next = make([]float64, len(p.events))
	p.done = make([]bool, len(p.events))
	for i, ev := range p.events {
		p.next[i] = ev.At
	}
	p.fired = 0
}

// Fired is the total number of event firings so far.
func (p *Player) Fired() int { return p.fired }

func (p *Player) Drive(s *sim.Simulation, t float64) {
	for i, ev := range p.events {
		for !p.done[i] && p.next[i] <= t {
			if ev.Until > 0 && p.next[i] > ev.Until {
				p.done[i] = true
				break
			}
			apply(s, ev)
			p.fired++
			if ev.Every > 0 {
				p.next[i] += ev.Every
			} else {
				p.done[i] = true
			}
		}
	}
}

func apply(s *sim.Simulation, ev Event) {
	if ev.Emitter != nil {
		s.SetEmitterPosition(r2.Vec{X: ev.Emitter[0], Y: ev.Emitter[1]})
	}
	if ev.Gravity != nil {
		s.SetGravityDirection(*ev.Gravity)
	}
	if ev.Emit > 0 {
		s.Emit(ev.Emit)
	}
}

var _ sim.Driver = (*Player)(nil)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
