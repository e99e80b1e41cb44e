package dynamo

import (
	"fmt"
	"math"
)

// Config holds the physical and emission constants of a simulation. It is
// passed in at construction so tests can vary any constant without rebuilding.
type Config struct {
	// GravityStrength is the gravity acceleration magnitude in units/s².
	GravityStrength float64 `yaml:"gravity_strength" json:"gravity_strength"`
	// GravityDirection is the initial gravity direction in degrees.
	// 0 points to +x, 90 points to +y (down in screen space).
	GravityDirection float64 `yaml:"gravity_direction" json:"gravity_direction"`
	// Drag multiplies velocity once per sub-step, so the damping per second
	// depends on SubSteps and the frame rate; 1 disables it.
	Drag float64 `yaml:"drag" json:"drag"`
	// SubSteps splits every frame into equal integration passes.
	SubSteps int `yaml:"sub_steps" json:"sub_steps"`
	// MassFactor is k in mass = k * radius².
	MassFactor float64 `yaml:"mass_factor" json:"mass_factor"`

	BodyRadius   float64 `yaml:"body_radius" json:"body_radius"`
	InitialSpeed float64 `yaml:"initial_speed" json:"initial_speed"`
	// EmitMinAngle and EmitMaxAngle bound the sweeping spawn angle (radians).
	EmitMinAngle float64 `yaml:"emit_min_angle" json:"emit_min_angle"`
	EmitMaxAngle float64 `yaml:"emit_max_angle" json:"emit_max_angle"`
	// SweepRate is the angular frequency of the spawn sweep (rad/s).
	SweepRate float64 `yaml:"sweep_rate" json:"sweep_rate"`
	// HueRate advances the emission hue in degrees per second.
	HueRate    float64 `yaml:"hue_rate" json:"hue_rate"`
	Saturation float64 `yaml:"saturation" json:"saturation"`
	Value      float64 `yaml:"value" json:"value"`
	// EmitSpread fans a batch across this many radians around the spawn angle.
	EmitSpread float64 `yaml:"emit_spread" json:"emit_spread"`
	// MaxBodies caps the body count; 0 means unbounded.
	MaxBodies int `yaml:"max_bodies" json:"max_bodies"`

	// Epsilon is the distance below which normals fall back to +x.
	Epsilon float64 `yaml:"epsilon" json:"epsilon"`

	Parallel         bool `yaml:"parallel" json:"parallel"`
	ParallelMinChunk int  `yaml:"parallel_min_chunk" json:"parallel_min_chunk"`
}

func DefaultConfig() Config {
	return Config{
		GravityStrength:  350.0,
		GravityDirection: 90.0,
		Drag:             0.999,
		SubSteps:         4,
		MassFactor:       math.Pi,
		BodyRadius:       5.0,
		InitialSpeed:     250.0,
		EmitMinAngle:     math.Pi / 6,
		EmitMaxAngle:     5 * math.Pi / 6,
		SweepRate:        2.0,
		HueRate:          60.0,
		Saturation:       1.0,
		Value:            1.0,
		EmitSpread:       0,
		MaxBodies:        0,
		Epsilon:          1e-9,
		Parallel:         false,
		ParallelMinChunk: 256,
	}
}

// Validate reports the first out-of-range field, wrapped in ErrParameterBounds.
func (c Config) Validate() error {
	switch {
	case !finite(c.GravityStrength) || c.GravityStrength < 0:
		return boundsError("gravity_strength", c.GravityStrength, ">= 0")
	case !finite(c.GravityDirection):
		return boundsError("gravity_direction", c.GravityDirection, "finite")
	case !(c.Drag > 0 && c.Drag <= 1):
		return boundsError("drag", c.Drag, "in (0, 1]")
	case c.SubSteps < 1:
		return boundsError("sub_steps", float64(c.SubSteps), ">= 1")
	case !finite(c.MassFactor) || c.MassFactor <= 0:
		return boundsError("mass_factor", c.MassFactor, "> 0")
	case !finite(c.BodyRadius) || c.BodyRadius <= 0:
		return boundsError("body_radius", c.BodyRadius, "> 0")
	case !finite(c.InitialSpeed) || c.InitialSpeed < 0:
		return boundsError("initial_speed", c.InitialSpeed, ">= 0")
	case !finite(c.EmitMinAngle) || !finite(c.EmitMaxAngle) || c.EmitMinAngle > c.EmitMaxAngle:
		return boundsError("emit_min_angle", c.EmitMinAngle, "<= emit_max_angle")
	case !finite(c.SweepRate):
		return boundsError("sweep_rate", c.SweepRate, "finite")
	case !finite(c.HueRate):
		return boundsError("hue_rate", c.HueRate, "finite")
	case !finite(c.Saturation) || c.Saturation < 0 || c.Saturation > 1:
		return boundsError("saturation", c.Saturation, "in [0, 1]")
	case !finite(c.Value) || c.Value < 0 || c.Value > 1:
		return boundsError("value", c.Value, "in [0, 1]")
	case !finite(c.EmitSpread) || c.EmitSpread < 0:
		return boundsError("emit_spread", c.EmitSpread, ">= 0")
	case c.MaxBodies < 0:
		return boundsError("max_bodies", float64(c.MaxBodies), ">= 0")
	case !finite(c.Epsilon) || c.Epsilon <= 0 || c.Epsilon >= c.BodyRadius:
		return boundsError("epsilon", c.Epsilon, "in (0, body_radius)")
	case c.ParallelMinChunk < 1:
		return boundsError("parallel_min_chunk", float64(c.ParallelMinChunk), ">= 1")
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// SetParam sets a numeric field by its yaml name. Integer fields are
// truncated. The result is not validated.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "gravity_strength":
		c.GravityStrength = v
	case "gravity_direction":
		c.GravityDirection = v
	case "drag":
		c.Drag = v
	case "sub_steps":
		c.SubSteps = int(v)
	case "mass_factor":
		c.MassFactor = v
	case "body_radius":
		c.BodyRadius = v
	case "initial_speed":
		c.InitialSpeed = v
	case "emit_min_angle":
		c.EmitMinAngle = v
	case "emit_max_angle":
		c.EmitMaxAngle = v
	case "sweep_rate":
		c.SweepRate = v
	case "hue_rate":
		c.HueRate = v
	case "emit_spread":
		c.EmitSpread = v
	case "max_bodies":
		c.MaxBodies = int(v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}
