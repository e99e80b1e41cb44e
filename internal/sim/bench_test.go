package sim_test

import (
	"testing"

	"github.com/san-kum/particlesim/internal/dynamo"
	"github.com/san-kum/particlesim/internal/sim"
)

func benchmarkUpdate(b *testing.B, bodies int, parallel bool) {
	cfg := dynamo.DefaultConfig()
	cfg.Parallel = parallel
	s, err := sim.New(cfg, emitter, center, 350)
	if err != nil {
		b.Fatal(err)
	}
	for s.Len() < bodies {
		s.Emit(1)
		s.Update(1.0 / 120)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Update(1.0 / 60)
	}
}

func BenchmarkUpdate100(b *testing.B)         { benchmarkUpdate(b, 100, false) }
func BenchmarkUpdate500(b *testing.B)         { benchmarkUpdate(b, 500, false) }
func BenchmarkUpdate500Parallel(b *testing.B) { benchmarkUpdate(b, 500, true) }
func BenchmarkUpdate1000(b *testing.B)        { benchmarkUpdate(b, 1000, false) }

func BenchmarkEmit(b *testing.B) {
	cfg := dynamo.DefaultConfig()
	cfg.MaxBodies = 10000
	s, err := sim.New(cfg, emitter, center, 350)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if s.Len() >= cfg.MaxBodies {
			s.Reset()
		}
		s.Emit(1)
	}
}
