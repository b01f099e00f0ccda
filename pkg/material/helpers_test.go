package material

import "github.com/df07/go-pathtracer/pkg/core"

// fixedSampler replays a fixed list of values in order, wrapping around
type fixedSampler struct {
	values []float64
	next   int
}

func newFixedSampler(values ...float64) *fixedSampler {
	return &fixedSampler{values: values}
}

func (s *fixedSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func (s *fixedSampler) Get2D() core.Vec2 { return core.NewVec2(s.Get1D(), s.Get1D()) }
func (s *fixedSampler) Get3D() core.Vec3 { return core.NewVec3(s.Get1D(), s.Get1D(), s.Get1D()) }
