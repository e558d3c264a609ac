package renderer

import "math/rand"

// splitMix is a small rand.Source64 that is cheap to reseed, since every
// pixel reseeds its worker's generator
type splitMix struct {
	state uint64
}

func (s *splitMix) Seed(seed int64) {
	s.state = uint64(seed)
}

func (s *splitMix) Uint64() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

func (s *splitMix) Int63() int64 {
	return int64(s.Uint64() >> 1)
}

// NewPixelRandom returns a generator for one worker. Reseed it per pixel.
func NewPixelRandom() *rand.Rand {
	return rand.New(&splitMix{})
}
