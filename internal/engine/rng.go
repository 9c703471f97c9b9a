package engine

// RNG is a xorshift64 generator. The sequence depends only on the seed, so
// anything generated from it is identical on every machine.
type RNG struct {
	state uint64
}

// NewRNG creates a generator. A zero seed is replaced by a fixed constant.
func NewRNG(seed uint64) *RNG {
	if seed == 0 {
		seed = 88172645463325252
	}
	return &RNG{state: seed}
}

// Next returns the next 64 random bits.
func (r *RNG) Next() uint64 {
	r.state ^= r.state << 13
	r.state ^= r.state >> 7
	r.state ^= r.state << 17
	return r.state
}

// Intn returns a value in [0, n). Non-positive n returns 0.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n)) //#nosec G115 -- n is positive
}

// Float returns a value in [0, 1).
func (r *RNG) Float() float64 {
	return float64(r.Next()&0x7FFFFFFFFFFFFFFF) / float64(0x8000000000000000)
}

// Bool returns a random boolean.
func (r *RNG) Bool() bool {
	return r.Next()&1 == 1
}
