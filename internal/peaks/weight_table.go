package peaks

import "math"

// weightTable precomputes v^1.5 for every possible 8-bit sample so the
// flood fill never calls math.Pow in its inner loop. Using a lookup table
// instead of a live pow() call is a determinism/speed choice noted as
// acceptable by the design as long as the result stays strictly
// monotonic in v, which a table built once from math.Pow trivially is.
var weightTable [256]float64

func init() {
	for v := 0; v < 256; v++ {
		weightTable[v] = math.Pow(float64(v), 1.5)
	}
}

func weight(v uint8) float64 {
	return weightTable[v]
}
