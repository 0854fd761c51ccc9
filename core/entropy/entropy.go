// Package entropy screens raw share values for structural regularities that
// could indicate a deliberately weakened sharing transform. It runs on the
// field-element bytes before puzzle locking, since the property being
// checked is whether the sharing itself introduced structure.
package entropy

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"
)

var (
	ErrLowEntropy = errors.New("entropy: sample below entropy floor")
	ErrBitBias    = errors.New("entropy: bit distribution statistically implausible")
)

// DefaultAlpha is the confidence level of the bias test: a sample is flagged
// when its bit-count deviation has a two-sided tail probability below this,
// in either direction.
const DefaultAlpha = 1e-4

// ShannonEntropy returns the per-byte entropy of data in bits: 0 for
// constant data, approaching 8 for uniformly random data of a few hundred
// bytes or more. An m-byte buffer is capped at log2(m) regardless of its
// source.
func ShannonEntropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	var counts [256]int
	for _, b := range data {
		counts[b]++
	}
	total := float64(len(data))
	result := 0.0
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		result -= p * math.Log2(p)
	}
	return result
}

// BiasTest reports whether the 0/1 bit balance of data is statistically
// implausible at confidence alpha under a fair-coin model. Both directions
// are suspicious: a heavily skewed count, and a balance so exact that honest
// randomness would almost never produce it (real randomness fluctuates
// around 0.5, it does not sit on it).
func BiasTest(data []byte, alpha float64) bool {
	n := float64(len(data) * 8)
	if n == 0 {
		return false
	}
	ones := 0
	for _, b := range data {
		ones += bits.OnesCount8(b)
	}

	// For k ~ Binomial(n, 1/2), the deviation |k − n/2| has standard
	// deviation √n/2 under the normal approximation.
	deviation := math.Abs(float64(ones) - n/2)
	sigma := math.Sqrt(n) / 2

	// P(|K − n/2| ≥ deviation): too skewed.
	pSkewed := math.Erfc(deviation / (sigma * math.Sqrt2))
	if pSkewed < alpha {
		return true
	}

	// P(|K − n/2| ≤ deviation): too perfectly balanced. The half-step
	// continuity correction keeps the discrete tail honest.
	pBalanced := math.Erf((deviation + 0.5) / (sigma * math.Sqrt2))
	return pBalanced < alpha
}

// Validate accepts a raw share encoding or reports why it was rejected.
func Validate(data []byte, entropyFloor float64, alpha float64) error {
	if e := ShannonEntropy(data); e < entropyFloor {
		return errors.WithMessagef(ErrLowEntropy, "%.2f < %.2f bits", e, entropyFloor)
	}
	if BiasTest(data, alpha) {
		return ErrBitBias
	}
	return nil
}
