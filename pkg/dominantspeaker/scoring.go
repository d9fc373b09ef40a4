package dominantspeaker

import "math"

// binomial computes C(n, r) as a 64-bit integer. Callers guarantee
// 0 <= r <= n <= 50, which keeps every intermediate product within int64
// range when multiplies and divides are interleaved as below.
//
// Uses the symmetric identity C(n, r) = C(n, n-r) to iterate over the
// smaller of r and n-r, and multiplies-then-divides in the order
// t <- t*i/j so every intermediate stays an exact integer.
func binomial(n, r int64) int64 {
	if r < 0 || r > n {
		return 0
	}
	if r > n-r {
		r = n - r
	}
	if r == 0 {
		return 1
	}

	result := int64(1)
	for i := int64(1); i <= r; i++ {
		result = result * (n - r + i) / i
	}
	return result
}

// speechActivityScore returns the binomial log-likelihood speech-activity
// score for vL active slots out of nR, under a Bernoulli(p) null model
// penalized by an exponential prior with rate lambda:
//
//	log C(nR, vL) + vL*log(p) + (nR-vL)*log(1-p) - log(lambda) + lambda*vL
//
// The result is clamped below at MinSpeechActivityScore: scores are used
// as logarithm arguments and as denominators of relative-activity ratios,
// so they must stay strictly positive.
func speechActivityScore(vL, nR int64, p, lambda float64) float64 {
	c := binomial(nR, vL)
	score := math.Log(float64(c)) +
		float64(vL)*math.Log(p) +
		float64(nR-vL)*math.Log(1-p) -
		math.Log(lambda) +
		lambda*float64(vL)

	if score < MinSpeechActivityScore {
		return MinSpeechActivityScore
	}
	return score
}

// computeBigs recomputes a coarse-grained window bigs by partitioning
// littles into len(bigs) equal-length blocks of len(littles)/len(bigs)
// entries each, counting entries in each block strictly greater than
// threshold, and writing the count into the matching bigs slot.
//
// Returns true iff any bigs slot's value changed. Used for both the
// immediates->mediums and mediums->longs folds.
func computeBigs(littles, bigs []byte, threshold byte) bool {
	blockSize := len(littles) / len(bigs)
	changed := false

	for block := range bigs {
		start := block * blockSize
		var count byte
		for i := start; i < start+blockSize; i++ {
			if littles[i] > threshold {
				count++
			}
		}
		if bigs[block] != count {
			bigs[block] = count
			changed = true
		}
	}
	return changed
}
