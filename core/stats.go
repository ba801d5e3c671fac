package core

import (
	"math"
	"math/rand/v2"
	"sort"
)

// syntheticSampleSize is the number of pseudo-observations drawn per side when
// a column has numeric moments but no retained sample values.
const syntheticSampleSize = 100

// minSampleSize is the smallest sample the KS test will accept per side.
// Below this the test has essentially no power and we report no signal.
const minSampleSize = 5

// ksResult holds the outcome of a two-sample Kolmogorov-Smirnov test.
type ksResult struct {
	Statistic float64 // D, the supremum distance between empirical CDFs
	PValue    float64
	OK        bool // False when either sample was too small to test
}

// ksTwoSample runs a two-sample Kolmogorov-Smirnov test and returns the D
// statistic with its asymptotic p-value.
func ksTwoSample(a, b []float64) ksResult {
	if len(a) < minSampleSize || len(b) < minSampleSize {
		return ksResult{}
	}

	as := make([]float64, len(a))
	bs := make([]float64, len(b))
	copy(as, a)
	copy(bs, b)
	sort.Float64s(as)
	sort.Float64s(bs)

	// Walk both sorted samples computing the max CDF gap.
	var d float64
	var i, j int
	na, nb := float64(len(as)), float64(len(bs))
	for i < len(as) && j < len(bs) {
		va, vb := as[i], bs[j]
		if va <= vb {
			i++
		}
		if vb <= va {
			j++
		}
		gap := math.Abs(float64(i)/na - float64(j)/nb)
		if gap > d {
			d = gap
		}
	}

	en := math.Sqrt(na * nb / (na + nb))
	p := ksPValue((en + 0.12 + 0.11/en) * d)
	return ksResult{Statistic: d, PValue: p, OK: true}
}

// ksPValue evaluates the asymptotic Kolmogorov distribution complement
// Q(lambda) = 2 * sum_{j>=1} (-1)^(j-1) * exp(-2 j^2 lambda^2).
func ksPValue(lambda float64) float64 {
	if lambda <= 0 {
		return 1.0
	}
	term2 := -2.0 * lambda * lambda
	var sum, sign float64
	sign = 1.0
	for j := 1; j <= 100; j++ {
		term := sign * 2.0 * math.Exp(term2*float64(j)*float64(j))
		sum += term
		if math.Abs(term) < 1e-10 {
			break
		}
		sign = -sign
	}
	if sum < 0 {
		return 0
	}
	if sum > 1 {
		return 1
	}
	return sum
}

// drawNormalSample draws n pseudo-observations from Normal(mean, std).
// Callers must ensure std > 0; determinism is not required here because the
// test result only gates a finding, it is not the finding's magnitude.
func drawNormalSample(mean, std float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = mean + std*rand.NormFloat64()
	}
	return out
}

// jaccardDistance computes 1 - |intersection| / |union| for two sets.
// An empty union means the sets carry no information, so the distance is 0.
func jaccardDistance(a, b map[string]struct{}) float64 {
	union := len(a)
	inter := 0
	for v := range b {
		if _, ok := a[v]; ok {
			inter++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return 1.0 - float64(inter)/float64(union)
}

// setDiff returns elements of a not present in b, sorted, capped at limit.
func setDiff(a, b map[string]struct{}, limit int) []string {
	var out []string
	for v := range a {
		if _, ok := b[v]; !ok {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
