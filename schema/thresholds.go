package schema

// Default detection thresholds. Each can be overridden through configuration;
// the zero value of Thresholds is not usable, callers should start from
// DefaultThresholds and adjust.
const (
	DefaultNumericMeanThreshold  = 0.1
	DefaultVarianceThreshold     = 0.3
	DefaultMissingRateThreshold  = 0.1
	DefaultCategoricalThreshold  = 0.2
	DefaultDistributionAlpha     = 0.05
	DefaultEpsilon               = 1e-6
)

// Thresholds carries the tunable cutoffs for the statistical drift detector.
type Thresholds struct {
	NumericMean       float64 // Relative mean change above which a mean shift is flagged
	Variance          float64 // Relative std change above which a variance shift is flagged
	MissingRate       float64 // Absolute missing-rate change above which a shift is flagged
	Categorical       float64 // Jaccard distance above which a categorical shift is flagged
	DistributionAlpha float64 // KS test p-value below which a distribution shift is flagged
	Epsilon           float64 // Floor for denominators to avoid division by zero
}

// DefaultThresholds returns the standard threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		NumericMean:       DefaultNumericMeanThreshold,
		Variance:          DefaultVarianceThreshold,
		MissingRate:       DefaultMissingRateThreshold,
		Categorical:       DefaultCategoricalThreshold,
		DistributionAlpha: DefaultDistributionAlpha,
		Epsilon:           DefaultEpsilon,
	}
}

// Sanitize replaces non-positive or out-of-range values with defaults so a
// partially populated Thresholds never divides by zero or flags everything.
func (t Thresholds) Sanitize() Thresholds {
	d := DefaultThresholds()
	if t.NumericMean <= 0 {
		t.NumericMean = d.NumericMean
	}
	if t.Variance <= 0 {
		t.Variance = d.Variance
	}
	if t.MissingRate <= 0 {
		t.MissingRate = d.MissingRate
	}
	if t.Categorical <= 0 {
		t.Categorical = d.Categorical
	}
	if t.DistributionAlpha <= 0 || t.DistributionAlpha >= 1 {
		t.DistributionAlpha = d.DistributionAlpha
	}
	if t.Epsilon <= 0 {
		t.Epsilon = d.Epsilon
	}
	return t
}
