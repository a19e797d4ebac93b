package feed

// Bucket is the three-tier presentation classification of an insider score.
type Bucket string

const (
	BucketHigh    Bucket = "high"
	BucketMedium  Bucket = "medium"
	BucketLow     Bucket = "low"
	BucketUnknown Bucket = "unknown"
)

// BucketThresholds holds the business-rule cutoffs for score bucketing.
// These are configuration, not derived data.
type BucketThresholds struct {
	High   float64
	Medium float64
}

// DefaultBucketThresholds mirrors the dashboard's original cutoffs.
var DefaultBucketThresholds = BucketThresholds{High: 80, Medium: 60}

// Bucket classifies a score. A nil score is unknown, not low.
func (t BucketThresholds) Bucket(score *float64) Bucket {
	if score == nil {
		return BucketUnknown
	}

	switch {
	case *score >= t.High:
		return BucketHigh
	case *score >= t.Medium:
		return BucketMedium
	default:
		return BucketLow
	}
}
