package merge

import "fmt"

// DefaultMaxSamplesPerCurve bounds the frame grid of a single property.
const DefaultMaxSamplesPerCurve = 1_000_000

// NewQuotaError creates a MergeError for a grid over the sample limit.
func NewQuotaError(binding string, samples int64, limit int) *MergeError {
	return &MergeError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("curve needs %d samples, limit is %d", samples, limit),
		Binding: binding,
		Details: map[string]string{
			"samples":     fmt.Sprintf("%d", samples),
			"max_samples": fmt.Sprintf("%d", limit),
		},
	}
}

// checkSampleQuota fails when samples exceeds limit.
func checkSampleQuota(binding string, samples int64, limit int) error {
	if samples > int64(limit) {
		return NewQuotaError(binding, samples, limit)
	}
	return nil
}
