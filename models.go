package telguarder

import (
	"fmt"
	"time"
)

// Classification is the service's verdict for a phone number.
type Classification string

const (
	ClassificationTrusted Classification = "trusted"
	ClassificationSpam    Classification = "spam"
	ClassificationUnknown Classification = "unknown"
)

// ParseClassification maps the wire status field to a Classification.
// Unrecognized values are rejected rather than defaulted.
func ParseClassification(status string) (Classification, error) {
	switch Classification(status) {
	case ClassificationTrusted, ClassificationSpam, ClassificationUnknown:
		return Classification(status), nil
	}
	return "", fmt.Errorf("unrecognized status %q", status)
}

// LookupResult is the decoded outcome of a single lookup. Immutable value
// object owned by the caller.
type LookupResult struct {
	Number         PhoneNumber    `json:"number"`
	Classification Classification `json:"classification"`
	Name           string         `json:"name,omitempty"`
	Score          float64        `json:"score,omitempty"`
	CheckedAt      time.Time      `json:"checked_at"`
}

// IsSpam reports whether the service flagged the number.
func (r LookupResult) IsSpam() bool {
	return r.Classification == ClassificationSpam
}

// LookupResults holds the outcome of a batch lookup, in request order where
// the service preserves it.
type LookupResults struct {
	Results []LookupResult `json:"results"`
}
