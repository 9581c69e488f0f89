package telguarder

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// wireResult mirrors one entry of the service's JSON payload.
type wireResult struct {
	Number string   `json:"number"`
	Status string   `json:"status"`
	Name   string   `json:"name"`
	Score  *float64 `json:"score"`
}

// wireEnvelope is the batch response shape: {"results": [...]}.
type wireEnvelope struct {
	Results []wireResult `json:"results"`
}

// parseLookupResponse decodes a success-status payload into LookupResults.
// The service answers either with a results envelope or, for single lookups,
// with a bare result object. Anything else is a contract mismatch and fails
// with a decode error; a classification is never guessed from malformed input.
func parseLookupResponse(body []byte, requested []PhoneNumber, now time.Time) (*LookupResults, error) {
	var env wireEnvelope
	envErr := json.Unmarshal(body, &env)
	if envErr == nil && env.Results == nil {
		// Bare single-result payload.
		var single wireResult
		if err := json.Unmarshal(body, &single); err == nil && single.Status != "" {
			env.Results = []wireResult{single}
		}
	}
	if envErr != nil {
		return nil, NewDecodeError("response is not valid JSON").WithCause(envErr)
	}
	if len(env.Results) == 0 {
		return nil, NewDecodeError("response contains no results")
	}

	out := &LookupResults{Results: make([]LookupResult, 0, len(env.Results))}
	for i, wr := range env.Results {
		classification, err := ParseClassification(wr.Status)
		if err != nil {
			return nil, NewDecodeError(fmt.Sprintf("result %d: %v", i, err))
		}

		number, err := resolveNumber(wr.Number, i, requested)
		if err != nil {
			return nil, err
		}

		result := LookupResult{
			Number:         number,
			Classification: classification,
			Name:           wr.Name,
			CheckedAt:      now,
		}
		if wr.Score != nil {
			result.Score = *wr.Score
		}
		out.Results = append(out.Results, result)
	}
	return out, nil
}

// resolveNumber prefers the number echoed by the service and falls back to
// the requested one when the payload omits it.
func resolveNumber(echoed string, index int, requested []PhoneNumber) (PhoneNumber, error) {
	if echoed != "" {
		number, err := NewPhoneNumber(echoed)
		if err != nil {
			return PhoneNumber{}, NewDecodeError(
				fmt.Sprintf("result %d: service returned unparseable number %q", index, echoed))
		}
		return number, nil
	}
	if index < len(requested) {
		return requested[index], nil
	}
	return PhoneNumber{}, NewDecodeError(fmt.Sprintf("result %d: no number in payload", index))
}

// remoteError maps an error-status response to the remote error taxonomy.
// Retry eligibility is limited to rate-limited responses; everything else
// surfaces immediately.
func remoteError(resp *http.Response, body []byte, now time.Time) *Error {
	snippet := string(body)
	if len(snippet) > 256 {
		snippet = snippet[:256]
	}

	var err *Error
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		err = NewRemoteError(CodeUnauthorized, "credential rejected by service", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		err = NewRemoteError(CodeNotFound, "no record for request", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter, _ := parseRetryAfter(resp, now)
		err = NewRateLimitError("request rate limited by service", resp.StatusCode, retryAfter)
	case resp.StatusCode >= 500:
		err = NewRemoteError(CodeServerError,
			fmt.Sprintf("service failed with status %d", resp.StatusCode), resp.StatusCode)
	default:
		err = NewRemoteError(CodeClientError,
			fmt.Sprintf("service rejected request with status %d", resp.StatusCode), resp.StatusCode)
	}
	err.RawBody = body
	if snippet != "" {
		err.Message = err.Message + ": " + snippet
	}
	return err
}
