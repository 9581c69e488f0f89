package telguarder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
)

// lookupPayload is the outbound body of a lookup request.
type lookupPayload struct {
	Numbers []PhoneNumber `json:"numbers"`
}

// normalizeNumbers validates and normalizes raw input before any network
// traffic. The first invalid number fails the whole batch.
func normalizeNumbers(raw []string) ([]PhoneNumber, error) {
	if len(raw) == 0 {
		return nil, NewInvalidInputError("no phone numbers given")
	}
	numbers := make([]PhoneNumber, 0, len(raw))
	for _, r := range raw {
		phone, err := NewPhoneNumber(r)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, phone)
	}
	return numbers, nil
}

// newLookupRequest builds a fully formed outbound request: resolved URL,
// JSON body, credential and identification headers. It has no side effects.
func (c *Client) newLookupRequest(ctx context.Context, numbers []PhoneNumber) (*http.Request, error) {
	body, err := json.Marshal(lookupPayload{Numbers: numbers})
	if err != nil {
		return nil, NewInvalidInputError("encoding lookup payload").WithCause(err)
	}

	u := c.baseURL.JoinPath(lookupPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, NewInvalidInputError("building lookup request").WithCause(err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
	return req, nil
}
