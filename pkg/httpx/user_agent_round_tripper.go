package httpx

import (
	"fmt"
	"net/http"
)

// UserAgentRoundTripper stamps every request with a descriptive client
// identifier, as required by the marketplace API.
type UserAgentRoundTripper struct {
	next      http.RoundTripper
	userAgent string
}

func NewUserAgentRoundTripper(
	next http.RoundTripper,
	userAgent string,
) UserAgentRoundTripper {
	return UserAgentRoundTripper{
		next:      next,
		userAgent: userAgent,
	}
}

func (rt UserAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("user-agent", rt.userAgent)

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	return resp, nil
}
