package flickr

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/mmcdole/photoviewer/internal/domain"
)

// Credential is the fixed query parameter sent with every API request
type Credential struct {
	Param string
	Value string
}

// BuildGetRequest builds a GET request against baseURL carrying the
// credential and params as query parameters. A caller parameter named like
// the credential is rejected rather than silently overriding it.
func BuildGetRequest(ctx context.Context, baseURL string, cred Credential, params url.Values) (*http.Request, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: %q has no scheme or host", domain.ErrMalformedURL, baseURL)
	}
	if cred.Param == "" {
		return nil, fmt.Errorf("%w: empty credential parameter name", domain.ErrMalformedURL)
	}
	if _, ok := params[cred.Param]; ok {
		return nil, fmt.Errorf("%w: %w %q", domain.ErrMalformedURL, domain.ErrParamCollision, cred.Param)
	}

	query := url.Values{}
	query.Set(cred.Param, cred.Value)
	for name, values := range params {
		for _, v := range values {
			query.Add(name, v)
		}
	}

	reqURL := url.URL{
		Scheme:   base.Scheme,
		Host:     base.Host,
		Path:     base.Path,
		RawQuery: query.Encode(),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedURL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
