package binder

import (
	"fmt"
	"net/http"
	"net/url"
)

// Query creates a binder for URL query parameters.
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		values, err := url.ParseQuery(r.URL.RawQuery)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
		}
		return bindToStruct(v, "query", values, ErrInvalidQuery)
	}
}
