// Package pagination reads the skip/limit query parameters list endpoints
// accept.
package pagination

import (
	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Params is a parsed skip/limit pair.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads skip and limit. offset is accepted in place of skip.
// Malformed or negative values fall back to the defaults; limit is capped at
// MaxLimit.
func FromContext(c echo.Context) Params {
	p := Params{Limit: DefaultLimit}
	if n, ok := intParam(c, "limit"); ok && n > 0 {
		p.Limit = min(n, MaxLimit)
	}
	offset, ok := intParam(c, "skip")
	if !ok {
		offset, ok = intParam(c, "offset")
	}
	if ok && offset > 0 {
		p.Offset = offset
	}
	return p
}

func intParam(c echo.Context, name string) (int, bool) {
	if c.QueryParam(name) == "" {
		return 0, false
	}
	var n int
	if err := echo.QueryParamsBinder(c).Int(name, &n).BindError(); err != nil {
		return 0, false
	}
	return n, true
}
