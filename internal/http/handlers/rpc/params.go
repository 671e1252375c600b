package rpc

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// ParamError reports a path or query value that could not be coerced to
// the type the node method expects.
type ParamError struct {
	Name   string
	Value  string
	Reason string
}

func (e *ParamError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("parameter %q: %s", e.Name, e.Reason)
	}

	return fmt.Sprintf("parameter %q=%q: %s", e.Name, e.Value, e.Reason)
}

// params reads typed values from a request and keeps the first coercion
// failure, so an endpoint can read everything and check Err once.
type params struct {
	r     *http.Request
	query url.Values
	err   error
}

func newParams(r *http.Request) *params {
	return &params{r: r, query: r.URL.Query()}
}

func (p *params) Err() error {
	return p.err
}

func (p *params) fail(name, value, reason string) {
	if p.err == nil {
		p.err = &ParamError{Name: name, Value: value, Reason: reason}
	}
}

func (p *params) pathString(name string) string {
	return chi.URLParam(p.r, name)
}

func (p *params) pathInt64(name string) int64 {
	raw := chi.URLParam(p.r, name)

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(name, raw, "must be an integer")
	}

	return v
}

func (p *params) pathInt(name string) int {
	return int(p.pathInt64(name))
}

func (p *params) requiredString(name string) string {
	if !p.query.Has(name) {
		p.fail(name, "", "is required")
		return ""
	}

	return p.query.Get(name)
}

func (p *params) requiredInt(name string) int {
	if !p.query.Has(name) {
		p.fail(name, "", "is required")
		return 0
	}

	return p.intOr(name, 0)
}

func (p *params) optString(name string) *string {
	if !p.query.Has(name) {
		return nil
	}

	v := p.query.Get(name)
	return &v
}

func (p *params) intOr(name string, def int) int {
	v := p.optInt64(name)
	if v == nil {
		return def
	}

	return int(*v)
}

func (p *params) optInt(name string) *int {
	v := p.optInt64(name)
	if v == nil {
		return nil
	}

	i := int(*v)
	return &i
}

func (p *params) optInt64(name string) *int64 {
	if !p.query.Has(name) {
		return nil
	}

	raw := p.query.Get(name)

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		p.fail(name, raw, "must be an integer")
		return nil
	}

	return &v
}

func (p *params) boolOr(name string, def bool) bool {
	v := p.optBool(name)
	if v == nil {
		return def
	}

	return *v
}

func (p *params) optBool(name string) *bool {
	if !p.query.Has(name) {
		return nil
	}

	raw := p.query.Get(name)

	v, ok := parseBool(raw)
	if !ok {
		p.fail(name, raw, "must be a boolean")
		return nil
	}

	return &v
}

// stringList collects a repeated parameter, ?stats=a&stats=b, and also
// splits comma separated values.
func (p *params) stringList(name string) []string {
	var out []string
	for _, raw := range p.query[name] {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}

	return out
}

func (p *params) intList(name string) []int {
	var out []int
	for _, raw := range p.stringList(name) {
		v, err := strconv.Atoi(raw)
		if err != nil {
			p.fail(name, raw, "must be a list of integers")
			return nil
		}
		out = append(out, v)
	}

	return out
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "1", "t", "true", "y", "yes", "on":
		return true, true
	case "0", "f", "false", "n", "no", "off":
		return false, true
	}

	return false, false
}
