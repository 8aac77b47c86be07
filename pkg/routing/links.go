package routing

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/joeydtaylor/steeze-dispatch/pkg/route"
)

var (
	ErrNoAddress    = errors.New("routing: no endpoint with that address")
	ErrMissingValue = errors.New("routing: required route value missing")
)

// Link generates a path for the endpoint addressed by name. Parameters take
// values first, then the endpoint defaults, then inline template defaults. An
// optional parameter with no value ends the path. Values the template does not
// consume, and that differ from the defaults, become the query string.
func (ds *DataSource) Link(name string, values route.Values) (string, error) {
	ep, ok := ds.EndpointByName(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoAddress, name)
	}
	return expand(ep, values)
}

func expand(ep *Endpoint, values route.Values) (string, error) {
	used := map[string]bool{}
	var b strings.Builder

segments:
	for _, seg := range ParseTemplate(ep.Template) {
		if !seg.IsParam() {
			b.WriteString("/")
			b.WriteString(seg.Literal)
			continue
		}
		v := values.String(seg.Param)
		if v == "" {
			v = ep.Defaults.String(seg.Param)
		}
		if v == "" {
			v = seg.Default
		}
		used[strings.ToLower(seg.Param)] = true
		switch {
		case v != "":
		case seg.Optional || seg.CatchAll:
			break segments
		default:
			return "", fmt.Errorf("%w: %q for %q", ErrMissingValue, seg.Param, ep.Template)
		}
		b.WriteString("/")
		if seg.CatchAll {
			b.WriteString(v)
		} else {
			b.WriteString(url.PathEscape(v))
		}
	}

	path := b.String()
	if path == "" {
		path = "/"
	}

	q := url.Values{}
	for _, k := range values.Keys() {
		if used[strings.ToLower(k)] {
			continue
		}
		v := values.String(k)
		if def, ok := ep.Defaults.Get(k); ok && fmt.Sprint(def) == v {
			continue
		}
		q.Set(k, v)
	}
	if len(q) == 0 {
		return path, nil
	}
	return path + "?" + q.Encode(), nil
}
