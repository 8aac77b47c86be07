package invoke

import (
	"context"
	"encoding/json"
	"net/http"
)

// RegisterBuiltins binds the handlers every server ships with:
//
//	echo    route values, plus the JSON request body under "body"
//	health  {"status":"ok"}
func RegisterBuiltins(hs *Handlers) {
	hs.Register("echo", echo)
	hs.Register("health", func(context.Context, *Request) (any, int, error) {
		return map[string]string{"status": "ok"}, http.StatusOK, nil
	})
}

func echo(_ context.Context, req *Request) (any, int, error) {
	out := map[string]any{}
	for k, v := range req.Values {
		out[k] = v
	}
	if len(req.Body) > 0 {
		var body any
		if err := json.Unmarshal(req.Body, &body); err != nil {
			return nil, http.StatusBadRequest, err
		}
		out["body"] = body
	}
	return out, 0, nil
}
