package httpkit

import (
	"net/http"

	phttp "querycanon/internal/platform/net/http"
)

// Get mounts a no body handler under GET
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// Post mounts a no body handler under POST
func Post(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, Call(h))
}

// PostJSON mounts a validated JSON handler under POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PostJSONOptional is PostJSON where an empty body binds the zero value of T
func PostJSONOptional[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSONOptional(r, path, h)
}
