package param

import "context"

type Fetcher interface {
	Fetch(context.Context, string) (string, error)
}

// Static serves parameters from memory, keyed by path.
type Static map[string]string

func (s Static) Fetch(_ context.Context, path string) (string, error) {
	v, ok := s[path]
	if !ok {
		return "", &NotFoundError{Path: path}
	}
	return v, nil
}

type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return "parameter " + e.Path + " not found"
}
