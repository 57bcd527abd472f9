package arena

import (
	"net/url"
	"strings"

	"github.com/Taichi-iskw/arena-merge/internal/errors"
)

// ResolveIdentifier turns a channel slug, numeric ID or channel URL into the
// path segment the API accepts. URLs resolve to their last non-empty path segment,
// so "https://www.are.na/someone/arena-influences/" becomes "arena-influences".
func ResolveIdentifier(identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", errors.New(errors.CodeInvalidArg, "channel identifier is required")
	}

	path := identifier
	if strings.Contains(identifier, "://") {
		u, err := url.Parse(identifier)
		if err != nil {
			return "", errors.Wrap(err, errors.CodeInvalidArg, "invalid channel URL")
		}
		path = u.Path
	}

	segment := lastSegment(path)
	if segment == "" {
		return "", errors.New(errors.CodeInvalidArg, "channel identifier has no slug or ID: "+identifier)
	}
	return segment, nil
}

func lastSegment(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	return parts[len(parts)-1]
}
