package common

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetIDParam extracts and decodes an id path parameter.
// Ids name directories in the project root, so the decoded value must not be
// empty, contain whitespace or path separators, or be a dot segment.
func GetIDParam(r *http.Request, paramName string) (string, error) {
	decoded, err := url.PathUnescape(chi.URLParam(r, paramName))
	if err != nil {
		return "", fmt.Errorf("invalid URL encoding in %s", paramName)
	}

	switch {
	case strings.TrimSpace(decoded) == "":
		return "", fmt.Errorf("%s cannot be empty", paramName)
	case strings.ContainsAny(decoded, " \t\n\r"):
		return "", fmt.Errorf("%s cannot contain whitespace", paramName)
	case strings.ContainsAny(decoded, `/\`):
		return "", fmt.Errorf("%s cannot contain path separators", paramName)
	case decoded == "." || decoded == "..":
		return "", fmt.Errorf("%s is not a valid id", paramName)
	}
	return decoded, nil
}
