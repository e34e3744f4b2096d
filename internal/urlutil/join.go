package urlutil

import (
	"net/url"
	"path"
)

// JoinPath joins path segments onto a base URL, normalizing slashes so
// "https://a/" + "/callback" never yields a double slash.
func JoinPath(base string, paths ...string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}

	allPaths := append([]string{u.Path}, paths...)
	u.Path = path.Join(allPaths...)

	return u.String(), nil
}

// MustJoinPath is like JoinPath but panics on error, for URLs already
// validated at startup.
func MustJoinPath(base string, paths ...string) string {
	result, err := JoinPath(base, paths...)
	if err != nil {
		panic(err)
	}
	return result
}
