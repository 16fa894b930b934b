package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// canonical prefixes v and rejects anything semver cannot order.
func canonical(s string) (string, error) {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(s), "v")
	if !semver.IsValid(v) {
		return "", fmt.Errorf("invalid version %q", s)
	}
	return v, nil
}

// Compare returns 1 if a is newer than b, -1 if older and 0 if equal.
// Pre-releases sort before their release.
func Compare(a, b string) (int, error) {
	av, err := canonical(a)
	if err != nil {
		return 0, err
	}

	bv, err := canonical(b)
	if err != nil {
		return 0, err
	}

	return semver.Compare(av, bv), nil
}
