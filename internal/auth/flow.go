package auth

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Flow is the authentication protocol generation used by a server.
type Flow int

const (
	// FlowLegacy is a Basic-auth GET of the team token endpoint (before 4.0.0).
	FlowLegacy Flow = iota + 1
	// FlowTransitional is a password grant POST to /sky/token (4.0.0 up to 6.1.0).
	FlowTransitional
	// FlowCurrent is a password grant POST to /sky/issuer/token (6.1.0 and later).
	FlowCurrent
)

// ErrInvalidServerVersion is returned when the probed version is not semver.
var ErrInvalidServerVersion = errors.New("invalid server version")

// Lower bounds, inclusive, of the transitional and current flows.
var (
	transitionalSince = semver.MustParse("4.0.0")
	currentSince      = semver.MustParse("6.1.0")
)

func (f Flow) String() string {
	switch f {
	case FlowLegacy:
		return "legacy"
	case FlowTransitional:
		return "transitional"
	case FlowCurrent:
		return "current"
	default:
		return fmt.Sprintf("Flow(%d)", int(f))
	}
}

// SelectFlow picks the flow for a server version.
func SelectFlow(version string) (Flow, error) {
	v, err := parseVersion(version)
	if err != nil {
		return 0, err
	}

	switch {
	case v.LessThan(transitionalSince):
		return FlowLegacy, nil
	case v.LessThan(currentSince):
		return FlowTransitional, nil
	default:
		return FlowCurrent, nil
	}
}

// UsesCSRF reports whether requests to a server of this version need the
// X-Csrf-Token header.
func UsesCSRF(version string) (bool, error) {
	v, err := parseVersion(version)
	if err != nil {
		return false, err
	}

	return v.LessThan(currentSince), nil
}

func parseVersion(version string) (*semver.Version, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidServerVersion, version, err)
	}

	return v, nil
}
