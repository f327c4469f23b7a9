package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/ericfisherdev/cloudpanel/internal/domain/model"
)

// tokenMarkers are the substrings that make an environment variable a
// hosting token candidate.
var tokenMarkers = []string{"CLOUD_TOKEN", "VERCEL_TOKEN"}

// IsTokenCandidate reports whether name looks like a hosting token variable.
func IsTokenCandidate(name string) bool {
	for _, m := range tokenMarkers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}

// TokenCandidates returns the sorted names of variables in environ (KEY=VALUE
// pairs, as from os.Environ) that look like hosting tokens and are non-empty.
// Only names are returned; values stay in the environment.
func TokenCandidates(environ []string) []string {
	names := []string{}
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !IsTokenCandidate(name) {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// ResolveToken reads the credential stored in the candidate variable name.
func ResolveToken(name string) (model.Credential, error) {
	if !IsTokenCandidate(name) {
		return model.Credential{}, fmt.Errorf("%q is not a token variable", name)
	}
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return model.Credential{}, fmt.Errorf("%s is not set", name)
	}
	return model.Credential{Token: value, Source: name}, nil
}

// EnvTokens reads token candidates from the process environment.
type EnvTokens struct{}

// Candidates lists token variable names set in the process environment.
func (EnvTokens) Candidates() []string {
	return TokenCandidates(os.Environ())
}

// Resolve reads the named candidate variable.
func (EnvTokens) Resolve(name string) (model.Credential, error) {
	return ResolveToken(name)
}
