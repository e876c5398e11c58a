package authflow

import (
	"net/url"
	"strings"
)

const (
	// DefaultTarget is where users land when no safe return path exists.
	DefaultTarget = "/dashboard"

	// authPrefix covers the auth subsystem's own routes; returning into
	// them after login would loop.
	authPrefix = "/auth"
)

// SafeNext reduces a candidate post-login return path to one that is safe
// to redirect to. Three rules:
//
//  1. any nested "next" query parameter is stripped, preventing redirect
//     chains;
//  2. anything that is not a same-origin relative path (a scheme or host is
//     present, or the path does not start with "/") falls back to
//     DefaultTarget — this is the open-redirect defense;
//  3. paths under the auth route prefix fall back to DefaultTarget.
//
// Applied both when constructing the login redirect and when consuming the
// stored after_login value at callback time. Idempotent.
func SafeNext(candidate string) string {
	if candidate == "" {
		return DefaultTarget
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return DefaultTarget
	}
	if u.Scheme != "" || u.Host != "" || u.User != nil || !strings.HasPrefix(u.Path, "/") {
		return DefaultTarget
	}
	// Schemeless network-path references ("//evil.example/x") parse with an
	// empty Host on some inputs; reject the double-slash form outright.
	if strings.HasPrefix(candidate, "//") {
		return DefaultTarget
	}
	if u.Path == authPrefix || strings.HasPrefix(u.Path, authPrefix+"/") {
		return DefaultTarget
	}

	query := u.Query()
	query.Del("next")

	target := u.Path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}
