// Package policy expresses access control as an explicit value computed per
// (resource, verb) pair. Handlers never carry permission conditionals; a
// single gate resolves the policy from the request verb and enforces it
// before any handler or storage logic runs.
package policy

import "net/http"

// Policy is the access-control decision attached to a resource+verb pair.
type Policy int

const (
	// Open requires no caller identity.
	Open Policy = iota

	// AuthenticatedOnly requires a valid, active caller identity.
	AuthenticatedOnly

	// AdminOnly requires an active caller with the staff or superuser flag.
	AdminOnly
)

// String returns the policy name for logging.
func (p Policy) String() string {
	switch p {
	case Open:
		return "open"
	case AuthenticatedOnly:
		return "authenticated"
	case AdminOnly:
		return "admin"
	default:
		return "unknown"
	}
}

// PerVerb holds the effective policy for each HTTP verb of one route.
// Verbs that are not explicitly listed resolve to AdminOnly, so an
// unconfigured method fails closed rather than open.
type PerVerb struct {
	Get    Policy
	Post   Policy
	Put    Policy
	Patch  Policy
	Delete Policy

	configured map[string]bool
}

// Verbs builds a PerVerb table from explicit (method, policy) assignments.
func Verbs(assignments map[string]Policy) PerVerb {
	pv := PerVerb{configured: make(map[string]bool, len(assignments))}
	for method, p := range assignments {
		switch method {
		case http.MethodGet:
			pv.Get = p
		case http.MethodPost:
			pv.Post = p
		case http.MethodPut:
			pv.Put = p
		case http.MethodPatch:
			pv.Patch = p
		case http.MethodDelete:
			pv.Delete = p
		default:
			continue
		}
		pv.configured[method] = true
	}
	return pv
}

// All returns a PerVerb table applying the same policy to every verb.
func All(p Policy) PerVerb {
	return Verbs(map[string]Policy{
		http.MethodGet:    p,
		http.MethodPost:   p,
		http.MethodPut:    p,
		http.MethodPatch:  p,
		http.MethodDelete: p,
	})
}

// ForVerb resolves the effective policy for the given HTTP method.
// It is called exactly once per request, before the handler executes.
func (pv PerVerb) ForVerb(method string) Policy {
	if !pv.configured[method] {
		return AdminOnly
	}

	switch method {
	case http.MethodGet:
		return pv.Get
	case http.MethodPost:
		return pv.Post
	case http.MethodPut:
		return pv.Put
	case http.MethodPatch:
		return pv.Patch
	case http.MethodDelete:
		return pv.Delete
	default:
		return AdminOnly
	}
}
