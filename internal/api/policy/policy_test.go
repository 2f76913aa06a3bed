package policy

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForVerb(t *testing.T) {
	t.Parallel()

	// The product detail table: GET open, mutations admin-only.
	detail := Verbs(map[string]Policy{
		http.MethodGet:    Open,
		http.MethodPut:    AdminOnly,
		http.MethodPatch:  AdminOnly,
		http.MethodDelete: AdminOnly,
	})

	assert.Equal(t, Open, detail.ForVerb(http.MethodGet))
	assert.Equal(t, AdminOnly, detail.ForVerb(http.MethodPut))
	assert.Equal(t, AdminOnly, detail.ForVerb(http.MethodPatch))
	assert.Equal(t, AdminOnly, detail.ForVerb(http.MethodDelete))

	// Unconfigured verbs fail closed.
	assert.Equal(t, AdminOnly, detail.ForVerb(http.MethodPost))
	assert.Equal(t, AdminOnly, detail.ForVerb("TRACE"))
}

func TestAll(t *testing.T) {
	t.Parallel()

	open := All(Open)
	for _, method := range []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete,
	} {
		assert.Equal(t, Open, open.ForVerb(method))
	}

	authed := All(AuthenticatedOnly)
	assert.Equal(t, AuthenticatedOnly, authed.ForVerb(http.MethodGet))
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "open", Open.String())
	assert.Equal(t, "authenticated", AuthenticatedOnly.String())
	assert.Equal(t, "admin", AdminOnly.String())
	assert.Equal(t, "unknown", Policy(99).String())
}
