package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBundle(t *testing.T) {
	b := NewBundle("fr")

	assert.Equal(t, "fr", b.Resolve(""))
	assert.Equal(t, "fr", b.Resolve("de"))
	assert.Equal(t, "en", b.Resolve("en"))

	assert.Equal(t, "Finale", b.T("fr", "match.final"))
	assert.Equal(t, "Final", b.T("en", "match.final"))
	assert.Equal(t, "Finale", b.T("de", "match.final"), "unknown language falls back to the default")
	assert.Equal(t, "missing.key", b.T("fr", "missing.key"))
}

func TestBundleUnknownDefault(t *testing.T) {
	b := NewBundle("de")
	assert.Equal(t, "fr", b.DefaultLang())
}

func TestBundleFromRequest(t *testing.T) {
	b := NewBundle("fr")

	r := httptest.NewRequest(http.MethodGet, "/programs?lang=en", nil)
	assert.Equal(t, "en", b.FromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/programs", nil)
	r.AddCookie(&http.Cookie{Name: LangCookie, Value: "en"})
	assert.Equal(t, "en", b.FromRequest(r))

	// Query beats cookie.
	r = httptest.NewRequest(http.MethodGet, "/programs?lang=fr", nil)
	r.AddCookie(&http.Cookie{Name: LangCookie, Value: "en"})
	assert.Equal(t, "fr", b.FromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/programs", nil)
	assert.Equal(t, "fr", b.FromRequest(r))
}
