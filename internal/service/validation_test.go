package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{"a@b.co", "teacher@school.edu", "first.last+tag@sub.example.org", "élodie@école.fr"}
	invalid := []string{
		"", "plain", "a@b", "@b.co", "a@.", "a b@c.de", "a@b c.de", "a@@b.co",
		"a\u00a0b@school.edu",
		"a@school\u2003x.edu",
		"a\u3000@school.edu",
		"a@school.edu\ufeff",
		"a\vb@school.edu",
	}

	for _, email := range valid {
		assert.Nil(t, validateEmail(email), email)
	}
	for _, email := range invalid {
		assert.NotNil(t, validateEmail(email), email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NotNil(t, validatePassword(""))
	assert.NotNil(t, validatePassword("12345"))
	assert.Nil(t, validatePassword("123456"))

	t.Run("counts characters, not bytes", func(t *testing.T) {
		assert.NotNil(t, validatePassword("äöü"))
		assert.NotNil(t, validatePassword("日本語パス"))
		assert.Nil(t, validatePassword("äöüßéè"))
	})
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "teacher@school.edu", normalizeEmail("  Teacher@School.EDU "))
}

func TestProviderFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  string
		ok    bool
	}{
		{label: "Google", want: "google", ok: true},
		{label: "  Continue with Microsoft ", want: "microsoft", ok: true},
		{label: "Sign in with GitHub", want: "github", ok: true},
		{label: "Sign in with Yahoo", want: "yahoo", ok: true},
		{label: "   ", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got, ok := providerFromLabel(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderDisplayName(t *testing.T) {
	assert.Equal(t, "Google", providerDisplayName("google"))
	assert.Equal(t, "", providerDisplayName(""))
	assert.Equal(t, "Ébay", providerDisplayName("ébay"))
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "jane", want: "Jane"},
		{in: "élodie", want: "Élodie"},
		{in: "ölçek", want: "Ölçek"},
		{in: "\xff", want: "\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, capitalize(tt.in))
		})
	}
}
