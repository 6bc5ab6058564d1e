package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	subject, text, html, err := Render("welcome", map[string]any{
		"Email": "a@x.com",
		"Role":  "PATIENT",
	})
	require.NoError(t, err)

	assert.Equal(t, "Welcome to Telecare", subject)
	assert.Contains(t, text, "a@x.com")
	assert.Contains(t, text, "PATIENT")
	assert.Contains(t, html, "a@x.com")
	assert.Contains(t, html, "PATIENT")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("goodbye", nil)
	assert.Error(t, err)
}
