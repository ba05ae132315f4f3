package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPlainString(t *testing.T) {
	out, err := Render("hello", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRenderContextField(t *testing.T) {
	out, err := Render("order {{.order_id}} for {{.customer}}", map[string]any{
		"order_id": "o-17",
		"customer": "acme",
	})
	require.NoError(t, err)
	assert.Equal(t, "order o-17 for acme", out)
}

func TestRenderParseError(t *testing.T) {
	_, err := Render("{{.broken", nil)
	assert.Error(t, err)
}
