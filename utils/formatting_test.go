package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatThousand(t *testing.T) {
	tests := map[int64]string{
		0:        "0",
		999:      "999",
		1000:     "1.000",
		1234567:  "1.234.567",
		-1234567: "-1.234.567",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatThousand(in))
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "&lt;b&gt;cats &amp; dogs&lt;/b&gt;", Escape("<b>cats &amp; dogs</b>"))
	assert.Equal(t, "it&#39;s", Escape("it's"))
}

func TestEmbedGUID(t *testing.T) {
	assert.Equal(t, "\n(<code>abc</code>)", EmbedGUID("abc"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "größ…", Truncate("größere Katze", 5))
	assert.Equal(t, "…", Truncate("abc", 1))
}
