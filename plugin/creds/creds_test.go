package creds

import (
	"testing"

	"github.com/Brawl345/pixabot/model"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
)

func TestCredentialsText(t *testing.T) {
	assert.Equal(t, "<i>Noch keine Schlüssel eingetragen</i>", credentialsText(nil))

	text := credentialsText([]model.Credential{
		{Name: "pixabay_api_key", Value: "123-abc"},
		{Name: "other", Value: "<x>"},
	})
	assert.Equal(t, "<b>pixabay_api_key</b>:\n<code>123-abc</code>\n<b>other</b>:\n<code>&lt;x&gt;</code>\n", text)
}

func TestHandlers(t *testing.T) {
	p := New(nil)
	handlers := p.Handlers(&gotgbot.User{Username: "pixabot"})
	assert.Len(t, handlers, 4)
	assert.Empty(t, p.Commands(), "admin commands are not listed")
}
