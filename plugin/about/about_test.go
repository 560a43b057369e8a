package about

import (
	"testing"
	"time"

	"github.com/Brawl345/pixabot/utils"
	"github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAboutText(t *testing.T) {
	text := aboutText(utils.VersionInfo{
		GoVersion:  "go1.22.0",
		GoOS:       "linux",
		GoArch:     "amd64",
		Revision:   "abc123",
		LastCommit: time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC),
		DirtyBuild: true,
	})

	assert.Contains(t, text, "<code>abc123</code>")
	assert.Contains(t, text, "Comitted on 01.05.2024, 12:30:00 Uhr</i> (dirty)")
	assert.Contains(t, text, "go1.22.0 (linux/amd64)")

	assert.Contains(t, aboutText(utils.VersionInfo{}), "<code>unknown</code>")
}

func TestTrigger(t *testing.T) {
	p := &Plugin{}
	handlers := p.Handlers(&gotgbot.User{Username: "pixabot"})
	require.Len(t, handlers, 1)

	trigger := handlers[0].Command().(interface{ MatchString(string) bool })
	assert.True(t, trigger.MatchString("/start"))
	assert.True(t, trigger.MatchString("/about@pixabot"))
	assert.False(t, trigger.MatchString("/started"))
}
