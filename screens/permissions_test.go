package screens

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissions(t *testing.T) {
	ctx := context.Background()
	n := &recordingNotifier{}
	p := NewPermissions(n)

	assert.Equal(t, Unknown, p.State(Location))
	assert.True(t, p.Allowed(Location))

	p.Report(ctx, Location, false)
	p.Report(ctx, Location, false)
	assert.False(t, p.Allowed(Location))
	p.Report(ctx, Location, true)
	assert.Equal(t, Granted, p.State(Location))
	p.Report(ctx, Location, false)

	p.Report(ctx, MediaLibrary, false)
	assert.Equal(t, []string{deniedMessages[Location], deniedMessages[MediaLibrary]}, n.messages())

	states := p.States()
	assert.Len(t, states, 3)
	assert.Equal(t, Denied, states[MediaLibrary])
	assert.Equal(t, Unknown, states[Camera])
}

func TestParseCapability(t *testing.T) {
	c, err := ParseCapability("media-library")
	assert.NoError(t, err)
	assert.Equal(t, MediaLibrary, c)
	_, err = ParseCapability("microphone")
	assert.Error(t, err)
}
