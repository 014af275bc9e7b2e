package screens

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bitbucket.org/kleinnic74/photomap/events"
	"bitbucket.org/kleinnic74/photomap/logging"
	"go.uber.org/zap"
)

// ErrPermissionDenied is returned by operations needing a capability the
// user did not grant
var ErrPermissionDenied = errors.New("permission denied")

type Capability string

const (
	Camera       = Capability("camera")
	Location     = Capability("location")
	MediaLibrary = Capability("media-library")
)

var deniedMessages = map[Capability]string{
	Camera:       "Permission to access the camera is required.",
	Location:     "Permission to access the location was denied, photos will not be geotagged.",
	MediaLibrary: "Permission to access the media library is required.",
}

// ParseCapability returns the capability with the given name
func ParseCapability(s string) (Capability, error) {
	c := Capability(s)
	if _, found := deniedMessages[c]; !found {
		return "", fmt.Errorf("unknown capability %q", s)
	}
	return c, nil
}

type PermissionState string

const (
	Unknown = PermissionState("unknown")
	Granted = PermissionState("granted")
	Denied  = PermissionState("denied")
)

// Notifier shows transient messages to the user
type Notifier interface {
	Notify(ctx context.Context, level events.Level, message string)
}

// Permissions tracks the capabilities granted on the device. The first
// denial of a capability is notified to the user, later ones are silent.
type Permissions struct {
	lock     sync.RWMutex
	states   map[Capability]PermissionState
	notified map[Capability]bool
	notifier Notifier
}

func NewPermissions(notifier Notifier) *Permissions {
	return &Permissions{
		states:   make(map[Capability]PermissionState),
		notified: make(map[Capability]bool),
		notifier: notifier,
	}
}

// Report records whether the user granted capability c
func (p *Permissions) Report(ctx context.Context, c Capability, granted bool) {
	state := Denied
	if granted {
		state = Granted
	}
	p.lock.Lock()
	p.states[c] = state
	notify := !granted && !p.notified[c]
	if notify {
		p.notified[c] = true
	}
	p.lock.Unlock()

	logging.From(ctx).Named("permissions").Debug("Permission reported",
		zap.String("capability", string(c)), zap.String("state", string(state)))
	if notify {
		p.notifier.Notify(ctx, events.Error, deniedMessages[c])
	}
}

func (p *Permissions) State(c Capability) PermissionState {
	p.lock.RLock()
	defer p.lock.RUnlock()
	if s, found := p.states[c]; found {
		return s
	}
	return Unknown
}

// States returns the state of every known capability
func (p *Permissions) States() map[Capability]PermissionState {
	out := make(map[Capability]PermissionState, len(deniedMessages))
	for c := range deniedMessages {
		out[c] = p.State(c)
	}
	return out
}

// Allowed reports whether c may be used, a capability never reported is
// assumed to be granted
func (p *Permissions) Allowed(c Capability) bool {
	return p.State(c) != Denied
}
