// Package screens implements the operations behind each screen of the
// camera client: camera, gallery, photo viewer and map.
package screens

import (
	"context"
	"errors"
	"sync"
)

// ErrSessionClosed is returned for work whose screen went away before it
// completed
var ErrSessionClosed = errors.New("screen session closed")

// Session is the lifetime of a screen. Work started for the screen is
// cancelled when the session is closed and its results are discarded.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	lock   sync.Mutex
	closed bool
}

func NewSession(parent context.Context) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{ctx: ctx, cancel: cancel}
}

func (s *Session) Context() context.Context {
	return s.ctx
}

// Active reports whether results may still be applied to the screen
func (s *Session) Active() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return !s.closed && s.ctx.Err() == nil
}

// Close ends the session and cancels outstanding work
func (s *Session) Close() {
	s.lock.Lock()
	s.closed = true
	s.lock.Unlock()
	s.cancel()
}

// Do runs task for the session. A result produced after the session ended
// is dropped and ErrSessionClosed returned instead.
func Do[T any](s *Session, task func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !s.Active() {
		return zero, ErrSessionClosed
	}
	v, err := task(s.ctx)
	if !s.Active() {
		return zero, ErrSessionClosed
	}
	return v, err
}
