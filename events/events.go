// Package events distributes transient notifications to all listeners,
// typically clients connected to the event stream.
package events

import (
	"context"
	"time"

	"bitbucket.org/kleinnic74/photomap/logging"
	"go.uber.org/zap"
)

type Level string

const (
	Info  = Level("info")
	Error = Level("error")

	// NotificationName is the name of events carrying a user notification
	NotificationName = "notification"

	publishQueueSize = 64
)

type Event struct {
	Name    string    `json:"name"`
	Action  string    `json:"action"`
	Level   Level     `json:"level,omitempty"`
	Message string    `json:"message,omitempty"`
	At      time.Time `json:"at"`
}

// Notification returns an event asking clients to show message to the user
func Notification(level Level, message string) Event {
	return Event{Name: NotificationName, Action: "show", Level: level, Message: message, At: time.Now()}
}

type Stream struct {
	channel chan Event

	subcriptions chan *subscription
	unsubcribes  chan *subscription
	stopped      chan struct{}
}

type subscription struct {
	events chan Event
}

func NewStream() *Stream {
	return &Stream{
		channel:      make(chan Event, publishQueueSize),
		subcriptions: make(chan *subscription),
		unsubcribes:  make(chan *subscription),
		stopped:      make(chan struct{}),
	}
}

// Publish queues e for all listeners. Events are dropped rather than
// blocking the publisher when the queue is full.
func (s *Stream) Publish(ctx context.Context, e Event) {
	select {
	case s.channel <- e:
	default:
		logging.From(ctx).Named("events").Warn("Event queue full, dropping event",
			zap.String("name", e.Name), zap.String("action", e.Action))
	}
}

// Notify publishes a notification for the user
func (s *Stream) Notify(ctx context.Context, level Level, message string) {
	s.Publish(ctx, Notification(level, message))
}

// Listen calls f for every event until ctx is done
func (s *Stream) Listen(ctx context.Context, f func(e Event)) {
	subscription, ok := s.subscribe(ctx)
	if !ok {
		return
	}
	for {
		select {
		case e := <-subscription.events:
			f(e)
		case <-ctx.Done():
			select {
			case s.unsubcribes <- subscription:
			case <-s.stopped:
			}
			return
		case <-s.stopped:
			return
		}
	}
}

func (s *Stream) subscribe(ctx context.Context) (*subscription, bool) {
	sub := &subscription{
		events: make(chan Event, publishQueueSize),
	}
	select {
	case s.subcriptions <- sub:
		return sub, true
	case <-ctx.Done():
		return nil, false
	case <-s.stopped:
		return nil, false
	}
}

// Dispatch delivers published events to the listeners until ctx is done
func (s *Stream) Dispatch(ctx context.Context) {
	defer close(s.stopped)
	var subscribers []*subscription
	for {
		select {
		case sub := <-s.subcriptions:
			subscribers = append(subscribers, sub)
		case sub := <-s.unsubcribes:
			idx := -1
			for i := range subscribers {
				if subscribers[i] == sub {
					idx = i
					break
				}
			}
			if idx != -1 {
				subscribers = append(subscribers[:idx], subscribers[idx+1:]...)
			}
		case e := <-s.channel:
			for _, sub := range subscribers {
				select {
				case sub.events <- e:
				default:
					// slow listener, skip
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
