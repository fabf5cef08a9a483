// Package lifecycle bridges record events to github.com/aretw0/lifecycle.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/persistor/pkg/core"
)

type recordSource struct {
	events <-chan core.RecordEvent
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits record events, typically
// the channel returned by fs.Watch.
func NewSource(events <-chan core.RecordEvent) lifecycle.Source {
	return &recordSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *recordSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until ctx is done or the input channel closes, then
// closes Events.
func (s *recordSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				// core.RecordEvent implements lifecycle.Event (has String())
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
