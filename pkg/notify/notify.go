// Package notify fans catalog changes out between service replicas so that a
// group created through one replica makes every replica refetch.
package notify

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matst80/gig-finder/pkg/common/jsoncompat"
)

type Change struct {
	Origin  string    `json:"origin"`
	Reason  string    `json:"reason"`
	GroupId int       `json:"groupId,omitempty"`
	At      time.Time `json:"at"`
}

type Notifier interface {
	Publish(ctx context.Context, change Change) error
	// Subscribe delivers changes published by other origins until ctx is done.
	Subscribe(ctx context.Context, fn func(Change)) error
	Origin() string
	Close() error
}

func NewOrigin() string {
	return uuid.NewString()
}

func encode(c Change) ([]byte, error) {
	return jsoncompat.Marshal(c)
}

func decode(data []byte) (Change, error) {
	c := Change{}
	err := jsoncompat.Unmarshal(data, &c)
	return c, err
}

// Local only delivers to subscribers in the same process. It is used when no
// broker is configured and in tests.
type Local struct {
	origin string
	mu     sync.Mutex
	fns    []func(Change)
}

func NewLocal() *Local {
	return &Local{origin: NewOrigin()}
}

func (l *Local) Origin() string {
	return l.origin
}

func (l *Local) Publish(ctx context.Context, change Change) error {
	if change.Origin == "" {
		change.Origin = l.origin
	}
	if change.At.IsZero() {
		change.At = time.Now()
	}
	l.mu.Lock()
	fns := slices.Clone(l.fns)
	l.mu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
	return nil
}

func (l *Local) Subscribe(ctx context.Context, fn func(Change)) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, func(c Change) {
		if c.Origin != l.origin {
			fn(c)
		}
	})
	return nil
}

func (l *Local) Close() error {
	return nil
}
