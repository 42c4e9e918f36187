/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package notify

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/carverauto/thetacapture/pkg/logger"
)

// Handler receives one event. A nil Handler may be registered to keep a
// name tracked for cleanup without acting on it.
type Handler func(Event)

type registration struct {
	owner   uuid.UUID
	handler Handler
	// removed is set under the table lock when the entry leaves the table.
	// Dispatch re-checks it right before invoking the handler.
	removed atomic.Bool
}

// Relay routes events from one Source subscription to at most one handler
// per event name. One long-lived Relay is shared by all capture sessions of
// a repository; tests construct their own.
type Relay struct {
	source Source
	logger logger.Logger

	mu    sync.RWMutex
	table map[string]*registration

	subMu sync.Mutex
	sub   Subscription
}

// NewRelay creates a relay over source. A nil source is allowed; events
// then only arrive through Dispatch.
func NewRelay(source Source, log logger.Logger) *Relay {
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Relay{
		source: source,
		logger: log,
		table:  make(map[string]*registration),
	}
}

// Init subscribes to the source once. Repeated calls are no-ops until
// Release.
func (r *Relay) Init(ctx context.Context) error {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	if r.sub != nil || r.source == nil {
		return nil
	}

	sub, err := r.source.Subscribe(ctx, r.Dispatch)
	if err != nil {
		return fmt.Errorf("failed to subscribe to notification source: %w", err)
	}

	r.sub = sub
	r.logger.Debug().Msg("Notification relay subscribed")

	return nil
}

// Release clears every registration and drops the source subscription.
func (r *Relay) Release() {
	r.mu.Lock()
	cleared := len(r.table)

	for _, reg := range r.table {
		reg.removed.Store(true)
	}

	r.table = make(map[string]*registration)
	r.mu.Unlock()

	r.subMu.Lock()
	sub := r.sub
	r.sub = nil
	r.subMu.Unlock()

	if sub != nil {
		sub.Remove()
	}

	r.logger.Debug().Int("cleared", cleared).Msg("Notification relay released")
}

// NewOwner returns a fresh handle identifying one session's registrations.
func (*Relay) NewOwner() uuid.UUID {
	return uuid.New()
}

// Register installs handler for name, replacing any previous entry. An
// entry held by another owner is stale and is cleared first.
func (r *Relay) Register(owner uuid.UUID, name string, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.table[name]; ok {
		prev.removed.Store(true)

		if prev.owner != owner {
			r.logger.Warn().
				Str("event", name).
				Str("stale_owner", prev.owner.String()).
				Str("owner", owner.String()).
				Msg("Replacing stale notification handler")
		}
	}

	r.table[name] = &registration{owner: owner, handler: handler}
}

// Unregister removes the entry for name, if any.
func (r *Relay) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if reg, ok := r.table[name]; ok {
		reg.removed.Store(true)
		delete(r.table, name)
	}
}

// ReleaseFor removes every entry held by owner and returns how many.
func (r *Relay) ReleaseFor(owner uuid.UUID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0

	for name, reg := range r.table {
		if reg.owner == owner {
			reg.removed.Store(true)
			delete(r.table, name)
			removed++
		}
	}

	return removed
}

// Publish sends an event raised inside the process. When the relay is
// subscribed to an Emitter the event travels through that source like any
// other notification; otherwise it is dispatched directly.
func (r *Relay) Publish(e Event) {
	r.subMu.Lock()
	emitter, ok := r.source.(Emitter)
	subscribed := r.sub != nil
	r.subMu.Unlock()

	if ok && subscribed {
		emitter.Emit(e)
		return
	}

	r.Dispatch(e)
}

// Dispatch invokes the handler registered for e.Name. Unknown names are
// dropped; cameras may emit events this client does not know. An event with
// an Owner is dropped unless that owner holds the name.
func (r *Relay) Dispatch(e Event) {
	reg := r.lookup(e)
	if reg == nil {
		return
	}

	r.deliver(reg, e)
}

func (r *Relay) lookup(e Event) *registration {
	r.mu.RLock()
	reg, ok := r.table[e.Name]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug().Str("event", e.Name).Msg("Dropping unhandled notification")
		return nil
	}

	if e.Owner != uuid.Nil && e.Owner != reg.owner {
		r.logger.Debug().
			Str("event", e.Name).
			Str("owner", e.Owner.String()).
			Msg("Dropping notification addressed to a replaced session")

		return nil
	}

	return reg
}

func (*Relay) deliver(reg *registration, e Event) {
	if reg.handler == nil || reg.removed.Load() {
		return
	}

	reg.handler(e)
}

// Len returns the number of registered names.
func (r *Relay) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.table)
}

// Registered returns the number of names held by owner.
func (r *Relay) Registered(owner uuid.UUID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0

	for _, reg := range r.table {
		if reg.owner == owner {
			n++
		}
	}

	return n
}
