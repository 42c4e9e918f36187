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
	"sync"
)

// Source delivers events from outside the process. Implementations call fn
// from their own goroutine.
type Source interface {
	Subscribe(ctx context.Context, fn func(Event)) (Subscription, error)
}

// Subscription is the handle returned by Source.Subscribe.
type Subscription interface {
	Remove()
}

type removeFunc struct {
	once sync.Once
	fn   func()
}

func (r *removeFunc) Remove() {
	r.once.Do(r.fn)
}

// Emitter is a Source that also accepts events from inside the process.
type Emitter interface {
	Source
	Emit(e Event)
}

// LocalSource fans events emitted inside the process out to its
// subscribers. It is the default source of the CLI: command trackers
// publish through the relay into it.
type LocalSource struct {
	mu   sync.RWMutex
	subs map[uint64]func(Event)
	next uint64
}

var _ Emitter = (*LocalSource)(nil)

// NewLocalSource creates an empty LocalSource.
func NewLocalSource() *LocalSource {
	return &LocalSource{subs: make(map[uint64]func(Event))}
}

// Subscribe implements Source.
func (s *LocalSource) Subscribe(_ context.Context, fn func(Event)) (Subscription, error) {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	return &removeFunc{fn: func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}}, nil
}

// Emit delivers e synchronously to every subscriber.
func (s *LocalSource) Emit(e Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.subs))

	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Subscribers returns the number of live subscriptions.
func (s *LocalSource) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.subs)
}
