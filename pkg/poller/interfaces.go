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

package poller

//go:generate mockgen -destination=mock_poller.go -package=poller github.com/carverauto/thetacapture/pkg/poller Clock,StatusSource

import (
	"context"
	"time"

	"github.com/carverauto/thetacapture/pkg/osc"
)

// Clock abstracts time-related operations.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// StateFetcher reads the camera state. osc.Gateway satisfies it.
type StateFetcher interface {
	State(ctx context.Context) (*osc.StateResponse, error)
}

// StatusSource yields one status observation per call. The bool is false
// when the status could not be determined.
type StatusSource interface {
	Poll(ctx context.Context) (DeviceStatus, bool)
}
