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

package capture

import (
	"errors"

	"github.com/carverauto/thetacapture/pkg/poller"
)

var (
	// ErrAlreadyStarted is returned by a second Start on the same session.
	ErrAlreadyStarted = errors.New("capture already started")
	// ErrInvalidOptions is returned by Build when kind-specific settings are
	// missing or out of range.
	ErrInvalidOptions = errors.New("invalid capture options")
	// ErrStatusUnavailable settles a capture whose state could not be read
	// within the retry budget.
	ErrStatusUnavailable = poller.ErrStatusUnavailable
)

// StopError reports a failed stop command. It is delivered out of band and
// never fails a capture that already produced a result.
type StopError struct {
	Err error
}

func (e *StopError) Error() string {
	return "failed to stop capture: " + e.Err.Error()
}

func (e *StopError) Unwrap() error {
	return e.Err
}
