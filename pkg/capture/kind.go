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
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
)

// Kind identifies a capture operation.
type Kind string

const (
	KindInterval          Kind = "LIMITLESS-INTERVAL"
	KindShotCountInterval Kind = "SHOT-COUNT-SPECIFIED-INTERVAL"
	KindMultiBracket      Kind = "MULTI-BRACKET"
	KindTimeShift         Kind = "TIME-SHIFT"
)

// Names returns the notification names used by sessions of this kind.
func (k Kind) Names() notify.Names {
	return notify.NamesFor(string(k))
}

type strategy int

const (
	// strategyPoll concludes from /osc/state idle confirmation.
	strategyPoll strategy = iota
	// strategyEvent concludes from a COMPLETED or FAILED notification.
	strategyEvent
)

func (s strategy) String() string {
	if s == strategyEvent {
		return "event"
	}

	return "poll"
}

// startParams returns the camera.startCapture parameters for a model. THETA
// X selects the shooting method through options instead of _mode.
func startParams(model osc.Model, mode osc.ShootingMode) interface{} {
	if model == osc.ModelThetaX {
		return nil
	}

	return osc.StartCaptureParams{Mode: mode}
}

func firstURL(urls []string) string {
	if len(urls) == 0 {
		return ""
	}

	return urls[0]
}

func allURLs(urls []string) []string {
	return urls
}
