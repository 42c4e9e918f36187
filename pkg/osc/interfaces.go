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

//go:generate mockgen -destination=mock_osc.go -package=osc github.com/carverauto/thetacapture/pkg/osc Gateway

package osc

import "context"

// Gateway sends commands to a camera. Transport failures are returned as
// errors; device-reported failures are carried in CommandResponse.Error.
type Gateway interface {
	// Execute runs a named command with parameters.
	Execute(ctx context.Context, name string, params interface{}) (*CommandResponse, error)
	// Status fetches the state of an in-progress command.
	Status(ctx context.Context, id string) (*CommandResponse, error)
	// State fetches the camera state.
	State(ctx context.Context) (*StateResponse, error)
}
