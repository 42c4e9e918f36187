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

package osc

import (
	"encoding/json"
	"fmt"
)

// Command names of the camera web API.
const (
	CommandSetOptions   = "camera.setOptions"
	CommandStartCapture = "camera.startCapture"
	CommandStopCapture  = "camera.stopCapture"
)

// CommandState is the lifecycle state of an executed command.
type CommandState string

const (
	StateDone       CommandState = "done"
	StateInProgress CommandState = "inProgress"
	StateError      CommandState = "error"
)

// CommandRequest is the body of /osc/commands/execute.
type CommandRequest struct {
	Name       string      `json:"name"`
	Parameters interface{} `json:"parameters,omitempty"`
}

// CommandError is the error object of a failed command.
type CommandError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Progress reports how far an in-progress command has come, in [0,1].
type Progress struct {
	Completion float64 `json:"completion"`
}

// CommandResponse is returned by both /osc/commands/execute and /osc/commands/status.
type CommandResponse struct {
	Name     string          `json:"name"`
	State    CommandState    `json:"state"`
	ID       string          `json:"id,omitempty"`
	Results  json.RawMessage `json:"results,omitempty"`
	Error    *CommandError   `json:"error,omitempty"`
	Progress *Progress       `json:"progress,omitempty"`
}

// Err converts a device-reported failure into a *WebAPIError.
func (r *CommandResponse) Err() error {
	if r.Error != nil {
		return &WebAPIError{Code: r.Error.Code, Message: r.Error.Message}
	}

	if r.State == StateError {
		return &WebAPIError{Message: errCommandFailed.Error()}
	}

	return nil
}

type fileResults struct {
	FileURL  string   `json:"fileUrl"`
	FileURLs []string `json:"fileUrls"`
}

// FileURLs extracts captured file URLs from the results object. Both the
// single "fileUrl" and the list "fileUrls" forms are accepted.
func (r *CommandResponse) FileURLs() ([]string, error) {
	if len(r.Results) == 0 || string(r.Results) == "null" {
		return nil, nil
	}

	var res fileResults
	if err := json.Unmarshal(r.Results, &res); err != nil {
		return nil, &WebAPIError{Message: fmt.Sprintf("invalid %s results: %v", r.Name, err)}
	}

	if len(res.FileURLs) > 0 {
		return res.FileURLs, nil
	}

	if res.FileURL != "" {
		return []string{res.FileURL}, nil
	}

	return nil, nil
}

// StartCaptureParams are the parameters of camera.startCapture.
type StartCaptureParams struct {
	Mode ShootingMode `json:"_mode,omitempty"`
}

// SetOptionsParams are the parameters of camera.setOptions.
type SetOptionsParams struct {
	Options Options `json:"options"`
}

// CameraState is the subset of /osc/state the capture layer reads.
type CameraState struct {
	BatteryLevel  float64 `json:"batteryLevel"`
	CaptureStatus string  `json:"_captureStatus"`
	LatestFileURL string  `json:"_latestFileUrl,omitempty"`
}

// StateResponse is the body of /osc/state.
type StateResponse struct {
	Fingerprint string      `json:"fingerprint"`
	State       CameraState `json:"state"`
}
