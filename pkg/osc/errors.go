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
	"errors"
	"fmt"
)

var (
	// ErrNotConnected is matched by every transport-level failure.
	ErrNotConnected = errors.New("not connected")
	// ErrWebAPI is matched by every device-reported command error.
	ErrWebAPI = errors.New("web api error")

	errEmptyEndpoint = errors.New("camera endpoint is required")
	errCommandFailed = errors.New("command finished in error state")
)

// NotConnectedError reports that the camera could not be reached.
type NotConnectedError struct {
	Err error
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("%s: %v", ErrNotConnected, e.Err)
}

func (e *NotConnectedError) Unwrap() []error {
	return []error{ErrNotConnected, e.Err}
}

// WebAPIError carries an error returned by the camera for a command.
type WebAPIError struct {
	Code    string
	Message string
}

func (e *WebAPIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s: %s", ErrWebAPI, e.Message)
	}

	return fmt.Sprintf("%s: %s (%s)", ErrWebAPI, e.Message, e.Code)
}

func (*WebAPIError) Unwrap() error {
	return ErrWebAPI
}
