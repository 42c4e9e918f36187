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

import (
	"errors"
	"fmt"
)

var (
	// ErrStatusUnavailable is returned by supervision when the device state
	// could not be read within the retry budget.
	ErrStatusUnavailable = errors.New("capture status cannot be retrieved")
	// ErrRetriesExhausted wraps the last error of a RetryPolicy.
	ErrRetriesExhausted = errors.New("retries exhausted")

	errNegativeRetries   = fmt.Errorf("retries must not be negative")
	errNegativeThreshold = fmt.Errorf("idle threshold must not be negative")
	errNegativeInterval  = fmt.Errorf("interval must not be negative")
)
