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
	"time"

	"github.com/carverauto/thetacapture/pkg/models"
)

const (
	DefaultInterval      = time.Second
	DefaultRetries       = 3
	DefaultRetryDelay    = time.Second
	DefaultIdleThreshold = 2
)

// Config controls state polling.
type Config struct {
	Interval      models.Duration `json:"interval"`
	Retries       int             `json:"retries"`
	RetryDelay    models.Duration `json:"retry_delay"`
	IdleThreshold int             `json:"idle_threshold"`
}

// Validate fills defaults for unset fields and rejects negative values.
func (c *Config) Validate() error {
	if c.Retries < 0 {
		return errNegativeRetries
	}

	if c.IdleThreshold < 0 {
		return errNegativeThreshold
	}

	if c.Interval < 0 || c.RetryDelay < 0 {
		return errNegativeInterval
	}

	if c.Interval == 0 {
		c.Interval = models.Duration(DefaultInterval)
	}

	if c.Retries == 0 {
		c.Retries = DefaultRetries
	}

	if c.RetryDelay == 0 {
		c.RetryDelay = models.Duration(DefaultRetryDelay)
	}

	if c.IdleThreshold == 0 {
		c.IdleThreshold = DefaultIdleThreshold
	}

	return nil
}

// RetryPolicy returns the policy used for each state query.
func (c *Config) RetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: c.Retries, Delay: c.RetryDelay.Std()}
}

// DefaultConfig returns a validated Config with all defaults.
func DefaultConfig() Config {
	c := Config{}
	_ = c.Validate()

	return c
}
