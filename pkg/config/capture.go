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

package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/carverauto/thetacapture/pkg/logger"
	"github.com/carverauto/thetacapture/pkg/models"
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
	"github.com/carverauto/thetacapture/pkg/poller"
)

const (
	DefaultEndpoint = "http://192.168.1.1"
	DefaultTimeout  = 10 * time.Second

	EventSourceLocal     = "local"
	EventSourceNATS      = "nats"
	EventSourceWebSocket = "websocket"
)

var (
	errInvalidEndpoint    = errors.New("endpoint must be an http(s) URL")
	errInvalidEventSource = errors.New("invalid events source")
	errMissingNATSURL     = errors.New("events.nats_url is required for the nats source")
	errMissingStreamURL   = errors.New("events.websocket_url is required for the websocket source")
	errNegativeTimeout    = errors.New("timeout must not be negative")
)

// Events selects where device notifications come from.
type Events struct {
	Source       string `json:"source"`
	NATSURL      string `json:"nats_url,omitempty"`
	Subject      string `json:"subject,omitempty"`
	WebSocketURL string `json:"websocket_url,omitempty"`
}

// Capture is the root configuration of the thetacapture command.
type Capture struct {
	Endpoint string          `json:"endpoint"`
	Model    osc.Model       `json:"model,omitempty"`
	Timeout  models.Duration `json:"timeout"`
	Logging  *logger.Config  `json:"logging,omitempty"`
	Poll     poller.Config   `json:"poll"`
	Events   Events          `json:"events"`
}

// DefaultCapture returns a validated configuration with every default.
func DefaultCapture() *Capture {
	c := &Capture{}
	_ = c.Validate()

	return c
}

// Validate fills defaults and checks the configuration.
func (c *Capture) Validate() error {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}

	u, err := url.Parse(c.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", errInvalidEndpoint, c.Endpoint)
	}

	if c.Timeout < 0 {
		return errNegativeTimeout
	}

	if c.Timeout == 0 {
		c.Timeout = models.Duration(DefaultTimeout)
	}

	if c.Logging == nil {
		c.Logging = logger.DefaultConfig()
	}

	if err := c.Poll.Validate(); err != nil {
		return fmt.Errorf("invalid poll config: %w", err)
	}

	return c.Events.validate()
}

func (e *Events) validate() error {
	switch e.Source {
	case "":
		e.Source = EventSourceLocal
	case EventSourceLocal:
	case EventSourceNATS:
		if e.NATSURL == "" {
			return errMissingNATSURL
		}

		if e.Subject == "" {
			e.Subject = notify.DefaultSubject
		}
	case EventSourceWebSocket:
		if e.WebSocketURL == "" {
			return errMissingStreamURL
		}
	default:
		return fmt.Errorf("%w: %q", errInvalidEventSource, e.Source)
	}

	return nil
}
