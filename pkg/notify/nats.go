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
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/thetacapture/pkg/logger"
)

// DefaultSubject is the NATS subject a bridge publishes camera events on.
const DefaultSubject = "theta.events"

// NATSSource receives JSON-encoded events published on a NATS subject by a
// bridge process that sits next to the camera.
type NATSSource struct {
	conn    *nats.Conn
	subject string
	logger  logger.Logger
}

var _ Source = (*NATSSource)(nil)

// NewNATSSource wraps an existing connection.
func NewNATSSource(conn *nats.Conn, subject string, log logger.Logger) (*NATSSource, error) {
	if conn == nil {
		return nil, errNilConnection
	}

	if subject == "" {
		return nil, errEmptySubject
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &NATSSource{conn: conn, subject: subject, logger: log}, nil
}

// Subscribe implements Source. Messages that do not decode are logged and
// skipped.
func (s *NATSSource) Subscribe(_ context.Context, fn func(Event)) (Subscription, error) {
	sub, err := s.conn.Subscribe(s.subject, func(msg *nats.Msg) {
		e, err := DecodeEvent(msg.Data)
		if err != nil {
			s.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Skipping malformed notification")
			return
		}

		fn(e)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.subject, err)
	}

	return &removeFunc{fn: func() {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Debug().Err(err).Str("subject", s.subject).Msg("Unsubscribe failed")
		}
	}}, nil
}

// Publish encodes e and publishes it on the source's subject.
func (s *NATSSource) Publish(e Event) error {
	return PublishEvent(s.conn, s.subject, e)
}

// PublishEvent encodes e and publishes it on subject.
func PublishEvent(conn *nats.Conn, subject string, e Event) error {
	if conn == nil {
		return errNilConnection
	}

	data, err := EncodeEvent(e)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", e.Name, err)
	}

	if err := conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", e.Name, err)
	}

	return nil
}

// ConnectNATS dials natsURL with connection handlers that log through log.
func ConnectNATS(natsURL string, log logger.Logger, extraOpts ...nats.Option) (*nats.Conn, error) {
	if log == nil {
		log = logger.NewTestLogger()
	}

	opts := []nats.Option{
		nats.Name("thetacapture"),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	opts = append(opts, extraOpts...)

	nc, err := nats.Connect(natsURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}
