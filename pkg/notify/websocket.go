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
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/carverauto/thetacapture/pkg/logger"
)

// WebSocketSource reads JSON events from a websocket endpoint. Each
// subscription holds its own connection.
type WebSocketSource struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	logger logger.Logger
}

var _ Source = (*WebSocketSource)(nil)

// NewWebSocketSource creates a source for url. A nil dialer means
// websocket.DefaultDialer.
func NewWebSocketSource(url string, header http.Header, dialer *websocket.Dialer, log logger.Logger) (*WebSocketSource, error) {
	if url == "" {
		return nil, errEmptyStreamURL
	}

	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	if log == nil {
		log = logger.NewTestLogger()
	}

	return &WebSocketSource{url: url, header: header, dialer: dialer, logger: log}, nil
}

type wsSubscription struct {
	conn *websocket.Conn
	once sync.Once
	done chan struct{}
}

func (s *wsSubscription) Remove() {
	s.once.Do(func() {
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), closeDeadline())
		_ = s.conn.Close()
	})
}

// Done is closed once the read loop has exited.
func (s *wsSubscription) Done() <-chan struct{} {
	return s.done
}

// Subscribe dials the endpoint and starts the read loop. The loop exits when
// the subscription is removed or the peer closes.
func (s *WebSocketSource) Subscribe(ctx context.Context, fn func(Event)) (Subscription, error) {
	conn, resp, err := s.dialer.DialContext(ctx, s.url, s.header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial %s (%s): %w", s.url, resp.Status, err)
		}

		return nil, fmt.Errorf("failed to dial %s: %w", s.url, err)
	}

	sub := &wsSubscription{conn: conn, done: make(chan struct{})}

	go s.readLoop(sub, fn)

	return sub, nil
}

func (s *WebSocketSource) readLoop(sub *wsSubscription, fn func(Event)) {
	defer close(sub.done)

	for {
		var e Event

		if err := sub.conn.ReadJSON(&e); err != nil {
			if isDecodeError(err) {
				s.logger.Warn().Err(err).Msg("Skipping malformed notification")
				continue
			}

			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) &&
				!errors.Is(err, net.ErrClosed) {
				s.logger.Warn().Err(err).Str("url", s.url).Msg("Notification stream closed")
			}

			return
		}

		if e.Name == "" {
			s.logger.Warn().Msg("Skipping notification without name")
			continue
		}

		fn(e)
	}
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError

	var typeErr *json.UnmarshalTypeError

	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

func closeDeadline() time.Time {
	return time.Now().Add(time.Second)
}
