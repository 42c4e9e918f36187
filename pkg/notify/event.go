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

// Package notify relays named device notifications to the one handler
// currently registered for each name.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

const (
	paramCompletion = "completion"
	paramMessage    = "message"
	paramFileURL    = "fileUrl"
	paramFileURLs   = "fileUrls"
)

// Event is a named notification. The shape of Params depends on Name.
//
// Owner is set on events published inside the process for one session.
// Such events only reach handlers registered by that owner. Events from
// a camera bridge carry no owner and are routed by name alone.
type Event struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params,omitempty"`
	Owner  uuid.UUID              `json:"-"`
}

// For returns a copy of e addressed to owner.
func (e Event) For(owner uuid.UUID) Event {
	e.Owner = owner
	return e
}

// Names are the event names used by one capture kind.
type Names struct {
	Progress  string
	StopError string
	Completed string
	Failed    string
}

// NamesFor derives the event names for a kind prefix such as "TIME-SHIFT".
func NamesFor(prefix string) Names {
	return Names{
		Progress:  prefix + "-PROGRESS",
		StopError: prefix + "-STOP-ERROR",
		Completed: prefix + "-COMPLETED",
		Failed:    prefix + "-FAILED",
	}
}

// Progress builds a progress event.
func Progress(name string, completion float64) Event {
	return Event{Name: name, Params: map[string]interface{}{paramCompletion: completion}}
}

// Message builds a stop-error or failure event.
func Message(name, message string) Event {
	return Event{Name: name, Params: map[string]interface{}{paramMessage: message}}
}

// Files builds a completion event. A nil list means nothing was captured.
func Files(name string, fileURLs []string) Event {
	params := map[string]interface{}{}
	if fileURLs != nil {
		params[paramFileURLs] = fileURLs
	}

	return Event{Name: name, Params: params}
}

// Completion returns the progress fraction, if present.
func (e Event) Completion() (float64, bool) {
	switch v := e.Params[paramCompletion].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// Message returns the error message, if present.
func (e Event) Message() string {
	if msg, ok := e.Params[paramMessage].(string); ok {
		return msg
	}

	return ""
}

// FileURLs returns captured file URLs from either "fileUrls" or "fileUrl".
func (e Event) FileURLs() []string {
	switch v := e.Params[paramFileURLs].(type) {
	case []string:
		return v
	case []interface{}:
		urls := make([]string, 0, len(v))

		for _, item := range v {
			if s, ok := item.(string); ok {
				urls = append(urls, s)
			}
		}

		return urls
	}

	if url, ok := e.Params[paramFileURL].(string); ok && url != "" {
		return []string{url}
	}

	return nil
}

// DecodeEvent parses a JSON-encoded event.
func DecodeEvent(data []byte) (Event, error) {
	var e Event

	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("%w: %w", errInvalidEvent, err)
	}

	if e.Name == "" {
		return Event{}, fmt.Errorf("%w: missing name", errInvalidEvent)
	}

	return e, nil
}

// EncodeEvent serializes an event for transports.
func EncodeEvent(e Event) ([]byte, error) {
	return json.Marshal(e)
}
