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
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carverauto/thetacapture/pkg/osc"
)

// Config is the committed configuration of a session.
type Config struct {
	Options osc.Options
	// CheckInterval is how often the session checks capture status. It stays
	// on the client and is never sent to the camera.
	CheckInterval time.Duration
}

// MarshalJSON flattens the options and adds _capture_interval in
// milliseconds.
func (c Config) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(c.Options)
	if err != nil {
		return nil, err
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	fields["_capture_interval"] = json.RawMessage(fmt.Sprintf("%d", c.CheckInterval.Milliseconds()))

	return json.Marshal(fields)
}

// Builder holds the options shared by every capture kind. T is the concrete
// builder so setters chain without conversions.
type Builder[T any] struct {
	self          *T
	repo          *Repository
	options       osc.Options
	checkInterval time.Duration
}

func (b *Builder[T]) init(self *T, repo *Repository) {
	b.self = self
	b.repo = repo
}

// Options returns a copy of the pending options.
func (b *Builder[T]) Options() osc.Options {
	return b.options.Clone()
}

// SetExposureProgram sets the exposure program.
func (b *Builder[T]) SetExposureProgram(program osc.ExposureProgram) *T {
	b.options.ExposureProgram = osc.Ptr(program)
	return b.self
}

// SetExposureCompensation sets the exposure compensation in EV.
func (b *Builder[T]) SetExposureCompensation(ev float64) *T {
	b.options.ExposureCompensation = osc.Ptr(ev)
	return b.self
}

// SetIso sets the ISO sensitivity.
func (b *Builder[T]) SetIso(iso int) *T {
	b.options.ISO = osc.Ptr(iso)
	return b.self
}

// SetWhiteBalance sets the white balance preset.
func (b *Builder[T]) SetWhiteBalance(wb osc.WhiteBalance) *T {
	b.options.WhiteBalance = osc.Ptr(wb)
	return b.self
}

// SetColorTemperature sets the color temperature in kelvin. It only takes
// effect with osc.WhiteBalanceColorTemperature.
func (b *Builder[T]) SetColorTemperature(kelvin int) *T {
	b.options.ColorTemperature = osc.Ptr(kelvin)
	return b.self
}

// SetAperture sets the aperture value.
func (b *Builder[T]) SetAperture(aperture float64) *T {
	b.options.Aperture = osc.Ptr(aperture)
	return b.self
}

// SetShutterSpeed sets the shutter speed in seconds.
func (b *Builder[T]) SetShutterSpeed(seconds float64) *T {
	b.options.ShutterSpeed = osc.Ptr(seconds)
	return b.self
}

// SetFilter sets the image processing filter.
func (b *Builder[T]) SetFilter(filter osc.Filter) *T {
	b.options.Filter = osc.Ptr(filter)
	return b.self
}

// SetFileFormat sets the still image format.
func (b *Builder[T]) SetFileFormat(format osc.FileFormat) *T {
	b.options.FileFormat = osc.Ptr(format)
	return b.self
}

// SetCheckStatusCommandInterval sets how often a running capture is checked.
// Zero or negative values use the repository default.
func (b *Builder[T]) SetCheckStatusCommandInterval(interval time.Duration) *T {
	b.checkInterval = interval
	return b.self
}

// config snapshots the builder state so later setter calls do not reach a
// built session.
func (b *Builder[T]) config(opts osc.Options) Config {
	interval := b.checkInterval
	if interval <= 0 {
		interval = b.repo.poll.Interval.Std()
	}

	return Config{Options: opts, CheckInterval: interval}
}

// commit switches the camera to still image mode and then applies opts.
// Settings applied before a failing call are left on the camera.
func (b *Builder[T]) commit(ctx context.Context, kind Kind, opts osc.Options) error {
	imageMode := osc.Options{CaptureMode: osc.Ptr(osc.CaptureModeImage)}

	if err := b.repo.setOptions(ctx, imageMode); err != nil {
		return fmt.Errorf("failed to set %s capture mode: %w", kind, err)
	}

	if err := b.repo.setOptions(ctx, opts); err != nil {
		return fmt.Errorf("failed to set %s options: %w", kind, err)
	}

	b.repo.logger.Debug().Str("kind", string(kind)).Msg("Capture options committed")

	return nil
}
