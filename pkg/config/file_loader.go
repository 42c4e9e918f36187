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
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNoConfigPath is returned when the file source is selected without
	// a path, e.g. CONFIG_SOURCE=file and no --config flag.
	ErrNoConfigPath = errors.New("no config file path given")
	// ErrConfigFile wraps every read or parse failure of a config file.
	ErrConfigFile = errors.New("invalid config file")
)

// FileConfigLoader loads a capture configuration from a JSON file.
type FileConfigLoader struct{}

// Load implements ConfigLoader. Syntax errors name the offending line.
func (*FileConfigLoader) Load(_ context.Context, path string, dst interface{}) error {
	if path == "" {
		return ErrNoConfigPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrConfigFile, path, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			line := 1 + bytes.Count(data[:syntaxErr.Offset], []byte("\n"))

			return fmt.Errorf("%w %s:%d: %w", ErrConfigFile, path, line, err)
		}

		return fmt.Errorf("%w %s: %w", ErrConfigFile, path, err)
	}

	return nil
}
