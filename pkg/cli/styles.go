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

package cli

import "github.com/charmbracelet/lipgloss"

// Dracula theme colors.
const (
	draculaCyan    = "#8BE9FD"
	draculaGreen   = "#50FA7B"
	draculaOrange  = "#FFB86C"
	draculaPurple  = "#BD93F9"
	draculaRed     = "#FF5555"
	draculaComment = "#6272A4"
)

const progressWidth = 30

type styles struct {
	title, progress, file, success, hint, error lipgloss.Style
}

func newStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaPurple)).
			Bold(true),
		progress: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaCyan)),
		file: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)).
			PaddingLeft(2),
		success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaGreen)).
			Bold(true),
		hint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaComment)),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(draculaRed)).
			Bold(true),
	}
}

// warn is used for stop errors, which do not fail the capture.
func (s styles) warn(msg string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(draculaOrange)).Render(msg)
}

// bar renders completion in [0,1] as a fixed width bar.
func (s styles) bar(completion float64) string {
	if completion < 0 {
		completion = 0
	}

	if completion > 1 {
		completion = 1
	}

	filled := int(completion * progressWidth)

	out := make([]rune, progressWidth)
	for i := range out {
		if i < filled {
			out[i] = '█'
		} else {
			out[i] = '░'
		}
	}

	return s.progress.Render(string(out))
}
