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

// Model identifies the camera model. Only models whose command
// parameters differ from the defaults are listed.
type Model string

const (
	ModelThetaX   Model = "RICOH THETA X"
	ModelThetaZ1  Model = "RICOH THETA Z1"
	ModelThetaV   Model = "RICOH THETA V"
	ModelThetaSC2 Model = "RICOH THETA SC2"
)

// CaptureMode is the "captureMode" option.
type CaptureMode string

const (
	CaptureModeImage CaptureMode = "image"
	CaptureModeVideo CaptureMode = "video"
)

// ShootingMode is the "_mode" parameter of camera.startCapture used by
// models other than THETA X.
type ShootingMode string

const (
	ShootingModeInterval  ShootingMode = "interval"
	ShootingModeBracket   ShootingMode = "bracket"
	ShootingModeTimeShift ShootingMode = "timeshift"
)

// ShootingMethod is the THETA X "_shootingMethod" option.
type ShootingMethod string

const (
	ShootingMethodNormal    ShootingMethod = "normal"
	ShootingMethodInterval  ShootingMethod = "interval"
	ShootingMethodBracket   ShootingMethod = "bracket"
	ShootingMethodTimeShift ShootingMethod = "timeShift"
)

// ExposureProgram is the "exposureProgram" option.
type ExposureProgram int

const (
	ExposureProgramManual           ExposureProgram = 1
	ExposureProgramNormal           ExposureProgram = 2
	ExposureProgramAperturePriority ExposureProgram = 3
	ExposureProgramShutterPriority  ExposureProgram = 4
	ExposureProgramISOPriority      ExposureProgram = 9
)

// WhiteBalance is the "whiteBalance" option.
type WhiteBalance string

const (
	WhiteBalanceAuto                 WhiteBalance = "auto"
	WhiteBalanceDaylight             WhiteBalance = "daylight"
	WhiteBalanceShade                WhiteBalance = "shade"
	WhiteBalanceCloudyDaylight       WhiteBalance = "cloudy-daylight"
	WhiteBalanceIncandescent         WhiteBalance = "incandescent"
	WhiteBalanceWarmWhiteFluorescent WhiteBalance = "_warmWhiteFluorescent"
	WhiteBalanceUnderwater           WhiteBalance = "_underwater"
	WhiteBalanceColorTemperature     WhiteBalance = "_colorTemperature"
)

// Filter is the "_filter" image processing option.
type Filter string

const (
	FilterOff      Filter = "off"
	FilterNoiseRed Filter = "Noise Reduction"
	FilterHDR      Filter = "hdr"
	FilterDRComp   Filter = "DR Comp"
)

// BracketSetting is one shot of a multi-bracket sequence. Unset fields keep
// the camera's current value.
type BracketSetting struct {
	Aperture             *float64         `json:"aperture,omitempty"`
	ColorTemperature     *int             `json:"_colorTemperature,omitempty"`
	ExposureCompensation *float64         `json:"exposureCompensation,omitempty"`
	ExposureProgram      *ExposureProgram `json:"exposureProgram,omitempty"`
	ISO                  *int             `json:"iso,omitempty"`
	ShutterSpeed         *float64         `json:"shutterSpeed,omitempty"`
	WhiteBalance         *WhiteBalance    `json:"whiteBalance,omitempty"`
}

// AutoBracket is the "_autoBracket" option.
type AutoBracket struct {
	BracketNumber     int              `json:"_bracketNumber"`
	BracketParameters []BracketSetting `json:"_bracketParameters"`
}

// TimeShiftInterval is a delay in seconds, 0 through 10.
type TimeShiftInterval int

// TimeShiftSetting is the "_timeShift" option.
type TimeShiftSetting struct {
	FirstShooting  string             `json:"firstShooting,omitempty"`
	FirstInterval  *TimeShiftInterval `json:"firstInterval,omitempty"`
	SecondInterval *TimeShiftInterval `json:"secondInterval,omitempty"`
}

const (
	FirstShootingFront = "front"
	FirstShootingRear  = "rear"
)

// Options is the option set sent with camera.setOptions. Nil fields are
// omitted and left unchanged on the camera.
type Options struct {
	CaptureMode          *CaptureMode      `json:"captureMode,omitempty"`
	CaptureInterval      *int              `json:"captureInterval,omitempty"`
	CaptureNumber        *int              `json:"captureNumber,omitempty"`
	ShootingMethod       *ShootingMethod   `json:"_shootingMethod,omitempty"`
	AutoBracket          *AutoBracket      `json:"_autoBracket,omitempty"`
	TimeShift            *TimeShiftSetting `json:"_timeShift,omitempty"`
	ExposureProgram      *ExposureProgram  `json:"exposureProgram,omitempty"`
	ExposureCompensation *float64          `json:"exposureCompensation,omitempty"`
	ISO                  *int              `json:"iso,omitempty"`
	WhiteBalance         *WhiteBalance     `json:"whiteBalance,omitempty"`
	ColorTemperature     *int              `json:"_colorTemperature,omitempty"`
	Aperture             *float64          `json:"aperture,omitempty"`
	ShutterSpeed         *float64          `json:"shutterSpeed,omitempty"`
	Filter               *Filter           `json:"_filter,omitempty"`
	FileFormat           *FileFormat       `json:"fileFormat,omitempty"`
}

// FileFormat is the "fileFormat" option.
type FileFormat struct {
	Type   string `json:"type"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Clone returns a copy that shares no mutable state with o.
func (o Options) Clone() Options {
	c := o

	if o.AutoBracket != nil {
		ab := *o.AutoBracket
		ab.BracketParameters = append([]BracketSetting(nil), o.AutoBracket.BracketParameters...)
		c.AutoBracket = &ab
	}

	if o.TimeShift != nil {
		ts := *o.TimeShift
		c.TimeShift = &ts
	}

	if o.FileFormat != nil {
		ff := *o.FileFormat
		c.FileFormat = &ff
	}

	return c
}

// Ptr returns a pointer to v, for filling optional fields.
func Ptr[T any](v T) *T {
	return &v
}
