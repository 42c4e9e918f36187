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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/thetacapture/pkg/logger"
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
)

const testFileURL = "http://192.168.1.1/files/100RICOH/R100.JPG"

func twoBrackets() []osc.BracketSetting {
	return []osc.BracketSetting{
		{
			Aperture:             osc.Ptr(0.0),
			ColorTemperature:     osc.Ptr(5000),
			ExposureCompensation: osc.Ptr(0.3),
			ExposureProgram:      osc.Ptr(osc.ExposureProgramNormal),
			ISO:                  osc.Ptr(100),
			ShutterSpeed:         osc.Ptr(0.0),
			WhiteBalance:         osc.Ptr(osc.WhiteBalanceDaylight),
		},
		{ColorTemperature: osc.Ptr(6000)},
	}
}

func TestMultiBracketStart_ResolvesFileURLs(t *testing.T) {
	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				return doneWithFiles(name, testFileURL), nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw)

	s, err := repo.NewMultiBracketBuilder().SetBracketSettings(twoBrackets()).Build(context.Background())
	require.NoError(t, err)

	urls, err := s.Start(context.Background(), Handlers{})
	require.NoError(t, err)
	assert.Equal(t, []string{testFileURL}, urls)
	assert.Equal(t, 0, repo.Relay().Len())

	start := gw.callsNamed(osc.CommandStartCapture)
	require.Len(t, start, 1)
	assert.Equal(t, osc.StartCaptureParams{Mode: osc.ShootingModeBracket}, start[0].params)
}

func TestStart_RawErrorIsReturnedUnaltered(t *testing.T) {
	rawErr := errors.New("error")

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				return nil, rawErr
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw)

	s, err := repo.NewMultiBracketBuilder().SetBracketSettings(twoBrackets()).Build(context.Background())
	require.NoError(t, err)

	_, err = s.Start(context.Background(), Handlers{})
	assert.Same(t, rawErr, err)
	assert.Equal(t, 0, repo.Relay().Len())
}

func TestStart_WebAPIError(t *testing.T) {
	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				return &osc.CommandResponse{
					Name:  name,
					State: osc.StateError,
					Error: &osc.CommandError{Code: "disabledCommand", Message: "battery too low"},
				}, nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().SetCaptureInterval(5).Build(context.Background())
	require.NoError(t, err)

	_, err = s.Start(context.Background(), Handlers{})

	var apiErr *osc.WebAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "battery too low", apiErr.Message)
	assert.ErrorIs(t, err, osc.ErrWebAPI)
}

func TestStart_Twice(t *testing.T) {
	repo := newTestRepository(&fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			return doneWithFiles(name, "ts.jpg"), nil
		},
	})

	s, err := repo.NewTimeShiftBuilder().Build(context.Background())
	require.NoError(t, err)

	_, err = s.Start(context.Background(), Handlers{})
	require.NoError(t, err)

	_, err = s.Start(context.Background(), Handlers{})
	assert.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestEventCapture_ProgressOnceThenNoPostSettlementDelivery(t *testing.T) {
	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				return &osc.CommandResponse{Name: name, State: osc.StateInProgress, ID: "12"}, nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
		onStat: func(n int) (*osc.CommandResponse, error) {
			if n == 1 {
				return &osc.CommandResponse{State: osc.StateInProgress, Progress: &osc.Progress{Completion: 0.5}}, nil
			}

			return doneWithFiles(osc.CommandStartCapture, "a.jpg", "b.jpg"), nil
		},
	}
	repo := newTestRepository(gw, WithClock(instantClock{}))

	s, err := repo.NewMultiBracketBuilder().SetBracketSettings(twoBrackets()).Build(context.Background())
	require.NoError(t, err)

	var (
		mu       sync.Mutex
		progress []float64
	)

	urls, err := s.Start(context.Background(), Handlers{
		OnProgress: func(c float64) {
			mu.Lock()
			progress = append(progress, c)
			mu.Unlock()
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, urls)
	assert.Equal(t, 0, repo.Relay().Registered(s.Owner()))

	names := KindMultiBracket.Names()
	repo.Relay().Dispatch(notify.Progress(names.Progress, 0.9))
	repo.Relay().Dispatch(notify.Files(names.Completed, []string{"late.jpg"}))

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []float64{0.5}, progress)
	assert.Equal(t, 0, repo.Relay().Len())
}

func TestEventCapture_FailedStatus(t *testing.T) {
	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				return &osc.CommandResponse{Name: name, State: osc.StateInProgress, ID: "3"}, nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
		onStat: func(int) (*osc.CommandResponse, error) {
			return &osc.CommandResponse{
				State: osc.StateError,
				Error: &osc.CommandError{Code: "unexpected", Message: "lens blocked"},
			}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(instantClock{}))

	s, err := repo.NewShotCountIntervalBuilder(3).SetCaptureInterval(2).Build(context.Background())
	require.NoError(t, err)

	_, err = s.Start(context.Background(), Handlers{})

	var apiErr *osc.WebAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "lens blocked", apiErr.Message)
	assert.Equal(t, 0, repo.Relay().Len())
}

func TestEventCapture_StatusUnavailable(t *testing.T) {
	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				return &osc.CommandResponse{Name: name, State: osc.StateInProgress, ID: "3"}, nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
		onStat: func(int) (*osc.CommandResponse, error) {
			return nil, &osc.NotConnectedError{Err: errors.New("connection refused")}
		},
	}
	repo := newTestRepository(gw, WithClock(instantClock{}))

	s, err := repo.NewTimeShiftBuilder().Build(context.Background())
	require.NoError(t, err)

	_, err = s.Start(context.Background(), Handlers{})
	require.ErrorIs(t, err, ErrStatusUnavailable)
	assert.ErrorIs(t, err, osc.ErrNotConnected)

	gw.mu.Lock()
	defer gw.mu.Unlock()

	assert.Equal(t, 3, gw.status)
}

func TestEventCapture_CancelWithoutResultResolvesEmpty(t *testing.T) {
	var stopped atomic.Bool

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			switch name {
			case osc.CommandStartCapture:
				return &osc.CommandResponse{Name: name, State: osc.StateInProgress, ID: "9"}, nil
			case osc.CommandStopCapture:
				stopped.Store(true)
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
		onStat: func(int) (*osc.CommandResponse, error) {
			if stopped.Load() {
				return &osc.CommandResponse{Name: osc.CommandStartCapture, State: osc.StateDone}, nil
			}

			return &osc.CommandResponse{State: osc.StateInProgress}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(instantClock{}))

	s, err := repo.NewMultiBracketBuilder().SetBracketSettings(twoBrackets()).Build(context.Background())
	require.NoError(t, err)

	result := startAsync(context.Background(), s, Handlers{})

	require.NoError(t, s.Cancel(context.Background()))

	r, ok := waitResult(result)
	require.True(t, ok, "start did not settle")
	require.NoError(t, r.err)
	assert.Empty(t, r.value)
	assert.Equal(t, 0, repo.Relay().Len())
}

func TestIntervalCapture_CancelWithoutResultResolvesEmpty(t *testing.T) {
	started := make(chan struct{})

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				close(started)
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	result := startAsync(context.Background(), s, Handlers{})
	<-started

	require.NoError(t, s.Cancel(context.Background()))

	r, ok := waitResult(result)
	require.True(t, ok, "start did not settle")
	require.NoError(t, r.err)
	assert.Nil(t, r.value)
	assert.Equal(t, 0, repo.Relay().Registered(s.Owner()))
}

func TestIntervalCapture_CancelReturnsStopFiles(t *testing.T) {
	started := make(chan struct{})

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			switch name {
			case osc.CommandStartCapture:
				close(started)
			case osc.CommandStopCapture:
				return doneWithFiles(name, "1.jpg", "2.jpg"), nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().SetCaptureInterval(1).Build(context.Background())
	require.NoError(t, err)

	result := startAsync(context.Background(), s, Handlers{})
	<-started

	require.NoError(t, s.Cancel(context.Background()))

	r, ok := waitResult(result)
	require.True(t, ok)
	require.NoError(t, r.err)
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, r.value)
}

func TestIntervalCapture_IdleConfirmation(t *testing.T) {
	sequence := []string{"shooting", "idle", "shooting", "idle", "idle"}

	gw := &fakeGateway{
		onState: func(n int) (*osc.StateResponse, error) {
			if n > len(sequence) {
				return nil, fmt.Errorf("unexpected state query %d", n)
			}

			return stateResponse(sequence[n-1]), nil
		},
	}
	repo := newTestRepository(gw, WithClock(instantClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	urls, err := s.Start(context.Background(), Handlers{})
	require.NoError(t, err)
	assert.Nil(t, urls)
	assert.Equal(t, len(sequence), gw.stateCalls())
}

func TestIntervalCapture_StatusUnavailable(t *testing.T) {
	gw := &fakeGateway{
		onState: func(int) (*osc.StateResponse, error) {
			return nil, &osc.NotConnectedError{Err: errors.New("timeout")}
		},
	}
	repo := newTestRepository(gw, WithClock(instantClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	_, err = s.Start(context.Background(), Handlers{})
	require.ErrorIs(t, err, ErrStatusUnavailable)
	assert.Equal(t, 3, gw.stateCalls())
}

func TestSettle_OnlyFirstTriggerWins(t *testing.T) {
	started := make(chan struct{})

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				close(started)
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	result := startAsync(context.Background(), s, Handlers{})
	<-started

	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)

	for i := 0; i < 16; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			var err error
			if i%2 == 1 {
				err = fmt.Errorf("trigger %d", i)
			}

			if s.settle([]string{fmt.Sprintf("%d.jpg", i)}, err) {
				wins.Add(1)
			}
		}(i)
	}

	wg.Wait()

	r, ok := waitResult(result)
	require.True(t, ok)
	assert.Equal(t, int32(1), wins.Load())

	if r.err == nil {
		assert.Len(t, r.value, 1)
	}

	assert.False(t, s.settle(nil, errors.New("late")))
}

func TestStopError_ReportedOutOfBand(t *testing.T) {
	started := make(chan struct{})

	var stops atomic.Int32

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			switch name {
			case osc.CommandStartCapture:
				close(started)
			case osc.CommandStopCapture:
				if stops.Add(1) == 1 {
					return nil, &osc.NotConnectedError{Err: errors.New("reset by peer")}
				}

				return doneWithFiles(name, "x.jpg"), nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	var reported []error

	result := startAsync(context.Background(), s, Handlers{
		OnStopError: func(err error) { reported = append(reported, err) },
	})
	<-started

	err = s.Cancel(context.Background())

	var stopErr *StopError
	require.ErrorAs(t, err, &stopErr)
	assert.ErrorIs(t, err, osc.ErrNotConnected)

	repo.Relay().Dispatch(notify.Message(KindInterval.Names().StopError, "lens cover closed"))

	require.NoError(t, s.Cancel(context.Background()))

	r, ok := waitResult(result)
	require.True(t, ok)
	require.NoError(t, r.err)
	assert.Equal(t, []string{"x.jpg"}, r.value)

	require.Len(t, reported, 2)
	assert.ErrorAs(t, reported[1], &stopErr)
	assert.Contains(t, reported[1].Error(), "lens cover closed")

	// a stop failure after settlement only reaches the caller of Cancel
	stops.Store(0)
	require.Error(t, s.Cancel(context.Background()))
	assert.Len(t, reported, 2)
}

func TestStart_ContextCancellation(t *testing.T) {
	started := make(chan struct{})

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				close(started)
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	result := startAsync(ctx, s, Handlers{})
	<-started
	cancel()

	r, ok := waitResult(result)
	require.True(t, ok)
	require.ErrorIs(t, r.err, context.Canceled)
	assert.Equal(t, 0, repo.Relay().Len())
}

func TestStart_ReplacesStaleSessionHandlers(t *testing.T) {
	started := make(chan struct{}, 2)

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				started <- struct{}{}
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	first, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	second, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	var firstCalls, secondCalls atomic.Int32

	firstResult := startAsync(context.Background(), first, Handlers{
		OnProgress: func(float64) { firstCalls.Add(1) },
	})
	<-started

	secondResult := startAsync(context.Background(), second, Handlers{
		OnProgress: func(float64) { secondCalls.Add(1) },
	})
	<-started

	repo.Relay().Dispatch(notify.Progress(KindInterval.Names().Progress, 0.4))

	assert.Equal(t, int32(0), firstCalls.Load())
	assert.Equal(t, int32(1), secondCalls.Load())

	first.settle(nil, nil)
	second.settle(nil, nil)

	_, ok := waitResult(firstResult)
	require.True(t, ok)
	_, ok = waitResult(secondResult)
	require.True(t, ok)
	assert.Equal(t, 0, repo.Relay().Len())
}

func TestEventCapture_CompletionStaysWithItsSession(t *testing.T) {
	var (
		starts   atomic.Int32
		secondUp atomic.Bool
		first    *Session[[]string]
	)

	inProgress := &osc.CommandResponse{State: osc.StateInProgress}

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name != osc.CommandStartCapture {
				return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
			}

			id := "A"
			if starts.Add(1) == 2 {
				id = "B"
				secondUp.Store(true)
			}

			return &osc.CommandResponse{Name: name, State: osc.StateInProgress, ID: id}, nil
		},
		onStatID: func(id string) (*osc.CommandResponse, error) {
			switch id {
			case "A":
				if secondUp.Load() {
					return doneWithFiles(osc.CommandStartCapture, "A.jpg"), nil
				}
			case "B":
				select {
				case <-first.Done():
					return doneWithFiles(osc.CommandStartCapture, "B.jpg"), nil
				default:
				}
			}

			return inProgress, nil
		},
	}
	repo := newTestRepository(gw, WithClock(instantClock{}))

	var err error

	first, err = repo.NewMultiBracketBuilder().SetBracketSettings(twoBrackets()).Build(context.Background())
	require.NoError(t, err)

	second, err := repo.NewMultiBracketBuilder().SetBracketSettings(twoBrackets()).Build(context.Background())
	require.NoError(t, err)

	firstResult := startAsync(context.Background(), first, Handlers{})
	require.Eventually(t, func() bool { return starts.Load() == 1 }, 5*time.Second, time.Millisecond)

	secondResult := startAsync(context.Background(), second, Handlers{})

	r, ok := waitResult(firstResult)
	require.True(t, ok, "first session never settled")
	require.NoError(t, r.err)
	assert.Equal(t, []string{"A.jpg"}, r.value)

	r, ok = waitResult(secondResult)
	require.True(t, ok, "second session never settled")
	require.NoError(t, r.err)
	assert.Equal(t, []string{"B.jpg"}, r.value)
	assert.Equal(t, 0, repo.Relay().Len())
}

func TestEventCapture_PublishesThroughLocalSource(t *testing.T) {
	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				return &osc.CommandResponse{Name: name, State: osc.StateInProgress, ID: "7"}, nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
		onStat: func(n int) (*osc.CommandResponse, error) {
			if n == 1 {
				return &osc.CommandResponse{State: osc.StateInProgress, Progress: &osc.Progress{Completion: 0.5}}, nil
			}

			return doneWithFiles(osc.CommandStartCapture, testFileURL), nil
		},
	}

	log := logger.NewTestLogger()
	src := notify.NewLocalSource()
	repo := NewRepository(gw, notify.NewRelay(src, log), log, WithClock(instantClock{}))
	require.NoError(t, repo.Init(context.Background()))
	defer repo.Close()

	var (
		mu       sync.Mutex
		observed []string
	)

	sub, err := src.Subscribe(context.Background(), func(e notify.Event) {
		mu.Lock()
		observed = append(observed, e.Name)
		mu.Unlock()
	})
	require.NoError(t, err)
	defer sub.Remove()

	s, err := repo.NewTimeShiftBuilder().Build(context.Background())
	require.NoError(t, err)

	var progress atomic.Int32

	url, err := s.Start(context.Background(), Handlers{OnProgress: func(float64) { progress.Add(1) }})
	require.NoError(t, err)
	assert.Equal(t, testFileURL, url)
	assert.Equal(t, int32(1), progress.Load())

	names := KindTimeShift.Names()

	// the relay's subscriber may settle the session before ours sees COMPLETED
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()

		return len(observed) == 2
	}, 5*time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()

	assert.Equal(t, []string{names.Progress, names.Completed}, observed)
}

func TestSettle_WaitsForRunningProgressCallback(t *testing.T) {
	started := make(chan struct{})

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			if name == osc.CommandStartCapture {
				close(started)
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	entered := make(chan struct{})
	release := make(chan struct{})

	var calls atomic.Int32

	result := startAsync(context.Background(), s, Handlers{
		OnProgress: func(float64) {
			if calls.Add(1) == 1 {
				close(entered)
				<-release
			}
		},
	})
	<-started

	progress := notify.Progress(KindInterval.Names().Progress, 0.2)

	go repo.Relay().Dispatch(progress)
	<-entered

	go s.settle(nil, nil)

	select {
	case <-s.Done():
		t.Fatal("settled while a progress callback was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	r, ok := waitResult(result)
	require.True(t, ok)
	require.NoError(t, r.err)

	repo.Relay().Dispatch(progress)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCancel_FromProgressCallback(t *testing.T) {
	started := make(chan struct{})

	gw := &fakeGateway{
		execute: func(name string, _ interface{}) (*osc.CommandResponse, error) {
			switch name {
			case osc.CommandStartCapture:
				close(started)
			case osc.CommandStopCapture:
				return doneWithFiles(name, "last.jpg"), nil
			}

			return &osc.CommandResponse{Name: name, State: osc.StateDone}, nil
		},
	}
	repo := newTestRepository(gw, WithClock(stalledClock{}))

	s, err := repo.NewIntervalBuilder().Build(context.Background())
	require.NoError(t, err)

	cancelErr := make(chan error, 1)

	result := startAsync(context.Background(), s, Handlers{
		OnProgress: func(float64) { cancelErr <- s.Cancel(context.Background()) },
	})
	<-started

	repo.Relay().Dispatch(notify.Progress(KindInterval.Names().Progress, 0.9))
	require.NoError(t, <-cancelErr)

	r, ok := waitResult(result)
	require.True(t, ok)
	require.NoError(t, r.err)
	assert.Equal(t, []string{"last.jpg"}, r.value)
}
