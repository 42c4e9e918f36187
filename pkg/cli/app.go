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

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/nats-io/nats.go"

	"github.com/carverauto/thetacapture/pkg/capture"
	"github.com/carverauto/thetacapture/pkg/config"
	"github.com/carverauto/thetacapture/pkg/lifecycle"
	"github.com/carverauto/thetacapture/pkg/logger"
	"github.com/carverauto/thetacapture/pkg/notify"
	"github.com/carverauto/thetacapture/pkg/osc"
)

var errFailedToLoadConfig = errors.New("failed to load config")

// app is everything one command run needs.
type app struct {
	cfg     *config.Capture
	logger  logger.Logger
	gateway *osc.Client
	repo    *capture.Repository
	nc      *nats.Conn
}

// loadConfig reads --config or CONFIG_SOURCE=env when given, otherwise
// starts from the defaults. Flags win over both.
func loadConfig(ctx context.Context) (*config.Capture, error) {
	cfg := &config.Capture{}

	if configPath != "" || os.Getenv("CONFIG_SOURCE") != "" {
		if err := config.NewConfig(nil).LoadAndValidate(ctx, configPath, cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
		}
	}

	if endpoint != "" {
		cfg.Endpoint = endpoint
	}

	if model != "" {
		cfg.Model = osc.Model(model)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", errFailedToLoadConfig, err)
	}

	if debug {
		cfg.Logging.Debug = true
	}

	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	if err := lifecycle.InitializeLogger(cfg.Logging); err != nil {
		return nil, err
	}

	log, err := lifecycle.CreateComponentLogger("thetacapture", cfg.Logging)
	if err != nil {
		return nil, err
	}

	gateway, err := osc.NewClient(osc.ClientConfig{
		Endpoint: cfg.Endpoint,
		Timeout:  cfg.Timeout.Std(),
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: log, gateway: gateway}

	source, err := a.eventSource()
	if err != nil {
		a.close()

		return nil, err
	}

	a.repo = capture.NewRepository(gateway, notify.NewRelay(source, log), log,
		capture.WithModel(cfg.Model),
		capture.WithPollConfig(cfg.Poll))

	if err := a.repo.Init(ctx); err != nil {
		a.close()

		return nil, err
	}

	log.Debug().
		Str("endpoint", cfg.Endpoint).
		Str("events", cfg.Events.Source).
		Msg("Capture repository ready")

	return a, nil
}

// eventSource builds the notification source named by the config. The
// local source only carries what the command tracker publishes.
func (a *app) eventSource() (notify.Source, error) {
	switch a.cfg.Events.Source {
	case config.EventSourceNATS:
		nc, err := notify.ConnectNATS(a.cfg.Events.NATSURL, a.logger)
		if err != nil {
			return nil, err
		}

		a.nc = nc

		return notify.NewNATSSource(nc, a.cfg.Events.Subject, a.logger)
	case config.EventSourceWebSocket:
		return notify.NewWebSocketSource(a.cfg.Events.WebSocketURL, nil, nil, a.logger)
	default:
		return notify.NewLocalSource(), nil
	}
}

func (a *app) close() {
	if a.repo != nil {
		a.repo.Close()
	}

	if a.nc != nil {
		a.nc.Close()
	}
}
