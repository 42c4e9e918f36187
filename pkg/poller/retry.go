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

package poller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryPolicy runs an operation a bounded number of times with a fixed
// delay after each failed attempt.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// Do calls op until it succeeds or MaxAttempts is reached. It returns the
// last error wrapped in ErrRetriesExhausted, or ctx.Err() if the context
// ends while waiting.
//
// The delay is taken on clock after every failure, the last one included,
// so backoff itself never sleeps.
func (p RetryPolicy) Do(ctx context.Context, clock Clock, op func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	attempt := 0

	operation := func() (struct{}, error) {
		attempt++

		err := op(ctx, attempt)
		if err == nil {
			return struct{}{}, nil
		}

		select {
		case <-ctx.Done():
			return struct{}{}, backoff.Permanent(ctx.Err())
		case <-clock.After(p.Delay):
		}

		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&backoff.ZeroBackOff{}),
		backoff.WithMaxTries(uint(attempts)))
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		err = permanent.Unwrap()
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
}
