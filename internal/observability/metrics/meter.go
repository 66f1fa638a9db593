// Copyright 2026 The Shopfort Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps OpenTelemetry meter
type Meter struct {
	meter metric.Meter
}

// New creates a new meter instance
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return &Meter{
			meter: otel.Meter("noop"),
		}, nil
	}

	// Get meter from global meter provider
	// In production, configure a proper meter provider with exporters
	meter := otel.Meter(serviceName)

	return &Meter{
		meter: meter,
	}, nil
}

// GetMeter returns the underlying meter
func (m *Meter) GetMeter() metric.Meter {
	return m.meter
}

// AuthzMetrics holds counters for authorization decisions made by the
// guard middleware.
type AuthzMetrics struct {
	granted metric.Int64Counter
	denied  metric.Int64Counter
}

// NewAuthzMetrics registers the authorization decision counters.
func NewAuthzMetrics(m *Meter) (*AuthzMetrics, error) {
	granted, err := m.meter.Int64Counter(
		"authz.decisions.granted",
		metric.WithDescription("Requests allowed past a guard"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create granted counter: %w", err)
	}

	denied, err := m.meter.Int64Counter(
		"authz.decisions.denied",
		metric.WithDescription("Requests rejected by a guard"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create denied counter: %w", err)
	}

	return &AuthzMetrics{granted: granted, denied: denied}, nil
}

// Granted records a guard pass.
func (a *AuthzMetrics) Granted(ctx context.Context, guard string) {
	if a == nil {
		return
	}
	a.granted.Add(ctx, 1, metric.WithAttributes(attribute.String("guard", guard)))
}

// Denied records a guard rejection with the HTTP status it produced.
func (a *AuthzMetrics) Denied(ctx context.Context, guard string, status int) {
	if a == nil {
		return
	}
	a.denied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("guard", guard),
		attribute.Int("status", status),
	))
}
