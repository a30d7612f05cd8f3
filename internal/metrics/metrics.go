// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RenderResults counts the variant finally chosen per payload.
	RenderResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_qr_render_results_total",
			Help: "Total number of QR renders by payload kind and chosen variant",
		},
		[]string{"payload", "variant"}, // variant: branded, plain, remote_url
	)

	// RenderStageFailures counts absorbed failures of individual render stages.
	RenderStageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_qr_render_stage_failures_total",
			Help: "Total number of failed render stages that triggered a fallback",
		},
		[]string{"stage", "reason"}, // reason: encoding, asset_missing, panic, render
	)

	RenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "product_qr_render_duration_seconds",
			Help:    "Time spent producing a render result per payload",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"payload"},
	)

	ScanResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_qr_scan_results_total",
			Help: "Total number of scan requests by outcome",
		},
		[]string{"outcome"}, // outcome: found, not_found, missing_payload, invalid, error
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "product_qr_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "product_qr_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
