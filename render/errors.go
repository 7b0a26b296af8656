// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import "errors"

// Render package errors.
var (
	// ErrNotConfigured is returned by Process before a successful Configure,
	// or after a Configure failure.
	ErrNotConfigured = errors.New("render: renderer not configured")

	// ErrInvalidConfig is returned by Configure for invalid settings.
	ErrInvalidConfig = errors.New("render: invalid configuration")

	// ErrAssetLoad is returned when an external asset (overlay image,
	// lookup table) cannot be loaded. The renderer's previous asset, if
	// any, stays active.
	ErrAssetLoad = errors.New("render: asset load failed")

	// ErrRendererClosed is returned when using a renderer after Cleanup.
	ErrRendererClosed = errors.New("render: renderer is closed")
)
