// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import "errors"

// Device package errors.
var (
	// ErrShaderCompile is returned when kernel source fails to compile.
	// The wrapped error carries the compiler diagnostic.
	ErrShaderCompile = errors.New("device: shader compilation failed")

	// ErrTextureAlloc is returned when a texture cannot be allocated.
	ErrTextureAlloc = errors.New("device: texture allocation failed")

	// ErrTextureDestroyed is returned when operating on a destroyed texture.
	ErrTextureDestroyed = errors.New("device: texture has been destroyed")

	// ErrInvalidTextureSize is returned for non-positive texture dimensions.
	ErrInvalidTextureSize = errors.New("device: invalid texture size")

	// ErrContextReleased is returned when operating on a released context.
	ErrContextReleased = errors.New("device: context has been released")

	// ErrNoGPU is returned when no GPU adapter can be acquired.
	ErrNoGPU = errors.New("device: no GPU adapter available")
)
