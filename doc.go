// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package videofx is a video frame processing engine with a GPU-shaped
// API over a software executor.
//
// It takes decoded video frames, planar 4:2:0 (NV12, I420), packed 4:2:2
// (UYVY, YUY2) or packed RGB (BGRA, RGBA), and performs colorspace
// conversion, scaling, compositing, deinterlacing, geometric transforms and
// parametric color grading, returning either a presentable texture or a
// CPU-readable frame in a negotiated pixel format. Every kernel exists as
// WGSL, validated against a WebGPU device when one is present, and as the
// equivalent Go loop, which is what executes.
//
// The engine is organized around a small set of stateful renderers that
// share one device context:
//
//   - device.Context: GPU device handle plus the shared kernel library,
//     compiled once per context
//   - render.ConvertScale: format conversion and resize with optional
//     letterboxing
//   - render.Compositor: multi-input z-ordered blending onto a canvas
//   - render.Deinterlace: bob/weave/linear/greedyh field reconstruction
//   - render.Overlay: static image compositing at a configurable rectangle
//   - render.Transform: the eight orientation transforms plus edge cropping
//   - render.ColorFilter: parametric grading, 3D LUT and blur/sharpen
//   - surface.VideoSurface: on-screen presentation without CPU readback
//
// Renderers follow a configure/process lifecycle: Configure negotiates the
// frame contract and builds pipeline state, Process handles exactly one
// output frame. A renderer instance must be confined to a single goroutine.
//
// The root package holds the shared data model: FrameBuffer, PixelFormat,
// input path classification and the BT.601/BT.709 color matrices every
// YUV-aware stage uses.
package videofx
