// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device provides the shared GPU context, texture resources and
// the per-plane texture cache used by every videofx renderer.
//
// A Context owns the GPU device handle and compiles the shared kernel
// library once. Renderers borrow the context; they never create devices
// themselves. Kernels execute through the built-in software executor,
// which implements the same per-pixel semantics as the WGSL sources; a
// present device is used to compile and validate those sources, so every
// operation stays testable on machines without a GPU.
package device

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/naga"

	"github.com/gogpu/videofx"
)

// Library is a compiled shader/kernel library. With a device present it
// holds the SPIR-V produced by naga; software contexts skip compilation.
// Kernels run as Go functions with the semantics the sources describe.
type Library struct {
	label string
	spirv []uint32
}

// Label returns the library's debug label.
func (l *Library) Label() string { return l.label }

// SPIRV returns the compiled SPIR-V words, or nil for a software library.
func (l *Library) SPIRV() []uint32 { return l.spirv }

// Context owns the GPU device handle and the shared kernel library.
//
// A Context is created either explicitly via New, with the composition
// root passing it to every renderer, or through the process-wide Shared
// context. Texture and cache creation, shader compilation and renderer
// configuration all go through the Context.
//
// Context methods are safe for concurrent use; the textures and caches
// it hands out are not.
type Context struct {
	mu sync.Mutex

	// provider supplies the GPU device. Nil means software execution.
	provider gpucontext.DeviceProvider

	// gpu holds owned wgpu resources when the context acquired its own
	// adapter (Shared path). Nil when the device came from a provider
	// or when running in software.
	gpu *gpuResources

	// library is the shared kernel library, compiled once.
	library *Library

	released bool
}

// sharedOnce guards creation of the process-wide context. First-call races
// have a single winner; losers block and reuse the winner's context.
var (
	sharedOnce sync.Once
	sharedCtx  *Context
)

// Shared returns the process-wide device context, creating it on first
// call. It tries to acquire a GPU adapter and silently falls back to
// software execution when none is available. The shared context lives
// until process exit and is never released.
func Shared() *Context {
	sharedOnce.Do(func() {
		gpu, err := acquireGPU("videofx-shared-device")
		if err != nil {
			videofx.Logger().Warn("device: no GPU adapter, using software execution",
				"error", err)
			sharedCtx = &Context{}
			return
		}
		sharedCtx = &Context{gpu: gpu}
		if err := sharedCtx.compileLibrary(); err != nil {
			videofx.Logger().Warn("device: shared library compile failed, using software execution",
				"error", err)
			gpu.release()
			sharedCtx = &Context{}
		}
	})
	return sharedCtx
}

// New creates an explicit context from a host-supplied device provider.
// Pass nil to build a software-only context; this is the configuration
// used by tests and by hosts without GPU access.
//
// When the provider supplies a device, the shared kernel library is
// compiled immediately; a compile failure is returned here rather than
// surfacing later from every renderer's configure.
func New(provider gpucontext.DeviceProvider) (*Context, error) {
	c := &Context{provider: provider}
	if c.hasDevice() {
		if err := c.compileLibrary(); err != nil {
			return nil, err
		}
		videofx.Logger().Info("device: context created on host-provided device")
	} else {
		videofx.Logger().Debug("device: software context created")
	}
	return c, nil
}

// hasDevice reports whether a GPU device is present.
func (c *Context) hasDevice() bool {
	if c.gpu != nil {
		return true
	}
	return c.provider != nil && c.provider.Device() != nil
}

// HasDevice reports whether the context holds a GPU adapter and device.
// Kernels execute on the CPU in either case; a held device validates
// compiled shader sources through naga but does not yet dispatch them.
func (c *Context) HasDevice() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.released && c.hasDevice()
}

// compileLibrary compiles the shared kernel source once. Callers hold no
// lock; the method is invoked only during context construction.
func (c *Context) compileLibrary() error {
	lib, err := c.CompileShaderSource("videofx-common", commonShaderWGSL)
	if err != nil {
		return err
	}
	c.library = lib
	return nil
}

// CompileShaderSource compiles WGSL kernel source into a Library.
//
// With a device present the source is compiled to SPIR-V through naga,
// validating it before any kernel runs, and the compiler diagnostic is
// preserved in the returned error. Software contexts skip compilation
// and return an empty library to keep renderer configuration uniform.
func (c *Context) CompileShaderSource(label, source string) (*Library, error) {
	c.mu.Lock()
	released := c.released
	hasDev := c.hasDevice()
	c.mu.Unlock()

	if released {
		return nil, ErrContextReleased
	}
	if !hasDev {
		return &Library{label: label}, nil
	}

	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompile, label, err)
	}

	// SPIR-V is little-endian 32-bit words.
	spirv := make([]uint32, len(spirvBytes)/4)
	for i := range spirv {
		spirv[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}

	videofx.Logger().Debug("device: shader library compiled",
		"label", label, "words", len(spirv))
	return &Library{label: label, spirv: spirv}, nil
}

// Library returns the shared kernel library compiled at context creation.
// Software contexts return an empty library.
func (c *Context) Library() *Library {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.library == nil {
		return &Library{label: "videofx-common"}
	}
	return c.library
}

// NewTexture allocates a 2D texture on this context.
func (c *Context) NewTexture(width, height int, format TextureFormat, label string) (*Texture, error) {
	c.mu.Lock()
	released := c.released
	c.mu.Unlock()
	if released {
		return nil, ErrContextReleased
	}
	return newTexture(width, height, format, label)
}

// NewTextureCache creates a per-plane texture cache bound to this context.
func (c *Context) NewTextureCache() *TextureCache {
	return &TextureCache{
		ctx:     c,
		entries: make(map[int]*cacheEntry),
		slots:   make(map[int]*Texture),
	}
}

// Release frees the context's GPU resources. The shared context must not
// be released; explicit contexts should be released by their composition
// root on teardown. Release is idempotent.
func (c *Context) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.library = nil
	if c.gpu != nil {
		c.gpu.release()
		c.gpu = nil
	}
}
