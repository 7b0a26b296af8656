// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/videofx"
)

// GPUInfo contains information about the selected GPU.
type GPUInfo struct {
	// Name is the GPU name (e.g., "NVIDIA GeForce RTX 3080").
	Name string
	// Vendor is the GPU vendor.
	Vendor string
	// DeviceType is the type of GPU (discrete, integrated, etc.).
	DeviceType gputypes.DeviceType
	// Backend is the graphics API in use (Vulkan, Metal, DX12).
	Backend gputypes.Backend
	// Driver is the driver version string.
	Driver string
}

// String returns a human-readable description of the GPU.
func (g *GPUInfo) String() string {
	return fmt.Sprintf("%s (%s, %s)", g.Name, g.DeviceType, g.Backend)
}

// gpuResources holds the wgpu handles a context owns when it acquired
// its own adapter rather than borrowing one from a host provider.
type gpuResources struct {
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID
	info     *GPUInfo
}

// acquireGPU creates an instance, requests an adapter and builds a
// logical device with its queue. Resources are released on any failure.
func acquireGPU(label string) (*gpuResources, error) {
	instance := core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	adapterID, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoGPU, err)
	}

	info := getGPUInfo(adapterID)
	if info != nil {
		videofx.Logger().Info("device: GPU selected",
			"gpu", info.String(), "driver", info.Driver)
	}

	deviceID, err := core.RequestDevice(adapterID, &gputypes.DeviceDescriptor{
		Label:            label,
		RequiredFeatures: nil,
		RequiredLimits:   gputypes.DefaultLimits(),
	})
	if err != nil {
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("failed to create device: %w", err)
	}

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		_ = core.AdapterDrop(adapterID)
		return nil, fmt.Errorf("failed to get device queue: %w", err)
	}

	return &gpuResources{
		instance: instance,
		adapter:  adapterID,
		device:   deviceID,
		queue:    queueID,
		info:     info,
	}, nil
}

// getGPUInfo retrieves information about the GPU adapter.
// Returns nil when the query fails; info is advisory only.
func getGPUInfo(adapterID core.AdapterID) *GPUInfo {
	info, err := core.GetAdapterInfo(adapterID)
	if err != nil {
		videofx.Logger().Debug("device: failed to get adapter info", "error", err)
		return nil
	}
	return &GPUInfo{
		Name:       info.Name,
		Vendor:     info.Vendor,
		DeviceType: info.DeviceType,
		Backend:    info.Backend,
		Driver:     info.Driver,
	}
}

// release drops the owned wgpu resources in reverse creation order.
// The queue is released together with the device.
func (g *gpuResources) release() {
	if !g.device.IsZero() {
		if err := core.DeviceDrop(g.device); err != nil {
			videofx.Logger().Warn("device: error releasing device", "error", err)
		}
		g.device = core.DeviceID{}
	}
	if !g.adapter.IsZero() {
		if err := core.AdapterDrop(g.adapter); err != nil {
			videofx.Logger().Warn("device: error releasing adapter", "error", err)
		}
		g.adapter = core.AdapterID{}
	}
	g.instance = nil
	g.queue = core.QueueID{}
}
