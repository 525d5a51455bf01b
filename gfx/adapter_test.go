// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx_test

import (
	"math/rand"
	"testing"

	"github.com/devblok/sage/gfx"
	"github.com/stretchr/testify/assert"
)

func adapterWithQueues(t gfx.AdapterType, n int) gfx.AdapterInfo {
	a := gfx.AdapterInfo{Type: t}
	for i := 0; i < n; i++ {
		a.Queues = append(a.Queues, gfx.CommandQueueInfo{Type: gfx.QueueTypeGraphics, MaxDeviceContexts: 1})
	}
	return a
}

func TestSelectAdapter(t *testing.T) {
	for _, tc := range []struct {
		name     string
		adapters []gfx.AdapterInfo
		want     int
	}{
		{
			name: "most queues",
			adapters: []gfx.AdapterInfo{
				adapterWithQueues(gfx.AdapterTypeDiscrete, 1),
				adapterWithQueues(gfx.AdapterTypeIntegrated, 3),
			},
			want: 1,
		},
		{
			name: "discrete wins tie",
			adapters: []gfx.AdapterInfo{
				adapterWithQueues(gfx.AdapterTypeIntegrated, 2),
				adapterWithQueues(gfx.AdapterTypeDiscrete, 2),
			},
			want: 1,
		},
		{
			name: "first non discrete keeps tie",
			adapters: []gfx.AdapterInfo{
				adapterWithQueues(gfx.AdapterTypeIntegrated, 2),
				adapterWithQueues(gfx.AdapterTypeSoftware, 2),
			},
			want: 0,
		},
		{
			name: "no queues",
			adapters: []gfx.AdapterInfo{
				adapterWithQueues(gfx.AdapterTypeSoftware, 0),
				adapterWithQueues(gfx.AdapterTypeIntegrated, 0),
			},
			want: 0,
		},
	} {
		assert.Equal(t, tc.want, gfx.SelectAdapter(tc.adapters), tc.name)
	}
}

func TestSelectAdapterProperties(t *testing.T) {
	types := []gfx.AdapterType{gfx.AdapterTypeUnknown, gfx.AdapterTypeSoftware, gfx.AdapterTypeIntegrated, gfx.AdapterTypeDiscrete}
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 500; round++ {
		adapters := make([]gfx.AdapterInfo, 1+rng.Intn(6))
		maxQueues, discreteAtMax := 0, false
		for idx := range adapters {
			adapters[idx] = adapterWithQueues(types[rng.Intn(len(types))], rng.Intn(4))
			if n := adapters[idx].NumQueues(); n > maxQueues {
				maxQueues = n
			}
		}
		for _, a := range adapters {
			if a.NumQueues() == maxQueues && a.Type == gfx.AdapterTypeDiscrete {
				discreteAtMax = true
			}
		}

		selected := adapters[gfx.SelectAdapter(adapters)]
		if maxQueues > 0 {
			assert.Equal(t, maxQueues, selected.NumQueues())
		}
		if discreteAtMax {
			assert.Equal(t, gfx.AdapterTypeDiscrete, selected.Type)
		}
	}
}

func TestSelectAdapterWithoutAdapters(t *testing.T) {
	assert.Panics(t, func() { gfx.SelectAdapter(nil) })
}

func TestReserveContextRole(t *testing.T) {
	adapter := &gfx.AdapterInfo{
		Queues: []gfx.CommandQueueInfo{
			{Type: gfx.QueueTypeGraphics, MaxDeviceContexts: 1},
			{Type: gfx.QueueTypeCompute, MaxDeviceContexts: 1},
			{Type: gfx.QueueTypeTransfer, MaxDeviceContexts: 0},
			{Type: gfx.QueueTypeTransfer | gfx.QueueTypeSparseBinding, MaxDeviceContexts: 1},
		},
	}

	queue, ok := gfx.ReserveContextRole(adapter, gfx.QueueTypeTransfer)
	assert.True(t, ok)
	assert.Equal(t, 3, queue)
	assert.Equal(t, uint32(0), adapter.Queues[3].MaxDeviceContexts)

	_, ok = gfx.ReserveContextRole(adapter, gfx.QueueTypeTransfer)
	assert.False(t, ok, "capacity is exhausted")

	queue, ok = gfx.ReserveContextRole(adapter, gfx.QueueTypeCompute)
	assert.True(t, ok)
	assert.Equal(t, 1, queue, "graphics queues don't satisfy the compute role")

	queue, ok = gfx.ReserveContextRole(adapter, gfx.QueueTypeGraphics)
	assert.True(t, ok)
	assert.Equal(t, 0, queue)

	_, ok = gfx.ReserveContextRole(adapter, gfx.QueueTypeGraphics)
	assert.False(t, ok)
	for _, q := range adapter.Queues {
		assert.Equal(t, uint32(0), q.MaxDeviceContexts)
	}
}

func TestBuildContextPlan(t *testing.T) {
	adapter := discreteAdapter()
	plan := gfx.BuildContextPlan(gfx.DeviceTypeVulkan, &adapter)
	assert.Equal(t, []gfx.ContextCreateInfo{
		{Name: "Graphics", QueueID: 0, Type: gfx.QueueTypeGraphics, Priority: gfx.QueuePriorityHigh},
		{Name: "Transfer", QueueID: 2, Type: gfx.QueueTypeTransfer, Priority: gfx.QueuePriorityMedium},
		{Name: "Compute", QueueID: 1, Type: gfx.QueueTypeCompute, Priority: gfx.QueuePriorityMedium},
	}, plan)
	assert.Equal(t, uint32(0), adapter.Queues[0].MaxDeviceContexts)

	for _, deviceType := range []gfx.DeviceType{gfx.DeviceTypeGL, gfx.DeviceTypeGLES} {
		adapter := discreteAdapter()
		plan := gfx.BuildContextPlan(deviceType, &adapter)
		assert.Len(t, plan, 1, deviceType.String())
		assert.Equal(t, "Graphics", plan[0].Name)
	}

	integrated := discreteAdapter()
	integrated.Type = gfx.AdapterTypeIntegrated
	assert.Len(t, gfx.BuildContextPlan(gfx.DeviceTypeD3D12, &integrated), 1)

	graphicsOnly := adapterWithQueues(gfx.AdapterTypeDiscrete, 1)
	assert.Len(t, gfx.BuildContextPlan(gfx.DeviceTypeVulkan, &graphicsOnly), 1, "missing roles are skipped")
}

func BenchmarkSelectAdapter(b *testing.B) {
	adapters := []gfx.AdapterInfo{
		adapterWithQueues(gfx.AdapterTypeIntegrated, 2),
		adapterWithQueues(gfx.AdapterTypeSoftware, 1),
		adapterWithQueues(gfx.AdapterTypeDiscrete, 3),
		adapterWithQueues(gfx.AdapterTypeDiscrete, 2),
	}
	for idx := 0; idx < b.N; idx++ {
		gfx.SelectAdapter(adapters)
	}
}

func BenchmarkBuildContextPlan(b *testing.B) {
	for idx := 0; idx < b.N; idx++ {
		adapter := discreteAdapter()
		gfx.BuildContextPlan(gfx.DeviceTypeVulkan, &adapter)
	}
}
