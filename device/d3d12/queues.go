// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package d3d12

import "github.com/devblok/sage/gfx"

// D3D12_COMMAND_LIST_TYPE
const (
	commandListTypeDirect  = 0
	commandListTypeCompute = 2
	commandListTypeCopy    = 3
)

// D3D12_COMMAND_QUEUE_PRIORITY
const (
	queuePriorityNormal = 0
	queuePriorityHigh   = 100
)

// Feature levels a device is created with, best first
var featureLevels = []gfx.Version{
	{Major: 12, Minor: 1},
	{Major: 12, Minor: 0},
	{Major: 11, Minor: 1},
	{Major: 11, Minor: 0},
}

func requestedLevels(min gfx.Version) []gfx.Version {
	var levels []gfx.Version
	for _, level := range featureLevels {
		if level.AtLeast(min) {
			levels = append(levels, level)
		}
	}
	return levels
}

// adapterQueues are the queue kinds every Direct3D 12 adapter offers
func adapterQueues() []gfx.CommandQueueInfo {
	return []gfx.CommandQueueInfo{
		{Type: gfx.QueueTypeGraphics, MaxDeviceContexts: 1},
		{Type: gfx.QueueTypeCompute, MaxDeviceContexts: 1},
		{Type: gfx.QueueTypeTransfer, MaxDeviceContexts: 1},
	}
}

func commandListType(t gfx.QueueType) uint32 {
	switch t & gfx.QueueTypePrimaryMask {
	case gfx.QueueTypeGraphics:
		return commandListTypeDirect
	case gfx.QueueTypeCompute:
		return commandListTypeCompute
	default:
		return commandListTypeCopy
	}
}

// queuePriority maps context priorities, realtime queues need a privilege
// the engine does not ask for
func queuePriority(p gfx.QueuePriority) int32 {
	switch p {
	case gfx.QueuePriorityHigh, gfx.QueuePriorityRealtime:
		return queuePriorityHigh
	default:
		return queuePriorityNormal
	}
}
