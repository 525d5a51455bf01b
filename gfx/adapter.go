// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

// AdapterType classifies a graphics adapter
type AdapterType int

// Adapter types
const (
	AdapterTypeUnknown AdapterType = iota
	AdapterTypeSoftware
	AdapterTypeIntegrated
	AdapterTypeDiscrete
)

func (t AdapterType) String() string {
	switch t {
	case AdapterTypeSoftware:
		return "software"
	case AdapterTypeIntegrated:
		return "integrated"
	case AdapterTypeDiscrete:
		return "discrete"
	default:
		return "unknown"
	}
}

// QueueType is a bit set describing what a command queue can execute.
// Graphics queues can also compute and transfer, compute queues can transfer.
type QueueType uint32

// Queue types
const (
	QueueTypeTransfer QueueType = 0x1
	QueueTypeCompute  QueueType = 0x2 | QueueTypeTransfer
	QueueTypeGraphics QueueType = 0x4 | QueueTypeCompute

	// QueueTypePrimaryMask masks out secondary capabilities like sparse binding
	QueueTypePrimaryMask   QueueType = QueueTypeGraphics
	QueueTypeSparseBinding QueueType = 0x8
)

func (t QueueType) String() string {
	switch t & QueueTypePrimaryMask {
	case QueueTypeGraphics:
		return "graphics"
	case QueueTypeCompute:
		return "compute"
	case QueueTypeTransfer:
		return "transfer"
	default:
		return "unknown"
	}
}

// CommandQueueInfo describes a hardware queue family of an adapter.
// MaxDeviceContexts is the number of contexts that can still be bound to it.
type CommandQueueInfo struct {
	Type              QueueType
	MaxDeviceContexts uint32
}

// AdapterInfo describes a graphics adapter reported by a backend
type AdapterInfo struct {
	Description     string
	Type            AdapterType
	VendorID        uint32
	DeviceID        uint32
	APIVersion      Version
	DedicatedMemory uint64
	Queues          []CommandQueueInfo
}

// NumQueues is the number of queue families the adapter exposes
func (a AdapterInfo) NumQueues() int {
	return len(a.Queues)
}

// SelectAdapter picks the adapter with the most queues, preferring discrete
// adapters on ties. Ties between non-discrete adapters keep the earlier one.
// Passing no adapters is a programming error.
func SelectAdapter(adapters []AdapterInfo) int {
	if len(adapters) == 0 {
		panic("gfx.SelectAdapter(): no adapters to select from")
	}

	selected, maxQueues := 0, 0
	for idx, adapter := range adapters {
		if adapter.NumQueues() < maxQueues ||
			(adapter.NumQueues() == maxQueues && adapter.Type != AdapterTypeDiscrete) {
			continue
		}
		selected = idx
		maxQueues = adapter.NumQueues()
	}
	return selected
}

// ReserveContextRole finds the first queue whose primary type equals role
// and has context capacity left, and reserves one slot on it.
func ReserveContextRole(adapter *AdapterInfo, role QueueType) (int, bool) {
	for idx := range adapter.Queues {
		queue := &adapter.Queues[idx]
		if queue.MaxDeviceContexts == 0 {
			continue
		}
		if queue.Type&QueueTypePrimaryMask == role {
			queue.MaxDeviceContexts--
			return idx, true
		}
	}
	return 0, false
}

// QueuePriority hints how the backend schedules a context's queue
type QueuePriority int

// Queue priorities
const (
	QueuePriorityLow QueuePriority = iota
	QueuePriorityMedium
	QueuePriorityHigh
	QueuePriorityRealtime
)

// ContextCreateInfo requests an immediate context bound to a queue
type ContextCreateInfo struct {
	Name     string
	QueueID  int
	Type     QueueType
	Priority QueuePriority
}

// BuildContextPlan reserves queues for the immediate contexts. A graphics
// context is always requested, discrete adapters outside OpenGL additionally
// get transfer and compute contexts when queues allow it.
func BuildContextPlan(deviceType DeviceType, adapter *AdapterInfo) []ContextCreateInfo {
	var plan []ContextCreateInfo
	add := func(name string, role QueueType, priority QueuePriority) {
		if queue, ok := ReserveContextRole(adapter, role); ok {
			plan = append(plan, ContextCreateInfo{
				Name:     name,
				QueueID:  queue,
				Type:     role,
				Priority: priority,
			})
		}
	}

	add("Graphics", QueueTypeGraphics, QueuePriorityHigh)
	if adapter.Type == AdapterTypeDiscrete &&
		deviceType != DeviceTypeGL && deviceType != DeviceTypeGLES {
		add("Transfer", QueueTypeTransfer, QueuePriorityMedium)
		add("Compute", QueueTypeCompute, QueuePriorityMedium)
	}
	return plan
}

// FeatureState states whether a device feature is required
type FeatureState int

// Feature states
const (
	FeatureDisabled FeatureState = iota
	FeatureOptional
	FeatureEnabled
)

// DeviceFeatures are the optional features requested at device creation
type DeviceFeatures struct {
	NativeFence                   FeatureState
	TimestampQueries              FeatureState
	TransferQueueTimestampQueries FeatureState
}

// EngineCreateInfo is passed to a backend to create the device
// and its immediate contexts.
type EngineCreateInfo struct {
	APIVersion        Version
	Validation        ValidationLevel
	Window            NativeWindow
	AdapterID         int
	Adapter           AdapterInfo
	ImmediateContexts []ContextCreateInfo
	Features          DeviceFeatures
}
