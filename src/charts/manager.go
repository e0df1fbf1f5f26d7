// Package charts renders the dashboard's three chart panels and owns their
// lifecycle. Each named slot holds at most one live visualization instance;
// replacing a slot always destroys the previous occupant before the new one
// is constructed, so repeated refreshes neither leak resources nor leave two
// instances competing over one drawing surface.
package charts

// Slot names. Fixed at construction; there is exactly one panel per slot.
const (
	SlotTimeSeries = "time-series"
	SlotHistogram  = "histogram"
	SlotScatter    = "scatter"
)

// Instance is one live visualization occupying a slot. Destroy releases
// whatever the instance holds (image buffers, canvas bindings).
type Instance interface {
	Destroy()
}

// Manager maps slot names to their sole occupant. All chart mutation goes
// through Replace; nothing else may hold a slot's instance.
type Manager struct {
	slots map[string]Instance
}

// NewManager creates a manager owning the given slot names, all empty.
func NewManager(slots ...string) *Manager {
	m := &Manager{slots: make(map[string]Instance, len(slots))}
	for _, s := range slots {
		m.slots[s] = nil
	}
	return m
}

// NewPanelManager creates a manager with the three dashboard slots.
func NewPanelManager() *Manager {
	return NewManager(SlotTimeSeries, SlotHistogram, SlotScatter)
}

// Replace installs a new instance in the slot. The previous occupant, when
// present, is destroyed before build runs; on first render the destroy step
// is skipped. Unknown slot names are ignored and build is never invoked.
func (m *Manager) Replace(slot string, build func() Instance) {
	old, ok := m.slots[slot]
	if !ok {
		return
	}
	if old != nil {
		old.Destroy()
	}
	m.slots[slot] = build()
}

// Clear destroys and empties the slot.
func (m *Manager) Clear(slot string) {
	if old, ok := m.slots[slot]; ok && old != nil {
		old.Destroy()
		m.slots[slot] = nil
	}
}

// Live returns the slot's current instance, nil when empty or unknown.
func (m *Manager) Live(slot string) Instance {
	return m.slots[slot]
}
