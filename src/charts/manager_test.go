package charts

import (
	"testing"
)

// fakeInstance records lifecycle events into a shared journal so ordering
// between destroy and construct is observable.
type fakeInstance struct {
	id        string
	journal   *[]string
	destroyed bool
}

func (f *fakeInstance) Destroy() {
	f.destroyed = true
	*f.journal = append(*f.journal, "destroy:"+f.id)
}

func build(journal *[]string, id string) func() Instance {
	return func() Instance {
		*journal = append(*journal, "build:"+id)
		return &fakeInstance{id: id, journal: journal}
	}
}

func TestReplace_FirstRenderSkipsDestroy(t *testing.T) {
	var journal []string
	m := NewPanelManager()
	m.Replace(SlotTimeSeries, build(&journal, "a"))
	if len(journal) != 1 || journal[0] != "build:a" {
		t.Fatalf("journal: %v", journal)
	}
	if m.Live(SlotTimeSeries) == nil {
		t.Fatal("slot must hold the new instance")
	}
}

func TestReplace_DestroyBeforeCreate(t *testing.T) {
	var journal []string
	m := NewPanelManager()
	m.Replace(SlotHistogram, build(&journal, "a"))
	m.Replace(SlotHistogram, build(&journal, "b"))
	want := []string{"build:a", "destroy:a", "build:b"}
	if len(journal) != len(want) {
		t.Fatalf("journal: %v", journal)
	}
	for i := range want {
		if journal[i] != want[i] {
			t.Fatalf("event %d: got %q want %q (journal %v)", i, journal[i], want[i], journal)
		}
	}
}

func TestReplace_NeverTwoLiveInstancesPerSlot(t *testing.T) {
	var journal []string
	m := NewPanelManager()
	var instances []*fakeInstance
	for i := 0; i < 5; i++ {
		m.Replace(SlotScatter, func() Instance {
			inst := &fakeInstance{id: "x", journal: &journal}
			instances = append(instances, inst)
			return inst
		})
	}
	live := 0
	for _, inst := range instances {
		if !inst.destroyed {
			live++
		}
	}
	if live != 1 {
		t.Fatalf("exactly one live instance expected, got %d", live)
	}
	if m.Live(SlotScatter) != Instance(instances[len(instances)-1]) {
		t.Fatal("slot must hold the most recent instance")
	}
}

func TestReplace_SlotsAreIndependent(t *testing.T) {
	var journal []string
	m := NewPanelManager()
	m.Replace(SlotTimeSeries, build(&journal, "ts"))
	m.Replace(SlotHistogram, build(&journal, "hist"))
	m.Replace(SlotTimeSeries, build(&journal, "ts2"))
	hist := m.Live(SlotHistogram).(*fakeInstance)
	if hist.destroyed {
		t.Fatal("replacing one slot must not touch another")
	}
}

func TestReplace_UnknownSlotIgnored(t *testing.T) {
	var journal []string
	m := NewPanelManager()
	m.Replace("no-such-slot", build(&journal, "a"))
	if len(journal) != 0 {
		t.Fatalf("build must not run for unknown slots: %v", journal)
	}
}

func TestClear_DestroysAndEmpties(t *testing.T) {
	var journal []string
	m := NewPanelManager()
	m.Replace(SlotTimeSeries, build(&journal, "a"))
	m.Clear(SlotTimeSeries)
	if m.Live(SlotTimeSeries) != nil {
		t.Fatal("cleared slot must be empty")
	}
	if journal[len(journal)-1] != "destroy:a" {
		t.Fatalf("journal: %v", journal)
	}
	// clearing an empty slot is a no-op
	m.Clear(SlotTimeSeries)
}
