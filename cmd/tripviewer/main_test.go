package main

import (
	"testing"

	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/m-dhieu/NYC-Train-Mobility-App/src/charts"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/gradient"
)

func newFilterState() *uiState {
	st := &uiState{
		dateEntry:  widget.NewEntry(),
		hourSelect: widget.NewSelect([]string{"Any", "00", "08", "23"}, nil),
		distChk:    widget.NewCheck("Max distance", nil),
		distSlider: widget.NewSlider(0, distanceScaleMax),
		zoneEntry:  widget.NewEntry(),
		fareEntry:  widget.NewEntry(),
	}
	st.hourSelect.Selected = "Any"
	return st
}

func TestCurrentCriteria_EmptyWidgets(t *testing.T) {
	st := newFilterState()
	c := currentCriteria(st)
	if !c.Empty() {
		t.Fatalf("untouched widgets must yield empty criteria: %#v", c)
	}
	if got := c.Encode(); got != "" {
		t.Fatalf("empty criteria must encode to \"\", got %q", got)
	}
}

func TestCurrentCriteria_AllSet(t *testing.T) {
	st := newFilterState()
	st.dateEntry.SetText(" 2016-03-14 ")
	st.hourSelect.Selected = "08"
	st.distChk.Checked = true
	st.distSlider.Value = 12.5
	st.zoneEntry.SetText("Midtown")
	st.fareEntry.SetText("40")
	got := currentCriteria(st).Encode()
	want := "date=2016-03-14&hour=8&distance=12.5&zone=Midtown&fare=40"
	if got != want {
		t.Fatalf("encoded query %q want %q", got, want)
	}
}

func TestCurrentCriteria_SliderIgnoredWhenUnchecked(t *testing.T) {
	st := newFilterState()
	st.distSlider.Value = 5
	c := currentCriteria(st)
	if c.DistanceMax != nil {
		t.Fatal("slider value must not leak into criteria while the toggle is off")
	}
}

func TestCurrentCriteria_HourAnyMeansUnset(t *testing.T) {
	st := newFilterState()
	st.hourSelect.Selected = "Any"
	if c := currentCriteria(st); c.Hour != nil {
		t.Fatal("hour \"Any\" must mean no constraint")
	}
	st.hourSelect.Selected = "00"
	c := currentCriteria(st)
	if c.Hour == nil || *c.Hour != 0 {
		t.Fatalf("hour 00 is a real constraint: %#v", c.Hour)
	}
}

func TestCurrentCriteria_BadFareIgnored(t *testing.T) {
	st := newFilterState()
	st.fareEntry.SetText("cheap")
	if c := currentCriteria(st); c.FareMax != nil {
		t.Fatal("non-numeric fare text must be ignored")
	}
}

func TestPrefsStoreRoundTrip(t *testing.T) {
	a := test.NewApp()
	store := &prefsStore{prefs: a.Preferences()}
	if got := store.Load(); got != "" {
		t.Fatalf("fresh store must be empty, got %q", got)
	}
	store.Save("tok-123")
	if got := store.Load(); got != "tok-123" {
		t.Fatalf("load after save: %q", got)
	}
	store.Save("")
	if got := store.Load(); got != "" {
		t.Fatalf("empty save must clear the slot, got %q", got)
	}
}

func TestChartImageDestroyBlanksCanvas(t *testing.T) {
	test.NewApp()
	cv := canvas.NewImageFromImage(charts.Blank(100, 60))
	inst := newChartImage(cv, gradient.Track(25, 50, 120, 10))
	if cv.Image.Bounds().Dx() != 120 {
		t.Fatalf("canvas must show the rendered image, got %v", cv.Image.Bounds())
	}
	inst.Destroy()
	b := cv.Image.Bounds()
	if b.Dx() != 100 || b.Dy() != 60 {
		t.Fatalf("destroy must blank the canvas, got %v", b)
	}
}

func TestClearedSlotDoesNotKeepStaleChart(t *testing.T) {
	test.NewApp()
	cv := canvas.NewImageFromImage(charts.Blank(100, 60))
	m := charts.NewPanelManager()
	m.Replace(charts.SlotHistogram, func() charts.Instance {
		return newChartImage(cv, gradient.Track(25, 50, 120, 10))
	})
	if cv.Image.Bounds().Dx() != 120 {
		t.Fatalf("slot must show the rendered chart, got %v", cv.Image.Bounds())
	}
	m.Clear(charts.SlotHistogram)
	if got := cv.Image.Bounds(); got.Dx() != 100 || got.Dy() != 60 {
		t.Fatalf("cleared slot must show a blank canvas, got %v", got)
	}
	if m.Live(charts.SlotHistogram) != nil {
		t.Fatal("cleared slot must hold no live instance")
	}
}
