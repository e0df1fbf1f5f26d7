package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	png "image/png"
	"strconv"
	"strings"
	"time"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/m-dhieu/NYC-Train-Mobility-App/cmd/tripviewer/uihelpers"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/api"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/charts"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/config"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/filters"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/gradient"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/logging"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/orchestrator"
	"github.com/m-dhieu/NYC-Train-Mobility-App/src/session"
)

// distanceScaleMax is the slider's upper bound in km; the remote service has
// no trips longer than this in practice.
const distanceScaleMax = 50.0

// preference key holding the persisted bearer credential
const tokenPrefKey = "authToken"

// prefsStore persists the credential through fyne's preference storage so it
// survives app restarts.
type prefsStore struct {
	prefs fyne.Preferences
}

func (s *prefsStore) Save(token string) { s.prefs.SetString(tokenPrefKey, token) }
func (s *prefsStore) Load() string      { return s.prefs.StringWithFallback(tokenPrefKey, "") }

// chartImage is a live chart occupying a slot: the rendered image shown on a
// canvas. Destroy blanks the canvas so a crashed rebuild never leaves a stale
// chart on screen.
type chartImage struct {
	canvas *canvas.Image
}

func newChartImage(c *canvas.Image, img image.Image) *chartImage {
	c.Image = img
	c.Refresh()
	return &chartImage{canvas: c}
}

func (c *chartImage) Destroy() {
	c.canvas.Image = charts.Blank(100, 60)
	c.canvas.Refresh()
}

type uiState struct {
	app    fyne.App
	window fyne.Window
	cfg    config.Config
	log    zerolog.Logger

	client  *api.Client
	session *session.Manager
	orch    *orchestrator.Orchestrator
	slots   *charts.Manager

	// filter widgets
	dateEntry  *widget.Entry
	hourSelect *widget.Select
	distChk    *widget.Check
	distSlider *widget.Slider
	distLabel  *widget.Label
	distTrack  *canvas.Image
	zoneEntry  *widget.Entry
	fareEntry  *widget.Entry

	// session widgets
	sessionLabel *widget.Label
	noticeLabel  *widget.Label

	// data panels
	trips        []api.Trip
	table        *widget.Table
	summaryLabel *widget.Label
	status       map[string]*widget.Label

	timeCanvas    *canvas.Image
	histCanvas    *canvas.Image
	scatterCanvas *canvas.Image

	// last received chart payloads, kept so resize can re-render
	lastTime      api.TimeDistribution
	lastHistogram api.DurationHistogram
	lastHeatmap   api.PickupHeatmap

	showHints bool
}

// dark theme wrapper
type darkTheme struct{}

func (d *darkTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	return theme.DefaultTheme().Color(name, theme.VariantDark)
}
func (d *darkTheme) Font(style fyne.TextStyle) fyne.Resource { return theme.DefaultTheme().Font(style) }
func (d *darkTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}
func (d *darkTheme) Size(name fyne.ThemeSizeName) float32 { return theme.DefaultTheme().Size(name) }

func main() {
	var configFlag, serverFlag string
	flag.StringVar(&configFlag, "config", "tripviewer.toml", "Path to the config file")
	flag.StringVar(&serverFlag, "server", "", "Data service base URL (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configFlag)
	if err != nil {
		fmt.Printf("[viewer] config %s: %v; using defaults\n", configFlag, err)
		cfg = config.Default()
	}
	if serverFlag != "" {
		cfg.Server.BaseURL = serverFlag
	}
	log := logging.New(cfg.Log.Level)

	a := app.NewWithID("com.nyctrains.tripviewer")
	a.Settings().SetTheme(&darkTheme{})
	w := a.NewWindow("Trip Viewer")
	w.Resize(fyne.NewSize(1100, 800))

	state := &uiState{
		app:    a,
		window: w,
		cfg:    cfg,
		log:    log,
		status: map[string]*widget.Label{},
	}
	state.showHints = a.Preferences().BoolWithFallback("showHints", false)
	state.slots = charts.NewPanelManager()

	// filter controls (callbacks assigned later, after canvases exist)
	state.dateEntry = widget.NewEntry()
	state.dateEntry.SetPlaceHolder("YYYY-MM-DD")
	hours := make([]string, 0, 25)
	hours = append(hours, "Any")
	for h := 0; h < 24; h++ {
		hours = append(hours, fmt.Sprintf("%02d", h))
	}
	state.hourSelect = widget.NewSelect(hours, nil)
	state.hourSelect.Selected = "Any"

	state.distChk = widget.NewCheck("Max distance", nil)
	state.distSlider = widget.NewSlider(0, distanceScaleMax)
	state.distSlider.Step = 0.5
	state.distSlider.SetValue(distanceScaleMax)
	state.distLabel = widget.NewLabel(fmt.Sprintf("%.1f km", distanceScaleMax))
	state.distTrack = canvas.NewImageFromImage(gradient.Track(distanceScaleMax, distanceScaleMax, 220, 10))
	state.distTrack.FillMode = canvas.ImageFillStretch
	state.distTrack.SetMinSize(fyne.NewSize(220, 10))

	state.zoneEntry = widget.NewEntry()
	state.zoneEntry.SetPlaceHolder("Zone")
	state.fareEntry = widget.NewEntry()
	state.fareEntry.SetPlaceHolder("Max fare")

	// session controls
	userEntry := widget.NewEntry()
	userEntry.SetPlaceHolder("Username")
	passEntry := widget.NewPasswordEntry()
	passEntry.SetPlaceHolder("Password")
	state.sessionLabel = widget.NewLabel("Not signed in")
	state.noticeLabel = widget.NewLabel("")

	// summary panel
	state.summaryLabel = widget.NewLabel("No data loaded")
	for _, p := range []string{
		orchestrator.PanelSummary, orchestrator.PanelTrips,
		orchestrator.PanelTimeSeries, orchestrator.PanelHistogram, orchestrator.PanelHeatmap,
	} {
		state.status[p] = widget.NewLabel("")
	}

	// trips table: 1 header row + data rows
	state.table = widget.NewTable(
		func() (int, int) {
			rows := len(state.trips) + 1
			if rows < 1 {
				rows = 1
			}
			return rows, uihelpers.ColumnCount
		},
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			lbl := o.(*widget.Label)
			if id.Row == 0 {
				lbl.TextStyle = fyne.TextStyle{Bold: true}
				lbl.SetText(uihelpers.ColumnTitle(id.Col))
				return
			}
			lbl.TextStyle = fyne.TextStyle{}
			rix := id.Row - 1
			if rix < 0 || rix >= len(state.trips) {
				lbl.SetText("")
				return
			}
			lbl.SetText(uihelpers.TripCellText(state.trips[rix], id.Col))
		},
	)
	applyColumnWidths(state)
	// header taps re-sort through the listing endpoint; everything else is a no-op
	state.table.OnSelected = func(id widget.TableCellID) {
		defer state.table.UnselectAll()
		if id.Row != 0 {
			return
		}
		key := uihelpers.SortKeyForColumn(id.Col)
		if key == "" {
			return
		}
		fmt.Printf("[viewer] sort trips by %s\n", key)
		state.orch.SortTrips(key)
	}

	// chart placeholders
	state.timeCanvas = canvas.NewImageFromImage(charts.Blank(100, 60))
	state.timeCanvas.FillMode = canvas.ImageFillContain
	state.timeCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.histCanvas = canvas.NewImageFromImage(charts.Blank(100, 60))
	state.histCanvas.FillMode = canvas.ImageFillContain
	state.histCanvas.SetMinSize(fyne.NewSize(900, 320))
	state.scatterCanvas = canvas.NewImageFromImage(charts.Blank(100, 60))
	state.scatterCanvas.FillMode = canvas.ImageFillContain
	state.scatterCanvas.SetMinSize(fyne.NewSize(900, 320))

	hintsChk := widget.NewCheck("Hints", nil)
	hintsChk.SetChecked(state.showHints)

	// layout
	filterBar := container.NewHBox(
		widget.NewLabel("Date:"), state.dateEntry,
		widget.NewLabel("Hour:"), state.hourSelect,
		state.distChk,
		container.NewVBox(state.distSlider, state.distTrack),
		state.distLabel,
		widget.NewLabel("Zone:"), state.zoneEntry,
		widget.NewLabel("Fare:"), state.fareEntry,
		widget.NewButton("Apply", func() { refresh(state) }),
		hintsChk,
	)
	sessionBar := container.NewHBox(
		userEntry, passEntry,
		widget.NewButton("Sign in", func() { doLogin(state, userEntry, passEntry) }),
		widget.NewButton("Sign out", func() { doLogout(state) }),
		state.sessionLabel,
		state.noticeLabel,
	)
	top := container.NewVBox(filterBar, sessionBar,
		container.NewHBox(state.summaryLabel, state.status[orchestrator.PanelSummary]))

	chartsColumn := container.NewVBox(
		container.NewHBox(widget.NewLabel("Trips by hour"), state.status[orchestrator.PanelTimeSeries]),
		state.timeCanvas,
		widget.NewSeparator(),
		container.NewHBox(widget.NewLabel("Duration histogram"), state.status[orchestrator.PanelHistogram]),
		state.histCanvas,
		widget.NewSeparator(),
		container.NewHBox(widget.NewLabel("Pickup locations"), state.status[orchestrator.PanelHeatmap]),
		state.scatterCanvas,
	)
	chartsScroll := container.NewVScroll(chartsColumn)
	chartsScroll.SetMinSize(fyne.NewSize(900, 650))

	tableTab := container.NewBorder(
		container.NewHBox(state.status[orchestrator.PanelTrips]), nil, nil, nil, state.table)

	tabs := container.NewAppTabs(
		container.NewTabItem("Trips", tableTab),
		container.NewTabItem("Charts", chartsScroll),
	)
	tabs.SetTabLocation(container.TabLocationTop)
	tabs.OnSelected = func(ti *container.TabItem) {
		if state != nil && state.app != nil {
			state.app.Preferences().SetInt("selectedTabIndex", tabs.SelectedIndex())
		}
	}
	w.SetContent(container.NewBorder(top, nil, nil, nil, tabs))

	// Redraw charts on window resize so they scale with width
	if w.Canvas() != nil {
		prevW := int(w.Canvas().Size().Width)
		done := make(chan struct{})
		w.SetOnClosed(func() {
			savePrefs(state)
			close(done)
		})
		go func() {
			t := time.NewTicker(300 * time.Millisecond)
			defer t.Stop()
			for {
				select {
				case <-done:
					return
				case <-t.C:
					c := w.Canvas()
					if c == nil {
						continue
					}
					curW := int(c.Size().Width)
					if curW != prevW {
						prevW = curW
						fyne.Do(func() {
							redrawCharts(state)
							applyColumnWidths(state)
						})
					}
				}
			}
		}()
	}

	// Now that canvases exist, wire filter callbacks
	state.distSlider.OnChanged = func(v float64) {
		state.distLabel.SetText(fmt.Sprintf("%.1f km", v))
		state.distTrack.Image = gradient.Track(v, distanceScaleMax, 220, 10)
		state.distTrack.Refresh()
		state.log.Debug().Str("gradient", gradient.CSS(v, distanceScaleMax)).Msg("distance slider moved")
	}
	state.distChk.OnChanged = func(bool) { savePrefs(state) }
	state.hourSelect.OnChanged = func(string) { savePrefs(state) }
	hintsChk.OnChanged = func(b bool) {
		state.showHints = b
		savePrefs(state)
		redrawCharts(state)
	}

	loadPrefs(state, tabs)
	connect(state, cfg.Server.BaseURL)
	refresh(state)

	w.ShowAndRun()
}

// connect (re)builds the service pipeline for one base URL and restores
// whatever credential a previous run left behind; an absent or expired token
// just means unauthenticated reads.
func connect(state *uiState, baseURL string) {
	state.cfg.Server.BaseURL = baseURL
	state.client = api.NewClient(baseURL, state.cfg.Server.TimeoutDuration(), state.log)
	state.session = session.NewManager(state.client, &prefsStore{prefs: state.app.Preferences()}, state.log)
	state.orch = orchestrator.New(state.client, state.session, panelBindings(state),
		fyne.Do, state.cfg.Server.TimeoutDuration(), state.cfg.Server.HeatmapLimit, state.log)
	addRecentServer(state, baseURL)
	if state.session.LoadPersisted() {
		fmt.Printf("[viewer] restored persisted credential\n")
	}
	state.sessionLabel.SetText(state.session.Label())
	state.noticeLabel.SetText("")
	buildMenus(state)
}

// panelBindings routes each orchestrated response into its own UI region.
func panelBindings(state *uiState) orchestrator.Panels {
	return orchestrator.Panels{
		Summary: func(s api.Summary) {
			state.summaryLabel.SetText(fmt.Sprintf("Trips: %d · Avg duration: %s · Busiest hour: %s",
				s.TotalTrips,
				uihelpers.FormatDuration(s.AvgDurationSec),
				uihelpers.FormatBusiestHour(s.BusiestHour)))
			setStatus(state, orchestrator.PanelSummary, "")
		},
		Trips: func(ts []api.Trip) {
			state.trips = ts
			state.table.Refresh()
			setStatus(state, orchestrator.PanelTrips, fmt.Sprintf("%d rows", len(ts)))
		},
		TimeDistribution: func(d api.TimeDistribution) {
			state.lastTime = d
			replaceChart(state, charts.SlotTimeSeries, state.timeCanvas, func(w, h int) image.Image {
				return charts.RenderTimeSeries(d, w, h)
			}, "Trip counts per pickup hour")
			setStatus(state, orchestrator.PanelTimeSeries, "")
		},
		DurationHistogram: func(d api.DurationHistogram) {
			state.lastHistogram = d
			replaceChart(state, charts.SlotHistogram, state.histCanvas, func(w, h int) image.Image {
				return charts.RenderDurationHistogram(d, w, h)
			}, "Trips per duration band")
			setStatus(state, orchestrator.PanelHistogram, "")
		},
		PickupHeatmap: func(d api.PickupHeatmap) {
			state.lastHeatmap = d
			replaceChart(state, charts.SlotScatter, state.scatterCanvas, func(w, h int) image.Image {
				return charts.RenderPickupScatter(d, w, h)
			}, "Pickup location sample")
			setStatus(state, orchestrator.PanelHeatmap, "")
		},
		Loading: func(panel string) { setStatus(state, panel, "loading…") },
		PanelError: func(panel string, err error) {
			setStatus(state, panel, "unavailable")
			fmt.Printf("[viewer] panel %s failed: %v\n", panel, err)
		},
		Unauthorized: func() {
			state.noticeLabel.SetText("Server rejected the credential; sign in again.")
		},
	}
}

// replaceChart renders one payload into a slot, destroying whatever chart the
// slot held first.
func replaceChart(state *uiState, slot string, cv *canvas.Image, render func(w, h int) image.Image, hint string) {
	state.slots.Replace(slot, func() charts.Instance {
		w, h := chartSize(state)
		img := render(w, h)
		if state.showHints {
			img = charts.WithCaption(img, hint)
		}
		return newChartImage(cv, img)
	})
}

func chartSize(state *uiState) (int, int) {
	raw := 900
	if state.window != nil && state.window.Canvas() != nil {
		raw = int(state.window.Canvas().Size().Width) - 60
	}
	return uihelpers.ComputeChartDimensions(raw)
}

// redrawCharts re-renders every slot from the last received payloads; used on
// resize and when the hints toggle flips.
func redrawCharts(state *uiState) {
	if len(state.lastTime.Hours) > 0 {
		replaceChart(state, charts.SlotTimeSeries, state.timeCanvas, func(w, h int) image.Image {
			return charts.RenderTimeSeries(state.lastTime, w, h)
		}, "Trip counts per pickup hour")
	}
	if len(state.lastHistogram.Bins) > 0 {
		replaceChart(state, charts.SlotHistogram, state.histCanvas, func(w, h int) image.Image {
			return charts.RenderDurationHistogram(state.lastHistogram, w, h)
		}, "Trips per duration band")
	}
	if len(state.lastHeatmap.Locations) > 0 {
		replaceChart(state, charts.SlotScatter, state.scatterCanvas, func(w, h int) image.Image {
			return charts.RenderPickupScatter(state.lastHeatmap, w, h)
		}, "Pickup location sample")
	}
}

func applyColumnWidths(state *uiState) {
	if state == nil || state.table == nil {
		return
	}
	winW := float32(1100)
	if state.window != nil && state.window.Canvas() != nil {
		winW = state.window.Canvas().Size().Width
	}
	widths := uihelpers.ComputeTableColumnWidths(winW)
	for col, w := range widths {
		state.table.SetColumnWidth(col, float32(w))
	}
}

func setStatus(state *uiState, panel, text string) {
	if lbl, ok := state.status[panel]; ok {
		lbl.SetText(text)
	}
}

// currentCriteria reads the filter widgets; unset widgets contribute nothing.
func currentCriteria(state *uiState) filters.Criteria {
	var c filters.Criteria
	c.Date = strings.TrimSpace(state.dateEntry.Text)
	if v := state.hourSelect.Selected; v != "" && v != "Any" {
		if h, err := strconv.Atoi(v); err == nil {
			c.Hour = &h
		}
	}
	if state.distChk.Checked {
		d := state.distSlider.Value
		c.DistanceMax = &d
	}
	c.Zone = strings.TrimSpace(state.zoneEntry.Text)
	if t := strings.TrimSpace(state.fareEntry.Text); t != "" {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			c.FareMax = &f
		} else {
			fmt.Printf("[viewer] ignoring non-numeric fare %q\n", t)
		}
	}
	return c
}

func refresh(state *uiState) {
	q := currentCriteria(state).Encode()
	fmt.Printf("[viewer] refresh query=%q\n", q)
	savePrefs(state)
	state.orch.Refresh(q)
}

func doLogin(state *uiState, userEntry, passEntry *widget.Entry) {
	u := strings.TrimSpace(userEntry.Text)
	p := passEntry.Text
	if u == "" || p == "" {
		dialog.ShowInformation("Sign in", "Username and password are required.", state.window)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), state.cfg.Server.TimeoutDuration())
		defer cancel()
		err := state.session.Login(ctx, u, p)
		fyne.Do(func() {
			state.sessionLabel.SetText(state.session.Label())
			if err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			state.noticeLabel.SetText("")
			passEntry.SetText("")
			refresh(state)
		})
	}()
}

func doLogout(state *uiState) {
	state.session.Logout()
	state.sessionLabel.SetText(state.session.Label())
	state.noticeLabel.SetText("")
	refresh(state)
}

// whoami asks the service who the persisted credential belongs to and adopts
// the answer into the session label. Explicit action only, never automatic.
func whoami(state *uiState) {
	tok := state.session.Token()
	if tok == "" {
		dialog.ShowInformation("Who am I", "Not signed in.", state.window)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), state.cfg.Server.TimeoutDuration())
		defer cancel()
		who, err := state.client.Whoami(ctx, tok)
		fyne.Do(func() {
			if err != nil {
				if errors.Is(err, api.ErrUnauthorized) {
					state.noticeLabel.SetText("Server rejected the credential; sign in again.")
					return
				}
				dialog.ShowError(err, state.window)
				return
			}
			state.session.AdoptLabel(who.Username)
			state.sessionLabel.SetText(state.session.Label())
		})
	}()
}

// menus and shortcuts
func buildMenus(state *uiState) {
	if state == nil || state.window == nil || state.app == nil {
		return
	}
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Reload", func() { refresh(state) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Hourly Chart…", func() { exportChartPNG(state, state.timeCanvas, "trips_by_hour.png") }),
		fyne.NewMenuItem("Export Histogram…", func() { exportChartPNG(state, state.histCanvas, "duration_histogram.png") }),
		fyne.NewMenuItem("Export Pickup Map…", func() { exportChartPNG(state, state.scatterCanvas, "pickup_map.png") }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { state.window.Close() }),
	)
	sessionMenu := fyne.NewMenu("Session",
		fyne.NewMenuItem("Who Am I", func() { whoami(state) }),
		fyne.NewMenuItem("Sign Out", func() { doLogout(state) }),
	)
	var items []*fyne.MenuItem
	for _, s := range recentServers(state) {
		s := s
		items = append(items, fyne.NewMenuItem(s, func() {
			if s == state.cfg.Server.BaseURL {
				return
			}
			fmt.Printf("[viewer] switching server to %s\n", s)
			connect(state, s)
			refresh(state)
		}))
	}
	clearRecent := fyne.NewMenuItem("Clear Recent", func() { clearRecentServers(state); buildMenus(state) })
	serverMenu := fyne.NewMenu("Server", append(items, clearRecent)...)
	state.window.SetMainMenu(fyne.NewMainMenu(fileMenu, sessionMenu, serverMenu))

	canv := state.window.Canvas()
	if canv != nil {
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { refresh(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyR, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { refresh(state) })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierSuper}, func(fyne.Shortcut) { state.window.Close() })
		canv.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyW, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { state.window.Close() })
	}
}

// recent server helpers
func recentServers(state *uiState) []string {
	raw := state.app.Preferences().StringWithFallback("recentServers", "")
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func addRecentServer(state *uiState, url string) {
	if url == "" {
		return
	}
	filtered := []string{url}
	for _, s := range recentServers(state) {
		if s != url && len(filtered) < 10 {
			filtered = append(filtered, s)
		}
	}
	state.app.Preferences().SetString("recentServers", strings.Join(filtered, "\n"))
}

func clearRecentServers(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	state.app.Preferences().SetString("recentServers", "")
}

// export PNG
func exportChartPNG(state *uiState, img *canvas.Image, defaultName string) {
	if state == nil || state.window == nil || img == nil || img.Image == nil {
		dialog.ShowInformation("Export", "No chart to export.", state.window)
		return
	}
	fs := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil || wc == nil {
			return
		}
		defer wc.Close()
		_ = png.Encode(wc, img.Image)
	}, state.window)
	fs.SetFileName(defaultName)
	fs.Show()
}

// prefs
func savePrefs(state *uiState) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	prefs.SetString("lastDate", strings.TrimSpace(state.dateEntry.Text))
	prefs.SetString("lastHour", state.hourSelect.Selected)
	prefs.SetBool("distanceOn", state.distChk.Checked)
	prefs.SetFloat("distanceMax", state.distSlider.Value)
	prefs.SetString("lastZone", strings.TrimSpace(state.zoneEntry.Text))
	prefs.SetString("lastFare", strings.TrimSpace(state.fareEntry.Text))
	prefs.SetBool("showHints", state.showHints)
}

func loadPrefs(state *uiState, tabs *container.AppTabs) {
	if state == nil || state.app == nil {
		return
	}
	prefs := state.app.Preferences()
	if d := prefs.StringWithFallback("lastDate", ""); d != "" {
		state.dateEntry.SetText(d)
	}
	if h := prefs.StringWithFallback("lastHour", "Any"); h != "" {
		state.hourSelect.Selected = h
	}
	state.distChk.SetChecked(prefs.BoolWithFallback("distanceOn", false))
	if v := prefs.FloatWithFallback("distanceMax", distanceScaleMax); v >= 0 && v <= distanceScaleMax {
		state.distSlider.SetValue(v)
		state.distLabel.SetText(fmt.Sprintf("%.1f km", v))
		state.distTrack.Image = gradient.Track(v, distanceScaleMax, 220, 10)
		state.distTrack.Refresh()
	}
	if z := prefs.StringWithFallback("lastZone", ""); z != "" {
		state.zoneEntry.SetText(z)
	}
	if f := prefs.StringWithFallback("lastFare", ""); f != "" {
		state.fareEntry.SetText(f)
	}
	state.showHints = prefs.BoolWithFallback("showHints", state.showHints)
	if tabs != nil {
		idx := prefs.IntWithFallback("selectedTabIndex", 0)
		if idx >= 0 && idx < len(tabs.Items) {
			tabs.SelectIndex(idx)
		}
	}
}
