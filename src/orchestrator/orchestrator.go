// Package orchestrator fans out the dashboard's five independent reads and
// routes each response to its panel. There is deliberately no join: each
// panel updates the moment its own response arrives, a failure on one read
// degrades only that panel, and re-triggering a refresh starts a fully
// independent set of requests. In-flight requests from a superseded refresh
// are not cancelled; whichever response resolves last for an endpoint wins
// that panel (last-resolved-wins). See DESIGN.md for why that race is kept.
package orchestrator

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/m-dhieu/NYC-Train-Mobility-App/src/api"
)

// Panel names, one per endpoint-driven UI region.
const (
	PanelSummary    = "summary"
	PanelTrips      = "trips"
	PanelTimeSeries = "time-distribution"
	PanelHistogram  = "duration-histogram"
	PanelHeatmap    = "pickup-heatmap"
)

// DataSource is the read surface of the remote trip service. Satisfied by
// *api.Client.
type DataSource interface {
	Summary(ctx context.Context, token, query string) (api.Summary, error)
	Trips(ctx context.Context, token, query string) ([]api.Trip, error)
	TimeDistribution(ctx context.Context, token, query string) (api.TimeDistribution, error)
	DurationHistogram(ctx context.Context, token, query string) (api.DurationHistogram, error)
	PickupHeatmap(ctx context.Context, token, query string) (api.PickupHeatmap, error)
}

// TokenSource yields the current credential, "" when unauthenticated.
// Satisfied by *session.Manager.
type TokenSource interface {
	Token() string
}

// Panels receives routed responses. Every callback runs inside the apply
// hook (the UI thread in the app). Each issued read ends in exactly one
// terminal callback: its data callback or PanelError, so no panel is left
// loading indefinitely. Nil callbacks are skipped.
type Panels struct {
	Summary           func(api.Summary)
	Trips             func([]api.Trip)
	TimeDistribution  func(api.TimeDistribution)
	DurationHistogram func(api.DurationHistogram)
	PickupHeatmap     func(api.PickupHeatmap)

	// Loading is invoked synchronously when a read is issued.
	Loading func(panel string)
	// PanelError is the uniform per-panel failure channel (transport, parse
	// and authorization failures alike).
	PanelError func(panel string, err error)
	// Unauthorized is the session-level notice raised when any single read
	// answers 401. It does not force logout and other panels proceed.
	Unauthorized func()
}

// Orchestrator issues the reads. Construct once, reuse for every refresh.
type Orchestrator struct {
	source       DataSource
	tokens       TokenSource
	panels       Panels
	apply        func(func())
	timeout      time.Duration
	heatmapLimit int
	log          zerolog.Logger
}

// New creates an orchestrator. apply is the serialization hook for UI
// mutation (fyne.Do in the app, a direct call in tests).
func New(source DataSource, tokens TokenSource, panels Panels, apply func(func()), timeout time.Duration, heatmapLimit int, log zerolog.Logger) *Orchestrator {
	if apply == nil {
		apply = func(f func()) { f() }
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Orchestrator{
		source:       source,
		tokens:       tokens,
		panels:       panels,
		apply:        apply,
		timeout:      timeout,
		heatmapLimit: heatmapLimit,
		log:          log,
	}
}

// Refresh issues the five orchestrated reads back-to-back for the given
// filter query. The credential is read once at issue time; requests carry it
// when present and go out unauthenticated otherwise.
func (o *Orchestrator) Refresh(query string) {
	token := o.tokens.Token()
	o.log.Debug().Str("query", query).Bool("authenticated", token != "").Msg("refreshing dashboard panels")

	o.loading(PanelSummary)
	o.loading(PanelTrips)
	o.loading(PanelTimeSeries)
	o.loading(PanelHistogram)
	o.loading(PanelHeatmap)

	go func() {
		ctx, cancel := o.readCtx()
		defer cancel()
		sum, err := o.source.Summary(ctx, token, query)
		o.dispatch(PanelSummary, err, func() {
			if o.panels.Summary != nil {
				o.panels.Summary(sum)
			}
		})
	}()
	go func() {
		ctx, cancel := o.readCtx()
		defer cancel()
		trips, err := o.source.Trips(ctx, token, query)
		o.dispatch(PanelTrips, err, func() {
			if o.panels.Trips != nil {
				o.panels.Trips(trips)
			}
		})
	}()
	go func() {
		ctx, cancel := o.readCtx()
		defer cancel()
		td, err := o.source.TimeDistribution(ctx, token, query)
		o.dispatch(PanelTimeSeries, err, func() {
			if o.panels.TimeDistribution != nil {
				o.panels.TimeDistribution(td)
			}
		})
	}()
	go func() {
		ctx, cancel := o.readCtx()
		defer cancel()
		dh, err := o.source.DurationHistogram(ctx, token, query)
		o.dispatch(PanelHistogram, err, func() {
			if o.panels.DurationHistogram != nil {
				o.panels.DurationHistogram(dh)
			}
		})
	}()
	go func() {
		ctx, cancel := o.readCtx()
		defer cancel()
		hm, err := o.source.PickupHeatmap(ctx, token, o.heatmapQuery(query))
		o.dispatch(PanelHeatmap, err, func() {
			if o.panels.PickupHeatmap != nil {
				o.panels.PickupHeatmap(hm)
			}
		})
	}()
}

// SortTrips issues the single listing re-read for a column sort. Only the
// table is touched; the other four panels keep their last-rendered data.
func (o *Orchestrator) SortTrips(sortKey string) {
	token := o.tokens.Token()
	o.loading(PanelTrips)
	go func() {
		ctx, cancel := o.readCtx()
		defer cancel()
		trips, err := o.source.Trips(ctx, token, "sort="+url.QueryEscape(sortKey))
		o.dispatch(PanelTrips, err, func() {
			if o.panels.Trips != nil {
				o.panels.Trips(trips)
			}
		})
	}()
}

func (o *Orchestrator) readCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), o.timeout)
}

func (o *Orchestrator) heatmapQuery(query string) string {
	if o.heatmapLimit <= 0 {
		return query
	}
	limit := "limit=" + strconv.Itoa(o.heatmapLimit)
	if query == "" {
		return limit
	}
	return query + "&" + limit
}

func (o *Orchestrator) loading(panel string) {
	if o.panels.Loading != nil {
		o.panels.Loading(panel)
	}
}

// dispatch routes one completed read through the apply hook. Failures fan
// into the uniform per-panel error channel; a 401 additionally raises the
// session-level unauthorized notice without cascading anywhere else.
func (o *Orchestrator) dispatch(panel string, err error, deliver func()) {
	o.apply(func() {
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				o.log.Warn().Str("panel", panel).Msg("read rejected as unauthorized")
				if o.panels.Unauthorized != nil {
					o.panels.Unauthorized()
				}
			} else {
				o.log.Warn().Str("panel", panel).Err(err).Msg("read failed")
			}
			if o.panels.PanelError != nil {
				o.panels.PanelError(panel, err)
			}
			return
		}
		deliver()
	})
}
