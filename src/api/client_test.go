package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second, zerolog.Nop())
}

func TestLogin_FormEndpointSuccess(t *testing.T) {
	var jsonCalled bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/token":
			if err := r.ParseForm(); err != nil {
				t.Fatalf("parse form: %v", err)
			}
			if r.PostForm.Get("grant_type") != "password" {
				t.Errorf("grant_type = %q", r.PostForm.Get("grant_type"))
			}
			if r.PostForm.Get("username") != "monica" || r.PostForm.Get("password") != "secret" {
				t.Errorf("credentials not forwarded: %v", r.PostForm)
			}
			if _, ok := r.PostForm["scope"]; !ok {
				t.Error("scope field missing from password grant")
			}
			json.NewEncoder(w).Encode(Token{AccessToken: "tok-form", TokenType: "bearer"})
		case "/api/auth/token-json":
			jsonCalled = true
			http.Error(w, "should not be reached", http.StatusInternalServerError)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	tok, err := newTestClient(srv.URL).Login(context.Background(), "monica", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "tok-form" {
		t.Fatalf("token: %+v", tok)
	}
	if jsonCalled {
		t.Fatal("fallback endpoint must not be called when the form grant succeeds")
	}
}

func TestLogin_FallsBackToJSONEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/token":
			http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
		case "/api/auth/token-json":
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("decode json body: %v", err)
			}
			if body["username"] != "monica" || body["password"] != "secret" {
				t.Errorf("credentials not forwarded: %v", body)
			}
			json.NewEncoder(w).Encode(Token{AccessToken: "tok-json", TokenType: "bearer"})
		}
	}))
	defer srv.Close()

	tok, err := newTestClient(srv.URL).Login(context.Background(), "monica", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tok.AccessToken != "tok-json" {
		t.Fatalf("expected fallback token, got %+v", tok)
	}
}

func TestLogin_BothEndpointsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "incorrect username or password", http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Login(context.Background(), "monica", "wrong"); err == nil {
		t.Fatal("expected error when both auth endpoints reject")
	}
}

func TestGetJSON_BearerHeaderPresence(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(Summary{TotalTrips: 1})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.Summary(context.Background(), "tok-123", ""); err != nil {
		t.Fatalf("authenticated summary: %v", err)
	}
	if _, err := c.Summary(context.Background(), "", ""); err != nil {
		t.Fatalf("unauthenticated summary: %v", err)
	}
	if len(gotAuth) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(gotAuth))
	}
	if gotAuth[0] != "Bearer tok-123" {
		t.Errorf("bearer header: %q", gotAuth[0])
	}
	if gotAuth[1] != "" {
		t.Errorf("unauthenticated request must omit the header, got %q", gotAuth[1])
	}
}

func TestGetJSON_401IsErrUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Trips(context.Background(), "stale", "")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTrips_FilterAndSortQueries(t *testing.T) {
	var gotQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/trips" {
			t.Errorf("path %s", r.URL.Path)
		}
		gotQueries = append(gotQueries, r.URL.RawQuery)
		json.NewEncoder(w).Encode([]Trip{{PickupLocation: "A", DropoffLocation: "B", DurationSec: 600, DistanceKm: 2.4, Fare: 11.5}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	trips, err := c.Trips(context.Background(), "tok", "date=2016-03-14&hour=7")
	if err != nil {
		t.Fatalf("filtered listing: %v", err)
	}
	if len(trips) != 1 || trips[0].PickupLocation != "A" {
		t.Fatalf("decode: %+v", trips)
	}
	if _, err := c.Trips(context.Background(), "tok", "sort=fare"); err != nil {
		t.Fatalf("sorted listing: %v", err)
	}
	if gotQueries[0] != "date=2016-03-14&hour=7" || gotQueries[1] != "sort=fare" {
		t.Fatalf("queries: %v", gotQueries)
	}
}

func TestPanelReads_DecodeShapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/trips/summary":
			json.NewEncoder(w).Encode(Summary{TotalTrips: 42, AvgDurationSec: 612.5, BusiestHour: 18})
		case "/api/trips/time-distribution":
			json.NewEncoder(w).Encode(TimeDistribution{Hours: []int{0, 1, 2}, Counts: []int{5, 0, 9}})
		case "/api/trips/duration-histogram":
			json.NewEncoder(w).Encode(DurationHistogram{Bins: []string{"0-5m", "5-10m"}, Counts: []int{3, 7}})
		case "/api/trips/pickup-heatmap":
			json.NewEncoder(w).Encode(PickupHeatmap{Locations: []HeatmapPoint{{X: -73.98, Y: 40.75}}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx := context.Background()
	sum, err := c.Summary(ctx, "", "")
	if err != nil || sum.TotalTrips != 42 || sum.BusiestHour != 18 {
		t.Fatalf("summary: %+v err=%v", sum, err)
	}
	td, err := c.TimeDistribution(ctx, "", "")
	if err != nil || len(td.Hours) != 3 || td.Counts[2] != 9 {
		t.Fatalf("time distribution: %+v err=%v", td, err)
	}
	dh, err := c.DurationHistogram(ctx, "", "")
	if err != nil || len(dh.Bins) != 2 || dh.Counts[1] != 7 {
		t.Fatalf("histogram: %+v err=%v", dh, err)
	}
	hm, err := c.PickupHeatmap(ctx, "", "")
	if err != nil || len(hm.Locations) != 1 || hm.Locations[0].X != -73.98 {
		t.Fatalf("heatmap: %+v err=%v", hm, err)
	}
}

func TestGetJSON_MalformedBodyIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).Summary(context.Background(), "", ""); err == nil {
		t.Fatal("malformed body must surface an error")
	}
}
