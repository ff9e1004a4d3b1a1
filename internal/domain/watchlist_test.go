package domain

import (
	"testing"
	"time"
)

func TestWatchlistEntry_AirDateAndYear(t *testing.T) {
	t.Parallel()

	release := time.Date(2010, 7, 16, 0, 0, 0, 0, time.UTC)
	firstAir := time.Date(2008, 1, 20, 0, 0, 0, 0, time.UTC)

	t.Run("movie uses release date", func(t *testing.T) {
		t.Parallel()
		e := &WatchlistEntry{MediaType: MediaTypeMovie, ReleaseDate: &release, FirstAirDate: &firstAir}
		if got := e.Year(); got != 2010 {
			t.Errorf("Year() = %d, want 2010", got)
		}
	})

	t.Run("tv uses first air date", func(t *testing.T) {
		t.Parallel()
		e := &WatchlistEntry{MediaType: MediaTypeTV, FirstAirDate: &firstAir}
		if got := e.Year(); got != 2008 {
			t.Errorf("Year() = %d, want 2008", got)
		}
	})

	t.Run("no date", func(t *testing.T) {
		t.Parallel()
		e := &WatchlistEntry{MediaType: MediaTypeTV, ReleaseDate: &release}
		if got := e.Year(); got != 0 {
			t.Errorf("Year() = %d, want 0", got)
		}
	})
}

func TestWatchlistEntry_CatalogURL(t *testing.T) {
	t.Parallel()

	e := &WatchlistEntry{ExternalID: 1396, MediaType: MediaTypeTV}
	if got := e.CatalogURL(); got != "https://www.themoviedb.org/tv/1396" {
		t.Errorf("CatalogURL() = %q", got)
	}
	if got := e.Key().String(); got != "tv/1396" {
		t.Errorf("Key().String() = %q", got)
	}
}

func TestWatchlistEntry_IsOrdered(t *testing.T) {
	t.Parallel()

	if (&WatchlistEntry{Order: 0}).IsOrdered() {
		t.Error("order 0 should be unordered")
	}
	if !(&WatchlistEntry{Order: 3}).IsOrdered() {
		t.Error("order 3 should be ordered")
	}
}
