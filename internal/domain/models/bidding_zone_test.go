package models

import (
	"errors"
	"testing"
)

func TestZoneFromCode(t *testing.T) {
	cases := []struct {
		in     string
		code   string
		eic    string
		wantOK bool
	}{
		{"FI", "FI", "10YFI-1--------U", true},
		{"fi", "FI", "10YFI-1--------U", true},
		{"NO2", "NO2", "10YNO-2--------T", true},
		{"no2", "NO2", "10YNO-2--------T", true},
		{"se3", "SE3", "10Y1001A1001A46L", true},
		{"DE", "DE", "10Y1001A1001A82H", true},
		{"it-north", "IT-North", "10Y1001A1001A73I", true},
		{"ITNORTH", "IT-North", "10Y1001A1001A73I", true},
		{"INVALID", "", "", false},
	}
	for _, c := range cases {
		z, ok := ZoneFromCode(c.in)
		if ok != c.wantOK {
			t.Fatalf("ZoneFromCode(%q) ok=%v, want %v", c.in, ok, c.wantOK)
		}
		if z.Code() != c.code || z.EIC() != c.eic {
			t.Fatalf("ZoneFromCode(%q)=%s/%s, want %s/%s", c.in, z.Code(), z.EIC(), c.code, c.eic)
		}
	}
}

func TestAllZones(t *testing.T) {
	all := AllZones()
	if len(all) != 22 {
		t.Fatalf("want 22 zones, got %d", len(all))
	}
	seen := map[string]bool{}
	for _, z := range all {
		if seen[z.Code()] {
			t.Fatalf("duplicate zone %s", z)
		}
		seen[z.Code()] = true
		if !IsValidArea(z.Code()) {
			t.Fatalf("zone code %q fails area validation", z.Code())
		}
	}
	// callers must not be able to mutate the table
	all[0] = BiddingZone{}
	if AllZones()[0].IsZero() {
		t.Fatalf("AllZones exposed internal table")
	}
}

func TestParseZones(t *testing.T) {
	got, err := ParseZones(" fi, SE3 ,,no2")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 3 || got[0].Code() != "FI" || got[1].Code() != "SE3" || got[2].Code() != "NO2" {
		t.Fatalf("unexpected zones: %v", got)
	}

	all, err := ParseZones("")
	if err != nil || len(all) != len(AllZones()) {
		t.Fatalf("empty list should yield all zones, got %d err=%v", len(all), err)
	}

	_, err = ParseZones("FI,XX")
	if !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
	var uz *UnknownZoneError
	if !errors.As(err, &uz) || uz.Code != "XX" {
		t.Fatalf("expected UnknownZoneError for XX, got %v", err)
	}
}

func TestBiddingZoneString(t *testing.T) {
	z, _ := ZoneFromCode("FI")
	if z.String() != "FI" {
		t.Fatalf("String()=%q", z.String())
	}
}
