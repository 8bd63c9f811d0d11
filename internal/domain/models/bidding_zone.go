package models

import "strings"

// BiddingZone is a European electricity market area with a single clearing
// price, identified by its Energy Identification Code (EIC).
type BiddingZone struct {
	code string
	eic  string
}

// Code returns the short zone code, e.g. "FI" or "NO2".
func (z BiddingZone) Code() string { return z.code }

// EIC returns the zone's Energy Identification Code.
func (z BiddingZone) EIC() string { return z.eic }

func (z BiddingZone) String() string { return z.code }

// IsZero reports whether z is the zero value.
func (z BiddingZone) IsZero() bool { return z.code == "" }

var zones = []BiddingZone{
	{"DE", "10Y1001A1001A82H"},
	{"AT", "10YAT-APG------L"},
	{"BE", "10YBE----------2"},
	{"DK1", "10YDK-1--------W"},
	{"DK2", "10YDK-2--------M"},
	{"FI", "10YFI-1--------U"},
	{"FR", "10YFR-RTE------C"},
	{"IT-North", "10Y1001A1001A73I"},
	{"NL", "10YNL----------L"},
	{"NO1", "10YNO-1--------2"},
	{"NO2", "10YNO-2--------T"},
	{"NO3", "10YNO-3--------J"},
	{"NO4", "10YNO-4--------9"},
	{"NO5", "10Y1001A1001A48H"},
	{"PL", "10YPL-AREA-----S"},
	{"ES", "10YES-REE------0"},
	{"SE1", "10Y1001A1001A44P"},
	{"SE2", "10Y1001A1001A45N"},
	{"SE3", "10Y1001A1001A46L"},
	{"SE4", "10Y1001A1001A47J"},
	{"CH", "10YCH-SWISSGRIDZ"},
	{"GB", "10YGB----------A"},
}

// AllZones returns every supported bidding zone in a stable order.
func AllZones() []BiddingZone {
	out := make([]BiddingZone, len(zones))
	copy(out, zones)
	return out
}

// ZoneFromCode looks up a zone by its short code, ignoring case.
// "ITNORTH" is accepted as an alias for "IT-North".
func ZoneFromCode(code string) (BiddingZone, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "ITNORTH" {
		c = "IT-NORTH"
	}
	for _, z := range zones {
		if strings.ToUpper(z.code) == c {
			return z, true
		}
	}
	return BiddingZone{}, false
}

// ParseZones resolves a comma separated list of zone codes. An empty list
// yields every zone.
func ParseZones(list string) ([]BiddingZone, error) {
	if strings.TrimSpace(list) == "" {
		return AllZones(), nil
	}
	var out []BiddingZone
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		z, ok := ZoneFromCode(part)
		if !ok {
			return nil, &UnknownZoneError{Code: part}
		}
		out = append(out, z)
	}
	return out, nil
}
