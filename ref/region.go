package ref

import (
	"fmt"
	"strings"
)

// Region is a market code scoping region-bound catalog endpoints.
type Region string

const (
	AR Region = "AR"
	BR Region = "BR"
	CL Region = "CL"
	CO Region = "CO"
	EC Region = "EC"
	MX Region = "MX"
	PE Region = "PE"
	UY Region = "UY"

	// Unknown marks a reference whose region could not be derived.
	Unknown Region = "unknown"
)

var tlds = map[string]Region{
	"com.ar": AR,
	"com.br": BR,
	"cl":     CL,
	"com.co": CO,
	"com.ec": EC,
	"com.mx": MX,
	"com.pe": PE,
	"com.uy": UY,
}

// Regions lists every known market in a stable order.
func Regions() []Region {
	return []Region{AR, BR, CL, CO, EC, MX, PE, UY}
}

// FromTLD maps a top-level-domain-like segment such as "com.br" to its region.
func FromTLD(tld string) Region {
	if region, ok := tlds[strings.ToLower(strings.Trim(tld, "."))]; ok {
		return region
	}
	return Unknown
}

// ParseRegion reads a configured region code. An empty value yields Unknown.
func ParseRegion(code string) (Region, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Unknown, nil
	}

	for _, region := range Regions() {
		if Region(code) == region {
			return region, nil
		}
	}
	return Unknown, fmt.Errorf("unknown region %q", code)
}

// Known reports whether r is an actual market.
func (r Region) Known() bool {
	return r != Unknown && r != ""
}

func (r Region) String() string {
	return string(r)
}
