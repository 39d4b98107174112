// Package ref turns heterogeneous user input (share URLs, bare ids) into a
// canonical content id and, when the URL carries one, a market region.
package ref

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/trimmer-cli/trimmer/log"
	"github.com/trimmer-cli/trimmer/util"
)

var (
	// ErrUnresolvableReference is returned when no pattern matches and the parser is strict.
	ErrUnresolvableReference = errors.New("unresolvable reference")
	// ErrMalformedReference is returned when a pattern matched but captured no id.
	ErrMalformedReference = errors.New("malformed reference")
	// ErrRegionUnknown is returned when a region-scoped operation has no region to work with.
	ErrRegionUnknown = errors.New("region unknown")
)

const (
	groupID     = "id"
	groupRegion = "region"
)

// Ref is a parsed content reference.
type Ref struct {
	Raw    string `json:"raw"`
	ID     string `json:"id"`
	Region Region `json:"region"`
}

// Scoped returns the reference region, or fallback when the input carried none.
// It fails with ErrRegionUnknown when neither is a known market.
func (r Ref) Scoped(fallback Region) (Region, error) {
	if r.Region.Known() {
		return r.Region, nil
	}
	if fallback.Known() {
		return fallback, nil
	}
	return Unknown, fmt.Errorf("%w: %q carries no region and no default is configured", ErrRegionUnknown, r.Raw)
}

// Outcome tells a clean match apart from the permissive fallback.
type Outcome int

const (
	Parsed Outcome = iota
	Fallback
)

func (o Outcome) String() string {
	if o == Fallback {
		return "fallback"
	}
	return "parsed"
}

// Result is what Parse produces.
type Result struct {
	Ref     Ref
	Outcome Outcome
}

// Parser matches input against an ordered list of patterns.
// Patterns must name the id capture group "id" and may name a "region" group.
type Parser struct {
	patterns []*regexp.Regexp

	// Permissive makes unmatched input a Fallback result with the raw input as id.
	Permissive bool
}

// NewParser compiles patterns in order. The first matching pattern wins.
func NewParser(patterns ...string) (*Parser, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pattern := range patterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, re)
	}

	return &Parser{patterns: compiled}, nil
}

// MustParser is like NewParser but panics on an invalid pattern.
func MustParser(patterns ...string) *Parser {
	p, err := NewParser(patterns...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse resolves raw into a reference. It performs no I/O.
func (p *Parser) Parse(raw string) (Result, error) {
	input := strings.TrimSpace(raw)
	if input == "" {
		return Result{}, fmt.Errorf("%w: empty input", ErrUnresolvableReference)
	}

	for _, pattern := range p.patterns {
		if !pattern.MatchString(input) {
			continue
		}

		groups := util.ReGroups(pattern, input)
		id := groups[groupID]
		if id == "" {
			return Result{}, fmt.Errorf("%w: %q matched %s without an id", ErrMalformedReference, raw, pattern)
		}

		region := Unknown
		if tld, ok := groups[groupRegion]; ok {
			region = FromTLD(tld)
		}

		return Result{
			Ref:     Ref{Raw: raw, ID: id, Region: region},
			Outcome: Parsed,
		}, nil
	}

	if !p.Permissive {
		return Result{}, fmt.Errorf("%w: %q", ErrUnresolvableReference, raw)
	}

	log.Warnf("%q does not look like a known URL, using it as the content id", raw)
	return Result{
		Ref:     Ref{Raw: raw, ID: input, Region: Unknown},
		Outcome: Fallback,
	}, nil
}
