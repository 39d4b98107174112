// Package provider is the registry of built-in streaming adapters.
package provider

import (
	"fmt"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/trimmer-cli/trimmer/provider/f1tv"
	"github.com/trimmer-cli/trimmer/provider/globoplay"
	"github.com/trimmer-cli/trimmer/provider/meliplay"
	"github.com/trimmer-cli/trimmer/source"
)

// Provider describes an adapter without instantiating it.
type Provider struct {
	ID      string
	Name    string
	Aliases []string
	// Domain is the site the adapter understands URLs of.
	Domain string
	// Auth lists the keyring entries the adapter reads, if any.
	Auth []string
	New  func(source.Options) (source.Source, error)
}

func (p *Provider) String() string {
	return p.Name
}

// Names returns the id followed by every alias.
func (p *Provider) Names() []string {
	return append([]string{p.ID}, p.Aliases...)
}

// Matches reports whether name is the id or an alias, ignoring case.
func (p *Provider) Matches(name string) bool {
	return lo.ContainsBy(p.Names(), func(n string) bool {
		return strings.EqualFold(n, name)
	})
}

var builtins = []*Provider{
	{
		ID:      meliplay.ID,
		Name:    meliplay.Name,
		Aliases: meliplay.Aliases,
		Domain:  "play.mercadolivre.com.br",
		New:     meliplay.New,
	},
	{
		ID:      globoplay.ID,
		Name:    globoplay.Name,
		Aliases: globoplay.Aliases,
		Domain:  "globoplay.globo.com",
		Auth:    []string{strings.ToLower(globoplay.CookieName), globoplay.DeviceIDName},
		New:     globoplay.New,
	},
	{
		ID:      f1tv.ID,
		Name:    f1tv.Name,
		Aliases: f1tv.Aliases,
		Domain:  "f1tv.formula1.com",
		Auth:    []string{f1tv.TokenName},
		New:     f1tv.New,
	},
}

// Builtins returns built-in providers.
func Builtins() []*Provider {
	return builtins
}

// Get finds a provider by id or alias.
func Get(name string) (*Provider, bool) {
	return lo.Find(builtins, func(p *Provider) bool {
		return p.Matches(strings.TrimSpace(name))
	})
}

// MustGet is Get with a helpful error.
func MustGet(name string) (*Provider, error) {
	if p, ok := Get(name); ok {
		return p, nil
	}

	return nil, fmt.Errorf("unknown provider %q, did you mean %s?", name, Closest(name).ID)
}

// Closest returns the provider whose id or alias is nearest to name.
func Closest(name string) *Provider {
	name = strings.ToLower(name)
	distance := func(p *Provider) int {
		return lo.Min(lo.Map(p.Names(), func(n string, _ int) int {
			return levenshtein.Distance(name, strings.ToLower(n))
		}))
	}

	return lo.MinBy(builtins, func(a, b *Provider) bool {
		return distance(a) < distance(b)
	})
}

// Search returns providers whose name, id, alias or domain fuzzily contains query.
func Search(query string) []*Provider {
	return lo.Filter(builtins, func(p *Provider, _ int) bool {
		targets := append(p.Names(), p.Name, p.Domain)
		return len(fuzzy.FindNormalizedFold(query, targets)) > 0
	})
}

// ForInput returns the provider whose domain appears in a URL.
func ForInput(input string) (*Provider, bool) {
	return lo.Find(builtins, func(p *Provider) bool {
		return strings.Contains(input, p.Domain) ||
			(p.ID == meliplay.ID && strings.Contains(input, "play.mercadolibre."))
	})
}
