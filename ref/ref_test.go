package ref

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const meliPattern = `^https?://play\.(mercadolivre|mercadolibre)\.(?P<region>[^/]+)(?:/[^/]+)*/(?P<id>[a-f0-9]{32})$`

func TestParse(t *testing.T) {
	Convey("Given a parser with a region-aware pattern", t, func() {
		parser := MustParser(meliPattern, `^(?P<id>\d+)$`)

		Convey("It extracts the id and maps the region", func() {
			for tld, region := range map[string]Region{
				"com.ar": AR, "com.br": BR, "cl": CL, "com.co": CO,
				"com.ec": EC, "com.mx": MX, "com.pe": PE, "com.uy": UY,
			} {
				url := "https://play.mercadolibre." + tld + "/assistir/a-serie/0123456789abcdef0123456789abcdef"
				result, err := parser.Parse(url)
				So(err, ShouldBeNil)
				So(result.Outcome, ShouldEqual, Parsed)
				So(result.Ref.ID, ShouldEqual, "0123456789abcdef0123456789abcdef")
				So(result.Ref.Region, ShouldEqual, region)
				So(result.Ref.Raw, ShouldEqual, url)
			}
		})

		Convey("Unmapped region segments yield Unknown", func() {
			result, err := parser.Parse("https://play.mercadolivre.com.ve/0123456789abcdef0123456789abcdef")
			So(err, ShouldBeNil)
			So(result.Ref.Region, ShouldEqual, Unknown)
		})

		Convey("Patterns without a region group yield Unknown", func() {
			result, err := parser.Parse("1000005421")
			So(err, ShouldBeNil)
			So(result.Ref.ID, ShouldEqual, "1000005421")
			So(result.Ref.Region, ShouldEqual, Unknown)
		})

		Convey("Unmatched input is unresolvable in strict mode", func() {
			_, err := parser.Parse("not a reference")
			So(errors.Is(err, ErrUnresolvableReference), ShouldBeTrue)
		})

		Convey("Empty input is unresolvable even when permissive", func() {
			parser.Permissive = true
			_, err := parser.Parse("   ")
			So(errors.Is(err, ErrUnresolvableReference), ShouldBeTrue)
		})

		Convey("Unmatched input falls back when permissive", func() {
			parser.Permissive = true
			result, err := parser.Parse(" AbC123 ")
			So(err, ShouldBeNil)
			So(result.Outcome, ShouldEqual, Fallback)
			So(result.Ref.ID, ShouldEqual, "AbC123")
			So(result.Ref.Region, ShouldEqual, Unknown)
		})
	})

	Convey("Given a pattern whose id group can be empty", t, func() {
		parser := MustParser(`^https://example\.com/v/(?P<id>[A-Za-z]*)$`)

		Convey("A match without an id is malformed", func() {
			_, err := parser.Parse("https://example.com/v/")
			So(errors.Is(err, ErrMalformedReference), ShouldBeTrue)
		})

		Convey("Case is preserved", func() {
			result, err := parser.Parse("https://example.com/v/MixedCase")
			So(err, ShouldBeNil)
			So(result.Ref.ID, ShouldEqual, "MixedCase")
		})
	})

	Convey("Invalid patterns are rejected", t, func() {
		_, err := NewParser(`(?P<id>`)
		So(err, ShouldNotBeNil)
	})
}

func TestScoped(t *testing.T) {
	Convey("Scoped", t, func() {
		Convey("prefers the parsed region", func() {
			region, err := Ref{Region: AR}.Scoped(BR)
			So(err, ShouldBeNil)
			So(region, ShouldEqual, AR)
		})

		Convey("falls back to the configured default", func() {
			region, err := Ref{Region: Unknown}.Scoped(MX)
			So(err, ShouldBeNil)
			So(region, ShouldEqual, MX)
		})

		Convey("fails without either", func() {
			_, err := Ref{Raw: "x", Region: Unknown}.Scoped(Unknown)
			So(errors.Is(err, ErrRegionUnknown), ShouldBeTrue)
		})
	})
}

func TestParseRegion(t *testing.T) {
	Convey("ParseRegion", t, func() {
		region, err := ParseRegion(" br ")
		So(err, ShouldBeNil)
		So(region, ShouldEqual, BR)

		region, err = ParseRegion("")
		So(err, ShouldBeNil)
		So(region, ShouldEqual, Unknown)

		_, err = ParseRegion("VE")
		So(err, ShouldNotBeNil)

		So(FromTLD(".COM.MX"), ShouldEqual, MX)
	})
}
