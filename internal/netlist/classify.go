package netlist

import (
	"regexp"
	"strings"
)

// Classification predicates used by the decoders and the trace engine.
// All patterns are compiled once at package init; these sit on hot paths.

var (
	groundNetRe = regexp.MustCompile(`(?i)^(GND|VSS|AGND|DGND|PGND|SGND|CGND)$`)

	powerNetRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(VCC|VDD|VIN|VOUT|VBAT|VBUS|VSYS)`),
		regexp.MustCompile(`(?i)^(LD_)?P[PN]`),
		regexp.MustCompile(`(?i)^(PWR|RAIL)_`),
		regexp.MustCompile(`(?i)^\d+V\d*$`),
		regexp.MustCompile(`^[+-].`),
	}

	validRefdesRe = regexp.MustCompile(`(?i)^[A-Z][A-Z0-9_]*$`)

	dnsRe = regexp.MustCompile(`(?i)(\b(DNS|DNP|DNF|DNI)\b|DO NOT STUFF|DO NOT POPULATE|DO NOT INSTALL|NOT POPULATED|NO POP)`)
)

// passivePrefixes are the refdes prefixes of two-pin series components the
// trace engine continues through.
var passivePrefixes = []string{"RS", "FR", "FB", "R", "L", "C"}

// IsGroundNet reports whether name is a ground rail.
func IsGroundNet(name string) bool {
	return groundNetRe.MatchString(name)
}

// IsPowerNet reports whether name is a power rail.
func IsPowerNet(name string) bool {
	for _, re := range powerNetRes {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// IsStopNet reports whether traversal must not continue through name.
func IsStopNet(name string) bool {
	return IsGroundNet(name) || IsPowerNet(name)
}

// IsPassive reports whether refdes names a series passive (resistor,
// inductor, capacitor, ferrite bead).
func IsPassive(refdes string) bool {
	upper := strings.ToUpper(refdes)
	for _, prefix := range passivePrefixes {
		if strings.HasPrefix(upper, prefix) {
			return true
		}
	}
	return false
}

// IsValidRefdes reports whether s is a plain reference designator, rejecting
// instance-path strings (anything with @, ., :, parentheses and the like).
func IsValidRefdes(s string) bool {
	return validRefdesRe.MatchString(s)
}

// IsDNS reports whether the component is marked do-not-stuff. The MPN,
// description, and comment are searched together for the usual markers.
func IsDNS(c *Component) bool {
	if c == nil {
		return false
	}
	haystack := c.MPN + " " + c.Description + " " + c.Comment
	return dnsRe.MatchString(haystack)
}
