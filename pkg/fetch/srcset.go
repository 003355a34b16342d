package fetch

import (
	"strconv"
	"strings"
	"unicode"
)

// Candidate is one entry of a srcset attribute.
type Candidate struct {
	URL string

	// Density is the pixel density descriptor ("2x"). Zero when the
	// candidate uses a width descriptor.
	Density float64

	// Width is the width descriptor in pixels ("480w"), zero otherwise.
	Width int
}

// SrcSet is a parsed candidate list.
type SrcSet []Candidate

// ParseSrcSet parses a srcset attribute value. Candidates with invalid
// descriptors are dropped, as browsers do. A candidate without descriptor
// has density 1.
func ParseSrcSet(s string) SrcSet {
	var set SrcSet
	for len(s) > 0 {
		// Skip separators
		s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == ',' })
		if s == "" {
			break
		}

		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			end = len(s)
		}
		url := s[:end]
		s = s[end:]

		var descriptor string
		if strings.HasSuffix(url, ",") {
			// "a.png, b.png": the comma terminates the candidate
			url = strings.TrimRight(url, ",")
		} else {
			descriptor, s = scanDescriptor(s)
		}
		if url == "" {
			continue
		}

		if c, ok := parseCandidate(url, descriptor); ok {
			set = append(set, c)
		}
	}
	return set
}

// scanDescriptor reads descriptor text up to the next comma outside
// parentheses and returns it with the remaining input.
func scanDescriptor(s string) (string, string) {
	depth := 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				return strings.TrimSpace(s[:i]), s[i+1:]
			}
		}
	}
	return strings.TrimSpace(s), ""
}

func parseCandidate(url, descriptor string) (Candidate, bool) {
	c := Candidate{URL: url}
	fields := strings.Fields(descriptor)
	switch len(fields) {
	case 0:
		c.Density = 1
		return c, true
	case 1:
	default:
		return c, false
	}

	d := fields[0]
	switch {
	case strings.HasSuffix(d, "x"):
		v, err := strconv.ParseFloat(strings.TrimSuffix(d, "x"), 64)
		if err != nil || v <= 0 {
			return c, false
		}
		c.Density = v
	case strings.HasSuffix(d, "w"):
		v, err := strconv.Atoi(strings.TrimSuffix(d, "w"))
		if err != nil || v <= 0 {
			return c, false
		}
		c.Width = v
	default:
		return c, false
	}
	return c, true
}

// Select picks the candidate for a display with the given device pixel
// ratio. Width descriptors are converted to densities against
// viewportWidth (the default "sizes: 100vw"); with no viewport the widest
// candidate wins.
//
// The smallest density that still covers dpr is chosen, falling back to the
// densest candidate. Select returns false for an empty set.
func (s SrcSet) Select(dpr float64, viewportWidth int) (Candidate, bool) {
	if len(s) == 0 {
		return Candidate{}, false
	}
	if dpr <= 0 {
		dpr = 1
	}

	density := func(c Candidate) float64 {
		if c.Width > 0 {
			if viewportWidth <= 0 {
				return float64(c.Width)
			}
			return float64(c.Width) / float64(viewportWidth)
		}
		return c.Density
	}

	if viewportWidth <= 0 && s.hasWidths() {
		best := s[0]
		for _, c := range s[1:] {
			if density(c) > density(best) {
				best = c
			}
		}
		return best, true
	}

	var best Candidate
	found := false
	densest := s[0]
	for _, c := range s {
		d := density(c)
		if d > density(densest) {
			densest = c
		}
		if d >= dpr && (!found || d < density(best)) {
			best = c
			found = true
		}
	}
	if !found {
		return densest, true
	}
	return best, true
}

func (s SrcSet) hasWidths() bool {
	for _, c := range s {
		if c.Width > 0 {
			return true
		}
	}
	return false
}
