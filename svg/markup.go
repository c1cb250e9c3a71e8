package svg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	svgOpenRe   = regexp.MustCompile(`(?is)<svg\b[^>]*>`)
	viewBoxRe   = regexp.MustCompile(`(?i)viewBox\s*=\s*"([^"]*)"`)
	dimensionRe = regexp.MustCompile(`(?i)\b(width|height)\s*=\s*"([0-9.]+)(px)?"`)
	strokeRe    = regexp.MustCompile(`stroke-width\s*=\s*"([0-9.]+)"`)
	strokeCSSRe = regexp.MustCompile(`stroke-width\s*:\s*([0-9.]+)`)
)

// Inner extracts the content between the root svg tags along with the
// declared viewbox, falling back to width/height attributes when no viewbox
// is present.
func Inner(markup []byte) (content, viewBox string, err error) {
	doc := string(markup)
	loc := svgOpenRe.FindStringIndex(doc)
	if loc == nil {
		return "", "", fmt.Errorf("no svg root element found")
	}
	open := doc[loc[0]:loc[1]]
	rest := doc[loc[1]:]
	closeIdx := strings.LastIndex(rest, "</svg")
	if closeIdx < 0 {
		return "", "", fmt.Errorf("unterminated svg root element")
	}
	content = strings.TrimSpace(rest[:closeIdx])
	if m := viewBoxRe.FindStringSubmatch(open); m != nil {
		viewBox = strings.TrimSpace(m[1])
	} else {
		var w, h float64
		for _, dim := range dimensionRe.FindAllStringSubmatch(open, -1) {
			v, convErr := strconv.ParseFloat(dim[2], 64)
			if convErr != nil {
				continue
			}
			if strings.EqualFold(dim[1], "width") {
				w = v
			} else {
				h = v
			}
		}
		if w > 0 && h > 0 {
			viewBox = fmt.Sprintf("0 0 %s %s", trimFloat(w), trimFloat(h))
		}
	}
	return content, viewBox, nil
}

// normalizeStrokes raises stroke widths below min up to min. Hair-thin
// strokes disappear entirely at small raster sizes.
func normalizeStrokes(markup string, min float64) string {
	markup = strokeRe.ReplaceAllStringFunc(markup, func(attr string) string {
		m := strokeRe.FindStringSubmatch(attr)
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v >= min {
			return attr
		}
		return fmt.Sprintf("stroke-width=\"%s\"", trimFloat(min))
	})
	return strokeCSSRe.ReplaceAllStringFunc(markup, func(prop string) string {
		m := strokeCSSRe.FindStringSubmatch(prop)
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil || v >= min {
			return prop
		}
		return fmt.Sprintf("stroke-width:%s", trimFloat(min))
	})
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
