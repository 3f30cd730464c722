package cadence

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ChipPart is one part definition from pstchip.dat: the logical pin name to
// pin number map plus the body properties (VALUE, tolerances, and so on).
type ChipPart struct {
	PartName string
	Pins     map[string]string
	Body     map[string]string
}

// ParseChipFile reads pstchip.dat from path.
func ParseChipFile(path string) ([]ChipPart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return ParseChips(f)
}

// ParseChips decodes the pstchip.dat format. A `primitive '<part-name>'`
// line opens a part section. Inside it, pin … end_pin; blocks declare pins:
// a quoted '<name>': line immediately followed by PIN_NUMBER='(<n>)';. A
// body line opens a block of KEY=VALUE; properties.
func ParseChips(r io.Reader) ([]ChipPart, error) {
	var parts []ChipPart
	var current *ChipPart

	const (
		stateNone = iota
		statePin
		stateBody
	)
	state := stateNone
	pendingPin := ""

	flush := func() {
		if current != nil && current.PartName != "" {
			parts = append(parts, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "primitive"):
			flush()
			state = stateNone
			pendingPin = ""
			name, ok := unquote(strings.TrimPrefix(line, "primitive"))
			if !ok {
				continue
			}
			current = &ChipPart{
				PartName: name,
				Pins:     make(map[string]string),
				Body:     make(map[string]string),
			}

		case current == nil:
			// Preamble outside any part section.

		case line == "pin":
			state = statePin
			pendingPin = ""

		case strings.HasPrefix(line, "end_pin"):
			state = stateNone
			pendingPin = ""

		case line == "body":
			state = stateBody

		case strings.HasPrefix(line, "end_body"):
			state = stateNone

		case state == statePin:
			if strings.HasPrefix(line, "PIN_NUMBER") {
				if pendingPin != "" {
					if number := pinNumberValue(line); number != "" {
						current.Pins[pendingPin] = number
					}
					pendingPin = ""
				}
				continue
			}
			if name, ok := unquote(line); ok {
				pendingPin = name
			}

		case state == stateBody:
			if key, value, ok := parseProperty(line); ok {
				current.Body[key] = value
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chip file: %w", err)
	}
	flush()
	return parts, nil
}

// pinNumberValue extracts n from a PIN_NUMBER='(<n>)'; line.
func pinNumberValue(line string) string {
	_, value, ok := parseProperty(line)
	if !ok {
		return ""
	}
	value = strings.TrimPrefix(value, "(")
	value = strings.TrimSuffix(value, ")")
	return strings.TrimSpace(value)
}
