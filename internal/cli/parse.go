package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/example/casesla/internal/ports/primary"
	"github.com/example/casesla/internal/wire"
)

// parseBand parses "from-to" (or a single day "n") into a band.
func parseBand(s string) (primary.Band, error) {
	s = strings.TrimSpace(s)
	from, to, found := strings.Cut(s, "-")
	if !found {
		to = from
	}
	f, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return primary.Band{}, fmt.Errorf("invalid band %q: expected from-to", s)
	}
	t, err := strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return primary.Band{}, fmt.Errorf("invalid band %q: expected from-to", s)
	}
	return primary.Band{From: f, To: t}, nil
}

// parseDate accepts YYYY-MM-DD (local midnight) or RFC 3339.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// snapshotOptions builds SnapshotOptions from the shared --anchor/--reference/--now flags.
// A reference date implies the explicit anchor; an empty anchor uses the configured default.
func snapshotOptions(anchor, reference, now string) (primary.SnapshotOptions, error) {
	opts := primary.SnapshotOptions{}

	ref, err := parseOptionalDate(reference)
	if err != nil {
		return opts, err
	}
	opts.Reference = ref

	switch {
	case anchor != "":
		opts.Anchor = primary.Anchor(strings.ReplaceAll(strings.ToLower(anchor), "-", "_"))
	case ref != nil:
		opts.Anchor = primary.AnchorExplicit
	default:
		opts.Anchor = primary.Anchor(wire.Config().DefaultAnchor)
		if opts.Anchor == "" {
			opts.Anchor = primary.AnchorLastTransition
		}
	}

	switch opts.Anchor {
	case primary.AnchorLastTransition, primary.AnchorDeadline, primary.AnchorExplicit:
	default:
		return opts, fmt.Errorf("unknown anchor %q: use last_transition, deadline or explicit", opts.Anchor)
	}
	if opts.Anchor == primary.AnchorExplicit && ref == nil {
		return opts, fmt.Errorf("--anchor explicit requires --reference")
	}

	if now != "" {
		t, err := parseDate(now)
		if err != nil {
			return opts, err
		}
		opts.Now = t
	}
	return opts, nil
}

// openInput opens path for reading; "-" is stdin.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
