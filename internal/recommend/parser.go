package recommend

import (
	"regexp"
	"strings"

	json "github.com/goccy/go-json"
)

// ParseSource tags which parser stage produced a result.
type ParseSource int

const (
	// ParseEmpty means neither stage yielded any candidates.
	ParseEmpty ParseSource = iota
	// ParseStrict means the raw text decoded as a JSON candidate array.
	ParseStrict
	// ParseHeuristic means candidates were recovered line by line.
	ParseHeuristic
)

func (s ParseSource) String() string {
	switch s {
	case ParseStrict:
		return "strict"
	case ParseHeuristic:
		return "heuristic"
	default:
		return "empty"
	}
}

// ParseResult holds parsed candidates along with the stage that produced
// them.
type ParseResult struct {
	Candidates []Candidate
	Source     ParseSource
}

// listMarker matches leading list decoration the model sometimes adds
// despite being asked for JSON, e.g. "1. ", "- ", "* ".
var listMarker = regexp.MustCompile(`^(\d+[.)]\s*|[-*]\s+)`)

// Parse converts raw model output into candidates. It first attempts a
// strict JSON decode; if that fails it falls back to scanning for
// "Title - Artist" lines. Parse never fails: structurally unusable input
// just contributes nothing, and an empty result is a legitimate "no
// candidates" outcome for the caller to handle.
func Parse(raw string) ParseResult {
	var candidates []Candidate
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &candidates); err == nil {
		return ParseResult{Candidates: candidates, Source: ParseStrict}
	}

	candidates = parseLines(raw)
	if len(candidates) == 0 {
		return ParseResult{Source: ParseEmpty}
	}
	return ParseResult{Candidates: candidates, Source: ParseHeuristic}
}

func parseLines(raw string) []Candidate {
	var candidates []Candidate
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = listMarker.ReplaceAllString(line, "")
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, " - ", 2)
		if len(parts) != 2 {
			continue
		}

		title := strings.TrimSpace(parts[0])
		artist := strings.TrimSpace(parts[1])
		if title == "" || artist == "" {
			continue
		}

		candidates = append(candidates, Candidate{Title: title, Artist: artist})
	}
	return candidates
}
