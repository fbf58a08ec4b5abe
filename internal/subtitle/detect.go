package subtitle

import (
	"fmt"
	"strings"
)

// NormalizeFormat resolves a user-supplied format name. "ssa" maps to
// the ASS parser.
func NormalizeFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "vtt":
		return FormatVTT, nil
	case "srt":
		return FormatSRT, nil
	case "ass", "ssa":
		return FormatASS, nil
	case "sbv":
		return FormatSBV, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf(
			"unknown format %q: supported formats are vtt, srt, ass, ssa, sbv, json",
			name,
		)
	}
}

// DetectFormat derives the caption format from the final path
// segment's extension, case-insensitively. Works on plain paths and
// URLs (query and fragment are ignored). An unrecognized or missing
// extension defaults to VTT.
func DetectFormat(path string) Format {
	base := path
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.IndexAny(base, "?#"); idx >= 0 {
		base = base[:idx]
	}

	ext := ""
	if idx := strings.LastIndex(base, "."); idx >= 0 {
		ext = strings.ToLower(base[idx+1:])
	}

	switch ext {
	case "srt":
		return FormatSRT
	case "ass", "ssa":
		return FormatASS
	case "sbv":
		return FormatSBV
	case "json":
		return FormatJSON
	case "vtt":
		return FormatVTT
	default:
		return FormatVTT
	}
}
