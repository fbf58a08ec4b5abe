package subtitle

import (
	"encoding/json"
	"strconv"
)

type jsonCue struct {
	ID        any            `json:"id"`
	StartTime *float64       `json:"startTime"`
	EndTime   *float64       `json:"endTime"`
	Text      *string        `json:"text"`
	Data      map[string]any `json:"data"`
}

type jsonTrack struct {
	Cues []json.RawMessage `json:"cues"`
}

// ParseJSON parses cue JSON, either a bare array of cue objects or an
// object with a "cues" array. Elements failing the schema check are
// dropped with a logged warning; invalid JSON text yields an empty
// result plus a warning.
func ParseJSON(content string) []Cue {
	cues := []Cue{}

	var elements []json.RawMessage
	if err := json.Unmarshal([]byte(content), &elements); err != nil {
		var track jsonTrack
		if err := json.Unmarshal([]byte(content), &track); err != nil {
			logger.Warnw("Invalid cue JSON", "error", err)
			return cues
		}
		elements = track.Cues
	}

	for i, raw := range elements {
		var jc jsonCue
		if err := json.Unmarshal(raw, &jc); err != nil {
			logger.Warnw("Dropping malformed cue element", "index", i, "error", err)
			continue
		}
		if jc.StartTime == nil || jc.EndTime == nil || jc.Text == nil {
			logger.Warnw("Dropping cue element missing required fields", "index", i)
			continue
		}

		cues = append(cues, Cue{
			ID:        jsonCueID(jc.ID),
			StartTime: *jc.StartTime,
			EndTime:   *jc.EndTime,
			Text:      *jc.Text,
			Data:      jc.Data,
		})
	}

	return cues
}

// cue ids appear as strings or numbers in the wild
func jsonCueID(id any) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
