package storyboard

import "github.com/damiansian/notebook-storyboards/internal/captions"

// Align partitions cues among scenes. A cue belongs to the last scene whose
// timestamp does not exceed the cue's start time; when several scenes share a
// timestamp the latest one wins. Both inputs must already be sorted by time,
// which the detector and parser guarantee, so a single merge pass suffices.
// Every cue lands in exactly one record; scenes without cues still produce a
// record.
func Align(scenes []Scene, cues []captions.Cue) []SceneRecord {
	records := make([]SceneRecord, len(scenes))
	for i, scene := range scenes {
		records[i] = SceneRecord{Scene: scene}
	}
	if len(records) == 0 {
		return records
	}

	idx := 0
	for _, cue := range cues {
		for idx+1 < len(scenes) && scenes[idx+1].Timestamp <= cue.Start {
			idx++
		}
		records[idx].Cues = append(records[idx].Cues, cue)
	}
	return records
}
