package tagfile

import (
	"fmt"
	"strconv"
	"strings"

	"go.senan.xyz/taglib"

	"stylus/internal/library"
)

// Tag keys without a generated taglib constant. TagLib stores unknown keys
// as free-form properties (TXXX frames, Vorbis comments), which is how DJ
// tools carry catalog-specific fields.
const (
	tagLabel      = "LABEL"
	tagArtworkURL = "ARTWORKURL"
)

// Audio file extensions the scanner imports.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtOGG  = ".ogg"
	ExtWAV  = ".wav"
	ExtAIFF = ".aiff"
)

// IsAudioFile reports whether the path has a supported audio extension.
func IsAudioFile(path string) bool {
	lower := strings.ToLower(path)
	idx := strings.LastIndex(lower, ".")
	if idx < 0 {
		return false
	}
	switch lower[idx:] {
	case ExtMP3, ExtFLAC, ExtM4A, ExtOGG, ExtWAV, ExtAIFF:
		return true
	default:
		return false
	}
}

// ReadTrack reads tags and audio properties from the file into a library
// track. The returned track carries no store identity; scans fill that in.
func ReadTrack(path string) (*library.Track, error) {
	tags, err := taglib.ReadTags(path)
	if err != nil {
		return nil, fmt.Errorf("read tags %s: %w", path, err)
	}
	props, err := taglib.ReadProperties(path)
	if err != nil {
		return nil, fmt.Errorf("read properties %s: %w", path, err)
	}

	track := &library.Track{
		Path:            path,
		Title:           firstTag(tags, taglib.Title),
		Artist:          joinTag(tags, taglib.Artist),
		Album:           firstTag(tags, taglib.Album),
		Genre:           firstTag(tags, taglib.Genre),
		Label:           firstTag(tags, tagLabel),
		Year:            parseYear(firstTag(tags, taglib.Date)),
		BPM:             parseBPM(firstTag(tags, taglib.BPM)),
		Key:             firstTag(tags, taglib.InitialKey),
		ISRC:            firstTag(tags, taglib.ISRC),
		CatalogNumber:   firstTag(tags, taglib.CatalogNumber),
		ArtworkURL:      firstTag(tags, tagArtworkURL),
		DurationSeconds: props.Length.Seconds(),
	}
	return track, nil
}

func firstTag(tags map[string][]string, key string) string {
	if values, ok := tags[key]; ok && len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

func joinTag(tags map[string][]string, key string) string {
	values := tags[key]
	switch len(values) {
	case 0:
		return ""
	case 1:
		return strings.TrimSpace(values[0])
	default:
		trimmed := make([]string, 0, len(values))
		for _, value := range values {
			if value = strings.TrimSpace(value); value != "" {
				trimmed = append(trimmed, value)
			}
		}
		return strings.Join(trimmed, ", ")
	}
}

// parseYear accepts "2009" and "2009-09-22" date tags.
func parseYear(value string) int {
	if len(value) > 4 {
		value = value[:4]
	}
	year, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return year
}

func parseBPM(value string) float64 {
	bpm, err := strconv.ParseFloat(value, 64)
	if err != nil || bpm < 0 {
		return 0
	}
	return bpm
}
