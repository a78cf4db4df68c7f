package tagfile

import (
	"strconv"

	"go.senan.xyz/taglib"

	"stylus/internal/library"
	"stylus/internal/services"
)

// Writer persists merge patches into audio file tags.
type Writer struct{}

// NewWriter returns a tag writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteTags rewrites exactly the keys the patch names, leaving every other
// tag in the file untouched. An empty patch writes nothing and succeeds.
func (w *Writer) WriteTags(path string, patch library.TagPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	if err := taglib.WriteTags(path, TagMap(patch), 0); err != nil {
		return services.Wrap(services.ErrTagWrite, "tagfile", "write tags", path, err)
	}
	return nil
}

// TagMap translates a patch into taglib key to values form.
func TagMap(patch library.TagPatch) map[string][]string {
	tags := make(map[string][]string)
	if patch.Title != nil {
		tags[taglib.Title] = []string{*patch.Title}
	}
	if patch.Artist != nil {
		tags[taglib.Artist] = []string{*patch.Artist}
	}
	if patch.Album != nil {
		tags[taglib.Album] = []string{*patch.Album}
	}
	if patch.Genre != nil {
		tags[taglib.Genre] = []string{*patch.Genre}
	}
	if patch.Label != nil {
		tags[tagLabel] = []string{*patch.Label}
	}
	if patch.Year != nil {
		tags[taglib.Date] = []string{strconv.Itoa(*patch.Year)}
	}
	if patch.BPM != nil {
		tags[taglib.BPM] = []string{strconv.FormatFloat(*patch.BPM, 'f', -1, 64)}
	}
	if patch.Key != nil {
		tags[taglib.InitialKey] = []string{*patch.Key}
	}
	if patch.ISRC != nil {
		tags[taglib.ISRC] = []string{*patch.ISRC}
	}
	if patch.CatalogNumber != nil {
		tags[taglib.CatalogNumber] = []string{*patch.CatalogNumber}
	}
	if patch.ArtworkURL != nil {
		tags[tagArtworkURL] = []string{*patch.ArtworkURL}
	}
	return tags
}
