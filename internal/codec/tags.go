package codec

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tags holds a file's metadata as Vorbis comment fields, keyed by
// upper-cased field name.
type Tags map[string]string

// ParseVorbisComments turns metaflac's KEY=value tag export into a Tags
// map. Keys are upper-cased, values NFC-normalized so downstream tools
// see one canonical Unicode form. Lines without '=' are ignored.
func ParseVorbisComments(out string) Tags {
	tags := make(Tags)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		tags[strings.ToUpper(key)] = norm.NFC.String(value)
	}
	return tags
}

// SortedKeys returns the field names in lexicographic order so generated
// command lines are deterministic.
func (t Tags) SortedKeys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// vorbisToNero maps Vorbis comment field names to Nero Digital metadata
// field names: the standard set from the Ogg Vorbis I specification plus
// the proposed names from the xiph.org wiki. Fields without a Nero
// counterpart (CONTACT, DESCRIPTION, LOCATION, PERFORMER) are dropped.
var vorbisToNero = map[string]string{
	"ARTIST":       "artist",
	"TITLE":        "title",
	"ALBUM":        "album",
	"DATE":         "year",
	"TRACKNUMBER":  "track",
	"GENRE":        "genre",
	"COMMENT":      "comment",
	"ORGANIZATION": "label",
	"LICENSE":      "credits",
	"COPYRIGHT":    "copyright",
	"ISRC":         "isrc",
	"COMPOSER":     "composer",
	"TRACKTOTAL":   "totaltracks",
	"DISCNUMBER":   "disc",
	"DISCTOTAL":    "totaldiscs",
}

// ToNero converts Vorbis tags to the Nero AAC tag schema. VERSION has no
// Nero field, so it is folded into the title; track numbers lose their
// leading zeros because neroAacTag rejects "07".
func (t Tags) ToNero() Tags {
	in := make(Tags, len(t))
	for k, v := range t {
		in[k] = v
	}

	if version, ok := in["VERSION"]; ok {
		in["TITLE"] = in["TITLE"] + " [" + version + "]"
	}
	if track, ok := in["TRACKNUMBER"]; ok {
		if n, err := strconv.Atoi(strings.TrimSpace(track)); err == nil {
			in["TRACKNUMBER"] = strconv.Itoa(n)
		}
	}

	out := make(Tags)
	for vorbisField, neroField := range vorbisToNero {
		if v, ok := in[vorbisField]; ok {
			out[neroField] = v
		}
	}
	return out
}
