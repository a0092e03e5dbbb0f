// Package format enumerates the audio formats tonemill converts between and
// the conversion pairs the external tool table supports.
package format

import (
	"fmt"
	"strings"
)

// Format identifies an audio container/codec by its canonical CLI name.
type Format string

const (
	FLAC Format = "flac"
	Wave Format = "wave"
	Opus Format = "opus"
	AAC  Format = "aac"
)

// sources are the formats tonemill can read, targets the ones it can write.
var (
	sources = []Format{FLAC, Wave}
	targets = []Format{Opus, AAC, FLAC, Wave}
)

// extensions maps a format to its canonical filename extension (with dot).
// AAC uses .m4a because the Nero encoder writes MP4 containers.
var extensions = map[Format]string{
	FLAC: ".flac",
	Wave: ".wav",
	Opus: ".opus",
	AAC:  ".m4a",
}

func (f Format) String() string { return string(f) }

// Ext returns the canonical filename extension, including the leading dot.
func (f Format) Ext() string { return extensions[f] }

// EmbedsTags reports whether files of this format carry metadata tags.
// WAVE has no native tag support.
func (f Format) EmbedsTags() bool { return f != Wave }

// EmbedsArt reports whether files of this format can carry an embedded
// cover picture.
func (f Format) EmbedsArt() bool { return f != Wave }

// Sources returns the supported source formats in display order.
func Sources() []Format { return append([]Format(nil), sources...) }

// Targets returns the supported target formats in display order.
func Targets() []Format { return append([]Format(nil), targets...) }

// Pair is one (source, target) entry of the supported conversion table.
type Pair struct {
	Source Format
	Target Format
}

// Pairs returns the full conversion table in deterministic order.
func Pairs() []Pair {
	var pairs []Pair
	for _, s := range sources {
		for _, t := range targets {
			pairs = append(pairs, Pair{Source: s, Target: t})
		}
	}
	return pairs
}

// Supported reports whether the (source, target) pair is in the conversion
// table. The table is fixed; unsupported pairs must be rejected during
// configuration validation, never at dispatch time.
func Supported(src, tgt Format) bool {
	return contains(sources, src) && contains(targets, tgt)
}

// ParseSource validates a user-supplied source format name.
func ParseSource(name string) (Format, error) {
	return parse(name, "source", sources)
}

// ParseTarget validates a user-supplied target format name.
func ParseTarget(name string) (Format, error) {
	return parse(name, "target", targets)
}

func parse(name, role string, valid []Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if contains(valid, f) {
		return f, nil
	}
	if hint := Suggest(string(f), valid); hint != "" {
		return "", fmt.Errorf("unknown %s format %q (did you mean %q?)", role, name, hint)
	}
	return "", fmt.Errorf("unknown %s format %q (supported: %s)", role, name, joinFormats(valid))
}

func contains(list []Format, f Format) bool {
	for _, v := range list {
		if v == f {
			return true
		}
	}
	return false
}

func joinFormats(list []Format) string {
	names := make([]string, len(list))
	for i, f := range list {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
