package codec

import (
	"fmt"
	"os/exec"

	"github.com/tonemill/tonemill/internal/format"
)

// Tool names as invoked on the command line.
const (
	ToolFlac       = "flac"
	ToolMetaflac   = "metaflac"
	ToolOpusenc    = "opusenc"
	ToolNeroAacEnc = "neroAacEnc"
	ToolNeroAacTag = "neroAacTag"
)

// Tools carries optional path overrides for the external binaries,
// typically from the [tools] section of the config file. Empty fields
// fall back to a PATH lookup.
type Tools struct {
	Flac       string
	Metaflac   string
	Opusenc    string
	NeroAacEnc string
	NeroAacTag string
}

// override returns the configured path for a tool name, or "".
func (t Tools) override(name string) string {
	switch name {
	case ToolFlac:
		return t.Flac
	case ToolMetaflac:
		return t.Metaflac
	case ToolOpusenc:
		return t.Opusenc
	case ToolNeroAacEnc:
		return t.NeroAacEnc
	case ToolNeroAacTag:
		return t.NeroAacTag
	}
	return ""
}

// AllTools lists every external binary tonemill may invoke.
func AllTools() []string {
	return []string{ToolFlac, ToolMetaflac, ToolOpusenc, ToolNeroAacEnc, ToolNeroAacTag}
}

// RequiredTools returns the binaries a conversion pair needs, in
// invocation order. Wave-only legs need no tools at all.
func RequiredTools(src, tgt format.Format) []string {
	var tools []string
	if src == format.FLAC {
		tools = append(tools, ToolFlac, ToolMetaflac)
	}
	switch tgt {
	case format.Opus:
		tools = append(tools, ToolOpusenc)
	case format.AAC:
		tools = append(tools, ToolNeroAacEnc, ToolNeroAacTag)
	case format.FLAC:
		if src != format.FLAC {
			tools = append(tools, ToolFlac)
		}
	}
	return tools
}

// Resolve locates a tool, preferring the configured override. Missing
// tools fail here, at construction time, so a run never discovers a
// missing binary halfway through a library.
func (t Tools) Resolve(name string) (string, error) {
	if p := t.override(name); p != "" {
		return p, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	return path, nil
}
