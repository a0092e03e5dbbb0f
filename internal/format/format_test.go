package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSource(t *testing.T) {
	f, err := ParseSource("flac")
	require.NoError(t, err)
	assert.Equal(t, FLAC, f)

	f, err = ParseSource("  WAVE ")
	require.NoError(t, err)
	assert.Equal(t, Wave, f)
}

func TestParseSource_RejectsTargetOnlyFormats(t *testing.T) {
	_, err := ParseSource("opus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
}

func TestParseTarget(t *testing.T) {
	for _, name := range []string{"opus", "aac", "flac", "wave"} {
		f, err := ParseTarget(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.String())
	}
}

func TestParseTarget_SuggestsOnTypo(t *testing.T) {
	_, err := ParseTarget("opsu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `did you mean "opus"`)
}

func TestParseTarget_NoSuggestionForGarbage(t *testing.T) {
	_, err := ParseTarget("zzzzzz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supported: opus, aac, flac, wave")
}

func TestExt(t *testing.T) {
	assert.Equal(t, ".flac", FLAC.Ext())
	assert.Equal(t, ".wav", Wave.Ext())
	assert.Equal(t, ".opus", Opus.Ext())
	// Nero writes MP4 containers, so AAC output is .m4a.
	assert.Equal(t, ".m4a", AAC.Ext())
}

func TestEmbedsTagsAndArt(t *testing.T) {
	assert.True(t, FLAC.EmbedsTags())
	assert.True(t, Opus.EmbedsArt())
	assert.False(t, Wave.EmbedsTags())
	assert.False(t, Wave.EmbedsArt())
}

func TestSupported(t *testing.T) {
	for _, s := range Sources() {
		for _, tgt := range Targets() {
			assert.True(t, Supported(s, tgt), "%s -> %s", s, tgt)
		}
	}
	assert.False(t, Supported(Opus, FLAC), "opus is not a readable source")
	assert.False(t, Supported(FLAC, "mp3"))
}

func TestPairs_Deterministic(t *testing.T) {
	first := Pairs()
	second := Pairs()
	require.Equal(t, first, second)
	assert.Len(t, first, len(Sources())*len(Targets()))
	assert.Equal(t, Pair{Source: FLAC, Target: Opus}, first[0])
}

func TestOpusComp(t *testing.T) {
	assert.Equal(t, "5", OpusComp(50))
	assert.Equal(t, "0", OpusComp(0))
	assert.Equal(t, "10", OpusComp(100))
	assert.Equal(t, "5.5", OpusComp(55))
}

func TestNeroQuality(t *testing.T) {
	assert.Equal(t, "0.50", NeroQuality(50))
	assert.Equal(t, "0.00", NeroQuality(0))
	assert.Equal(t, "1.00", NeroQuality(100))
}

func TestFLACCompressionLevel(t *testing.T) {
	assert.Equal(t, "--compression-level-5", FLACCompressionLevel(50))
	assert.Equal(t, "--compression-level-0", FLACCompressionLevel(0))
	// Levels above 8 clamp to flac's maximum.
	assert.Equal(t, "--compression-level-8", FLACCompressionLevel(100))
	assert.Equal(t, "--compression-level-8", FLACCompressionLevel(85))
}

func TestSuggest(t *testing.T) {
	assert.Equal(t, "flac", Suggest("falc", Sources()))
	assert.Equal(t, "wave", Suggest("wav", Sources()))
	assert.Equal(t, "", Suggest("qqqqq", Sources()))
}
