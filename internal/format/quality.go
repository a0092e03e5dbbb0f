package format

import "fmt"

// Quality mappings from the user-facing 0-100 scale to what each
// encoder actually accepts on its command line.

// OpusComp maps quality to opusenc's --comp value (0.0-10.0).
func OpusComp(quality int) string {
	return fmt.Sprintf("%g", float64(quality)/10)
}

// NeroQuality maps quality to neroAacEnc's -q value (0.00-1.00).
func NeroQuality(quality int) string {
	return fmt.Sprintf("%.2f", float64(quality)/100)
}

// FLACCompressionLevel maps quality to flac's compression level flag.
// flac accepts levels 0-8, so the top of the scale clamps to 8.
func FLACCompressionLevel(quality int) string {
	level := quality / 10
	if level > 8 {
		level = 8
	}
	return fmt.Sprintf("--compression-level-%d", level)
}
