package analysis

import (
	"bytes"

	"github.com/bep/imagemeta"
)

// metadataExtractor validates format-specific magic header/footer bytes.
// A valid signature reads as authentic (low score, 30-40); a missing or
// broken one is suspicious (high score, 60-70). Within the authentic
// band, an intact EXIF block tightens the score toward the low end -
// camera-written metadata surviving the file is a weak authenticity
// signal. Unknown media types score neutral.
type metadataExtractor struct{}

func (metadataExtractor) Name() string { return FeatureMetadata }

func (metadataExtractor) Extract(buf []byte, mediaType string) float64 {
	if len(buf) == 0 {
		return neutralScore
	}

	var valid bool
	switch mediaType {
	case MimeJPEG:
		valid = hasJPEGSignature(buf)
	case MimePNG:
		valid = hasPNGSignature(buf)
	case MimeMP4, MimeQuickTime:
		valid = hasFtypBox(buf)
	default:
		return neutralScore
	}

	if !valid {
		// Suspicious band: 60 + hash mod 10 stays within [60,70).
		return 60 + HashMod(buf, 10)
	}

	if (mediaType == MimeJPEG || mediaType == MimePNG) && hasEXIF(buf) {
		// Low end of the authentic band: 30 + hash mod 6.
		return 30 + HashMod(buf, 6)
	}
	// Authentic band: 32 + hash mod 8 stays within [30,40].
	return 32 + HashMod(buf, 8)
}

func hasJPEGSignature(buf []byte) bool {
	return len(buf) >= 4 &&
		buf[0] == 0xFF && buf[1] == 0xD8 &&
		buf[len(buf)-2] == 0xFF && buf[len(buf)-1] == 0xD9
}

func hasPNGSignature(buf []byte) bool {
	return len(buf) >= 4 &&
		buf[0] == 0x89 && buf[1] == 0x50 && buf[2] == 0x4E && buf[3] == 0x47
}

// hasFtypBox checks for the ISO base-media "ftyp" box at offset 4,
// shared by MP4 and QuickTime containers.
func hasFtypBox(buf []byte) bool {
	return len(buf) >= 8 && bytes.Equal(buf[4:8], []byte("ftyp"))
}

// hasEXIF reports whether an EXIF block parses out of the image bytes.
// Graceful degradation: any decode error just means "no EXIF".
func hasEXIF(buf []byte) bool {
	found := false
	_, err := imagemeta.Decode(imagemeta.Options{
		R:       bytes.NewReader(buf),
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(imagemeta.TagInfo) bool {
			return true
		},
		HandleTag: func(imagemeta.TagInfo) error {
			found = true
			return nil
		},
	})
	return err == nil && found
}
