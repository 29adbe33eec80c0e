package ingest

import (
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeToUTF8 normalizes raw CSV bytes to UTF-8. Spreadsheet exports are
// messy: Excel writes UTF-8 with a BOM or UTF-16, older tools write
// Latin-1. Strategies are tried in order of likelihood.
func decodeToUTF8(raw []byte) ([]byte, error) {
	// UTF-16 carries a BOM the UTF-8 validity check would reject.
	if hasUTF16BOM(raw) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		converted, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), decoder))
		if err != nil {
			return nil, fmt.Errorf("utf-16 conversion failed: %w", err)
		}
		return converted, nil
	}

	if utf8.Valid(raw) {
		return bytes.TrimPrefix(raw, utf8BOM), nil
	}

	// Last resort: Latin-1 decodes any byte sequence.
	converted, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("latin-1 conversion failed: %w", err)
	}
	return converted, nil
}

func hasUTF16BOM(raw []byte) bool {
	if len(raw) < 2 {
		return false
	}
	return (raw[0] == 0xFF && raw[1] == 0xFE) || (raw[0] == 0xFE && raw[1] == 0xFF)
}
