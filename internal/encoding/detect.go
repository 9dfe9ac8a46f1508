package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const peekSize = 4096

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Report describes what was observed about the raw bytes before decoding.
type Report struct {
	ValidUTF8  bool
	Charset    string // best chardet guess, "UTF-8" when the content is valid
	Confidence int
}

// NewLossyUTF8Reader returns a reader that decodes the input as UTF-8 without
// transcoding: every invalid byte becomes U+FFFD. Bank exports written in
// Windows-1252 therefore keep the same mangled header names the portal
// produces, e.g. "Beg�nstigter / Auftraggeber".
//
// A leading UTF-8 BOM is dropped. The report carries a chardet guess so the
// caller can log what the file was most likely encoded as.
func NewLossyUTF8Reader(r io.Reader) (io.Reader, Report, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, Report{}, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		buf = buf[len(bomUTF8):]
	}

	report := Detect(trimPartialRune(buf, len(buf) >= peekSize-len(bomUTF8)))

	return transform.NewReader(br, unicode.UTF8.NewDecoder()), report, nil
}

// Detect inspects a sample of raw bytes.
func Detect(sample []byte) Report {
	if utf8.Valid(sample) {
		return Report{ValidUTF8: true, Charset: "UTF-8", Confidence: 100}
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return Report{Charset: "unknown"}
	}

	return Report{Charset: result.Charset, Confidence: result.Confidence}
}

// trimPartialRune drops a multi-byte sequence cut off by the peek window so it
// is not mistaken for invalid input.
func trimPartialRune(buf []byte, truncated bool) []byte {
	if !truncated {
		return buf
	}

	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		start := len(buf) - i
		if utf8.RuneStart(buf[start]) {
			if !utf8.FullRune(buf[start:]) {
				return buf[:start]
			}

			break
		}
	}

	return buf
}
