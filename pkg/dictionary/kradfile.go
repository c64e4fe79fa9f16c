package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Supported KRADFILE encodings. The original KRADFILE is EUC-JP; kradfile-u is UTF-8.
const (
	EncodingUTF8  = "utf-8"
	EncodingEUCJP = "euc-jp"
)

// Kradfile maps kanji to their components.
type Kradfile struct {
	Components map[string][]string
}

// ParseKradfile reads lines of the form "亜 : ｜ 一 口". Comment lines start with '#'.
func ParseKradfile(r io.Reader) (*Kradfile, error) {
	kf := &Kradfile{Components: make(map[string][]string)}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		kanji, rest, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("kradfile line %d: missing ':' separator", lineNo)
		}
		kanji = strings.TrimSpace(kanji)
		if kanji == "" {
			return nil, fmt.Errorf("kradfile line %d: missing kanji", lineNo)
		}
		kf.Components[kanji] = strings.Fields(rest)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan kradfile: %w", err)
	}
	return kf, nil
}

// LoadKradfile reads the KRADFILE at path in the given encoding (utf-8 if empty).
func LoadKradfile(path, encoding string) (*Kradfile, error) {
	f, br, err := openBuffered(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file at '%s': %w", path, err)
	}
	defer f.Close()

	var r io.Reader = br
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
	case EncodingEUCJP, "eucjp":
		r = transform.NewReader(br, japanese.EUCJP.NewDecoder())
	default:
		return nil, fmt.Errorf("unsupported kradfile encoding %q", encoding)
	}
	return ParseKradfile(r)
}
