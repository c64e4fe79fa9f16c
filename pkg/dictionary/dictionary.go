// Package dictionary reads the upstream dictionaries (KANJIDIC2, JMdict, KRADFILE and
// JmdictFurigana) into in-memory records. Files are read fully; nothing is streamed.
package dictionary

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// entityDecl matches general entity declarations in an internal DTD subset.
var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%"]+)\s+"([^"]*)"\s*>`)

// decodeDocument decodes the root element of r into v. Entities declared in the
// document's internal DTD subset (JMdict declares its tags that way) are expanded.
func decodeDocument(r io.Reader, v any) error {
	d := xml.NewDecoder(r)
	// Unknown entities are passed through as-is instead of failing the decode.
	d.Strict = false
	entities := make(map[string]string)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return fmt.Errorf("no root element")
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.Directive:
			for _, m := range entityDecl.FindAllSubmatch(t, -1) {
				entities[string(m[1])] = string(m[2])
			}
			d.Entity = entities
		case xml.StartElement:
			return d.DecodeElement(v, &t)
		}
	}
}

// openBuffered opens path and skips a leading UTF-8 byte order mark.
func openBuffered(path string) (*os.File, *bufio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	br := bufio.NewReader(f)
	if err := skipBOM(br); err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, br, nil
}

func skipBOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil || !bytes.Equal(head, utf8BOM) {
		// Short files simply have no BOM.
		return nil
	}
	_, err = br.Discard(len(utf8BOM))
	return err
}
