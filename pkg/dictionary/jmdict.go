package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/japaniel/jadata/pkg/jadata"
)

// Expanded JMdict entity values the builders look for. Entity names are accepted too in
// case the file was decoded without its DTD.
const (
	RareKanjiForm    = "rarely-used kanji form"
	UsuallyKanaAlone = "word usually written using kana alone"
)

// revisionScanLines bounds how far into the file the Rev marker is searched for.
const revisionScanLines = 10

// JMdict matches the structure of the JMdict XML file.
type JMdict struct {
	// Version is the revision taken from the leading comment, not from the XML body.
	Version string  `xml:"-"`
	Entries []Entry `xml:"entry"`
}

// Entry is a single JMdict entry.
type Entry struct {
	Seq      string           `xml:"ent_seq"`
	Kanji    []KanjiElement   `xml:"k_ele"`
	Readings []ReadingElement `xml:"r_ele"`
	Senses   []Sense          `xml:"sense"`
}

type KanjiElement struct {
	Text     string   `xml:"keb"`
	Info     []string `xml:"ke_inf"`
	Priority []string `xml:"ke_pri"`
}

type ReadingElement struct {
	Text string `xml:"reb"`
	// Restrictions lists the kanji forms this reading applies to; empty means all.
	Restrictions []string `xml:"re_restr"`
	Info         []string `xml:"re_inf"`
	Priority     []string `xml:"re_pri"`
}

type Sense struct {
	KanjiRestrictions   []string `xml:"stagk"`
	ReadingRestrictions []string `xml:"stagr"`
	PartOfSpeech        []string `xml:"pos"`
	Misc                []string `xml:"misc"`
	Gloss               []Gloss  `xml:"gloss"`
}

// Gloss is a translation of a sense. Lang is empty for English.
type Gloss struct {
	Lang  string `xml:"lang,attr"`
	Value string `xml:",chardata"`
}

// IsRareKanjiForm reports whether the kanji element is marked as a rarely used spelling.
func (k *KanjiElement) IsRareKanjiForm() bool {
	return hasTag(k.Info, RareKanjiForm, "rK")
}

// AppliesTo reports whether the reading may be used with the kanji form keb.
func (r *ReadingElement) AppliesTo(keb string) bool {
	return len(r.Restrictions) == 0 || contains(r.Restrictions, keb)
}

// AppliesTo reports whether the sense applies to the written form and reading.
func (s *Sense) AppliesTo(writtenForm, reading string) bool {
	stagk := len(s.KanjiRestrictions) == 0 || contains(s.KanjiRestrictions, writtenForm)
	stagr := len(s.ReadingRestrictions) == 0 || contains(s.ReadingRestrictions, reading)
	return stagk && stagr
}

// IsUsuallyKana reports whether the sense is flagged as usually written in kana.
func (s *Sense) IsUsuallyKana() bool {
	return hasTag(s.Misc, UsuallyKanaAlone, "uk")
}

func hasTag(values []string, expanded, name string) bool {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == expanded || v == name || v == "&"+name+";" {
			return true
		}
	}
	return false
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// ParseRevision scans the first lines of a JMdict file for the "<!-- Rev " marker and
// returns the rest of that line.
func ParseRevision(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for i := 0; i < revisionScanLines && scanner.Scan(); i++ {
		_, rev, ok := strings.Cut(scanner.Text(), "<!-- Rev ")
		if !ok {
			continue
		}
		rev = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rev), "-->"))
		if rev == "" {
			continue
		}
		return rev, nil
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan jmdict header: %w", err)
	}
	return "", jadata.ErrNoRevision
}

// DecodeJMdict reads a JMdict document. The returned Version is empty; see ParseRevision.
func DecodeJMdict(r io.Reader) (*JMdict, error) {
	var jm JMdict
	if err := decodeDocument(r, &jm); err != nil {
		return nil, fmt.Errorf("decode jmdict: %w", err)
	}
	return &jm, nil
}

// LoadJMdict reads the JMdict file at path, including its revision.
func LoadJMdict(path string) (*JMdict, error) {
	f, r, err := openBuffered(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file at '%s': %w", path, err)
	}
	defer f.Close()

	version, err := ParseRevision(r)
	if err != nil {
		return nil, fmt.Errorf("parse jmdict version: %w", err)
	}

	// Reset and decode the whole document.
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	br := bufio.NewReader(f)
	if err := skipBOM(br); err != nil {
		return nil, err
	}
	jm, err := DecodeJMdict(br)
	if err != nil {
		return nil, err
	}
	jm.Version = version
	return jm, nil
}
