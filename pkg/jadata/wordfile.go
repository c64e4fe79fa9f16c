package jadata

// Wordfile models the full contents of the wordfile.
type Wordfile struct {
	Header WordfileHeader `json:"header"`
	Words  []Word         `json:"words"`
}

// WordfileHeader contains metadata about the wordfile.
type WordfileHeader struct {
	// Version is the curator-assigned version of the wordfile.
	Version string `json:"version"`
	// JMdictVersion is the JMdict revision consumed by the last build.
	JMdictVersion string `json:"jmdict_version"`
}

// Word is a single wordfile entry.
type Word struct {
	// ID is stable within the wordfile and never reused.
	ID uint32 `json:"id"`
	// JMdictID is the ent_seq of the corresponding JMdict entry.
	JMdictID uint32 `json:"jmdict_id"`
	// WrittenForms are different spellings of the same word.
	WrittenForms []string  `json:"written_forms"`
	Meanings     []string  `json:"meanings,omitempty"`
	Readings     []Reading `json:"readings,omitempty"`
}

// Reading is a single reading of a word.
type Reading struct {
	// Reading is the reading itself in kana.
	Reading string `json:"reading"`
	// Furigana splits the reading over the kanji sections of the written form.
	Furigana []Furigana `json:"furigana,omitempty"`
	// UsuallyKana is set when the word is usually written using kana alone.
	UsuallyKana bool `json:"usually_kana,omitempty"`
}

// Furigana maps a byte range of a written form to the kana pronounced for it.
type Furigana struct {
	StartIdx int    `json:"start_idx"`
	EndIdx   int    `json:"end_idx"`
	Furigana string `json:"furigana"`
}

// MaxWordID returns the largest id in the wordfile, or 0 when it is empty.
func (wf *Wordfile) MaxWordID() uint32 {
	var max uint32
	for _, w := range wf.Words {
		if w.ID > max {
			max = w.ID
		}
	}
	return max
}

// HasWrittenForm reports whether form is one of the word's written forms.
func (w *Word) HasWrittenForm(form string) bool {
	for _, f := range w.WrittenForms {
		if f == form {
			return true
		}
	}
	return false
}

// Equal reports whether two readings carry the same data.
func (r Reading) Equal(o Reading) bool {
	if r.Reading != o.Reading || r.UsuallyKana != o.UsuallyKana || len(r.Furigana) != len(o.Furigana) {
		return false
	}
	for i := range r.Furigana {
		if r.Furigana[i] != o.Furigana[i] {
			return false
		}
	}
	return true
}
