package encoding

import (
	"fmt"

	"github.com/japaniel/jadata/pkg/jadata"
	"google.golang.org/protobuf/encoding/protowire"
)

// The binary format is protobuf wire encoding without a generated schema. Empty fields are
// omitted and unknown fields are skipped on decode. Field numbers:
//
//	Kanjifile    header=1 kanji=2
//	Wordfile     header=1 words=2
//	Header       version=1 upstream_version=2
//	Kanji        id=1 kanji=2 components=3 name=4 readings=5 meanings=6 similar=7
//	KanjiReading kind=1 reading=2 okurigana=3 position=4
//	Word         id=1 jmdict_id=2 written_forms=3 meanings=4 readings=5
//	Reading      reading=1 furigana=2 usually_kana=3
//	Furigana     start_idx=1 end_idx=2 furigana=3

// MarshalKanjifile encodes kf in the binary format.
func MarshalKanjifile(kf *jadata.Kanjifile) []byte {
	var b []byte
	b = appendMessage(b, 1, appendHeader(nil, kf.Header.Version, kf.Header.KanjidicVersion))
	for i := range kf.Kanji {
		b = appendMessage(b, 2, appendKanji(nil, &kf.Kanji[i]))
	}
	return b
}

// MarshalWordfile encodes wf in the binary format.
func MarshalWordfile(wf *jadata.Wordfile) []byte {
	var b []byte
	b = appendMessage(b, 1, appendHeader(nil, wf.Header.Version, wf.Header.JMdictVersion))
	for i := range wf.Words {
		b = appendMessage(b, 2, appendWord(nil, &wf.Words[i]))
	}
	return b
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendStrings(b []byte, num protowire.Number, values []string) []byte {
	for _, s := range values {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendHeader(b []byte, version, upstream string) []byte {
	b = appendString(b, 1, version)
	return appendString(b, 2, upstream)
}

func appendKanji(b []byte, k *jadata.Kanji) []byte {
	b = appendVarint(b, 1, uint64(k.ID))
	b = appendString(b, 2, k.Kanji)
	b = appendStrings(b, 3, k.Components)
	if k.Name != nil {
		// Presence matters for the name, so an empty name is still written.
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendString(b, *k.Name)
	}
	for _, r := range k.Readings {
		var rb []byte
		rb = appendString(rb, 1, string(r.Kind))
		rb = appendString(rb, 2, r.Reading)
		rb = appendString(rb, 3, r.Okurigana)
		rb = appendString(rb, 4, string(r.Position))
		b = appendMessage(b, 5, rb)
	}
	b = appendStrings(b, 6, k.Meanings)
	return appendStrings(b, 7, k.Similar)
}

func appendWord(b []byte, w *jadata.Word) []byte {
	b = appendVarint(b, 1, uint64(w.ID))
	b = appendVarint(b, 2, uint64(w.JMdictID))
	b = appendStrings(b, 3, w.WrittenForms)
	b = appendStrings(b, 4, w.Meanings)
	for _, r := range w.Readings {
		var rb []byte
		rb = appendString(rb, 1, r.Reading)
		for _, f := range r.Furigana {
			var fb []byte
			fb = appendVarint(fb, 1, uint64(f.StartIdx))
			fb = appendVarint(fb, 2, uint64(f.EndIdx))
			fb = appendString(fb, 3, f.Furigana)
			rb = appendMessage(rb, 2, fb)
		}
		if r.UsuallyKana {
			rb = appendVarint(rb, 3, protowire.EncodeBool(true))
		}
		b = appendMessage(b, 5, rb)
	}
	return b
}

// field is a decoded field: varint values in v, length-delimited values in bytes.
type field struct {
	num   protowire.Number
	v     uint64
	bytes []byte
}

// walk calls fn for every varint and length-delimited field of msg. Other wire types are skipped.
func walk(msg []byte, fn func(f field) error) error {
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return protowire.ParseError(n)
		}
		msg = msg[n:]

		f := field{num: num}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(msg)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.v = v
			msg = msg[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(msg)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.bytes = v
			msg = msg[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return protowire.ParseError(n)
			}
			msg = msg[n:]
			continue
		}
		if err := fn(f); err != nil {
			return fmt.Errorf("field %d: %w", num, err)
		}
	}
	return nil
}

// UnmarshalKanjifile decodes a kanjifile written by MarshalKanjifile.
func UnmarshalKanjifile(b []byte) (*jadata.Kanjifile, error) {
	kf := &jadata.Kanjifile{}
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			return walk(f.bytes, func(f field) error {
				switch f.num {
				case 1:
					kf.Header.Version = string(f.bytes)
				case 2:
					kf.Header.KanjidicVersion = string(f.bytes)
				}
				return nil
			})
		case 2:
			k, err := unmarshalKanji(f.bytes)
			if err != nil {
				return err
			}
			kf.Kanji = append(kf.Kanji, k)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode kanjifile: %w", err)
	}
	return kf, nil
}

func unmarshalKanji(b []byte) (jadata.Kanji, error) {
	var k jadata.Kanji
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			if f.v > 0xFFFF {
				return jadata.NewIntegrityError(jadata.ErrInvalidID, fmt.Sprint(f.v))
			}
			k.ID = uint16(f.v)
		case 2:
			k.Kanji = string(f.bytes)
		case 3:
			k.Components = append(k.Components, string(f.bytes))
		case 4:
			name := string(f.bytes)
			k.Name = &name
		case 5:
			var r jadata.KanjiReading
			err := walk(f.bytes, func(f field) error {
				switch f.num {
				case 1:
					r.Kind = jadata.ReadingKind(f.bytes)
				case 2:
					r.Reading = string(f.bytes)
				case 3:
					r.Okurigana = string(f.bytes)
				case 4:
					r.Position = jadata.Position(f.bytes)
				}
				return nil
			})
			if err != nil {
				return err
			}
			k.Readings = append(k.Readings, r)
		case 6:
			k.Meanings = append(k.Meanings, string(f.bytes))
		case 7:
			k.Similar = append(k.Similar, string(f.bytes))
		}
		return nil
	})
	return k, err
}

// UnmarshalWordfile decodes a wordfile written by MarshalWordfile.
func UnmarshalWordfile(b []byte) (*jadata.Wordfile, error) {
	wf := &jadata.Wordfile{}
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			return walk(f.bytes, func(f field) error {
				switch f.num {
				case 1:
					wf.Header.Version = string(f.bytes)
				case 2:
					wf.Header.JMdictVersion = string(f.bytes)
				}
				return nil
			})
		case 2:
			w, err := unmarshalWord(f.bytes)
			if err != nil {
				return err
			}
			wf.Words = append(wf.Words, w)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode wordfile: %w", err)
	}
	return wf, nil
}

func unmarshalWord(b []byte) (jadata.Word, error) {
	var w jadata.Word
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			if f.v > 0xFFFFFFFF {
				return jadata.NewIntegrityError(jadata.ErrInvalidID, fmt.Sprint(f.v))
			}
			w.ID = uint32(f.v)
		case 2:
			if f.v > 0xFFFFFFFF {
				return jadata.NewIntegrityError(jadata.ErrInvalidID, fmt.Sprint(f.v))
			}
			w.JMdictID = uint32(f.v)
		case 3:
			w.WrittenForms = append(w.WrittenForms, string(f.bytes))
		case 4:
			w.Meanings = append(w.Meanings, string(f.bytes))
		case 5:
			r, err := unmarshalReading(f.bytes)
			if err != nil {
				return err
			}
			w.Readings = append(w.Readings, r)
		}
		return nil
	})
	return w, err
}

func unmarshalReading(b []byte) (jadata.Reading, error) {
	var r jadata.Reading
	err := walk(b, func(f field) error {
		switch f.num {
		case 1:
			r.Reading = string(f.bytes)
		case 2:
			var fu jadata.Furigana
			err := walk(f.bytes, func(f field) error {
				switch f.num {
				case 1:
					fu.StartIdx = int(f.v)
				case 2:
					fu.EndIdx = int(f.v)
				case 3:
					fu.Furigana = string(f.bytes)
				}
				return nil
			})
			if err != nil {
				return err
			}
			r.Furigana = append(r.Furigana, fu)
		case 3:
			r.UsuallyKana = protowire.DecodeBool(f.v)
		}
		return nil
	})
	return r, err
}
