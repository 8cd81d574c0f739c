package corpus

import (
	"encoding/binary"
	"math/big"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"

	"github.com/jacoelho/xsdcorpus/internal/num"
	"github.com/jacoelho/xsdcorpus/pkg/variant"
)

// contentNamespace scopes ContentID values.
var contentNamespace = uuid.MustParse("6f1c2a8e-3b0d-5e47-9a61-2d8c4b7e0f13")

// Fingerprint returns a BLAKE3 digest of the type system in serial order.
// Two builds from the same sources yield the same fingerprint.
func (c *Corpus) Fingerprint() [32]byte {
	return c.fingerprint
}

// ContentID derives a name-based UUID from the fingerprint.
func (c *Corpus) ContentID() uuid.UUID {
	return uuid.NewSHA1(contentNamespace, c.fingerprint[:])
}

func (c *Corpus) computeFingerprint() [32]byte {
	var buf []byte
	h := &buf
	for _, uri := range c.names.uris {
		writeString(h, uri)
	}
	for serial, id := range c.bySerial {
		t := &c.types[id]
		writeInt(h, int64(serial))
		writeString(h, t.Name.URI)
		writeString(h, t.Name.Local)
		writeInt(h, int64(c.SerialOf(t.Base)))
		writeInt(h, int64(t.Variety))
		writeInt(h, int64(t.Derivation))
		writeInt(h, int64(c.ancestry[serial]))
		writeInt(h, int64(t.Whitespace))
		writeInt(h, int64(t.RestrictedChars))
		writeInt(h, int64(c.SerialOf(t.Item)))
		writeInt(h, int64(len(t.Members)))
		for _, m := range t.Members {
			writeInt(h, int64(c.SerialOf(m)))
		}
		writeInt(h, int64(len(t.Enumerations)))
		for _, e := range t.Enumerations {
			writeString(h, e.Canonical())
		}
		writeString(h, string(t.Alphabet))
		writeFacets(h, &t.Facets)
		writeInt(h, int64(t.Content))
	}
	for i := 1; i < len(c.elems); i++ {
		e := &c.elems[i]
		writeString(h, e.Name.String())
		writeInt(h, int64(c.SerialOf(e.Type)))
		members := c.substitution[ElemID(i)]
		writeInt(h, int64(len(members)))
		for _, m := range members {
			writeString(h, c.elems[m].Name.String())
		}
	}
	return blake3.Sum256(buf)
}

func writeFacets(buf *[]byte, f *Facets) {
	for _, b := range []variant.Variant{f.MinInclusive, f.MinExclusive, f.MaxInclusive, f.MaxExclusive} {
		if !b.IsValid() {
			writeInt(buf, -1)
			continue
		}
		writeString(buf, b.Canonical())
	}
	writeInt(buf, int64(len(f.Patterns)))
	for _, p := range f.Patterns {
		writeString(buf, p)
	}
	for _, n := range []int{f.Length, f.MinLength, f.MaxLength, f.TotalDigits, f.FractionDigits} {
		writeInt(buf, int64(n))
	}
}

func writeString(buf *[]byte, s string) {
	writeInt(buf, int64(len(s)))
	*buf = append(*buf, s...)
}

func writeInt(buf *[]byte, v int64) {
	*buf = binary.LittleEndian.AppendUint64(*buf, uint64(v))
}

func addOne(i num.Int, delta int64) num.Int {
	return num.IntFromBig(new(big.Int).Add(i.Big(), big.NewInt(delta)))
}
