package schemaread

import (
	"bytes"
	"encoding/xml"
	"io"
	"io/fs"
	"path"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// resolveLocation joins a schemaLocation onto the location of the
// referencing document. Locations are slash-separated fs.FS paths.
func resolveLocation(base, loc string) string {
	loc = strings.TrimPrefix(strings.TrimSpace(loc), "file://")
	if path.IsAbs(loc) || base == "" {
		return path.Clean(strings.TrimPrefix(loc, "/"))
	}
	return path.Clean(path.Join(path.Dir(base), loc))
}

// readSource returns the bytes of location, decompressing xz streams.
func (r *Reader) readSource(location string) ([]byte, error) {
	data, ok := r.Documents[location]
	if !ok {
		if r.FS == nil {
			return nil, pkgerrors.Errorf("%s: %s", location, fs.ErrNotExist)
		}
		var err error
		data, err = fs.ReadFile(r.FS, location)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "read %s", location)
		}
	}
	if !bytes.HasPrefix(data, xzMagic) {
		return data, nil
	}
	zr, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "open xz stream %s", location)
	}
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "decompress %s", location)
	}
	return out, nil
}

// elementLines returns the line of every start tag in document order.
// A document that fails to tokenize yields the lines seen so far.
func elementLines(data []byte) []int {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.CharsetReader = func(_ string, in io.Reader) (io.Reader, error) { return in, nil }
	var lines []int
	line, last := 1, 0
	for {
		off := int(dec.InputOffset())
		tok, err := dec.RawToken()
		if err != nil {
			return lines
		}
		if _, ok := tok.(xml.StartElement); ok {
			if off > len(data) {
				off = len(data)
			}
			line += bytes.Count(data[last:off], []byte{'\n'})
			last = off
			lines = append(lines, line)
		}
	}
}
