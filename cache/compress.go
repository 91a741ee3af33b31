package cache

import "github.com/klauspost/compress/zstd"

// minCompressSize is the smallest field worth compressing. Short fields
// gain nothing once frame overhead is paid.
const minCompressSize = 100

// field holds one cached text field, either plain or zstd-compressed.
// Compressed fields carry the original size so decompression can size its
// buffer up front.
type field struct {
	data         []byte
	compressed   bool
	originalSize int
}

// compressor wraps shared zstd codecs. EncodeAll and DecodeAll are safe for
// concurrent use on a single encoder/decoder pair.
type compressor struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newCompressor() (*compressor, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &compressor{enc: enc, dec: dec}, nil
}

// pack returns a field for text, compressed only when text reaches
// minCompressSize and compression strictly shrinks it.
func (c *compressor) pack(text string) field {
	if len(text) < minCompressSize {
		return field{data: []byte(text)}
	}
	compressed := c.enc.EncodeAll([]byte(text), nil)
	if len(compressed) >= len(text) {
		return field{data: []byte(text)}
	}
	return field{data: compressed, compressed: true, originalSize: len(text)}
}

// unpack restores the field's text. A corrupt compressed field returns
// false; callers drop the field rather than fail the record.
func (c *compressor) unpack(f field) (string, bool) {
	if !f.compressed {
		return string(f.data), true
	}
	out, err := c.dec.DecodeAll(f.data, make([]byte, 0, f.originalSize))
	if err != nil {
		return "", false
	}
	return string(out), true
}
