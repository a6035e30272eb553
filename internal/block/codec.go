package block

import (
	"bytes"
	"compress/flate"
	"io"
)

// Codec is a pluggable block payload transform, applied to a block's
// bytes before they hit disk and reversed on read. The store's
// manifest records which codec was selected at init time so Open can
// refuse to misread blocks written under a different codec.
type Codec interface {
	Name() string
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// PassthroughCodec stores bytes unchanged. It is the default: the
// original source's LZ4 codec has no equivalent in the reference
// corpus, so compression is opt-in rather than assumed.
type PassthroughCodec struct{}

func (PassthroughCodec) Name() string                        { return "none" }
func (PassthroughCodec) Encode(data []byte) ([]byte, error)   { return data, nil }
func (PassthroughCodec) Decode(data []byte) ([]byte, error)   { return data, nil }

// FlateCodec compresses block payloads with DEFLATE. No third-party
// compressor is wired anywhere in the retrieved examples (the
// original source's lz4_flex has no Go equivalent in the corpus), so
// this falls back to the standard library rather than inventing a
// dependency; see DESIGN.md.
type FlateCodec struct{}

func (FlateCodec) Name() string { return "flate" }

func (FlateCodec) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestSpeed)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (FlateCodec) Decode(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	return io.ReadAll(r)
}

// CodecByName resolves a codec by its manifest name.
func CodecByName(name string) (Codec, bool) {
	switch name {
	case "", "none":
		return PassthroughCodec{}, true
	case "flate":
		return FlateCodec{}, true
	default:
		return nil, false
	}
}
