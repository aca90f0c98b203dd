// Package haystack materializes files as byte slices for searching.
//
// Plain files are memory-mapped read-only. Files compressed with gzip, zstd
// or lz4 (frame format) are recognized by their magic bytes and decompressed
// into memory whole, since a signature may straddle any block boundary.
package haystack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format identifies how a file's bytes are encoded.
type Format uint8

const (
	Plain Format = iota
	Gzip
	Zstd
	LZ4
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Plain:
		return "plain"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Format(%d)", f)
	}
}

var (
	magicGzip = []byte{0x1F, 0x8B, 0x08} // ID1 ID2 CM=deflate
	magicZstd = []byte{0x28, 0xB5, 0x2F, 0xFD}
	magicLZ4  = []byte{0x04, 0x22, 0x4D, 0x18}
)

// Detect reports the format of data from its leading magic bytes.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, magicZstd):
		return Zstd
	case bytes.HasPrefix(data, magicLZ4):
		return LZ4
	case bytes.HasPrefix(data, magicGzip) && (len(data) < 4 || data[3]&0xE0 == 0):
		// FLG bits 5-7 are reserved and must be zero.
		return Gzip
	default:
		return Plain
	}
}

var (
	// ErrTooLarge is returned when decompressed data exceeds Options.MaxSize.
	ErrTooLarge = errors.New("haystack: decompressed size exceeds limit")

	// ErrHeader is returned when data carries a format's magic bytes but its
	// header does not parse.
	ErrHeader = errors.New("haystack: invalid header")
)

// Options controls Open.
type Options struct {
	// Raw disables decompression: compressed files are searched as stored.
	Raw bool

	// MaxSize caps the decompressed size in bytes. Zero means no limit.
	MaxSize int64
}

// Haystack is an opened file. Data stays valid until Close.
type Haystack struct {
	Path   string
	Format Format
	Data   []byte

	mapped []byte
	f      *os.File
}

// Len returns the size of Data in bytes.
func (h *Haystack) Len() int {
	return len(h.Data)
}

// Close releases the mapping and the file. It is safe to call more than once.
func (h *Haystack) Close() error {
	if h == nil {
		return nil
	}
	var err error
	if h.mapped != nil {
		err = munmap(h.mapped)
		h.mapped = nil
	}
	if h.f != nil {
		if closeErr := h.f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		h.f = nil
	}
	h.Data = nil
	return err
}

// Open maps path into memory, decompressing it when its magic bytes name a
// known compression format.
func Open(path string, opts Options) (*Haystack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	h := &Haystack{Path: path, f: f}
	size := fi.Size()
	if size == 0 {
		return h, nil
	}
	if size < 0 || int64(int(size)) != size {
		f.Close()
		return nil, fmt.Errorf("haystack: %s: unsupported file size %d", path, size)
	}

	data, err := mmap(f, int(size))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("haystack: mmap %s: %w", path, err)
	}
	h.mapped = data
	h.Data = data

	if opts.Raw {
		return h, nil
	}
	h.Format = Detect(data)
	if h.Format == Plain {
		return h, nil
	}

	out, err := Decompress(h.Format, bytes.NewReader(data), opts.MaxSize)
	if errors.Is(err, ErrHeader) {
		// Only the leading bytes looked compressed: search the file as stored.
		h.Format = Plain
		return h, nil
	}
	// The mapping is no longer needed once the file is decoded.
	closeErr := h.Close()
	if err != nil {
		return nil, fmt.Errorf("haystack: %s: %w", path, err)
	}
	if closeErr != nil {
		return nil, closeErr
	}
	h.Data = out
	return h, nil
}

// Decompress reads the whole of r in the given format. maxSize > 0 bounds
// the output.
func Decompress(format Format, r io.Reader, maxSize int64) ([]byte, error) {
	var src io.Reader
	switch format {
	case Plain:
		src = r
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w: %w", ErrHeader, err)
		}
		defer zr.Close()
		src = zr
	case Zstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		src = zr
	case LZ4:
		src = lz4.NewReader(r)
	default:
		return nil, fmt.Errorf("unknown format %s", format)
	}

	// One byte past the limit tells an exact fit from an overflow. At
	// math.MaxInt64 no file can exceed the limit, so nothing is wrapped.
	if maxSize > 0 && maxSize < math.MaxInt64 {
		src = io.LimitReader(src, maxSize+1)
	}
	out, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", format, err)
	}
	if maxSize > 0 && int64(len(out)) > maxSize {
		return nil, ErrTooLarge
	}
	return out, nil
}
