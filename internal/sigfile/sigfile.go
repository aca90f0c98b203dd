// Package sigfile loads named signature sets from YAML.
//
// A signature file looks like:
//
//	signatures:
//	  - name: player_base
//	    pattern: "48 8B 05 ? ? ? ? 48 85 C0"
//	    offset: 3
//	  - name: ret_sled
//	    pattern: "C3 CC CC CC"
//	    method: swar32
//
// Every pattern is compiled while the file is loaded, so a file that loads
// is a file that can be searched.
package sigfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coregx/aob"
	"github.com/coregx/aob/simd"
)

// ErrNoSignatures is returned for a file without any signature.
var ErrNoSignatures = errors.New("sigfile: no signatures")

// Signature is one named pattern.
type Signature struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`

	// Offset is added to a match start when reporting a location, e.g. to
	// point at the disp32 inside a mov instruction.
	Offset int `yaml:"offset,omitempty"`

	// Method optionally forces a compare width ("swar64", "16", ...).
	Method string `yaml:"method,omitempty"`

	Needle *aob.Needle `yaml:"-"`
}

// Location returns the reported offset of a match: its start plus Offset.
func (s *Signature) Location(m aob.Match) int {
	return m.Start() + s.Offset
}

// File is a decoded and compiled signature set, in file order.
type File struct {
	Signatures []*Signature `yaml:"signatures"`
}

// Lookup returns the signature with the given name.
func (f *File) Lookup(name string) (*Signature, bool) {
	for _, s := range f.Signatures {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// SignatureError ties a load failure to the signature that caused it.
type SignatureError struct {
	Index int // position in the file, from 0
	Name  string
	Err   error
}

// Error implements the error interface
func (e *SignatureError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("sigfile: signature #%d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("sigfile: signature %q: %v", e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *SignatureError) Unwrap() error {
	return e.Err
}

// Load decodes and compiles a signature file, selecting compare widths from
// the host capabilities.
func Load(r io.Reader) (*File, error) {
	return LoadWithCapabilities(r, 0)
}

// LoadFile is Load on the named file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadWithCapabilities is Load with an explicit capability set; zero means
// the host report. Code generators pass simd.AllCapabilities so that the
// result does not depend on the machine running them.
func LoadWithCapabilities(r io.Reader, caps simd.Capabilities) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoSignatures
		}
		return nil, fmt.Errorf("sigfile: decode: %w", err)
	}
	if len(f.Signatures) == 0 {
		return nil, ErrNoSignatures
	}

	seen := make(map[string]int, len(f.Signatures))
	for i, s := range f.Signatures {
		if s == nil {
			return nil, &SignatureError{Index: i, Err: errors.New("empty entry")}
		}
		s.Name = strings.TrimSpace(s.Name)
		if s.Name == "" {
			return nil, &SignatureError{Index: i, Err: errors.New("missing name")}
		}
		if prev, ok := seen[s.Name]; ok {
			return nil, &SignatureError{Index: i, Name: s.Name, Err: fmt.Errorf("duplicate of signature #%d", prev)}
		}
		seen[s.Name] = i

		if err := s.compile(caps); err != nil {
			return nil, &SignatureError{Index: i, Name: s.Name, Err: err}
		}
	}
	return &f, nil
}

func (s *Signature) compile(caps simd.Capabilities) error {
	config := aob.DefaultConfig()
	config.Capabilities = caps
	if s.Method != "" {
		m, ok := simd.ParseMethod(s.Method)
		if !ok {
			return fmt.Errorf("unknown method %q", s.Method)
		}
		config.ForceMethod = true
		config.Method = m
	}

	n, err := aob.CompileWithConfig(s.Pattern, config)
	if err != nil {
		return err
	}
	s.Needle = n
	return nil
}
