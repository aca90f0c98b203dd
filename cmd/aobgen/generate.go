package main

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"io"
	"strings"
	"text/template"
	"unicode"

	"github.com/coregx/aob/internal/sigfile"
	"github.com/coregx/aob/simd"
)

var fileTemplate = template.Must(template.New("file").Parse(`// Code generated by aobgen from {{.Source}}; DO NOT EDIT.

package {{.Package}}

import "github.com/coregx/aob"
{{range .Needles}}
// {{.Ident}} matches "{{.Text}}" (signature {{printf "%q" .Name}}).
var {{.Ident}} = aob.MustFromBytes(
	[]byte{ {{.Values}} },
	[]byte{ {{.Masks}} },
)
{{if .Offset}}
// {{.Ident}}Offset is added to a {{.Ident}} match start to get the reported location.
const {{.Ident}}Offset = {{.Offset}}
{{end}}{{end}}`))

type needleData struct {
	Name   string
	Ident  string
	Text   string
	Values string
	Masks  string
	Offset int
}

type fileData struct {
	Source  string
	Package string
	Needles []needleData
}

// generate reads a signature file from r and writes formatted Go source.
// Compare widths are a runtime concern, so every method is accepted here
// and generated needles pick theirs on the host that runs them.
func generate(w io.Writer, r io.Reader, pkg, source string) error {
	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("invalid package name %q", pkg)
	}
	f, err := sigfile.LoadWithCapabilities(r, simd.AllCapabilities)
	if err != nil {
		return err
	}

	data := fileData{Source: source, Package: pkg}
	idents := make(map[string]string, len(f.Signatures))
	for _, s := range f.Signatures {
		ident := exportedIdent(s.Name)
		declared := []string{ident}
		if s.Offset != 0 {
			declared = append(declared, ident+"Offset")
		}
		for _, name := range declared {
			if prev, ok := idents[name]; ok {
				return fmt.Errorf("signatures %q and %q both map to identifier %s", prev, s.Name, name)
			}
			idents[name] = s.Name
		}

		data.Needles = append(data.Needles, needleData{
			Name:   s.Name,
			Ident:  ident,
			Text:   s.Needle.String(),
			Values: byteList(s.Needle.Values()),
			Masks:  byteList(s.Needle.Masks()),
			Offset: s.Offset,
		})
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, data); err != nil {
		return err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return fmt.Errorf("format generated code: %w", err)
	}
	_, err = w.Write(src)
	return err
}

// exportedIdent turns a signature name like "player_base" or "ret-sled.v2"
// into an exported Go identifier: PlayerBase, RetSledV2.
func exportedIdent(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	ident := b.String()
	if ident == "" || !unicode.IsUpper([]rune(ident)[0]) {
		ident = "Sig" + ident
	}
	return ident
}

func byteList(bs []byte) string {
	parts := make([]string, len(bs))
	for i, b := range bs {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, ", ")
}
