package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// jsonHit is the -json line format.
type jsonHit struct {
	File      string `json:"file"`
	Signature string `json:"signature"`
	Offset    int    `json:"offset"`
	Location  int    `json:"location"`
	Bytes     string `json:"bytes"`
}

type printer struct {
	w    *bufio.Writer
	json bool
	enc  *json.Encoder
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	bw := bufio.NewWriter(w)
	return &printer{w: bw, json: asJSON, enc: json.NewEncoder(bw)}
}

func (p *printer) print(path string, h hit) error {
	if p.json {
		return p.enc.Encode(jsonHit{
			File:      path,
			Signature: h.sig.Name,
			Offset:    h.start,
			Location:  h.location,
			Bytes:     fmt.Sprintf("% X", h.bytes),
		})
	}
	_, err := fmt.Fprintf(p.w, "%s:%#x %s % X\n", path, h.location, h.sig.Name, h.bytes)
	return err
}

func (p *printer) flush() error {
	return p.w.Flush()
}
