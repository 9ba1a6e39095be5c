// SPDX-License-Identifier: MPL-2.0

package resx

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

const (
	rootElement  = "root"
	dataElement  = "data"
	valueElement = "value"
)

var (
	// ErrNoRootElement is returned for documents without any element.
	ErrNoRootElement = errors.New("document has no root element")
	// ErrTrailingContent is returned when content follows the root element.
	ErrTrailingContent = errors.New("unexpected content after root element")
)

type (
	// Source is a resource file whose content is retrieved on demand.
	Source interface {
		Path() string
		Text(ctx context.Context) (string, error)
	}

	// ParseError reports the file that could not be read or parsed.
	ParseError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ParseError) Unwrap() error { return e.Err }

// Parse reads every source and merges their entries. Sources are processed in
// ordinal path order regardless of the order they are given in, so the
// result does not depend on discovery order.
//
// A source that cannot be read or parsed aborts the whole family: Parse
// returns a *ParseError naming it and no entries. Context cancellation is
// returned as the context's error.
func Parse(ctx context.Context, sources []Source) (*Entries, error) {
	ordered := slices.Clone(sources)
	slices.SortStableFunc(ordered, func(a, b Source) int { return strings.Compare(a.Path(), b.Path()) })

	entries := NewEntries()
	for _, src := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := src.Text(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return nil, ctxErr
			}
			return nil, &ParseError{Path: src.Path(), Err: err}
		}

		doc, err := ParseDocument(strings.NewReader(text))
		if err != nil {
			return nil, &ParseError{Path: src.Path(), Err: err}
		}
		for _, e := range doc {
			entries.Merge(e)
		}
	}
	return entries, nil
}

// ParseDocument parses a single resource document and returns its entries in
// document order. The input must be exactly one well-formed XML document.
// A well-formed document whose root element is not "root" has no entries.
//
// The input is expected to be decoded text already; an encoding named in the
// XML declaration is not applied.
func ParseDocument(r io.Reader) ([]Entry, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) { return input, nil }

	var (
		entries  []Entry
		seenRoot bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if seenRoot {
				return nil, ErrTrailingContent
			}
			seenRoot = true
			if t.Name.Local != rootElement || t.Name.Space != "" {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			entries, err = readRoot(dec)
			if err != nil {
				return nil, err
			}
		case xml.CharData:
			if len(strings.TrimSpace(string(t))) != 0 {
				return nil, ErrTrailingContent
			}
		}
	}

	if !seenRoot {
		return nil, ErrNoRootElement
	}
	return entries, nil
}

// readRoot consumes the root element's children up to its end tag.
func readRoot(dec *xml.Decoder) ([]Entry, error) {
	var entries []Entry
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != dataElement || t.Name.Space != "" {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			e, err := readData(dec, t)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		case xml.EndElement:
			return entries, nil
		}
	}
}

func readData(dec *xml.Decoder, start xml.StartElement) (Entry, error) {
	var e Entry
	for _, attr := range start.Attr {
		if attr.Name.Space != "" {
			continue
		}
		v := attr.Value
		switch attr.Name.Local {
		case "name":
			e.Name = v
		case "type":
			e.Type = &v
		case "comment":
			e.Comment = &v
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			return Entry{}, unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if e.Value != nil || t.Name.Local != valueElement || t.Name.Space != "" {
				if err := dec.Skip(); err != nil {
					return Entry{}, err
				}
				continue
			}
			v, err := innerText(dec)
			if err != nil {
				return Entry{}, err
			}
			e.Value = &v
		case xml.EndElement:
			return e, nil
		}
	}
}

// innerText concatenates all character data up to the end of the current
// element, descending into nested elements.
func innerText(dec *xml.Decoder) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return "", unexpectedEOF(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			sb.Write(t)
		}
	}
	return sb.String(), nil
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
