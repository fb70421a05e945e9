package icons

import (
	"encoding/xml"
	"io"
	"iter"
	"os"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/matzehuels/pngicons/pkg/errors"
)

// SVGNamespace is the namespace title elements must belong to.
const SVGNamespace = "http://www.w3.org/2000/svg"

// Descriptor is one exportable icon.
type Descriptor struct {
	Name      string  // title text, used as the file name
	ElementID string  // id of the element owning the title
	Width     float64 // natural width, set once measured
	Height    float64 // natural height, set once measured
}

// Filename returns the PNG file name for the icon.
func (d Descriptor) Filename() string {
	return d.Name + ".png"
}

// element is an open element while scanning.
type element struct {
	id      string
	title   bool
	text    strings.Builder
	textEnd bool // a child or comment ended the leading text
}

// Discover yields the icons of the SVG read from r in document order.
//
// The label is the title's leading text (up to its first child), trimmed.
// Titles with an empty label, without a parent element, or whose parent has no
// id are skipped. A malformed document ends the sequence with an INVALID_SVG
// error.
func Discover(r io.Reader) iter.Seq2[Descriptor, error] {
	return func(yield func(Descriptor, error) bool) {
		dec := xml.NewDecoder(r)
		dec.CharsetReader = charset.NewReaderLabel

		var (
			stack []*element
			seen  bool
		)
		for {
			tok, err := dec.Token()
			if err == io.EOF {
				if !seen || len(stack) > 0 {
					yield(Descriptor{}, errors.New(errors.ErrCodeInvalidSVG, "parse svg: no complete root element"))
				}
				return
			}
			if err != nil {
				yield(Descriptor{}, errors.New(errors.ErrCodeInvalidSVG, "parse svg: %v", err))
				return
			}

			switch t := tok.(type) {
			case xml.StartElement:
				seen = true
				if n := len(stack); n > 0 {
					stack[n-1].textEnd = true
				}
				el := &element{title: t.Name.Space == SVGNamespace && t.Name.Local == "title"}
				for _, a := range t.Attr {
					if a.Name.Space == "" && a.Name.Local == "id" {
						el.id = a.Value
					}
				}
				stack = append(stack, el)

			case xml.EndElement:
				el := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if !el.title || len(stack) == 0 {
					continue
				}
				d := Descriptor{
					Name:      strings.TrimSpace(el.text.String()),
					ElementID: stack[len(stack)-1].id,
				}
				if d.Name == "" || d.ElementID == "" {
					continue
				}
				if !yield(d, nil) {
					return
				}

			case xml.CharData:
				if n := len(stack); n > 0 && stack[n-1].title && !stack[n-1].textEnd {
					stack[n-1].text.Write(t)
				}

			case xml.Comment, xml.ProcInst:
				if n := len(stack); n > 0 {
					stack[n-1].textEnd = true
				}
			}
		}
	}
}

// DiscoverFile is [Discover] over the file at path. Each iteration opens and
// parses the file from scratch.
func DiscoverFile(path string) iter.Seq2[Descriptor, error] {
	return func(yield func(Descriptor, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(Descriptor{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "icons.svg not found: %s", path))
			return
		}
		defer f.Close()

		for d, err := range Discover(f) {
			if !yield(d, err) {
				return
			}
		}
	}
}
