package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

const (
	svgNS   = "http://www.w3.org/2000/svg"
	xlinkNS = "http://www.w3.org/1999/xlink"
	xmlNS   = "http://www.w3.org/XML/1998/namespace"
)

// viewBox is the user coordinate system of a document.
type viewBox struct {
	X, Y, W, H float64
}

// fragment is a standalone SVG document holding a single element of its
// source: every defs block, the element's ancestors (so their transforms and
// inherited styles apply) and the element itself. box is the fragment's
// viewBox, which always has its origin at 0,0.
type fragment struct {
	box viewBox
	doc []byte
}

// capture is a subtree being copied into buf. A whole-document capture
// starts at the root, whose own tags are replaced by the fragment's.
type capture struct {
	buf   *bytes.Buffer
	depth int
	whole bool
}

// extractElement builds the fragment for element id.
// Elements and attributes outside the SVG, XLink and XML namespaces
// (editor metadata, sodipodi/inkscape attributes) are dropped.
//
// When id names the root the fragment is the whole document minus its
// top-level titles. A target inside defs stays in defs for references and
// is also copied out so it renders.
func extractElement(r io.Reader, id string) (*fragment, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var (
		root      *xml.StartElement
		open      []xml.StartElement
		ancestors []xml.StartElement
		defs      bytes.Buffer
		target    bytes.Buffer
		found     bool
		whole     bool

		captures  []capture // nested, innermost last
		skipDepth int       // depth of the element being skipped, 0 if none
		depth     int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse svg: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if skipDepth > 0 {
				continue
			}
			if !isSVGName(t.Name) || (whole && depth == 2 && t.Name.Local == "title") {
				skipDepth = depth
				continue
			}
			el := t.Copy()
			matched := !found && attrValue(el, "id") == id
			switch {
			case root == nil:
				root = &el
				if matched {
					found, whole = true, true
					captures = append(captures, capture{buf: &target, depth: depth, whole: true})
				}
			default:
				if matched {
					found = true
					ancestors = renderedAncestors(open[1:])
					captures = append(captures, capture{buf: &target, depth: depth})
				} else if len(captures) == 0 && el.Name.Local == "defs" {
					captures = append(captures, capture{buf: &defs, depth: depth})
				}
				for _, c := range captures {
					writeStart(c.buf, el)
				}
			}
			open = append(open, el)

		case xml.EndElement:
			if skipDepth > 0 {
				if depth == skipDepth {
					skipDepth = 0
				}
				depth--
				continue
			}
			open = open[:len(open)-1]
			for _, c := range captures {
				if !(c.whole && c.depth == depth) {
					writeEnd(c.buf, t.Name)
				}
			}
			if n := len(captures); n > 0 && captures[n-1].depth == depth {
				captures = captures[:n-1]
			}
			depth--

		case xml.CharData:
			if skipDepth == 0 {
				for _, c := range captures {
					_ = xml.EscapeText(c.buf, t)
				}
			}
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parse svg: no root element")
	}
	if !found {
		return nil, fmt.Errorf("no element with id %q", id)
	}
	box, err := rootViewBox(*root)
	if err != nil {
		return nil, err
	}

	// The fragment always starts its viewBox at the origin; an offset source
	// viewBox becomes a translation of the content.
	var doc bytes.Buffer
	fmt.Fprintf(&doc, `<svg xmlns="%s" xmlns:xlink="%s" viewBox="0 0 %s %s">`,
		svgNS, xlinkNS, formatFloat(box.W), formatFloat(box.H))
	shifted := box.X != 0 || box.Y != 0
	if shifted {
		fmt.Fprintf(&doc, `<g transform="translate(%s,%s)">`, formatFloat(-box.X), formatFloat(-box.Y))
	}
	doc.Write(defs.Bytes())
	for _, a := range ancestors {
		writeStart(&doc, a)
	}
	doc.Write(target.Bytes())
	for i := len(ancestors) - 1; i >= 0; i-- {
		writeEnd(&doc, ancestors[i].Name)
	}
	if shifted {
		doc.WriteString("</g>")
	}
	doc.WriteString("</svg>")

	return &fragment{box: viewBox{W: box.W, H: box.H}, doc: doc.Bytes()}, nil
}

// renderedAncestors drops defs from an ancestor chain so a target defined
// there is drawn.
func renderedAncestors(open []xml.StartElement) []xml.StartElement {
	var out []xml.StartElement
	for _, el := range open {
		if el.Name.Local != "defs" {
			out = append(out, el)
		}
	}
	return out
}

func isSVGName(n xml.Name) bool {
	return n.Space == svgNS || n.Space == ""
}

func attrValue(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// attrName maps a decoded attribute name back to its serialized form.
func attrName(n xml.Name) (string, bool) {
	switch n.Space {
	case "":
		if n.Local == "xmlns" {
			return "", false
		}
		return n.Local, true
	case xlinkNS:
		return "xlink:" + n.Local, true
	case xmlNS:
		return "xml:" + n.Local, true
	}
	return "", false
}

func writeStart(buf *bytes.Buffer, el xml.StartElement) {
	buf.WriteString("<" + el.Name.Local)
	for _, a := range el.Attr {
		name, ok := attrName(a.Name)
		if !ok {
			continue
		}
		buf.WriteString(" " + name + `="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
}

func writeEnd(buf *bytes.Buffer, name xml.Name) {
	buf.WriteString("</" + name.Local + ">")
}

// rootViewBox reads the root viewBox, falling back to "0 0 width height".
func rootViewBox(root xml.StartElement) (viewBox, error) {
	if v := attrValue(root, "viewBox"); v != "" {
		fields := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' })
		if len(fields) != 4 {
			return viewBox{}, fmt.Errorf("invalid viewBox %q", v)
		}
		var nums [4]float64
		for i, f := range fields {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return viewBox{}, fmt.Errorf("invalid viewBox %q", v)
			}
			nums[i] = n
		}
		if nums[2] <= 0 || nums[3] <= 0 {
			return viewBox{}, fmt.Errorf("invalid viewBox %q", v)
		}
		return viewBox{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}, nil
	}

	w, wok := parseLength(attrValue(root, "width"))
	h, hok := parseLength(attrValue(root, "height"))
	if !wok || !hok {
		return viewBox{}, fmt.Errorf("document has neither a viewBox nor a numeric width and height")
	}
	return viewBox{W: w, H: h}, nil
}

// parseLength parses the numeric prefix of an SVG length ("48", "48px", "12.5mm").
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && strings.IndexByte("0123456789.+-eE", s[end]) >= 0 {
		end++
	}
	// keep "em"/"ex" units out of the number
	for end > 0 && (s[end-1] == 'e' || s[end-1] == 'E') {
		end--
	}
	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
