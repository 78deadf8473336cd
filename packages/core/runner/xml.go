package runner

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abdul-hamid-achik/extapi/packages/call"
	"golang.org/x/text/encoding/htmlindex"
)

// XMLNode is one element of a parsed XML document.
type XMLNode struct {
	Name     string
	Attrs    []XMLAttr
	Text     string
	Children []*XMLNode
}

type XMLAttr struct {
	Name  string
	Value string
}

// Attr returns the value of the named attribute.
func (n *XMLNode) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first child element with the given name.
func (n *XMLNode) Child(name string) *XMLNode {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// String renders the document with two-space indentation.
func (n *XMLNode) String() string {
	var buf bytes.Buffer
	n.write(&buf, 0)
	return strings.TrimRight(buf.String(), "\n")
}

func (n *XMLNode) write(buf *bytes.Buffer, depth int) {
	indent := strings.Repeat("  ", depth)
	buf.WriteString(indent)
	buf.WriteByte('<')
	buf.WriteString(n.Name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}

	if n.Text == "" && len(n.Children) == 0 {
		buf.WriteString(" />\n")
		return
	}
	buf.WriteByte('>')

	if len(n.Children) == 0 {
		_ = xml.EscapeText(buf, []byte(n.Text))
	} else {
		buf.WriteByte('\n')
		if n.Text != "" {
			buf.WriteString(indent + "  ")
			_ = xml.EscapeText(buf, []byte(n.Text))
			buf.WriteByte('\n')
		}
		for _, c := range n.Children {
			c.write(buf, depth+1)
		}
		buf.WriteString(indent)
	}

	buf.WriteString("</")
	buf.WriteString(n.Name)
	buf.WriteString(">\n")
}

// ParseXML parses a document into its root element. Namespace prefixes are
// kept as written. Errors wrap call.ErrParse.
func ParseXML(data []byte) (*XMLNode, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	d := xml.NewDecoder(bytes.NewReader(data))
	d.CharsetReader = charsetReader

	var root *XMLNode
	var stack []*XMLNode

	for {
		tok, err := d.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", call.ErrParse, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			node := &XMLNode{Name: qualifiedName(t.Name)}
			for _, a := range t.Attr {
				node.Attrs = append(node.Attrs, XMLAttr{Name: qualifiedName(a.Name), Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: more than one root element", call.ErrParse)
				}
				root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			stack = append(stack, node)

		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: unexpected end element </%s>", call.ErrParse, qualifiedName(t.Name))
			}
			top := stack[len(stack)-1]
			if top.Name != qualifiedName(t.Name) {
				return nil, fmt.Errorf("%w: element <%s> closed by </%s>", call.ErrParse, top.Name, qualifiedName(t.Name))
			}
			stack = stack[:len(stack)-1]

		case xml.CharData:
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			if len(stack) == 0 {
				return nil, fmt.Errorf("%w: text outside the root element", call.ErrParse)
			}
			top := stack[len(stack)-1]
			if top.Text != "" {
				top.Text += " "
			}
			top.Text += text
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", call.ErrParse)
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("%w: element <%s> is not closed", call.ErrParse, stack[len(stack)-1].Name)
	}
	return root, nil
}

func qualifiedName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// charsetReader decodes documents that declare a non UTF-8 encoding, using
// the WHATWG encoding labels.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
