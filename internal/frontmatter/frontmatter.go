// Package frontmatter splits YAML front matter from Markdown post sources and
// writes it back when scaffolding new posts.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a post source split into its front matter and Markdown body.
type Document struct {
	// Raw is the YAML between the delimiters, without the delimiters.
	Raw     []byte
	Body    []byte
	Had     bool
	Newline string
}

// Split separates YAML front matter (`---` delimited) from the Markdown body.
//
// A document that does not start with a delimiter has Had=false and the full input as Body.
// A leading UTF-8 byte order mark is ignored.
func Split(content []byte) (Document, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	nl := detectNewline(content)
	doc := Document{Body: content, Newline: nl}

	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return doc, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		doc.Raw, doc.Body, doc.Had = []byte{}, content[start+len(open):], true
		return doc, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		// A closing delimiter on the final line without a trailing newline is still valid.
		tail := []byte(nl + "---")
		if !bytes.HasSuffix(content, tail) {
			return Document{}, ErrMissingClosingDelimiter
		}
		doc.Raw, doc.Body, doc.Had = content[start:len(content)-len(tail)+len(nl)], []byte{}, true
		return doc, nil
	}

	doc.Raw = content[start : start+idx+len(nl)]
	doc.Body = content[start+idx+len(closeSeq):]
	doc.Had = true
	return doc, nil
}

// Decode unmarshals the document's front matter into v. Documents without
// front matter leave v untouched.
func (d Document) Decode(v any) error {
	if len(bytes.TrimSpace(d.Raw)) == 0 {
		return nil
	}
	return yaml.Unmarshal(d.Raw, v)
}

// Fields parses the front matter into a generic map.
func (d Document) Fields() (map[string]any, error) {
	fields := map[string]any{}
	if err := d.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Join reassembles a document from raw front matter and body using `---`
// delimiters and the given newline (default "\n").
func Join(raw, body []byte, newline string) []byte {
	if newline == "" {
		newline = "\n"
	}
	delim := []byte("---" + newline)

	out := make([]byte, 0, 2*len(delim)+len(raw)+len(body))
	out = append(out, delim...)
	out = append(out, raw...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
