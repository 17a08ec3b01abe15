package wiki

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the raw result returned by a Fetcher.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Link is an anchor harvested from a page.
type Link struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Image is an <img> element harvested from a page.
type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Heading is an <h1>..<h6> element harvested from a page.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// HomepageRecord summarizes a site landing page. Slices are never nil.
type HomepageRecord struct {
	Title           string    `json:"title"`
	MetaDescription string    `json:"meta_description"`
	Links           []Link    `json:"links"`
	Images          []Image   `json:"images"`
	Headings        []Heading `json:"headings"`
	Scripts         []string  `json:"scripts"`
}

// ArticleRecord is the structured form of a single article page.
type ArticleRecord struct {
	URL        string   `json:"url"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	Content    string   `json:"content"`
	Categories []string `json:"categories"`
	References int      `json:"references"`
	Infobox    Infobox  `json:"infobox"`
}

// StructuredDataEntry is one decoded JSON-LD block.
type StructuredDataEntry = any

// Fact is a single infobox row.
type Fact struct {
	Label string
	Value string
}

// Infobox is an ordered label/value mapping. A label keeps the position of its
// first occurrence; later duplicates overwrite the value. The zero value is an
// empty, usable mapping.
type Infobox struct {
	facts []Fact
	index map[string]int
}

// Set stores value under label.
func (b *Infobox) Set(label, value string) {
	if b.index == nil {
		b.index = make(map[string]int)
	}
	if i, ok := b.index[label]; ok {
		b.facts[i].Value = value
		return
	}
	b.index[label] = len(b.facts)
	b.facts = append(b.facts, Fact{Label: label, Value: value})
}

// Get returns the value stored under label.
func (b Infobox) Get(label string) (string, bool) {
	i, ok := b.index[label]
	if !ok {
		return "", false
	}
	return b.facts[i].Value, true
}

// Len reports the number of distinct labels.
func (b Infobox) Len() int {
	return len(b.facts)
}

// Facts returns a copy of the rows in document order.
func (b Infobox) Facts() []Fact {
	out := make([]Fact, len(b.facts))
	copy(out, b.facts)
	return out
}

// Labels returns the labels in document order.
func (b Infobox) Labels() []string {
	out := make([]string, 0, len(b.facts))
	for _, f := range b.facts {
		out = append(out, f.Label)
	}
	return out
}

// MarshalJSON encodes the infobox as an object whose keys follow document order.
func (b Infobox) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range b.facts {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.Label)
		if err != nil {
			return nil, fmt.Errorf("marshal infobox label: %w", err)
		}
		val, err := marshalNoEscape(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal infobox value: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalNoEscape encodes s without HTML escaping so that encoders configured
// with SetEscapeHTML(false) write "&" and "<" verbatim.
func marshalNoEscape(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
