package dom

import (
	"sync"

	"gasolinera-golang/internal/domain"
)

// Element is a text node addressable by ID.
type Element struct {
	id string

	mu   sync.RWMutex
	text string
}

func NewElement(id, text string) *Element {
	return &Element{id: id, text: text}
}

func (e *Element) ID() string { return e.id }

func (e *Element) Text() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.text
}

func (e *Element) SetText(text string) {
	e.mu.Lock()
	e.text = text
	e.mu.Unlock()
}

// Document is a fixed set of elements. It is read-only after NewDocument.
type Document struct {
	elements map[string]*Element
}

func NewDocument(elements ...*Element) *Document {
	d := &Document{elements: make(map[string]*Element, len(elements))}
	for _, e := range elements {
		d.elements[e.id] = e
	}
	return d
}

func (d *Document) ElementByID(id string) (domain.TextTarget, bool) {
	e, ok := d.elements[id]
	if !ok {
		return nil, false
	}
	return e, true
}
