package domain

// TextTarget is a writable text element on a page.
type TextTarget interface {
	ID() string
	Text() string
	SetText(text string)
}

type Document interface {
	ElementByID(id string) (TextTarget, bool)
}
