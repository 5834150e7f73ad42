package patent

import "strings"

// DescriptionSeparator joins title and abstract into the embedded description.
const DescriptionSeparator = ". "

// ImageRefFunc derives an image reference from a publication number.
type ImageRefFunc func(id string) string

// Record is one immutable row of the patent corpus.
type Record struct {
	id          string
	title       string
	abstract    string
	imageRef    string
	description string
}

// New creates a record. The description is always title + ". " + abstract;
// the image reference is empty when id is empty or imageRef is nil.
func New(id, title, abstract string, imageRef ImageRefFunc) Record {
	r := Record{
		id:          id,
		title:       title,
		abstract:    abstract,
		description: title + DescriptionSeparator + abstract,
	}
	if id != "" && imageRef != nil {
		r.imageRef = imageRef(id)
	}
	return r
}

// ID returns the publication number.
func (r *Record) ID() string { return r.id }

// Title returns the original-language title.
func (r *Record) Title() string { return r.title }

// Abstract returns the original-language abstract.
func (r *Record) Abstract() string { return r.abstract }

// ImageRef returns the image reference derived from the ID.
func (r *Record) ImageRef() string { return r.imageRef }

// Description returns the text that is embedded for this record.
func (r *Record) Description() string { return r.description }

// IDPlaceholder is substituted by TemplateImageRef.
const IDPlaceholder = "{id}"

// TemplateImageRef returns an ImageRefFunc that substitutes the publication
// number into tmpl. A template without the placeholder gets the ID and ".png" appended.
func TemplateImageRef(tmpl string) ImageRefFunc {
	if tmpl == "" {
		return nil
	}
	if !strings.Contains(tmpl, IDPlaceholder) {
		tmpl += IDPlaceholder + ".png"
	}
	return func(id string) string {
		return strings.ReplaceAll(tmpl, IDPlaceholder, id)
	}
}
