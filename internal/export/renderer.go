package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

const (
	ContentTypeJSON = "application/json"

	errEncodeDocumentFmt = "failed to encode document: %w"
)

// Renderer turns a Document into a file. Word and PDF renderers hold layout
// only; every figure they print comes from the Document.
type Renderer interface {
	ContentType() string
	FileExtension() string
	Render(ctx context.Context, w io.Writer, doc *Document) error
}

// JSONRenderer writes the document as indented JSON. It is the archive format.
type JSONRenderer struct{}

func (JSONRenderer) ContentType() string {
	return ContentTypeJSON
}

func (JSONRenderer) FileExtension() string {
	return ".json"
}

func (JSONRenderer) Render(_ context.Context, w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf(errEncodeDocumentFmt, err)
	}
	return nil
}
