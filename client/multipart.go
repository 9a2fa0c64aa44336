package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const octetStream = "application/octet-stream"

// Multipart serializes the wire parameters as multipart/form-data and
// returns the body with its Content-Type. Bytes values become file parts
// named <uuid>.<ext>; File values are streamed from disk under their base
// name; every other value is a text field.
func (e Envelope) Multipart(ext string) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	ext = strings.TrimPrefix(ext, ".")

	for _, k := range e.Wire.Keys() {
		v := e.Wire[k]

		switch v.Kind() {
		case KindBytes:
			name := uuid.NewString()
			if ext != "" {
				name += "." + ext
			}
			if err := writeFilePart(mw, k, name, bytes.NewReader(v.Payload())); err != nil {
				return nil, "", err
			}

		case KindFile:
			if err := copyFilePart(mw, k, v.Path()); err != nil {
				return nil, "", err
			}

		default:
			if err := mw.WriteField(k, v.Text()); err != nil {
				return nil, "", fmt.Errorf("writing field[%s]: %w", k, err)
			}
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}

	return &body, mw.FormDataContentType(), nil
}

func copyFilePart(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening file[%s]: %w", field, err)
	}
	defer f.Close()

	return writeFilePart(mw, field, filepath.Base(path), f)
}

func writeFilePart(mw *multipart.Writer, field, filename string, r io.Reader) error {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", octetStream)

	part, err := mw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("creating file part[%s]: %w", field, err)
	}

	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("writing file part[%s]: %w", field, err)
	}

	return nil
}
