// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/taibuivan/gametrack/internal/platform/validate"
)

// maxUploadBytes caps in-memory multipart parsing at 32 MiB.
const maxUploadBytes = 32 << 20

// Upload carries a single file part extracted from a multipart request.
//
// The caller owns Content and must close it after persisting the bytes.
type Upload struct {
	// OriginalName is the client-supplied filename, used only for its extension.
	OriginalName string
	// ContentType is the declared MIME type of the file part.
	ContentType string
	// Size is the file length in bytes.
	Size int64
	// Content streams the file bytes.
	Content io.ReadCloser
}

// Ext returns the lowercased filename extension, including the dot.
func (u *Upload) Ext() string {
	return strings.ToLower(filepath.Ext(u.OriginalName))
}

// Payload is a decoded request body in field-map form.
//
// Profile records are edited through partial updates, so bodies are decoded
// into a generic field map rather than a typed struct. Field selection and
// type coercion happen later against each resource's declared field schema.
type Payload struct {
	// Fields holds the submitted body fields keyed by name.
	Fields map[string]any
	// File is the uploaded file part, or nil when the request carried none.
	File *Upload
}

/*
ParsePayload decodes the request body into a [Payload].

It accepts three encodings:

  - application/json: decoded directly into the field map.
  - multipart/form-data: form values become fields; the part named by
    fileField (if present) becomes the File.
  - application/x-www-form-urlencoded: form values become fields.

Parameters:
  - request: *http.Request
  - fileField: the multipart part name to treat as a file upload ("" to skip)

Returns:
  - *Payload: The decoded payload
  - error: validate.ErrInvalidJSON or a wrapped parse failure
*/
func ParsePayload(request *http.Request, fileField string) (*Payload, error) {
	contentType := request.Header.Get("Content-Type")
	mediaType, _, _ := mime.ParseMediaType(contentType)

	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return parseMultipart(request, fileField)

	case mediaType == "application/x-www-form-urlencoded":
		if err := request.ParseForm(); err != nil {
			return nil, validate.ErrInvalidJSON
		}
		return &Payload{Fields: formToFields(request.PostForm)}, nil

	default:
		// JSON is the default body encoding.
		fields := map[string]any{}
		if err := json.NewDecoder(request.Body).Decode(&fields); err != nil {
			return nil, validate.ErrInvalidJSON
		}
		return &Payload{Fields: fields}, nil
	}
}

// parseMultipart extracts form values and the named file part.
func parseMultipart(request *http.Request, fileField string) (*Payload, error) {
	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, validate.ErrInvalidJSON
	}

	payload := &Payload{Fields: formToFields(request.MultipartForm.Value)}

	if fileField == "" {
		return payload, nil
	}

	file, header, err := request.FormFile(fileField)
	if err == http.ErrMissingFile {
		return payload, nil
	}
	if err != nil {
		return nil, validate.ErrInvalidJSON
	}

	payload.File = &Upload{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Content:      file,
	}

	return payload, nil
}

// formToFields flattens url.Values, keeping the first value per key.
func formToFields(values map[string][]string) map[string]any {
	fields := make(map[string]any, len(values))
	for key, list := range values {
		if len(list) > 0 {
			fields[key] = list[0]
		}
	}
	return fields
}
