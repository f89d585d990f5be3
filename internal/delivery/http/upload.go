package http

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/vidtube/backend/internal/domain"
)

const multipartMemory = 32 << 20

// parseMultipart bounds the body and parses it. A request that is not
// multipart is left alone so JSON bodies keep working.
func (h *Handler) parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.BadRequest("upload is too large")
		}
		return domain.BadRequest("invalid multipart form")
	}
	return nil
}

// formFiles tracks the multipart files opened for one request.
type formFiles struct {
	opened []multipart.File
}

// get returns the file in field, or nil when the field is absent. The content
// is sniffed and must be of kind ("image" or "video").
func (f *formFiles) get(r *http.Request, field, kind string) (*domain.MediaFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.BadRequest("invalid " + field + " upload")
	}
	f.opened = append(f.opened, file)

	detected, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, domain.BadRequest("could not read " + field)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, domain.Internal("failed to rewind upload", err)
	}
	contentType := detected.String()
	if !strings.HasPrefix(contentType, kind+"/") {
		return nil, domain.BadRequest(field + " must be a " + kind + " file")
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	return &domain.MediaFile{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        file,
	}, nil
}

func (f *formFiles) Close() {
	for _, file := range f.opened {
		file.Close()
	}
}

// formOrJSON reads string fields from a multipart form when one was parsed,
// otherwise from a JSON object body.
func formOrJSON(r *http.Request, fields ...string) (map[string]string, error) {
	out := make(map[string]string, len(fields))
	if r.MultipartForm != nil {
		for _, name := range fields {
			out[name] = r.FormValue(name)
		}
		return out, nil
	}
	var body map[string]any
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}
	for _, name := range fields {
		switch v := body[name].(type) {
		case string:
			out[name] = v
		case nil:
		default:
			out[name] = fmt.Sprint(v)
		}
	}
	return out, nil
}
