package http_handler

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/gofiber/fiber/v2"
)

// multipartStream opens the raw request body as a multipart reader without
// buffering the whole body in memory first.
func multipartStream(c *fiber.Ctx) (*multipart.Reader, error) {
	contentType := c.Get(fiber.HeaderContentType)
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		return nil, errBadMultipart("Content-Type must be multipart/form-data")
	}

	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errBadMultipart("Invalid Content-Type")
	}
	boundary, ok := params["boundary"]
	if !ok {
		return nil, errBadMultipart("Missing boundary in Content-Type")
	}

	bodyStream := c.Context().RequestBodyStream()
	if bodyStream == nil {
		bodyStream = bytes.NewReader(c.Body())
	}
	return multipart.NewReader(bodyStream, boundary), nil
}

type badMultipartError string

func errBadMultipart(msg string) error { return badMultipartError(msg) }

func (e badMultipartError) Error() string { return string(e) }

// filePart wraps the current multipart part as a sink input. The reader is
// only valid until the next call to NextPart.
func filePart(part *multipart.Part) *port.FilePart {
	return &port.FilePart{
		FieldName:   part.FormName(),
		Filename:    part.FileName(),
		ContentType: part.Header.Get(fiber.HeaderContentType),
		Reader:      part,
	}
}

// spoolPart drains a small part into memory so the stream can advance to the
// parts behind it. limit bounds the copy; the sink enforces the real cap.
func spoolPart(part *multipart.Part, limit int64) (*port.FilePart, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(part, limit+1)); err != nil {
		return nil, err
	}
	return &port.FilePart{
		FieldName:   part.FormName(),
		Filename:    part.FileName(),
		ContentType: part.Header.Get(fiber.HeaderContentType),
		Reader:      &buf,
	}, nil
}

// readFieldValue reads a non-file form field.
func readFieldValue(part *multipart.Part) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(part, 4096)); err != nil {
		return "", err
	}
	return buf.String(), nil
}
