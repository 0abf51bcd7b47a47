package http_handler

import (
	"github.com/gofiber/fiber/v2"
)

// streamBlob resolves a stored blob and serves it with Range support.
// fasthttp closes the body stream when the response finishes, so the range
// reader is released even on client disconnect.
func (s *Server) streamBlob(c *fiber.Ctx, bucket, idOrName string) error {
	st, err := s.svc.Stream.Open(c.Context(), bucket, idOrName, c.Get(fiber.HeaderRange))
	if err != nil {
		return s.sendServiceError(c, err)
	}

	c.Set(fiber.HeaderAcceptRanges, "bytes")
	if st.Status == fiber.StatusRequestedRangeNotSatisfiable {
		c.Set(fiber.HeaderContentRange, st.ContentRange)
		return s.sendJSONError(c, st.Status, "Requested range not satisfiable")
	}

	c.Set(fiber.HeaderContentType, st.ContentType)
	if st.ContentRange != "" {
		c.Set(fiber.HeaderContentRange, st.ContentRange)
	}
	c.Status(st.Status)
	c.Response().SetBodyStream(st.Reader, int(st.ContentLength))
	return nil
}
