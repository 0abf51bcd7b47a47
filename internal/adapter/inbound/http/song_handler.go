package http_handler

import (
	"io"

	"github.com/anthanhphan/go-music-streaming/internal/domain"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	sdklogger "github.com/anthanhphan/gosdk/logger"
	"github.com/gofiber/fiber/v2"
)

// handleSongUpload consumes the multipart body in wire order: metadata fields
// and the cover part are read first, and the loop stops at the 'song' part so
// the audio bytes stream straight into the blob store. Parts after the audio
// are not read.
func (s *Server) handleSongUpload(c *fiber.Ctx) error {
	mr, err := multipartStream(c)
	if err != nil {
		return s.sendServiceError(c, err)
	}

	up := &port.SongUpload{
		Uploader:     s.currentUser(c),
		CoverURLBase: c.BaseURL() + "/api/song/cover",
	}

	for up.Song == nil {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.sendJSONError(c, fiber.StatusBadRequest, "Malformed multipart body")
		}

		switch {
		case part.FileName() == "":
			value, err := readFieldValue(part)
			_ = part.Close()
			if err != nil {
				return s.sendJSONError(c, fiber.StatusBadRequest, "Malformed multipart body")
			}
			switch part.FormName() {
			case "title":
				up.Title = value
			case "artist":
				up.Artist = value
			case "album":
				up.Album = value
			case "genre":
				up.Genre = value
			}
		case part.FormName() == "coverImage":
			cover, err := spoolPart(part, s.cfg.App.MaxCoverSize)
			_ = part.Close()
			if err != nil {
				return s.sendJSONError(c, fiber.StatusBadRequest, "Malformed multipart body")
			}
			up.Cover = cover
		case part.FormName() == "song":
			up.Song = filePart(part)
		default:
			_ = part.Close()
		}
	}

	song, err := s.svc.Song.Upload(c.Context(), up)
	if err != nil {
		sdklogger.Warnw("Song upload rejected", "uploader", up.Uploader.ID, "error", err.Error())
		return s.sendServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"msg":  "Song uploaded",
		"song": song,
	})
}

func (s *Server) handleSongList(c *fiber.Ctx) error {
	songs, err := s.svc.Song.ListApproved(c.Context())
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(songs)
}

func (s *Server) handleSongGet(c *fiber.Ctx) error {
	song, err := s.svc.Song.Get(c.Context(), c.Params("id"))
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(song)
}

func (s *Server) handleSongLike(c *fiber.Ctx) error {
	liked, total, err := s.svc.Song.ToggleLike(c.Context(), c.Params("id"), s.currentUser(c).ID)
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"liked": liked,
		"likes": total,
	})
}

func (s *Server) handleSongView(c *fiber.Ctx) error {
	views, err := s.svc.Song.AddView(c.Context(), c.Params("id"), s.currentUser(c).ID)
	if err != nil {
		return s.sendServiceError(c, err)
	}
	return c.JSON(fiber.Map{"views": views})
}

func (s *Server) handleSongStream(c *fiber.Ctx) error {
	return s.streamBlob(c, domain.BucketUploads, c.Params("fileId"))
}

func (s *Server) handleCoverStream(c *fiber.Ctx) error {
	return s.streamBlob(c, domain.BucketCovers, c.Params("filename"))
}
