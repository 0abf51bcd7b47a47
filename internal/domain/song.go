package domain

import "time"

// SongStatus is the moderation state of an uploaded song.
type SongStatus string

const (
	SongPending  SongStatus = "pending"
	SongApproved SongStatus = "approved"
	SongRejected SongStatus = "rejected"
)

// Song is the registry entry for one uploaded track. FileID references the
// audio blob in the uploads bucket; the registry owns the song's lifecycle,
// the blob store has no back-pointer.
type Song struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Artist     string     `json:"artist"`
	Album      string     `json:"album,omitempty"`
	Genre      string     `json:"genre,omitempty"`
	FileID     string     `json:"fileId"`
	CoverImage string     `json:"coverImage,omitempty"`
	Uploader   string     `json:"uploader"`
	UploadDate time.Time  `json:"uploadDate"`
	Status     SongStatus `json:"status"`
	Likes      int64      `json:"likes"`
	Views      int64      `json:"views"`
}
