package domain

import "errors"

var (
	// Blob store errors.
	ErrFileNotFound        = errors.New("file not found")
	ErrChunkNotFound       = errors.New("chunk not found")
	ErrDuplicateName       = errors.New("filename already exists in bucket")
	ErrEmptyUpload         = errors.New("upload contains no data")
	ErrUploadClosed        = errors.New("upload handle already closed")
	ErrRangeNotSatisfiable = errors.New("byte range outside file bounds")

	// Upload sink errors.
	ErrUnsupportedType = errors.New("unsupported content type")
	ErrTooLarge        = errors.New("file exceeds size limit")

	// Registry errors.
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
	ErrSongNotFound   = errors.New("song not found")
	ErrPayoutNotFound = errors.New("payout not found")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionInvalidated = errors.New("session invalidated by a newer login")
	ErrUserBanned         = errors.New("user is banned")
	ErrAdminOnly          = errors.New("admin access required")
)
