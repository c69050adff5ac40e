package model

import "time"

// Media represents an uploaded file stored under the uploads directory.
// UUID is the storage filename stem; the original name is kept for display.
type Media struct {
	ID           int64     `json:"id"`
	UUID         string    `json:"uuid"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Width        int64     `json:"width,omitempty"`
	Height       int64     `json:"height,omitempty"`
	HasThumbnail bool      `json:"has_thumbnail"`
	UploadedBy   int64     `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// URL returns the public path for the stored file.
func (m *Media) URL() string {
	return "/uploads/" + m.UUID + m.Ext()
}

// ThumbnailURL returns the public path for the thumbnail, or the original
// when no thumbnail was generated.
func (m *Media) ThumbnailURL() string {
	if !m.HasThumbnail {
		return m.URL()
	}
	return "/uploads/thumbs/" + m.UUID + m.Ext()
}

// Ext returns the storage file extension derived from the MIME type.
func (m *Media) Ext() string {
	switch m.MimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
