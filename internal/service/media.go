// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rcmslabs/rcms/internal/imaging"
	"github.com/rcmslabs/rcms/internal/model"
	"github.com/rcmslabs/rcms/internal/store"
)

// Upload limits
const (
	MaxUploadSize    = 20 * 1024 * 1024 // 20MB
	DefaultUploadDir = "./uploads"
)

// AllowedMimeTypes defines the MIME types that can be uploaded.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

// MediaService handles media file uploads, listing and deletion.
// Images are normalized and thumbnailed by the imaging processor;
// other allowed types are stored verbatim.
type MediaService struct {
	queries   *store.Queries
	processor *imaging.Processor
	events    *EventService
	uploadDir string
}

// NewMediaService creates a new media service.
func NewMediaService(db *sql.DB, events *EventService, uploadDir string) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultUploadDir
	}
	return &MediaService{
		queries:   store.New(db),
		processor: imaging.NewProcessor(uploadDir),
		events:    events,
		uploadDir: uploadDir,
	}
}

// Upload validates, stores and records an uploaded file.
func (s *MediaService) Upload(ctx context.Context, file multipart.File, header *multipart.FileHeader, userID int64) (model.Media, error) {
	if header.Size > MaxUploadSize {
		return model.Media{}, newValidationError("file", fmt.Sprintf("exceeds the maximum size of %d bytes", MaxUploadSize))
	}

	// Sniff the MIME type from content rather than trusting the client
	// header or the filename.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return model.Media{}, fmt.Errorf("reading upload: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return model.Media{}, fmt.Errorf("rewinding upload: %w", err)
	}

	mimeType := s.processor.DetectMimeType(head[:n])
	if !AllowedMimeTypes[mimeType] {
		_ = s.events.LogMediaEvent(ctx, model.EventLevelWarning,
			fmt.Sprintf("Media upload rejected: %s", header.Filename), &userID,
			map[string]any{"mime_type": mimeType})
		return model.Media{}, newValidationError("file", fmt.Sprintf("type %s is not allowed", mimeType))
	}

	fileUUID := uuid.NewString()
	filename := sanitizeFilename(header.Filename)
	params := store.CreateMediaParams{
		UUID:       fileUUID,
		Filename:   filename,
		MimeType:   mimeType,
		UploadedBy: userID,
		CreatedAt:  time.Now().UTC(),
	}

	if s.processor.IsImage(mimeType) {
		result, err := s.processor.ProcessImage(file, fileUUID)
		if err != nil {
			return model.Media{}, fmt.Errorf("processing image: %w", err)
		}
		params.MimeType = result.MimeType // WebP re-encodes to JPEG
		params.Size = result.Size
		params.Width = int64(result.Width)
		params.Height = int64(result.Height)
		params.HasThumbnail = result.HasThumbnail
	} else {
		_, size, err := s.processor.SaveRaw(file, fileUUID, extForMime(mimeType))
		if err != nil {
			return model.Media{}, fmt.Errorf("saving upload: %w", err)
		}
		params.Size = size
	}

	media, err := s.queries.CreateMedia(ctx, params)
	if err != nil {
		_ = s.processor.DeleteMediaFiles(fileUUID)
		return model.Media{}, fmt.Errorf("recording media: %w", err)
	}

	_ = s.events.LogMediaEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Media uploaded: %s", filename), &userID,
		map[string]any{"media_id": media.ID, "mime_type": media.MimeType, "size": media.Size})
	return media, nil
}

// Get returns a media record by id.
func (s *MediaService) Get(ctx context.Context, id int64) (model.Media, error) {
	media, err := s.queries.GetMediaByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Media{}, newNotFoundError("media", fmt.Sprint(id))
	}
	return media, err
}

// List returns media records, newest first, with the total count.
func (s *MediaService) List(ctx context.Context, limit, offset int64) ([]model.Media, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	items, err := s.queries.ListMedia(ctx, store.ListMediaParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	total, err := s.queries.CountMedia(ctx)
	return items, total, err
}

// Delete removes a media record and its files on disk. The row goes
// first so a file-system failure cannot leave an orphaned record.
func (s *MediaService) Delete(ctx context.Context, id, actorID int64) error {
	media, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.queries.DeleteMedia(ctx, id); err != nil {
		return err
	}
	if err := s.processor.DeleteMediaFiles(media.UUID); err != nil {
		_ = s.events.LogMediaEvent(ctx, model.EventLevelWarning,
			fmt.Sprintf("Media files not fully removed: %s", media.UUID), &actorID,
			map[string]any{"media_id": id, "error": err.Error()})
	}

	_ = s.events.LogMediaEvent(ctx, model.EventLevelInfo,
		fmt.Sprintf("Media deleted: %s", media.Filename), &actorID,
		map[string]any{"media_id": id})
	return nil
}

// sanitizeFilename strips path components and control characters from a
// client-supplied filename, keeping it for display only.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}

// extForMime returns the storage extension for non-image uploads.
func extForMime(mimeType string) string {
	switch mimeType {
	case "application/pdf":
		return ".pdf"
	default:
		return ""
	}
}
