package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/storage"
	"github.com/vidvault/vidvault/internal/validation"
)

// VideoService owns the ingestion pipeline and the metadata catalog. The
// pipeline's contract: a stored blob and its metadata row are created and
// destroyed together — an insert failure deletes the blob, a record delete
// removes the blob first.
type VideoService struct {
	videos      repository.VideoRepository
	storage     storage.Storage
	constraints validation.VideoConstraints

	clock func() time.Time
	idGen func() string
}

func NewVideoService(videos repository.VideoRepository, st storage.Storage, constraints validation.VideoConstraints) *VideoService {
	return &VideoService{
		videos:      videos,
		storage:     st,
		constraints: constraints,
		clock:       time.Now,
		idGen:       func() string { return uuid.New().String() },
	}
}

// UploadInput describes one upload attempt. DeclaredSize is -1 when the
// transport cannot know the size up front; the ceiling is then enforced
// during the write.
type UploadInput struct {
	OriginalName string
	DeclaredType string
	DeclaredSize int64
	Title        string
	Description  string
	Tags         string
}

// Upload runs the pipeline: validate, store under a server-generated name,
// commit the metadata row. A failure after the store step deletes the
// orphaned blob before returning.
func (s *VideoService) Upload(ctx context.Context, uploader *model.User, in UploadInput, r io.Reader) (*model.Video, error) {
	err := s.constraints.ValidateType(in.OriginalName, in.DeclaredType)
	if err != nil {
		return nil, err
	}
	err = s.constraints.ValidateSize(in.DeclaredSize)
	if err != nil {
		return nil, err
	}

	err = validateVideoMeta(in.Title, in.Description, in.Tags)
	if err != nil {
		return nil, err
	}

	// The caller's filename contributes only its extension; the stored
	// name is synthesized server-side.
	ext := strings.ToLower(filepath.Ext(in.OriginalName))
	filename := fmt.Sprintf("%d-%s%s", s.clock().UnixMilli(), s.idGen(), ext)
	storagePath := path.Join("videos", filename)

	counter := &ceilingReader{r: r, limit: s.constraints.MaxSize}
	err = s.storage.Save(ctx, storagePath, counter)
	if err != nil {
		// The backend may have kept partial bytes; make sure they are gone
		s.discardBlob(storagePath)
		if counter.exceeded {
			return nil, validation.ErrPayloadTooLarge
		}
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = strings.TrimSuffix(in.OriginalName, ext)
	}

	format := in.DeclaredType
	if format == "" {
		format = mime.TypeByExtension(ext)
	}

	now := s.clock()
	video := &model.Video{
		ID:           s.idGen(),
		UploadedBy:   uploader.ID,
		CompanyID:    uploader.CompanyID,
		Filename:     filename,
		OriginalName: in.OriginalName,
		Title:        title,
		Description:  strings.TrimSpace(in.Description),
		Tags:         strings.TrimSpace(in.Tags),
		StoragePath:  storagePath,
		FileSize:     counter.n,
		Format:       format,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.videos.Create(video)
	if err != nil {
		// Commit failed after the store step: delete the orphaned blob
		// before surfacing the error
		s.discardBlob(storagePath)
		return nil, fmt.Errorf("failed to create video record: %w", err)
	}

	slog.Info("video uploaded",
		"video_id", video.ID,
		"user_id", uploader.ID,
		"size", video.FileSize,
		"filename", filename,
	)
	return video, nil
}

// discardBlob removes a blob outside the request context so cleanup still
// runs when the request was cancelled.
func (s *VideoService) discardBlob(storagePath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := s.storage.Delete(ctx, storagePath)
	if err != nil {
		slog.Error("failed to delete blob during cleanup", "error", err, "path", storagePath)
	}
}

func (s *VideoService) ByID(id string) (*model.Video, error) {
	return s.videos.ByID(id)
}

// Update changes the descriptive fields only.
func (s *VideoService) Update(id, title, description, tags string) (*model.Video, error) {
	err := validateVideoMeta(title, description, tags)
	if err != nil {
		return nil, err
	}

	video, err := s.videos.ByID(id)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title != "" {
		video.Title = title
	}
	video.Description = strings.TrimSpace(description)
	video.Tags = strings.TrimSpace(tags)
	video.UpdatedAt = s.clock()

	err = s.videos.Update(video)
	if err != nil {
		return nil, err
	}

	return video, nil
}

// Delete removes the blob and then the record. A blob already missing
// from storage is logged and tolerated; the record always goes.
func (s *VideoService) Delete(ctx context.Context, id string) error {
	video, err := s.videos.ByID(id)
	if err != nil {
		return err
	}

	err = s.storage.Delete(ctx, video.StoragePath)
	if err != nil {
		slog.Warn("failed to delete blob, removing record anyway", "error", err, "path", video.StoragePath)
	}

	err = s.videos.Delete(id)
	if err != nil {
		return fmt.Errorf("failed to delete video record: %w", err)
	}

	slog.Info("video deleted", "video_id", id)
	return nil
}

func (s *VideoService) Search(opts repository.SearchOptions) ([]*model.VideoListItem, error) {
	return s.videos.Search(opts)
}

// Open returns a reader over the stored binary for transports that have
// to proxy the bytes themselves.
func (s *VideoService) Open(ctx context.Context, video *model.Video) (io.ReadCloser, error) {
	return s.storage.Open(ctx, video.StoragePath)
}

// URL returns a direct download URL when the backend supports one, or ""
// when the bytes must be served through Open.
func (s *VideoService) URL(video *model.Video) string {
	return s.storage.URL(video.StoragePath)
}

func validateVideoMeta(title, description, tags string) error {
	if len(strings.TrimSpace(title)) > 200 {
		return fmt.Errorf("%w: title must be at most 200 characters", ErrInvalidInput)
	}
	if len(description) > 1000 {
		return fmt.Errorf("%w: description must be at most 1000 characters", ErrInvalidInput)
	}
	if len(tags) > 500 {
		return fmt.Errorf("%w: tags must be at most 500 characters", ErrInvalidInput)
	}
	return nil
}

// ceilingReader counts bytes and fails the stream once the ceiling is
// crossed, so oversized streaming uploads abort mid-transfer instead of
// filling storage.
type ceilingReader struct {
	r        io.Reader
	limit    int64
	n        int64
	exceeded bool
}

func (cr *ceilingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	if cr.n > cr.limit {
		cr.exceeded = true
		return n, validation.ErrPayloadTooLarge
	}
	return n, err
}
