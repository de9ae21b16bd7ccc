package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/vidvault/vidvault/internal/authz"
	"github.com/vidvault/vidvault/internal/ctxkeys"
	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/service"
	"github.com/vidvault/vidvault/internal/validation"
)

// multipartOverhead is slack on top of the upload ceiling for boundary
// markers and metadata fields when pre-checking Content-Length.
const multipartOverhead = 1 << 20

type VideoHandler struct {
	videos   *service.VideoService
	maxBytes int64
}

func NewVideoHandler(videos *service.VideoService, maxBytes int64) *VideoHandler {
	return &VideoHandler{videos: videos, maxBytes: maxBytes}
}

// Upload handles POST /videos. The body is multipart and the binary
// streams straight to storage without buffering, so metadata fields are
// best sent before the "file" part; fields arriving after it are read
// once the blob is committed and applied as an immediate update.
func (h *VideoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// Cheap reject before reading the body when the client declares a
	// size that cannot fit
	if r.ContentLength > h.maxBytes+multipartOverhead {
		writeErrorJSON(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "expected multipart body")
		return
	}

	in := service.UploadInput{DeclaredSize: -1}
	var filePart *multipart.Part

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "malformed multipart body")
			return
		}

		switch part.FormName() {
		case "title":
			in.Title = readFormValue(part)
		case "description":
			in.Description = readFormValue(part)
		case "tags":
			in.Tags = readFormValue(part)
		case "file":
			in.OriginalName = part.FileName()
			in.DeclaredType = part.Header.Get("Content-Type")
			filePart = part
		default:
			part.Close()
		}

		if filePart != nil {
			break
		}
	}

	if filePart == nil {
		writeErrorJSON(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer filePart.Close()

	video, err := h.videos.Upload(r.Context(), user, in, filePart)
	if err != nil {
		switch {
		case errors.Is(err, validation.ErrUnsupportedMediaType):
			writeErrorJSON(w, http.StatusUnsupportedMediaType, "unsupported video format")
		case errors.Is(err, validation.ErrPayloadTooLarge):
			writeErrorJSON(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
		case errors.Is(err, service.ErrInvalidInput):
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrDuplicateUpload):
			writeErrorJSON(w, http.StatusConflict, "upload collided, retry")
		default:
			slog.Error("upload failed", "error", err)
			writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	video, err = h.applyTrailingFields(mr, video)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to apply trailing metadata", "error", err, "video_id", video.ID)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toVideoResponse(video))
}

// applyTrailingFields drains the parts after the binary. Metadata
// fields found there were not known at commit time, so they are folded
// in with a follow-up update.
func (h *VideoHandler) applyTrailingFields(mr *multipart.Reader, video *model.Video) (*model.Video, error) {
	title, description, tags := video.Title, video.Description, video.Tags
	var found bool

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}

		switch part.FormName() {
		case "title":
			if v := readFormValue(part); v != "" {
				title = v
				found = true
			}
		case "description":
			description = readFormValue(part)
			found = true
		case "tags":
			tags = readFormValue(part)
			found = true
		default:
			part.Close()
		}
	}

	if !found {
		return video, nil
	}
	return h.videos.Update(video.ID, title, description, tags)
}

// Get handles GET /videos/{id}.
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	video, ok := h.authorizedVideo(w, r, user, authz.OpView)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(video))
}

// List handles GET /videos. Non-admin results are scoped to the
// caller's company; a caller without a company sees nothing.
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	opts := repository.SearchOptions{
		Query:   strings.TrimSpace(r.URL.Query().Get("q")),
		SortKey: r.URL.Query().Get("sort"),
		Desc:    r.URL.Query().Get("order") != "asc",
	}
	if opts.SortKey == "" {
		opts.SortKey = "created_at"
	}

	if !user.IsAdmin() {
		if user.CompanyID == nil {
			writeJSON(w, http.StatusOK, []VideoListItemResponse{})
			return
		}
		opts.CompanyID = user.CompanyID
	}

	items, err := h.videos.Search(opts)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidSortKey) {
			writeErrorJSON(w, http.StatusBadRequest, "unknown sort key")
			return
		}
		slog.Error("video search failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toVideoListResponse(items))
}

// Download handles GET /videos/{id}/download. Backends that can mint a
// direct URL get a redirect; otherwise the bytes are proxied.
func (h *VideoHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	video, ok := h.authorizedVideo(w, r, user, authz.OpDownload)
	if !ok {
		return
	}

	if url := h.videos.URL(video); url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	rc, err := h.videos.Open(r.Context(), video)
	if err != nil {
		slog.Error("failed to open stored video", "error", err, "video_id", video.ID)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", video.Format)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", video.OriginalName))
	if video.FileSize > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", video.FileSize))
	}
	_, err = io.Copy(w, rc)
	if err != nil {
		slog.Warn("download interrupted", "error", err, "video_id", video.ID)
	}
}

// Update handles PATCH /videos/{id}.
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	video, ok := h.authorizedVideo(w, r, user, authz.OpEdit)
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.videos.Update(video.ID, req.Title, req.Description, req.Tags)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			writeErrorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("video update failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toVideoResponse(updated))
}

// Delete handles DELETE /videos/{id}.
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	video, ok := h.authorizedVideo(w, r, user, authz.OpDelete)
	if !ok {
		return
	}

	err := h.videos.Delete(r.Context(), video.ID)
	if err != nil {
		slog.Error("video delete failed", "error", err, "video_id", video.ID)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// authorizedVideo loads the video from the path and checks the caller
// may perform op on it. It writes the error response itself when not.
func (h *VideoHandler) authorizedVideo(w http.ResponseWriter, r *http.Request, user *model.User, op authz.Operation) (*model.Video, bool) {
	id := r.PathValue("id")
	if id == "" {
		writeErrorJSON(w, http.StatusBadRequest, "missing video id")
		return nil, false
	}

	video, err := h.videos.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrVideoNotFound) {
			writeErrorJSON(w, http.StatusNotFound, "video not found")
			return nil, false
		}
		slog.Error("video lookup failed", "error", err)
		writeErrorJSON(w, http.StatusInternalServerError, "internal error")
		return nil, false
	}

	decision := authz.Decide(authz.SubjectFromUser(user), op, authz.Resource{
		OwnerID:   video.UploadedBy,
		CompanyID: video.CompanyID,
	})
	if !decision.Allowed {
		writeErrorJSON(w, http.StatusForbidden, decision.Reason)
		return nil, false
	}

	return video, true
}

func readFormValue(part *multipart.Part) string {
	defer part.Close()
	// Metadata fields are capped at 4 KiB
	b, err := io.ReadAll(io.LimitReader(part, 4096))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
