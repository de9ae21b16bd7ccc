package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vidvault/vidvault/internal/ctxkeys"
	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
	"github.com/vidvault/vidvault/internal/service"
	"github.com/vidvault/vidvault/internal/validation"
)

type videoRepoFake struct {
	byID    map[string]*model.Video
	updates int
}

func (f *videoRepoFake) Create(video *model.Video) error {
	f.byID[video.ID] = video
	return nil
}

func (f *videoRepoFake) ByID(id string) (*model.Video, error) {
	video, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrVideoNotFound
	}
	return video, nil
}

func (f *videoRepoFake) Update(video *model.Video) error {
	f.byID[video.ID] = video
	f.updates++
	return nil
}

func (f *videoRepoFake) Delete(id string) error {
	delete(f.byID, id)
	return nil
}

func (f *videoRepoFake) Search(opts repository.SearchOptions) ([]*model.VideoListItem, error) {
	return nil, nil
}

type storageFake struct {
	saved []string
}

func (f *storageFake) Save(ctx context.Context, path string, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	if err != nil {
		return err
	}
	f.saved = append(f.saved, path)
	return nil
}

func (f *storageFake) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

func (f *storageFake) Delete(ctx context.Context, path string) error { return nil }
func (f *storageFake) Exists(ctx context.Context, path string) (bool, error) {
	return false, nil
}
func (f *storageFake) URL(path string) string { return "" }

func newUploadFixture() (*VideoHandler, *videoRepoFake, *storageFake) {
	repo := &videoRepoFake{byID: map[string]*model.Video{}}
	store := &storageFake{}
	constraints := validation.NewVideoConstraints([]string{"mp4", "mov"}, 500<<20)
	return NewVideoHandler(service.NewVideoService(repo, store, constraints), 500<<20), repo, store
}

type uploadPart struct {
	name  string
	value string
}

func buildUploadBody(t *testing.T, parts []uploadPart) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for _, p := range parts {
		if p.name == "file" {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition", `form-data; name="file"; filename="demo.mp4"`)
			header.Set("Content-Type", "video/mp4")
			fw, err := w.CreatePart(header)
			require.NoError(t, err)
			_, err = fw.Write([]byte(p.value))
			require.NoError(t, err)
			continue
		}
		require.NoError(t, w.WriteField(p.name, p.value))
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func postUpload(h *VideoHandler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	companyID := "co-1"
	user := &model.User{ID: "user-1", Username: "alice", CompanyID: &companyID}

	req := httptest.NewRequest(http.MethodPost, "/videos", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), user))
	rec := httptest.NewRecorder()
	h.Upload(rec, req)
	return rec
}

func TestUploadFieldsBeforeFile(t *testing.T) {
	h, repo, store := newUploadFixture()

	body, contentType := buildUploadBody(t, []uploadPart{
		{"title", "Quarterly Recap"},
		{"tags", "q3,recap"},
		{"file", "fake video bytes"},
	})
	rec := postUpload(h, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp VideoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Quarterly Recap", resp.Title)
	require.Equal(t, "q3,recap", resp.Tags)
	require.Len(t, store.saved, 1)

	// Everything was known at commit time; no follow-up write happened
	require.Zero(t, repo.updates)
}

func TestUploadFieldsAfterFile(t *testing.T) {
	h, repo, store := newUploadFixture()

	// Clients that put the binary first still get their metadata applied
	body, contentType := buildUploadBody(t, []uploadPart{
		{"file", "fake video bytes"},
		{"title", "Sent Afterwards"},
		{"description", "late description"},
	})
	rec := postUpload(h, body, contentType)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp VideoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Sent Afterwards", resp.Title)
	require.Equal(t, "late description", resp.Description)
	require.Len(t, store.saved, 1)
	require.Equal(t, 1, repo.updates)

	stored, err := repo.ByID(resp.ID)
	require.NoError(t, err)
	require.Equal(t, "Sent Afterwards", stored.Title)
}

func TestUploadMissingFilePart(t *testing.T) {
	h, _, store := newUploadFixture()

	body, contentType := buildUploadBody(t, []uploadPart{
		{"title", "No File"},
	})
	rec := postUpload(h, body, contentType)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, store.saved)
}
