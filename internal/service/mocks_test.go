package service

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/vidvault/vidvault/internal/model"
	"github.com/vidvault/vidvault/internal/repository"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepoMock) ByID(id string) (*model.User, error) {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) ByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) ByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) ByGoogleID(googleID string) (*model.User, error) {
	args := m.Called(googleID)
	if v := args.Get(0); v != nil {
		return v.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) ByCompany(companyID string) ([]*model.User, error) {
	args := m.Called(companyID)
	if v := args.Get(0); v != nil {
		return v.([]*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) All() ([]*model.User, error) {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.([]*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepoMock) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *UserRepoMock) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type SessionRepoMock struct {
	mock.Mock
}

func (m *SessionRepoMock) Create(session *model.Session) error {
	args := m.Called(session)
	return args.Error(0)
}

func (m *SessionRepoMock) ByToken(token string) (*model.Session, error) {
	args := m.Called(token)
	if v := args.Get(0); v != nil {
		return v.(*model.Session), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepoMock) UpdateExpiry(token string, expiresAt time.Time) error {
	args := m.Called(token, expiresAt)
	return args.Error(0)
}

func (m *SessionRepoMock) Delete(token string) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *SessionRepoMock) DeleteExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

type CompanyRepoMock struct {
	mock.Mock
}

func (m *CompanyRepoMock) Create(company *model.Company) error {
	args := m.Called(company)
	return args.Error(0)
}

func (m *CompanyRepoMock) ByID(id string) (*model.Company, error) {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		return v.(*model.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompanyRepoMock) ByName(name string) (*model.Company, error) {
	args := m.Called(name)
	if v := args.Get(0); v != nil {
		return v.(*model.Company), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompanyRepoMock) Stats(id string) (*model.CompanyStats, error) {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		return v.(*model.CompanyStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompanyRepoMock) ListStats() ([]*model.CompanyStats, error) {
	args := m.Called()
	if v := args.Get(0); v != nil {
		return v.([]*model.CompanyStats), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CompanyRepoMock) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

type VideoRepoMock struct {
	mock.Mock
}

func (m *VideoRepoMock) Create(video *model.Video) error {
	args := m.Called(video)
	return args.Error(0)
}

func (m *VideoRepoMock) ByID(id string) (*model.Video, error) {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		return v.(*model.Video), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *VideoRepoMock) Update(video *model.Video) error {
	args := m.Called(video)
	return args.Error(0)
}

func (m *VideoRepoMock) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *VideoRepoMock) Search(opts repository.SearchOptions) ([]*model.VideoListItem, error) {
	args := m.Called(opts)
	if v := args.Get(0); v != nil {
		return v.([]*model.VideoListItem), args.Error(1)
	}
	return nil, args.Error(1)
}

type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) Save(ctx context.Context, path string, r io.Reader) error {
	args := m.Called(ctx, path, r)
	// Drain the reader like a real backend would, so byte counting and
	// ceiling enforcement behave as in production
	if args.Error(0) == nil {
		_, err := io.Copy(io.Discard, r)
		if err != nil {
			return err
		}
	}
	return args.Error(0)
}

func (m *StorageMock) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if v := args.Get(0); v != nil {
		return v.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StorageMock) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *StorageMock) Exists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *StorageMock) URL(path string) string {
	args := m.Called(path)
	return args.String(0)
}
