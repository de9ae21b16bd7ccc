package handler

import (
	"time"

	"github.com/vidvault/vidvault/internal/model"
)

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     *string   `json:"email"`
	CompanyID *string   `json:"company_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CompanyID: u.CompanyID,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	CompanyID *string `json:"company_id"`
	Role      *string `json:"role"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type VideoResponse struct {
	ID           string    `json:"id"`
	UploadedBy   string    `json:"uploaded_by"`
	CompanyID    *string   `json:"company_id"`
	OriginalName string    `json:"original_name"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Tags         string    `json:"tags"`
	FileSize     int64     `json:"file_size"`
	Format       string    `json:"format"`
	Duration     *int64    `json:"duration"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:           v.ID,
		UploadedBy:   v.UploadedBy,
		CompanyID:    v.CompanyID,
		OriginalName: v.OriginalName,
		Title:        v.Title,
		Description:  v.Description,
		Tags:         v.Tags,
		FileSize:     v.FileSize,
		Format:       v.Format,
		Duration:     v.Duration,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

type VideoListItemResponse struct {
	VideoResponse
	UploaderName string `json:"uploader_name"`
}

func toVideoListResponse(items []*model.VideoListItem) []VideoListItemResponse {
	out := make([]VideoListItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, VideoListItemResponse{
			VideoResponse: toVideoResponse(&item.Video),
			UploaderName:  item.UploaderName,
		})
	}
	return out
}

type UpdateVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

type CompanyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
	VideoCount  int       `json:"video_count"`
	CreatedAt   time.Time `json:"created_at"`
}

func toCompanyResponse(c *model.CompanyStats) CompanyResponse {
	return CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		MemberCount: c.MemberCount,
		VideoCount:  c.VideoCount,
		CreatedAt:   c.CreatedAt,
	}
}
