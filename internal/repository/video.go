package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/vidvault/vidvault/internal/model"
)

var (
	ErrVideoNotFound   = errors.New("video not found")
	ErrInvalidSortKey  = errors.New("invalid sort key")
	ErrDuplicateUpload = errors.New("stored filename already exists")
)

// videoSortColumns whitelists sort keys; the column name is never taken
// from user input directly.
var videoSortColumns = map[string]string{
	"created_at": "v.created_at",
	"title":      "v.title",
	"file_size":  "v.file_size",
	"duration":   "v.duration",
}

// SearchOptions filters and orders a catalog listing. An empty Query
// matches everything; a nil CompanyID disables tenant filtering (admin
// listings).
type SearchOptions struct {
	Query     string
	CompanyID *string
	SortKey   string // one of created_at, title, file_size, duration
	Desc      bool
}

type VideoRepository interface {
	Create(video *model.Video) error
	ByID(id string) (*model.Video, error)
	Update(video *model.Video) error
	Delete(id string) error
	Search(opts SearchOptions) ([]*model.VideoListItem, error)
}

type videoRepository struct {
	db *sqlx.DB
}

func NewVideoRepository(db *sqlx.DB) VideoRepository {
	return &videoRepository{db: db}
}

func (r *videoRepository) Create(video *model.Video) error {
	query := `INSERT INTO videos (id, uploaded_by, company_id, filename, original_name, title, description, tags, storage_path, file_size, format, duration, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.Exec(query,
		video.ID,
		video.UploadedBy,
		video.CompanyID,
		video.Filename,
		video.OriginalName,
		video.Title,
		video.Description,
		video.Tags,
		video.StoragePath,
		video.FileSize,
		video.Format,
		video.Duration,
		video.CreatedAt,
		video.UpdatedAt,
	)
	if err != nil {
		errStr := err.Error()
		if containsUniqueViolation(errStr) && strings.Contains(errStr, "filename") {
			return ErrDuplicateUpload
		}
		return err
	}

	return nil
}

func (r *videoRepository) ByID(id string) (*model.Video, error) {
	video := &model.Video{}
	query := `SELECT * FROM videos WHERE id = $1`

	err := r.db.Get(video, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrVideoNotFound
	}

	return video, err
}

// Update touches only the descriptive fields. Ownership, tenant, path and
// size are immutable after commit.
func (r *videoRepository) Update(video *model.Video) error {
	query := `UPDATE videos SET title = $1, description = $2, tags = $3, updated_at = $4 WHERE id = $5`

	result, err := r.db.Exec(query, video.Title, video.Description, video.Tags, video.UpdatedAt, video.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrVideoNotFound
	}

	return nil
}

func (r *videoRepository) Delete(id string) error {
	query := `DELETE FROM videos WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrVideoNotFound
	}

	return nil
}

func (r *videoRepository) Search(opts SearchOptions) ([]*model.VideoListItem, error) {
	column, ok := videoSortColumns[opts.SortKey]
	if opts.SortKey == "" {
		column = videoSortColumns["created_at"]
	} else if !ok {
		return nil, ErrInvalidSortKey
	}

	direction := "ASC"
	if opts.Desc {
		direction = "DESC"
	}

	query := `
		SELECT v.*, u.username AS uploader_name
		FROM videos v
		LEFT JOIN users u ON v.uploaded_by = u.id
	`
	var conditions []string
	var args []any

	if opts.CompanyID != nil {
		args = append(args, *opts.CompanyID)
		conditions = append(conditions, fmt.Sprintf("v.company_id = $%d", len(args)))
	}

	if opts.Query != "" {
		args = append(args, "%"+strings.ToLower(opts.Query)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(v.title) LIKE $%d OR LOWER(v.description) LIKE $%d OR LOWER(v.tags) LIKE $%d)", n, n, n))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	var items []*model.VideoListItem
	err := r.db.Select(&items, query, args...)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func containsUniqueViolation(errStr string) bool {
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}
