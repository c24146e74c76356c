package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"lecture-transcription/internal/domain"
	"lecture-transcription/internal/domain/model"
	"lecture-transcription/internal/domain/ports/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var _ repository.LectureRepository = (*lectureRepo)(nil)

type lectureRepo struct {
	pool *pgxpool.Pool
}

func NewLectureRepo(pool *pgxpool.Pool) *lectureRepo {
	return &lectureRepo{pool: pool}
}

// Save upserts the full entity state. The pipeline calls it after every
// transition, so the row always mirrors the in-memory lecture.
func (r *lectureRepo) Save(ctx context.Context, lec *model.Lecture) error {
	if lec.ID == "" {
		lec.ID = uuid.NewString()
	}

	var content []byte
	if lec.Content != nil {
		b, err := json.Marshal(lec.Content)
		if err != nil {
			return fmt.Errorf("marshal transcript: %w", err)
		}
		content = b
	}

	const q = `
INSERT INTO lectures (id, author_id, title, tags, status, content, last_error, object_key, registered_at, updated_at, published_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
  title = EXCLUDED.title,
  tags = EXCLUDED.tags,
  status = EXCLUDED.status,
  content = EXCLUDED.content,
  last_error = EXCLUDED.last_error,
  updated_at = EXCLUDED.updated_at,
  published_at = EXCLUDED.published_at;`

	_, err := r.pool.Exec(ctx, q,
		lec.ID, lec.AuthorID, lec.Title.String(), tagsToStrings(lec.Tags), string(lec.Status),
		content, lec.LastError, lec.ObjectKey, lec.RegisteredAt, lec.UpdatedAt, lec.PublishedAt)
	return err
}

const selectColumns = `id, author_id, title, tags, status, content, last_error, object_key, registered_at, updated_at, published_at`

func (r *lectureRepo) FindByID(ctx context.Context, id string) (*model.Lecture, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM lectures WHERE id = $1`, id)
	lec, err := scanLecture(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return lec, nil
}

func (r *lectureRepo) FindMany(ctx context.Context, authorID string, offset, limit int) ([]*model.Lecture, error) {
	q := `SELECT ` + selectColumns + ` FROM lectures`
	args := []interface{}{}
	if authorID != "" {
		q += ` WHERE author_id = $1 ORDER BY registered_at DESC OFFSET $2 LIMIT $3`
		args = append(args, authorID, offset, limit)
	} else {
		q += ` ORDER BY registered_at DESC OFFSET $1 LIMIT $2`
		args = append(args, offset, limit)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Lecture
	for rows.Next() {
		lec, err := scanLecture(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lec)
	}
	return out, rows.Err()
}

func (r *lectureRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *lectureRepo) Count(ctx context.Context, authorID string) (int, error) {
	var cnt int
	var err error
	if authorID != "" {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lectures WHERE author_id = $1`, authorID).Scan(&cnt)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM lectures`).Scan(&cnt)
	}
	return cnt, err
}

func scanLecture(row pgx.Row) (*model.Lecture, error) {
	var (
		lec       model.Lecture
		title     string
		tags      []string
		status    string
		content   []byte
		published *time.Time
	)
	err := row.Scan(
		&lec.ID, &lec.AuthorID, &title, &tags, &status,
		&content, &lec.LastError, &lec.ObjectKey, &lec.RegisteredAt, &lec.UpdatedAt, &published,
	)
	if err != nil {
		return nil, err
	}
	lec.Title = model.Title(title)
	lec.Tags = stringsToTags(tags)
	lec.Status = model.LectureStatus(status)
	lec.PublishedAt = published
	if len(content) > 0 {
		var result model.TranscriptionResult
		if err := json.Unmarshal(content, &result); err != nil {
			return nil, fmt.Errorf("unmarshal transcript: %w", err)
		}
		lec.Content = &result
	}
	return &lec, nil
}

func tagsToStrings(tags []model.Tag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

func stringsToTags(ss []string) []model.Tag {
	if len(ss) == 0 {
		return nil
	}
	out := make([]model.Tag, len(ss))
	for i, s := range ss {
		out[i] = model.Tag(s)
	}
	return out
}
