//go:build !integration

package web

import (
	"context"
	"sync"
	"time"

	"lecture-transcription/internal/domain"
	"lecture-transcription/internal/domain/model"
)

// mockLectureUC is an in-memory LectureUseCase for handler tests.
type mockLectureUC struct {
	mu    sync.Mutex
	store map[string]*model.Lecture
}

func newMockLectureUC() *mockLectureUC {
	return &mockLectureUC{store: map[string]*model.Lecture{}}
}

func (m *mockLectureUC) Create(ctx context.Context, authorID, title string, tags []string, objectKey string) (*model.Lecture, error) {
	vTitle, err := model.NewTitle(title)
	if err != nil {
		return nil, err
	}
	vTags, err := model.NewTags(tags)
	if err != nil {
		return nil, err
	}
	lec, err := model.NewLecture("", authorID, vTitle, vTags, objectKey, time.Now())
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[lec.ID] = lec
	return lec, nil
}

func (m *mockLectureUC) Get(ctx context.Context, id string) (*model.Lecture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lec, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return lec, nil
}

func (m *mockLectureUC) List(ctx context.Context, authorID string, offset, limit int) ([]*model.Lecture, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Lecture
	for _, lec := range m.store {
		if authorID == "" || lec.AuthorID == authorID {
			out = append(out, lec)
		}
	}
	return out, len(out), nil
}

func (m *mockLectureUC) UpdateInfo(ctx context.Context, id string, title *string, tags []string) (*model.Lecture, error) {
	lec, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var vTitle *model.Title
	if title != nil {
		t, err := model.NewTitle(*title)
		if err != nil {
			return nil, err
		}
		vTitle = &t
	}
	var vTags []model.Tag
	if tags != nil {
		vTags, err = model.NewTags(tags)
		if err != nil {
			return nil, err
		}
	}
	lec.UpdateInfo(time.Now(), vTitle, vTags)
	return lec, nil
}

func (m *mockLectureUC) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}
