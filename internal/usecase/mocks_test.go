package usecase

import (
	"context"
	"fmt"
	"sync"

	"lecture-transcription/internal/domain"
	"lecture-transcription/internal/domain/model"
)

// memLectureRepo is a small in-memory implementation used by unit tests.
type memLectureRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.Lecture
	saveErr error // used by tests to simulate save failures
	saves   int
}

func newMemLectureRepo() *memLectureRepo {
	return &memLectureRepo{store: make(map[string]*model.Lecture)}
}

func (m *memLectureRepo) Save(ctx context.Context, lec *model.Lecture) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *lec
	m.store[lec.ID] = &cp
	m.saves++
	return nil
}

func (m *memLectureRepo) FindByID(ctx context.Context, id string) (*model.Lecture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	lec, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *lec
	return &cp, nil
}

func (m *memLectureRepo) FindMany(ctx context.Context, authorID string, offset, limit int) ([]*model.Lecture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Lecture
	for _, lec := range m.store {
		if authorID != "" && lec.AuthorID != authorID {
			continue
		}
		cp := *lec
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memLectureRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *memLectureRepo) Count(ctx context.Context, authorID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cnt := 0
	for _, lec := range m.store {
		if authorID == "" || lec.AuthorID == authorID {
			cnt++
		}
	}
	return cnt, nil
}

// fakeStorage serves canned objects and records every local delete so tests
// can assert exactly-once release.
type fakeStorage struct {
	mu          sync.Mutex
	objects     map[string]string // objectKey -> local path handed out
	downloads   []string
	deleted     []string
	downloadErr error
	deleteErr   error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]string{}}
}

func (f *fakeStorage) Download(ctx context.Context, objectKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return "", f.downloadErr
	}
	path, ok := f.objects[objectKey]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrStorageNotFound, objectKey)
	}
	f.downloads = append(f.downloads, objectKey)
	return path, nil
}

func (f *fakeStorage) DeleteLocal(ctx context.Context, localPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, localPath)
	return nil
}

func (f *fakeStorage) deleteCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.deleted {
		if p == path {
			n++
		}
	}
	return n
}

// fakeAudio normalizes by appending a suffix, or passes through in place.
type fakeAudio struct {
	inPlace      bool
	duration     float64
	normalizeErr error
	durationErr  error
}

func (f *fakeAudio) Normalize(ctx context.Context, localPath string) (string, error) {
	if f.normalizeErr != nil {
		return "", f.normalizeErr
	}
	if f.inPlace {
		return localPath, nil
	}
	return localPath + ".wav", nil
}

func (f *fakeAudio) Duration(ctx context.Context, localPath string) (float64, error) {
	if f.durationErr != nil {
		return 0, f.durationErr
	}
	return f.duration, nil
}

// fakeSTT returns canned segments and records the segment it was given.
type fakeSTT struct {
	segments []model.TranscriptionSegment
	err      error
	name     string
	gotSeg   model.AudioSegment
}

func (f *fakeSTT) Transcribe(ctx context.Context, segment model.AudioSegment) ([]model.TranscriptionSegment, error) {
	f.gotSeg = segment
	if f.err != nil {
		return nil, f.err
	}
	return f.segments, nil
}

func (f *fakeSTT) ModelName() string {
	if f.name == "" {
		return "fake-whisper"
	}
	return f.name
}

// fakeNotifier records the status carried by each snapshot, in order.
type fakeNotifier struct {
	mu       sync.Mutex
	statuses []model.LectureStatus
	err      error
}

func (f *fakeNotifier) NotifyStatus(ctx context.Context, lec *model.Lecture) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, lec.Status)
	return f.err
}

// fakeDispatcher records enqueued lecture ids.
type fakeDispatcher struct {
	enqueued []string
	err      error
}

func (f *fakeDispatcher) EnqueueTranscription(ctx context.Context, lectureID string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, lectureID)
	return nil
}
