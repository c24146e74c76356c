package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"lecture-transcription/internal/domain"
	"lecture-transcription/internal/domain/model"
	"lecture-transcription/internal/infra/logging"

	"github.com/go-chi/chi/v5"
)

type createLectureRequest struct {
	AuthorID  string   `json:"author_id"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	ObjectKey string   `json:"object_key"`
}

type updateLectureRequest struct {
	Title *string  `json:"title"`
	Tags  []string `json:"tags"`
}

type lectureResponse struct {
	ID           string                     `json:"id"`
	AuthorID     string                     `json:"author_id"`
	Title        string                     `json:"title"`
	Tags         []string                   `json:"tags"`
	Status       string                     `json:"status"`
	Content      *model.TranscriptionResult `json:"content,omitempty"`
	Error        string                     `json:"error,omitempty"`
	ObjectKey    string                     `json:"object_key"`
	RegisteredAt time.Time                  `json:"registered_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
	PublishedAt  *time.Time                 `json:"published_at,omitempty"`
}

type lectureListResponse struct {
	Items []lectureResponse `json:"items"`
	Total int               `json:"total"`
}

func toResponse(lec *model.Lecture) lectureResponse {
	tags := make([]string, len(lec.Tags))
	for i, t := range lec.Tags {
		tags[i] = t.String()
	}
	return lectureResponse{
		ID:           lec.ID,
		AuthorID:     lec.AuthorID,
		Title:        lec.Title.String(),
		Tags:         tags,
		Status:       string(lec.Status),
		Content:      lec.Content,
		Error:        lec.LastError,
		ObjectKey:    lec.ObjectKey,
		RegisteredAt: lec.RegisteredAt,
		UpdatedAt:    lec.UpdatedAt,
		PublishedAt:  lec.PublishedAt,
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createLectureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := logging.WithAuthorID(r.Context(), req.AuthorID)
	lec, err := s.lectureUC.Create(ctx, req.AuthorID, req.Title, req.Tags, req.ObjectKey)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toResponse(lec))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	lec, err := s.lectureUC.Get(r.Context(), chi.URLParam(r, "lectureID"))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(lec))
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, _ := strconv.Atoi(q.Get("offset"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	items, total, err := s.lectureUC.List(r.Context(), q.Get("author_id"), offset, limit)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	resp := lectureListResponse{Items: make([]lectureResponse, 0, len(items)), Total: total}
	for _, lec := range items {
		resp.Items = append(resp.Items, toResponse(lec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateLectureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	lec, err := s.lectureUC.UpdateInfo(r.Context(), chi.URLParam(r, "lectureID"), req.Title, req.Tags)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toResponse(lec))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.lectureUC.Delete(r.Context(), chi.URLParam(r, "lectureID")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "lecture not found")
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logging.With(r.Context(), s.log).Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
