package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"timeclock/internal/attendance"
	"timeclock/internal/attendance/models"
	"timeclock/internal/attendance/store"

	dErrors "timeclock/pkg/domain-errors"
)

// AttendanceService defines the punch operations the handler needs.
type AttendanceService interface {
	RecordEntry(ctx context.Context, req attendance.RecordEntryRequest) (*models.Entry, error)
	UpdateEntry(ctx context.Context, id int64, req attendance.UpdateEntryRequest) (*models.Entry, error)
	GetByID(ctx context.Context, id int64) (*models.Entry, error)
	Remove(ctx context.Context, id int64) error
	ListByPerson(ctx context.Context, personID int64, page, size int, sortField, sortDir string) (*store.Page, error)
	ListAllByPerson(ctx context.Context, personID int64) ([]models.Entry, error)
	LastByPerson(ctx context.Context, personID int64) (*models.Entry, error)
}

type AttendanceHandler struct {
	registrar   AttendanceService
	defaultSize int
	authMW      func(http.Handler) http.Handler
	adminMW     func(http.Handler) http.Handler
}

func NewAttendanceHandler(registrar AttendanceService, defaultPageSize int, authMW, adminMW func(http.Handler) http.Handler) *AttendanceHandler {
	return &AttendanceHandler{
		registrar:   registrar,
		defaultSize: defaultPageSize,
		authMW:      authMW,
		adminMW:     adminMW,
	}
}

// Register wires the entry routes. Everything requires a session token;
// deletion additionally requires the admin role.
func (h *AttendanceHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authMW)
		r.Post("/api/entries", h.handleRecord)
		r.Get("/api/entries/{id}", h.handleGet)
		r.Put("/api/entries/{id}", h.handleUpdate)
		r.Get("/api/entries/person/{personID}", h.handleListByPerson)
		r.Get("/api/entries/person/{personID}/all", h.handleListAll)
		r.Get("/api/entries/person/{personID}/last", h.handleLast)

		r.Group(func(r chi.Router) {
			r.Use(h.adminMW)
			r.Delete("/api/entries/{id}", h.handleRemove)
		})
	})
}

type recordEntryRequest struct {
	PersonID    int64  `json:"personId"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

type updateEntryRequest struct {
	Timestamp   string  `json:"timestamp"`
	Type        string  `json:"type"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

type entryResponse struct {
	ID          int64  `json:"id"`
	Timestamp   string `json:"timestamp"`
	Type        string `json:"type"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	PersonID    int64  `json:"personId"`
}

type entryPageResponse struct {
	Entries []entryResponse `json:"entries"`
	Page    int             `json:"page"`
	Size    int             `json:"size"`
	Total   int64           `json:"total"`
}

func toEntryResponse(e *models.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Timestamp:   e.FormatTimestamp(),
		Type:        e.Type.String(),
		Location:    e.Location,
		Description: e.Description,
		PersonID:    e.PersonID,
	}
}

func (h *AttendanceHandler) handleRecord(w http.ResponseWriter, r *http.Request) {
	var req recordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	entry, err := h.registrar.RecordEntry(r.Context(), attendance.RecordEntryRequest{
		PersonID:     req.PersonID,
		RawTimestamp: req.Timestamp,
		PunchType:    req.Type,
		Location:     req.Location,
		Description:  req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEntryResponse(entry))
}

func (h *AttendanceHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	entry, err := h.registrar.UpdateEntry(r.Context(), id, attendance.UpdateEntryRequest{
		RawTimestamp: req.Timestamp,
		PunchType:    req.Type,
		Location:     req.Location,
		Description:  req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *AttendanceHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.registrar.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func (h *AttendanceHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.registrar.Remove(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AttendanceHandler) handleListByPerson(w http.ResponseWriter, r *http.Request) {
	personID, err := pathInt64(r, "personID")
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	page := queryInt(q.Get("page"), 0)
	size := queryInt(q.Get("size"), h.defaultSize)

	result, err := h.registrar.ListByPerson(r.Context(), personID, page, size, q.Get("sort"), q.Get("dir"))
	if err != nil {
		writeError(w, err)
		return
	}

	out := entryPageResponse{
		Entries: make([]entryResponse, 0, len(result.Entries)),
		Page:    result.Page,
		Size:    result.Size,
		Total:   result.Total,
	}
	for i := range result.Entries {
		out.Entries = append(out.Entries, toEntryResponse(&result.Entries[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *AttendanceHandler) handleListAll(w http.ResponseWriter, r *http.Request) {
	personID, err := pathInt64(r, "personID")
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.registrar.ListAllByPerson(r.Context(), personID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleLast returns the most recently recorded punch for a person, or 204
// when the person has none.
func (h *AttendanceHandler) handleLast(w http.ResponseWriter, r *http.Request) {
	personID, err := pathInt64(r, "personID")
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.registrar.LastByPerson(r.Context(), personID)
	if err != nil {
		writeError(w, err)
		return
	}
	if entry == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toEntryResponse(entry))
}

func queryInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
