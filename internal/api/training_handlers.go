package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/auth"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
)

func (h *Handler) trainingsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listTrainings(w, r)
	case http.MethodPost:
		h.addTraining(w, r)
	case http.MethodDelete:
		h.deleteUserTrainings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) trainingSubtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/trainings/")

	if date, ok := strings.CutPrefix(path, "finished-after/"); ok {
		h.trainingsFinishedAfter(w, r, date)
		return
	}

	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing training id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getTraining(w, r, path)
	case http.MethodPut:
		h.updateTraining(w, r, path)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) listTrainings(w http.ResponseWriter, r *http.Request) {
	if !authorizeRead(w, r, auth.ScopeTrainingsRead, auth.ScopeTrainingsWrite) {
		return
	}

	query := r.URL.Query()

	var trainings []domain.Training
	var err error
	switch {
	case query.Get("user_id") != "":
		trainings, err = h.trainings.ListTrainingsForUser(r.Context(), query.Get("user_id"))
	case query.Get("activity_type") != "":
		var activity domain.ActivityType
		activity, err = domain.ParseActivityType(query.Get("activity_type"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		trainings, err = h.trainings.ListByActivityType(r.Context(), activity)
	default:
		trainings, err = h.trainings.ListTrainings(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toTrainingList(trainings))
}

func (h *Handler) addTraining(w http.ResponseWriter, r *http.Request) {
	if !authorizeWrite(w, r, auth.ScopeTrainingsWrite) {
		return
	}

	var req AddTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	activity, err := domain.ParseActivityType(req.ActivityType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	user, err := h.users.GetUser(r.Context(), req.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	stored, err := h.trainings.AddTraining(r.Context(), domain.Training{
		User:         *user,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ActivityType: activity,
		Distance:     req.Distance,
		AverageSpeed: req.AverageSpeed,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTrainingAlreadyPersisted) {
			writeError(w, http.StatusConflict, "invalid_state", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toTrainingView(*stored))
}

func (h *Handler) getTraining(w http.ResponseWriter, r *http.Request, id string) {
	if !authorizeRead(w, r, auth.ScopeTrainingsRead, auth.ScopeTrainingsWrite) {
		return
	}

	training, err := h.trainings.GetTraining(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTrainingNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "training not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toTrainingView(*training))
}

func (h *Handler) trainingsFinishedAfter(w http.ResponseWriter, r *http.Request, rawDate string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorizeRead(w, r, auth.ScopeTrainingsRead, auth.ScopeTrainingsWrite) {
		return
	}

	cutoff, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date, expected yyyy-mm-dd")
		return
	}

	trainings, err := h.trainings.ListFinishedAfter(r.Context(), cutoff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toTrainingList(trainings))
}

// updateTraining loads the stored training first so the replacement keeps its
// owner, then applies the new session fields.
func (h *Handler) updateTraining(w http.ResponseWriter, r *http.Request, id string) {
	if !authorizeWrite(w, r, auth.ScopeTrainingsWrite) {
		return
	}

	original, err := h.trainings.GetTraining(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrTrainingNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "training not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	var req UpdateTrainingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	activity, err := domain.ParseActivityType(req.ActivityType)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	stored, err := h.trainings.UpdateTraining(r.Context(), domain.Training{
		ID:           original.ID,
		User:         original.User,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ActivityType: activity,
		Distance:     req.Distance,
		AverageSpeed: req.AverageSpeed,
		CreatedAt:    original.CreatedAt,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toTrainingView(*stored))
}

func (h *Handler) deleteUserTrainings(w http.ResponseWriter, r *http.Request) {
	if !authorizeWrite(w, r, auth.ScopeTrainingsWrite) {
		return
	}

	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing user_id parameter")
		return
	}

	if err := h.trainings.DeleteUserTrainings(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddTrainingRequest is the payload for POST /v1/trainings.
type AddTrainingRequest struct {
	UserID       string    `json:"user_id"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	ActivityType string    `json:"activity_type"`
	Distance     float64   `json:"distance"`
	AverageSpeed float64   `json:"average_speed"`
}

// Validate ensures request correctness.
func (r AddTrainingRequest) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if r.StartTime.IsZero() {
		return errors.New("start_time is required")
	}
	if r.EndTime.IsZero() {
		return errors.New("end_time is required")
	}
	if strings.TrimSpace(r.ActivityType) == "" {
		return errors.New("activity_type is required")
	}
	return nil
}

// UpdateTrainingRequest is the payload for PUT /v1/trainings/{id}. The owner
// is taken from the stored record, not the request.
type UpdateTrainingRequest struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	ActivityType string    `json:"activity_type"`
	Distance     float64   `json:"distance"`
	AverageSpeed float64   `json:"average_speed"`
}

// Validate ensures request correctness.
func (r UpdateTrainingRequest) Validate() error {
	if r.StartTime.IsZero() {
		return errors.New("start_time is required")
	}
	if r.EndTime.IsZero() {
		return errors.New("end_time is required")
	}
	if strings.TrimSpace(r.ActivityType) == "" {
		return errors.New("activity_type is required")
	}
	return nil
}

// TrainingView exposes full details about a training.
type TrainingView struct {
	TrainingID    string    `json:"training_id"`
	User          UserView  `json:"user"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	ActivityType  string    `json:"activity_type"`
	ActivityLabel string    `json:"activity_label"`
	Distance      float64   `json:"distance"`
	AverageSpeed  float64   `json:"average_speed"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ListTrainingsResponse packages list results.
type ListTrainingsResponse struct {
	Items []TrainingView `json:"items"`
}

func toTrainingView(training domain.Training) TrainingView {
	return TrainingView{
		TrainingID:    training.ID,
		User:          toUserView(training.User),
		StartTime:     training.StartTime,
		EndTime:       training.EndTime,
		ActivityType:  string(training.ActivityType),
		ActivityLabel: training.ActivityType.DisplayName(),
		Distance:      training.Distance,
		AverageSpeed:  training.AverageSpeed,
		CreatedAt:     training.CreatedAt,
		UpdatedAt:     training.UpdatedAt,
	}
}

func toTrainingList(trainings []domain.Training) ListTrainingsResponse {
	items := make([]TrainingView, 0, len(trainings))
	for _, training := range trainings {
		items = append(items, toTrainingView(training))
	}
	return ListTrainingsResponse{Items: items}
}
