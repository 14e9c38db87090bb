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

func (h *Handler) usersCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listUsers(w, r)
	case http.MethodPost:
		h.createUser(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) userSubtree(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/users/")

	if path == "by-email" {
		h.userByEmail(w, r)
		return
	}
	if date, ok := strings.CutPrefix(path, "born-before/"); ok {
		h.usersBornBefore(w, r, date)
		return
	}

	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing user id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getUser(w, r, path)
	case http.MethodPut:
		h.updateUser(w, r, path)
	case http.MethodDelete:
		h.deleteUser(w, r, path)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if !authorizeWrite(w, r, auth.ScopeUsersWrite) {
		return
	}

	var req UserPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	stored, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserAlreadyPersisted):
			writeError(w, http.StatusConflict, "invalid_state", err.Error())
		case errors.Is(err, domain.ErrEmailTaken):
			writeError(w, http.StatusConflict, "conflict", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, toUserView(*stored))
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !authorizeRead(w, r, auth.ScopeUsersRead, auth.ScopeUsersWrite) {
		return
	}

	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toUserList(users))
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request, id string) {
	if !authorizeRead(w, r, auth.ScopeUsersRead, auth.ScopeUsersWrite) {
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) userByEmail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorizeRead(w, r, auth.ScopeUsersRead, auth.ScopeUsersWrite) {
		return
	}

	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing email parameter")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	writeJSON(w, http.StatusOK, toUserView(*user))
}

func (h *Handler) usersBornBefore(w http.ResponseWriter, r *http.Request, rawDate string) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	if !authorizeRead(w, r, auth.ScopeUsersRead, auth.ScopeUsersWrite) {
		return
	}

	cutoff, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date, expected yyyy-mm-dd")
		return
	}

	users, err := h.users.ListBornBefore(r.Context(), cutoff)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toUserList(users))
}

// updateUser loads the stored user first so the replacement keeps its creation
// timestamp, then applies the new fields.
func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request, id string) {
	if !authorizeWrite(w, r, auth.ScopeUsersWrite) {
		return
	}

	original, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}
	if original == nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	var req UserPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	user, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	user.ID = original.ID
	user.CreatedAt = original.CreatedAt

	stored, err := h.users.UpdateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "conflict", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toUserView(*stored))
}

// deleteUser removes the user's trainings and then the user itself. The
// ordering lives in the domain workflow, not here.
func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request, id string) {
	if !authorizeWrite(w, r, auth.ScopeUsersWrite) {
		return
	}

	if err := h.remover.Remove(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UserPayload is the request body for user create and update.
type UserPayload struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Birthdate string `json:"birthdate"`
	Email     string `json:"email"`
}

func (p UserPayload) toDomain() (domain.User, error) {
	if strings.TrimSpace(p.FirstName) == "" {
		return domain.User{}, errors.New("first_name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return domain.User{}, errors.New("last_name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return domain.User{}, errors.New("email is required")
	}

	birthdate, err := time.Parse(dateLayout, p.Birthdate)
	if err != nil {
		return domain.User{}, errors.New("birthdate must be yyyy-mm-dd")
	}

	return domain.User{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Birthdate: birthdate,
		Email:     p.Email,
	}, nil
}

// UserView exposes user details over the wire.
type UserView struct {
	UserID    string    `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Birthdate string    `json:"birthdate"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListUsersResponse packages list results.
type ListUsersResponse struct {
	Items []UserView `json:"items"`
}

func toUserView(user domain.User) UserView {
	return UserView{
		UserID:    user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Birthdate: user.Birthdate.Format(dateLayout),
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func toUserList(users []domain.User) ListUsersResponse {
	items := make([]UserView, 0, len(users))
	for _, user := range users {
		items = append(items, toUserView(user))
	}
	return ListUsersResponse{Items: items}
}
