package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/auth"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/domain"
	"github.com/kacper2280/CapWSB-FitnessTracker-69241-MM/internal/persistence/memory"
)

type fixture struct {
	mux       *http.ServeMux
	users     *domain.UserService
	trainings *domain.TrainingService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := domain.NewUserService(memory.NewUserRepository())
	trainings := domain.NewTrainingService(memory.NewTrainingRepository(), users)
	handler := NewHandler(users, trainings, domain.NewUserRemover(users, trainings))

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	return &fixture{mux: mux, users: users, trainings: trainings}
}

func fullAccess() *auth.Claims {
	return &auth.Claims{
		Subject: "tester",
		Scopes: map[string]struct{}{
			auth.ScopeUsersRead:      {},
			auth.ScopeUsersWrite:     {},
			auth.ScopeTrainingsRead:  {},
			auth.ScopeTrainingsWrite: {},
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func readOnly() *auth.Claims {
	return &auth.Claims{
		Subject: "reader",
		Scopes: map[string]struct{}{
			auth.ScopeUsersRead:     {},
			auth.ScopeTrainingsRead: {},
		},
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func (f *fixture) do(t *testing.T, method, target string, claims *auth.Claims, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}

	req := httptest.NewRequest(method, target, &reader)
	if claims != nil {
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func decodeUser(t *testing.T, rec *httptest.ResponseRecorder) UserView {
	t.Helper()
	var view UserView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func (f *fixture) seedUser(t *testing.T, email string) UserView {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/v1/users", fullAccess(), UserPayload{
		FirstName: "Jan",
		LastName:  "Kowalski",
		Birthdate: "1990-05-20",
		Email:     email,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeUser(t, rec)
}

func TestCreateUserEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/users", fullAccess(), UserPayload{
		FirstName: "Anna",
		LastName:  "Nowak",
		Birthdate: "1988-11-02",
		Email:     "anna@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	view := decodeUser(t, rec)
	require.NotEmpty(t, view.UserID)
	require.Equal(t, "anna@example.com", view.Email)
	require.Equal(t, "1988-11-02", view.Birthdate)
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/users", fullAccess(), UserPayload{
		FirstName: "Anna",
		Birthdate: "1988-11-02",
		Email:     "anna@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/v1/users", fullAccess(), UserPayload{
		FirstName: "Anna",
		LastName:  "Nowak",
		Birthdate: "02-11-1988",
		Email:     "anna@example.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "dup@example.com")

	rec := f.do(t, http.MethodPost, "/v1/users", fullAccess(), UserPayload{
		FirstName: "Inny",
		LastName:  "Uzytkownik",
		Birthdate: "1992-02-02",
		Email:     "dup@example.com",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUserRequiresWriteScope(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/users", readOnly(), UserPayload{
		FirstName: "Anna",
		LastName:  "Nowak",
		Birthdate: "1988-11-02",
		Email:     "anna@example.com",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUserEndpointsRequireClaims(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/users", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUserEndpoint(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedUser(t, "jan@example.com")

	rec := f.do(t, http.MethodGet, "/v1/users/"+seeded.UserID, readOnly(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, seeded.UserID, decodeUser(t, rec).UserID)

	rec = f.do(t, http.MethodGet, "/v1/users/missing", readOnly(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserByEmailEndpoint(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedUser(t, "jan@example.com")

	rec := f.do(t, http.MethodGet, "/v1/users/by-email?email=jan%40example.com", readOnly(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, seeded.UserID, decodeUser(t, rec).UserID)

	rec = f.do(t, http.MethodGet, "/v1/users/by-email?email=nobody%40example.com", readOnly(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/users/by-email", readOnly(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsersBornBeforeEndpoint(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "jan@example.com") // born 1990-05-20

	rec := f.do(t, http.MethodGet, "/v1/users/born-before/1995-01-01", readOnly(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListUsersResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Items, 1)

	rec = f.do(t, http.MethodGet, "/v1/users/born-before/1980-01-01", readOnly(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list = ListUsersResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Empty(t, list.Items)

	rec = f.do(t, http.MethodGet, "/v1/users/born-before/not-a-date", readOnly(), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUserEndpoint(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedUser(t, "jan@example.com")

	rec := f.do(t, http.MethodPut, "/v1/users/"+seeded.UserID, fullAccess(), UserPayload{
		FirstName: "Jan",
		LastName:  "Kowalski-Nowak",
		Birthdate: "1990-05-20",
		Email:     "jan.new@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeUser(t, rec)
	require.Equal(t, seeded.UserID, view.UserID)
	require.Equal(t, "Kowalski-Nowak", view.LastName)
	require.Equal(t, "jan.new@example.com", view.Email)
	require.False(t, view.CreatedAt.IsZero())
	require.Equal(t, seeded.CreatedAt, view.CreatedAt)

	// the store keeps the original creation timestamp too
	rec = f.do(t, http.MethodGet, "/v1/users/"+seeded.UserID, readOnly(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, seeded.CreatedAt, decodeUser(t, rec).CreatedAt)
}

func TestUpdateUserMissing(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPut, "/v1/users/ghost", fullAccess(), UserPayload{
		FirstName: "Jan",
		LastName:  "Kowalski",
		Birthdate: "1990-05-20",
		Email:     "jan@example.com",
	})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "taken@example.com")
	second := f.seedUser(t, "second@example.com")

	rec := f.do(t, http.MethodPut, "/v1/users/"+second.UserID, fullAccess(), UserPayload{
		FirstName: "Jan",
		LastName:  "Kowalski",
		Birthdate: "1990-05-20",
		Email:     "taken@example.com",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteUserCascades(t *testing.T) {
	f := newFixture(t)
	seeded := f.seedUser(t, "jan@example.com")

	start := time.Date(2024, time.July, 1, 18, 0, 0, 0, time.UTC)
	rec := f.do(t, http.MethodPost, "/v1/trainings", fullAccess(), AddTrainingRequest{
		UserID:       seeded.UserID,
		StartTime:    start,
		EndTime:      start.Add(time.Hour),
		ActivityType: "RUNNING",
		Distance:     12,
		AverageSpeed: 12,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodDelete, "/v1/users/"+seeded.UserID, fullAccess(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/users/"+seeded.UserID, readOnly(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/v1/trainings?user_id="+seeded.UserID, readOnly(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListTrainingsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Empty(t, list.Items)
}

func TestDeleteUserMissingEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodDelete, "/v1/users/ghost", fullAccess(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
