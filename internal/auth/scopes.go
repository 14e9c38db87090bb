package auth

// Known OAuth scopes used by the API.
const (
	ScopeUsersRead      = "users:read"
	ScopeUsersWrite     = "users:write"
	ScopeTrainingsRead  = "trainings:read"
	ScopeTrainingsWrite = "trainings:write"
)
