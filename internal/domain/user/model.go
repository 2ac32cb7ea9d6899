package user

// User is the recipient side of the pipeline. Credentials live elsewhere.
type User struct {
	ID          int64
	Username    string
	Email       string
	DisplayName string
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID   int64
	Username string
}
