package api

// CreateUserRequest is the body of POST /api/users. All fields are required.
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}.
// Empty fields keep their stored value; the password is not updatable.
type UpdateUserRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role,omitempty"`
}

// User is the public representation of a stored user.
// Password carries the bcrypt hash, never the plaintext.
type User struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}
