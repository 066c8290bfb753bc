package dto

// Absent JSON fields decode to nil so services can tell "missing" from "blank".

// LoginRequest is the body of POST /auth?action=login.
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// RegisterRequest is the body of POST /auth?action=register.
type RegisterRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
}

// UpdateProfileRequest is the body of PUT /profile. Fields outside the
// allow-list are ignored by the decoder.
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}
