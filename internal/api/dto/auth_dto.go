package dto

// RegisterDTO is the POST /auth/register request body.
type RegisterDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginDTO is the POST /auth/login request body.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshDTO is the POST /auth/refresh request body.
type RefreshDTO struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthUser is the account shape returned after register/login.
type AuthUser struct {
	ID       string  `json:"id"`
	Name     *string `json:"name"`
	Email    string  `json:"email"`
	Username string  `json:"username"`
	Image    *string `json:"image"`
}

// AuthResponse is the login/refresh envelope.
type AuthResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken,omitempty"`
	User         AuthUser `json:"user"`
}
