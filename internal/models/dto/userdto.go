package dto

// RegisterRequestDTO carries the credentials for a new account. The source
// system performs no password-strength validation; only length bounds that
// match the repository layer are enforced here.
type RegisterRequestDTO struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=64"`
}

// TokenResponseDTO returns the signed bearer token issued on registration or login.
type TokenResponseDTO struct {
	Token string `json:"token"`
}
