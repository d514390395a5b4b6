package domain

type LoginRequest struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Message string `json:"message"`
}
