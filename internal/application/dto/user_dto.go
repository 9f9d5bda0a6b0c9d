package dto

import "time"

// VerifyRequest body de POST /api/admin/verify.
type VerifyRequest struct {
	Password string `json:"password"`
}

// VerifyResponse token de sesión de administrador.
type VerifyResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
