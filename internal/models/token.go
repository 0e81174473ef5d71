package models

// AuthClaims is the identity asserted by a validated session token.
type AuthClaims struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
}

// LoginResult is what a successful credential check hands back to the caller.
type LoginResult struct {
	Token string `json:"token"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
