package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the available roles for role scoping and RBAC.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
	RoleParent  UserRole = "parent"
)

// Identity is the authenticated caller of a request: a role plus the user id
// the role is scoped to. It is immutable for the lifetime of the request and
// always passed explicitly, never read from ambient state.
type Identity struct {
	Role   UserRole `json:"role"`
	UserID string   `json:"user_id"`
}

// JWTClaims is the token payload issued by the identity provider.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}

// Identity extracts the request identity from the claims.
func (c *JWTClaims) Identity() Identity {
	return Identity{Role: c.Role, UserID: c.UserID}
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
