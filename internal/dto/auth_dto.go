package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type RegisterUserRequest struct {
	Username       string  `json:"username"         validate:"required,min=1,max=150"`
	Email          string  `json:"email"            validate:"required,email,max=254"`
	Phone          *string `json:"phone"            validate:"omitempty,max=32"`
	Password       string  `json:"password"         validate:"required,min=8"`
	IsPersonalData bool    `json:"is_personal_data"`
	TgChatID       *string `json:"tg_chat_id"       validate:"omitempty,max=64"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
type UpdateUserRequest struct {
	Username       *string `json:"username"         validate:"omitempty,min=1,max=150"`
	Email          *string `json:"email"            validate:"omitempty,email,max=254"`
	Phone          *string `json:"phone"            validate:"omitempty,max=32"`
	Password       *string `json:"password"         validate:"omitempty,min=8"`
	IsPersonalData *bool   `json:"is_personal_data"`
	TgChatID       *string `json:"tg_chat_id"       validate:"omitempty,max=64"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	Phone          *string `json:"phone"`
	IsActive       bool    `json:"is_active"`
	IsSuperuser    bool    `json:"is_superuser"`
	IsPersonalData bool    `json:"is_personal_data"`
	TgChatID       *string `json:"tg_chat_id"`
	SupplierID     *uint   `json:"supplier"`
	SupplierType   string  `json:"supplier_type,omitempty"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"` // seconds
	User         UserResponse `json:"user"`
}
