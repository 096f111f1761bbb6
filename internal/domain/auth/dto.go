package auth

type RegisterRequest struct {
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Name        string   `json:"name" validate:"required"`
	PhoneNumber string   `json:"phone_number" validate:"omitempty,phone"`
	UserType    Role     `json:"user_type"`
	RegionName  string   `json:"region_name"`
	Location    string   `json:"location"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries optional profile fields; role is never
// accepted here.
type UpdateProfileRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	PhoneNumber *string  `json:"phone_number" validate:"omitempty,phone"`
	RegionName  *string  `json:"region_name"`
	Location    *string  `json:"location"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
}

type Session struct {
	User         *User  `json:"user"`
	SessionToken string `json:"session_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
