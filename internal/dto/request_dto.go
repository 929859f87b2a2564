package dto

type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type JobPostingRequest struct {
	Title       string `json:"title" form:"title"`
	Department  string `json:"department" form:"department"`
	Location    string `json:"location" form:"location"`
	Description string `json:"description" form:"description"`
}
