package model

type RegisterDTO struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	Nickname        string `json:"nickname"`
	Email           string `json:"email"`
	School          string `json:"school"`
	Grade           string `json:"grade"`
}
