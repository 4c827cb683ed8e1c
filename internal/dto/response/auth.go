package response

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RegisterResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	GUID     string `json:"guid"`
}

type GuestResponse struct {
	GuestID   string `json:"guestId"`
	Persisted bool   `json:"persisted"`
}
