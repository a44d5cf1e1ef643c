package dto

type SigninRequest struct {
	IDToken  string `json:"id_token" binding:"required"`
	FCMToken string `json:"fcm_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
