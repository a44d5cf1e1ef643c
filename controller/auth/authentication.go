package auth

import (
	"crypto/sha256"
	"errors"
	"net/http"
	"os"
	"time"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func AuthController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/auth")
	{
		routes.POST("/signin", func(c *gin.Context) {
			Signin(c, db)
		})
		routes.POST("/signout", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			Signout(c, db)
		})
		routes.POST("/newaccesstoken", middleware.RefreshTokenMiddleware(), func(c *gin.Context) {
			NewAccessToken(c, db)
		})
	}
}

func CreateAccessToken(userID uint) (string, error) {
	hmacSampleSecret := []byte(os.Getenv("JWT_SECRET_KEY"))
	claims := &model.AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "taskmate",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(hmacSampleSecret)
}

func CreateRefreshToken(userID uint) (string, error) {
	refreshTokenSecret := []byte(os.Getenv("JWT_REFRESH_SECRET_KEY"))
	claims := &model.RefreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "taskmate",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(7 * 24 * time.Hour)), // Longer-lived token (7 days)
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(refreshTokenSecret)
}

func HashRefreshToken(token string) (string, error) {
	// sha256 first so the input to bcrypt has a fixed 32-byte length
	hash := sha256.Sum256([]byte(token))

	hashedToken, err := bcrypt.GenerateFromPassword(hash[:], bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedToken), nil
}

func CompareRefreshToken(stored string, token string) error {
	hash := sha256.Sum256([]byte(token))
	return bcrypt.CompareHashAndPassword([]byte(stored), hash[:])
}

// verifyProviderToken validates the OAuth provider's signed ID token
// against the provider's published JWKS and returns its subject, email and
// display name.
func verifyProviderToken(idToken string) (string, string, string, error) {
	jwksURL := os.Getenv("OAUTH_JWKS_URL")
	if jwksURL == "" {
		return "", "", "", errors.New("OAuth JWKS URL not configured")
	}

	kf, err := keyfunc.NewDefault([]string{jwksURL})
	if err != nil {
		return "", "", "", err
	}

	token, err := jwt.Parse(idToken, kf.Keyfunc,
		jwt.WithIssuer(os.Getenv("OAUTH_ISSUER")),
		jwt.WithAudience(os.Getenv("OAUTH_CLIENT_ID")),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", "", errors.New("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", "", "", errors.New("missing subject in token")
	}
	email, _ := claims["email"].(string)
	nickname, _ := claims["nickname"].(string)
	if nickname == "" {
		nickname, _ = claims["name"].(string)
	}

	return sub, email, nickname, nil
}

func Signin(c *gin.Context, db *gorm.DB) {
	var request dto.SigninRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, email, nickname, err := verifyProviderToken(request.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid provider token: " + err.Error()})
		return
	}

	var user model.User
	result := db.Where("provider_id = ?", sub).First(&user)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		user = model.User{
			Email:      email,
			Nickname:   nickname,
			ProviderID: sub,
		}
		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}
	}

	if user.DeletedAt != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "User account is deactivated"})
		return
	}

	accessToken, err := CreateAccessToken(uint(user.UserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	refreshToken, err := CreateRefreshToken(uint(user.UserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	refreshHash, err := HashRefreshToken(refreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}

	updates := map[string]interface{}{"refresh_token_hash": refreshHash}
	if request.FCMToken != "" {
		updates["fcm_token"] = request.FCMToken
	}
	if err := db.Model(&model.User{}).Where("user_id = ?", user.UserID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
		"user": gin.H{
			"userId":   user.UserID,
			"email":    user.Email,
			"nickname": user.Nickname,
		},
	})
}

func NewAccessToken(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)
	refreshToken := c.MustGet("refreshToken").(string)

	var user model.User
	if err := db.Where("user_id = ?", userId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if user.RefreshTokenHash == nil || CompareRefreshToken(*user.RefreshTokenHash, refreshToken) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token has been revoked"})
		return
	}

	accessToken, err := CreateAccessToken(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	newRefreshToken, err := CreateRefreshToken(userId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}
	refreshHash, err := HashRefreshToken(newRefreshToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}
	if err := db.Model(&model.User{}).Where("user_id = ?", userId).
		Update("refresh_token_hash", refreshHash).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store token"})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	})
}

func Signout(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	if err := db.Model(&model.User{}).Where("user_id = ?", userId).
		Updates(map[string]interface{}{
			"refresh_token_hash": nil,
			"fcm_token":          nil,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Signed out successfully"})
}
