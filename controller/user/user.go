package user

import (
	"errors"
	"net/http"
	"time"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func UserController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/user")
	{
		routes.GET("/profile", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetProfile(c, db)
		})
		routes.PUT("/profile", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			UpdateProfile(c, db)
		})
		routes.DELETE("/account", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			DeactivateAccount(c, db)
		})
	}
}

func GetProfile(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var user model.User
	if err := db.Where("user_id = ?", userId).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if user.DeletedAt != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "User account is deactivated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":            user.UserID,
		"email":             user.Email,
		"nickname":          user.Nickname,
		"personalAlarmLead": user.PersonalAlarmLead,
		"teamAlarmLead":     user.TeamAlarmLead,
		"createAt":          user.CreateAt,
	})
}

func UpdateProfile(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	updates := map[string]interface{}{}
	if req.Nickname != nil {
		updates["nickname"] = *req.Nickname
	}
	if req.FCMToken != nil {
		updates["fcm_token"] = *req.FCMToken
	}
	if req.PersonalAlarmLead != nil {
		updates["personal_alarm_lead"] = *req.PersonalAlarmLead
	}
	if req.TeamAlarmLead != nil {
		updates["team_alarm_lead"] = *req.TeamAlarmLead
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	result := db.Model(&model.User{}).Where("user_id = ? AND deleted_at IS NULL", userId).Updates(updates)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// DeactivateAccount soft-deletes the user: the row stays for joins and
// history, but sign-in and the alarm feed refuse it from now on.
func DeactivateAccount(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	now := time.Now()
	result := db.Model(&model.User{}).Where("user_id = ? AND deleted_at IS NULL", userId).
		Updates(map[string]interface{}{
			"deleted_at":         now,
			"refresh_token_hash": nil,
			"fcm_token":          nil,
		})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate account"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deactivated"})
}
