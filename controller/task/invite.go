package task

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"time"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func InviteController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/task")
	{
		routes.POST("/invite/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			CreateInvite(c, db)
		})
		routes.POST("/join", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			JoinTask(c, db)
		})
	}
}

// generateSecureToken returns a random hex token of 2*length characters.
func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// CreateInvite issues an invite code for a team task. Only the owner can
// issue one; reissuing replaces the previous code.
func CreateInvite(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	member, err := requireMembership(db, taskID, userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return
	}
	if member.Role != model.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the task owner can create invites"})
		return
	}

	var task model.Tasks
	if err := db.Where("task_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if task.TaskType != "team" {
		c.JSON(http.StatusConflict, gin.H{"error": "Invites are only available for team tasks"})
		return
	}

	code, err := generateSecureToken(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invite code"})
		return
	}
	expiresAt := time.Now().Add(7 * 24 * time.Hour)

	if err := db.Model(&model.Tasks{}).Where("task_id = ?", taskID).
		Updates(map[string]interface{}{
			"invite_code":       code,
			"invite_expires_at": expiresAt,
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store invite code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Invite code created successfully",
		"inviteCode": code,
		"expiresAt":  expiresAt.Format(time.RFC3339),
	})
}

// JoinTask consumes an invite code and creates a MEMBER membership. The
// unique (task, user) index makes repeated joins harmless.
func JoinTask(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var req dto.JoinTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var task model.Tasks
	if err := db.Where("invite_code = ? AND invite_expires_at > ?", req.InviteCode, time.Now()).
		First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Invalid or expired invite code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var existing int64
	if err := db.Model(&model.TaskMember{}).
		Where("task_id = ? AND user_id = ?", task.TaskID, userId).
		Count(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusOK, gin.H{
			"message": "Already a member of this task",
			"taskId":  task.TaskID,
		})
		return
	}

	member := model.TaskMember{
		TaskID: task.TaskID,
		UserID: int(userId),
		Role:   model.RoleMember,
	}
	if err := db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Joined task successfully",
		"taskId":  task.TaskID,
	})
}
