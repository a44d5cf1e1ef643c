package member

import (
	"errors"
	"net/http"
	"strconv"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func MemberController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/member")
	{
		routes.GET("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetMembers(c, db)
		})
		routes.PUT("/role/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			TransferOwner(c, db)
		})
		routes.DELETE("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			LeaveTask(c, db)
		})
	}
}

func GetMembers(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var self model.TaskMember
	if err := db.Where("task_id = ? AND user_id = ?", taskID, userId).First(&self).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return
	}

	var members []model.TaskMember
	if err := db.Preload("User").Where("task_id = ?", taskID).Order("join_at ASC").Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	list := make([]gin.H, 0, len(members))
	for _, m := range members {
		list = append(list, gin.H{
			"userId":   m.UserID,
			"nickname": m.User.Nickname,
			"role":     m.Role,
			"joinAt":   m.JoinAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"members": list})
}

// TransferOwner moves the OWNER role to another member. Demote-all and
// promote-target run in one transaction so the task never has zero or two
// owners.
func TransferOwner(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req dto.TransferOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var self model.TaskMember
	if err := db.Where("task_id = ? AND user_id = ?", taskID, userId).First(&self).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return
	}
	if self.Role != model.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the task owner can transfer ownership"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TaskMember{}).
			Where("task_id = ? AND role = ?", taskID, model.RoleOwner).
			Update("role", model.RoleMember).Error; err != nil {
			return err
		}
		result := tx.Model(&model.TaskMember{}).
			Where("task_id = ? AND user_id = ?", taskID, req.NewOwnerID).
			Update("role", model.RoleOwner)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "New owner is not a member of this task"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to transfer ownership"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ownership transferred successfully"})
}

func LeaveTask(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var self model.TaskMember
	if err := db.Where("task_id = ? AND user_id = ?", taskID, userId).First(&self).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return
	}

	if self.Role == model.RoleOwner {
		var others int64
		if err := db.Model(&model.TaskMember{}).
			Where("task_id = ? AND user_id != ?", taskID, userId).
			Count(&others).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if others > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Transfer ownership before leaving the task"})
			return
		}
	}

	if err := db.Delete(&self).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left task successfully"})
}
