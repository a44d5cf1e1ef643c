package priority

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

func PriorityController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/priority")
	{
		routes.PUT("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			SetPriority(c, db)
		})
		routes.DELETE("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			ClearPriority(c, db)
		})
	}
}

// SetPriority upserts the caller's rank for a task. One row per
// (user, task); smaller rank sorts first.
func SetPriority(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req dto.SetPriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var count int64
	if err := db.Model(&model.TaskMember{}).
		Where("task_id = ? AND user_id = ?", taskID, userId).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return
	}
	if count == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
		return
	}

	var existing model.TaskPriority
	err = db.Where("user_id = ? AND task_id = ?", userId, taskID).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Model(&existing).Update("rank", req.Rank).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update priority"})
			return
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		p := model.TaskPriority{UserID: int(userId), TaskID: taskID, Rank: req.Rank}
		if err := db.Create(&p).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set priority"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Priority saved successfully"})
}

func ClearPriority(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	result := db.Where("user_id = ? AND task_id = ?", userId, taskID).Delete(&model.TaskPriority{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear priority"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Priority not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Priority cleared successfully"})
}
