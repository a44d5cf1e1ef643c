package task

import (
	"errors"
	"net/http"
	"strconv"

	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func DeleteTaskController(router *gin.Engine, db *gorm.DB) {
	router.DELETE("/task/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		DeleteTask(c, db)
	})
}

func DeleteTask(c *gin.Context, db *gorm.DB) {
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
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the task owner can delete it"})
		return
	}

	result := db.Where("task_id = ?", taskID).Delete(&model.Tasks{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
