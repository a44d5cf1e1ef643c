package task

import (
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

func UpdateTaskController(router *gin.Engine, db *gorm.DB) {
	router.PUT("/task/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		UpdateTask(c, db)
	})
}

func UpdateTask(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if _, err := requireMembership(db, taskID, userId); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return
	}

	updates := map[string]interface{}{}
	detail := ""
	if req.TaskName != nil {
		updates["task_name"] = *req.TaskName
		detail = "name"
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		detail = "description"
	}
	if req.Deadline != nil {
		parsed, err := time.Parse(time.RFC3339, *req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline format"})
			return
		}
		updates["deadline"] = parsed
		detail = "deadline"
	}
	if req.Status != nil {
		updates["status"] = *req.Status
		detail = "status"
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Tasks{}).Where("task_id = ?", taskID).Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		log := model.TaskLog{
			TaskID: taskID,
			UserID: int(userId),
			Action: "update",
			Detail: detail,
		}
		return tx.Create(&log).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task updated successfully"})
}
