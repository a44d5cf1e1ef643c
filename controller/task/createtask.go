package task

import (
	"net/http"
	"strings"
	"time"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreateTaskController(router *gin.Engine, db *gorm.DB) {
	router.POST("/task", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		CreateTask(c, db)
	})
}

// CreateTask creates the task and the creator's OWNER membership in one
// transaction, so a task never exists without exactly one owner.
func CreateTask(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	taskName := strings.TrimSpace(req.TaskName)
	if taskName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task name is required"})
		return
	}

	var deadline *time.Time
	if req.Deadline != "" {
		parsed, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deadline format"})
			return
		}
		deadline = &parsed
	}

	if req.FolderID != nil {
		var count int64
		if err := db.Model(&model.Folder{}).
			Where("folder_id = ? AND user_id = ?", *req.FolderID, userId).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found or access denied"})
			return
		}
	}

	task := model.Tasks{
		FolderID:    req.FolderID,
		TaskName:    taskName,
		Description: req.Description,
		TaskType:    req.TaskType,
		Deadline:    deadline,
		CreateBy:    int(userId),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		member := model.TaskMember{
			TaskID: task.TaskID,
			UserID: int(userId),
			Role:   model.RoleOwner,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task created successfully",
		"taskId":  task.TaskID,
	})
}
