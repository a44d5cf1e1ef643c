package comment

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CommentController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/comment")
	{
		routes.POST("/:taskid/:subtaskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			CreateComment(c, db)
		})
		routes.GET("/:taskid/:subtaskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetComments(c, db)
		})
	}
}

// resolveSubTask verifies the caller's membership of the task first, then
// that the subtask belongs to it. A non-member gets 403 without the subtask
// ever being looked up, so subtask ids cannot be enumerated.
func resolveSubTask(c *gin.Context, db *gorm.DB, taskID, subTaskID int, userID uint) (model.SubTask, bool) {
	var count int64
	if err := db.Model(&model.TaskMember{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return model.SubTask{}, false
	}
	if count == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
		return model.SubTask{}, false
	}

	var st model.SubTask
	if err := db.Where("subtask_id = ? AND task_id = ?", subTaskID, taskID).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
			return st, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return st, false
	}
	return st, true
}

func CreateComment(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}
	subTaskID, err := strconv.Atoi(c.Param("subtaskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtask ID"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	if _, ok := resolveSubTask(c, db, taskID, subTaskID, userId); !ok {
		return
	}

	comment := model.Comment{
		SubTaskID: subTaskID,
		UserID:    int(userId),
		Content:   content,
	}
	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Comment created successfully",
		"commentId": comment.CommentID,
	})
}

func GetComments(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}
	subTaskID, err := strconv.Atoi(c.Param("subtaskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subtask ID"})
		return
	}

	if _, ok := resolveSubTask(c, db, taskID, subTaskID, userId); !ok {
		return
	}

	var comments []model.Comment
	if err := db.Preload("User").Where("subtask_id = ?", subTaskID).
		Order("create_at ASC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	list := make([]gin.H, 0, len(comments))
	for _, cm := range comments {
		list = append(list, gin.H{
			"commentId": cm.CommentID,
			"userId":    cm.UserID,
			"nickname":  cm.User.Nickname,
			"content":   cm.Content,
			"createAt":  cm.CreateAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"comments": list})
}
