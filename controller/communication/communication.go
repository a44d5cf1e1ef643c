package communication

import (
	"net/http"
	"strconv"
	"strings"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CommunicationController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/communication")
	{
		routes.POST("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			CreateCommunication(c, db)
		})
		routes.GET("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetCommunications(c, db)
		})
	}
}

func checkMembership(c *gin.Context, db *gorm.DB, taskID int, userID uint) bool {
	var count int64
	err := db.Model(&model.TaskMember{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify task membership"})
		return false
	}
	if count == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this task"})
		return false
	}
	return true
}

func CreateCommunication(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req dto.CreateCommunicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message content is required"})
		return
	}

	if !checkMembership(c, db, taskID, userId) {
		return
	}

	comm := model.Communication{
		TaskID:  taskID,
		UserID:  int(userId),
		Content: content,
	}
	if err := db.Create(&comm).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Message posted successfully",
		"commId":  comm.CommID,
	})
}

func GetCommunications(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if !checkMembership(c, db, taskID, userId) {
		return
	}

	var comms []model.Communication
	if err := db.Preload("User").Where("task_id = ?", taskID).
		Order("create_at ASC").Find(&comms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	list := make([]gin.H, 0, len(comms))
	for _, m := range comms {
		list = append(list, gin.H{
			"commId":   m.CommID,
			"userId":   m.UserID,
			"nickname": m.User.Nickname,
			"content":  m.Content,
			"createAt": m.CreateAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"communications": list})
}
