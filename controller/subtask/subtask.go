package subtask

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"
	"taskmate/realtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SubTaskController(router *gin.Engine, db *gorm.DB, hub *realtime.Hub) {
	mut := realtime.NewMutator(db)
	routes := router.Group("/subtask")
	{
		routes.POST("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			CreateSubTask(c, db)
		})
		routes.PUT("/:taskid/:subtaskid/status", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			UpdateSubTaskStatus(c, mut, hub)
		})
		routes.PUT("/:taskid/:subtaskid/deadline", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			UpdateSubTaskDeadline(c, mut, hub)
		})
		routes.PUT("/:taskid/:subtaskid/assignee", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			UpdateSubTaskAssignee(c, mut, hub)
		})
		routes.DELETE("/:taskid/:subtaskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			DeleteSubTask(c, db)
		})
	}
}

// respondAck translates a mutation ack into an HTTP response. Broadcasts
// still reach the room, so connected clients see changes made over HTTP.
func respondAck(c *gin.Context, hub *realtime.Hub, ack realtime.Ack, broadcasts []realtime.Broadcast) {
	if !ack.Success {
		status := http.StatusInternalServerError
		switch ack.Error {
		case realtime.ErrCodeValidation:
			status = http.StatusBadRequest
		case realtime.ErrCodeForbidden:
			status = http.StatusForbidden
		case realtime.ErrCodeNotFound:
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": ack.Message})
		return
	}

	for _, b := range broadcasts {
		hub.Broadcast(b.Room, b.Event, b.Payload)
	}
	c.JSON(http.StatusOK, gin.H{"message": ack.Message, "subtask": ack.Data})
}

func UpdateSubTaskStatus(c *gin.Context, mut *realtime.Mutator, hub *realtime.Hub) {
	userId := c.MustGet("userId").(uint)

	var req dto.UpdateSubTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ack, broadcasts := mut.UpdateSubTaskStatus(userId, realtime.StatusPayload{
		TaskID:    json.Number(c.Param("taskid")),
		SubTaskID: json.Number(c.Param("subtaskid")),
		Status:    req.Status,
	})
	respondAck(c, hub, ack, broadcasts)
}

func UpdateSubTaskDeadline(c *gin.Context, mut *realtime.Mutator, hub *realtime.Hub) {
	userId := c.MustGet("userId").(uint)

	var req dto.UpdateSubTaskDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	ack, broadcasts := mut.UpdateDeadline(userId, realtime.DeadlinePayload{
		TaskID:    json.Number(c.Param("taskid")),
		SubTaskID: json.Number(c.Param("subtaskid")),
		Deadline:  req.EndDate,
	})
	respondAck(c, hub, ack, broadcasts)
}

func UpdateSubTaskAssignee(c *gin.Context, mut *realtime.Mutator, hub *realtime.Hub) {
	userId := c.MustGet("userId").(uint)

	var req dto.UpdateSubTaskAssigneeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var assigneeID *json.Number
	if req.AssigneeID != nil {
		n := json.Number(strconv.Itoa(*req.AssigneeID))
		assigneeID = &n
	}

	ack, broadcasts := mut.SetAssignee(userId, realtime.AssigneePayload{
		TaskID:     json.Number(c.Param("taskid")),
		SubTaskID:  json.Number(c.Param("subtaskid")),
		AssigneeID: assigneeID,
	})
	respondAck(c, hub, ack, broadcasts)
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

func CreateSubTask(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req dto.CreateSubTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Subtask title is required"})
		return
	}

	if !checkMembership(c, db, taskID, userId) {
		return
	}

	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format"})
			return
		}
		endDate = &parsed
	}

	if req.AssigneeID != nil {
		var count int64
		if err := db.Model(&model.TaskMember{}).
			Where("task_id = ? AND user_id = ?", taskID, *req.AssigneeID).
			Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee is not a member of this task"})
			return
		}
	}

	st := model.SubTask{
		TaskID:       taskID,
		Title:        title,
		EndDate:      endDate,
		AssigneeID:   req.AssigneeID,
		AlarmEnabled: req.AlarmEnabled,
	}
	if err := db.Create(&st).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subtask"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Subtask created successfully",
		"subTaskId": st.SubTaskID,
	})
}

func DeleteSubTask(c *gin.Context, db *gorm.DB) {
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

	if !checkMembership(c, db, taskID, userId) {
		return
	}

	result := db.Where("subtask_id = ? AND task_id = ?", subTaskID, taskID).Delete(&model.SubTask{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subtask"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Subtask not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subtask deleted successfully"})
}
