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

func TaskController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/task")
	{
		routes.GET("/all", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetAllTasks(c, db)
		})
		routes.GET("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetTask(c, db)
		})
	}
}

// requireMembership resolves the caller's membership row for a task.
// Missing membership is an authorization failure, reported before the
// target resource is even inspected.
func requireMembership(db *gorm.DB, taskID int, userID uint) (model.TaskMember, error) {
	var member model.TaskMember
	err := db.Where("task_id = ? AND user_id = ?", taskID, userID).First(&member).Error
	return member, err
}

func GetAllTasks(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var tasks []model.Tasks
	err := db.Joins("JOIN task_members ON task_members.task_id = tasks.task_id").
		Where("task_members.user_id = ?", userId).
		Order("tasks.create_at DESC").
		Find(&tasks).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch tasks"})
		return
	}

	// tasks the user never ranked sort behind ranked ones
	var priorities []model.TaskPriority
	if err := db.Where("user_id = ?", userId).Find(&priorities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch priorities"})
		return
	}
	rankByTask := make(map[int]int, len(priorities))
	for _, p := range priorities {
		rankByTask[p.TaskID] = p.Rank
	}

	list := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		rank := model.DefaultPriorityRank
		if r, ok := rankByTask[t.TaskID]; ok {
			rank = r
		}
		list = append(list, gin.H{
			"taskId":      t.TaskID,
			"folderId":    t.FolderID,
			"taskName":    t.TaskName,
			"description": t.Description,
			"taskType":    t.TaskType,
			"deadline":    t.Deadline,
			"status":      t.Status,
			"priority":    rank,
			"createAt":    t.CreateAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tasks": list})
}

func GetTask(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
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

	var task model.Tasks
	if err := db.Where("task_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var subtasks []model.SubTask
	if err := db.Where("task_id = ?", taskID).Order("create_at ASC").Find(&subtasks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch subtasks"})
		return
	}

	subtaskList := make([]gin.H, 0, len(subtasks))
	for _, st := range subtasks {
		subtaskList = append(subtaskList, gin.H{
			"subTaskId":    st.SubTaskID,
			"title":        st.Title,
			"endDate":      st.EndDate,
			"status":       st.Status,
			"assigneeId":   st.AssigneeID,
			"alarmEnabled": st.AlarmEnabled,
			"updatedAt":    st.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"task": gin.H{
			"taskId":      task.TaskID,
			"folderId":    task.FolderID,
			"taskName":    task.TaskName,
			"description": task.Description,
			"taskType":    task.TaskType,
			"deadline":    task.Deadline,
			"status":      task.Status,
			"createAt":    task.CreateAt,
		},
		"subtasks": subtaskList,
	})
}
