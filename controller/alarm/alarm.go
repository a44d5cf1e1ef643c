package alarm

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

func AlarmController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/alarm")
	{
		routes.GET("", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetAlarmFeed(c, db)
		})
		routes.PUT("/read/:alarmid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			MarkAlarmRead(c, db)
		})
		routes.PUT("/read", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			MarkAllAlarmsRead(c, db)
		})
		routes.DELETE("/:alarmid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			DeleteAlarm(c, db)
		})
		routes.DELETE("", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			DeleteAlarms(c, db)
		})
	}
}

type alarmItem struct {
	AlarmID   int       `json:"alarmId"`
	TaskID    *int      `json:"taskId"`
	SubTaskID *int      `json:"subTaskId"`
	AlarmDate time.Time `json:"alarmDate"`
	Content   string    `json:"content"`
	IsRead    bool      `json:"isRead"`
}

func GetAlarmFeed(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var query dto.AlarmFeedQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	alarms, meta, err := FetchAlarmFeed(db, userId, query, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrUserDeleted):
			c.JSON(http.StatusForbidden, gin.H{"error": "User account is deactivated"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alarms"})
		}
		return
	}

	alarmList := make([]alarmItem, 0, len(alarms))
	for _, a := range alarms {
		alarmList = append(alarmList, alarmItem{
			AlarmID:   a.AlarmID,
			TaskID:    a.TaskID,
			SubTaskID: a.SubTaskID,
			AlarmDate: a.AlarmDate,
			Content:   a.Content,
			IsRead:    a.IsRead,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"alarmList": alarmList,
		"meta":      meta,
	})
}

func MarkAlarmRead(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	alarmID, err := strconv.Atoi(c.Param("alarmid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alarm ID"})
		return
	}

	result := db.Model(&model.UserAlarm{}).
		Where("alarm_id = ? AND user_id = ?", alarmID, userId).
		Update("is_read", true)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alarm"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alarm not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alarm marked as read"})
}

func MarkAllAlarmsRead(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	if err := db.Model(&model.UserAlarm{}).
		Where("user_id = ? AND is_read = ?", userId, false).
		Update("is_read", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alarms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "All alarms marked as read"})
}

func DeleteAlarm(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	alarmID, err := strconv.Atoi(c.Param("alarmid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alarm ID"})
		return
	}

	result := db.Where("alarm_id = ? AND user_id = ?", alarmID, userId).Delete(&model.UserAlarm{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alarm"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alarm not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alarm deleted successfully"})
}

func DeleteAlarms(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var req dto.BulkAlarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := db.Where("user_id = ? AND alarm_id IN ?", userId, req.AlarmIDs).
		Delete(&model.UserAlarm{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete alarms"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alarms deleted successfully"})
}
