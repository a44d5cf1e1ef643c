package reference

import (
	"net/http"
	"strconv"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ReferenceController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/reference")
	{
		routes.POST("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			CreateReference(c, db)
		})
		routes.GET("/:taskid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetReferences(c, db)
		})
		routes.DELETE("/:taskid/:refid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			DeleteReference(c, db)
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

func CreateReference(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	var req dto.CreateReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if !checkMembership(c, db, taskID, userId) {
		return
	}

	ref := model.Reference{
		TaskID:   taskID,
		Title:    req.Title,
		URL:      req.URL,
		CreateBy: int(userId),
	}
	if err := db.Create(&ref).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reference created successfully",
		"refId":   ref.RefID,
	})
}

func GetReferences(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}

	if !checkMembership(c, db, taskID, userId) {
		return
	}

	var refs []model.Reference
	if err := db.Where("task_id = ?", taskID).Order("create_at DESC").Find(&refs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch references"})
		return
	}

	list := make([]gin.H, 0, len(refs))
	for _, r := range refs {
		list = append(list, gin.H{
			"refId":    r.RefID,
			"title":    r.Title,
			"url":      r.URL,
			"createBy": r.CreateBy,
			"createAt": r.CreateAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"references": list})
}

func DeleteReference(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	taskID, err := strconv.Atoi(c.Param("taskid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID"})
		return
	}
	refID, err := strconv.Atoi(c.Param("refid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reference ID"})
		return
	}

	if !checkMembership(c, db, taskID, userId) {
		return
	}

	result := db.Where("ref_id = ? AND task_id = ?", refID, taskID).Delete(&model.Reference{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete reference"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Reference not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reference deleted successfully"})
}
