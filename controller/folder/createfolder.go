package folder

import (
	"net/http"
	"strings"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func CreateFolderController(router *gin.Engine, db *gorm.DB) {
	router.POST("/folder", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		CreateFolder(c, db)
	})
}

func CreateFolder(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder title is required"})
		return
	}
	if len(title) > 255 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Folder title is too long (max 255 characters)"})
		return
	}

	folder := model.Folder{
		UserID: int(userId),
		Title:  title,
		Color:  req.Color,
	}
	if err := db.Create(&folder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Folder created successfully",
		"folderId": folder.FolderID,
	})
}
