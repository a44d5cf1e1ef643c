package folder

import (
	"errors"
	"net/http"
	"strconv"

	"taskmate/dto"
	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func FolderController(router *gin.Engine, db *gorm.DB) {
	routes := router.Group("/folder")
	{
		routes.GET("/all", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			GetAllFolders(c, db)
		})
		routes.PUT("/:folderid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
			UpdateFolder(c, db)
		})
	}
}

func GetAllFolders(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	var folders []model.Folder
	if err := db.Where("user_id = ?", userId).Order("create_at DESC").Find(&folders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch folders"})
		return
	}

	list := make([]gin.H, 0, len(folders))
	for _, f := range folders {
		list = append(list, gin.H{
			"folderId": f.FolderID,
			"title":    f.Title,
			"color":    f.Color,
			"createAt": f.CreateAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"folders": list})
}

func UpdateFolder(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	folderID, err := strconv.Atoi(c.Param("folderid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}

	var req dto.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var folder model.Folder
	if err := db.Where("folder_id = ? AND user_id = ?", folderID, userId).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found or access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Color != nil {
		updates["color"] = *req.Color
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := db.Model(&folder).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Folder updated successfully"})
}
