package folder

import (
	"errors"
	"net/http"
	"strconv"

	"taskmate/middleware"
	"taskmate/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func DeleteFolderController(router *gin.Engine, db *gorm.DB) {
	router.DELETE("/folder/:folderid", middleware.AccessTokenMiddleware(), func(c *gin.Context) {
		DeleteFolder(c, db)
	})
}

// DeleteFolder removes a folder the caller owns. Tasks still filed under
// the folder block the delete unless force=true, which detaches them in
// the same transaction so they are never orphaned silently.
func DeleteFolder(c *gin.Context, db *gorm.DB) {
	userId := c.MustGet("userId").(uint)

	folderID, err := strconv.Atoi(c.Param("folderid"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}
	force := c.Query("force") == "true"

	var folder model.Folder
	if err := db.Where("folder_id = ? AND user_id = ?", folderID, userId).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found or access denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	var taskCount int64
	if err := db.Model(&model.Tasks{}).Where("folder_id = ?", folderID).Count(&taskCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check folder contents"})
		return
	}
	if taskCount > 0 && !force {
		c.JSON(http.StatusConflict, gin.H{"error": "Folder still contains tasks"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if taskCount > 0 {
			if err := tx.Model(&model.Tasks{}).Where("folder_id = ?", folderID).
				Update("folder_id", nil).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&folder).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete folder"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted successfully"})
}
