package connection

import (
	"log"

	"taskmate/controller/alarm"
	"taskmate/controller/auth"
	"taskmate/controller/comment"
	"taskmate/controller/communication"
	"taskmate/controller/folder"
	"taskmate/controller/member"
	"taskmate/controller/priority"
	"taskmate/controller/reference"
	"taskmate/controller/subtask"
	"taskmate/controller/task"
	"taskmate/controller/user"
	"taskmate/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func StartServer() {
	router := gin.Default()

	DB, err := DBConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Api is running!"})
	})

	router.Use(cors.Default())

	hub := realtime.NewHub()

	auth.AuthController(router, DB)

	folder.FolderController(router, DB)
	folder.CreateFolderController(router, DB)
	folder.DeleteFolderController(router, DB)

	task.TaskController(router, DB)
	task.CreateTaskController(router, DB)
	task.UpdateTaskController(router, DB)
	task.DeleteTaskController(router, DB)
	task.InviteController(router, DB)

	member.MemberController(router, DB)

	subtask.SubTaskController(router, DB, hub)

	comment.CommentController(router, DB)
	communication.CommunicationController(router, DB)
	reference.ReferenceController(router, DB)

	priority.PriorityController(router, DB)

	alarm.AlarmController(router, DB)

	user.UserController(router, DB)

	realtime.SocketController(router, DB, hub)

	router.Run()
}
