package main

import (
	"taskmate/connection"
	"taskmate/scheduler"

	"github.com/gin-gonic/gin"
)

func main() {
	gin.SetMode(gin.ReleaseMode)
	scheduler.StartScheduler()
	connection.StartServer()
}
