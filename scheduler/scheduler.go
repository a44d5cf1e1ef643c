// scheduler/scheduler.go
package scheduler

import (
	"log"

	"taskmate/connection"
	"taskmate/services"

	"github.com/robfig/cron/v3"
)

func StartScheduler() {
	c := cron.New(cron.WithSeconds())

	DB, err := connection.DBConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	FB, err := connection.FBConnection()
	if err != nil {
		log.Printf("Firebase unavailable, alarms will be stored without push: %v", err)
		FB = nil
	}

	// every minute
	_, err = c.AddFunc("0 * * * * *", func() {
		services.MaterializeAlarmsJob(DB, FB)
	})
	if err != nil {
		log.Fatalf("Failed to add cron job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started")
}
