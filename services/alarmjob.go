package services

import (
	"fmt"
	"log"
	"time"

	"taskmate/model"

	firebase "firebase.google.com/go/v4"
	"gorm.io/gorm"
)

// MaterializeAlarmsJob turns approaching sub-task deadlines into UserAlarm
// rows and pushes them over FCM. For each alarm-enabled subtask the fire
// time is deadline minus the recipient's per-kind lead preference; once
// that moment passes and no alarm row exists yet for (user, subtask), one
// is inserted. Runs every minute from the scheduler.
func MaterializeAlarmsJob(db *gorm.DB, app *firebase.App) {
	now := time.Now()

	var subtasks []model.SubTask
	err := db.Preload("Task").
		Where("alarm_enabled = ? AND status != ? AND end_date IS NOT NULL", true, model.SubTaskCompleted).
		Where("end_date > ? AND end_date <= ?", now, now.Add(7*24*time.Hour)).
		Find(&subtasks).Error
	if err != nil {
		log.Printf("alarm job: failed to fetch subtasks: %v", err)
		return
	}

	for _, st := range subtasks {
		recipients, err := alarmRecipients(db, st)
		if err != nil {
			log.Printf("alarm job: failed to resolve recipients for subtask %d: %v", st.SubTaskID, err)
			continue
		}

		content := fmt.Sprintf("%s is due at %s", st.Title, st.EndDate.Format("15:04 Jan 2"))
		var tokens []string

		for _, user := range recipients {
			if user.DeletedAt != nil {
				continue
			}

			lead := user.PersonalAlarmLead
			if st.Task.TaskType == "team" {
				lead = user.TeamAlarmLead
			}
			fireAt := st.EndDate.Add(-time.Duration(lead) * time.Hour)
			if fireAt.After(now) {
				continue
			}

			var existing int64
			if err := db.Model(&model.UserAlarm{}).
				Where("user_id = ? AND subtask_id = ?", user.UserID, st.SubTaskID).
				Count(&existing).Error; err != nil || existing > 0 {
				continue
			}

			taskID := st.TaskID
			subTaskID := st.SubTaskID
			alarm := model.UserAlarm{
				UserID:    user.UserID,
				TaskID:    &taskID,
				SubTaskID: &subTaskID,
				AlarmDate: fireAt,
				Content:   content,
			}
			if err := db.Create(&alarm).Error; err != nil {
				log.Printf("alarm job: failed to create alarm for user %d: %v", user.UserID, err)
				continue
			}

			if user.FCMToken != nil && *user.FCMToken != "" {
				tokens = append(tokens, *user.FCMToken)
			}
		}

		if app == nil || len(tokens) == 0 {
			continue
		}
		data := map[string]string{
			"taskId":    fmt.Sprintf("%d", st.TaskID),
			"subTaskId": fmt.Sprintf("%d", st.SubTaskID),
		}
		// unassigned team subtasks alert every member, so batch those sends
		if len(tokens) == 1 {
			err = SendPushNotification(app, tokens[0], "Deadline approaching", content, data)
		} else {
			err = SendMulticastNotification(app, tokens, "Deadline approaching", content, data)
		}
		if err != nil {
			log.Printf("alarm job: push failed for subtask %d: %v", st.SubTaskID, err)
		}
	}
}

// alarmRecipients picks who gets the alarm: the assignee when one is set,
// otherwise every member of the task.
func alarmRecipients(db *gorm.DB, st model.SubTask) ([]model.User, error) {
	if st.AssigneeID != nil {
		var user model.User
		if err := db.Where("user_id = ?", *st.AssigneeID).First(&user).Error; err != nil {
			return nil, err
		}
		return []model.User{user}, nil
	}

	var users []model.User
	err := db.Joins("JOIN task_members ON task_members.user_id = users.user_id").
		Where("task_members.task_id = ?", st.TaskID).
		Find(&users).Error
	return users, err
}
