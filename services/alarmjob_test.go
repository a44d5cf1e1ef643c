package services

import (
	"testing"
	"time"

	"taskmate/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return db, mock
}

func expectDueSubtask(mock sqlmock.Sqlmock, endDate time.Time) {
	mock.ExpectQuery(`SELECT \* FROM .subtasks. WHERE \(alarm_enabled = \?`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"subtask_id", "task_id", "title", "end_date", "status", "assignee_id", "alarm_enabled"}).
			AddRow(42, 7, "write report", endDate, model.SubTaskPending, nil, true))
	mock.ExpectQuery(`SELECT \* FROM .tasks. WHERE .tasks.\..task_id.`).
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "task_name", "task_type"}).
			AddRow(7, "launch", "team"))
}

func TestMaterializeAlarmsForUnassignedTeamSubtask(t *testing.T) {
	db, mock := newMockDB(t)
	endDate := time.Now().Add(time.Hour)

	expectDueSubtask(mock, endDate)

	// no assignee: every member of the task is a recipient
	mock.ExpectQuery(`JOIN task_members ON task_members\.user_id = users\.user_id`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "personal_alarm_lead", "team_alarm_lead", "fcm_token", "deleted_at"}).
			AddRow(1, 24, 2, "tok-a", nil).
			AddRow(2, 24, 2, "tok-b", nil))

	mock.ExpectQuery(`SELECT count\(\*\) FROM .user_alarms. WHERE user_id = \? AND subtask_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO .user_alarms.`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	mock.ExpectQuery(`SELECT count\(\*\) FROM .user_alarms. WHERE user_id = \? AND subtask_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO .user_alarms.`).
		WillReturnResult(sqlmock.NewResult(2, 1))

	MaterializeAlarmsJob(db, nil)

	assert.NoError(t, mock.ExpectationsWereMet(), "one alarm row per member must be created")
}

func TestMaterializeAlarmsDedupes(t *testing.T) {
	db, mock := newMockDB(t)
	endDate := time.Now().Add(time.Hour)

	expectDueSubtask(mock, endDate)

	mock.ExpectQuery(`JOIN task_members ON task_members\.user_id = users\.user_id`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "personal_alarm_lead", "team_alarm_lead", "fcm_token", "deleted_at"}).
			AddRow(1, 24, 2, "tok-a", nil))

	// an alarm row already exists for (user, subtask); no insert may follow
	mock.ExpectQuery(`SELECT count\(\*\) FROM .user_alarms. WHERE user_id = \? AND subtask_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	MaterializeAlarmsJob(db, nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaterializeAlarmsHonorsLeadPreference(t *testing.T) {
	db, mock := newMockDB(t)
	endDate := time.Now().Add(time.Hour)

	expectDueSubtask(mock, endDate)

	// team lead of 0 hours: the fire time is the deadline itself, still in
	// the future, so nothing materializes yet
	mock.ExpectQuery(`JOIN task_members ON task_members\.user_id = users\.user_id`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"user_id", "personal_alarm_lead", "team_alarm_lead", "fcm_token", "deleted_at"}).
			AddRow(1, 24, 0, "tok-a", nil))

	MaterializeAlarmsJob(db, nil)

	assert.NoError(t, mock.ExpectationsWereMet())
}
