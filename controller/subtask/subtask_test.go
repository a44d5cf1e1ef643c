package subtask

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskmate/model"
	"taskmate/realtime"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
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

// recorder is a realtime.Subscriber that remembers everything sent to it.
type recorder struct {
	events []string
}

func (r *recorder) Send(event string, payload interface{}) {
	r.events = append(r.events, event)
}

func newUpdateContext(t *testing.T, taskID, subTaskID, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{
		{Key: "taskid", Value: taskID},
		{Key: "subtaskid", Value: subTaskID},
	}
	c.Set("userId", uint(1))
	return c, w
}

func subtaskColumns() []string {
	return []string{"subtask_id", "task_id", "title", "end_date", "status", "assignee_id", "alarm_enabled", "create_at", "updated_at"}
}

func expectMembership(mock sqlmock.Sqlmock, count int) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM .task_members. WHERE task_id = \? AND user_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
}

func TestUpdateStatusOverHTTPBroadcastsToRoom(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mut := &realtime.Mutator{DB: db, Now: func() time.Time { return now }}

	hub := realtime.NewHub()
	peer := &recorder{}
	hub.Join(realtime.TaskRoom(7), peer)

	expectMembership(mock, 1)
	mock.ExpectExec(`UPDATE .subtasks. SET .status.=\?,.updated_at.=\? WHERE subtask_id = \? AND task_id = \?`).
		WithArgs(model.SubTaskCompleted, now, 42, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM .subtasks. WHERE subtask_id = \?`).
		WillReturnRows(sqlmock.NewRows(subtaskColumns()).
			AddRow(42, 7, "write report", nil, model.SubTaskCompleted, nil, false, now, now))

	c, w := newUpdateContext(t, "7", "42", `{"status":"COMPLETED"}`)
	UpdateSubTaskStatus(c, mut, hub)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{realtime.EventSubTaskStatusUpdated}, peer.events,
		"connected sessions must see changes made over the fallback route")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusOverHTTPNonMember(t *testing.T) {
	db, mock := newMockDB(t)
	mut := realtime.NewMutator(db)

	hub := realtime.NewHub()
	peer := &recorder{}
	hub.Join(realtime.TaskRoom(7), peer)

	expectMembership(mock, 0)

	c, w := newUpdateContext(t, "7", "42", `{"status":"COMPLETED"}`)
	UpdateSubTaskStatus(c, mut, hub)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, peer.events, "a rejected update must not broadcast")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeadlineOverHTTP(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)
	mut := &realtime.Mutator{DB: db, Now: func() time.Time { return now }}

	hub := realtime.NewHub()
	peer := &recorder{}
	hub.Join(realtime.TaskRoom(7), peer)

	expectMembership(mock, 1)
	mock.ExpectExec(`UPDATE .subtasks. SET .end_date.=\?,.updated_at.=\? WHERE subtask_id = \? AND task_id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM .subtasks. WHERE subtask_id = \?`).
		WillReturnRows(sqlmock.NewRows(subtaskColumns()).
			AddRow(42, 7, "write report", deadline, model.SubTaskPending, nil, true, now, now))

	c, w := newUpdateContext(t, "7", "42", `{"end_date":"2025-06-15T18:00:00Z"}`)
	UpdateSubTaskDeadline(c, mut, hub)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{realtime.EventDeadlineUpdated}, peer.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeadlineOverHTTPRejectsGarbage(t *testing.T) {
	db, mock := newMockDB(t)
	mut := realtime.NewMutator(db)
	hub := realtime.NewHub()

	c, w := newUpdateContext(t, "7", "42", `{"end_date":"next tuesday"}`)
	UpdateSubTaskDeadline(c, mut, hub)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "no SQL may run for an invalid deadline")
}

func TestUpdateAssigneeOverHTTP(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	mut := &realtime.Mutator{DB: db, Now: func() time.Time { return now }}

	hub := realtime.NewHub()
	peer := &recorder{}
	hub.Join(realtime.TaskRoom(7), peer)

	expectMembership(mock, 1)
	mock.ExpectQuery(`SELECT \* FROM .task_members. WHERE task_id = \? AND user_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"member_id", "task_id", "user_id", "role"}).
			AddRow(5, 7, 3, model.RoleMember))
	mock.ExpectQuery(`SELECT \* FROM .users. WHERE .users.\..user_id.`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "nickname"}).AddRow(3, "jay"))
	mock.ExpectExec(`UPDATE .subtasks. SET .assignee_id.=\?,.updated_at.=\? WHERE subtask_id = \? AND task_id = \?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM .subtasks. WHERE subtask_id = \?`).
		WillReturnRows(sqlmock.NewRows(subtaskColumns()).
			AddRow(42, 7, "write report", nil, model.SubTaskPending, 3, false, now, now))

	c, w := newUpdateContext(t, "7", "42", `{"assignee_id":3}`)
	UpdateSubTaskAssignee(c, mut, hub)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{realtime.EventSubTaskAssigneeUpdated}, peer.events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusOverHTTPMissingSubTask(t *testing.T) {
	db, mock := newMockDB(t)
	mut := realtime.NewMutator(db)
	hub := realtime.NewHub()

	expectMembership(mock, 1)
	mock.ExpectExec(`UPDATE .subtasks. SET .status.=\?,.updated_at.=\?`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, w := newUpdateContext(t, "7", "404", `{"status":"PROGRESS"}`)
	UpdateSubTaskStatus(c, mut, hub)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
