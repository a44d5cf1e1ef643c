package alarm

import (
	"testing"
	"time"

	"taskmate/dto"

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

func expectActiveUser(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT \* FROM .users. WHERE user_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "deleted_at"}).AddRow(1, nil))
}

func alarmColumns() []string {
	return []string{"alarm_id", "user_id", "task_id", "subtask_id", "alarm_date", "content", "is_read", "create_at"}
}

func TestFeedUserNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM .users. WHERE user_id = \?`).
		WillReturnError(gorm.ErrRecordNotFound)

	_, _, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{}, time.Now())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFeedSoftDeletedUser(t *testing.T) {
	db, mock := newMockDB(t)
	deleted := time.Now()
	mock.ExpectQuery(`SELECT \* FROM .users. WHERE user_id = \?`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "deleted_at"}).AddRow(1, deleted))

	_, _, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{}, time.Now())
	assert.ErrorIs(t, err, ErrUserDeleted, "no alarm rows may be read for a deactivated user")
}

func TestFeedZeroLimit(t *testing.T) {
	db, mock := newMockDB(t)
	expectActiveUser(mock)

	zero := 0
	alarms, meta, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{Limit: &zero}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, alarms)
	assert.False(t, meta.HasNextPage)
	assert.Nil(t, meta.Cursor)
	assert.NoError(t, mock.ExpectationsWereMet(), "limit 0 must not query alarms at all")
}

func TestFeedFirstPageWithNext(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expectActiveUser(mock)

	// 9 due alarms exist; limit 7 fetches 8 and gets 8 back,
	// newest (highest id) first
	rows := sqlmock.NewRows(alarmColumns())
	for id := 9; id >= 2; id-- {
		rows.AddRow(id, 1, nil, nil, now.Add(-time.Duration(10-id)*time.Hour), "due", false, now)
	}
	mock.ExpectQuery(`SELECT \* FROM .user_alarms. WHERE user_id = \? AND alarm_date <= \? ORDER BY alarm_date DESC LIMIT \?`).
		WithArgs(uint(1), now, DefaultPageSize+1).
		WillReturnRows(rows)

	alarms, meta, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{}, now)
	require.NoError(t, err)

	assert.Len(t, alarms, 7)
	assert.True(t, meta.HasNextPage)
	require.NotNil(t, meta.Cursor)
	assert.Equal(t, alarms[6].AlarmID, *meta.Cursor, "cursor is the id of the last returned row")
	assert.Equal(t, 3, *meta.Cursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedLastPage(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expectActiveUser(mock)

	rows := sqlmock.NewRows(alarmColumns()).
		AddRow(2, 1, nil, nil, now.Add(-2*time.Hour), "due", false, now).
		AddRow(1, 1, nil, nil, now.Add(-3*time.Hour), "due", true, now)
	cursor := 3
	mock.ExpectQuery(`SELECT \* FROM .user_alarms. WHERE \(user_id = \? AND alarm_date <= \?\) AND alarm_id < \?`).
		WithArgs(uint(1), now, cursor, DefaultPageSize+1).
		WillReturnRows(rows)

	alarms, meta, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{Cursor: &cursor}, now)
	require.NoError(t, err)

	assert.Len(t, alarms, 2)
	assert.False(t, meta.HasNextPage)
	assert.Nil(t, meta.Cursor)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedCursorBeyondOldest(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	expectActiveUser(mock)
	cursor := 1
	mock.ExpectQuery(`alarm_id < \?`).
		WillReturnRows(sqlmock.NewRows(alarmColumns()))

	alarms, meta, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{Cursor: &cursor}, now)
	require.NoError(t, err)
	assert.Empty(t, alarms)
	assert.False(t, meta.HasNextPage)
	assert.Nil(t, meta.Cursor)
}

func TestFeedOrderWhitelist(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	expectActiveUser(mock)
	// unknown orderBy falls back to alarm_date, injection never reaches SQL
	mock.ExpectQuery(`ORDER BY alarm_date DESC`).
		WillReturnRows(sqlmock.NewRows(alarmColumns()))

	_, _, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{OrderBy: "alarm_date; DROP TABLE users"}, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFeedAscendingOrder(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()

	expectActiveUser(mock)
	mock.ExpectQuery(`ORDER BY alarm_id ASC`).
		WillReturnRows(sqlmock.NewRows(alarmColumns()))

	_, _, err := FetchAlarmFeed(db, 1, dto.AlarmFeedQuery{OrderBy: "alarmId", Order: "asc"}, now)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
