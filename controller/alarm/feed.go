package alarm

import (
	"errors"
	"strings"
	"time"

	"taskmate/dto"
	"taskmate/model"

	"gorm.io/gorm"
)

// DefaultPageSize is used when the caller does not supply a limit.
const DefaultPageSize = 7

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserDeleted  = errors.New("user is deactivated")
)

// sortableColumns whitelists orderBy values so caller input never reaches
// SQL directly.
var sortableColumns = map[string]string{
	"alarmDate": "alarm_date",
	"alarmId":   "alarm_id",
	"createdAt": "create_at",
}

// FetchAlarmFeed returns one page of the user's fired alarms. An alarm is
// visible only once its alarm_date has passed; a supplied cursor restricts
// the page to alarm_id strictly below it. The query fetches limit+1 rows
// to decide whether a next page exists without a second count query.
func FetchAlarmFeed(db *gorm.DB, userID uint, q dto.AlarmFeedQuery, now time.Time) ([]model.UserAlarm, dto.AlarmFeedMeta, error) {
	meta := dto.AlarmFeedMeta{}

	var user model.User
	if err := db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, meta, ErrUserNotFound
		}
		return nil, meta, err
	}
	if user.DeletedAt != nil {
		return nil, meta, ErrUserDeleted
	}

	limit := DefaultPageSize
	if q.Limit != nil {
		limit = *q.Limit
	}
	if limit <= 0 {
		return []model.UserAlarm{}, meta, nil
	}

	column := "alarm_date"
	if mapped, ok := sortableColumns[q.OrderBy]; ok {
		column = mapped
	}
	direction := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		direction = "ASC"
	}

	query := db.Where("user_id = ? AND alarm_date <= ?", userID, now)
	if q.Cursor != nil {
		query = query.Where("alarm_id < ?", *q.Cursor)
	}

	var alarms []model.UserAlarm
	if err := query.Order(column + " " + direction).Limit(limit + 1).Find(&alarms).Error; err != nil {
		return nil, meta, err
	}

	if len(alarms) > limit {
		alarms = alarms[:limit]
		lastID := alarms[len(alarms)-1].AlarmID
		meta.HasNextPage = true
		meta.Cursor = &lastID
	}

	return alarms, meta, nil
}
