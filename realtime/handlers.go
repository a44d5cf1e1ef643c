package realtime

import (
	"encoding/json"
	"errors"
	"time"

	"taskmate/model"

	"gorm.io/gorm"
)

// Inbound event names.
const (
	EventJoinTaskRoom        = "joinTaskRoom"
	EventUpdateSubTaskStatus = "updateSubTaskStatus"
	EventUpdateDeadline      = "updateDeadline"
	EventSetAssignee         = "setAssignee"
)

// Outbound event names.
const (
	EventSubTaskStatusUpdated   = "subtaskStatusUpdated"
	EventDeadlineUpdated        = "deadlineUpdated"
	EventSubTaskAssigneeUpdated = "subtaskAssigneeUpdated"
)

// Ids arrive as json.Number so that a malformed field fails here instead of
// turning into a zero value on its way to storage.
type JoinRoomPayload struct {
	TaskID json.Number `json:"taskId"`
}

type StatusPayload struct {
	TaskID    json.Number `json:"taskId"`
	SubTaskID json.Number `json:"subTaskId"`
	Status    string      `json:"status"`
}

type DeadlinePayload struct {
	TaskID    json.Number `json:"taskId"`
	SubTaskID json.Number `json:"subTaskId"`
	Deadline  string      `json:"deadline"`
}

type AssigneePayload struct {
	TaskID     json.Number  `json:"taskId"`
	SubTaskID  json.Number  `json:"subTaskId"`
	AssigneeID *json.Number `json:"assigneeId"`
}

// SubTaskSnapshot is the record shape sent in acks and broadcasts.
type SubTaskSnapshot struct {
	SubTaskID    int        `json:"subTaskId"`
	TaskID       int        `json:"taskId"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	EndDate      *time.Time `json:"endDate"`
	AssigneeID   *int       `json:"assigneeId"`
	AlarmEnabled bool       `json:"alarmEnabled"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type AssigneeInfo struct {
	UserID   int    `json:"userId"`
	Nickname string `json:"nickname"`
}

// Mutator applies one realtime state change and reports both output
// channels: the direct ack for the caller and the broadcast instructions
// for the room. It holds no transport state.
type Mutator struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewMutator(db *gorm.DB) *Mutator {
	return &Mutator{DB: db, Now: time.Now}
}

func parseID(n json.Number) (int, bool) {
	v, err := n.Int64()
	if err != nil || v <= 0 {
		return 0, false
	}
	return int(v), true
}

// isTaskMember resolves the authorization gate: the acting user must hold a
// membership row for the task. Checked before the target subtask is even
// looked at.
func (m *Mutator) isTaskMember(taskID int, userID uint) (bool, error) {
	var count int64
	err := m.DB.Model(&model.TaskMember{}).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func snapshotOf(st model.SubTask) SubTaskSnapshot {
	return SubTaskSnapshot{
		SubTaskID:    st.SubTaskID,
		TaskID:       st.TaskID,
		Title:        st.Title,
		Status:       st.Status,
		EndDate:      st.EndDate,
		AssigneeID:   st.AssigneeID,
		AlarmEnabled: st.AlarmEnabled,
		UpdatedAt:    st.UpdatedAt,
	}
}

// updateSubTask persists one field change and returns the fresh row. A zero
// RowsAffected means the subtask does not belong to the task (or is gone),
// which callers translate to a not-found ack with no broadcast.
func (m *Mutator) updateSubTask(taskID, subTaskID int, updates map[string]interface{}) (model.SubTask, error) {
	result := m.DB.Model(&model.SubTask{}).
		Where("subtask_id = ? AND task_id = ?", subTaskID, taskID).
		Updates(updates)
	if result.Error != nil {
		return model.SubTask{}, result.Error
	}
	if result.RowsAffected == 0 {
		return model.SubTask{}, gorm.ErrRecordNotFound
	}

	var st model.SubTask
	if err := m.DB.Where("subtask_id = ?", subTaskID).First(&st).Error; err != nil {
		return model.SubTask{}, err
	}
	return st, nil
}

func (m *Mutator) UpdateSubTaskStatus(userID uint, p StatusPayload) (Ack, []Broadcast) {
	taskID, ok := parseID(p.TaskID)
	if !ok {
		return ErrAck(ErrCodeValidation, "Invalid task ID"), nil
	}
	subTaskID, ok := parseID(p.SubTaskID)
	if !ok {
		return ErrAck(ErrCodeValidation, "Invalid subtask ID"), nil
	}
	switch p.Status {
	case model.SubTaskPending, model.SubTaskProgress, model.SubTaskCompleted:
	default:
		return ErrAck(ErrCodeValidation, "Invalid status"), nil
	}

	member, err := m.isTaskMember(taskID, userID)
	if err != nil {
		return ErrAck(ErrCodeInternal, "Failed to verify task membership"), nil
	}
	if !member {
		return ErrAck(ErrCodeForbidden, "You are not a member of this task"), nil
	}

	now := m.Now()
	st, err := m.updateSubTask(taskID, subTaskID, map[string]interface{}{
		"status":     p.Status,
		"updated_at": now,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAck(ErrCodeNotFound, "Subtask not found"), nil
		}
		return ErrAck(ErrCodeInternal, "Failed to update subtask status"), nil
	}

	snap := snapshotOf(st)
	return OkAck("Subtask status updated", snap), []Broadcast{
		{Room: TaskRoom(taskID), Event: EventSubTaskStatusUpdated, Payload: snap},
	}
}

func (m *Mutator) UpdateDeadline(userID uint, p DeadlinePayload) (Ack, []Broadcast) {
	taskID, ok := parseID(p.TaskID)
	if !ok {
		return ErrAck(ErrCodeValidation, "Invalid task ID"), nil
	}
	subTaskID, ok := parseID(p.SubTaskID)
	if !ok {
		return ErrAck(ErrCodeValidation, "Invalid subtask ID"), nil
	}
	deadline, err := time.Parse(time.RFC3339, p.Deadline)
	if err != nil {
		return ErrAck(ErrCodeValidation, "Invalid deadline format"), nil
	}

	member, err := m.isTaskMember(taskID, userID)
	if err != nil {
		return ErrAck(ErrCodeInternal, "Failed to verify task membership"), nil
	}
	if !member {
		return ErrAck(ErrCodeForbidden, "You are not a member of this task"), nil
	}

	now := m.Now()
	st, err := m.updateSubTask(taskID, subTaskID, map[string]interface{}{
		"end_date":   deadline,
		"updated_at": now,
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAck(ErrCodeNotFound, "Subtask not found"), nil
		}
		return ErrAck(ErrCodeInternal, "Failed to update deadline"), nil
	}

	return OkAck("Deadline updated", snapshotOf(st)), []Broadcast{
		{Room: TaskRoom(taskID), Event: EventDeadlineUpdated, Payload: map[string]interface{}{
			"subTaskId": st.SubTaskID,
			"deadline":  st.EndDate,
			"updatedAt": st.UpdatedAt,
		}},
	}
}

func (m *Mutator) SetAssignee(userID uint, p AssigneePayload) (Ack, []Broadcast) {
	taskID, ok := parseID(p.TaskID)
	if !ok {
		return ErrAck(ErrCodeValidation, "Invalid task ID"), nil
	}
	subTaskID, ok := parseID(p.SubTaskID)
	if !ok {
		return ErrAck(ErrCodeValidation, "Invalid subtask ID"), nil
	}

	member, err := m.isTaskMember(taskID, userID)
	if err != nil {
		return ErrAck(ErrCodeInternal, "Failed to verify task membership"), nil
	}
	if !member {
		return ErrAck(ErrCodeForbidden, "You are not a member of this task"), nil
	}

	var assignee *AssigneeInfo
	updates := map[string]interface{}{
		"assignee_id": nil,
		"updated_at":  m.Now(),
	}

	if p.AssigneeID != nil {
		assigneeID, ok := parseID(*p.AssigneeID)
		if !ok {
			return ErrAck(ErrCodeValidation, "Invalid assignee ID"), nil
		}

		// the assignee must hold a membership of the same task
		var tm model.TaskMember
		err := m.DB.Preload("User").
			Where("task_id = ? AND user_id = ?", taskID, assigneeID).
			First(&tm).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAck(ErrCodeValidation, "Assignee is not a member of this task"), nil
			}
			return ErrAck(ErrCodeInternal, "Failed to verify assignee"), nil
		}

		updates["assignee_id"] = assigneeID
		assignee = &AssigneeInfo{UserID: tm.User.UserID, Nickname: tm.User.Nickname}
	}

	st, err := m.updateSubTask(taskID, subTaskID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAck(ErrCodeNotFound, "Subtask not found"), nil
		}
		return ErrAck(ErrCodeInternal, "Failed to update assignee"), nil
	}

	return OkAck("Assignee updated", snapshotOf(st)), []Broadcast{
		{Room: TaskRoom(taskID), Event: EventSubTaskAssigneeUpdated, Payload: map[string]interface{}{
			"subTaskId": st.SubTaskID,
			"assignee":  assignee,
			"updatedAt": st.UpdatedAt,
		}},
	}
}
