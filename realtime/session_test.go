package realtime

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskmate/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "socket-test-secret"

func signTestToken(t *testing.T, userID uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newSocketServer(t *testing.T, db *gorm.DB) (*httptest.Server, *Hub) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", testSecret)
	gin.SetMode(gin.TestMode)

	router := gin.New()
	hub := NewHub()
	SocketController(router, db, hub)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, hub
}

func wsURL(srv *httptest.Server, token string) string {
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func dialSocket(t *testing.T, srv *httptest.Server, userID uint) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, signTestToken(t, userID)), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame Frame
	require.NoError(t, json.Unmarshal(raw, &frame))
	return frame
}

func sendFrame(t *testing.T, conn *websocket.Conn, frame Frame) {
	t.Helper()
	raw, err := json.Marshal(frame)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func joinRoom(t *testing.T, conn *websocket.Conn, taskID string) {
	t.Helper()
	payload, _ := json.Marshal(map[string]interface{}{"taskId": json.RawMessage(taskID)})
	sendFrame(t, conn, Frame{Event: EventJoinTaskRoom, Payload: payload})
}

func waitRoomSize(t *testing.T, hub *Hub, room string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(room) != want {
		if time.Now().After(deadline) {
			t.Fatalf("room %s never reached %d members", room, want)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHandshakeRejectedWithoutToken(t *testing.T) {
	srv, _ := newSocketServer(t, nil)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, ""), nil)
	require.Error(t, err)
	require.Nil(t, conn)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandshakeRejectedWithForgedToken(t *testing.T) {
	srv, _ := newSocketServer(t, nil)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 1})
	signed, err := forged.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, signed), nil)
	require.Error(t, err)
	require.Nil(t, conn)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandshakeAcceptsValidToken(t *testing.T) {
	srv, _ := newSocketServer(t, nil)
	conn := dialSocket(t, srv, 1)
	assert.NotNil(t, conn)
}

func TestMalformedFrameGetsErrorAck(t *testing.T) {
	srv, _ := newSocketServer(t, nil)
	conn := dialSocket(t, srv, 1)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	frame := readFrame(t, conn)
	assert.Equal(t, "ack", frame.Event)

	var ack Ack
	require.NoError(t, json.Unmarshal(frame.Payload, &ack))
	assert.False(t, ack.Success)
	assert.Equal(t, ErrCodeValidation, ack.Error)
}

func TestUnknownEventGetsErrorAck(t *testing.T) {
	srv, _ := newSocketServer(t, nil)
	conn := dialSocket(t, srv, 1)

	sendFrame(t, conn, Frame{Event: "teleport", AckID: 9})

	frame := readFrame(t, conn)
	assert.Equal(t, "ack", frame.Event)
	assert.Equal(t, int64(9), frame.AckID)
}

func TestJoinRejectsInvalidTaskID(t *testing.T) {
	srv, hub := newSocketServer(t, nil)
	conn := dialSocket(t, srv, 1)

	joinRoom(t, conn, "0")

	frame := readFrame(t, conn)
	var ack Ack
	require.NoError(t, json.Unmarshal(frame.Payload, &ack))
	assert.False(t, ack.Success)
	assert.Equal(t, 0, hub.RoomSize(TaskRoom(0)))
}

func TestSendAfterDisconnectIsSafe(t *testing.T) {
	hub := NewHub()
	s := &Session{hub: hub, send: make(chan []byte, sendBuffer), done: make(chan struct{})}
	hub.Join(TaskRoom(7), s)

	// teardown exactly as the read loop performs it
	hub.LeaveAll(s)
	close(s.done)

	// a broadcaster that snapshotted the room before LeaveAll may still
	// deliver; it must not panic or queue anything
	assert.NotPanics(t, func() {
		s.Send(EventSubTaskStatusUpdated, map[string]interface{}{"subTaskId": 42})
	})
	assert.Zero(t, len(s.send))
}

func TestMutationAcksCallerAndBroadcastsToRoom(t *testing.T) {
	db, mock := newMockDB(t)
	srv, hub := newSocketServer(t, db)

	actor := dialSocket(t, srv, 1)
	peer := dialSocket(t, srv, 2)

	joinRoom(t, actor, "7")
	joinRoom(t, peer, "7")
	waitRoomSize(t, hub, TaskRoom(7), 2)

	now := time.Now()
	expectMembership(mock, 1)
	mock.ExpectExec(`UPDATE .subtasks. SET .status.=\?,.updated_at.=\?`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM .subtasks. WHERE subtask_id = \?`).
		WillReturnRows(sqlmock.NewRows(subtaskColumns()).
			AddRow(42, 7, "write report", nil, model.SubTaskCompleted, nil, false, now, now))

	payload, _ := json.Marshal(map[string]interface{}{
		"taskId":    7,
		"subTaskId": 42,
		"status":    model.SubTaskCompleted,
	})
	sendFrame(t, actor, Frame{Event: EventUpdateSubTaskStatus, AckID: 11, Payload: payload})

	// the actor hears the ack first, then its own copy of the broadcast
	ackFrame := readFrame(t, actor)
	assert.Equal(t, "ack", ackFrame.Event)
	assert.Equal(t, int64(11), ackFrame.AckID)

	var ack Ack
	require.NoError(t, json.Unmarshal(ackFrame.Payload, &ack))
	assert.True(t, ack.Success)

	actorUpdate := readFrame(t, actor)
	assert.Equal(t, EventSubTaskStatusUpdated, actorUpdate.Event)

	peerUpdate := readFrame(t, peer)
	assert.Equal(t, EventSubTaskStatusUpdated, peerUpdate.Event)

	var snap SubTaskSnapshot
	require.NoError(t, json.Unmarshal(peerUpdate.Payload, &snap))
	assert.Equal(t, 42, snap.SubTaskID)
	assert.Equal(t, model.SubTaskCompleted, snap.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFailedMutationNeverReachesRoom(t *testing.T) {
	db, mock := newMockDB(t)
	srv, hub := newSocketServer(t, db)

	actor := dialSocket(t, srv, 1)
	peer := dialSocket(t, srv, 2)

	joinRoom(t, actor, "7")
	joinRoom(t, peer, "7")
	waitRoomSize(t, hub, TaskRoom(7), 2)

	// the actor is not a member of the task
	expectMembership(mock, 0)

	payload, _ := json.Marshal(map[string]interface{}{
		"taskId":    7,
		"subTaskId": 42,
		"status":    model.SubTaskCompleted,
	})
	sendFrame(t, actor, Frame{Event: EventUpdateSubTaskStatus, AckID: 3, Payload: payload})

	ackFrame := readFrame(t, actor)
	var ack Ack
	require.NoError(t, json.Unmarshal(ackFrame.Payload, &ack))
	assert.False(t, ack.Success)
	assert.Equal(t, ErrCodeForbidden, ack.Error)

	// the peer must stay silent
	require.NoError(t, peer.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	_, _, err := peer.ReadMessage()
	assert.Error(t, err, "a rejected mutation must not broadcast")
}
