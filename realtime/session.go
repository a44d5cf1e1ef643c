package realtime

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// sendBuffer bounds the per-session outbound queue. A session that falls
// this far behind starts losing frames rather than holding anyone up.
const sendBuffer = 256

// Session is one authenticated websocket connection. Events from a single
// session are processed in arrival order by its read loop.
//
// send is never closed; done signals the write loop to stop. A broadcaster
// holding a pre-disconnect snapshot of a room may still call Send, which
// must stay safe after teardown.
type Session struct {
	conn   *websocket.Conn
	hub    *Hub
	mut    *Mutator
	userID uint
	send   chan []byte
	done   chan struct{}
}

// Send implements Subscriber. It never blocks: if the outbound buffer is
// full the frame is dropped for this session only. After disconnect it is
// a no-op.
func (s *Session) Send(event string, payload interface{}) {
	select {
	case <-s.done:
		return
	default:
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		log.Printf("realtime: failed to marshal %s payload: %v", event, err)
		return
	}
	frame, err := json.Marshal(Frame{Event: event, Payload: raw})
	if err != nil {
		return
	}
	select {
	case s.send <- frame:
	default:
		log.Printf("realtime: dropping %s frame for user %d (slow consumer)", event, s.userID)
	}
}

func (s *Session) sendAck(ackID int64, ack Ack) {
	raw, err := json.Marshal(ack)
	if err != nil {
		return
	}
	frame, _ := json.Marshal(Frame{Event: "ack", AckID: ackID, Payload: raw})
	select {
	case s.send <- frame:
	default:
	}
}

// authenticateSocket validates the handshake credential exactly once per
// connection. On success the user id is attached to the session for its
// whole lifetime; on failure no handler ever runs.
func authenticateSocket(c *gin.Context) (uint, error) {
	tokenString := c.Query("token")
	if tokenString == "" {
		header := c.Request.Header.Get("Authorization")
		tokenString = strings.Replace(header, "Bearer ", "", 1)
	}
	if tokenString == "" {
		return 0, fmt.Errorf("credential is missing")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(os.Getenv("JWT_SECRET_KEY")), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, fmt.Errorf("invalid token claims")
	}
	userIDFloat, ok := claims["userId"].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid userId in token claims")
	}
	return uint(userIDFloat), nil
}

// SocketController registers the websocket endpoint.
func SocketController(router *gin.Engine, db *gorm.DB, hub *Hub) {
	mut := NewMutator(db)
	router.GET("/ws", func(c *gin.Context) {
		ServeWS(c, hub, mut)
	})
}

func ServeWS(c *gin.Context, hub *Hub, mut *Mutator) {
	userID, err := authenticateSocket(c)
	if err != nil {
		c.JSON(401, gin.H{"error": "Authentication failed: " + err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("realtime: upgrade failed: %v", err)
		return
	}

	s := &Session{
		conn:   conn,
		hub:    hub,
		mut:    mut,
		userID: userID,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}

	go s.writeLoop()
	s.readLoop()
}

func (s *Session) writeLoop() {
	defer s.conn.Close()
	for {
		select {
		case frame := <-s.send:
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *Session) readLoop() {
	defer func() {
		s.hub.LeaveAll(s)
		close(s.done)
	}()

	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			s.sendAck(0, ErrAck(ErrCodeValidation, "Malformed frame"))
			continue
		}

		s.dispatch(frame)
	}
}

// dispatch routes one inbound frame. Storage errors surface as error acks;
// they never take down the loop, and a failed mutation broadcasts nothing.
func (s *Session) dispatch(frame Frame) {
	switch frame.Event {
	case EventJoinTaskRoom:
		var p JoinRoomPayload
		if err := unmarshalPayload(frame.Payload, &p); err != nil {
			s.sendAck(frame.AckID, ErrAck(ErrCodeValidation, "Invalid join payload"))
			return
		}
		taskID, ok := parseID(p.TaskID)
		if !ok {
			s.sendAck(frame.AckID, ErrAck(ErrCodeValidation, "Invalid task ID"))
			return
		}
		s.hub.Join(TaskRoom(taskID), s)

	case EventUpdateSubTaskStatus:
		var p StatusPayload
		if err := unmarshalPayload(frame.Payload, &p); err != nil {
			s.sendAck(frame.AckID, ErrAck(ErrCodeValidation, "Invalid payload"))
			return
		}
		ack, broadcasts := s.mut.UpdateSubTaskStatus(s.userID, p)
		s.finish(frame.AckID, ack, broadcasts)

	case EventUpdateDeadline:
		var p DeadlinePayload
		if err := unmarshalPayload(frame.Payload, &p); err != nil {
			s.sendAck(frame.AckID, ErrAck(ErrCodeValidation, "Invalid payload"))
			return
		}
		ack, broadcasts := s.mut.UpdateDeadline(s.userID, p)
		s.finish(frame.AckID, ack, broadcasts)

	case EventSetAssignee:
		var p AssigneePayload
		if err := unmarshalPayload(frame.Payload, &p); err != nil {
			s.sendAck(frame.AckID, ErrAck(ErrCodeValidation, "Invalid payload"))
			return
		}
		ack, broadcasts := s.mut.SetAssignee(s.userID, p)
		s.finish(frame.AckID, ack, broadcasts)

	default:
		s.sendAck(frame.AckID, ErrAck(ErrCodeValidation, "Unknown event: "+frame.Event))
	}
}

// finish emits the direct ack and hands broadcast instructions to the hub.
// The two outputs are independent: the ack goes straight onto the caller's
// own queue and never waits for room delivery.
func (s *Session) finish(ackID int64, ack Ack, broadcasts []Broadcast) {
	s.sendAck(ackID, ack)
	for _, b := range broadcasts {
		s.hub.Broadcast(b.Room, b.Event, b.Payload)
	}
}

func unmarshalPayload(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("empty payload")
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	return dec.Decode(v)
}
