package controllers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
)

// upgrader configures the WebSocket connection.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all for development (restrict in production!)
	},
}

// chatClient serializes writes to one connection; the REST send path and the
// socket read loop may both push to it.
type chatClient struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *chatClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// connRegistry maps a user id to their live connection for the life of the
// process. Mutated only on connect/disconnect, read on every push.
type connRegistry struct {
	mu      sync.RWMutex
	clients map[uint]*chatClient
}

var chatHub = &connRegistry{clients: make(map[uint]*chatClient)}

func (r *connRegistry) register(userID uint, c *chatClient) {
	r.mu.Lock()
	r.clients[userID] = c
	r.mu.Unlock()
}

func (r *connRegistry) unregister(userID uint, c *chatClient) {
	r.mu.Lock()
	if r.clients[userID] == c {
		delete(r.clients, userID)
	}
	r.mu.Unlock()
}

func (r *connRegistry) get(userID uint) *chatClient {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[userID]
}

// pushToUser delivers a payload to a live connection if one exists. Offline
// recipients are fine — the message is already durable.
func pushToUser(userID uint, payload interface{}) bool {
	client := chatHub.get(userID)
	if client == nil {
		return false
	}
	if err := client.writeJSON(payload); err != nil {
		logrus.WithField("user_id", userID).WithError(err).Warn("websocket push failed")
		return false
	}
	return true
}

type inboundFrame struct {
	Type       string `json:"type"`
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
	IsTyping   bool   `json:"isTyping"`
	MessageID  uint   `json:"messageId"`
}

// HandleChatSocket upgrades a token-authenticated connection and serves the
// near-real-time message channel.
func HandleChatSocket(c *gin.Context) {
	token := c.Query("token")
	userID, err := middleware.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or missing token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &chatClient{conn: conn}
	chatHub.register(userID, client)
	defer func() {
		chatHub.unregister(userID, client)
		conn.Close()
	}()

	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case "send_message":
			handleSocketSend(client, userID, frame)
		case "typing":
			pushToUser(frame.ReceiverID, gin.H{
				"type":     "typing",
				"senderId": userID,
				"isTyping": frame.IsTyping,
			})
		case "mark_read":
			if err := config.DB.Model(&models.Message{}).
				Where("id = ?", frame.MessageID).
				Update("read", true).Error; err != nil {
				logrus.WithField("message_id", frame.MessageID).WithError(err).Error("mark_read failed")
			}
		default:
			logrus.WithField("type", frame.Type).Debug("ignoring unknown websocket frame")
		}
	}
}

func handleSocketSend(sender *chatClient, senderID uint, frame inboundFrame) {
	if frame.ReceiverID == 0 || frame.Content == "" {
		return
	}

	message := models.Message{
		SenderID:   senderID,
		ReceiverID: frame.ReceiverID,
		Content:    frame.Content,
	}
	if err := config.DB.Create(&message).Error; err != nil {
		logrus.WithError(err).Error("websocket message persist failed")
		return
	}

	var senderUser models.User
	config.DB.First(&senderUser, senderID)
	payload := gin.H{"type": "new_message", "message": messagePayload(&message, &senderUser)}

	// Receiver first, then echo back to the sender.
	pushToUser(frame.ReceiverID, payload)
	if err := sender.writeJSON(payload); err != nil {
		logrus.WithError(err).Warn("websocket echo failed")
	}
}
