package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"yoke_travel/internal/config"
	"yoke_travel/internal/middleware"
	"yoke_travel/internal/models"
)

func messagePayload(m *models.Message, sender *models.User) gin.H {
	out := gin.H{
		"id":         m.ID,
		"senderId":   m.SenderID,
		"receiverId": m.ReceiverID,
		"content":    m.Content,
		"read":       m.Read,
		"createdAt":  m.CreatedAt,
	}
	if sender != nil {
		out["sender"] = gin.H{
			"id":         sender.ID,
			"full_name":  sender.FullName,
			"profilePic": sender.ProfilePic,
		}
	}
	return out
}

// SendMessage persists the message, then best-effort pushes it to the
// receiver's live connection. An offline receiver is not an error.
func SendMessage(c *gin.Context) {
	var body struct {
		ReceiverID uint   `json:"receiverId"`
		Content    string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ReceiverID == 0 || body.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Receiver ID and content are required"})
		return
	}

	var receiver models.User
	if err := config.DB.First(&receiver, body.ReceiverID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Receiver not found"})
		return
	}

	senderID := middleware.UserID(c)
	message := models.Message{
		SenderID:   senderID,
		ReceiverID: body.ReceiverID,
		Content:    body.Content,
	}
	if err := config.DB.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to send message"})
		return
	}

	var sender models.User
	config.DB.First(&sender, senderID)
	payload := messagePayload(&message, &sender)

	pushToUser(body.ReceiverID, gin.H{"type": "new_message", "message": payload})

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": payload})
}

// GetMessages returns both directions between the caller and a counterpart.
func GetMessages(c *gin.Context) {
	userID := middleware.UserID(c)
	otherID := c.Param("userId")

	var messages []models.Message
	if err := config.DB.Preload("Sender").Preload("Receiver").
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at DESC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch messages"})
		return
	}

	out := make([]gin.H, 0, len(messages))
	for i := range messages {
		out = append(out, messagePayload(&messages[i], &messages[i].Sender))
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": out})
}

// GetConversations aggregates the latest message and unread count per
// counterpart, newest conversation first.
func GetConversations(c *gin.Context) {
	userID := middleware.UserID(c)

	var messages []models.Message
	if err := config.DB.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at ASC").Find(&messages).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch conversations"})
		return
	}

	type convo struct {
		last   models.Message
		unread int
	}
	byOther := map[uint]*convo{}
	order := []uint{}

	for i := range messages {
		m := messages[i]
		other := m.ReceiverID
		if m.ReceiverID == userID {
			other = m.SenderID
		}
		cv, ok := byOther[other]
		if !ok {
			cv = &convo{}
			byOther[other] = cv
			order = append(order, other)
		}
		cv.last = m
		if m.ReceiverID == userID && m.SenderID == other && !m.Read && other != userID {
			cv.unread++
		}
	}

	// Most recent activity first, regardless of when contact started.
	sort.SliceStable(order, func(i, j int) bool {
		return byOther[order[i]].last.CreatedAt.After(byOther[order[j]].last.CreatedAt)
	})

	out := make([]gin.H, 0, len(byOther))
	for _, other := range order {
		cv := byOther[other]

		var otherUser gin.H
		if other == userID {
			otherUser = gin.H{"id": userID, "full_name": "Your Notes", "profilePic": ""}
		} else {
			var u models.User
			if err := config.DB.First(&u, other).Error; err != nil {
				continue
			}
			otherUser = gin.H{"id": u.ID, "full_name": u.FullName, "profilePic": u.ProfilePic}
		}

		out = append(out, gin.H{
			"otherUser": otherUser,
			"lastMessage": gin.H{
				"content":   cv.last.Content,
				"createdAt": cv.last.CreatedAt,
				"isFromMe":  cv.last.SenderID == userID,
			},
			"unreadCount":        cv.unread,
			"isSelfConversation": other == userID,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "conversations": out})
}

// MarkAsRead flips everything from the counterpart to the caller to read.
func MarkAsRead(c *gin.Context) {
	err := config.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", c.Param("userId"), middleware.UserID(c), false).
		Update("read", true).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to mark messages read"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
