package notification

import (
	"log"

	"github.com/Khushali-sys/Book-my-advocate/cmd/models"
	expo "github.com/oliveroneill/exponent-server-sdk-golang/sdk"
	"gorm.io/gorm"
)

// Notifier records typed events for a user and fans them out to the user's
// registered devices. Delivery is fire-and-forget: push failures are logged
// and never fail the operation that emitted the event.
type Notifier struct {
	db         *gorm.DB
	expoClient *expo.PushClient
}

func NewNotifier(db *gorm.DB) *Notifier {
	return &Notifier{
		db:         db,
		expoClient: expo.NewPushClient(nil),
	}
}

func (n *Notifier) Notify(userID uint, notificationType, title, message, link string) {
	record := models.Notification{
		UserID:           userID,
		NotificationType: notificationType,
		Title:            title,
		Message:          message,
		Link:             link,
	}

	if err := n.db.Create(&record).Error; err != nil {
		log.Printf("Error recording %s notification for user %d: %v", notificationType, userID, err)
		return
	}

	go n.push(userID, title, message)
}

func (n *Notifier) push(userID uint, title, body string) {
	var devices []models.Device
	if err := n.db.Where("user_id = ?", userID).Find(&devices).Error; err != nil {
		log.Printf("Error loading devices for user %d: %v", userID, err)
		return
	}
	if len(devices) == 0 {
		return
	}

	var validTokens []expo.ExponentPushToken
	var invalidTokens []string
	for _, device := range devices {
		pushToken, err := expo.NewExponentPushToken(device.Token)
		if err != nil {
			invalidTokens = append(invalidTokens, device.Token)
			continue
		}
		validTokens = append(validTokens, pushToken)
	}

	n.cleanupInvalidTokens(invalidTokens)

	if len(validTokens) == 0 {
		return
	}

	pushMessage := &expo.PushMessage{
		To:       validTokens,
		Title:    title,
		Body:     body,
		Sound:    "default",
		Priority: expo.DefaultPriority,
	}

	response, err := n.expoClient.Publish(pushMessage)
	if err != nil {
		log.Printf("Error publishing push notification for user %d: %v", userID, err)
		return
	}

	if validationErr := response.ValidateResponse(); validationErr != nil {
		log.Printf("Push notification validation error for user %d: %v", userID, validationErr)
	}
}

func (n *Notifier) cleanupInvalidTokens(tokens []string) {
	for _, token := range tokens {
		if err := n.db.Where("token = ?", token).Delete(&models.Device{}).Error; err != nil {
			log.Printf("Error cleaning up invalid token %s: %v", token, err)
		}
	}
}
