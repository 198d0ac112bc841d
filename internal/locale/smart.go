package locale

import (
	"fmt"

	"github.com/voxalabs/voxa/internal/models"
)

// Announcement tone, picked from the reminder's urgency and category.
// Urgency dominates; for medium urgency the category decides whether the
// message sounds like a nudge from a friend or a plain reminder.
const (
	toneUrgent   = "urgent"
	toneGentle   = "gentle"
	toneFriendly = "friendly"
	toneGeneral  = "general"
)

var smartTemplates = map[string]map[string]string{
	English: {
		toneUrgent:   "🚨 Important reminder: %s - this is time-sensitive!",
		toneGentle:   "💭 Just a gentle reminder: %s. Take your time! 🌟",
		toneFriendly: "👋 Hey! Remember you wanted me to remind you to %s!",
		toneGeneral:  "⏰ Reminder: Time to %s! Hope you're ready! 😊",
	},
	Hinglish: {
		toneUrgent:   "🚨 Important reminder: %s - ye urgent hai!",
		toneGentle:   "💭 Pyaar se yaad dila raha hun: %s. Tension mat lo! 🌟",
		toneFriendly: "👋 Arre! Yaad hai na - %s karna tha!",
		toneGeneral:  "⏰ Yaad dilane aaya hun: %s ka time ho gaya! Ready ho? 😊",
	},
}

func announcementTone(c models.Context) string {
	switch c.Urgency {
	case "high", "urgent":
		return toneUrgent
	case "low", "gentle":
		return toneGentle
	}
	switch c.Category {
	case "communication", "personal":
		return toneFriendly
	}
	return toneGeneral
}

// SmartAnnouncement renders a personalized announcement from the reminder's
// urgency, category and language. Used when the smart_messages setting is on;
// Announcement is the plain form.
func SmartAnnouncement(task string, c models.Context) string {
	lang := Normalize(c.Language)
	template, ok := smartTemplates[lang][announcementTone(c)]
	if !ok {
		return Announcement(task, lang)
	}
	return fmt.Sprintf(template, task)
}
