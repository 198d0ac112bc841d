package locale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/voxalabs/voxa/internal/models"
)

func TestNormalizeDefaultsToHinglish(t *testing.T) {
	assert.Equal(t, English, Normalize("English"))
	assert.Equal(t, English, Normalize("english"))
	assert.Equal(t, Hinglish, Normalize("hinglish"))
	assert.Equal(t, Hinglish, Normalize(""))
	assert.Equal(t, Hinglish, Normalize("french"))
}

func TestAnnouncementBothLanguages(t *testing.T) {
	assert.Equal(t, "Reminder! It's time to call mom.", Announcement("call mom", English))
	assert.Equal(t, "Reminder! call mom ka time ho gaya.", Announcement("call mom", Hinglish))
}

func TestSmartAnnouncementTones(t *testing.T) {
	assert.Equal(t,
		"🚨 Important reminder: submit report - this is time-sensitive!",
		SmartAnnouncement("submit report", models.Context{Language: English, Urgency: "high"}))
	assert.Equal(t,
		"💭 Just a gentle reminder: stretch. Take your time! 🌟",
		SmartAnnouncement("stretch", models.Context{Language: English, Urgency: "low"}))
	assert.Equal(t,
		"👋 Hey! Remember you wanted me to remind you to call mom!",
		SmartAnnouncement("call mom", models.Context{Language: English, Urgency: "medium", Category: "communication"}))
	assert.Equal(t,
		"⏰ Reminder: Time to water plants! Hope you're ready! 😊",
		SmartAnnouncement("water plants", models.Context{Language: English, Urgency: "medium", Category: "general"}))

	assert.Equal(t,
		"🚨 Important reminder: dawai - ye urgent hai!",
		SmartAnnouncement("dawai", models.Context{Language: Hinglish, Urgency: "high"}))
	assert.Equal(t,
		"⏰ Yaad dilane aaya hun: khana ka time ho gaya! Ready ho? 😊",
		SmartAnnouncement("khana", models.Context{Urgency: "medium"}))
}

func TestFormatTimeNaturally(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	assert.Equal(t, "in 15 minutes", FormatTimeNaturally(now.Add(15*time.Minute), English, now))
	assert.Equal(t, "at 3:00 PM today", FormatTimeNaturally(now.Add(5*time.Hour), English, now))
	assert.Equal(t, "tomorrow at 10:00 AM", FormatTimeNaturally(now.AddDate(0, 0, 1), English, now))

	assert.Equal(t, "15 minute mein", FormatTimeNaturally(now.Add(15*time.Minute), Hinglish, now))
	assert.Equal(t, "aaj 3:00 baje", FormatTimeNaturally(now.Add(5*time.Hour), Hinglish, now))
}

func TestRemainingTiers(t *testing.T) {
	assert.Equal(t, "Next reminder: 'tea' in 45 seconds", Remaining("tea", 45*time.Second, English))
	assert.Equal(t, "Next reminder: 'tea' in 5m 30s", Remaining("tea", 5*time.Minute+30*time.Second, English))
	assert.Equal(t, "Next reminder: 'tea' in 2h 15m", Remaining("tea", 2*time.Hour+15*time.Minute, English))
	assert.Equal(t, "Agla reminder: 'tea' - 45 seconds baaki", Remaining("tea", 45*time.Second, Hinglish))
}

func TestReminderList(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)

	assert.Equal(t, NoActiveReminders(English), ReminderList(nil, English, now))

	reminders := []*models.Reminder{
		{Task: "tea", TriggerTime: now.Add(10 * time.Minute)},
		{Task: "walk", TriggerTime: now.Add(30 * time.Minute)},
	}
	list := ReminderList(reminders, English, now)
	assert.Contains(t, list, "You have 2 active reminders:")
	assert.Contains(t, list, "1. tea - in 10 minutes")
	assert.Contains(t, list, "2. walk - in 30 minutes")
}
