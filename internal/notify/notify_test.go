package notify_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"fides/internal/notify"
)

func validNotification() notify.Notification {
	return notify.Notification{
		To:      "+12025550123",
		Subject: "Test notification",
		Text:    "It works.",
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validNotification().Validate())

	t.Run("phone number shape", func(t *testing.T) {
		bad := []string{
			"",
			"12025550123",     // no plus
			"+02025550123",    // leading zero
			"+1202555",        // too short
			"+1202555012345678", // too long
			"+1202555O123",    // letter
			"+1 202 555 0123", // spaces
		}
		for _, to := range bad {
			n := validNotification()
			n.To = to
			assert.Error(t, n.Validate(), "to=%q", to)
		}

		good := []string{"+12025550123", "+442071838750", "+8615912345678"}
		for _, to := range good {
			n := validNotification()
			n.To = to
			assert.NoError(t, n.Validate(), "to=%q", to)
		}
	})

	t.Run("subject bounds", func(t *testing.T) {
		n := validNotification()
		n.Subject = ""
		assert.Error(t, n.Validate())
		n.Subject = strings.Repeat("s", 200)
		assert.NoError(t, n.Validate())
		n.Subject = strings.Repeat("s", 201)
		assert.Error(t, n.Validate())
	})

	t.Run("text bounds", func(t *testing.T) {
		n := validNotification()
		n.Text = ""
		assert.Error(t, n.Validate())
		n.Text = strings.Repeat("t", 5000)
		assert.NoError(t, n.Validate())
		n.Text = strings.Repeat("t", 5001)
		assert.Error(t, n.Validate())
	})
}

func TestMaskPhone(t *testing.T) {
	assert.Equal(t, "+120***23", notify.MaskPhone("+12025550123"))
	assert.Equal(t, "+442***50", notify.MaskPhone("+442071838750"))
	assert.Equal(t, "***", notify.MaskPhone("+12025"))
	assert.Equal(t, "***", notify.MaskPhone(""))
}
