package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authgate/pkg/email"
)

func TestMessage_Validate(t *testing.T) {
	t.Parallel()

	valid := email.Message{To: "ann@example.com", Subject: "Hi", BodyHTML: "<p>hi</p>"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name string
		mod  func(m *email.Message)
	}{
		{"bad recipient", func(m *email.Message) { m.To = "not-an-email" }},
		{"empty recipient", func(m *email.Message) { m.To = "" }},
		{"empty subject", func(m *email.Message) { m.Subject = "  " }},
		{"empty body", func(m *email.Message) { m.BodyHTML = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := valid
			tt.mod(&m)
			assert.ErrorIs(t, m.Validate(), email.ErrInvalidMessage)
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	s, err := email.New(email.Config{DevDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &email.DevSender{}, s)

	s, err = email.New(email.Config{ServerToken: "token", Sender: "noreply@example.com"})
	require.NoError(t, err)
	assert.NotNil(t, s)

	_, err = email.New(email.Config{ServerToken: "token", Sender: "nope"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)

	_, err = email.NewPostmarkSender(email.Config{Sender: "noreply@example.com"})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)
}

func TestDevSender(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "emails")
	msg, err := email.Welcome("Ann <script>", "ann@example.com")
	require.NoError(t, err)
	assert.NotContains(t, msg.BodyHTML, "<script>", "names are escaped")

	require.NoError(t, email.NewDevSender(dir).Send(context.Background(), msg))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var metaFile string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".json") {
			metaFile = filepath.Join(dir, e.Name())
		}
		assert.Contains(t, e.Name(), "welcome")
	}
	require.NotEmpty(t, metaFile)

	data, err := os.ReadFile(metaFile)
	require.NoError(t, err)
	var meta map[string]string
	require.NoError(t, json.Unmarshal(data, &meta))
	assert.Equal(t, "ann@example.com", meta["to"])
	assert.Equal(t, "welcome", meta["tag"])

	err = email.NewDevSender(dir).Send(context.Background(), email.Message{To: "bad"})
	assert.ErrorIs(t, err, email.ErrInvalidMessage)
}
