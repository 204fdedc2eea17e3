// Package ui provides ephemeral notifications for terminal views.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// NotificationLifetime is how long a notification stays on screen.
const NotificationLifetime = 3 * time.Second

// Model encapsulates the state for displaying non-blocking terminal alerts.
type Model struct {
	notification string
	notifiedAt   time.Time
}

// ClearNotificationMsg is a Bubbletea message used to reset the visual notification state.
type ClearNotificationMsg struct {
	at time.Time
}

// Notify returns a tea.Cmd that shows a formatted notification.
func Notify(format string, args ...any) tea.Cmd {
	return func() tea.Msg {
		return fmt.Sprintf(format, args...)
	}
}

// clearNotification returns a delayed tea.Cmd that clears the notification shown at t.
func clearNotification(t time.Time) tea.Cmd {
	return tea.Tick(NotificationLifetime, func(time.Time) tea.Msg {
		return ClearNotificationMsg{at: t}
	})
}

// Update processes incoming messages to modify the notification state.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case string:
		m.notification = msg
		m.notifiedAt = time.Now()
		return clearNotification(m.notifiedAt)
	case ClearNotificationMsg:
		// A newer notification keeps its own lifetime.
		if msg.at.Equal(m.notifiedAt) {
			m.notification = ""
		}
		return nil
	}
	return nil
}

// Notification returns the message currently shown, if any.
func (m *Model) Notification() string {
	return m.notification
}

// View appends the current notification to the last line of mainContent.
func (m *Model) View(mainContent string) string {
	if m.notification == "" {
		return mainContent
	}

	lines := strings.Split(mainContent, "\n")
	notifier := "\033[90m" + m.notification + "\033[0m"

	if len(lines) > 0 {
		lines[len(lines)-1] = lines[len(lines)-1] + "  " + notifier
	}
	return strings.Join(lines, "\n")
}
