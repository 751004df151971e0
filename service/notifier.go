package service

import "sync"

type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyInfo    NotificationKind = "info"
	NotifyError   NotificationKind = "error"
)

type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Notifier is a fire-and-forget sink for user-visible messages (toasts).
type Notifier interface {
	Notify(kind NotificationKind, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind NotificationKind, message string)

func (f NotifierFunc) Notify(kind NotificationKind, message string) { f(kind, message) }

type discardNotifier struct{}

func (discardNotifier) Notify(NotificationKind, string) {}

// FlashQueue buffers notifications until the next page render drains them.
type FlashQueue struct {
	mu    sync.Mutex
	items []Notification
}

func (q *FlashQueue) Notify(kind NotificationKind, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, Notification{Kind: kind, Message: message})
}

// Drain returns and clears the pending notifications.
func (q *FlashQueue) Drain() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.items
	q.items = nil
	return out
}
