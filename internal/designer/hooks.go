package designer

import (
	"context"

	"github.com/hostel-manager/room-designer/internal/models"
)

// NoticeLevel is the severity of a user-facing notice.
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a message meant for the user, such as a rejected add.
type Notice struct {
	Level   NoticeLevel
	Op      string
	Message string
}

// Notifier receives user-facing notices.
type Notifier interface {
	Notify(n Notice)
}

// Backup receives the current layout after every committed change so that
// unsaved work survives a lost session.
type Backup interface {
	Backup(layout models.Layout) error
}

// Saver is the save-room collaborator that persists a finished layout.
type Saver interface {
	SaveLayout(ctx context.Context, layout models.Layout) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notice) {}
