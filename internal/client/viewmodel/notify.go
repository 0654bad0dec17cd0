package viewmodel

// Level classifies a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelError
)

func (l Level) String() string {
	if l == LevelError {
		return "error"
	}
	return "info"
}

// Notification is a user-visible message raised by a view-model.
type Notification struct {
	Level   Level
	Message string
	Err     error
}

// Notifier delivers notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(Notification) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

func notifyError(n Notifier, msg string, err error) {
	n.Notify(Notification{Level: LevelError, Message: msg, Err: err})
}

func notifyInfo(n Notifier, msg string) {
	n.Notify(Notification{Level: LevelInfo, Message: msg})
}
