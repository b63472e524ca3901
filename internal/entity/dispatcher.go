package entity

// MessageDispatcher delivers already formatted notifications.
type MessageDispatcher interface {
	Send(notification []string) error
}
