package types

// Event names pushed into the embedded view
const (
	EventNotification = "notification"
	EventWindowState  = "window.state"
	EventWindowReload = "window.reload"
)

// Frame is one event delivered over the view event channel
type Frame struct {
	ID      string      `json:"id"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// NotificationPayload is the payload of a notification frame
type NotificationPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}
