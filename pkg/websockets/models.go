package websockets

// MessageType defines the type of a WebSocket message.
type MessageType string

const (
	// MessageTypeNotice carries a notification for one account.
	MessageTypeNotice MessageType = "notice"
)

// Message represents a generic WebSocket message.
// An empty Recipient is delivered to every connection.
type Message struct {
	Type      MessageType `json:"type"`
	Recipient string      `json:"recipient,omitempty"`
	Payload   interface{} `json:"payload"`
}

// Connection is one subscribed client. Send is drained by the client's writer.
type Connection struct {
	ID        string
	AccountID string
	Send      chan []byte
}
