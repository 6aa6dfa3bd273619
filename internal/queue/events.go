package queue

// Routing keys published on the market exchange.
const (
	KeyUserRegistered   = "user.registered"
	KeyUserLoggedIn     = "user.loggedin"
	KeyOrderCreated     = "order.created"
	KeyChatMessage      = "chat.message.created"
	KeyNewsletterSignup = "newsletter.subscribed"
)

type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

type UserLoggedIn struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type OrderCreated struct {
	OrderID    string  `json:"order_id"`
	UserID     string  `json:"user_id"`
	DomainName string  `json:"domain_name"`
	Amount     float64 `json:"amount"`
}

type ChatMessageCreated struct {
	SessionID string `json:"session_id"`
	MessageID string `json:"message_id"`
	Sender    string `json:"sender"`
}

type NewsletterSubscribed struct {
	Email string `json:"email"`
}
