package domain

// ChatChannel is the single shared team chat partition.
const ChatChannel = "teamChat"

// ChatMessage is an append-only team chat entry ordered by Timestamp.
type ChatMessage struct {
	ID        string `json:"id" dynamodbav:"message_id"`
	Channel   string `json:"-" dynamodbav:"channel"`
	SortKey   string `json:"-" dynamodbav:"sort_key"`
	User      string `json:"user" dynamodbav:"user"`
	Message   string `json:"message" dynamodbav:"message"`
	Time      string `json:"time" dynamodbav:"time"`
	Avatar    string `json:"avatar" dynamodbav:"avatar"`
	Timestamp int64  `json:"timestamp" dynamodbav:"timestamp"`
}

type ChatMessageInput struct {
	Message string `json:"message"`
}
