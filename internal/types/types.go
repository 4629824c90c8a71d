package types

import (
	"time"
)

type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type Topic struct {
	Id        int    `json:"id"`
	Name      string `json:"name"`
	RoomCount int    `json:"room_count"`
}

type Room struct {
	Id               int       `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Topic            Topic     `json:"topic"`
	HostId           int       `json:"host_id,omitempty"`
	HostUsername     string    `json:"host_username,omitempty"`
	ParticipantCount int       `json:"participant_count"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

type Message struct {
	Id        int       `json:"id"`
	RoomId    int       `json:"room_id"`
	RoomName  string    `json:"room_name"`
	UserId    int       `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// HomeContext is the payload for the room listing page.
type HomeContext struct {
	Rooms          []Room    `json:"rooms"`
	Topics         []Topic   `json:"topics"`
	TopicCount     int       `json:"topic_count"`
	RecentMessages []Message `json:"recent_messages"`
}

type TopicsContext struct {
	Topics []Topic `json:"topics"`
}

type RoomDetailContext struct {
	Room             Room      `json:"room"`
	RoomMessages     []Message `json:"room_messages"`
	Participants     []User    `json:"participants"`
	ParticipantCount int       `json:"participant_count"`
}

type RoomFormContext struct {
	Topics []Topic `json:"topics"`
	Room   *Room   `json:"room,omitempty"`
}

// DeleteContext is the confirmation payload for the two-step delete flows.
type DeleteContext struct {
	Object string `json:"object"`
}

type ProfileContext struct {
	User           User      `json:"user"`
	Rooms          []Room    `json:"rooms"`
	Topics         []Topic   `json:"topics"`
	TopicCount     int       `json:"topic_count"`
	RecentMessages []Message `json:"recent_messages"`
}
