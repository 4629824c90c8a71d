package database

import (
	"database/sql"
	"time"
)

type User struct {
	Id           int
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Topic struct {
	Id        int
	Name      string
	RoomCount int
}

type Room struct {
	Id               int
	Name             string
	Description      string
	Topic            Topic
	HostId           sql.NullInt64
	HostUsername     sql.NullString
	ParticipantCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Message struct {
	Id        int
	RoomId    int
	RoomName  string
	UserId    int
	Username  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CreateAccountParams struct {
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
}

type CreateRoomParams struct {
	Name        string
	Description string
	TopicId     int
	HostId      sql.NullInt64
}

type UpdateRoomParams struct {
	RoomId      int
	Name        string
	Description string
	TopicId     int
	HostId      int
}

type CreateMessageParams struct {
	RoomId  int
	UserId  int
	Content string
}
