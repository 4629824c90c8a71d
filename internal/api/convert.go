package api

import (
	"github.com/npezzotti/chatrooms/internal/database"
	"github.com/npezzotti/chatrooms/internal/types"
)

func apiUser(u database.User) types.User {
	return types.User{
		Id:        u.Id,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func apiUsers(users []database.User) []types.User {
	out := make([]types.User, 0, len(users))
	for _, u := range users {
		out = append(out, apiUser(u))
	}
	return out
}

func apiTopic(t database.Topic) types.Topic {
	return types.Topic{
		Id:        t.Id,
		Name:      t.Name,
		RoomCount: t.RoomCount,
	}
}

func apiTopics(topics []database.Topic) []types.Topic {
	out := make([]types.Topic, 0, len(topics))
	for _, t := range topics {
		out = append(out, apiTopic(t))
	}
	return out
}

func apiRoom(r database.Room) types.Room {
	room := types.Room{
		Id:               r.Id,
		Name:             r.Name,
		Description:      r.Description,
		Topic:            apiTopic(r.Topic),
		ParticipantCount: r.ParticipantCount,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}

	if r.HostId.Valid {
		room.HostId = int(r.HostId.Int64)
		room.HostUsername = r.HostUsername.String
	}

	return room
}

func apiRooms(rooms []database.Room) []types.Room {
	out := make([]types.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, apiRoom(r))
	}
	return out
}

func apiMessage(m database.Message) types.Message {
	return types.Message{
		Id:        m.Id,
		RoomId:    m.RoomId,
		RoomName:  m.RoomName,
		UserId:    m.UserId,
		Username:  m.Username,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func apiMessages(messages []database.Message) []types.Message {
	out := make([]types.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, apiMessage(m))
	}
	return out
}
