package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/npezzotti/chatrooms/internal/database"
	"github.com/npezzotti/chatrooms/internal/forms"
	"github.com/npezzotti/chatrooms/internal/stats"
	"github.com/npezzotti/chatrooms/internal/types"
)

const (
	topTopicsLimit      = 6
	recentMessagesLimit = 6
)

func (s *ChatroomsApp) writeJson(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Printf("json encode: %v", err)
	}
}

func pathId(r *http.Request) (int, error) {
	return strconv.Atoi(r.PathValue("id"))
}

func isHost(room database.Room, userId int) bool {
	return room.HostId.Valid && int(room.HostId.Int64) == userId
}

// home lists rooms matching the optional q parameter against room or
// topic names, alongside the busiest topics and latest activity.
func (s *ChatroomsApp) home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	rooms, err := s.db.SearchRooms(q)
	if err != nil {
		s.log.Println("search rooms:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topics, err := s.db.TopTopics(topTopicsLimit)
	if err != nil {
		s.log.Println("top topics:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topicCount, err := s.db.CountTopics()
	if err != nil {
		s.log.Println("count topics:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	recentMessages, err := s.db.ListRecentMessages(recentMessagesLimit)
	if err != nil {
		s.log.Println("recent messages:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, types.HomeContext{
		Rooms:          apiRooms(rooms),
		Topics:         apiTopics(topics),
		TopicCount:     topicCount,
		RecentMessages: apiMessages(recentMessages),
	})
}

func (s *ChatroomsApp) topics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	topics, err := s.db.SearchTopics(q)
	if err != nil {
		s.log.Println("search topics:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, types.TopicsContext{Topics: apiTopics(topics)})
}

func (s *ChatroomsApp) createRoomForm(w http.ResponseWriter, r *http.Request) {
	topics, err := s.db.SearchTopics("")
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, types.RoomFormContext{Topics: apiTopics(topics)})
}

func (s *ChatroomsApp) createRoom(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	form := forms.NewRoomForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		errResp := NewValidationError(errs)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topic, err := s.db.GetOrCreateTopic(form.TopicInput)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	// The host column is left unset here and only assigned on edit,
	// matching the behavior this application replaces.
	_, err = s.db.CreateRoom(database.CreateRoomParams{
		Name:        form.Name,
		Description: form.Description,
		TopicId:     topic.Id,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr(stats.RoomsCreated)

	http.Redirect(w, r, "/", http.StatusFound)
}

// loadHostedRoom fetches the room and enforces the host-only policy:
// anyone who is not the current host, signed in or not, sees not-found
// so room ownership is never leaked.
func (s *ChatroomsApp) loadHostedRoom(w http.ResponseWriter, r *http.Request) (database.Room, bool) {
	id, err := pathId(r)
	if err != nil {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return database.Room{}, false
	}

	room, err := s.db.GetRoomById(id)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return database.Room{}, false
	}

	userId, ok := UserId(r.Context())
	if !ok || !isHost(room, userId) {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return database.Room{}, false
	}

	return room, true
}

func (s *ChatroomsApp) updateRoomForm(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	topics, err := s.db.SearchTopics("")
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	roomCtx := apiRoom(room)
	s.writeJson(w, http.StatusOK, types.RoomFormContext{
		Topics: apiTopics(topics),
		Room:   &roomCtx,
	})
}

func (s *ChatroomsApp) updateRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	form := forms.NewRoomForm(r.PostForm)
	if errs := form.Validate(); len(errs) > 0 {
		errResp := NewValidationError(errs)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topic, err := s.db.GetOrCreateTopic(form.TopicInput)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, _ := UserId(r.Context())
	_, err = s.db.UpdateRoom(database.UpdateRoomParams{
		RoomId:      room.Id,
		Name:        form.Name,
		Description: form.Description,
		TopicId:     topic.Id,
		HostId:      userId,
	})
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *ChatroomsApp) roomDetailContext(roomId int) (types.RoomDetailContext, error) {
	room, err := s.db.GetRoomById(roomId)
	if err != nil {
		return types.RoomDetailContext{}, err
	}

	messages, err := s.db.ListRoomMessages(roomId)
	if err != nil {
		return types.RoomDetailContext{}, err
	}

	participants, err := s.db.ListParticipants(roomId)
	if err != nil {
		return types.RoomDetailContext{}, err
	}

	return types.RoomDetailContext{
		Room:             apiRoom(room),
		RoomMessages:     apiMessages(messages),
		Participants:     apiUsers(participants),
		ParticipantCount: len(participants),
	}, nil
}

func (s *ChatroomsApp) roomDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	detail, err := s.roomDetailContext(id)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, detail)
}

// postMessage stores a message and joins its author to the room. Blank
// content is dropped without an error and the detail context is
// re-rendered either way.
func (s *ChatroomsApp) postMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	room, err := s.db.GetRoomById(id)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	if err := r.ParseForm(); err != nil {
		errResp := NewBadRequestError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	userId, _ := UserId(r.Context())
	content := r.PostForm.Get("content")
	if forms.ValidMessageContent(content) {
		_, err := s.db.CreateMessage(database.CreateMessageParams{
			RoomId:  room.Id,
			UserId:  userId,
			Content: content,
		})
		if err != nil {
			errResp := NewInternalServerError(err)
			s.writeJson(w, errResp.StatusCode, errResp)
			return
		}

		s.stats.Incr(stats.MessagesCreated)
	}

	detail, err := s.roomDetailContext(room.Id)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, detail)
}

func (s *ChatroomsApp) deleteRoomConfirm(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	s.writeJson(w, http.StatusOK, types.DeleteContext{Object: room.Name})
}

func (s *ChatroomsApp) deleteRoom(w http.ResponseWriter, r *http.Request) {
	room, ok := s.loadHostedRoom(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteRoom(room.Id); err != nil {
		s.log.Println("delete room:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr(stats.RoomsDeleted)

	http.Redirect(w, r, "/", http.StatusFound)
}

// loadAuthoredMessage fetches the message and enforces the author-only
// policy with the same not-found shape as the room paths.
func (s *ChatroomsApp) loadAuthoredMessage(w http.ResponseWriter, r *http.Request) (database.Message, bool) {
	id, err := pathId(r)
	if err != nil {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return database.Message{}, false
	}

	msg, err := s.db.GetMessageById(id)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return database.Message{}, false
	}

	userId, ok := UserId(r.Context())
	if !ok || msg.UserId != userId {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return database.Message{}, false
	}

	return msg, true
}

func (s *ChatroomsApp) deleteMessageConfirm(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadAuthoredMessage(w, r)
	if !ok {
		return
	}

	s.writeJson(w, http.StatusOK, types.DeleteContext{Object: msg.Content})
}

func (s *ChatroomsApp) deleteMessage(w http.ResponseWriter, r *http.Request) {
	msg, ok := s.loadAuthoredMessage(w, r)
	if !ok {
		return
	}

	if err := s.db.DeleteMessage(msg.Id); err != nil {
		s.log.Println("delete message:", err)
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.stats.Incr(stats.MessagesDeleted)

	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *ChatroomsApp) profile(w http.ResponseWriter, r *http.Request) {
	id, err := pathId(r)
	if err != nil {
		errResp := NewNotFoundError()
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	user, err := s.db.GetAccountById(id)
	if err != nil {
		var errResp *ApiError
		if errors.Is(err, sql.ErrNoRows) {
			errResp = NewNotFoundError()
		} else {
			errResp = NewInternalServerError(err)
		}
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	rooms, err := s.db.ListRoomsByHost(user.Id)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topics, err := s.db.TopTopics(topTopicsLimit)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	topicCount, err := s.db.CountTopics()
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	recentMessages, err := s.db.ListRecentMessagesByUser(user.Id, recentMessagesLimit)
	if err != nil {
		errResp := NewInternalServerError(err)
		s.writeJson(w, errResp.StatusCode, errResp)
		return
	}

	s.writeJson(w, http.StatusOK, types.ProfileContext{
		User:           apiUser(user),
		Rooms:          apiRooms(rooms),
		Topics:         apiTopics(topics),
		TopicCount:     topicCount,
		RecentMessages: apiMessages(recentMessages),
	})
}
