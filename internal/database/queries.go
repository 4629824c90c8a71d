package database

import (
	"fmt"
	"strings"
	"time"
)

const roomColumns = `
		r.id,
		r.name,
		r.description,
		t.id AS topic_id,
		t.name AS topic_name,
		r.host_id,
		h.username AS host_username,
		COUNT(p.user_id) AS participant_count,
		r.created_at,
		r.updated_at
	FROM rooms r
	JOIN topics t ON t.id = r.topic_id
	LEFT JOIN users h ON h.id = r.host_id
	LEFT JOIN room_participants p ON p.room_id = r.id`

func scanRoom(row interface{ Scan(...any) error }) (Room, error) {
	var room Room
	err := row.Scan(
		&room.Id,
		&room.Name,
		&room.Description,
		&room.Topic.Id,
		&room.Topic.Name,
		&room.HostId,
		&room.HostUsername,
		&room.ParticipantCount,
		&room.CreatedAt,
		&room.UpdatedAt,
	)

	return room, err
}

func (db *PgChatroomsRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO users (username, first_name, last_name, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $5) RETURNING id, username, first_name, last_name, is_active, is_staff, created_at, updated_at",
		params.Username,
		params.FirstName,
		params.LastName,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.IsStaff,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgChatroomsRepository) GetAccountById(id int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, first_name, last_name, is_active, is_staff, created_at, updated_at "+
			"FROM users WHERE id = $1 LIMIT 1",
		id,
	)

	var u User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.IsActive,
		&u.IsStaff,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgChatroomsRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, first_name, last_name, password_hash, is_active, is_staff, created_at, updated_at "+
			"FROM users WHERE username = $1 LIMIT 1",
		username,
	)

	var u User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

// GetOrCreateTopic resolves a topic by exact name, creating it if absent.
// The upsert keys on the unique index so concurrent callers converge on one row.
func (db *PgChatroomsRepository) GetOrCreateTopic(name string) (Topic, error) {
	row := db.conn.QueryRow(
		"INSERT INTO topics (name) VALUES ($1) "+
			"ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id, name",
		name,
	)

	var topic Topic
	err := row.Scan(&topic.Id, &topic.Name)

	return topic, err
}

// likePattern builds a substring ILIKE pattern from q, escaping the
// characters ILIKE treats as wildcards so they match literally.
func likePattern(q string) string {
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}

func (db *PgChatroomsRepository) SearchTopics(q string) ([]Topic, error) {
	rows, err := db.conn.Query(
		"SELECT t.id, t.name, COUNT(r.id) AS room_count FROM topics t "+
			"LEFT JOIN rooms r ON r.topic_id = t.id "+
			"WHERE t.name ILIKE $1 GROUP BY t.id ORDER BY t.name",
		likePattern(q),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics = make([]Topic, 0)
	for rows.Next() {
		var topic Topic
		if err := rows.Scan(&topic.Id, &topic.Name, &topic.RoomCount); err != nil {
			return nil, err
		}

		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

func (db *PgChatroomsRepository) TopTopics(limit int) ([]Topic, error) {
	rows, err := db.conn.Query(
		"SELECT t.id, t.name, COUNT(r.id) AS room_count FROM topics t "+
			"LEFT JOIN rooms r ON r.topic_id = t.id "+
			"GROUP BY t.id ORDER BY room_count DESC, t.id LIMIT $1",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics = make([]Topic, 0, limit)
	for rows.Next() {
		var topic Topic
		if err := rows.Scan(&topic.Id, &topic.Name, &topic.RoomCount); err != nil {
			return nil, err
		}

		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

func (db *PgChatroomsRepository) CountTopics() (int, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(*) FROM topics").Scan(&count)

	return count, err
}

// SearchRooms returns rooms whose name or topic name contains q,
// case-insensitively. An empty q matches every room.
func (db *PgChatroomsRepository) SearchRooms(q string) ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT"+roomColumns+
			" WHERE r.name ILIKE $1 OR t.name ILIKE $1 "+
			"GROUP BY r.id, t.id, h.username ORDER BY r.created_at DESC",
		likePattern(q),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRooms(rows)
}

func (db *PgChatroomsRepository) GetRoomById(id int) (Room, error) {
	row := db.conn.QueryRow(
		"SELECT"+roomColumns+
			" WHERE r.id = $1 GROUP BY r.id, t.id, h.username",
		id,
	)

	return scanRoom(row)
}

func (db *PgChatroomsRepository) ListRoomsByHost(hostId int) ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT"+roomColumns+
			" WHERE r.host_id = $1 "+
			"GROUP BY r.id, t.id, h.username ORDER BY r.created_at DESC",
		hostId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRooms(rows)
}

func (db *PgChatroomsRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	res := db.conn.QueryRow(
		"INSERT INTO rooms (name, description, topic_id, host_id, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5, $5) RETURNING id",
		params.Name,
		params.Description,
		params.TopicId,
		params.HostId,
		time.Now().UTC(),
	)

	var id int
	if err := res.Scan(&id); err != nil {
		return Room{}, err
	}

	return db.GetRoomById(id)
}

func (db *PgChatroomsRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	res, err := db.conn.Exec(
		"UPDATE rooms SET name = $2, description = $3, topic_id = $4, host_id = $5, updated_at = $6 "+
			"WHERE id = $1",
		params.RoomId,
		params.Name,
		params.Description,
		params.TopicId,
		params.HostId,
		time.Now().UTC(),
	)
	if err != nil {
		return Room{}, err
	}

	if n, err := res.RowsAffected(); err != nil {
		return Room{}, err
	} else if n == 0 {
		return Room{}, fmt.Errorf("room with id %d not found", params.RoomId)
	}

	return db.GetRoomById(params.RoomId)
}

func (db *PgChatroomsRepository) DeleteRoom(id int) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec("DELETE FROM messages WHERE room_id = $1", id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM room_participants WHERE room_id = $1", id)
	if err != nil {
		return err
	}

	_, err = tx.Exec("DELETE FROM rooms WHERE id = $1", id)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (db *PgChatroomsRepository) ListParticipants(roomId int) ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT u.id, u.username, u.first_name, u.last_name FROM room_participants p "+
			"JOIN users u ON u.id = p.user_id WHERE p.room_id = $1 ORDER BY u.username",
		roomId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users = make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Id, &u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, err
		}

		users = append(users, u)
	}

	return users, rows.Err()
}

// CreateMessage inserts a message and joins its author to the room's
// participant set in one transaction. Re-joining is a no-op.
func (db *PgChatroomsRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Message{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	_, err = tx.Exec(
		"INSERT INTO room_participants (room_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
		params.RoomId,
		params.UserId,
	)
	if err != nil {
		return Message{}, err
	}

	res := tx.QueryRow(
		"INSERT INTO messages (room_id, user_id, content, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING id, room_id, user_id, content, created_at, updated_at",
		params.RoomId,
		params.UserId,
		params.Content,
		time.Now().UTC(),
	)

	var msg Message
	err = res.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.UserId,
		&msg.Content,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		return Message{}, err
	}

	if err = tx.Commit(); err != nil {
		return Message{}, err
	}

	return msg, nil
}

func (db *PgChatroomsRepository) GetMessageById(id int) (Message, error) {
	row := db.conn.QueryRow(
		"SELECT m.id, m.room_id, r.name, m.user_id, u.username, m.content, m.created_at, m.updated_at "+
			"FROM messages m JOIN users u ON u.id = m.user_id JOIN rooms r ON r.id = m.room_id "+
			"WHERE m.id = $1 LIMIT 1",
		id,
	)

	return scanMessage(row)
}

func (db *PgChatroomsRepository) DeleteMessage(id int) error {
	_, err := db.conn.Exec("DELETE FROM messages WHERE id = $1", id)

	return err
}

func (db *PgChatroomsRepository) ListRoomMessages(roomId int) ([]Message, error) {
	return db.queryMessages(
		"SELECT m.id, m.room_id, r.name, m.user_id, u.username, m.content, m.created_at, m.updated_at "+
			"FROM messages m JOIN users u ON u.id = m.user_id JOIN rooms r ON r.id = m.room_id "+
			"WHERE m.room_id = $1 ORDER BY m.created_at",
		roomId,
	)
}

func (db *PgChatroomsRepository) ListRecentMessages(limit int) ([]Message, error) {
	return db.queryMessages(
		"SELECT m.id, m.room_id, r.name, m.user_id, u.username, m.content, m.created_at, m.updated_at "+
			"FROM messages m JOIN users u ON u.id = m.user_id JOIN rooms r ON r.id = m.room_id "+
			"ORDER BY m.created_at DESC LIMIT $1",
		limit,
	)
}

func (db *PgChatroomsRepository) ListRecentMessagesByUser(userId, limit int) ([]Message, error) {
	return db.queryMessages(
		"SELECT m.id, m.room_id, r.name, m.user_id, u.username, m.content, m.created_at, m.updated_at "+
			"FROM messages m JOIN users u ON u.id = m.user_id JOIN rooms r ON r.id = m.room_id "+
			"WHERE m.user_id = $1 ORDER BY m.created_at DESC LIMIT $2",
		userId,
		limit,
	)
}

func (db *PgChatroomsRepository) queryMessages(query string, args ...any) ([]Message, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}

		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func scanMessage(row interface{ Scan(...any) error }) (Message, error) {
	var msg Message
	err := row.Scan(
		&msg.Id,
		&msg.RoomId,
		&msg.RoomName,
		&msg.UserId,
		&msg.Username,
		&msg.Content,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)

	return msg, err
}

func collectRooms(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]Room, error) {
	var rooms = make([]Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}

		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}
