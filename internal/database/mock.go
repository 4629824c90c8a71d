package database

import (
	"github.com/stretchr/testify/mock"
)

type MockChatroomsRepository struct {
	mock.Mock
}

func (m *MockChatroomsRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockChatroomsRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatroomsRepository) GetAccountById(id int) (User, error) {
	args := m.Called(id)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatroomsRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockChatroomsRepository) GetOrCreateTopic(name string) (Topic, error) {
	args := m.Called(name)
	return args.Get(0).(Topic), args.Error(1)
}
func (m *MockChatroomsRepository) SearchTopics(q string) ([]Topic, error) {
	args := m.Called(q)
	return args.Get(0).([]Topic), args.Error(1)
}
func (m *MockChatroomsRepository) TopTopics(limit int) ([]Topic, error) {
	args := m.Called(limit)
	return args.Get(0).([]Topic), args.Error(1)
}
func (m *MockChatroomsRepository) CountTopics() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}
func (m *MockChatroomsRepository) SearchRooms(q string) ([]Room, error) {
	args := m.Called(q)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockChatroomsRepository) GetRoomById(id int) (Room, error) {
	args := m.Called(id)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockChatroomsRepository) ListRoomsByHost(hostId int) ([]Room, error) {
	args := m.Called(hostId)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockChatroomsRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockChatroomsRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockChatroomsRepository) DeleteRoom(id int) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockChatroomsRepository) ListParticipants(roomId int) ([]User, error) {
	args := m.Called(roomId)
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockChatroomsRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatroomsRepository) GetMessageById(id int) (Message, error) {
	args := m.Called(id)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockChatroomsRepository) DeleteMessage(id int) error {
	args := m.Called(id)
	return args.Error(0)
}
func (m *MockChatroomsRepository) ListRoomMessages(roomId int) ([]Message, error) {
	args := m.Called(roomId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatroomsRepository) ListRecentMessages(limit int) ([]Message, error) {
	args := m.Called(limit)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockChatroomsRepository) ListRecentMessagesByUser(userId, limit int) ([]Message, error) {
	args := m.Called(userId, limit)
	return args.Get(0).([]Message), args.Error(1)
}
