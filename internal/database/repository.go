package database

type ChatroomsRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(id int) (User, error)
	GetAccountByUsername(username string) (User, error)
	GetOrCreateTopic(name string) (Topic, error)
	SearchTopics(q string) ([]Topic, error)
	TopTopics(limit int) ([]Topic, error)
	CountTopics() (int, error)
	SearchRooms(q string) ([]Room, error)
	GetRoomById(id int) (Room, error)
	ListRoomsByHost(hostId int) ([]Room, error)
	CreateRoom(params CreateRoomParams) (Room, error)
	UpdateRoom(params UpdateRoomParams) (Room, error)
	DeleteRoom(id int) error
	ListParticipants(roomId int) ([]User, error)
	CreateMessage(params CreateMessageParams) (Message, error)
	GetMessageById(id int) (Message, error)
	DeleteMessage(id int) error
	ListRoomMessages(roomId int) ([]Message, error)
	ListRecentMessages(limit int) ([]Message, error)
	ListRecentMessagesByUser(userId, limit int) ([]Message, error)
}
