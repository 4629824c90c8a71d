// Package forms parses and validates the form-encoded request bodies
// accepted by the HTTP layer. Each form reports per-field errors keyed
// by field name.
package forms

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameLen = 150
	maxRoomNameLen = 200
	maxTopicLen    = 200
	minTopicLen    = 2
	minPasswordLen = 8
	maxMessageLen  = 1000
)

type Errors map[string]string

type LoginForm struct {
	Username string
	Password string
}

func NewLoginForm(values url.Values) LoginForm {
	return LoginForm{
		Username: values.Get("username"),
		Password: values.Get("password"),
	}
}

func (f LoginForm) Validate() Errors {
	errs := make(Errors)
	if f.Username == "" {
		errs["username"] = "this field is required"
	} else if utf8.RuneCountInString(f.Username) > maxUsernameLen {
		errs["username"] = fmt.Sprintf("ensure this value has at most %d characters", maxUsernameLen)
	}
	if f.Password == "" {
		errs["password"] = "this field is required"
	}

	return errs
}

type RegisterForm struct {
	Username  string
	Password1 string
	Password2 string
}

func NewRegisterForm(values url.Values) RegisterForm {
	return RegisterForm{
		Username:  values.Get("username"),
		Password1: values.Get("password1"),
		Password2: values.Get("password2"),
	}
}

func (f RegisterForm) Validate() Errors {
	errs := make(Errors)
	if f.Username == "" {
		errs["username"] = "this field is required"
	} else if utf8.RuneCountInString(f.Username) > maxUsernameLen {
		errs["username"] = fmt.Sprintf("ensure this value has at most %d characters", maxUsernameLen)
	}
	if f.Password1 == "" {
		errs["password1"] = "this field is required"
	} else if utf8.RuneCountInString(f.Password1) < minPasswordLen {
		errs["password1"] = fmt.Sprintf("password must contain at least %d characters", minPasswordLen)
	}
	if f.Password2 == "" {
		errs["password2"] = "this field is required"
	} else if f.Password1 != "" && f.Password1 != f.Password2 {
		errs["password2"] = "the two password fields didn't match"
	}

	return errs
}

type RoomForm struct {
	Name        string
	Description string
	TopicInput  string
}

func NewRoomForm(values url.Values) RoomForm {
	return RoomForm{
		Name:        values.Get("name"),
		Description: values.Get("description"),
		TopicInput:  strings.TrimSpace(values.Get("topic_input")),
	}
}

func (f RoomForm) Validate() Errors {
	errs := make(Errors)
	if f.Name == "" {
		errs["name"] = "this field is required"
	} else if utf8.RuneCountInString(f.Name) > maxRoomNameLen {
		errs["name"] = fmt.Sprintf("ensure this value has at most %d characters", maxRoomNameLen)
	}
	if f.TopicInput == "" {
		errs["topic_input"] = "this field is required"
	} else if utf8.RuneCountInString(f.TopicInput) < minTopicLen {
		errs["topic_input"] = fmt.Sprintf("ensure this value has at least %d characters", minTopicLen)
	} else if utf8.RuneCountInString(f.TopicInput) > maxTopicLen {
		errs["topic_input"] = fmt.Sprintf("ensure this value has at most %d characters", maxTopicLen)
	}

	return errs
}

// ValidMessageContent reports whether content may be stored as a message.
// Blank content is silently dropped by the posting path, so it is not an
// error here, just invalid. Limits count characters, not bytes, to match
// the varchar columns.
func ValidMessageContent(content string) bool {
	return content != "" && utf8.RuneCountInString(content) <= maxMessageLen
}
