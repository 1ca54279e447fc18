// models содержит доменные сущности discussions-сервиса.
// Эти типы используются слоями бизнес-логики, апстрим-клиента и транспорта.
package models

import (
	"strconv"
	"strings"
	"time"
)

// PostType — глагол сообщения (тип поста в обсуждении).
type PostType string

const (
	// Discuss — обычное обсуждение, доступен всегда.
	Discuss PostType = "Discuss"
	// Request — запрос на изменение перевода; только корневой пост голосовавшего.
	Request PostType = "Request"
	// Agree — согласие с запросом; только ответ в Request-ветке.
	Agree PostType = "Agree"
	// Decline — несогласие с запросом; только ответ в Request-ветке.
	Decline PostType = "Decline"
	// Close — закрытие ветки; только автор корня или привилегированная роль.
	Close PostType = "Close"
)

// Valid сообщает, известен ли глагол.
func (t PostType) Valid() bool {
	switch t {
	case Discuss, Request, Agree, Decline, Close:
		return true
	}

	return false
}

// Label — человекочитаемая подпись глагола для рендера.
// Локализованные каталоги остаются на стороне хост-страницы,
// здесь — только нейтральный fallback.
func (t PostType) Label() string {
	switch t {
	case Discuss:
		return "Discuss"
	case Request:
		return "Request"
	case Agree:
		return "Agree"
	case Decline:
		return "Decline"
	case Close:
		return "Close"
	}

	return string(t)
}

// Status — состояние ветки, определяется корневым постом.
type Status string

const (
	// StatusOpen — обычная открытая ветка.
	StatusOpen Status = "Open"
	// StatusRequest — открытая ветка-запрос (корень с типом Request).
	StatusRequest Status = "Request"
	// StatusClosed — закрытая ветка, новые Close/Agree/Decline запрещены.
	StatusClosed Status = "Closed"
)

// Level — роль пользователя в инструменте ревью локализаций.
type Level string

const (
	LevelGuest  Level = "guest"
	LevelVetter Level = "vetter"
	LevelTC     Level = "tc"
	LevelAdmin  Level = "admin"
)

// Privileged сообщает, может ли роль закрывать чужие ветки.
func (l Level) Privileged() bool {
	return l == LevelTC || l == LevelAdmin
}

// Label — подпись роли для рендера.
func (l Level) Label() string {
	switch l {
	case LevelGuest:
		return "Guest"
	case LevelVetter:
		return "Vetter"
	case LevelTC:
		return "TC"
	case LevelAdmin:
		return "Admin"
	}

	return string(l)
}

// NoParent — значение ParentID у корневого поста.
const NoParent int64 = -1

// PosterInfo — метаданные автора поста.
// Может отсутствовать целиком (автор больше не активен) —
// рендер подставляет плейсхолдер.
type PosterInfo struct {
	Name  string
	Org   string
	Email string
	Level Level
}

// Post — одно сообщение обсуждения, возможно ответ.
//
// Особенности:
//   - снапшот с апстрима неизменяем; ThreadID проставляется
//     на нашей стороне при каждой индексации;
//   - Text — доверенный HTML-фрагмент апстрима;
//   - Date — в UTC.
type Post struct {
	// ID — идентификатор поста на апстриме.
	ID int64
	// ParentID — идентификатор родителя, NoParent у корня.
	ParentID int64
	// ThreadID — `locale|rootID` корневого предка; вычисляемое поле.
	ThreadID string
	// Locale — локаль, к которой относится пост.
	Locale string
	// XPath — путь к обсуждаемому элементу перевода.
	XPath string
	// Subject — тема поста.
	Subject string
	// Text — тело поста, HTML-фрагмент.
	Text string
	// Date — время публикации.
	Date time.Time
	// PostType — глагол поста.
	PostType PostType
	// Status — состояние ветки (актуально у корня).
	Status Status
	// PosterID — идентификатор автора.
	PosterID int64
	// Poster — метаданные автора; nil, если автор не активен.
	Poster *PosterInfo
	// Version — версия данных, на которую ссылался пост.
	Version string
}

// IsRoot — пост без родителя.
func (p Post) IsRoot() bool {
	return p.ParentID < 0
}

// ThreadID собирает идентификатор ветки из локали и ID корневого поста.
func ThreadID(locale string, rootID int64) string {
	return locale + "|" + strconv.FormatInt(rootID, 10)
}

// ReplySubject синтезирует тему ответа: префикс "Re: " добавляется
// только если его ещё нет.
func ReplySubject(subject string) string {
	if strings.HasPrefix(subject, "Re: ") {
		return subject
	}

	return "Re: " + subject
}
