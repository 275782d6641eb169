// Package comment содержит доменную модель комментария ментора к вопросу.
// Комментарии append-only: редактирование и удаление не поддерживаются.
package comment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// CommentID представляет уникальный идентификатор комментария.
type CommentID string

// IsValid проверяет, что идентификатор непустой.
func (c CommentID) IsValid() bool {
	return strings.TrimSpace(string(c)) != ""
}

// String возвращает строковое представление идентификатора.
func (c CommentID) String() string {
	return string(c)
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrEmptyMessage - текст комментария пустой.
	ErrEmptyMessage = errors.New("comment message is required")

	// ErrMessageTooLong - текст комментария превышает допустимую длину.
	ErrMessageTooLong = errors.New("comment message too long: max 5000 chars")

	// ErrAuthorRequired - комментарий без автора.
	ErrAuthorRequired = errors.New("comment author is required")

	// ErrDoubtRequired - комментарий не привязан к вопросу.
	ErrDoubtRequired = errors.New("comment doubt id is required")

	// ErrNotFound - комментарий не найден.
	ErrNotFound = errors.New("comment not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: COMMENT
// ══════════════════════════════════════════════════════════════════════════════

// Comment - комментарий ментора к вопросу студента.
type Comment struct {
	// ID - уникальный идентификатор комментария.
	ID CommentID

	// DoubtID - вопрос, к которому относится комментарий.
	DoubtID doubt.DoubtID

	// AuthorID - ментор, написавший комментарий.
	AuthorID identity.UserID

	// Message - текст комментария.
	Message string

	// CreatedAt - время создания. Комментарии неизменяемы после создания.
	CreatedAt time.Time
}

// NewCommentParams содержит параметры для создания комментария.
type NewCommentParams struct {
	ID       CommentID
	DoubtID  doubt.DoubtID
	AuthorID identity.UserID
	Message  string
}

// NewComment создаёт новый комментарий с валидацией всех полей.
func NewComment(params NewCommentParams) (*Comment, error) {
	message := strings.TrimSpace(params.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if len(message) > 5000 {
		return nil, ErrMessageTooLong
	}

	if !params.DoubtID.IsValid() {
		return nil, ErrDoubtRequired
	}

	if !params.AuthorID.IsValid() {
		return nil, ErrAuthorRequired
	}

	return &Comment{
		ID:        params.ID,
		DoubtID:   params.DoubtID,
		AuthorID:  params.AuthorID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление для логирования.
func (c *Comment) String() string {
	return fmt.Sprintf("Comment{ID: %s, Doubt: %s, Author: %s}", c.ID, c.DoubtID, c.AuthorID)
}

// Clone создаёт копию комментария.
func (c *Comment) Clone() *Comment {
	if c == nil {
		return nil
	}

	clone := *c
	return &clone
}
