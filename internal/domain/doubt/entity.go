// Package doubt содержит доменную модель вопроса (doubt) - запроса студента
// на помощь. Это ядро бизнес-логики, без внешних зависимостей.
package doubt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// DoubtID представляет уникальный идентификатор вопроса (UUID в строковом формате).
type DoubtID string

// IsValid проверяет, что идентификатор непустой.
func (d DoubtID) IsValid() bool {
	return strings.TrimSpace(string(d)) != ""
}

// String возвращает строковое представление идентификатора.
func (d DoubtID) String() string {
	return string(d)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет состояние жизненного цикла вопроса.
// Машина состояний двунаправленная: open -> resolved -> open -> ...
type Status string

const (
	// StatusOpen - вопрос открыт и ждёт ответа ментора.
	StatusOpen Status = "open"
	// StatusResolved - вопрос решён ментором.
	StatusResolved Status = "resolved"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusResolved:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление статуса.
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo проверяет допустимость перехода в новый статус.
// Единственные допустимые переходы: open -> resolved и resolved -> open.
func (s Status) CanTransitionTo(target Status) bool {
	switch {
	case s == StatusOpen && target == StatusResolved:
		return true
	case s == StatusResolved && target == StatusOpen:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrTitleRequired - заголовок вопроса пустой.
	ErrTitleRequired = errors.New("doubt title is required")

	// ErrTitleTooLong - заголовок превышает допустимую длину.
	ErrTitleTooLong = errors.New("doubt title too long: max 200 chars")

	// ErrDescriptionRequired - описание вопроса пустое.
	ErrDescriptionRequired = errors.New("doubt description is required")

	// ErrOwnerRequired - вопрос без владельца.
	ErrOwnerRequired = errors.New("doubt owner is required")

	// ErrAlreadyResolved - вопрос уже решён.
	ErrAlreadyResolved = errors.New("doubt is already resolved")

	// ErrAlreadyOpen - вопрос уже открыт.
	ErrAlreadyOpen = errors.New("doubt is already open")

	// ErrNotFound - вопрос не найден.
	ErrNotFound = errors.New("doubt not found")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: DOUBT
// ══════════════════════════════════════════════════════════════════════════════

// Doubt - центральная сущность системы: запрос студента на помощь.
type Doubt struct {
	// ID - уникальный идентификатор вопроса.
	ID DoubtID

	// Title - краткий заголовок вопроса.
	Title string

	// Description - развёрнутое описание проблемы.
	Description string

	// AttachmentURL - необязательная ссылка на скриншот или файл.
	AttachmentURL string

	// Status - текущее состояние жизненного цикла.
	Status Status

	// OwnerID - студент, создавший вопрос.
	OwnerID identity.UserID

	// ResolvedBy - ментор, решивший вопрос (пустой, пока вопрос открыт).
	ResolvedBy identity.UserID

	// ResolvedAt - время последнего решения (nil, если вопрос ни разу не решался
	// или был переоткрыт).
	ResolvedAt *time.Time

	// CreatedAt - время создания вопроса.
	CreatedAt time.Time

	// UpdatedAt - время последнего изменения.
	UpdatedAt time.Time
}

// NewDoubtParams содержит параметры для создания нового вопроса.
type NewDoubtParams struct {
	ID            DoubtID
	Title         string
	Description   string
	AttachmentURL string
	OwnerID       identity.UserID
}

// NewDoubt создаёт новый вопрос с валидацией всех полей.
// Новый вопрос всегда открыт.
func NewDoubt(params NewDoubtParams) (*Doubt, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > 200 {
		return nil, ErrTitleTooLong
	}

	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	if !params.OwnerID.IsValid() {
		return nil, ErrOwnerRequired
	}

	now := time.Now().UTC()

	return &Doubt{
		ID:            params.ID,
		Title:         title,
		Description:   description,
		AttachmentURL: strings.TrimSpace(params.AttachmentURL),
		Status:        StatusOpen,
		OwnerID:       params.OwnerID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS (Business Logic)
// ══════════════════════════════════════════════════════════════════════════════

// IsOpen возвращает true, если вопрос открыт.
func (d *Doubt) IsOpen() bool {
	return d.Status == StatusOpen
}

// IsResolved возвращает true, если вопрос решён.
func (d *Doubt) IsResolved() bool {
	return d.Status == StatusResolved
}

// Resolve переводит вопрос в состояние "решён".
// Возвращает ErrAlreadyResolved, если вопрос уже решён.
func (d *Doubt) Resolve(mentorID identity.UserID) error {
	if d.Status == StatusResolved {
		return ErrAlreadyResolved
	}

	now := time.Now().UTC()
	d.Status = StatusResolved
	d.ResolvedBy = mentorID
	d.ResolvedAt = &now
	d.UpdatedAt = now
	return nil
}

// Reopen переводит решённый вопрос обратно в "открыт".
// Ссылка на решившего ментора сбрасывается.
func (d *Doubt) Reopen() error {
	if d.Status == StatusOpen {
		return ErrAlreadyOpen
	}

	d.Status = StatusOpen
	d.ResolvedBy = ""
	d.ResolvedAt = nil
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// String возвращает строковое представление вопроса для логирования.
func (d *Doubt) String() string {
	return fmt.Sprintf("Doubt{ID: %s, Title: %q, Status: %s, Owner: %s}",
		d.ID, d.Title, d.Status, d.OwnerID)
}

// Clone создаёт глубокую копию вопроса.
func (d *Doubt) Clone() *Doubt {
	if d == nil {
		return nil
	}

	clone := *d
	if d.ResolvedAt != nil {
		t := *d.ResolvedAt
		clone.ResolvedAt = &t
	}
	return &clone
}
