package doubt

import (
	"context"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/identity"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Эти интерфейсы определяют контракт для работы с хранилищем вопросов.
// Реализации находятся в infrastructure/persistence.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для вопросов.
type Repository interface {
	// ─────────────────────────────────────────────────────────────────────────
	// CRUD Operations
	// ─────────────────────────────────────────────────────────────────────────

	// Create сохраняет новый вопрос.
	Create(ctx context.Context, d *Doubt) error

	// GetByID возвращает вопрос по ID.
	// Возвращает ErrNotFound, если вопрос не найден.
	GetByID(ctx context.Context, id DoubtID) (*Doubt, error)

	// Delete удаляет вопрос вместе с его комментариями.
	// Возвращает ErrNotFound, если вопрос не найден.
	Delete(ctx context.Context, id DoubtID) error

	// ─────────────────────────────────────────────────────────────────────────
	// Atomic State Transition
	// ─────────────────────────────────────────────────────────────────────────

	// UpdateStatus атомарно переводит вопрос из статуса from в статус to
	// (compare-and-set). Переход выполняется только если текущий статус
	// равен from; конкурирующие переходы из одного состояния выигрывает
	// ровно один вызов. Поля ResolvedBy/ResolvedAt устанавливаются при
	// переходе в resolved и сбрасываются при переходе в open.
	//
	// Возвращает ErrNotFound, если вопрос не существует, либо ошибку
	// недопустимого перехода, если статус уже отличается от from.
	UpdateStatus(ctx context.Context, id DoubtID, from, to Status, actor identity.UserID) (*Doubt, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Bulk Operations
	// ─────────────────────────────────────────────────────────────────────────

	// GetAll возвращает все вопросы, новые первыми.
	GetAll(ctx context.Context, opts ListOptions) ([]*Doubt, error)

	// GetByOwnerID возвращает вопросы указанного студента, новые первыми.
	GetByOwnerID(ctx context.Context, ownerID identity.UserID, opts ListOptions) ([]*Doubt, error)

	// Count возвращает общее количество вопросов.
	Count(ctx context.Context) (int, error)

	// ─────────────────────────────────────────────────────────────────────────
	// Existence Checks
	// ─────────────────────────────────────────────────────────────────────────

	// Exists проверяет существование вопроса по ID.
	Exists(ctx context.Context, id DoubtID) (bool, error)
}

// ListOptions содержит параметры для пагинации и фильтрации списков.
type ListOptions struct {
	// Offset - смещение (для пагинации).
	Offset int

	// Limit - максимальное количество записей.
	Limit int

	// Status - фильтр по статусу (пустой = все статусы).
	Status Status
}

// DefaultListOptions возвращает параметры по умолчанию.
func DefaultListOptions() ListOptions {
	return ListOptions{
		Offset: 0,
		Limit:  50,
	}
}

// WithOffset устанавливает смещение.
func (o ListOptions) WithOffset(offset int) ListOptions {
	o.Offset = offset
	return o
}

// WithLimit устанавливает лимит.
func (o ListOptions) WithLimit(limit int) ListOptions {
	o.Limit = limit
	return o
}

// WithStatus устанавливает фильтр по статусу.
func (o ListOptions) WithStatus(status Status) ListOptions {
	o.Status = status
	return o
}
