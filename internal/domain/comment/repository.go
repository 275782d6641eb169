package comment

import (
	"context"

	"github.com/devhelp-hub/devhelp-backend/internal/domain/doubt"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции хранилища для комментариев.
// Хранилище append-only: комментарии не редактируются и не удаляются
// по отдельности, только вместе с вопросом.
type Repository interface {
	// Create сохраняет новый комментарий.
	Create(ctx context.Context, c *Comment) error

	// GetByID возвращает комментарий по ID.
	// Возвращает ErrNotFound, если комментарий не найден.
	GetByID(ctx context.Context, id CommentID) (*Comment, error)

	// GetByDoubtID возвращает все комментарии вопроса в порядке создания,
	// старые первыми.
	GetByDoubtID(ctx context.Context, doubtID doubt.DoubtID) ([]*Comment, error)

	// CountByDoubtID возвращает количество комментариев вопроса.
	CountByDoubtID(ctx context.Context, doubtID doubt.DoubtID) (int, error)

	// DeleteByDoubtID удаляет все комментарии вопроса.
	// Вызывается каскадно при удалении вопроса.
	DeleteByDoubtID(ctx context.Context, doubtID doubt.DoubtID) error
}
