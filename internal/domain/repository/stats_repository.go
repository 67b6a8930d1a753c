package repository

import (
	"context"

	"github.com/cosmogony-cities/internal/domain"
)

// StatsRepository интерфейс для работы со статистикой
type StatsRepository interface {
	// GetStatistics возвращает агрегированную статистику по таблице регионов
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
