package usecase_test

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/source"
)

// MockRegionLoader is a mock of RegionLoader
type MockRegionLoader struct {
	mock.Mock
}

func (m *MockRegionLoader) Load(ctx context.Context, table string, batches []domain.InsertBatch) (int64, error) {
	args := m.Called(ctx, table, batches)
	return args.Get(0).(int64), args.Error(1)
}

// MockRegionRepository is a mock of RegionRepository
type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) GetByID(ctx context.Context, id int64) (*domain.RegionSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegionSummary), args.Error(1)
}

func (m *MockRegionRepository) GetByURI(ctx context.Context, uri string) (*domain.RegionSummary, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegionSummary), args.Error(1)
}

func (m *MockRegionRepository) GetByPoint(ctx context.Context, lat, lon float64) ([]*domain.RegionSummary, error) {
	args := m.Called(ctx, lat, lon)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RegionSummary), args.Error(1)
}

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCacheRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Statistics), args.Error(1)
}

func (m *MockCacheRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	args := m.Called(ctx, stats, ttl)
	return args.Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// sliceSource replays zones, with nil entries standing for undecodable zones.
type sliceSource struct {
	zones  []*domain.Zone
	pos    int
	failAt int
	closed bool
}

func (s *sliceSource) Next() (domain.Zone, error) {
	if s.failAt > 0 && s.pos == s.failAt {
		return domain.Zone{}, io.ErrUnexpectedEOF
	}
	if s.pos >= len(s.zones) {
		return domain.Zone{}, io.EOF
	}
	idx := s.pos
	s.pos++
	if s.zones[idx] == nil {
		return domain.Zone{}, &source.DecodeError{Index: idx, Err: io.ErrUnexpectedEOF}
	}
	return *s.zones[idx], nil
}

func (s *sliceSource) Close() error {
	s.closed = true
	return nil
}
