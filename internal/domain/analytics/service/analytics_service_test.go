package service

import (
	"testing"
	"time"

	"cake_shop_backend/internal/domain/analytics/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAnalyticsRepository is a mock of analytics repository
type MockAnalyticsRepository struct {
	mock.Mock
}

func (m *MockAnalyticsRepository) CountOrders() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) DeliveredRevenue() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) CountUsers() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) CountProducts() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) RecentOrders(limit int) ([]repository.RecentOrder, error) {
	args := m.Called(limit)
	return args.Get(0).([]repository.RecentOrder), args.Error(1)
}

func (m *MockAnalyticsRepository) SalesTrend(since time.Time, bucketFormat string) ([]repository.TrendPoint, error) {
	args := m.Called(since, bucketFormat)
	return args.Get(0).([]repository.TrendPoint), args.Error(1)
}

func (m *MockAnalyticsRepository) SignupTrend() ([]repository.SignupPoint, error) {
	args := m.Called()
	return args.Get(0).([]repository.SignupPoint), args.Error(1)
}

func (m *MockAnalyticsRepository) CountActiveUsers(since time.Time) (int64, error) {
	args := m.Called(since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnalyticsRepository) TopProducts(limit int) ([]repository.ProductSales, error) {
	args := m.Called(limit)
	return args.Get(0).([]repository.ProductSales), args.Error(1)
}

func (m *MockAnalyticsRepository) CategoryDistribution() ([]repository.CategoryCount, error) {
	args := m.Called()
	return args.Get(0).([]repository.CategoryCount), args.Error(1)
}

func TestSales(t *testing.T) {
	t.Run("Daily period buckets by day over last week", func(t *testing.T) {
		mockRepo := new(MockAnalyticsRepository)
		service := NewAnalyticsService(mockRepo)

		trend := []repository.TrendPoint{
			{Date: "2026-08-30", Sales: 3000, Orders: 2},
			{Date: "2026-08-31", Sales: 1500, Orders: 1},
		}
		mockRepo.On("SalesTrend", mock.MatchedBy(func(since time.Time) bool {
			return time.Since(since) < 8*24*time.Hour
		}), "YYYY-MM-DD").Return(trend, nil)

		report, err := service.Sales("daily")

		assert.NoError(t, err)
		assert.Equal(t, int64(4500), report.TotalSales)
		assert.Equal(t, int64(3), report.TotalOrders)
		assert.InDelta(t, 1500.0, report.AverageOrderValue, 0.001)
	})

	t.Run("Unknown period falls back to monthly", func(t *testing.T) {
		mockRepo := new(MockAnalyticsRepository)
		service := NewAnalyticsService(mockRepo)

		mockRepo.On("SalesTrend", mock.AnythingOfType("time.Time"), "YYYY-MM").
			Return([]repository.TrendPoint{}, nil)

		report, err := service.Sales("yearly")

		assert.NoError(t, err)
		assert.Equal(t, int64(0), report.TotalOrders)
		assert.Equal(t, 0.0, report.AverageOrderValue)
		mockRepo.AssertExpectations(t)
	})
}

func TestDashboard(t *testing.T) {
	mockRepo := new(MockAnalyticsRepository)
	service := NewAnalyticsService(mockRepo)

	mockRepo.On("CountOrders").Return(int64(42), nil)
	mockRepo.On("DeliveredRevenue").Return(int64(84000), nil)
	mockRepo.On("CountUsers").Return(int64(17), nil)
	mockRepo.On("CountProducts").Return(int64(9), nil)
	mockRepo.On("RecentOrders", 5).Return([]repository.RecentOrder{{OrderID: "ORD2509010042"}}, nil)

	stats, err := service.Dashboard()

	assert.NoError(t, err)
	assert.Equal(t, int64(42), stats.TotalOrders)
	assert.Equal(t, int64(84000), stats.TotalRevenue)
	assert.Len(t, stats.RecentOrders, 1)
}
