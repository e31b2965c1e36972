package service

import (
	"time"

	"cake_shop_backend/internal/domain/analytics/repository"
)

// recentOrderCount 看板展示的最近订单条数
const recentOrderCount = 5

// topProductCount 榜单长度
const topProductCount = 5

// DashboardStats 运营看板汇总
type DashboardStats struct {
	TotalOrders  int64                    `json:"totalOrders"`
	TotalRevenue int64                    `json:"totalRevenue"`
	TotalUsers   int64                    `json:"totalUsers"`
	TotalCakes   int64                    `json:"totalCakes"`
	RecentOrders []repository.RecentOrder `json:"recentOrders"`
}

// SalesReport 销售报表
type SalesReport struct {
	SalesTrend        []repository.TrendPoint `json:"salesTrend"`
	TotalSales        int64                   `json:"totalSales"`
	TotalOrders       int64                   `json:"totalOrders"`
	AverageOrderValue float64                 `json:"averageOrderValue"`
}

// UserReport 用户报表
type UserReport struct {
	UserTrend   []repository.SignupPoint `json:"userTrend"`
	TotalUsers  int64                    `json:"totalUsers"`
	ActiveUsers int64                    `json:"activeUsers"`
}

// ProductReport 商品报表
type ProductReport struct {
	TopProducts          []repository.ProductSales  `json:"topProducts"`
	CategoryDistribution []repository.CategoryCount `json:"categoryDistribution"`
}

// AnalyticsService 统计服务接口
type AnalyticsService interface {
	Dashboard() (*DashboardStats, error)
	Sales(period string) (*SalesReport, error)
	Users() (*UserReport, error)
	Products() (*ProductReport, error)
}

type analyticsService struct {
	repo repository.AnalyticsRepository
}

// NewAnalyticsService 创建统计服务
func NewAnalyticsService(repo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{repo: repo}
}

func (s *analyticsService) Dashboard() (*DashboardStats, error) {
	orders, err := s.repo.CountOrders()
	if err != nil {
		return nil, err
	}
	revenue, err := s.repo.DeliveredRevenue()
	if err != nil {
		return nil, err
	}
	users, err := s.repo.CountUsers()
	if err != nil {
		return nil, err
	}
	cakes, err := s.repo.CountProducts()
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.RecentOrders(recentOrderCount)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		TotalOrders:  orders,
		TotalRevenue: revenue,
		TotalUsers:   users,
		TotalCakes:   cakes,
		RecentOrders: recent,
	}, nil
}

// Sales 销售趋势
// daily: 近 7 天按日；weekly: 近 30 天按日；monthly: 近 6 个月按月（默认）
func (s *analyticsService) Sales(period string) (*SalesReport, error) {
	now := time.Now()
	var since time.Time
	bucketFormat := "YYYY-MM"

	switch period {
	case "daily":
		since = now.AddDate(0, 0, -7)
		bucketFormat = "YYYY-MM-DD"
	case "weekly":
		since = now.AddDate(0, 0, -30)
		bucketFormat = "YYYY-MM-DD"
	default:
		since = now.AddDate(0, -6, 0)
	}

	trend, err := s.repo.SalesTrend(since, bucketFormat)
	if err != nil {
		return nil, err
	}

	var totalSales, totalOrders int64
	for _, point := range trend {
		totalSales += point.Sales
		totalOrders += point.Orders
	}
	var avg float64
	if totalOrders > 0 {
		avg = float64(totalSales) / float64(totalOrders)
	}

	return &SalesReport{
		SalesTrend:        trend,
		TotalSales:        totalSales,
		TotalOrders:       totalOrders,
		AverageOrderValue: avg,
	}, nil
}

func (s *analyticsService) Users() (*UserReport, error) {
	trend, err := s.repo.SignupTrend()
	if err != nil {
		return nil, err
	}
	total, err := s.repo.CountUsers()
	if err != nil {
		return nil, err
	}
	// 活跃口径：30 天内登录过
	active, err := s.repo.CountActiveUsers(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	return &UserReport{UserTrend: trend, TotalUsers: total, ActiveUsers: active}, nil
}

func (s *analyticsService) Products() (*ProductReport, error) {
	top, err := s.repo.TopProducts(topProductCount)
	if err != nil {
		return nil, err
	}
	categories, err := s.repo.CategoryDistribution()
	if err != nil {
		return nil, err
	}
	return &ProductReport{TopProducts: top, CategoryDistribution: categories}, nil
}
