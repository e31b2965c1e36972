package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// RecentOrder 看板用的订单摘要，带下单人信息
type RecentOrder struct {
	ID          string    `db:"id" json:"id"`
	OrderID     string    `db:"order_id" json:"orderId"`
	UserName    string    `db:"user_name" json:"userName"`
	UserEmail   *string   `db:"user_email" json:"userEmail,omitempty"`
	TotalAmount int64     `db:"total_amount" json:"totalAmount"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// TrendPoint 按时间桶聚合的销量点
type TrendPoint struct {
	Date   string `db:"date" json:"date"`
	Sales  int64  `db:"sales" json:"sales"`
	Orders int64  `db:"orders" json:"orders"`
}

// SignupPoint 按月聚合的注册量点
type SignupPoint struct {
	Date  string `db:"date" json:"date"`
	Count int64  `db:"count" json:"count"`
}

// ProductSales 单品销售额聚合
type ProductSales struct {
	Name     string `db:"name" json:"name"`
	Sales    int64  `db:"sales" json:"sales"`
	Quantity int64  `db:"quantity" json:"quantity"`
}

// CategoryCount 口味分布
type CategoryCount struct {
	Name  string `db:"name" json:"name"`
	Value int64  `db:"value" json:"value"`
}

// AnalyticsRepository 统计仓库
// 纯聚合查询，绕开 ORM 直接写 SQL
type AnalyticsRepository interface {
	CountOrders() (int64, error)
	DeliveredRevenue() (int64, error)
	CountUsers() (int64, error)
	CountProducts() (int64, error)
	RecentOrders(limit int) ([]RecentOrder, error)
	SalesTrend(since time.Time, bucketFormat string) ([]TrendPoint, error)
	SignupTrend() ([]SignupPoint, error)
	CountActiveUsers(since time.Time) (int64, error)
	TopProducts(limit int) ([]ProductSales, error)
	CategoryDistribution() ([]CategoryCount, error)
}

type analyticsRepository struct {
	db *sqlx.DB
}

// NewAnalyticsRepository 创建统计仓库
func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) CountOrders() (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL`)
	return count, err
}

// DeliveredRevenue 营收只算已送达订单
func (r *analyticsRepository) DeliveredRevenue() (int64, error) {
	var total int64
	err := r.db.Get(&total, `
		SELECT COALESCE(SUM(total_amount), 0) FROM orders
		WHERE status = 'Delivered' AND deleted_at IS NULL`)
	return total, err
}

func (r *analyticsRepository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`)
	return count, err
}

func (r *analyticsRepository) CountProducts() (int64, error) {
	var count int64
	err := r.db.Get(&count, `SELECT COUNT(*) FROM cakes WHERE deleted_at IS NULL`)
	return count, err
}

func (r *analyticsRepository) RecentOrders(limit int) ([]RecentOrder, error) {
	orders := []RecentOrder{}
	err := r.db.Select(&orders, `
		SELECT o.id, o.order_id, u.name AS user_name, u.email AS user_email,
		       o.total_amount, o.status, o.created_at
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE o.deleted_at IS NULL
		ORDER BY o.created_at DESC
		LIMIT $1`, limit)
	return orders, err
}

// SalesTrend 已送达订单按时间桶聚合，bucketFormat 是 to_char 的格式串
func (r *analyticsRepository) SalesTrend(since time.Time, bucketFormat string) ([]TrendPoint, error) {
	points := []TrendPoint{}
	err := r.db.Select(&points, `
		SELECT to_char(created_at, $2) AS date,
		       COALESCE(SUM(total_amount), 0) AS sales,
		       COUNT(*) AS orders
		FROM orders
		WHERE status = 'Delivered' AND created_at >= $1 AND deleted_at IS NULL
		GROUP BY 1
		ORDER BY 1`, since, bucketFormat)
	return points, err
}

func (r *analyticsRepository) SignupTrend() ([]SignupPoint, error) {
	points := []SignupPoint{}
	err := r.db.Select(&points, `
		SELECT to_char(created_at, 'YYYY-MM') AS date, COUNT(*) AS count
		FROM users
		WHERE deleted_at IS NULL
		GROUP BY 1
		ORDER BY 1`)
	return points, err
}

// CountActiveUsers 活跃口径：最近登录过
func (r *analyticsRepository) CountActiveUsers(since time.Time) (int64, error) {
	var count int64
	err := r.db.Get(&count, `
		SELECT COUNT(*) FROM users
		WHERE last_login >= $1 AND deleted_at IS NULL`, since)
	return count, err
}

func (r *analyticsRepository) TopProducts(limit int) ([]ProductSales, error) {
	products := []ProductSales{}
	err := r.db.Select(&products, `
		SELECT c.name, SUM(oi.price * oi.quantity) AS sales, SUM(oi.quantity) AS quantity
		FROM order_items oi
		JOIN cakes c ON c.id::text = oi.product_id
		WHERE oi.deleted_at IS NULL
		GROUP BY c.name
		ORDER BY sales DESC
		LIMIT $1`, limit)
	return products, err
}

// CategoryDistribution 按口味统计在售蛋糕数
func (r *analyticsRepository) CategoryDistribution() ([]CategoryCount, error) {
	counts := []CategoryCount{}
	err := r.db.Select(&counts, `
		SELECT flavor AS name, COUNT(*) AS value
		FROM cakes
		WHERE deleted_at IS NULL
		GROUP BY flavor
		ORDER BY value DESC`)
	return counts, err
}
