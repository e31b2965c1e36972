package middleware

import (
	"net/http"
	"strings"

	staffModel "cake_shop_backend/internal/domain/staff/model"
	"cake_shop_backend/pkg/response"
	"cake_shop_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PrincipalKind 请求主体类型
type PrincipalKind int

const (
	KindCustomer PrincipalKind = iota
	KindAdmin
	KindDeliveryAgent
)

// Principal 认证后的请求主体
// 在认证中间件里解析一次，后续处理器直接按类型分支，不再反查 token 字段
type Principal struct {
	Kind PrincipalKind
	ID   string
}

const principalKey = "principal"

// GetPrincipal 从上下文取出认证主体
func GetPrincipal(c *gin.Context) (*Principal, bool) {
	val, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	p, ok := val.(*Principal)
	return p, ok
}

// AuthMiddleware JWT认证中间件
// 解析 token 并把主体类型固化为 Principal 存入上下文
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			c.Abort()
			return
		}

		// 检查格式 "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := utils.ParseToken(parts[1])
		if err != nil {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Invalid or expired token")
			c.Abort()
			return
		}

		principal, ok := resolvePrincipal(claims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrTokenInvalid, "Unrecognized token subject")
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

func resolvePrincipal(claims *utils.Claims) (*Principal, bool) {
	switch claims.Kind {
	case utils.KindCustomer:
		return &Principal{Kind: KindCustomer, ID: claims.SubjectID}, true
	case utils.KindStaff:
		switch claims.Role {
		case staffModel.RoleAdmin:
			return &Principal{Kind: KindAdmin, ID: claims.SubjectID}, true
		case staffModel.RoleDeliveryBoy:
			return &Principal{Kind: KindDeliveryAgent, ID: claims.SubjectID}, true
		}
	}
	return nil, false
}

// CustomerOnly 仅顾客可访问
func CustomerOnly() gin.HandlerFunc {
	return requireKind("Customer access required", KindCustomer)
}

// AdminOnly 仅管理员可访问
func AdminOnly() gin.HandlerFunc {
	return requireKind("Admin permission required", KindAdmin)
}

// DeliveryOnly 仅配送员可访问
func DeliveryOnly() gin.HandlerFunc {
	return requireKind("Delivery agent permission required", KindDeliveryAgent)
}

// StaffOnly 管理员或配送员可访问
func StaffOnly() gin.HandlerFunc {
	return requireKind("Staff permission required", KindAdmin, KindDeliveryAgent)
}

func requireKind(msg string, kinds ...PrincipalKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, response.ErrNoPermission, "Unauthorized")
			c.Abort()
			return
		}
		for _, k := range kinds {
			if p.Kind == k {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, response.ErrNoPermission, msg)
		c.Abort()
	}
}
