package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/anushka-2626/Seat-booking-system/pkg/jwt"
	"github.com/anushka-2626/Seat-booking-system/pkg/response"
)

// 注入到 gin.Context 的身份键，handler 包按同名键读取
const (
	CtxEmployeeID = "employee_id"
	CtxRole       = "role"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "Token 类型无效")
			c.Abort()
			return
		}

		// 将员工身份注入上下文
		c.Set(CtxEmployeeID, claims.EmployeeID)
		c.Set(CtxRole, claims.Role)

		c.Next()
	}
}

// RoleAuth 角色权限中间件
// 检查当前员工是否具有指定角色之一
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(CtxRole)
		userRole, ok := role.(string)
		if !exists || !ok {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "无权限访问")
		c.Abort()
	}
}

