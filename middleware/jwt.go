package middleware

import (
	"coachhub/config"
	"coachhub/utils"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionCookie carries the same JWT for the server-rendered pages.
const SessionCookie = "session"

// Claims is the authenticated coach resolved from a token.
type Claims struct {
	CoachID uint
	Role    string
	Name    string
	Email   string
}

// GenerateJWT generates a JWT token for the coach
func GenerateJWT(coachID uint, name, role, email string) (string, error) {
	ttl := time.Duration(config.AppConfig.JWTTTLHours) * time.Hour
	claims := jwt.MapClaims{
		"coachId": coachID,
		"name":    name,
		"role":    role,
		"email":   email,
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// ParseJWT validates tokenString and extracts the coach claims.
func ParseJWT(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["coachId"] == nil {
		return nil, fmt.Errorf("invalid token payload")
	}

	// JWT numbers decode as float64
	coachID, ok := claims["coachId"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid token payload")
	}
	role, _ := claims["role"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	return &Claims{CoachID: uint(coachID), Role: role, Name: name, Email: email}, nil
}

// JWTMiddleware checks for a valid token in the Authorization header or the session cookie.
func JWTMiddleware(c *fiber.Ctx) error {
	tokenString := ""
	if authHeader := c.Get("Authorization"); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return utils.ErrUnauthorized("Authorizationヘッダーの形式が不正です")
		}
		tokenString = authHeader[len("Bearer "):]
	} else {
		tokenString = c.Cookies(SessionCookie)
	}
	if tokenString == "" {
		return utils.ErrUnauthorized("認証が必要です")
	}

	claims, err := ParseJWT(tokenString)
	if err != nil {
		return utils.ErrUnauthorized("トークンが無効または期限切れです")
	}

	c.Locals("coachId", claims.CoachID)
	c.Locals("role", claims.Role)
	c.Locals("coachName", claims.Name)
	return c.Next()
}

// CurrentCoachID returns the coach id stored by JWTMiddleware.
func CurrentCoachID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("coachId").(uint)
	return id, ok
}
