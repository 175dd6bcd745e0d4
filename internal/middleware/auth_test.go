package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func newAuthEngine(required bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if required {
		r.Use(RequireAuth(testSecret))
	} else {
		r.Use(OptionalAuth(testSecret))
	}
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": GetUserID(c)})
	})
	return r
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "alice@example.com", "alice", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("生成 Token 出错: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("解析 Token 失败: %v", err)
	}
	claims := parsed.Claims.(*Claims)
	if claims.UserID != 42 || claims.Username != "alice" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestRequireAuthCookie(t *testing.T) {
	r := newAuthEngine(true)
	token, _ := GenerateToken(7, "a@b.c", "a", testSecret, time.Hour)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("带 Cookie 请求返回 %d", w.Code)
	}
}

func TestRequireAuthBearer(t *testing.T) {
	r := newAuthEngine(true)
	token, _ := GenerateToken(7, "a@b.c", "a", testSecret, time.Hour)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("带 Bearer 请求返回 %d", w.Code)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	r := newAuthEngine(true)

	// 无凭证
	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("无凭证返回 %d", w.Code)
	}

	// 伪造签名
	bad, _ := GenerateToken(7, "a@b.c", "a", "wrong-secret", time.Hour)
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: bad})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("伪造签名返回 %d", w.Code)
	}

	// 过期 Token
	expired, _ := GenerateToken(7, "a@b.c", "a", testSecret, -time.Hour)
	req = httptest.NewRequest("GET", "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: expired})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("过期 Token 返回 %d", w.Code)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	r := newAuthEngine(false)

	req := httptest.NewRequest("GET", "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("匿名请求返回 %d", w.Code)
	}
	if w.Body.String() != `{"userId":0}` {
		t.Errorf("匿名 userId 响应 = %s", w.Body.String())
	}
}
