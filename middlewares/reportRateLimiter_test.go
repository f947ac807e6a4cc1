package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"civic-jharkhand-be/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type limiterFixture struct {
	*authFixture
	redis *miniredis.Miniredis
	token string
	user  *models.User
}

func newLimiterFixture(t *testing.T, limit int) *limiterFixture {
	t.Helper()
	f := newAuthFixture(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	f.router.POST("/reports", AuthMiddleware(f.tokens, f.users, nil), ReportRateLimiter(client, limit, nil), func(c *gin.Context) {
		if c.Query("reject") != "" {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusCreated)
	})

	u := f.createUser(t, "asha@example.com", models.RoleCitizen)
	token, err := f.tokens.Issue(u.ID.Hex(), u.Role)
	require.NoError(t, err)
	return &limiterFixture{authFixture: f, redis: mr, token: token, user: u}
}

func (f *limiterFixture) post(path string) *httptest.ResponseRecorder {
	return f.postAs(f.token, path)
}

func (f *limiterFixture) postAs(token, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestReportRateLimiterBlocksOverLimit(t *testing.T) {
	f := newLimiterFixture(t, 1)

	require.Equal(t, http.StatusCreated, f.post("/reports").Code)

	key := reportLimitKey(f.user.ID.Hex())
	ttl := f.redis.TTL(key)
	assert.InDelta(t, (24 * time.Hour).Seconds(), ttl.Seconds(), 5)

	w := f.post("/reports")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", errorCode(t, w))
	retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
	require.NoError(t, err)
	assert.Positive(t, retryAfter)
	assert.LessOrEqual(t, retryAfter, int((24 * time.Hour).Seconds()))
}

func TestReportRateLimiterIsPerCitizen(t *testing.T) {
	f := newLimiterFixture(t, 1)
	require.Equal(t, http.StatusCreated, f.post("/reports").Code)
	require.Equal(t, http.StatusTooManyRequests, f.post("/reports").Code)

	other := f.createUser(t, "bina@example.com", models.RoleCitizen)
	token, err := f.tokens.Issue(other.ID.Hex(), other.Role)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, f.postAs(token, "/reports").Code)
}

func TestReportRateLimiterReleasesRejectedSubmissions(t *testing.T) {
	f := newLimiterFixture(t, 1)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusBadRequest, f.post("/reports?reject=1").Code)
	}
	assert.Equal(t, "0", mustGet(t, f.redis, reportLimitKey(f.user.ID.Hex())))

	assert.Equal(t, http.StatusCreated, f.post("/reports").Code)
	assert.Equal(t, http.StatusTooManyRequests, f.post("/reports").Code)
}

func TestReportRateLimiterFailsOpen(t *testing.T) {
	f := newLimiterFixture(t, 1)
	require.Equal(t, http.StatusCreated, f.post("/reports").Code)

	f.redis.Close()

	assert.Equal(t, http.StatusCreated, f.post("/reports").Code)
}

func mustGet(t *testing.T, mr *miniredis.Miniredis, key string) string {
	t.Helper()
	v, err := mr.Get(key)
	require.NoError(t, err)
	return v
}
