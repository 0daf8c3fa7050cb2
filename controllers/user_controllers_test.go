package controllers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/router"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, r *gin.Engine, email, role, token string) *httptest.ResponseRecorder {
	t.Helper()
	body := map[string]interface{}{"name": "Staff", "email": email, "password": "correct-horse", "role": role}
	if token == "" {
		return doJSON(t, r, http.MethodPost, "/auth/register", body)
	}
	return doJSON(t, r, http.MethodPost, "/auth/register", body, "Authorization", "Bearer "+token)
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]interface{}{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
		Role  string `json:"user_role"`
	}
	decodeData(t, w, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func authRouter(t *testing.T) *gin.Engine {
	t.Helper()
	r, _ := setupRouter(t, router.Options{
		AuthRequired: true,
		Tokens:       utils.NewTokenManager("test-secret", time.Hour),
	})
	return r
}

func TestFirstUserBecomesAdmin(t *testing.T) {
	r := authRouter(t)

	w := register(t, r, "Owner@Example.com", "host", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var owner models.User
	decodeData(t, w, &owner)
	assert.Equal(t, models.RoleAdmin, owner.Role)
	assert.Equal(t, "owner@example.com", owner.Email)
	assert.NotContains(t, w.Body.String(), "correct-horse")
}

func TestLaterRegistrationsNeedAdmin(t *testing.T) {
	r := authRouter(t)
	require.Equal(t, http.StatusCreated, register(t, r, "owner@example.com", "", "").Code)
	adminToken := login(t, r, "owner@example.com", "correct-horse")

	w := register(t, r, "host@example.com", "host", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = register(t, r, "host@example.com", "host", adminToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var host models.User
	decodeData(t, w, &host)
	assert.Equal(t, models.RoleHost, host.Role)

	hostToken := login(t, r, "host@example.com", "correct-horse")
	w = register(t, r, "another@example.com", "host", hostToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = register(t, r, "host@example.com", "host", adminToken)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = register(t, r, "chef@example.com", "chef", adminToken)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := authRouter(t)
	require.Equal(t, http.StatusCreated, register(t, r, "owner@example.com", "", "").Code)

	w := doJSON(t, r, http.MethodPost, "/auth/login", map[string]interface{}{"email": "owner@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", map[string]interface{}{"email": "nobody@example.com", "password": "correct-horse"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/auth/login", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRequiredProtectsStaffRoutes(t *testing.T) {
	r := authRouter(t)
	require.Equal(t, http.StatusCreated, register(t, r, "owner@example.com", "", "").Code)
	token := login(t, r, "owner@example.com", "correct-horse")

	w := doJSON(t, r, http.MethodGet, "/tables", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/tables", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/auth/profile", nil, "Authorization", "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)
	var me models.User
	decodeData(t, w, &me)
	assert.Equal(t, "owner@example.com", me.Email)

	w = doJSON(t, r, http.MethodPost, "/auth/logout", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/tables", nil, "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOnlyAdminsCreateTables(t *testing.T) {
	r := authRouter(t)
	require.Equal(t, http.StatusCreated, register(t, r, "owner@example.com", "", "").Code)
	adminToken := login(t, r, "owner@example.com", "correct-horse")
	require.Equal(t, http.StatusCreated, register(t, r, "host@example.com", models.RoleHost, adminToken).Code)
	hostToken := login(t, r, "host@example.com", "correct-horse")

	body := map[string]interface{}{"data": map[string]interface{}{"table_name": "Patio", "capacity": 4}}

	w := doJSON(t, r, http.MethodPost, "/tables", body, "Authorization", "Bearer "+hostToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodPost, "/tables", body, "Authorization", "Bearer "+adminToken)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// hosts still run the floor
	w = doJSON(t, r, http.MethodGet, "/tables", nil, "Authorization", "Bearer "+hostToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestConcurrentFirstRegistrationsYieldOneAdmin(t *testing.T) {
	r, db := setupRouter(t, router.Options{
		AuthRequired: true,
		Tokens:       utils.NewTokenManager("test-secret", time.Hour),
	})

	const attempts = 5
	codes := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = register(t, r, fmt.Sprintf("owner%d@example.com", i), "", "").Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
		}
	}

	var admins int64
	require.NoError(t, db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&admins).Error)
	assert.LessOrEqual(t, admins, int64(1))
	assert.Equal(t, int(admins), created)
}
