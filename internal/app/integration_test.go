package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/pizzastack/pizzastack-backend/config"
	"github.com/pizzastack/pizzastack-backend/internal/app/controller"
	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/app/repository"
	"github.com/pizzastack/pizzastack-backend/internal/app/service"
	"github.com/pizzastack/pizzastack-backend/internal/db"
	"github.com/pizzastack/pizzastack-backend/internal/middleware"
	"github.com/pizzastack/pizzastack-backend/internal/router"
	"github.com/pizzastack/pizzastack-backend/internal/session"
	"github.com/pizzastack/pizzastack-backend/pkg/factory"
	"github.com/pizzastack/pizzastack-backend/pkg/util"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	engine      *gin.Engine
	userRepo    repository.UserRepository
	factoryFail atomic.Bool
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(database) })

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	app := &testApp{}

	factoryServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if app.factoryFail.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"message":"Failed to fulfill order","reportUrl":"http://factory/report/failed"}`)
			return
		}
		fmt.Fprint(w, `{"jwt":"factory-jwt","reportUrl":"http://factory/report/ok"}`)
	}))
	t.Cleanup(factoryServer.Close)

	factoryClient, err := factory.NewClient(factory.Config{
		BaseURL: factoryServer.URL,
		APIKey:  "test-key",
	})
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Server.GinMode = gin.TestMode
	cfg.JWT.Secret = "integration-secret"
	cfg.JWT.TokenExpiry = time.Hour
	cfg.CORS.AllowedOrigins = []string{"*"}

	sessions := session.NewStore(redisClient, cfg.JWT.TokenExpiry)

	userRepo := repository.NewUserRepository(database)
	franchiseRepo := repository.NewFranchiseRepository(database)
	menuRepo := repository.NewMenuRepository(database)
	orderRepo := repository.NewOrderRepository(database)

	authService := service.NewAuthService(userRepo, sessions, cfg.JWT.Secret, cfg.JWT.TokenExpiry)
	userService := service.NewUserService(userRepo, authService)
	franchiseService := service.NewFranchiseService(franchiseRepo, userRepo)
	orderService := service.NewOrderService(orderRepo, menuRepo, franchiseRepo, factoryClient)

	r := router.NewRouter(
		controller.NewAuthController(authService),
		controller.NewUserController(userService),
		controller.NewFranchiseController(franchiseService),
		controller.NewOrderController(orderService),
		middleware.NewAuthMiddleware(cfg.JWT.Secret, sessions, userRepo),
		cfg,
	)

	app.engine = r.Setup()
	app.userRepo = userRepo
	return app
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// register creates a user through the API and returns its ID and token.
func (a *testApp) register(t *testing.T, name, email, password string) (uint, string) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth", "", gin.H{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	return uint(user["id"].(float64)), body["token"].(string)
}

// seedAdmin inserts an admin directly and logs in through the API.
func (a *testApp) seedAdmin(t *testing.T) (uint, string) {
	t.Helper()
	hash, err := util.HashPassword("admin-pw")
	require.NoError(t, err)
	admin := &model.User{
		Name:         "pizza admin",
		Email:        "admin@jwt.com",
		PasswordHash: hash,
		Roles:        []model.UserRole{{Role: model.RoleAdmin}},
	}
	require.NoError(t, a.userRepo.Create(admin))

	w := a.do(t, http.MethodPut, "/api/auth", "", gin.H{
		"email":    "admin@jwt.com",
		"password": "admin-pw",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return admin.ID, decodeBody(t, w)["token"].(string)
}

func TestIntegration_AuthLifecycle(t *testing.T) {
	app := newTestApp(t)

	userID, token := app.register(t, "pizza diner", "d@jwt.com", "diner")
	assert.NotZero(t, userID)

	t.Run("registered token grants access", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/user/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "d@jwt.com", body["email"])
		// password hash never leaves the server
		assert.NotContains(t, w.Body.String(), "password")
	})

	t.Run("duplicate registration rejected", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/auth", "", gin.H{
			"name": "imposter", "email": "d@jwt.com", "password": "x",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/api/auth", "", gin.H{
			"email": "d@jwt.com", "password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login displaces earlier token", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/api/auth", "", gin.H{
			"email": "d@jwt.com", "password": "diner",
		})
		require.Equal(t, http.StatusOK, w.Code)
		fresh := decodeBody(t, w)["token"].(string)

		stale := app.do(t, http.MethodGet, "/api/user/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, stale.Code)

		ok := app.do(t, http.MethodGet, "/api/user/me", fresh, nil)
		assert.Equal(t, http.StatusOK, ok.Code)
		token = fresh
	})

	t.Run("logout revokes the session", func(t *testing.T) {
		w := app.do(t, http.MethodDelete, "/api/auth", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "logout successful", decodeBody(t, w)["message"])

		after := app.do(t, http.MethodGet, "/api/user/me", token, nil)
		assert.Equal(t, http.StatusUnauthorized, after.Code)
	})

	t.Run("anonymous requests rejected on protected routes", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/user/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIntegration_UserManagement(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.seedAdmin(t)
	dinerID, dinerToken := app.register(t, "pizza diner", "d@jwt.com", "diner")
	otherID, otherToken := app.register(t, "other diner", "o@jwt.com", "diner")

	t.Run("self update allowed", func(t *testing.T) {
		w := app.do(t, http.MethodPut, fmt.Sprintf("/api/user/%d", dinerID), dinerToken, gin.H{
			"name": "renamed diner",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "renamed diner", body["user"].(map[string]interface{})["name"])

		// the update re-issued the token; keep using the new one
		dinerToken = body["token"].(string)
	})

	t.Run("updating another user denied", func(t *testing.T) {
		w := app.do(t, http.MethodPut, fmt.Sprintf("/api/user/%d", otherID), dinerToken, gin.H{
			"name": "hijacked",
		})
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "unauthorized", decodeBody(t, w)["message"])
	})

	t.Run("role change denied for non-admin even on self", func(t *testing.T) {
		w := app.do(t, http.MethodPut, fmt.Sprintf("/api/user/%d", dinerID), dinerToken, gin.H{
			"roles": []gin.H{{"role": "admin"}},
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin promotes user and displaces their session", func(t *testing.T) {
		w := app.do(t, http.MethodPut, fmt.Sprintf("/api/user/%d", otherID), adminToken, gin.H{
			"roles": []gin.H{{"role": "diner"}, {"role": "admin"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// the promoted user's old token is out
		stale := app.do(t, http.MethodGet, "/api/user/me", otherToken, nil)
		assert.Equal(t, http.StatusUnauthorized, stale.Code)

		fresh := decodeBody(t, w)["token"].(string)
		me := app.do(t, http.MethodGet, "/api/user/me", fresh, nil)
		require.Equal(t, http.StatusOK, me.Code)
		assert.Contains(t, me.Body.String(), `"admin"`)
	})

	t.Run("list users requires a session", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/user?page=0&limit=10", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("list users with name filter", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/user?page=0&limit=10&name=RENAMED", dinerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		users := body["users"].([]interface{})
		require.Len(t, users, 1)
		assert.Equal(t, false, body["more"])
	})
}

func TestIntegration_FranchiseLifecycle(t *testing.T) {
	app := newTestApp(t)
	adminID, adminToken := app.seedAdmin(t)
	franchiseeID, franchiseeToken := app.register(t, "pizza franchisee", "f@jwt.com", "pw")
	_, dinerToken := app.register(t, "plain diner", "d@jwt.com", "pw")

	t.Run("non-admin cannot create a franchise", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/franchise", dinerToken, gin.H{
			"name": "sneaky pizza",
		})
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "unauthorized", decodeBody(t, w)["message"])
	})

	var franchiseID uint
	t.Run("admin creates a franchise with an admin by email", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/franchise", adminToken, gin.H{
			"name":   "pizzaPocket",
			"admins": []gin.H{{"email": "f@jwt.com"}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		franchiseID = uint(body["id"].(float64))
		assert.Equal(t, "pizzaPocket", body["name"])
	})

	t.Run("unknown admin email fails creation", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/franchise", adminToken, gin.H{
			"name":   "orphan pizza",
			"admins": []gin.H{{"email": "nobody@jwt.com"}},
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("anonymous can list franchises", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/franchise?page=0&limit=10", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Len(t, body["franchises"].([]interface{}), 1)
	})

	t.Run("own franchise listing allowed", func(t *testing.T) {
		// freshly granted role, so log in again for a current session
		w := app.do(t, http.MethodPut, "/api/auth", "", gin.H{
			"email": "f@jwt.com", "password": "pw",
		})
		require.Equal(t, http.StatusOK, w.Code)
		franchiseeToken = decodeBody(t, w)["token"].(string)

		list := app.do(t, http.MethodGet, fmt.Sprintf("/api/franchise/%d", franchiseeID), franchiseeToken, nil)
		require.Equal(t, http.StatusOK, list.Code)
		var franchises []map[string]interface{}
		require.NoError(t, json.Unmarshal(list.Body.Bytes(), &franchises))
		require.Len(t, franchises, 1)
		assert.Equal(t, "pizzaPocket", franchises[0]["name"])
	})

	t.Run("another user's franchise listing denied", func(t *testing.T) {
		w := app.do(t, http.MethodGet, fmt.Sprintf("/api/franchise/%d", adminID), franchiseeToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	var storeID uint
	t.Run("franchisee opens a store in own franchise", func(t *testing.T) {
		w := app.do(t, http.MethodPost, fmt.Sprintf("/api/franchise/%d/store", franchiseID), franchiseeToken, gin.H{
			"name": "SLC",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		storeID = uint(body["id"].(float64))
		assert.Equal(t, float64(franchiseID), body["franchiseId"])
	})

	t.Run("diner cannot open a store", func(t *testing.T) {
		w := app.do(t, http.MethodPost, fmt.Sprintf("/api/franchise/%d/store", franchiseID), dinerToken, gin.H{
			"name": "rogue store",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("nonexistent franchise target yields the same denial", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/franchise/9999/store", dinerToken, gin.H{
			"name": "phantom",
		})
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "unauthorized", decodeBody(t, w)["message"])
	})

	t.Run("franchisee closes own store", func(t *testing.T) {
		w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/franchise/%d/store/%d", franchiseID, storeID), franchiseeToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "store deleted", decodeBody(t, w)["message"])
	})

	t.Run("non-admin cannot delete the franchise", func(t *testing.T) {
		w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/franchise/%d", franchiseID), franchiseeToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin deletes the franchise and the scoped role dies with it", func(t *testing.T) {
		w := app.do(t, http.MethodDelete, fmt.Sprintf("/api/franchise/%d", franchiseID), adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "franchise deleted", decodeBody(t, w)["message"])

		// the ex-franchisee's live session lost its store authority
		denied := app.do(t, http.MethodPost, fmt.Sprintf("/api/franchise/%d/store", franchiseID), franchiseeToken, gin.H{
			"name": "ghost store",
		})
		assert.Equal(t, http.StatusForbidden, denied.Code)
	})
}

func TestIntegration_MenuAndOrders(t *testing.T) {
	app := newTestApp(t)
	_, adminToken := app.seedAdmin(t)
	_, dinerToken := app.register(t, "hungry diner", "d@jwt.com", "pw")
	_, otherToken := app.register(t, "other diner", "o@jwt.com", "pw")

	// franchise + store for orders to land in
	w := app.do(t, http.MethodPost, "/api/franchise", adminToken, gin.H{"name": "orderPocket"})
	require.Equal(t, http.StatusOK, w.Code)
	franchiseID := uint(decodeBody(t, w)["id"].(float64))

	w = app.do(t, http.MethodPost, fmt.Sprintf("/api/franchise/%d/store", franchiseID), adminToken, gin.H{"name": "SLC"})
	require.Equal(t, http.StatusOK, w.Code)
	storeID := uint(decodeBody(t, w)["id"].(float64))

	t.Run("anonymous menu read", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/order/menu", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("diner cannot change the menu", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/api/order/menu", dinerToken, gin.H{
			"title": "Sneaky Pizza", "description": "nope", "image": "x.png", "price": 0.01,
		})
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "unauthorized", decodeBody(t, w)["message"])
	})

	var menuID uint
	t.Run("admin extends the menu", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/api/order/menu", adminToken, gin.H{
			"title": "Veggie", "description": "A garden of delight", "image": "pizza1.png", "price": 0.0038,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var menu []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &menu))
		require.Len(t, menu, 1)
		menuID = uint(menu[0]["id"].(float64))
	})

	t.Run("diner places an order", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/order", dinerToken, gin.H{
			"franchiseId": franchiseID,
			"storeId":     storeID,
			"items":       []gin.H{{"menuId": menuID}},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "factory-jwt", body["jwt"])
		assert.Equal(t, "http://factory/report/ok", body["reportUrl"])
		order := body["order"].(map[string]interface{})
		items := order["items"].([]interface{})
		require.Len(t, items, 1)
		// description and price come from the menu, not the request
		assert.Equal(t, "Veggie", items[0].(map[string]interface{})["description"])
	})

	t.Run("order against unknown menu item rejected", func(t *testing.T) {
		w := app.do(t, http.MethodPost, "/api/order", dinerToken, gin.H{
			"franchiseId": franchiseID,
			"storeId":     storeID,
			"items":       []gin.H{{"menuId": 9999}},
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("factory failure keeps the order and surfaces the report", func(t *testing.T) {
		app.factoryFail.Store(true)
		defer app.factoryFail.Store(false)

		w := app.do(t, http.MethodPost, "/api/order", dinerToken, gin.H{
			"franchiseId": franchiseID,
			"storeId":     storeID,
			"items":       []gin.H{{"menuId": menuID}},
		})
		require.Equal(t, http.StatusInternalServerError, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Failed to fulfill order at factory", body["message"])
		assert.Equal(t, "http://factory/report/failed", body["reportUrl"])
	})

	t.Run("order listing is scoped to the caller", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/api/order", dinerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		// the fulfilled order and the factory-failed one
		assert.Len(t, body["orders"].([]interface{}), 2)

		other := app.do(t, http.MethodGet, "/api/order", otherToken, nil)
		require.Equal(t, http.StatusOK, other.Code)
		assert.Empty(t, decodeBody(t, other)["orders"])
	})
}
