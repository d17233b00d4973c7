package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Kariqs/grocery-api/controllers"
	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/models"
	"github.com/Kariqs/grocery-api/routes"
	"github.com/Kariqs/grocery-api/services"
	"github.com/Kariqs/grocery-api/utils"
)

const webhookSecret = "whsec_controller_test"

type fakeGateway struct {
	mu        sync.Mutex
	requests  []services.SessionRequest
	lineItems map[string][]services.PaidLineItem
	listCalls int
}

func (f *fakeGateway) CreateSession(_ context.Context, req services.SessionRequest) (*services.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return &services.Session{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}

func (f *fakeGateway) ListLineItems(_ context.Context, sessionID string) ([]services.PaidLineItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.lineItems[sessionID], nil
}

type fakeStore struct {
	folders []string
}

func (f *fakeStore) Upload(_ context.Context, folder string, file *multipart.FileHeader) (string, error) {
	f.folders = append(f.folders, folder)
	return "https://cdn.example/" + folder + "/" + file.Filename, nil
}

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	server  *gin.Engine
	gateway *fakeGateway
	store   *fakeStore
}

type envelope struct {
	Message string          `json:"message"`
	Error   bool            `json:"error"`
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	prevDB, prevConfig, prevProducts := initializers.DB, initializers.Config, initializers.Products
	prevGateway, prevStore := controllers.NewPaymentGateway, controllers.NewImageStore
	t.Cleanup(func() {
		initializers.DB, initializers.Config, initializers.Products = prevDB, prevConfig, prevProducts
		controllers.NewPaymentGateway, controllers.NewImageStore = prevGateway, prevStore
	})

	initializers.DB = db
	initializers.SyncDatabase()
	initializers.Config = &initializers.AppConfig{
		FrontendURL:         "http://shop.test",
		AccessTokenSecret:   "access-secret",
		RefreshTokenSecret:  "refresh-secret",
		AccessTokenTTL:      time.Hour,
		RefreshTokenTTL:     24 * time.Hour,
		StripeWebhookSecret: webhookSecret,
		Currency:            "inr",
	}
	initializers.Products = nil

	env := &testEnv{
		t:       t,
		db:      db,
		gateway: &fakeGateway{lineItems: map[string][]services.PaidLineItem{}},
		store:   &fakeStore{},
	}
	controllers.NewPaymentGateway = func() services.PaymentGateway { return env.gateway }
	controllers.NewImageStore = func(context.Context) (utils.ImageStore, error) { return env.store, nil }

	env.server = gin.New()
	routes.RegisterAll(env.server)
	return env
}

func (e *testEnv) createUser(email, role string) (models.User, string) {
	e.t.Helper()
	user := models.User{
		Name:   "Test User",
		Email:  email,
		Status: models.UserStatusActive,
		Role:   role,
	}
	require.NoError(e.t, e.db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, role, "access-secret", time.Hour)
	require.NoError(e.t, err)
	return user, token
}

func (e *testEnv) createProduct(name string, price, discount int64) models.Product {
	e.t.Helper()
	p := models.Product{
		Name:     name,
		Image:    []string{name + ".jpg"},
		Unit:     "1 kg",
		Stock:    10,
		Price:    decimal.NewFromInt(price),
		Discount: decimal.NewFromInt(discount),
		Publish:  true,
	}
	require.NoError(e.t, e.db.Create(&p).Error)
	return p
}

func (e *testEnv) createAddress(userID uint) models.Address {
	e.t.Helper()
	a := models.Address{UserID: userID, AddressLine: "4 Lake View", City: "Pune", Pincode: "411001", Status: true}
	require.NoError(e.t, e.db.Create(&a).Error)
	return a
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.server.ServeHTTP(w, req)
	return w
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(req)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	env := decode(t, w)
	require.NoError(t, json.Unmarshal(env.Data, out), string(env.Data))
}

func jsonUnmarshal(w *httptest.ResponseRecorder, out any) error {
	return json.Unmarshal(w.Body.Bytes(), out)
}
