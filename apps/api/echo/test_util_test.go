package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/soko/core"
	"github.com/trezcool/soko/core/cart"
	"github.com/trezcool/soko/core/coupon"
	"github.com/trezcool/soko/core/course"
	"github.com/trezcool/soko/core/order"
	appfs "github.com/trezcool/soko/fs"
	emailsvc "github.com/trezcool/soko/services/email"
	paymentsvc "github.com/trezcool/soko/services/payment"
	inmemdb "github.com/trezcool/soko/storage/database/inmem"
	localstore "github.com/trezcool/soko/storage/local"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app       Server
	conf      *core.Config
	carts     *cart.Registry
	courseSvc *course.Service
	couponSvc *coupon.Service
	orderSvc  *order.Service
	orderRepo order.Repository
}

type testLogger struct{}

func (testLogger) Debug(string, ...interface{}) {}
func (testLogger) Info(string, ...interface{})  {}
func (testLogger) Warn(string, ...interface{})  {}
func (testLogger) Error(string, ...interface{}) {}
func (testLogger) Fatal(string, ...interface{}) {}

func testConfig() *core.Config {
	return &core.Config{
		AppName:          "Soko",
		Env:              "TEST",
		TestMode:         true,
		SecretKey:        []byte("secret"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Name: "Soko", Address: "noreply@localhost"},
		Server: core.ServerConfig{
			JWTExpirationDelta: 10 * time.Minute,
		},
	}
}

func setup(t *testing.T) *testEnv {
	conf := testConfig()
	logger := testLogger{}

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}

	carts := cart.NewRegistry(localstore.Opener(t.TempDir()), logger)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	emailsvc.ClearSentMessages()

	courseSvc := course.NewService(inmemdb.NewCourseRepository(db))
	couponSvc := coupon.NewService(inmemdb.NewCouponRepository(db))
	orderRepo := inmemdb.NewOrderRepository(db)
	orderSvc := order.NewService(orderRepo, paymentsvc.NewDummyGateway(), carts, mailSvc, logger)

	validate, translator := newTestValidators(t)
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	app := NewServer(ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Carts:      carts,
		CourseSvc:  courseSvc,
		CouponSvc:  couponSvc,
		OrderSvc:   orderSvc,
		Validate:   validate,
		Translator: translator,
	})

	return &testEnv{
		app:       app,
		conf:      conf,
		carts:     carts,
		courseSvc: courseSvc,
		couponSvc: couponSvc,
		orderSvc:  orderSvc,
		orderRepo: orderRepo,
	}
}

func newTestValidators(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, ident core.Identity, claims ...*Claims) string {
	clms := GetIdentityClaims(ident)
	if len(claims) > 0 {
		clms = claims[0]
	}
	token, err := GenerateToken(clms)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func createCourse(t *testing.T, svc *course.Service, slug, title string, price float64) course.Course {
	crs, err := svc.Create(course.NewCourse{
		Slug:           slug,
		Title:          title,
		InstructorName: "Mwalimu",
		Price:          price,
		Published:      true,
	})
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return crs
}

func yearAgo() time.Time {
	return time.Now().Add(-365 * 24 * time.Hour)
}

func createCoupon(t *testing.T, svc *coupon.Service, code string, discount float64, active bool, expiresAt ...time.Time) coupon.Coupon {
	cpn := coupon.Coupon{Code: code, Discount: discount, Active: active}
	if len(expiresAt) > 0 {
		cpn.ExpiresAt = expiresAt[0]
	}
	cpn, err := svc.Create(cpn)
	if err != nil {
		t.Fatalf("createCoupon() failed: %v", err)
	}
	return cpn
}
