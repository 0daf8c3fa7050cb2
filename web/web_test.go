package web_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/Cole-Dreyer/Restaurant-Reservation/client"
	"github.com/Cole-Dreyer/Restaurant-Reservation/database"
	"github.com/Cole-Dreyer/Restaurant-Reservation/models"
	"github.com/Cole-Dreyer/Restaurant-Reservation/router"
	"github.com/Cole-Dreyer/Restaurant-Reservation/utils"
	"github.com/Cole-Dreyer/Restaurant-Reservation/validation"
	"github.com/Cole-Dreyer/Restaurant-Reservation/web"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2030, time.January, 7, 12, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.InitLogger("error", "text")
	os.Exit(m.Run())
}

type fixture struct {
	db    *gorm.DB
	api   *client.Client
	pages http.Handler
}

func setup(t *testing.T) fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	rules := validation.DefaultRules()
	rules.Location = time.UTC
	rules.Now = func() time.Time { return fixedNow }
	apiSrv := httptest.NewServer(router.SetupRouter(db, router.Options{Rules: rules}))
	t.Cleanup(apiSrv.Close)

	api := client.New(apiSrv.URL, apiSrv.Client())
	s := web.NewServer(api, time.UTC)
	s.Now = func() time.Time { return fixedNow }
	return fixture{db: db, api: api, pages: s.Router()}
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func post(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func reservationForm() url.Values {
	return url.Values{
		"first_name":       {"Grace"},
		"last_name":        {"Hopper"},
		"mobile_number":    {"555-867-5309"},
		"reservation_date": {"2030-01-10"},
		"reservation_time": {"19:00"},
		"people":           {"3"},
	}
}

func (f fixture) book(t *testing.T) *models.Reservation {
	t.Helper()
	r, err := f.api.CreateReservation(context.Background(), client.ReservationInput{
		FirstName: "Grace", LastName: "Hopper", MobileNumber: "555-867-5309",
		ReservationDate: "2030-01-10", ReservationTime: "19:00", People: 3,
	})
	require.NoError(t, err)
	return r
}

func TestDashboardDefaultsToToday(t *testing.T) {
	f := setup(t)

	w := get(f.pages, "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Reservations for 2030-01-07")
	assert.Contains(t, body, "/dashboard?date=2030-01-06")
	assert.Contains(t, body, "/dashboard?date=2030-01-08")
	assert.Contains(t, body, "No reservations found.")
}

func TestDashboardListsReservationsAndTables(t *testing.T) {
	f := setup(t)
	f.book(t)
	_, err := f.api.CreateTable(context.Background(), client.TableInput{TableName: "Window", Capacity: 4})
	require.NoError(t, err)

	w := get(f.pages, "/dashboard?date=2030-01-10")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Hopper, Grace")
	assert.Contains(t, body, "Window")
	assert.Contains(t, body, "/dashboard?date=2030-01-09")
	assert.Contains(t, body, "/dashboard?date=2030-01-11")
	assert.Contains(t, body, "1 reservations, 3 covers")
}

func TestDashboardRejectsBadDate(t *testing.T) {
	f := setup(t)
	w := get(f.pages, "/dashboard?date=someday")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "date must be a valid YYYY-MM-DD date")
	assert.Contains(t, w.Body.String(), "Reservations for 2030-01-07")
}

func TestCreateReservationRedirectsToItsDate(t *testing.T) {
	f := setup(t)

	w := post(f.pages, "/reservations/new", reservationForm())
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard?date=2030-01-10", w.Header().Get("Location"))

	list, err := f.api.ListReservations(context.Background(), "2030-01-10")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateReservationErrorKeepsValues(t *testing.T) {
	f := setup(t)
	form := reservationForm()
	form.Set("reservation_date", "2030-01-08")

	w := post(f.pages, "/reservations/new", form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "alert-danger")
	assert.Contains(t, body, "The restaurant is closed on Tuesday!")
	assert.Contains(t, body, `value="Grace"`)
	assert.Contains(t, body, `value="2030-01-08"`)
}

func TestEditReservation(t *testing.T) {
	f := setup(t)
	r := f.book(t)

	w := get(f.pages, fmt.Sprintf("/reservations/%d/edit", r.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Hopper"`)

	form := reservationForm()
	form.Set("reservation_date", "2030-01-11")
	form.Set("people", "5")
	w = post(f.pages, fmt.Sprintf("/reservations/%d/edit", r.ID), form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard?date=2030-01-11", w.Header().Get("Location"))

	read, err := f.api.ReadReservation(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, read.People)
}

func TestEditMissingReservation(t *testing.T) {
	f := setup(t)
	w := get(f.pages, "/reservations/42/edit")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Reservation 42 cannot be found.")
}

func TestSeatAndFinishFromPages(t *testing.T) {
	f := setup(t)
	r := f.book(t)
	table, err := f.api.CreateTable(context.Background(), client.TableInput{TableName: "Booth", Capacity: 4})
	require.NoError(t, err)

	w := get(f.pages, fmt.Sprintf("/reservations/%d/seat", r.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Booth - 4")

	w = post(f.pages, fmt.Sprintf("/reservations/%d/seat", r.ID), url.Values{
		"table_id": {fmt.Sprint(table.ID)},
		"date":     {"2030-01-10"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard?date=2030-01-10", w.Header().Get("Location"))

	read, err := f.api.ReadReservation(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSeated, read.Status)

	w = post(f.pages, fmt.Sprintf("/tables/%d/finish", table.ID), url.Values{"date": {"2030-01-10"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	read, err = f.api.ReadReservation(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinished, read.Status)
}

func TestSeatTooSmallTableShowsAlert(t *testing.T) {
	f := setup(t)
	r := f.book(t)
	table, err := f.api.CreateTable(context.Background(), client.TableInput{TableName: "Bar", Capacity: 1})
	require.NoError(t, err)

	w := post(f.pages, fmt.Sprintf("/reservations/%d/seat", r.ID), url.Values{"table_id": {fmt.Sprint(table.ID)}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "alert-danger")
	assert.Contains(t, w.Body.String(), "Hopper, Grace")
}

func TestFinishFreeTableShowsDashboardAlert(t *testing.T) {
	f := setup(t)
	table, err := f.api.CreateTable(context.Background(), client.TableInput{TableName: "Bar", Capacity: 1})
	require.NoError(t, err)

	w := post(f.pages, fmt.Sprintf("/tables/%d/finish", table.ID), url.Values{"date": {"2030-01-10"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Table Bar is not occupied.")
	assert.Contains(t, w.Body.String(), "Reservations for 2030-01-10")
}

func TestCancelReservation(t *testing.T) {
	f := setup(t)
	r := f.book(t)

	w := post(f.pages, fmt.Sprintf("/reservations/%d/cancel", r.ID), url.Values{"date": {"2030-01-10"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard?date=2030-01-10", w.Header().Get("Location"))

	w = get(f.pages, "/dashboard?date=2030-01-10")
	assert.NotContains(t, w.Body.String(), "Hopper, Grace")
}

func TestCreateTable(t *testing.T) {
	f := setup(t)

	w := post(f.pages, "/tables/new", url.Values{"table_name": {"X"}, "capacity": {"0"}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "One or more inputs are invalid: capacity")
	assert.Contains(t, w.Body.String(), `value="X"`)

	w = post(f.pages, "/tables/new", url.Values{"table_name": {"Patio"}, "capacity": {"2"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	tables, err := f.api.ListTables(context.Background())
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, "Patio", tables[0].TableName)
}

func TestSearchFindsEveryStatus(t *testing.T) {
	f := setup(t)
	r := f.book(t)
	_, err := f.api.CancelReservation(context.Background(), r.ID)
	require.NoError(t, err)

	w := get(f.pages, "/search?mobile_number=8675309")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Hopper, Grace")
	assert.Contains(t, w.Body.String(), "cancelled")

	w = get(f.pages, "/search?mobile_number=0000000")
	assert.Contains(t, w.Body.String(), "No reservations found.")
}

func TestAPIDownShowsGenericAlert(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()

	s := web.NewServer(client.New(down.URL, nil), time.UTC)
	s.Now = func() time.Time { return fixedNow }
	w := get(s.Router(), "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The reservation service is unavailable.")
}

func TestUnknownPage(t *testing.T) {
	f := setup(t)
	w := get(f.pages, "/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Path not found: /nowhere")
}
