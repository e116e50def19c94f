package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/showtime/movie-booking/internal/model"
)

func TestNormalizeLabels(t *testing.T) {
	cases := []struct {
		name string
		in   []string
		want []string
	}{
		{"mixed case and whitespace", []string{" a1", "B2 ", "a1"}, []string{"A1", "B2"}},
		{"blank entries dropped", []string{"", "  ", "C3"}, []string{"C3"}},
		{"sorted output", []string{"B1", "A2", "A1"}, []string{"A1", "A2", "B1"}},
		{"empty input", nil, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeLabels(tc.in))
		})
	}
}

func TestLabelsJSONRoundTrip(t *testing.T) {
	assert.Equal(t, `["A1","A2"]`, labelsJSON([]string{"A1", "A2"}))
	assert.Equal(t, `[]`, labelsJSON(nil))
	assert.Equal(t, []string{"A1", "A2"}, labelsFromJSON(`["A1","A2"]`))
	assert.Equal(t, []string{}, labelsFromJSON(`not json`))
}

func TestSeatType(t *testing.T) {
	premium := []model.Seat{{SeatType: model.SeatPremium}, {SeatType: model.SeatPremium}}
	assert.Equal(t, model.SeatPremium, seatType(premium))

	mixed := []model.Seat{{SeatType: model.SeatClassic}, {SeatType: model.SeatPremium}}
	assert.Equal(t, "MIXED", seatType(mixed))
}

func TestGetUserID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	c.Set("user_id", uint64(42))
	id, err := getUserID(c)
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	c.Set("user_id", "oops")
	_, err = getUserID(c)
	assert.Error(t, err)
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("7")

	id, err := pathID(c, "id")
	assert.NoError(t, err)
	assert.Equal(t, uint64(7), id)

	c.SetParamValues("0")
	_, err = pathID(c, "id")
	assert.Error(t, err)
}
