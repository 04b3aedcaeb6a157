package httputil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdamBeresnev/tourney-api/internal/bracket"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceErrorStatus(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		detail string
	}{
		{
			name:   "validation",
			err:    errors.Wrap(bracket.ErrValidation, "ties are not allowed"),
			status: http.StatusBadRequest,
			detail: "ties are not allowed: validation failed",
		},
		{
			name:   "preceding match",
			err:    &bracket.PrecededMatchIncompleteError{Round: 1, MatchNumber: 2},
			status: http.StatusBadRequest,
			detail: "preceding match round 1 match 2 is not decided yet",
		},
		{
			name:   "not found",
			err:    errors.Wrap(bracket.ErrNotFound, "team"),
			status: http.StatusNotFound,
		},
		{
			name:   "permission",
			err:    errors.Wrap(bracket.ErrPermission, "not yours"),
			status: http.StatusForbidden,
		},
		{
			name:   "conflict",
			err:    errors.Wrap(bracket.ErrConflict, "username taken"),
			status: http.StatusConflict,
		},
		{
			name:   "unexpected",
			err:    errors.New("disk on fire"),
			status: http.StatusInternalServerError,
			detail: "Internal Server Error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ServiceError(rec, "Failed", tc.err)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body errorBody
			require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body))
			if tc.detail != "" {
				assert.Equal(t, tc.detail, body.Detail)
			}
			assert.NotContains(t, body.Detail, "disk on fire")
		})
	}
}

type scoreRequest struct {
	Team1Score *int `json:"team1_score" validate:"required,min=0"`
	Team2Score *int `json:"team2_score" validate:"required,min=0"`
}

func TestDecodeJSON(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "valid", body: `{"team1_score": 2, "team2_score": 0}`},
		{name: "empty", body: ``, wantErr: "empty"},
		{name: "malformed", body: `{"team1_score": `, wantErr: "not valid JSON"},
		{name: "missing field", body: `{"team1_score": 2}`, wantErr: "Team2Score failed required"},
		{name: "negative", body: `{"team1_score": -1, "team2_score": 0}`, wantErr: "Team1Score failed min=0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tc.body))
			var dst scoreRequest
			err := DecodeJSON(req, &dst)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, 2, *dst.Team1Score)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
