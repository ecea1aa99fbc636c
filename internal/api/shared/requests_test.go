package shared

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		wantErr     bool
		errContains string
	}{
		{
			name:        "valid json",
			requestBody: `{"name": "test", "age": 30}`,
		},
		{
			name:        "invalid json",
			requestBody: `{"name": "test", "age": 30,}`, // trailing comma
			wantErr:     true,
			errContains: "invalid character",
		},
		{
			name:        "empty body",
			requestBody: "",
			wantErr:     true,
			errContains: "EOF",
		},
		{
			name:        "oversized body",
			requestBody: `{"name": "` + strings.Repeat("x", MaxBodyBytes) + `"}`,
			wantErr:     true,
			errContains: "unexpected EOF",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(tc.requestBody))

			var target struct {
				Name string `json:"name"`
				Age  int    `json:"age"`
			}
			err := DecodeJSON(req, &target)

			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test", target.Name)
			assert.Equal(t, 30, target.Age)
		})
	}
}

// Mock for http.Request that will return a read error
type errorReader struct{}

func (er errorReader) Read(p []byte) (n int, err error) {
	return 0, io.ErrUnexpectedEOF
}

func TestDecodeJSONWithReadError(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", errorReader{})

	var target struct{}
	err := DecodeJSON(req, &target)

	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

type selfValidating struct {
	Name string
}

func (v *selfValidating) Validate() error {
	if v.Name == "invalid" {
		return errors.New("name is invalid")
	}
	return nil
}

type taggedRequest struct {
	Name  string `json:"name"  validate:"required"`
	Inner struct {
		Count int `json:"count" validate:"gte=1"`
	} `json:"inner"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&selfValidating{Name: "ok"}))
	assert.Error(t, ValidateRequest(&selfValidating{Name: "invalid"}))

	valid := taggedRequest{Name: "x"}
	valid.Inner.Count = 1
	assert.NoError(t, ValidateRequest(&valid))

	err := ValidateRequest(&taggedRequest{})
	require.Error(t, err)
	assert.ElementsMatch(t, []domain.Issue{
		{Path: "name", Code: "required", Message: "failed the 'required' rule"},
		{Path: "inner.count", Code: "gte", Message: "failed the 'gte' rule"},
	}, RequestIssues(err))
}

func TestRequestIssuesForOtherErrors(t *testing.T) {
	issues := RequestIssues(errors.New("boom"))
	require.Len(t, issues, 1)
	assert.Equal(t, "invalid", issues[0].Code)
}
