package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mymoneyapp/backend/internal/http/handlers"
)

type bindTarget struct {
	Title string `json:"title" binding:"required"`
	Count int    `json:"count" binding:"min=1"`
}

func bindEcho(ctx *gin.Context) {
	var req bindTarget

	if !handlers.BindJSON(ctx, &req) {
		return
	}

	ctx.JSON(http.StatusOK, req)
}

func TestBindJSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantField  string
	}{
		{
			name:       "valid body",
			body:       `{"title":"ok","count":2}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing required field reports json name",
			body:       `{"count":2}`,
			wantStatus: http.StatusBadRequest,
			wantField:  "title",
		},
		{
			name:       "syntax error",
			body:       `{nope`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "type mismatch",
			body:       `{"title":"ok","count":"two"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(http.MethodPost, "/bind", bindEcho)

			w := doJSON(t, r, http.MethodPost, "/bind", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantField == "" {
				return
			}

			body := decodeBody(t, w)

			errObj, ok := body["error"].(map[string]interface{})

			if !ok {
				t.Fatalf("missing error envelope: %v", body)
			}

			details, ok := errObj["details"].(map[string]interface{})

			if !ok {
				t.Fatalf("missing details: %v", errObj)
			}

			fields, ok := details["fields"].([]interface{})

			if !ok || len(fields) == 0 {
				t.Fatalf("missing field errors: %v", details)
			}

			first := fields[0].(map[string]interface{})

			if first["field"] != tt.wantField {
				t.Errorf("field = %v, want %q", first["field"], tt.wantField)
			}
		})
	}
}
