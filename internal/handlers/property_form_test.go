package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func multipartContext(t *testing.T, fields [][2]string, fileField string, files int) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, f := range fields {
		_ = writer.WriteField(f[0], f[1])
	}
	for i := 0; i < files; i++ {
		part, err := writer.CreateFormFile(fileField, "photo.png")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(pngHeader)
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/properties", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req
	return c
}

func TestParseCreatePropertyForm(t *testing.T) {
	c := multipartContext(t, [][2]string{
		{"title", "Sea view flat"},
		{"listingType", "rent"},
		{"price", "4500"},
		{"area", "0"},
		{"bedrooms", ""},
		{"city", "Dubai"},
		{"furnished", "on"},
		{"amenities", "pool, gym"},
		{"amenities", "parking"},
	}, "images", 2)

	in, err := parseCreatePropertyForm(c)
	if err != nil {
		t.Fatalf("parseCreatePropertyForm returned error: %v", err)
	}
	if in.Price == nil || *in.Price != 4500 {
		t.Fatalf("expected price 4500, got %v", in.Price)
	}
	if in.Area == nil || *in.Area != 0 {
		t.Fatalf("expected explicit zero area, got %v", in.Area)
	}
	if in.Bedrooms != nil {
		t.Fatalf("expected blank bedrooms to be unset, got %v", *in.Bedrooms)
	}
	if !in.Furnished {
		t.Fatal("expected furnished=true")
	}
	if len(in.Amenities) != 2 || len(in.Images) != 2 {
		t.Fatalf("unexpected amenities/images: %+v / %d", in.Amenities, len(in.Images))
	}
	if in.Images[0].MIME != "image/png" {
		t.Fatalf("expected sniffed png, got %s", in.Images[0].MIME)
	}
}

func TestParseCreatePropertyFormRejectsBadNumbers(t *testing.T) {
	for _, raw := range []string{"abc", "NaN", "Inf"} {
		c := multipartContext(t, [][2]string{{"price", raw}}, "images", 1)
		_, err := parseCreatePropertyForm(c)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("price=%q: expected validation error, got %v", raw, err)
		}
	}
}

func TestParseCreatePropertyFormRejectsTooManyImages(t *testing.T) {
	c := multipartContext(t, nil, "images", 7)
	if _, err := parseCreatePropertyForm(c); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseUpdatePropertyFormOnlySetsSuppliedFields(t *testing.T) {
	c := multipartContext(t, [][2]string{
		{"title", "Renamed"},
		{"furnished", "false"},
		{"existingImages", `["https://cdn.example.com/a.jpg"]`},
	}, "newImages", 1)

	in, err := parseUpdatePropertyForm(c)
	if err != nil {
		t.Fatalf("parseUpdatePropertyForm returned error: %v", err)
	}
	if in.Title == nil || *in.Title != "Renamed" {
		t.Fatalf("expected title to be set, got %v", in.Title)
	}
	if in.Description != nil || in.Price != nil || in.City != nil {
		t.Fatalf("expected untouched fields to stay nil: %+v", in)
	}
	if in.Furnished == nil || *in.Furnished {
		t.Fatalf("expected furnished=false, got %v", in.Furnished)
	}
	if in.ExistingImages == nil || len(in.NewImages) != 1 {
		t.Fatalf("expected existing and new images, got %+v", in)
	}
}
