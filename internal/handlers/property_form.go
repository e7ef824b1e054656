package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AyishaBeevi/ab-backend/internal/apperr"
	"github.com/AyishaBeevi/ab-backend/internal/listing"
	"github.com/AyishaBeevi/ab-backend/internal/storage"
)

const multipartMemory = 64 << 20

/*
=======================
  CREATE FORM
=======================
*/

func parseCreatePropertyForm(c *gin.Context) (listing.CreateInput, error) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return listing.CreateInput{}, apperr.Validation("invalid multipart body")
	}

	in := listing.CreateInput{
		Title:         c.PostForm("title"),
		Description:   c.PostForm("description"),
		ListingType:   c.PostForm("listingType"),
		Currency:      c.PostForm("currency"),
		RentFrequency: c.PostForm("rentFrequency"),
		Address:       c.PostForm("address"),
		City:          c.PostForm("city"),
		State:         c.PostForm("state"),
		Country:       c.PostForm("country"),
		Type:          c.PostForm("type"),
		Amenities:     c.PostFormArray("amenities"),
	}

	var err error
	if in.Price, err = formFloat(c, "price"); err != nil {
		return listing.CreateInput{}, err
	}
	if in.Deposit, err = formFloat(c, "deposit"); err != nil {
		return listing.CreateInput{}, err
	}
	if in.Area, err = formFloat(c, "area"); err != nil {
		return listing.CreateInput{}, err
	}
	if in.Bedrooms, err = formInt(c, "bedrooms"); err != nil {
		return listing.CreateInput{}, err
	}
	if in.Bathrooms, err = formInt(c, "bathrooms"); err != nil {
		return listing.CreateInput{}, err
	}
	if value, ok := c.GetPostForm("furnished"); ok {
		// Anything other than a true-ish value leaves the listing unfurnished.
		in.Furnished, _ = parseBoolValue(value)
	}

	files, err := storage.ReadFiles(c.Request.MultipartForm.File["images"], listing.MaxCreateImages)
	if err != nil {
		return listing.CreateInput{}, err
	}
	in.Images = files
	return in, nil
}

/*
=======================
  UPDATE FORM
=======================
*/

func parseUpdatePropertyForm(c *gin.Context) (listing.UpdateInput, error) {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return listing.UpdateInput{}, apperr.Validation("invalid multipart body")
	}

	in := listing.UpdateInput{
		Title:       formString(c, "title"),
		Description: formString(c, "description"),
		ListingType: formString(c, "listingType"),
		Address:     formString(c, "address"),
		City:        formString(c, "city"),
		State:       formString(c, "state"),
		Country:     formString(c, "country"),
		Type:        formString(c, "type"),
	}

	var err error
	if in.Price, err = formFloat(c, "price"); err != nil {
		return listing.UpdateInput{}, err
	}
	if in.Area, err = formFloat(c, "area"); err != nil {
		return listing.UpdateInput{}, err
	}
	if in.Bedrooms, err = formInt(c, "bedrooms"); err != nil {
		return listing.UpdateInput{}, err
	}
	if in.Bathrooms, err = formInt(c, "bathrooms"); err != nil {
		return listing.UpdateInput{}, err
	}
	if value, ok := c.GetPostForm("furnished"); ok {
		furnished, _ := parseBoolValue(value)
		in.Furnished = &furnished
	}
	if value, ok := c.GetPostForm("existingImages"); ok {
		in.ExistingImages = &value
	}

	files, err := storage.ReadFiles(c.Request.MultipartForm.File["newImages"], listing.MaxUpdateImages)
	if err != nil {
		return listing.UpdateInput{}, err
	}
	in.NewImages = files
	return in, nil
}

/*
=======================
  HELPERS
=======================
*/

func formString(c *gin.Context, key string) *string {
	value, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &value
}

// formFloat returns nil for an absent or blank field.
func formFloat(c *gin.Context, key string) (*float64, error) {
	value := strings.TrimSpace(c.PostForm(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, apperr.Validationf("%s must be a number", key)
	}
	return &parsed, nil
}

func formInt(c *gin.Context, key string) (*int, error) {
	value := strings.TrimSpace(c.PostForm(key))
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperr.Validationf("%s must be a whole number", key)
	}
	return &parsed, nil
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}
