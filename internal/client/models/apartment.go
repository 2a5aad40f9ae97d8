package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/rentdesk/internal/validate"
)

// MaxGalleryImages is the backend limit on gallery URLs per apartment.
const MaxGalleryImages = 3

// Category classifies a listing.
type Category string

const (
	CategoryAppartement Category = "appartement"
	CategoryMaison      Category = "maison"
	CategoryVilla       Category = "villa"
	CategoryStudio      Category = "studio"
	CategoryLoft        Category = "loft"
	CategoryChalet      Category = "chalet"
	CategoryBungalow    Category = "bungalow"
	CategoryChambre     Category = "chambre"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryAppartement, CategoryMaison, CategoryVilla, CategoryStudio,
	CategoryLoft, CategoryChalet, CategoryBungalow, CategoryChambre,
}

// Status is the occupancy state of a listing. The backend computes
// disponible/indisponible/en_cours; the dashboard also knows occupe,
// maintenance and inactif.
type Status string

const (
	StatusDisponible   Status = "disponible"
	StatusOccupe       Status = "occupe"
	StatusMaintenance  Status = "maintenance"
	StatusInactif      Status = "inactif"
	StatusIndisponible Status = "indisponible"
	StatusEnCours      Status = "en_cours"
)

// Statuses lists every known status.
var Statuses = []Status{
	StatusDisponible, StatusOccupe, StatusMaintenance,
	StatusInactif, StatusIndisponible, StatusEnCours,
}

// Price is an hourly price. The backend serializes decimals as strings
// ("12.50") while list items may carry plain numbers; both decode.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*p = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*p = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", s, err)
	}
	*p = Price(f)
	return nil
}

// Gallery is a list of image URLs. Detail responses send objects of the
// form {"image_url": "..."}; both that and plain strings decode.
type Gallery []string

func (g *Gallery) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("gallery: %w", err)
	}

	out := make(Gallery, 0, len(raw))
	for _, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}
		var obj struct {
			ImageURL string `json:"image_url"`
		}
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("gallery item: %w", err)
		}
		out = append(out, obj.ImageURL)
	}
	*g = out
	return nil
}

// Unavailability is a booked or blocked period.
type Unavailability struct {
	Start time.Time `json:"start_datetime"`
	End   time.Time `json:"end_datetime"`
}

// Apartment is a listing as returned by the detail and list endpoints.
// List items carry only a subset of the fields.
type Apartment struct {
	ID               string           `json:"id"`
	Creator          string           `json:"creator,omitempty"`
	CreatorEmail     string           `json:"creator_email,omitempty"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	Category         Category         `json:"category"`
	MainPhoto        string           `json:"main_photo"`
	Status           Status           `json:"status"`
	City             string           `json:"city"`
	Country          string           `json:"country"`
	PricePerHour     Price            `json:"price_per_hour"`
	Gallery          Gallery          `json:"gallery"`
	Unavailabilities []Unavailability `json:"unavailabilities"`
	CreatedAt        *time.Time       `json:"created_at,omitempty"`
	UpdatedAt        *time.Time       `json:"updated_at,omitempty"`
}

// UnmarshalJSON accepts the list endpoint's "price" as an alias of
// price_per_hour.
func (a *Apartment) UnmarshalJSON(b []byte) error {
	type plain Apartment
	aux := struct {
		*plain
		Price *Price `json:"price"`
	}{plain: (*plain)(a)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Price != nil && a.PricePerHour == 0 {
		a.PricePerHour = *aux.Price
	}
	return nil
}

func (a Apartment) Validate() error {
	return (&validate.Validator{}).Required("id", a.ID).Err()
}

// ApartmentInput is the create/update payload.
type ApartmentInput struct {
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Latitude         float64          `json:"latitude"`
	Longitude        float64          `json:"longitude"`
	Category         Category         `json:"category"`
	MainPhoto        string           `json:"main_photo"`
	Status           Status           `json:"status,omitempty"`
	City             string           `json:"city"`
	Country          string           `json:"country"`
	PricePerHour     float64          `json:"price_per_hour"`
	Gallery          []string         `json:"gallery,omitempty"`
	Unavailabilities []Unavailability `json:"unavailabilities,omitempty"`
}

// InputFromApartment pre-fills an edit form from an existing listing.
func InputFromApartment(a Apartment) ApartmentInput {
	return ApartmentInput{
		Title:            a.Title,
		Description:      a.Description,
		Latitude:         a.Latitude,
		Longitude:        a.Longitude,
		Category:         a.Category,
		MainPhoto:        a.MainPhoto,
		Status:           a.Status,
		City:             a.City,
		Country:          a.Country,
		PricePerHour:     float64(a.PricePerHour),
		Gallery:          append([]string(nil), a.Gallery...),
		Unavailabilities: append([]Unavailability(nil), a.Unavailabilities...),
	}
}

func (in ApartmentInput) Validate() error {
	v := &validate.Validator{}
	v.Required("title", in.Title).
		Required("description", in.Description).
		Required("city", in.City).
		Required("main_photo", in.MainPhoto)
	if strings.TrimSpace(in.MainPhoto) != "" {
		v.URL("main_photo", in.MainPhoto)
	}
	v.Custom("price_per_hour", in.PricePerHour <= 0, "must be greater than 0")
	v.OneOf("category", string(in.Category), stringsOf(Categories)...)
	if in.Status != "" {
		v.OneOf("status", string(in.Status), stringsOf(Statuses)...)
	}
	v.FloatRange("latitude", in.Latitude, -90, 90).
		FloatRange("longitude", in.Longitude, -180, 180)
	v.Custom("gallery", len(in.Gallery) > MaxGalleryImages,
		fmt.Sprintf("at most %d images", MaxGalleryImages))
	for i, u := range in.Gallery {
		v.URL(fmt.Sprintf("gallery[%d]", i), u)
	}
	for i, p := range in.Unavailabilities {
		v.Custom(fmt.Sprintf("unavailabilities[%d]", i), !p.Start.Before(p.End),
			"start must be before end")
	}
	return v.Err()
}

// CreateResult is the body returned by the create endpoint.
type CreateResult struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (r CreateResult) Validate() error {
	return (&validate.Validator{}).Required("id", r.ID).Err()
}

// UploadResult is the body returned by the image upload endpoint.
type UploadResult struct {
	URL string `json:"url"`
}

func (r UploadResult) Validate() error {
	return (&validate.Validator{}).Required("url", r.URL).Err()
}

// ApartmentPage is one page of the list endpoint. A bare JSON array is
// accepted as a single page holding every item.
type ApartmentPage struct {
	TotalPages  int         `json:"total_pages"`
	CurrentPage int         `json:"current_page"`
	TotalItems  int         `json:"total_items"`
	Results     []Apartment `json:"results"`
}

func (p *ApartmentPage) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Apartment
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*p = ApartmentPage{TotalPages: 1, CurrentPage: 1, TotalItems: len(items), Results: items}
		return nil
	}

	type plain ApartmentPage
	var out plain
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	if out.Results == nil {
		out.Results = []Apartment{}
	}
	*p = ApartmentPage(out)
	return nil
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
