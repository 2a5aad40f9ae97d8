package services

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/rentdesk/internal/client/client"
	"github.com/dmitrijs2005/rentdesk/internal/client/models"
	"github.com/dmitrijs2005/rentdesk/internal/common"
	"github.com/dmitrijs2005/rentdesk/internal/logging"
	"github.com/dmitrijs2005/rentdesk/internal/validate"
)

// PatchableFields are the fields the backend applies on a partial update.
var PatchableFields = []string{"title", "description", "latitude", "longitude", "category", "main_photo"}

// maxDashboardPages bounds how many list pages Dashboard fetches.
const maxDashboardPages = 50

// ApartmentService manages the listings of the signed-in account. Every
// call is authenticated; ids must be UUIDs and are checked before any
// request is made.
type ApartmentService interface {
	List(ctx context.Context, q models.ListQuery) (models.ApartmentPage, error)
	Get(ctx context.Context, id string) (models.Apartment, error)
	Create(ctx context.Context, in models.ApartmentInput) (models.CreateResult, error)
	Update(ctx context.Context, id string, in models.ApartmentInput) error
	Patch(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
	UploadImage(ctx context.Context, fileName string, r io.Reader) (models.UploadResult, error)
	Dashboard(ctx context.Context) (models.DashboardStats, error)
}

type apartmentService struct {
	client apiClient
	logger logging.Logger
}

func NewApartmentService(c apiClient, logger logging.Logger) ApartmentService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &apartmentService{client: c, logger: logger}
}

func checkID(id string) error {
	if err := (&validate.Validator{}).UUID("id", id).Err(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInvalidID, err)
	}
	return nil
}

func (s *apartmentService) List(ctx context.Context, q models.ListQuery) (models.ApartmentPage, error) {
	if err := q.Validate(); err != nil {
		return models.ApartmentPage{}, err
	}

	page, err := client.Decode[models.ApartmentPage](s.client.Get(ctx, apartmentsPath, client.WithQuery(q.Values())))
	if err != nil {
		return models.ApartmentPage{}, fmt.Errorf("list apartments: %w", err)
	}
	return page, nil
}

func (s *apartmentService) Get(ctx context.Context, id string) (models.Apartment, error) {
	if err := checkID(id); err != nil {
		return models.Apartment{}, err
	}

	apt, err := client.Decode[models.Apartment](s.client.Get(ctx, apartmentPath(id)))
	if err != nil {
		return models.Apartment{}, fmt.Errorf("get apartment %s: %w", id, err)
	}
	return apt, nil
}

func (s *apartmentService) Create(ctx context.Context, in models.ApartmentInput) (models.CreateResult, error) {
	if err := in.Validate(); err != nil {
		return models.CreateResult{}, err
	}

	res, err := client.Decode[models.CreateResult](s.client.Post(ctx, apartmentCreatePath, in))
	if err != nil {
		return models.CreateResult{}, fmt.Errorf("create apartment: %w", err)
	}

	s.logger.Info(ctx, "apartment created", "id", res.ID)
	return res, nil
}

func (s *apartmentService) Update(ctx context.Context, id string, in models.ApartmentInput) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return err
	}

	if _, err := s.client.Put(ctx, apartmentUpdatePath(id), in); err != nil {
		return fmt.Errorf("update apartment %s: %w", id, err)
	}
	return nil
}

// Patch sends a partial update. Only PatchableFields are accepted.
func (s *apartmentService) Patch(ctx context.Context, id string, fields map[string]any) error {
	if err := checkID(id); err != nil {
		return err
	}

	v := &validate.Validator{}
	v.Custom("fields", len(fields) == 0, "nothing to update")
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v.Custom(k, !slices.Contains(PatchableFields, k),
			"cannot be patched; allowed: "+strings.Join(PatchableFields, ", "))
	}
	if err := v.Err(); err != nil {
		return err
	}

	if _, err := s.client.Patch(ctx, apartmentUpdatePath(id), fields); err != nil {
		return fmt.Errorf("patch apartment %s: %w", id, err)
	}
	return nil
}

func (s *apartmentService) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	if _, err := s.client.Delete(ctx, apartmentDeletePath(id)); err != nil {
		return fmt.Errorf("delete apartment %s: %w", id, err)
	}

	s.logger.Info(ctx, "apartment deleted", "id", id)
	return nil
}

// UploadImage sends r as the multipart field "file" and returns the hosted URL.
func (s *apartmentService) UploadImage(ctx context.Context, fileName string, r io.Reader) (models.UploadResult, error) {
	v := (&validate.Validator{}).Required("file_name", fileName).
		Custom("file", r == nil, "is required")
	if err := v.Err(); err != nil {
		return models.UploadResult{}, err
	}

	form := client.NewForm().AddFile("file", fileName, r)
	res, err := client.Decode[models.UploadResult](s.client.UploadFile(ctx, apartmentUploadPath, form))
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("upload %s: %w", fileName, err)
	}
	return res, nil
}

// Dashboard walks every page of the listing and summarizes it.
func (s *apartmentService) Dashboard(ctx context.Context) (models.DashboardStats, error) {
	var all []models.Apartment
	for p := 1; p <= maxDashboardPages; p++ {
		page, err := s.List(ctx, models.ListQuery{Page: p})
		if err != nil {
			return models.DashboardStats{}, fmt.Errorf("dashboard: %w", err)
		}
		all = append(all, page.Results...)
		if page.CurrentPage >= page.TotalPages || len(page.Results) == 0 {
			break
		}
	}
	return models.NewDashboardStats(all), nil
}
