package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wrd-mh/pah-award-api/internal/dto"
	"github.com/wrd-mh/pah-award-api/internal/models"
	appErrors "github.com/wrd-mh/pah-award-api/pkg/errors"
)

type wuaRepository interface {
	FindByID(ctx context.Context, id string) (*models.WUA, error)
	FindByRegistrationNumber(ctx context.Context, regNo string) (*models.WUA, error)
	List(ctx context.Context, filter models.WUAFilter) ([]models.WUA, error)
	Create(ctx context.Context, wua *models.WUA) error
	Update(ctx context.Context, wua *models.WUA) error
}

// WUAService manages the Water User Association registry.
type WUAService struct {
	repo      wuaRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewWUAService creates an instance of WUAService.
func NewWUAService(repo wuaRepository, validate *validator.Validate, logger *zap.Logger) *WUAService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &WUAService{repo: repo, validator: validate, logger: logger}
}

// Get returns an association by ID.
func (s *WUAService) Get(ctx context.Context, id string) (*models.WUA, error) {
	wua, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "association not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load association")
	}
	return wua, nil
}

// List returns associations matching the filter.
func (s *WUAService) List(ctx context.Context, filter models.WUAFilter) ([]models.WUA, error) {
	wuas, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list associations")
	}
	return wuas, nil
}

// Create registers an association. The registration number must be
// unique across the registry.
func (s *WUAService) Create(ctx context.Context, req dto.CreateWUARequest) (*models.WUA, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid association payload")
	}

	regNo := strings.TrimSpace(req.RegistrationNumber)
	if _, err := s.repo.FindByRegistrationNumber(ctx, regNo); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration number already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check registration number")
	}

	wua := &models.WUA{
		RegistrationNumber: regNo,
		Name:               strings.TrimSpace(req.Name),
		District:           req.District,
		Circle:             req.Circle,
		Corporation:        req.Corporation,
		Category:           req.Category,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
		Active:             true,
	}
	if err := s.repo.Create(ctx, wua); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create association")
	}
	return wua, nil
}

// Update modifies mutable association fields. The registration number
// and the category never change once registered.
func (s *WUAService) Update(ctx context.Context, id string, req dto.UpdateWUARequest) (*models.WUA, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid association payload")
	}

	wua, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		wua.Name = strings.TrimSpace(*req.Name)
	}
	if req.District != nil {
		wua.District = *req.District
	}
	if req.Circle != nil {
		wua.Circle = *req.Circle
	}
	if req.Corporation != nil {
		wua.Corporation = *req.Corporation
	}
	if req.ContactEmail != nil {
		wua.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		wua.ContactPhone = *req.ContactPhone
	}
	if req.Active != nil {
		wua.Active = *req.Active
	}

	if err := s.repo.Update(ctx, wua); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update association")
	}
	return wua, nil
}
