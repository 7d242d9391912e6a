package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chargehub/chargehub-go/internal/model"
	"github.com/chargehub/chargehub-go/internal/repository"
)

const maxStationNameLength = 255

var (
	ErrInvalidStation  = errors.New("invalid station")
	ErrInvalidFilter   = errors.New("invalid filter")
	ErrStationNotFound = errors.New("charging station not found")
	ErrForbidden       = errors.New("not authorized to modify this station")
)

// StationRepository is the storage contract used by StationService.
type StationRepository interface {
	Create(ctx context.Context, s *model.Station) error
	List(ctx context.Context, filter model.StationFilter) ([]model.Station, error)
	GetByID(ctx context.Context, id string) (*model.Station, error)
	Update(ctx context.Context, s *model.Station) error
	Delete(ctx context.Context, id string) error
}

// IsOwner reports whether callerID owns station. An empty callerID (an
// anonymous request) never owns anything.
func IsOwner(station *model.Station, callerID string) bool {
	return callerID != "" && station.OwnerID == callerID
}

// StationService handles charging station business logic.
type StationService struct {
	repo   StationRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewStationService creates a new StationService.
func NewStationService(repo StationRepository, logger *zap.Logger) *StationService {
	return &StationService{
		repo:   repo,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Create stores a new station owned by ownerID. Every field is required.
func (s *StationService) Create(ctx context.Context, ownerID string, req model.StationRequest) (model.StationResponse, error) {
	if err := requireAllFields(req); err != nil {
		return model.StationResponse{}, err
	}

	now := s.now()
	station := &model.Station{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyRequest(station, req); err != nil {
		return model.StationResponse{}, err
	}

	if err := s.repo.Create(ctx, station); err != nil {
		return model.StationResponse{}, err
	}

	s.logger.Info("station created", zap.String("station_id", station.ID), zap.String("owner_id", ownerID))

	return toResponse(station, ownerID), nil
}

// List returns the stations matching filter, each annotated for callerID.
func (s *StationService) List(ctx context.Context, callerID string, filter model.StationFilter) ([]model.StationResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, filter.Status)
	}
	if filter.ConnectorType != "" && !filter.ConnectorType.Valid() {
		return nil, fmt.Errorf("%w: unknown connector type %q", ErrInvalidFilter, filter.ConnectorType)
	}

	stations, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := make([]model.StationResponse, len(stations))
	for i := range stations {
		result[i] = toResponse(&stations[i], callerID)
	}
	return result, nil
}

// Get returns one station. callerID may be empty for anonymous requests.
func (s *StationService) Get(ctx context.Context, callerID, id string) (model.StationResponse, error) {
	station, err := s.find(ctx, id)
	if err != nil {
		return model.StationResponse{}, err
	}
	return toResponse(station, callerID), nil
}

// Update applies the supplied fields of req to a station owned by callerID.
func (s *StationService) Update(ctx context.Context, callerID, id string, req model.StationRequest) (model.StationResponse, error) {
	station, err := s.findOwned(ctx, callerID, id)
	if err != nil {
		return model.StationResponse{}, err
	}

	if err := applyRequest(station, req); err != nil {
		return model.StationResponse{}, err
	}
	station.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, station); err != nil {
		return model.StationResponse{}, err
	}

	s.logger.Info("station updated", zap.String("station_id", station.ID), zap.String("owner_id", callerID))

	return toResponse(station, callerID), nil
}

// Delete removes a station owned by callerID.
func (s *StationService) Delete(ctx context.Context, callerID, id string) error {
	station, err := s.findOwned(ctx, callerID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, station.ID); err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return ErrStationNotFound
		}
		return err
	}

	s.logger.Info("station deleted", zap.String("station_id", station.ID), zap.String("owner_id", callerID))
	return nil
}

func (s *StationService) find(ctx context.Context, id string) (*model.Station, error) {
	// Ids are UUIDs; anything else cannot exist.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrStationNotFound
	}

	station, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return station, nil
}

func (s *StationService) findOwned(ctx context.Context, callerID, id string) (*model.Station, error) {
	station, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !IsOwner(station, callerID) {
		s.logger.Warn("station ownership check failed",
			zap.String("station_id", station.ID),
			zap.String("caller_id", callerID),
		)
		return nil, ErrForbidden
	}
	return station, nil
}

func requireAllFields(req model.StationRequest) error {
	var missing []string
	if req.Name == nil {
		missing = append(missing, "name")
	}
	if req.Location == nil || req.Location.Lat == nil {
		missing = append(missing, "location.lat")
	}
	if req.Location == nil || req.Location.Lng == nil {
		missing = append(missing, "location.lng")
	}
	if req.Status == nil {
		missing = append(missing, "status")
	}
	if req.PowerOutput == nil {
		missing = append(missing, "powerOutput")
	}
	if req.ConnectorType == nil {
		missing = append(missing, "connectorType")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrInvalidStation, strings.Join(missing, ", "))
	}
	return nil
}

// applyRequest validates every supplied field of req and copies it onto
// station. Nothing is written unless all supplied fields are valid.
func applyRequest(station *model.Station, req model.StationRequest) error {
	next := *station

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > maxStationNameLength {
			return fmt.Errorf("%w: name must be between 1 and %d characters", ErrInvalidStation, maxStationNameLength)
		}
		next.Name = name
	}
	if req.Location != nil {
		if req.Location.Lat != nil {
			lat := *req.Location.Lat
			if math.IsNaN(lat) || lat < -90 || lat > 90 {
				return fmt.Errorf("%w: location.lat must be between -90 and 90", ErrInvalidStation)
			}
			next.Location.Lat = lat
		}
		if req.Location.Lng != nil {
			lng := *req.Location.Lng
			if math.IsNaN(lng) || lng < -180 || lng > 180 {
				return fmt.Errorf("%w: location.lng must be between -180 and 180", ErrInvalidStation)
			}
			next.Location.Lng = lng
		}
	}
	if req.Status != nil {
		status := model.StationStatus(*req.Status)
		if !status.Valid() {
			return fmt.Errorf("%w: status must be Active or Inactive", ErrInvalidStation)
		}
		next.Status = status
	}
	if req.PowerOutput != nil {
		power := *req.PowerOutput
		if math.IsNaN(power) || math.IsInf(power, 0) || power <= 0 {
			return fmt.Errorf("%w: powerOutput must be a positive number", ErrInvalidStation)
		}
		next.PowerOutput = power
	}
	if req.ConnectorType != nil {
		connector := model.ConnectorType(*req.ConnectorType)
		if !connector.Valid() {
			return fmt.Errorf("%w: connectorType must be one of Type 1, Type 2, CCS, CHAdeMO, Tesla", ErrInvalidStation)
		}
		next.ConnectorType = connector
	}

	*station = next
	return nil
}

func toResponse(station *model.Station, callerID string) model.StationResponse {
	return model.StationResponse{
		ID:            station.ID,
		Name:          station.Name,
		Location:      station.Location,
		Status:        station.Status,
		PowerOutput:   station.PowerOutput,
		ConnectorType: station.ConnectorType,
		OwnerID:       station.OwnerID,
		IsOwner:       IsOwner(station, callerID),
		CreatedAt:     station.CreatedAt,
		UpdatedAt:     station.UpdatedAt,
	}
}
