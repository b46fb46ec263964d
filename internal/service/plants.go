package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"plant_monitor/internal/models"
	"plant_monitor/internal/repository"
)

var (
	ErrPlantNotFound      = errors.New("plant not found")
	errPlantNameRequired  = errors.New("plant name is required")
	errSensorNodeRequired = errors.New("sensor node is required")
	errStatusRequired     = errors.New("status is required")
)

// PlantService keeps the plant registry and the latest health verdicts.
type PlantService struct {
	repo        repository.PlantRepo
	sensorNodes []string
	now         func() time.Time
}

// NewPlantService builds the registry. When sensorNodes is non-empty, plants
// can only be bound to one of them.
func NewPlantService(repo repository.PlantRepo, sensorNodes []string) *PlantService {
	return &PlantService{repo: repo, sensorNodes: sensorNodes, now: time.Now}
}

func (s *PlantService) AddPlant(ctx context.Context, in NewPlant) (models.Plant, error) {
	name := strings.TrimSpace(in.Name)
	node := strings.TrimSpace(in.SensorNode)
	if name == "" {
		return models.Plant{}, fmt.Errorf("%w: %v", ErrInvalidRequest, errPlantNameRequired)
	}
	if node == "" {
		return models.Plant{}, fmt.Errorf("%w: %v", ErrInvalidRequest, errSensorNodeRequired)
	}
	if len(s.sensorNodes) > 0 && !slices.Contains(s.sensorNodes, node) {
		return models.Plant{}, fmt.Errorf("%w: unknown sensor node %q", ErrInvalidRequest, node)
	}

	now := s.now().UTC()
	p := models.Plant{
		ID:          uuid.NewString(),
		Name:        name,
		Species:     strings.TrimSpace(in.Species),
		SensorNode:  node,
		Status:      models.PlantStatusUnknown,
		LastUpdated: now,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return models.Plant{}, err
	}
	return p, nil
}

func (s *PlantService) ListPlants(ctx context.Context) ([]models.Plant, error) {
	return s.repo.List(ctx)
}

func (s *PlantService) GetPlant(ctx context.Context, id string) (models.Plant, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return models.Plant{}, err
	}
	if p == nil {
		return models.Plant{}, ErrPlantNotFound
	}
	return *p, nil
}

// UpdatePlantStatus stores a worker verdict such as "healthy", a disease label
// or "Unknown".
func (s *PlantService) UpdatePlantStatus(ctx context.Context, id, status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, errStatusRequired)
	}
	ok, err := s.repo.UpdateStatus(ctx, id, status, s.now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrPlantNotFound
	}
	return nil
}
