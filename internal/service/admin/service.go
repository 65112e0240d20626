// Package admin edits the remote equipment catalog. Every mutation is
// followed by a full resync of the reconciled list, whether it succeeded or
// not, so the device never assumes an optimistic write.
package admin

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/brick/gearlist/internal/auth"
	"github.com/brick/gearlist/internal/domain/models"
	"github.com/brick/gearlist/internal/repository/remote"
)

// ErrInvalidEquipment wraps validation failures of catalog input.
var ErrInvalidEquipment = errors.New("invalid equipment")

// Catalog is the remote equipment table.
type Catalog interface {
	List(ctx context.Context) ([]models.EquipmentRecord, error)
	Add(ctx context.Context, rec models.EquipmentRecord) (models.EquipmentRecord, error)
	Update(ctx context.Context, id int64, rec models.EquipmentRecord) error
	Delete(ctx context.Context, id int64) error
}

// Resyncer refreshes the reconciled list after a catalog change.
type Resyncer interface {
	FetchEquipment(ctx context.Context) []models.EquipmentRecord
}

// Verifier checks admin access tokens.
type Verifier interface {
	Verify(token auth.AccessToken) error
}

// Service implements the admin operations.
type Service struct {
	catalog Catalog
	sync    Resyncer
	gate    Verifier
	logger  *zap.Logger
}

// NewService wires the admin service. A nil catalog means offline mode.
func NewService(catalog Catalog, sync Resyncer, gate Verifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, sync: sync, gate: gate, logger: logger}
}

// Validate normalizes rec in place and checks the catalog rules.
func Validate(rec *models.EquipmentRecord) error {
	rec.Normalize()
	switch {
	case rec.Description == "":
		return fmt.Errorf("%w: description is required", ErrInvalidEquipment)
	case rec.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidEquipment)
	case rec.Quantity < 1:
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidEquipment)
	}
	return nil
}

func (s *Service) available() error {
	if s.catalog == nil {
		return fmt.Errorf("catalog requires the remote store: %w", remote.ErrUnavailable)
	}
	return nil
}

// List returns the catalog ordered by id.
func (s *Service) List(ctx context.Context, token auth.AccessToken) ([]models.EquipmentRecord, error) {
	if err := s.gate.Verify(token); err != nil {
		return nil, err
	}
	if err := s.available(); err != nil {
		return nil, err
	}
	records, err := s.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.EquipmentRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.CatalogOnly())
	}
	return out, nil
}

// Add creates a catalog entry.
func (s *Service) Add(ctx context.Context, token auth.AccessToken, rec models.EquipmentRecord) (models.EquipmentRecord, error) {
	if err := s.precheck(token, &rec); err != nil {
		return models.EquipmentRecord{}, err
	}
	defer s.resync(ctx)

	created, err := s.catalog.Add(ctx, rec.CatalogOnly())
	if err != nil {
		s.logger.Error("failed to add equipment", zap.String("description", rec.Description), zap.Error(err))
		return models.EquipmentRecord{}, err
	}
	s.logger.Info("equipment added", zap.Int64("id", created.ID), zap.String("description", created.Description))
	return created, nil
}

// Update replaces the catalog fields of one entry. Local fields on rec are
// ignored.
func (s *Service) Update(ctx context.Context, token auth.AccessToken, id int64, rec models.EquipmentRecord) error {
	if err := s.precheck(token, &rec); err != nil {
		return err
	}
	defer s.resync(ctx)

	if err := s.catalog.Update(ctx, id, rec.CatalogOnly()); err != nil {
		s.logger.Error("failed to update equipment", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("equipment updated", zap.Int64("id", id))
	return nil
}

// Delete removes one entry.
func (s *Service) Delete(ctx context.Context, token auth.AccessToken, id int64) error {
	if err := s.gate.Verify(token); err != nil {
		return err
	}
	if err := s.available(); err != nil {
		return err
	}
	defer s.resync(ctx)

	if err := s.catalog.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete equipment", zap.Int64("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("equipment deleted", zap.Int64("id", id))
	return nil
}

func (s *Service) precheck(token auth.AccessToken, rec *models.EquipmentRecord) error {
	if err := s.gate.Verify(token); err != nil {
		return err
	}
	if err := s.available(); err != nil {
		return err
	}
	return Validate(rec)
}

func (s *Service) resync(ctx context.Context) {
	if s.sync == nil {
		return
	}
	items := s.sync.FetchEquipment(ctx)
	s.logger.Debug("reconciled list resynced", zap.Int("items", len(items)))
}
