package prediction

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "metrofleet/analyst-api/internal/domain/prediction"
	"metrofleet/analyst-api/internal/infrastructure/database/entities"
	"metrofleet/analyst-api/internal/utils/platformerrors"
)

// PostgresRepository provides persistence for predictions.
type PostgresRepository struct {
	db *gorm.DB
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Ensure interface compliance.
var _ domain.Repository = (*PostgresRepository)(nil)

// Create inserts a new prediction record.
func (r *PostgresRepository) Create(ctx context.Context, pred *domain.Prediction) error {
	entity := mapToEntity(pred)
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create prediction",
			err,
		)
	}
	pred.ID = entity.ID
	return nil
}

// FindByPublicID fetches a prediction and hydrates the domain model.
func (r *PostgresRepository) FindByPublicID(ctx context.Context, publicID string) (*domain.Prediction, error) {
	var entity entities.Prediction
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				"prediction not found",
				err,
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find prediction by public id",
			err,
		)
	}
	return mapFromEntity(&entity), nil
}

// List returns recent predictions, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Prediction, error) {
	var rows []entities.Prediction
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(filter.Limit).
		Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list predictions",
			err,
		)
	}

	predictions := make([]domain.Prediction, 0, len(rows))
	for i := range rows {
		predictions = append(predictions, *mapFromEntity(&rows[i]))
	}
	return predictions, nil
}

func mapToEntity(pred *domain.Prediction) *entities.Prediction {
	return &entities.Prediction{
		ID:                pred.ID,
		PublicID:          pred.PublicID,
		PickupLocationID:  pred.PickupLocationID,
		DropoffLocationID: pred.DropoffLocationID,
		PickupDatetime:    pred.PickupDatetime,
		TripDistance:      pred.TripDistance,
		PredictedFare:     pred.PredictedFare,
		Currency:          pred.Currency,
		ModelVersion:      pred.ModelVersion,
		ModelInputs:       datatypes.JSON(pred.ModelInputs),
		CreatedAt:         pred.CreatedAt,
	}
}

func mapFromEntity(entity *entities.Prediction) *domain.Prediction {
	return &domain.Prediction{
		ID:                entity.ID,
		PublicID:          entity.PublicID,
		PickupLocationID:  entity.PickupLocationID,
		DropoffLocationID: entity.DropoffLocationID,
		PickupDatetime:    entity.PickupDatetime,
		TripDistance:      entity.TripDistance,
		PredictedFare:     entity.PredictedFare,
		Currency:          entity.Currency,
		ModelVersion:      entity.ModelVersion,
		ModelInputs:       json.RawMessage(entity.ModelInputs),
		CreatedAt:         entity.CreatedAt,
	}
}
