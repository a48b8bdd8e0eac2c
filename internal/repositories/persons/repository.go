package persons

import (
	"context"

	"github.com/dmitrijs2005/gotrepository/internal/models"
)

type Repository interface {
	Save(ctx context.Context, person models.Person) (*models.Person, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	Find(ctx context.Context, id int64) (*models.Person, error)
	FindByHouse(ctx context.Context, house string) ([]models.Person, error)
	Count(ctx context.Context) (int64, error)
}
