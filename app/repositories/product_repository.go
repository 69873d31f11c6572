package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/orm"
)

// ProductStore is the persistence boundary for products.
type ProductStore interface {
	Create(ctx context.Context, f models.ProductFields) (*models.Product, error)
	Find(ctx context.Context, id uint) (*models.Product, error)
	Update(ctx context.Context, id uint, f models.ProductFields) (*models.Product, error)
	Delete(ctx context.Context, id uint) error
	Paginate(ctx context.Context, page, perPage int) ([]models.Product, int64, error)
	All(ctx context.Context) ([]models.Product, error)
	Count(ctx context.Context) (int64, error)
}

// ProductRepository is the gorm implementation of ProductStore.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ ProductStore = (*ProductRepository)(nil)

func (r *ProductRepository) Create(ctx context.Context, f models.ProductFields) (*models.Product, error) {
	p := &models.Product{Name: f.Name, Price: f.Price.Round(2)}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("products: create: %w", err)
	}
	return p, nil
}

// Find returns models.ErrNotFound when id does not exist.
func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("products: find %d: %w", id, err)
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, id uint, f models.ProductFields) (*models.Product, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = f.Name
	p.Price = f.Price.Round(2)
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("products: update %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("products: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Paginate returns one page in ascending id order plus the total row count.
func (r *ProductRepository) Paginate(ctx context.Context, page, perPage int) ([]models.Product, int64, error) {
	var total int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("products: count: %w", err)
	}

	p := orm.NewPagination(page, perPage, total)
	items := make([]models.Product, 0, p.PerPage)
	if err := db.Scopes(orm.Paginate(p)).Order("id ASC").Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("products: page %d: %w", p.Page, err)
	}
	return items, total, nil
}

func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	items := []models.Product{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("products: all: %w", err)
	}
	return items, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("products: count: %w", err)
	}
	return n, nil
}
