package database

import (
	"github.com/wekeepgrowing/shop-stripe/internal/adapter/repository"
	domainRepo "github.com/wekeepgrowing/shop-stripe/internal/domain/repository"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User            domainRepo.UserRepository
	Cart            domainRepo.CartRepository
	Order           domainRepo.OrderRepository
	CustomerMapping domainRepo.CustomerMappingRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:            repository.NewUserRepository(db),
		Cart:            repository.NewCartRepository(db),
		Order:           repository.NewOrderRepository(db),
		CustomerMapping: repository.NewCustomerMappingRepository(db),
	}
}
