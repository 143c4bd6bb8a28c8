package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-backend/internal/logger"
	"github.com/yungbote/storefront-backend/internal/repos"
	"github.com/yungbote/storefront-backend/internal/requestdata"
	"github.com/yungbote/storefront-backend/internal/types"
)

type OrderService interface {
	GetMyOrders(ctx context.Context) ([]*types.Order, error)
}

type orderService struct {
	db        *gorm.DB
	log       *logger.Logger
	orderRepo repos.OrderRepo
}

func NewOrderService(db *gorm.DB, log *logger.Logger, orderRepo repos.OrderRepo) OrderService {
	serviceLog := log.With("service", "OrderService")
	return &orderService{db: db, log: serviceLog, orderRepo: orderRepo}
}

func (os *orderService) GetMyOrders(ctx context.Context) ([]*types.Order, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	orders, err := os.orderRepo.GetByUserIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("error fetching orders: %w", err)
	}
	if orders == nil {
		orders = []*types.Order{}
	}
	return orders, nil
}
