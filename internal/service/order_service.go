package service

import (
	"errors"
	"log"

	"vendora/internal/domain"
	"vendora/internal/models"
	"vendora/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartItem struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OrderService owns order records: creation with server-recomputed totals and
// the idempotent status transition every webhook funnels into.
type OrderService struct {
	stores   *repository.StoreRepository
	products *repository.ProductRepository
	orders   *repository.OrderRepository
}

func NewOrderService(stores *repository.StoreRepository, products *repository.ProductRepository, orders *repository.OrderRepository) *OrderService {
	return &OrderService{stores: stores, products: products, orders: orders}
}

// CreateOrder re-fetches every unit price from the store's catalog and snapshots
// it into the order. Items not found in that store's catalog are dropped, not
// fatal; an order with nothing left is refused. Whatever amount the client sent
// is never read.
func (s *OrderService) CreateOrder(storeID uint, items []CartItem, customer Customer, paymentMethod string) (*models.Order, error) {
	store, err := s.stores.GetByID(storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrStoreNotFound
		}
		return nil, err
	}
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	catalog, err := s.products.GetActiveByIDs(storeID, ids)
	if err != nil {
		return nil, err
	}
	var orderItems []models.OrderItem
	var subtotal int64
	for _, it := range items {
		p, ok := catalog[it.ProductID]
		if !ok {
			log.Printf("[Order] dropping item product_id=%d: not in store %d catalog", it.ProductID, storeID)
			continue
		}
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		orderItems = append(orderItems, models.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  qty,
		})
		subtotal += p.Price * int64(qty)
	}
	if len(orderItems) == 0 {
		return nil, domain.ErrEmptyCart
	}
	order := &models.Order{
		ID:            uuid.New().String(),
		StoreID:       storeID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Items:         orderItems,
		Subtotal:      subtotal,
		Total:         subtotal,
		Currency:      store.Currency,
		Status:        domain.OrderPending,
		PaymentMethod: paymentMethod,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, err
	}
	log.Printf("[Order] created order=%s store=%d items=%d total=%d %s", order.ID, storeID, len(orderItems), order.Total, order.Currency)
	return order, nil
}

var allowedNext = map[string]map[string]bool{
	domain.OrderPending:   {domain.OrderConfirmed: true, domain.OrderCancelled: true},
	domain.OrderConfirmed: {domain.OrderShipped: true, domain.OrderCancelled: true},
	domain.OrderShipped:   {domain.OrderDelivered: true},
}

// TransitionStatus applies a forward-only transition as one atomic conditional
// write. Asking to confirm an order that is already confirmed or later is a
// silent no-op (applied=false, nil error): that is what makes webhook replay
// safe. Everything else out of order is ErrInvalidTransition.
func (s *OrderService) TransitionStatus(orderID, newStatus string) (bool, error) {
	order, err := s.orders.GetByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, domain.ErrOrderNotFound
		}
		return false, err
	}
	current := order.Status
	if newStatus == domain.OrderConfirmed && domain.StatusRank(current) >= domain.StatusRank(domain.OrderConfirmed) {
		return false, nil
	}
	if !allowedNext[current][newStatus] {
		log.Printf("[Order] invalid transition order=%s %s -> %s", orderID, current, newStatus)
		return false, domain.ErrInvalidTransition
	}
	applied, err := s.orders.UpdateStatusIf(orderID, current, newStatus)
	if err != nil {
		return false, err
	}
	if applied {
		log.Printf("[Order] order=%s %s -> %s", orderID, current, newStatus)
		return true, nil
	}
	// Lost a race with a concurrent transition; re-read and decide.
	fresh, err := s.orders.GetByID(orderID)
	if err != nil {
		return false, err
	}
	if newStatus == domain.OrderConfirmed && domain.StatusRank(fresh.Status) >= domain.StatusRank(domain.OrderConfirmed) {
		return false, nil
	}
	return false, domain.ErrInvalidTransition
}
